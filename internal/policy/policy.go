// Package policy maps console roles onto capability sets. Handlers gate
// routes on it and services consult it again before every mutation, so a
// missing middleware check never widens what a role can do.
package policy

import "github.com/vaguthu/election-console/internal/models"

// Capabilities is the set of actions a role may perform.
type Capabilities struct {
	CanCreateVoter      bool `json:"can_create_voter"`
	CanDeleteVoter      bool `json:"can_delete_voter"`
	CanEditVoterDetails bool `json:"can_edit_voter_details"`
	CanEditVoteStatus   bool `json:"can_edit_vote_status"`
	CanManageLists      bool `json:"can_manage_lists"`
	ReadOnly            bool `json:"read_only"`
}

// ForRole returns the capability set for a role. Unknown roles get the
// read-only set.
func ForRole(role models.UserRole) Capabilities {
	switch role {
	case models.RoleAdmin:
		return Capabilities{
			CanCreateVoter:      true,
			CanDeleteVoter:      true,
			CanEditVoterDetails: true,
			CanEditVoteStatus:   true,
			CanManageLists:      true,
		}
	case models.RoleMamdhoob:
		return Capabilities{
			CanEditVoteStatus: true,
		}
	default:
		return Capabilities{ReadOnly: true}
	}
}
