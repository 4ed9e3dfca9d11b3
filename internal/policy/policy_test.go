package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vaguthu/election-console/internal/models"
)

func TestForRoleTable(t *testing.T) {
	cases := []struct {
		role models.UserRole
		want Capabilities
	}{
		{
			role: models.RoleAdmin,
			want: Capabilities{
				CanCreateVoter:      true,
				CanDeleteVoter:      true,
				CanEditVoterDetails: true,
				CanEditVoteStatus:   true,
				CanManageLists:      true,
				ReadOnly:            false,
			},
		},
		{
			role: models.RoleMamdhoob,
			want: Capabilities{
				CanEditVoteStatus: true,
			},
		},
		{
			role: models.RoleUser,
			want: Capabilities{ReadOnly: true},
		},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			assert.Equal(t, tc.want, ForRole(tc.role))
		})
	}
}

func TestForRoleUnknownIsReadOnly(t *testing.T) {
	caps := ForRole(models.UserRole("observer"))
	assert.True(t, caps.ReadOnly)
	assert.Equal(t, Capabilities{ReadOnly: true}, caps)
}
