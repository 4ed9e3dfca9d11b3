package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/vaguthu/election-console/internal/models"
	"github.com/vaguthu/election-console/internal/policy"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
)

type voterRepository interface {
	FindByID(ctx context.Context, id string) (*models.Voter, error)
	FindByIDCard(ctx context.Context, idCard string) (*models.Voter, error)
	List(ctx context.Context, filter models.VoterFilter) ([]models.Voter, error)
	Create(ctx context.Context, voter *models.Voter) error
	Update(ctx context.Context, voter *models.Voter) error
	SetVoteStatus(ctx context.Context, id string, hasVoted bool) error
	Delete(ctx context.Context, id string) error
}

type islandChecker interface {
	IslandNameExists(ctx context.Context, name string) (bool, error)
}

// CreateVoterRequest represents payload for registering a voter.
type CreateVoterRequest struct {
	IDCard       string  `json:"id_card"`
	FullName     string  `json:"full_name"`
	Gender       string  `json:"gender"`
	Address      string  `json:"address"`
	Island       string  `json:"island"`
	Phone        *string `json:"phone"`
	Party        *string `json:"party"`
	Sheema       bool    `json:"sheema"`
	Sadiq        bool    `json:"sadiq"`
	Communicated bool    `json:"communicated"`
	Notes        *string `json:"notes"`
}

// UpdateVoterRequest represents payload for editing voter details.
type UpdateVoterRequest struct {
	IDCard       string  `json:"id_card"`
	FullName     string  `json:"full_name"`
	Gender       string  `json:"gender"`
	Address      string  `json:"address"`
	Island       string  `json:"island"`
	Phone        *string `json:"phone"`
	Party        *string `json:"party"`
	HasVoted     bool    `json:"has_voted"`
	Sheema       bool    `json:"sheema"`
	Sadiq        bool    `json:"sadiq"`
	Communicated bool    `json:"communicated"`
	Notes        *string `json:"notes"`
}

// VoterService owns the voter registry workflows. Every mutation re-checks
// the role capability even though routes are already gated, so a handler
// wiring mistake cannot widen what a role may do.
type VoterService struct {
	repo    voterRepository
	islands islandChecker
	cache   *CacheService
	logger  *zap.Logger
}

// NewVoterService creates an instance of VoterService.
func NewVoterService(repo voterRepository, islands islandChecker, cache *CacheService, logger *zap.Logger) *VoterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VoterService{repo: repo, islands: islands, cache: cache, logger: logger}
}

// List returns voters matching the filter in presentation order: address
// then full name, both case-sensitive.
func (s *VoterService) List(ctx context.Context, filter models.VoterFilter) ([]models.Voter, error) {
	voters, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, wrapStore(err, "failed to list voters")
	}

	sort.SliceStable(voters, func(i, j int) bool {
		if voters[i].Address != voters[j].Address {
			return voters[i].Address < voters[j].Address
		}
		return voters[i].FullName < voters[j].FullName
	})
	return voters, nil
}

// Get returns a voter by ID.
func (s *VoterService) Get(ctx context.Context, id string) (*models.Voter, error) {
	voter, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "voter not found")
		}
		return nil, wrapStore(err, "failed to load voter")
	}
	return voter, nil
}

// Create registers a new voter. Admin only.
func (s *VoterService) Create(ctx context.Context, req CreateVoterRequest, role models.UserRole) (*models.Voter, error) {
	caps := policy.ForRole(role)
	if !caps.CanCreateVoter {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not register voters")
	}

	voter := &models.Voter{
		IDCard:       req.IDCard,
		FullName:     req.FullName,
		Gender:       models.Gender(req.Gender),
		Address:      req.Address,
		Island:       req.Island,
		Phone:        req.Phone,
		Party:        req.Party,
		Sheema:       req.Sheema,
		Sadiq:        req.Sadiq,
		Communicated: req.Communicated,
		Notes:        req.Notes,
	}

	if errs := s.validateRecord(ctx, voter, caps.CanEditVoterDetails); errs != nil {
		return nil, errs
	}

	if _, err := s.repo.FindByIDCard(ctx, voter.IDCard); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a voter with this id card is already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, wrapStore(err, "failed to check id card uniqueness")
	}

	if err := s.repo.Create(ctx, voter); err != nil {
		return nil, wrapStore(err, "failed to register voter")
	}

	s.invalidateDashboard(ctx)
	return voter, nil
}

// UpdateDetails overwrites the editable fields of a voter record. Requires
// the edit-details capability; mamdhoob and plain users are rejected here
// regardless of payload.
func (s *VoterService) UpdateDetails(ctx context.Context, id string, req UpdateVoterRequest, role models.UserRole) (*models.Voter, error) {
	caps := policy.ForRole(role)
	if !caps.CanEditVoterDetails {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not edit voter details")
	}

	voter, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "voter not found")
		}
		return nil, wrapStore(err, "failed to load voter")
	}

	voter.IDCard = req.IDCard
	voter.FullName = req.FullName
	voter.Gender = models.Gender(req.Gender)
	voter.Address = req.Address
	voter.Island = req.Island
	voter.Phone = req.Phone
	voter.Party = req.Party
	voter.HasVoted = req.HasVoted
	voter.Sheema = req.Sheema
	voter.Sadiq = req.Sadiq
	voter.Communicated = req.Communicated
	voter.Notes = req.Notes

	if errs := s.validateRecord(ctx, voter, caps.CanEditVoterDetails); errs != nil {
		return nil, errs
	}

	if err := s.repo.Update(ctx, voter); err != nil {
		return nil, wrapStore(err, "failed to update voter")
	}

	s.invalidateDashboard(ctx)
	return voter, nil
}

// SetVoteStatus flips has_voted. Allowed for admin and mamdhoob; every
// other field on the record is untouched.
func (s *VoterService) SetVoteStatus(ctx context.Context, id string, hasVoted bool, role models.UserRole) (*models.Voter, error) {
	caps := policy.ForRole(role)
	if !caps.CanEditVoteStatus {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not change vote status")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "voter not found")
		}
		return nil, wrapStore(err, "failed to load voter")
	}

	if err := s.repo.SetVoteStatus(ctx, id, hasVoted); err != nil {
		return nil, wrapStore(err, "failed to update vote status")
	}

	s.invalidateDashboard(ctx)
	return s.Get(ctx, id)
}

// Delete removes a voter record. Admin only.
func (s *VoterService) Delete(ctx context.Context, id string, role models.UserRole) error {
	if !policy.ForRole(role).CanDeleteVoter {
		return appErrors.Clone(appErrors.ErrForbidden, "role may not delete voters")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "voter not found")
		}
		return wrapStore(err, "failed to load voter")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapStore(err, "failed to delete voter")
	}

	s.invalidateDashboard(ctx)
	return nil
}

func (s *VoterService) validateRecord(ctx context.Context, voter *models.Voter, canEditDetails bool) error {
	errs := ValidateVoter(voter, canEditDetails)

	if canEditDetails && s.islands != nil {
		known, err := s.islands.IslandNameExists(ctx, voter.Island)
		if err != nil {
			return wrapStore(err, "failed to check island roster")
		}
		if !known {
			if errs == nil {
				errs = FieldErrors{}
			}
			errs["island"] = "UnknownIsland"
		}
	}

	if errs == nil {
		return nil
	}
	return errs
}

func (s *VoterService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "dash:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
