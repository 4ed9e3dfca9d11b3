package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/vaguthu/election-console/internal/models"
	"github.com/vaguthu/election-console/internal/policy"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
)

type rosterRepository interface {
	ListIslands(ctx context.Context) ([]models.Island, error)
	CreateIsland(ctx context.Context, island *models.Island) error
	DeleteIsland(ctx context.Context, id string) error
	IslandNameExists(ctx context.Context, name string) (bool, error)
	ListParties(ctx context.Context) ([]models.Party, error)
	CreateParty(ctx context.Context, party *models.Party) error
	DeleteParty(ctx context.Context, id string) error
	PartyNameExists(ctx context.Context, name string) (bool, error)
}

// RosterService manages the island and party name lists that feed the voter
// form dropdowns. Entries are append-only; there is no rename, and deleting
// one leaves any voter rows that reference the name untouched.
type RosterService struct {
	repo   rosterRepository
	logger *zap.Logger
}

// NewRosterService creates an instance of RosterService.
func NewRosterService(repo rosterRepository, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{repo: repo, logger: logger}
}

// ListIslands returns the island roster in display order.
func (s *RosterService) ListIslands(ctx context.Context) ([]models.Island, error) {
	islands, err := s.repo.ListIslands(ctx)
	if err != nil {
		return nil, wrapStore(err, "failed to list islands")
	}
	return islands, nil
}

// AddIsland appends an island to the roster. Admin only.
func (s *RosterService) AddIsland(ctx context.Context, name string, role models.UserRole) (*models.Island, error) {
	if !policy.ForRole(role).CanManageLists {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not manage the island list")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "island name is required")
	}

	exists, err := s.repo.IslandNameExists(ctx, name)
	if err != nil {
		return nil, wrapStore(err, "failed to check island name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "an island with this name already exists")
	}

	island := &models.Island{Name: name}
	if err := s.repo.CreateIsland(ctx, island); err != nil {
		return nil, wrapStore(err, "failed to add island")
	}
	return island, nil
}

// RemoveIsland deletes an island from the roster. Admin only.
func (s *RosterService) RemoveIsland(ctx context.Context, id string, role models.UserRole) error {
	if !policy.ForRole(role).CanManageLists {
		return appErrors.Clone(appErrors.ErrForbidden, "role may not manage the island list")
	}
	if err := s.repo.DeleteIsland(ctx, id); err != nil {
		return wrapStore(err, "failed to remove island")
	}
	return nil
}

// ListParties returns the party roster in display order.
func (s *RosterService) ListParties(ctx context.Context) ([]models.Party, error) {
	parties, err := s.repo.ListParties(ctx)
	if err != nil {
		return nil, wrapStore(err, "failed to list parties")
	}
	return parties, nil
}

// AddParty appends a party to the roster. Admin only.
func (s *RosterService) AddParty(ctx context.Context, name string, role models.UserRole) (*models.Party, error) {
	if !policy.ForRole(role).CanManageLists {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not manage the party list")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "party name is required")
	}

	exists, err := s.repo.PartyNameExists(ctx, name)
	if err != nil {
		return nil, wrapStore(err, "failed to check party name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a party with this name already exists")
	}

	party := &models.Party{Name: name}
	if err := s.repo.CreateParty(ctx, party); err != nil {
		return nil, wrapStore(err, "failed to add party")
	}
	return party, nil
}

// RemoveParty deletes a party from the roster. Admin only.
func (s *RosterService) RemoveParty(ctx context.Context, id string, role models.UserRole) error {
	if !policy.ForRole(role).CanManageLists {
		return appErrors.Clone(appErrors.ErrForbidden, "role may not manage the party list")
	}
	if err := s.repo.DeleteParty(ctx, id); err != nil {
		return wrapStore(err, "failed to remove party")
	}
	return nil
}
