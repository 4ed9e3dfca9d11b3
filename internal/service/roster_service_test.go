package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaguthu/election-console/internal/models"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
)

type fakeRosterRepo struct {
	islands []models.Island
	parties []models.Party
	deleted []string
}

func (f *fakeRosterRepo) ListIslands(_ context.Context) ([]models.Island, error) {
	return f.islands, nil
}

func (f *fakeRosterRepo) CreateIsland(_ context.Context, island *models.Island) error {
	island.ID = "island-new"
	island.Position = len(f.islands) + 1
	f.islands = append(f.islands, *island)
	return nil
}

func (f *fakeRosterRepo) DeleteIsland(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRosterRepo) IslandNameExists(_ context.Context, name string) (bool, error) {
	for _, i := range f.islands {
		if i.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRosterRepo) ListParties(_ context.Context) ([]models.Party, error) {
	return f.parties, nil
}

func (f *fakeRosterRepo) CreateParty(_ context.Context, party *models.Party) error {
	party.ID = "party-new"
	party.Position = len(f.parties) + 1
	f.parties = append(f.parties, *party)
	return nil
}

func (f *fakeRosterRepo) DeleteParty(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRosterRepo) PartyNameExists(_ context.Context, name string) (bool, error) {
	for _, p := range f.parties {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func TestRosterAddIsland(t *testing.T) {
	repo := &fakeRosterRepo{}
	svc := NewRosterService(repo, nil)

	island, err := svc.AddIsland(context.Background(), "  Thoddoo ", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Thoddoo", island.Name)
	assert.Equal(t, 1, island.Position)
}

func TestRosterAddIslandDuplicate(t *testing.T) {
	repo := &fakeRosterRepo{islands: []models.Island{{ID: "i1", Name: "Thoddoo", Position: 1}}}
	svc := NewRosterService(repo, nil)

	_, err := svc.AddIsland(context.Background(), "Thoddoo", models.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRosterManageForbiddenForNonAdmin(t *testing.T) {
	repo := &fakeRosterRepo{}
	svc := NewRosterService(repo, nil)

	for _, role := range []models.UserRole{models.RoleMamdhoob, models.RoleUser} {
		_, err := svc.AddIsland(context.Background(), "Rasdhoo", role)
		require.Error(t, err)

		_, err = svc.AddParty(context.Background(), "MDP", role)
		require.Error(t, err)

		err = svc.RemoveParty(context.Background(), "p1", role)
		require.Error(t, err)
	}
	assert.Empty(t, repo.islands)
	assert.Empty(t, repo.parties)
	assert.Empty(t, repo.deleted)
}

func TestRosterRemoveParty(t *testing.T) {
	repo := &fakeRosterRepo{parties: []models.Party{{ID: "p1", Name: "MDP", Position: 1}}}
	svc := NewRosterService(repo, nil)

	err := svc.RemoveParty(context.Background(), "p1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, repo.deleted)
}

func TestRosterAddPartyBlankName(t *testing.T) {
	svc := NewRosterService(&fakeRosterRepo{}, nil)

	_, err := svc.AddParty(context.Background(), "   ", models.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
