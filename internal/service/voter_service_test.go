package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaguthu/election-console/internal/models"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
)

type fakeVoterRepo struct {
	voters  map[string]*models.Voter
	listErr error
}

func newFakeVoterRepo(voters ...*models.Voter) *fakeVoterRepo {
	repo := &fakeVoterRepo{voters: make(map[string]*models.Voter)}
	for _, v := range voters {
		repo.voters[v.ID] = v
	}
	return repo
}

func (f *fakeVoterRepo) FindByID(_ context.Context, id string) (*models.Voter, error) {
	v, ok := f.voters[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *v
	return &copied, nil
}

func (f *fakeVoterRepo) FindByIDCard(_ context.Context, idCard string) (*models.Voter, error) {
	for _, v := range f.voters {
		if v.IDCard == idCard {
			copied := *v
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeVoterRepo) List(_ context.Context, _ models.VoterFilter) ([]models.Voter, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Voter, 0, len(f.voters))
	for _, v := range f.voters {
		out = append(out, *v)
	}
	return out, nil
}

func (f *fakeVoterRepo) Create(_ context.Context, voter *models.Voter) error {
	voter.ID = "voter-new"
	copied := *voter
	f.voters[voter.ID] = &copied
	return nil
}

func (f *fakeVoterRepo) Update(_ context.Context, voter *models.Voter) error {
	copied := *voter
	f.voters[voter.ID] = &copied
	return nil
}

func (f *fakeVoterRepo) SetVoteStatus(_ context.Context, id string, hasVoted bool) error {
	f.voters[id].HasVoted = hasVoted
	return nil
}

func (f *fakeVoterRepo) Delete(_ context.Context, id string) error {
	delete(f.voters, id)
	return nil
}

type fakeIslandChecker struct {
	known map[string]bool
}

func (f *fakeIslandChecker) IslandNameExists(_ context.Context, name string) (bool, error) {
	return f.known[name], nil
}

func registeredVoter() *models.Voter {
	return &models.Voter{
		ID:       "v1",
		IDCard:   "A123456",
		FullName: "Aminath Ali",
		Gender:   models.GenderFemale,
		Address:  "Blue House",
		Island:   "Thoddoo",
	}
}

func thoddooChecker() *fakeIslandChecker {
	return &fakeIslandChecker{known: map[string]bool{"Thoddoo": true, "Rasdhoo": true}}
}

func validCreateRequest() CreateVoterRequest {
	return CreateVoterRequest{
		IDCard:   "A654321",
		FullName: "Hassan Moosa",
		Gender:   "Male",
		Address:  "Red House",
		Island:   "Rasdhoo",
	}
}

func TestVoterCreate(t *testing.T) {
	repo := newFakeVoterRepo()
	svc := NewVoterService(repo, thoddooChecker(), nil, nil)

	voter, err := svc.Create(context.Background(), validCreateRequest(), models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "voter-new", voter.ID)
	assert.False(t, voter.HasVoted)
}

func TestVoterCreateForbiddenForMamdhoob(t *testing.T) {
	repo := newFakeVoterRepo()
	svc := NewVoterService(repo, thoddooChecker(), nil, nil)

	for _, role := range []models.UserRole{models.RoleMamdhoob, models.RoleUser} {
		_, err := svc.Create(context.Background(), validCreateRequest(), role)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	}
	assert.Empty(t, repo.voters)
}

func TestVoterCreateCollectsAllFieldErrors(t *testing.T) {
	svc := NewVoterService(newFakeVoterRepo(), thoddooChecker(), nil, nil)

	_, err := svc.Create(context.Background(), CreateVoterRequest{
		IDCard:   "B12",
		FullName: "   ",
		Gender:   "",
		Address:  "",
		Island:   "Atlantis",
	}, models.RoleAdmin)
	require.Error(t, err)

	var fields FieldErrors
	require.True(t, errors.As(err, &fields))
	assert.Equal(t, CodeInvalidIDCard, fields["id_card"])
	assert.Equal(t, CodeMissingName, fields["full_name"])
	assert.Equal(t, CodeMissingGender, fields["gender"])
	assert.Equal(t, CodeMissingAddress, fields["address"])
	assert.Equal(t, "UnknownIsland", fields["island"])
}

func TestVoterCreateDuplicateIDCard(t *testing.T) {
	repo := newFakeVoterRepo(registeredVoter())
	svc := NewVoterService(repo, thoddooChecker(), nil, nil)

	req := validCreateRequest()
	req.IDCard = "A123456"

	_, err := svc.Create(context.Background(), req, models.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

// A mamdhoob may flip the vote flag but may not touch record details, even
// when both arrive in the same session.
func TestVoterMamdhoobCanOnlyFlipVoteStatus(t *testing.T) {
	repo := newFakeVoterRepo(registeredVoter())
	svc := NewVoterService(repo, thoddooChecker(), nil, nil)

	_, err := svc.UpdateDetails(context.Background(), "v1", UpdateVoterRequest{
		IDCard:   "A123456",
		FullName: "Aminath Ali",
		Gender:   "Female",
		Address:  "Moved House",
		Island:   "Thoddoo",
	}, models.RoleMamdhoob)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Equal(t, "Blue House", repo.voters["v1"].Address)

	voter, err := svc.SetVoteStatus(context.Background(), "v1", true, models.RoleMamdhoob)
	require.NoError(t, err)
	assert.True(t, voter.HasVoted)
	assert.Equal(t, "Blue House", voter.Address)
}

func TestVoterSetVoteStatusForbiddenForUser(t *testing.T) {
	repo := newFakeVoterRepo(registeredVoter())
	svc := NewVoterService(repo, thoddooChecker(), nil, nil)

	_, err := svc.SetVoteStatus(context.Background(), "v1", true, models.RoleUser)
	require.Error(t, err)
	assert.False(t, repo.voters["v1"].HasVoted)
}

func TestVoterUpdateDetailsByAdmin(t *testing.T) {
	repo := newFakeVoterRepo(registeredVoter())
	svc := NewVoterService(repo, thoddooChecker(), nil, nil)

	voter, err := svc.UpdateDetails(context.Background(), "v1", UpdateVoterRequest{
		IDCard:   "A123456",
		FullName: "Aminath Ali",
		Gender:   "Female",
		Address:  "Green House",
		Island:   "Rasdhoo",
		HasVoted: true,
	}, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Green House", voter.Address)
	assert.Equal(t, "Rasdhoo", voter.Island)
	assert.True(t, voter.HasVoted)
}

func TestVoterDeleteAdminOnly(t *testing.T) {
	repo := newFakeVoterRepo(registeredVoter())
	svc := NewVoterService(repo, thoddooChecker(), nil, nil)

	err := svc.Delete(context.Background(), "v1", models.RoleMamdhoob)
	require.Error(t, err)
	assert.Contains(t, repo.voters, "v1")

	err = svc.Delete(context.Background(), "v1", models.RoleAdmin)
	require.NoError(t, err)
	assert.NotContains(t, repo.voters, "v1")
}

func TestVoterListSortsByAddressThenName(t *testing.T) {
	repo := newFakeVoterRepo(
		&models.Voter{ID: "v1", Address: "Blue House", FullName: "Zahir"},
		&models.Voter{ID: "v2", Address: "Blue House", FullName: "Aisha"},
		&models.Voter{ID: "v3", Address: "Amber House", FullName: "Moosa"},
	)
	svc := NewVoterService(repo, thoddooChecker(), nil, nil)

	voters, err := svc.List(context.Background(), models.VoterFilter{})
	require.NoError(t, err)
	require.Len(t, voters, 3)
	assert.Equal(t, "v3", voters[0].ID)
	assert.Equal(t, "v2", voters[1].ID)
	assert.Equal(t, "v1", voters[2].ID)
}

func TestVoterGetNotFound(t *testing.T) {
	svc := NewVoterService(newFakeVoterRepo(), thoddooChecker(), nil, nil)

	_, err := svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
