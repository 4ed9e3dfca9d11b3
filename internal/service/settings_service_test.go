package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaguthu/election-console/internal/models"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
)

type fakeSettingsRepo struct {
	settings *models.ElectionSettings
}

func (f *fakeSettingsRepo) Get(_ context.Context) (*models.ElectionSettings, error) {
	if f.settings == nil {
		return nil, sql.ErrNoRows
	}
	return f.settings, nil
}

func (f *fakeSettingsRepo) Upsert(_ context.Context, settings *models.ElectionSettings) error {
	settings.ID = "election"
	settings.UpdatedAt = time.Now().UTC()
	f.settings = settings
	return nil
}

func TestSettingsUpdate(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, nil, nil)

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Hour)

	resp, err := svc.Update(context.Background(), UpdateSettingsRequest{
		ElectionStart: start.UnixMilli(),
		ElectionEnd:   end.UnixMilli(),
	}, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, start.UnixMilli(), resp.ElectionStart)
	assert.Equal(t, end.UnixMilli(), resp.ElectionEnd)
	require.NotNil(t, repo.settings)
	assert.True(t, repo.settings.ElectionStart.Equal(start))
}

func TestSettingsUpdateRejectsInvertedWindow(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{}, nil, nil)

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	_, err := svc.Update(context.Background(), UpdateSettingsRequest{
		ElectionStart: start.UnixMilli(),
		ElectionEnd:   start.UnixMilli(),
	}, models.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSettingsUpdateForbiddenForNonAdmin(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo, nil, nil)

	for _, role := range []models.UserRole{models.RoleMamdhoob, models.RoleUser} {
		_, err := svc.Update(context.Background(), UpdateSettingsRequest{
			ElectionStart: 1, ElectionEnd: 2,
		}, role)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	}
	assert.Nil(t, repo.settings)
}

func TestSettingsGetUnconfigured(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{}, nil, nil)

	_, err := svc.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
