package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/vaguthu/election-console/internal/dto"
	"github.com/vaguthu/election-console/internal/models"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
)

type settingsRepository interface {
	Get(ctx context.Context) (*models.ElectionSettings, error)
	Upsert(ctx context.Context, settings *models.ElectionSettings) error
}

// UpdateSettingsRequest carries the election window as epoch milliseconds.
type UpdateSettingsRequest struct {
	ElectionStart int64 `json:"election_start"`
	ElectionEnd   int64 `json:"election_end"`
}

// SettingsService manages the singleton election window.
type SettingsService struct {
	repo   settingsRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewSettingsService creates an instance of SettingsService.
func NewSettingsService(repo settingsRepository, cache *CacheService, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, cache: cache, logger: logger}
}

// Get returns the configured election window.
func (s *SettingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "election window has not been configured")
		}
		return nil, wrapStore(err, "failed to load settings")
	}
	return settingsResponse(settings), nil
}

// Update writes the election window. Admin only; the end must fall strictly
// after the start.
func (s *SettingsService) Update(ctx context.Context, req UpdateSettingsRequest, role models.UserRole) (*dto.SettingsResponse, error) {
	if role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins may configure the election window")
	}
	if req.ElectionStart <= 0 || req.ElectionEnd <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "election start and end are required")
	}
	if req.ElectionEnd <= req.ElectionStart {
		return nil, appErrors.Clone(appErrors.ErrValidation, "election end must be after the start")
	}

	settings := &models.ElectionSettings{
		ElectionStart: time.UnixMilli(req.ElectionStart).UTC(),
		ElectionEnd:   time.UnixMilli(req.ElectionEnd).UTC(),
	}
	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, wrapStore(err, "failed to save settings")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, "dash:*"); err != nil {
			s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
		}
	}

	s.logger.Info("election window updated",
		zap.Time("election_start", settings.ElectionStart),
		zap.Time("election_end", settings.ElectionEnd))
	return settingsResponse(settings), nil
}

func settingsResponse(settings *models.ElectionSettings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		ElectionStart: settings.StartMillis(),
		ElectionEnd:   settings.EndMillis(),
		UpdatedAt:     settings.UpdatedAt,
	}
}
