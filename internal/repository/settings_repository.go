package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vaguthu/election-console/internal/models"
	"github.com/vaguthu/election-console/pkg/database"
)

// settingsRowID pins the singleton election settings row.
const settingsRowID = "election"

// SettingsRepository persists the singleton election window.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new instance of SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the election settings row.
func (r *SettingsRepository) Get(ctx context.Context) (*models.ElectionSettings, error) {
	const query = `SELECT id, election_start, election_end, updated_at FROM settings WHERE id = $1 LIMIT 1`
	var settings models.ElectionSettings
	if err := r.db.GetContext(ctx, &settings, query, settingsRowID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, database.Classify(fmt.Errorf("get settings: %w", err))
	}
	return &settings, nil
}

// Upsert writes the election window, creating the row on first save.
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.ElectionSettings) error {
	settings.ID = settingsRowID
	settings.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO settings (id, election_start, election_end, updated_at)
		VALUES (:id, :election_start, :election_end, :updated_at)
		ON CONFLICT (id) DO UPDATE SET election_start = EXCLUDED.election_start, election_end = EXCLUDED.election_end, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return database.Classify(fmt.Errorf("upsert settings: %w", err))
	}
	return nil
}
