package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vaguthu/election-console/internal/models"
	"github.com/vaguthu/election-console/pkg/database"
)

const exportColumns = "id, format, params, status, progress, result_path, created_by, created_at, finished_at, error_message"

// UpdateExportJobParams carries optional fields for partial job updates.
type UpdateExportJobParams struct {
	Status       *models.ExportStatus
	Progress     *int
	ResultPath   *string
	ErrorMessage *string
	FinishedAt   *time.Time
}

// ExportRepository provides database access for export jobs.
type ExportRepository struct {
	db *sqlx.DB
}

// NewExportRepository creates a new instance of ExportRepository.
func NewExportRepository(db *sqlx.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// Create inserts a new export job.
func (r *ExportRepository) Create(ctx context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO export_jobs (id, format, params, status, progress, created_by, created_at) VALUES (:id, :format, :params, :status, :progress, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return database.Classify(fmt.Errorf("create export job: %w", err))
	}
	return nil
}

// GetByID returns an export job by identifier.
func (r *ExportRepository) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	query := fmt.Sprintf("SELECT %s FROM export_jobs WHERE id = $1 LIMIT 1", exportColumns)
	var job models.ExportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, database.Classify(fmt.Errorf("find export job: %w", err))
	}
	return &job, nil
}

// Update applies the provided partial updates to a job.
func (r *ExportRepository) Update(ctx context.Context, id string, params UpdateExportJobParams) error {
	sets := make([]string, 0, 5)
	args := []interface{}{id}

	appendSet := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Status != nil {
		appendSet("status", *params.Status)
	}
	if params.Progress != nil {
		appendSet("progress", *params.Progress)
	}
	if params.ResultPath != nil {
		appendSet("result_path", *params.ResultPath)
	}
	if params.ErrorMessage != nil {
		appendSet("error_message", *params.ErrorMessage)
	}
	if params.FinishedAt != nil {
		appendSet("finished_at", *params.FinishedAt)
	}
	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE export_jobs SET " + strings.Join(sets, ", ") + " WHERE id = $1"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return database.Classify(fmt.Errorf("update export job: %w", err))
	}
	return nil
}

// ListFinishedBefore returns finished or failed jobs older than the cutoff.
func (r *ExportRepository) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf("SELECT %s FROM export_jobs WHERE finished_at IS NOT NULL AND finished_at < $1 ORDER BY finished_at ASC LIMIT $2", exportColumns)
	var jobs []models.ExportJob
	if err := r.db.SelectContext(ctx, &jobs, query, cutoff, limit); err != nil {
		return nil, database.Classify(fmt.Errorf("list finished export jobs: %w", err))
	}
	return jobs, nil
}

// Delete removes an export job row.
func (r *ExportRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM export_jobs WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return database.Classify(fmt.Errorf("delete export job: %w", err))
	}
	return nil
}
