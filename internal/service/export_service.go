package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vaguthu/election-console/internal/dto"
	"github.com/vaguthu/election-console/internal/models"
	"github.com/vaguthu/election-console/internal/repository"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
	"github.com/vaguthu/election-console/pkg/export"
	"github.com/vaguthu/election-console/pkg/jobs"
	"github.com/vaguthu/election-console/pkg/storage"
)

type exportRepository interface {
	Create(ctx context.Context, job *models.ExportJob) error
	GetByID(ctx context.Context, id string) (*models.ExportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error)
	Delete(ctx context.Context, id string) error
}

type exportVoterSource interface {
	List(ctx context.Context, filter models.VoterFilter) ([]models.Voter, error)
}

type exportFileStore interface {
	Save(filename string, data []byte) (string, error)
	Delete(filename string) error
}

// ExportConfig tunes the export workers and file retention.
type ExportConfig struct {
	WorkerConcurrency int
	WorkerRetries     int
	DownloadPath      string
	FileTTL           time.Duration
	CleanupInterval   time.Duration
}

// voterExportHeaders fixes the column order of every rendered roll.
var voterExportHeaders = []string{
	"ID Card", "Full Name", "Gender", "Address", "Island",
	"Phone", "Party", "Voted", "Sheema", "Sadiq", "Communicated", "Notes",
}

// ExportService runs voter-roll exports as background jobs. Callers enqueue
// a job, poll its status, and collect the file through a signed URL once the
// job reports FINISHED.
type ExportService struct {
	repo    exportRepository
	voters  exportVoterSource
	store   exportFileStore
	signer  *storage.SignedURLSigner
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	html    *export.HTMLExporter
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ExportConfig

	cancelCleanup context.CancelFunc
}

// NewExportService creates an ExportService with its own worker queue. Call
// Start before enqueueing jobs and Stop on shutdown.
func NewExportService(repo exportRepository, voters exportVoterSource, store exportFileStore, signer *storage.SignedURLSigner, metrics *MetricsService, logger *zap.Logger, cfg ExportConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DownloadPath == "" {
		cfg.DownloadPath = "/api/v1/exports/download"
	}
	if cfg.FileTTL <= 0 {
		cfg.FileTTL = 24 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Hour
	}

	s := &ExportService{
		repo:    repo,
		voters:  voters,
		store:   store,
		signer:  signer,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		html:    export.NewHTMLExporter(),
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
	}
	s.queue = jobs.NewQueue("exports", s.process, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the worker pool and the file retention sweeper.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)

	cleanupCtx, cancel := context.WithCancel(ctx)
	s.cancelCleanup = cancel
	go s.cleanupLoop(cleanupCtx)
}

// Stop drains the worker pool and halts the sweeper.
func (s *ExportService) Stop() {
	if s.cancelCleanup != nil {
		s.cancelCleanup()
	}
	s.queue.Stop()
}

// CreateJob records a new export job and hands it to the worker pool.
func (s *ExportService) CreateJob(ctx context.Context, format models.ExportFormat, params models.ExportJobParams, actor *models.JWTClaims) (*dto.ExportJobResponse, error) {
	switch format {
	case models.ExportFormatCSV, models.ExportFormatPDF, models.ExportFormatPrint:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv, pdf or print")
	}

	job := &models.ExportJob{
		Format:    format,
		Params:    params,
		Status:    models.ExportStatusQueued,
		CreatedBy: actor.UserID,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, wrapStore(err, "failed to create export job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(format)}); err != nil {
		s.failJob(ctx, job.ID, "worker queue unavailable")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}

	s.logger.Info("export job queued",
		zap.String("job_id", job.ID),
		zap.String("format", string(format)),
		zap.String("created_by", actor.UserID))
	return &dto.ExportJobResponse{ID: job.ID, Status: job.Status, Progress: 0}, nil
}

// Status reports job progress. Once the job has finished it includes a
// signed download URL valid until the reported expiry.
func (s *ExportService) Status(ctx context.Context, id string) (*dto.ExportStatusResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, wrapStore(err, "failed to load export job")
	}

	resp := &dto.ExportStatusResponse{
		ID:           job.ID,
		Format:       job.Format,
		Status:       job.Status,
		Progress:     job.Progress,
		ErrorMessage: job.ErrorMessage,
	}

	if job.Status == models.ExportStatusFinished && job.ResultPath != nil {
		token, expiresAt, err := s.signer.Generate(job.ID, *job.ResultPath)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
		}
		url := s.cfg.DownloadPath + "?token=" + token
		resp.DownloadURL = &url
		resp.ExpiresAt = &expiresAt
	}
	return resp, nil
}

// Download describes a validated export download.
type Download struct {
	Path        string
	Filename    string
	ContentType string
}

// ResolveDownload validates a signed token and returns the file reference.
func (s *ExportService) ResolveDownload(ctx context.Context, token string) (*Download, error) {
	jobID, relPath, err := s.signer.Validate(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download token")
	}

	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, wrapStore(err, "failed to load export job")
	}
	if job.Status != models.ExportStatusFinished || job.ResultPath == nil || *job.ResultPath != relPath {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file is no longer available")
	}

	return &Download{
		Path:        relPath,
		Filename:    "voters-" + job.ID + extensionFor(job.Format),
		ContentType: contentTypeFor(job.Format),
	}, nil
}

// process is the queue handler: it renders one export job end to end.
func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	started := time.Now()

	record, err := s.repo.GetByID(ctx, job.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// row vanished; nothing to retry
			return nil
		}
		return fmt.Errorf("load export job %s: %w", job.ID, err)
	}

	s.setStatus(ctx, job.ID, models.ExportStatusProcessing, 10)

	voters, err := s.voters.List(ctx, record.Params.Filter)
	if err != nil {
		s.failJob(ctx, job.ID, "failed to load voter list")
		return fmt.Errorf("load voters for export %s: %w", job.ID, err)
	}
	s.setStatus(ctx, job.ID, models.ExportStatusProcessing, 50)

	data, err := s.render(record, voters)
	if err != nil {
		s.failJob(ctx, job.ID, "failed to render export")
		return fmt.Errorf("render export %s: %w", job.ID, err)
	}

	relPath := job.ID + extensionFor(record.Format)
	if _, err := s.store.Save(relPath, data); err != nil {
		s.failJob(ctx, job.ID, "failed to store export file")
		return fmt.Errorf("store export %s: %w", job.ID, err)
	}

	now := time.Now().UTC()
	finished := models.ExportStatusFinished
	progress := 100
	if err := s.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{
		Status:     &finished,
		Progress:   &progress,
		ResultPath: &relPath,
		FinishedAt: &now,
	}); err != nil {
		return fmt.Errorf("finalise export %s: %w", job.ID, err)
	}

	if s.metrics != nil {
		s.metrics.ObserveExport(string(record.Format), time.Since(started))
	}
	s.logger.Info("export job finished",
		zap.String("job_id", job.ID),
		zap.String("format", string(record.Format)),
		zap.Int("rows", len(voters)),
		zap.Duration("took", time.Since(started)))
	return nil
}

func (s *ExportService) render(job *models.ExportJob, voters []models.Voter) ([]byte, error) {
	dataset := buildVoterDataset(voters)
	title := job.Params.Title
	if title == "" {
		title = "Voter Roll"
	}

	switch job.Format {
	case models.ExportFormatCSV:
		return s.csv.Render(dataset)
	case models.ExportFormatPDF:
		return s.pdf.Render(dataset, title)
	case models.ExportFormatPrint:
		return s.html.Render(dataset, title)
	default:
		return nil, fmt.Errorf("unsupported export format %q", job.Format)
	}
}

func buildVoterDataset(voters []models.Voter) export.Dataset {
	rows := make([]map[string]string, 0, len(voters))
	for _, v := range voters {
		rows = append(rows, map[string]string{
			"ID Card":      v.IDCard,
			"Full Name":    v.FullName,
			"Gender":       string(v.Gender),
			"Address":      v.Address,
			"Island":       v.Island,
			"Phone":        stringOrEmpty(v.Phone),
			"Party":        v.EffectiveParty(),
			"Voted":        yesNo(v.HasVoted),
			"Sheema":       yesNo(v.Sheema),
			"Sadiq":        yesNo(v.Sadiq),
			"Communicated": yesNo(v.Communicated),
			"Notes":        stringOrEmpty(v.Notes),
		})
	}
	return export.Dataset{Headers: voterExportHeaders, Rows: rows}
}

func (s *ExportService) setStatus(ctx context.Context, id string, status models.ExportStatus, progress int) {
	if err := s.repo.Update(ctx, id, repository.UpdateExportJobParams{Status: &status, Progress: &progress}); err != nil {
		s.logger.Warn("failed to update export job status",
			zap.String("job_id", id), zap.Error(err))
	}
}

func (s *ExportService) failJob(ctx context.Context, id, message string) {
	failed := models.ExportStatusFailed
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, id, repository.UpdateExportJobParams{
		Status:       &failed,
		ErrorMessage: &message,
		FinishedAt:   &now,
	}); err != nil {
		s.logger.Warn("failed to mark export job failed",
			zap.String("job_id", id), zap.Error(err))
	}
}

// cleanupLoop retires expired export files and their job rows.
func (s *ExportService) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExportService) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.cfg.FileTTL)
	expired, err := s.repo.ListFinishedBefore(ctx, cutoff, 100)
	if err != nil {
		s.logger.Warn("export cleanup sweep failed", zap.Error(err))
		return
	}

	for _, job := range expired {
		if job.ResultPath != nil {
			if err := s.store.Delete(*job.ResultPath); err != nil {
				s.logger.Warn("failed to delete expired export file",
					zap.String("job_id", job.ID), zap.Error(err))
				continue
			}
		}
		if err := s.repo.Delete(ctx, job.ID); err != nil {
			s.logger.Warn("failed to delete expired export job",
				zap.String("job_id", job.ID), zap.Error(err))
		}
	}
	if len(expired) > 0 {
		s.logger.Info("export cleanup sweep", zap.Int("retired", len(expired)))
	}
}

func extensionFor(format models.ExportFormat) string {
	switch format {
	case models.ExportFormatCSV:
		return ".csv"
	case models.ExportFormatPDF:
		return ".pdf"
	default:
		return ".html"
	}
}

func contentTypeFor(format models.ExportFormat) string {
	switch format {
	case models.ExportFormatCSV:
		return "text/csv; charset=utf-8"
	case models.ExportFormatPDF:
		return "application/pdf"
	default:
		return "text/html; charset=utf-8"
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
