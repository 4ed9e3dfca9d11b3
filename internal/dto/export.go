package dto

import (
	"time"

	"github.com/vaguthu/election-console/internal/models"
)

// ExportJobResponse acknowledges a queued export job.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes export job progress and, once finished, the
// signed download URL.
type ExportStatusResponse struct {
	ID           string              `json:"id"`
	Format       models.ExportFormat `json:"format"`
	Status       models.ExportStatus `json:"status"`
	Progress     int                 `json:"progress"`
	DownloadURL  *string             `json:"download_url,omitempty"`
	ExpiresAt    *time.Time          `json:"expires_at,omitempty"`
	ErrorMessage *string             `json:"error_message,omitempty"`
}
