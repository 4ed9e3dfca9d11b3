package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vaguthu/election-console/internal/models"
	"github.com/vaguthu/election-console/internal/service"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
	"github.com/vaguthu/election-console/pkg/response"
	"github.com/vaguthu/election-console/pkg/storage"
)

// ExportHandler exposes the voter-roll export endpoints.
type ExportHandler struct {
	exports *service.ExportService
	files   *storage.LocalStorage
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService, files *storage.LocalStorage) *ExportHandler {
	return &ExportHandler{exports: exports, files: files}
}

type createExportRequest struct {
	Format models.ExportFormat `json:"format"`
	Title  string              `json:"title"`
	Filter models.VoterFilter  `json:"filter"`
}

// Create godoc
// @Summary Queue a voter-roll export
// @Tags Exports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body createExportRequest true "Export payload"
// @Success 202 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req createExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	job, err := h.exports.CreateJob(c.Request.Context(), req.Format, models.ExportJobParams{
		Filter: req.Filter,
		Title:  req.Title,
	}, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Poll an export job
// @Tags Exports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Export job ID"
// @Success 200 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	status, err := h.exports.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Download godoc
// @Summary Download a finished export
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	download, err := h.exports.ResolveDownload(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.files.Open(download.Path)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export file is no longer available"))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export file"))
		return
	}

	c.DataFromReader(http.StatusOK, info.Size(), download.ContentType, file, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", download.Filename),
	})
}
