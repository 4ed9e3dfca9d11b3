package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vaguthu/election-console/internal/models"
	"github.com/vaguthu/election-console/internal/service"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
	"github.com/vaguthu/election-console/pkg/response"
)

type voterService interface {
	List(ctx context.Context, filter models.VoterFilter) ([]models.Voter, error)
	Get(ctx context.Context, id string) (*models.Voter, error)
	Create(ctx context.Context, req service.CreateVoterRequest, role models.UserRole) (*models.Voter, error)
	UpdateDetails(ctx context.Context, id string, req service.UpdateVoterRequest, role models.UserRole) (*models.Voter, error)
	SetVoteStatus(ctx context.Context, id string, hasVoted bool, role models.UserRole) (*models.Voter, error)
	Delete(ctx context.Context, id string, role models.UserRole) error
}

// VoterHandler exposes voter registry endpoints.
type VoterHandler struct {
	voters voterService
}

// NewVoterHandler constructs VoterHandler.
func NewVoterHandler(voters voterService) *VoterHandler {
	return &VoterHandler{voters: voters}
}

// List godoc
// @Summary List voters
// @Tags Voters
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by name, id card or address"
// @Param island query string false "Filter by island"
// @Param party query string false "Filter by party"
// @Param voted query bool false "Filter by vote status"
// @Param sheema query bool false "Filter by sheema flag"
// @Param sadiq query bool false "Filter by sadiq flag"
// @Param communicated query bool false "Filter by communicated flag"
// @Success 200 {object} response.Envelope
// @Router /voters [get]
func (h *VoterHandler) List(c *gin.Context) {
	filter := models.VoterFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Island: c.Query("island"),
		Party:  c.Query("party"),
	}
	filter.HasVoted = boolQuery(c, "voted")
	filter.Sheema = boolQuery(c, "sheema")
	filter.Sadiq = boolQuery(c, "sadiq")
	filter.Communicated = boolQuery(c, "communicated")

	voters, err := h.voters.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, voters, nil)
}

// Get godoc
// @Summary Get voter detail
// @Tags Voters
// @Produce json
// @Security BearerAuth
// @Param id path string true "Voter ID"
// @Success 200 {object} response.Envelope
// @Router /voters/{id} [get]
func (h *VoterHandler) Get(c *gin.Context) {
	voter, err := h.voters.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, voter, nil)
}

// Create godoc
// @Summary Register a voter
// @Tags Voters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateVoterRequest true "Voter payload"
// @Success 201 {object} response.Envelope
// @Router /voters [post]
func (h *VoterHandler) Create(c *gin.Context) {
	var req service.CreateVoterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	voter, err := h.voters.Create(c.Request.Context(), req, roleFromContext(c))
	if err != nil {
		respondVoterError(c, err)
		return
	}
	response.Created(c, voter)
}

// Update godoc
// @Summary Update voter details
// @Tags Voters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Voter ID"
// @Param payload body service.UpdateVoterRequest true "Voter payload"
// @Success 200 {object} response.Envelope
// @Router /voters/{id} [put]
func (h *VoterHandler) Update(c *gin.Context) {
	var req service.UpdateVoterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	voter, err := h.voters.UpdateDetails(c.Request.Context(), c.Param("id"), req, roleFromContext(c))
	if err != nil {
		respondVoterError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, voter, nil)
}

type voteStatusRequest struct {
	HasVoted bool `json:"has_voted"`
}

// SetVoteStatus godoc
// @Summary Flip the has-voted flag
// @Tags Voters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Voter ID"
// @Param payload body voteStatusRequest true "Vote status payload"
// @Success 200 {object} response.Envelope
// @Router /voters/{id}/vote [patch]
func (h *VoterHandler) SetVoteStatus(c *gin.Context) {
	var req voteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	voter, err := h.voters.SetVoteStatus(c.Request.Context(), c.Param("id"), req.HasVoted, roleFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, voter, nil)
}

// Delete godoc
// @Summary Delete a voter
// @Tags Voters
// @Security BearerAuth
// @Param id path string true "Voter ID"
// @Success 204
// @Router /voters/{id} [delete]
func (h *VoterHandler) Delete(c *gin.Context) {
	if err := h.voters.Delete(c.Request.Context(), c.Param("id"), roleFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// respondVoterError renders per-field validation codes when the service
// rejected the record, falling back to the common error envelope.
func respondVoterError(c *gin.Context, err error) {
	var fields service.FieldErrors
	if errors.As(err, &fields) {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusBadRequest, response.Envelope{
			Error: appErrors.Clone(appErrors.ErrValidation, "voter record failed validation"),
			Meta:  map[string]interface{}{"fields": fields},
		})
		return
	}
	response.Error(c, err)
}

func roleFromContext(c *gin.Context) models.UserRole {
	if claims := claimsFromContext(c); claims != nil {
		return claims.Role
	}
	return ""
}

func boolQuery(c *gin.Context, name string) *bool {
	switch c.Query(name) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
