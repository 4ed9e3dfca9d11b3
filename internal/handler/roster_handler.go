package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vaguthu/election-console/internal/service"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
	"github.com/vaguthu/election-console/pkg/response"
)

// RosterHandler exposes the island and party roster endpoints.
type RosterHandler struct {
	rosters *service.RosterService
}

// NewRosterHandler constructs RosterHandler.
func NewRosterHandler(rosters *service.RosterService) *RosterHandler {
	return &RosterHandler{rosters: rosters}
}

type rosterEntryRequest struct {
	Name string `json:"name"`
}

// ListIslands godoc
// @Summary List islands
// @Tags Rosters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /islands [get]
func (h *RosterHandler) ListIslands(c *gin.Context) {
	islands, err := h.rosters.ListIslands(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, islands, nil)
}

// AddIsland godoc
// @Summary Add an island
// @Tags Rosters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body rosterEntryRequest true "Island payload"
// @Success 201 {object} response.Envelope
// @Router /islands [post]
func (h *RosterHandler) AddIsland(c *gin.Context) {
	var req rosterEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	island, err := h.rosters.AddIsland(c.Request.Context(), req.Name, roleFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, island)
}

// RemoveIsland godoc
// @Summary Remove an island
// @Tags Rosters
// @Security BearerAuth
// @Param id path string true "Island ID"
// @Success 204
// @Router /islands/{id} [delete]
func (h *RosterHandler) RemoveIsland(c *gin.Context) {
	if err := h.rosters.RemoveIsland(c.Request.Context(), c.Param("id"), roleFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListParties godoc
// @Summary List parties
// @Tags Rosters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /parties [get]
func (h *RosterHandler) ListParties(c *gin.Context) {
	parties, err := h.rosters.ListParties(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, parties, nil)
}

// AddParty godoc
// @Summary Add a party
// @Tags Rosters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body rosterEntryRequest true "Party payload"
// @Success 201 {object} response.Envelope
// @Router /parties [post]
func (h *RosterHandler) AddParty(c *gin.Context) {
	var req rosterEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	party, err := h.rosters.AddParty(c.Request.Context(), req.Name, roleFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, party)
}

// RemoveParty godoc
// @Summary Remove a party
// @Tags Rosters
// @Security BearerAuth
// @Param id path string true "Party ID"
// @Success 204
// @Router /parties/{id} [delete]
func (h *RosterHandler) RemoveParty(c *gin.Context) {
	if err := h.rosters.RemoveParty(c.Request.Context(), c.Param("id"), roleFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
