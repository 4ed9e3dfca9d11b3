package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vaguthu/election-console/internal/service"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
	"github.com/vaguthu/election-console/pkg/response"
)

// ChatHandler exposes the community chat endpoints. Reads are served from
// the polled in-memory feed; writes go straight to the store and the feed
// catches up on the next poll.
type ChatHandler struct {
	chat *service.ChatService
	feed *service.ChatFeed
}

// NewChatHandler constructs ChatHandler.
func NewChatHandler(chat *service.ChatService, feed *service.ChatFeed) *ChatHandler {
	return &ChatHandler{chat: chat, feed: feed}
}

// List godoc
// @Summary List recent chat messages
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /messages [get]
func (h *ChatHandler) List(c *gin.Context) {
	if h.feed != nil {
		response.JSON(c, http.StatusOK, h.feed.Snapshot(), nil)
		return
	}

	messages, err := h.chat.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages, nil)
}

type postMessageRequest struct {
	Content string `json:"content"`
}

// Post godoc
// @Summary Post a chat message
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body postMessageRequest true "Message payload"
// @Success 201 {object} response.Envelope
// @Router /messages [post]
func (h *ChatHandler) Post(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	msg, err := h.chat.Post(c.Request.Context(), req.Content, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

// Delete godoc
// @Summary Delete a chat message
// @Tags Chat
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 204
// @Router /messages/{id} [delete]
func (h *ChatHandler) Delete(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	var err error
	if h.feed != nil {
		err = h.feed.DeleteThrough(c.Request.Context(), h.chat, c.Param("id"), claims)
	} else {
		err = h.chat.Delete(c.Request.Context(), c.Param("id"), claims)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
