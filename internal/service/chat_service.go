package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/vaguthu/election-console/internal/models"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
)

type messageRepository interface {
	FindByID(ctx context.Context, id string) (*models.ChatMessage, error)
	ListRecent(ctx context.Context, limit int) ([]models.ChatMessage, error)
	Create(ctx context.Context, msg *models.ChatMessage) error
	Delete(ctx context.Context, id string) error
}

const maxMessageLength = 2000

// ChatService owns the community chat. Any authenticated account may post
// and read; a message can only be deleted by its author or an admin.
type ChatService struct {
	repo         messageRepository
	historyLimit int
	logger       *zap.Logger
}

// NewChatService creates an instance of ChatService.
func NewChatService(repo messageRepository, historyLimit int, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if historyLimit <= 0 {
		historyLimit = 200
	}
	return &ChatService{repo: repo, historyLimit: historyLimit, logger: logger}
}

// List returns the recent message history in chronological order.
func (s *ChatService) List(ctx context.Context) ([]models.ChatMessage, error) {
	messages, err := s.repo.ListRecent(ctx, s.historyLimit)
	if err != nil {
		return nil, wrapStore(err, "failed to list messages")
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	return messages, nil
}

// Post appends a message to the chat.
func (s *ChatService) Post(ctx context.Context, content string, actor *models.JWTClaims) (*models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "message content is required")
	}
	if len(content) > maxMessageLength {
		return nil, appErrors.Clone(appErrors.ErrValidation, "message content is too long")
	}

	msg := &models.ChatMessage{
		UserID:   actor.UserID,
		UserName: actor.Username,
		Content:  content,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, wrapStore(err, "failed to post message")
	}
	return msg, nil
}

// Delete removes a message. The author may delete their own; admins may
// delete anything.
func (s *ChatService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "message not found")
		}
		return wrapStore(err, "failed to load message")
	}

	if msg.UserID != actor.UserID && actor.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "only the author or an admin may delete this message")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapStore(err, "failed to delete message")
	}
	return nil
}
