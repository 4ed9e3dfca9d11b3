package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vaguthu/election-console/internal/models"
	"github.com/vaguthu/election-console/pkg/database"
)

// MessageRepository provides database access for the community chat.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new instance of MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// FindByID returns a message by identifier.
func (r *MessageRepository) FindByID(ctx context.Context, id string) (*models.ChatMessage, error) {
	const query = `SELECT id, user_id, user_name, content, created_at FROM messages WHERE id = $1 LIMIT 1`
	var msg models.ChatMessage
	if err := r.db.GetContext(ctx, &msg, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, database.Classify(fmt.Errorf("find message by id: %w", err))
	}
	return &msg, nil
}

// ListRecent returns the most recent messages in chronological order.
func (r *MessageRepository) ListRecent(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 200
	}
	const query = `SELECT id, user_id, user_name, content, created_at FROM (
		SELECT id, user_id, user_name, content, created_at FROM messages ORDER BY created_at DESC LIMIT $1
	) recent ORDER BY created_at ASC`
	var messages []models.ChatMessage
	if err := r.db.SelectContext(ctx, &messages, query, limit); err != nil {
		return nil, database.Classify(fmt.Errorf("list recent messages: %w", err))
	}
	return messages, nil
}

// Create inserts a new chat message.
func (r *MessageRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO messages (id, user_id, user_name, content, created_at) VALUES (:id, :user_id, :user_name, :content, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return database.Classify(fmt.Errorf("create message: %w", err))
	}
	return nil
}

// Delete removes a chat message.
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM messages WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return database.Classify(fmt.Errorf("delete message: %w", err))
	}
	return nil
}
