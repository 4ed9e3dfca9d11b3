package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaguthu/election-console/internal/models"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
)

type fakeMessageRepo struct {
	messages  []models.ChatMessage
	deleteErr error
}

func (f *fakeMessageRepo) FindByID(_ context.Context, id string) (*models.ChatMessage, error) {
	for _, m := range f.messages {
		if m.ID == id {
			copied := m
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeMessageRepo) ListRecent(_ context.Context, limit int) ([]models.ChatMessage, error) {
	if len(f.messages) > limit {
		return f.messages[len(f.messages)-limit:], nil
	}
	return f.messages, nil
}

func (f *fakeMessageRepo) Create(_ context.Context, msg *models.ChatMessage) error {
	msg.ID = "msg-new"
	msg.CreatedAt = time.Now().UTC()
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeMessageRepo) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, m := range f.messages {
		if m.ID == id {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return nil
		}
	}
	return nil
}

func chatMessages(ids ...string) []models.ChatMessage {
	out := make([]models.ChatMessage, len(ids))
	for i, id := range ids {
		out[i] = models.ChatMessage{ID: id, UserID: "u1", UserName: "staff", Content: "m" + id}
	}
	return out
}

func TestChatPost(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := NewChatService(repo, 200, nil)

	msg, err := svc.Post(context.Background(), "  saabas team!  ", staffClaims("u1"))
	require.NoError(t, err)
	assert.Equal(t, "saabas team!", msg.Content)
	assert.Equal(t, "u1", msg.UserID)
	assert.Len(t, repo.messages, 1)
}

func TestChatPostRejectsBlankAndOversized(t *testing.T) {
	svc := NewChatService(&fakeMessageRepo{}, 200, nil)

	_, err := svc.Post(context.Background(), "   ", staffClaims("u1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Post(context.Background(), strings.Repeat("x", maxMessageLength+1), staffClaims("u1"))
	require.Error(t, err)
}

func TestChatDeleteOwn(t *testing.T) {
	repo := &fakeMessageRepo{messages: chatMessages("m1")}
	svc := NewChatService(repo, 200, nil)

	err := svc.Delete(context.Background(), "m1", staffClaims("u1"))
	require.NoError(t, err)
	assert.Empty(t, repo.messages)
}

func TestChatDeleteForeignRejected(t *testing.T) {
	repo := &fakeMessageRepo{messages: chatMessages("m1")}
	svc := NewChatService(repo, 200, nil)

	err := svc.Delete(context.Background(), "m1", staffClaims("u2"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.messages, 1)

	// admins moderate freely
	err = svc.Delete(context.Background(), "m1", adminClaims())
	require.NoError(t, err)
}

func TestChatListHonoursHistoryLimit(t *testing.T) {
	repo := &fakeMessageRepo{messages: chatMessages("m1", "m2", "m3")}
	svc := NewChatService(repo, 2, nil)

	messages, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "m2", messages[0].ID)
}
