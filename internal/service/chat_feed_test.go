package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaguthu/election-console/internal/models"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
)

type stubDeleter struct {
	err   error
	calls []string
}

func (s *stubDeleter) Delete(_ context.Context, id string, _ *models.JWTClaims) error {
	s.calls = append(s.calls, id)
	return s.err
}

func feedIDs(feed *ChatFeed) []string {
	snapshot := feed.Snapshot()
	ids := make([]string, len(snapshot))
	for i, m := range snapshot {
		ids[i] = m.ID
	}
	return ids
}

func TestChatFeedSnapshotIsACopy(t *testing.T) {
	feed := NewChatFeed()
	feed.Replace(chatMessages("m1", "m2"))

	snapshot := feed.Snapshot()
	snapshot[0].Content = "mutated"

	assert.Equal(t, "mm1", feed.Snapshot()[0].Content)
}

func TestChatFeedDeleteThrough(t *testing.T) {
	feed := NewChatFeed()
	feed.Replace(chatMessages("m1", "m2", "m3"))
	deleter := &stubDeleter{}

	err := feed.DeleteThrough(context.Background(), deleter, "m2", staffClaims("u1"))
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m3"}, feedIDs(feed))
	assert.Equal(t, []string{"m2"}, deleter.calls)
}

// A rejected delete must leave the feed holding exactly the messages it held
// before, in the same order.
func TestChatFeedDeleteThroughRollsBack(t *testing.T) {
	feed := NewChatFeed()
	feed.Replace(chatMessages("m1", "m2", "m3"))
	deleter := &stubDeleter{err: appErrors.Clone(appErrors.ErrForbidden, "not yours")}

	err := feed.DeleteThrough(context.Background(), deleter, "m2", staffClaims("u1"))
	require.Error(t, err)
	assert.Equal(t, []string{"m1", "m2", "m3"}, feedIDs(feed))
}

func TestChatFeedDeleteThroughUnknownID(t *testing.T) {
	feed := NewChatFeed()
	feed.Replace(chatMessages("m1"))
	deleter := &stubDeleter{err: appErrors.Clone(appErrors.ErrNotFound, "gone")}

	err := feed.DeleteThrough(context.Background(), deleter, "m9", staffClaims("u1"))
	require.Error(t, err)
	assert.Equal(t, []string{"m1"}, feedIDs(feed))
}

type blockingLister struct {
	mu       sync.Mutex
	release  chan struct{}
	calls    atomic.Int32
	messages []models.ChatMessage
}

func (b *blockingLister) List(_ context.Context) ([]models.ChatMessage, error) {
	b.calls.Add(1)
	if b.release != nil {
		<-b.release
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.messages, nil
}

func TestChatPollerPopulatesFeed(t *testing.T) {
	feed := NewChatFeed()
	source := &blockingLister{messages: chatMessages("m1", "m2")}
	poller := NewChatPoller(feed, source, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return feed.Len() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on cancel")
	}
}

func TestChatPollerSkipsOverlappingTicks(t *testing.T) {
	feed := NewChatFeed()
	source := &blockingLister{release: make(chan struct{})}
	poller := NewChatPoller(feed, source, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	// the first refresh is stuck; let several intervals elapse
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), source.calls.Load())

	close(source.release)
	require.Eventually(t, func() bool { return source.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}
