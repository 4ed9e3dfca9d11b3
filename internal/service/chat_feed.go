package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/vaguthu/election-console/internal/models"
)

// ChatFeed is an in-memory mirror of the chat history shared between the
// poller and any consumer that wants the latest snapshot without hitting
// the store. Deletes are applied optimistically and rolled back if the
// store rejects them.
type ChatFeed struct {
	mu       sync.RWMutex
	messages []models.ChatMessage
}

// NewChatFeed creates an empty feed.
func NewChatFeed() *ChatFeed {
	return &ChatFeed{messages: []models.ChatMessage{}}
}

// Replace swaps the feed contents for a fresh snapshot.
func (f *ChatFeed) Replace(messages []models.ChatMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages[:0:0], messages...)
}

// Snapshot returns a copy of the current feed.
func (f *ChatFeed) Snapshot() []models.ChatMessage {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append(f.messages[:0:0], f.messages...)
}

// Len returns the number of messages currently held.
func (f *ChatFeed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.messages)
}

// remove takes a message out of the feed, returning it with its position so
// a failed store delete can restore it exactly where it was.
func (f *ChatFeed) remove(id string) (models.ChatMessage, int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, msg := range f.messages {
		if msg.ID == id {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return msg, i, true
		}
	}
	return models.ChatMessage{}, 0, false
}

// restore puts a previously removed message back at its original position.
func (f *ChatFeed) restore(msg models.ChatMessage, index int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if index < 0 {
		index = 0
	}
	if index > len(f.messages) {
		index = len(f.messages)
	}
	f.messages = append(f.messages, models.ChatMessage{})
	copy(f.messages[index+1:], f.messages[index:])
	f.messages[index] = msg
}

type messageDeleter interface {
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
}

// DeleteThrough removes the message from the feed immediately, then asks the
// store to delete it. If the store refuses, the message is restored and the
// feed holds the same set of messages as before the call.
func (f *ChatFeed) DeleteThrough(ctx context.Context, deleter messageDeleter, id string, actor *models.JWTClaims) error {
	msg, index, found := f.remove(id)

	err := deleter.Delete(ctx, id, actor)
	if err != nil && found {
		f.restore(msg, index)
	}
	return err
}

type messageLister interface {
	List(ctx context.Context) ([]models.ChatMessage, error)
}

// ChatPoller refreshes a ChatFeed on a fixed interval. A tick that fires
// while the previous fetch is still in flight is dropped rather than queued,
// so a slow store never stacks up refreshes.
type ChatPoller struct {
	feed     *ChatFeed
	source   messageLister
	interval time.Duration
	logger   *zap.Logger
	inFlight atomic.Bool
}

// NewChatPoller creates a poller over the given feed.
func NewChatPoller(feed *ChatFeed, source messageLister, interval time.Duration, logger *zap.Logger) *ChatPoller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &ChatPoller{feed: feed, source: source, interval: interval, logger: logger}
}

// Run polls until the context is cancelled. It performs one refresh up
// front so the feed is populated before the first tick.
func (p *ChatPoller) Run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go p.refresh(ctx)
		}
	}
}

func (p *ChatPoller) refresh(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer p.inFlight.Store(false)

	messages, err := p.source.List(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("chat refresh failed", zap.Error(err))
		}
		return
	}
	p.feed.Replace(messages)
}
