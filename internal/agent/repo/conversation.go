package repo

import (
	"context"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/bazi-agent/server/internal/agent/model"
	logx "github.com/bazi-agent/server/pkg/logger"
)

// MemoryConversationRepository keeps conversation history in process memory.
// Conversations expire ttl after their last message and keep at most
// maxMessages entries; nothing survives a restart.
type MemoryConversationRepository struct {
	mu            sync.Mutex
	ttl           time.Duration
	maxMessages   int
	now           func() time.Time
	conversations map[string]*conversation
}

type conversation struct {
	messages  []*schema.Message
	expiresAt time.Time
}

func NewMemoryConversationRepository(ttl time.Duration, maxMessages int) *MemoryConversationRepository {
	return &MemoryConversationRepository{
		ttl:           ttl,
		maxMessages:   maxMessages,
		now:           time.Now,
		conversations: make(map[string]*conversation),
	}
}

// lookup returns the live conversation, dropping it when expired.
// Callers hold r.mu.
func (r *MemoryConversationRepository) lookup(conversationID string) *conversation {
	c, ok := r.conversations[conversationID]
	if !ok {
		return nil
	}
	if r.ttl > 0 && !r.now().Before(c.expiresAt) {
		delete(r.conversations, conversationID)
		logx.Debug().Str("conversation_id", conversationID).Msg("conversation expired")
		return nil
	}
	return c
}

func (r *MemoryConversationRepository) AddMessage(ctx context.Context, conversationID string, message *schema.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.lookup(conversationID)
	if c == nil {
		c = &conversation{}
		r.conversations[conversationID] = c
	}
	c.messages = append(c.messages, message)
	if r.maxMessages > 0 && len(c.messages) > r.maxMessages {
		c.messages = append([]*schema.Message(nil), c.messages[len(c.messages)-r.maxMessages:]...)
	}
	// extend TTL on touch
	if r.ttl > 0 {
		c.expiresAt = r.now().Add(r.ttl)
	}
	return nil
}

func (r *MemoryConversationRepository) LoadHistory(ctx context.Context, conversationID string) (*model.ConversationHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := []*schema.Message{}
	if c := r.lookup(conversationID); c != nil {
		msgs = append(msgs, c.messages...)
	}
	return &model.ConversationHistory{ConversationID: conversationID, Messages: msgs}, nil
}

func (r *MemoryConversationRepository) ClearHistory(ctx context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conversations, conversationID)
	return nil
}

func (r *MemoryConversationRepository) GetMessageCount(ctx context.Context, conversationID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c := r.lookup(conversationID); c != nil {
		return len(c.messages), nil
	}
	return 0, nil
}

// Sweep drops every expired conversation and returns how many were removed.
func (r *MemoryConversationRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id := range r.conversations {
		if r.lookup(id) == nil {
			n++
		}
	}
	return n
}

var _ model.ConversationRepository = (*MemoryConversationRepository)(nil)

// RunJanitor sweeps expired conversations every interval until ctx is done.
func (r *MemoryConversationRepository) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 || r.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				logx.Debug().Int("expired", n).Msg("swept conversations")
			}
		}
	}
}
