package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// ConversationRepository stores the user and assistant turns of a
// conversation. Tool calls and tool results of a turn are never stored.
type ConversationRepository interface {
	// AddMessage appends a message and refreshes the conversation's expiry.
	AddMessage(ctx context.Context, conversationID string, message *schema.Message) error

	// LoadHistory returns the stored turns, oldest first. Unknown or expired
	// conversations yield an empty history, not an error.
	LoadHistory(ctx context.Context, conversationID string) (*ConversationHistory, error)

	ClearHistory(ctx context.Context, conversationID string) error

	GetMessageCount(ctx context.Context, conversationID string) (int, error)
}

// ConversationHistory is a snapshot of one conversation.
type ConversationHistory struct {
	ConversationID string
	Messages       []*schema.Message
}

// Len reports the number of stored turns.
func (h *ConversationHistory) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Messages)
}
