package conversations

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/bazi-agent/server/internal/agent/model"
)

type MessagesManager struct {
	conversationRepo model.ConversationRepository
	maxTurns         int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	return &MessagesManager{
		conversationRepo: conversationRepo,
		maxTurns:         config.MaxTurns,
	}
}

// AddUserMessage stores the user's turn.
func (cm *MessagesManager) AddUserMessage(ctx context.Context, conversationID string, query string) error {
	if strings.TrimSpace(conversationID) == "" {
		return fmt.Errorf("conversation id is empty")
	}
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query is empty")
	}
	return cm.conversationRepo.AddMessage(ctx, conversationID, schema.UserMessage(query))
}

// BuildResponseContext returns the system prompt followed by the most recent
// maxTurns stored messages. The window never starts with an assistant turn.
func (cm *MessagesManager) BuildResponseContext(ctx context.Context, conversationID string, systemPrompt string) ([]*schema.Message, error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	var recent []*schema.Message
	if history.Len() > 0 {
		recent = trimTail(history.Messages, cm.maxTurns)
	}
	for len(recent) > 0 && (recent[0] == nil || recent[0].Role != schema.User) {
		recent = recent[1:]
	}

	messages := make([]*schema.Message, 0, len(recent)+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	for _, m := range recent {
		if m == nil || m.Content == "" {
			continue
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (cm *MessagesManager) SaveResponse(ctx context.Context, conversationID string, content string) error {
	assistantMsg := schema.AssistantMessage(content, nil)
	return cm.conversationRepo.AddMessage(ctx, conversationID, assistantMsg)
}

// ====================== Helper function ======================
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		return messages
	}
	return messages[len(messages)-maxTurns:]
}
