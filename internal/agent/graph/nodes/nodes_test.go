package nodes

import (
	"context"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazi-agent/server/internal/agent/graph/conversations"
	"github.com/bazi-agent/server/internal/agent/model"
	"github.com/bazi-agent/server/internal/agent/repo"
)

func newManager() (*conversations.MessagesManager, *repo.MemoryConversationRepository) {
	r := repo.NewMemoryConversationRepository(time.Hour, 0)
	return conversations.NewMessagesManager(r, model.ConversationConfig{MaxTurns: 20}), r
}

func TestToolBudget(t *testing.T) {
	s := &model.AppState{}
	b := newToolBudget(2)
	assert.False(t, b.spend(s))
	assert.False(t, b.exhausted(s))
	assert.False(t, b.spend(s))
	assert.True(t, b.exhausted(s))
	assert.False(t, b.exhausted(s), "flags only once")
	assert.True(t, s.ToolCallLimitReached)

	over := &model.AppState{ToolCallCount: 2}
	assert.True(t, b.spend(over))
	assert.True(t, over.ToolCallLimitReached)

	assert.Equal(t, toolBudget(DefaultMaxToolCalls), newToolBudget(0))
	assert.Equal(t, toolBudget(3), newToolBudget(3))
}

func TestLimitFallbackMessage(t *testing.T) {
	assert.Contains(t, limitFallbackMessage("Vietnamese"), "Xin lỗi")
	assert.Contains(t, limitFallbackMessage(" english "), "ran out of lookups")
	assert.Equal(t, limitFallbackMessage("English"), limitFallbackMessage("Klingon"))
}

func TestResponsePreHandlerFillsToolCallID(t *testing.T) {
	pre := NewResponseChatModelPreHandler(5)
	state := &model.AppState{History: []*schema.Message{
		schema.AssistantMessage("", []schema.ToolCall{{ID: "call_7", Function: schema.FunctionCall{Name: "x"}}}),
	}}

	out, err := pre(context.Background(), []*schema.Message{{Role: schema.Tool, Content: "{}"}}, state)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "call_7", out[1].ToolCallID)
}

func TestResponsePreHandlerMatchesToolCallIDsByPosition(t *testing.T) {
	pre := NewResponseChatModelPreHandler(5)
	state := &model.AppState{History: []*schema.Message{
		schema.AssistantMessage("", []schema.ToolCall{
			{ID: "call_1", Function: schema.FunctionCall{Name: "gregorian_datetime_to_bazi"}},
			{ID: "call_2", Function: schema.FunctionCall{Name: "search_web"}},
			{ID: "call_3", Function: schema.FunctionCall{Name: "search_bazi_knowledge"}},
		}),
	}}

	in := []*schema.Message{
		{Role: schema.Tool, Content: `{"bazi":"己巳 丙子 丙寅 戊子"}`},
		schema.ToolMessage(`{"answer":"web"}`, "call_2"),
		{Role: schema.Tool, Content: `{"answer":"kb"}`},
	}
	out, err := pre(context.Background(), in, state)
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, "call_1", out[1].ToolCallID)
	assert.Equal(t, "call_2", out[2].ToolCallID)
	assert.Equal(t, "call_3", out[3].ToolCallID)
}

func TestResponsePreHandlerWrapUpNotice(t *testing.T) {
	pre := NewResponseChatModelPreHandler(1)
	state := &model.AppState{ToolCallCount: 1}

	out, err := pre(context.Background(), []*schema.Message{schema.ToolMessage("{}", "call_1")}, state)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, schema.System, out[1].Role)
	assert.Contains(t, out[1].Content, "maximum tool call limit (1)")
	assert.True(t, state.ToolCallLimitReached)
}

func TestResponsePostHandler(t *testing.T) {
	ctx := context.Background()
	mm, r := newManager()
	post := NewResponseChatModelPostHandler(mm, "gemini-2.5-pro", "Vietnamese")
	state := &model.AppState{ConversationID: "c"}

	// Tool calls get ids and are not stored.
	call := schema.AssistantMessage("", []schema.ToolCall{{Function: schema.FunctionCall{Name: "gregorian_datetime_to_bazi"}}})
	out, err := post(ctx, call, state)
	require.NoError(t, err)
	assert.Equal(t, "call_1", out.ToolCalls[0].ID)
	n, _ := r.GetMessageCount(ctx, "c")
	assert.Zero(t, n)

	// Final answers are stored and costed.
	final := schema.AssistantMessage("Nhật chủ của bạn là Bính Hỏa.", nil)
	final.ResponseMeta = &schema.ResponseMeta{Usage: &schema.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 100_000, TotalTokens: 1_100_000}}
	out, err = post(ctx, final, state)
	require.NoError(t, err)
	assert.InDelta(t, 2.25, state.TotalCostUSD, 1e-9)
	assert.InDelta(t, 2.25, out.Extra["usage_cost_total_usd"], 1e-9)
	n, _ = r.GetMessageCount(ctx, "c")
	assert.Equal(t, 1, n)
	assert.Len(t, state.History, 2)

	_, err = post(ctx, nil, state)
	assert.Error(t, err)
}

func TestToolExecutorPreHandlerCounts(t *testing.T) {
	pre := NewToolExecutorPreHandler(1)
	state := &model.AppState{}
	msg := schema.AssistantMessage("", nil)

	_, err := pre(context.Background(), msg, state)
	require.NoError(t, err)
	assert.False(t, state.ToolCallLimitReached)
	_, err = pre(context.Background(), msg, state)
	require.NoError(t, err)
	assert.True(t, state.ToolCallLimitReached)
	assert.Equal(t, 2, state.ToolCallCount)
}

func TestInputConverterPreHandlerResets(t *testing.T) {
	pre := NewInputConverterPreHandler()
	state := &model.AppState{ToolCallCount: 4, ToolCallLimitReached: true, TotalCostUSD: 1, History: []*schema.Message{{}}}
	in := model.QueryInput{ConversationID: "c", Query: "q"}

	got, err := pre(context.Background(), in, state)
	require.NoError(t, err)
	assert.Equal(t, in, got)
	assert.Equal(t, "c", state.ConversationID)
	assert.Zero(t, state.ToolCallCount)
	assert.False(t, state.ToolCallLimitReached)
	assert.Zero(t, state.TotalCostUSD)
	assert.Empty(t, state.History)
}

func TestResponsePostHandlerAnswersAfterToolLimit(t *testing.T) {
	ctx := context.Background()
	mm, r := newManager()
	post := NewResponseChatModelPostHandler(mm, "gemini-2.5-pro", "Vietnamese")
	state := &model.AppState{ConversationID: "c", ToolCallLimitReached: true}

	call := schema.AssistantMessage("", []schema.ToolCall{{Function: schema.FunctionCall{Name: "search_web"}}})
	out, err := post(ctx, call, state)
	require.NoError(t, err)
	assert.Empty(t, out.ToolCalls)
	assert.Equal(t, limitFallbackMessage("Vietnamese"), out.Content)

	h, err := r.LoadHistory(ctx, "c")
	require.NoError(t, err)
	require.Len(t, h.Messages, 1)
	assert.Equal(t, out.Content, h.Messages[0].Content)

	// Text the model did write is kept.
	partial := schema.AssistantMessage("Nhật chủ Bính Hỏa.", []schema.ToolCall{{Function: schema.FunctionCall{Name: "search_web"}}})
	out, err = post(ctx, partial, state)
	require.NoError(t, err)
	assert.Empty(t, out.ToolCalls)
	assert.Equal(t, "Nhật chủ Bính Hỏa.", out.Content)
}
