package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/bazi-agent/server/internal/agent/graph/conversations"
	"github.com/bazi-agent/server/internal/agent/graph/prompts"
	"github.com/bazi-agent/server/internal/agent/model"
	logx "github.com/bazi-agent/server/pkg/logger"
)

const (
	NodeInputConverter    = "InputConverter"
	NodeResponseChatModel = "ResponseChatModel"
	NodeToolExecutor      = "ToolExecutor"
)

// NewInputConverterPreHandler creates the pre-handler for InputConverter node
func NewInputConverterPreHandler() func(context.Context, model.QueryInput, *model.AppState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.AppState) (model.QueryInput, error) {
		if s.ConversationID == "" {
			s.ConversationID = in.ConversationID
		}
		// Counters and cost are per query
		s.ToolCallCount = 0
		s.ToolCallLimitReached = false
		s.ToolCallIDSeq = 0
		s.TotalCostUSD = 0
		s.History = nil
		return in, nil
	}
}

// NewInputConverterNode stores the user turn and builds the root model's
// context: the rendered system prompt followed by recent history.
func NewInputConverterNode(
	mm *conversations.MessagesManager,
	promptCfg model.PromptConfig,
	toolNames []string,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) ([]*schema.Message, error) {
		if err := mm.AddUserMessage(ctx, input.ConversationID, input.Query); err != nil {
			return nil, fmt.Errorf("store user message: %w", err)
		}

		systemPrompt, err := prompts.RenderBaziSystem(ctx, promptCfg, toolNames)
		if err != nil {
			return nil, fmt.Errorf("render bazi system prompt: %w", err)
		}

		messages, err := mm.BuildResponseContext(ctx, input.ConversationID, systemPrompt)
		if err != nil {
			return nil, fmt.Errorf("build response context: %w", err)
		}
		return messages, nil
	})
}

// NewResponseChatModelPreHandler creates the pre-handler for ResponseChatModel node
func NewResponseChatModelPreHandler(maxToolCalls int) func(context.Context, []*schema.Message, *model.AppState) ([]*schema.Message, error) {
	budget := newToolBudget(maxToolCalls)
	return func(ctx context.Context, in []*schema.Message, state *model.AppState) ([]*schema.Message, error) {
		// Tool results answer the pending calls in order
		ids := pendingToolCallIDs(state.History)
		k := 0
		for _, msg := range in {
			if msg == nil || msg.Role != schema.Tool {
				continue
			}
			if strings.TrimSpace(msg.ToolCallID) == "" && k < len(ids) {
				msg.ToolCallID = ids[k]
			}
			k++
		}

		state.History = append(state.History, in...)

		if budget.exhausted(state) {
			state.History = append(state.History, &schema.Message{
				Role: schema.System,
				Content: fmt.Sprintf(
					"SYSTEM NOTICE: You have reached the maximum tool call limit (%d). "+
						"Write the reading with the information you already have and "+
						"say which parts could not be looked up.",
					int(budget),
				),
			})
		}

		return state.History, nil
	}
}

// NewResponseChatModelPostHandler creates the post-handler for ResponseChatModel node
func NewResponseChatModelPostHandler(
	mm *conversations.MessagesManager,
	modelName string,
	language string,
) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.AppState) (*schema.Message, error) {
		if out == nil {
			return nil, fmt.Errorf("root model returned no message")
		}

		if model.CostEnabled() && out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
			usage := out.ResponseMeta.Usage
			inC, outC, totalC := model.ComputeCost(usage, model.ResolvePricing(modelName))
			if out.Extra == nil {
				out.Extra = map[string]any{}
			}
			out.Extra["usage_cost"] = model.UsageCost(modelName, usage, inC, outC, totalC)
			logx.Debug().
				Str("conversation_id", state.ConversationID).
				Str("node", NodeResponseChatModel).
				Str("model", modelName).
				Int("prompt_tokens", usage.PromptTokens).
				Int("completion_tokens", usage.CompletionTokens).
				Float64("total_cost_usd", totalC).
				Msg("LLM usage")

			state.TotalCostUSD += totalC
			out.Extra["usage_cost_total_usd"] = state.TotalCostUSD
		}

		// No tool runs after the budget is spent; the turn must still end
		// with an answer.
		if state.ToolCallLimitReached && len(out.ToolCalls) > 0 {
			logx.Warn().
				Str("conversation_id", state.ConversationID).
				Int("dropped_tool_calls", len(out.ToolCalls)).
				Msg("Tool call after limit - answering without tools")
			out.ToolCalls = nil
			if strings.TrimSpace(out.Content) == "" {
				out.Content = limitFallbackMessage(language)
			}
		}

		// Gemini may omit tool call ids
		for i := range out.ToolCalls {
			if strings.TrimSpace(out.ToolCalls[i].ID) == "" {
				state.ToolCallIDSeq++
				out.ToolCalls[i].ID = fmt.Sprintf("call_%d", state.ToolCallIDSeq)
			}
		}

		state.History = append(state.History, out)

		if len(out.ToolCalls) > 0 {
			logx.Debug().Int("tool_count", len(out.ToolCalls)).Msg("Calling tools")
		}

		// Only final answers are stored
		if out.Role == schema.Assistant && len(out.ToolCalls) == 0 && strings.TrimSpace(out.Content) != "" {
			if err := mm.SaveResponse(ctx, state.ConversationID, out.Content); err != nil {
				logx.Error().
					Str("conversation_id", state.ConversationID).
					Err(err).
					Msg("Error saving assistant response")
			}
		}

		return out, nil
	}
}

// NewToolExecutorCondition routes to the tools node while the model asks for
// tools and the limit has not been reached.
func NewToolExecutorCondition() func(context.Context, *schema.Message) (string, error) {
	return func(ctx context.Context, input *schema.Message) (string, error) {
		var limitReached bool
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			limitReached = state.ToolCallLimitReached
			return nil
		})
		if err != nil {
			return "", err
		}

		if limitReached {
			logx.Debug().Msg("Tool limit reached previously - routing to end")
			return compose.END, nil
		}

		if len(input.ToolCalls) > 0 {
			return NodeToolExecutor, nil
		}
		return compose.END, nil
	}
}

// NewToolExecutorPreHandler creates the pre-handler for ToolExecutor node
func NewToolExecutorPreHandler(maxToolCalls int) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	budget := newToolBudget(maxToolCalls)
	return func(ctx context.Context, in *schema.Message, state *model.AppState) (*schema.Message, error) {
		if budget.spend(state) {
			logx.Warn().
				Int("tool_call_count", state.ToolCallCount).
				Int("max_tool_calls", int(budget)).
				Str("conversation_id", state.ConversationID).
				Msg("Tool call limit exceeded - flagging and continuing")
		}
		return in, nil
	}
}
