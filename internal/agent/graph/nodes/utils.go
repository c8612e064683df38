package nodes

import (
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/bazi-agent/server/internal/agent/model"
)

const DefaultMaxToolCalls = 10

// toolBudget is how many tool rounds (calculator or search) one user turn
// may spend before the model has to write the reading.
type toolBudget int

func newToolBudget(n int) toolBudget {
	if n <= 0 {
		return DefaultMaxToolCalls
	}
	return toolBudget(n)
}

// exhausted flags the state once every round is spent. It reports true only
// on the call that flags it, so the wrap-up notice is sent once.
func (b toolBudget) exhausted(state *model.AppState) bool {
	if state.ToolCallLimitReached || state.ToolCallCount < int(b) {
		return false
	}
	state.ToolCallLimitReached = true
	return true
}

// spend counts one round and reports whether it went over the budget.
func (b toolBudget) spend(state *model.AppState) bool {
	state.ToolCallCount++
	if state.ToolCallCount <= int(b) {
		return false
	}
	state.ToolCallLimitReached = true
	return true
}

// pendingToolCallIDs returns the call ids of the latest assistant turn that
// asked for tools, in call order.
func pendingToolCallIDs(history []*schema.Message) []string {
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if msg == nil || msg.Role != schema.Assistant || len(msg.ToolCalls) == 0 {
			continue
		}
		ids := make([]string, len(msg.ToolCalls))
		for j, tc := range msg.ToolCalls {
			ids[j] = strings.TrimSpace(tc.ID)
		}
		return ids
	}
	return nil
}

var limitFallback = map[string]string{
	"vietnamese": "Xin lỗi, tôi đã dùng hết số lần tra cứu cho câu hỏi này nên chưa thể hoàn tất phần luận giải. " +
		"Bạn hãy hỏi lại hoặc thu hẹp câu hỏi nhé.",
	"english": "Sorry, I ran out of lookups for this question before finishing the reading. " +
		"Please ask again or narrow the question.",
}

// limitFallbackMessage is the answer used when the model still asks for
// tools after the budget is spent and gives no text of its own.
func limitFallbackMessage(language string) string {
	if msg, ok := limitFallback[strings.ToLower(strings.TrimSpace(language))]; ok {
		return msg
	}
	return limitFallback["english"]
}
