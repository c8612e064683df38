package model

import (
	"github.com/cloudwego/eino/schema"
)

// AppState stores per-invocation state for the Eino Graph.
// It is registered as graph local state via compose.WithGenLocalState and is
// only read or written inside state handlers or compose.ProcessState, which
// eino serialises.
type AppState struct {
	ConversationID       string
	History              []*schema.Message
	ToolCallCount        int
	ToolCallLimitReached bool
	ToolCallIDSeq        int // synthesises tool_call_id when the provider omits it

	// Accumulated total LLM cost (USD) across model invocations for this query
	TotalCostUSD float64
}

// QueryInput represents the input for processing user queries.
type QueryInput struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}
