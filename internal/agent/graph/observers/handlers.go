package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewAllCallbacks aggregates the prompt, model and tool observers into one
// callbacks.Handler.
func NewAllCallbacks() einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		Tool(newToolHandler()).
		ChatModel(newModelHandler()).
		Prompt(newPromptHandler()).
		Handler()
}

// maxLogged bounds logged payloads.
const maxLogged = 2000

func clip(s string) string {
	r := []rune(s)
	if len(r) <= maxLogged {
		return s
	}
	return string(r[:maxLogged]) + "…"
}
