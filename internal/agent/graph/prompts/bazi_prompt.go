package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/bazi-agent/server/internal/agent/graph/tools"
	"github.com/bazi-agent/server/internal/agent/model"
)

//go:embed template/bazi_prompt.txt
var baziSystemPrompt string

const defaultLanguage = "Vietnamese"

// RenderBaziSystem renders the root agent's system prompt for the tools that
// are actually bound, and triggers prompt callbacks.
func RenderBaziSystem(ctx context.Context, config model.PromptConfig, toolNames []string) (string, error) {
	lang := strings.TrimSpace(config.Language)
	if lang == "" {
		lang = defaultLanguage
	}

	vars := map[string]any{
		"Language":       lang,
		"CalculatorTool": tools.ToolBaziCalculator,
		"KnowledgeTool":  "",
		"WebTool":        "",
	}
	for _, name := range toolNames {
		switch name {
		case tools.ToolSearchKnowledge:
			vars["KnowledgeTool"] = name
		case tools.ToolSearchWeb:
			vars["WebTool"] = name
		}
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(baziSystemPrompt),
	)
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("bazi prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("bazi prompt render: empty result")
	}
	return msgs[0].Content, nil
}
