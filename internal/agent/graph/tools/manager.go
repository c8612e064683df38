package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/bazi-agent/server/internal/agent/model"
	"github.com/bazi-agent/server/internal/bazi"
)

const (
	ToolBaziCalculator  = "gregorian_datetime_to_bazi"
	ToolSearchKnowledge = "search_bazi_knowledge"
	ToolSearchWeb       = "search_web"
)

// Searcher is implemented by search.Searcher.
type Searcher interface {
	Search(ctx context.Context, query string) (*model.SearchResult, error)
}

// Dependencies feed the tools. Nil searchers leave their tool out.
type Dependencies struct {
	Calculator *bazi.Calculator
	Knowledge  Searcher
	Web        Searcher
}

// GetQueryTools returns the tools bound to the root model.
func GetQueryTools(deps Dependencies) []tool.BaseTool {
	calc := deps.Calculator
	if calc == nil {
		calc = bazi.NewCalculator()
	}
	ts := []tool.BaseTool{createBaziCalculatorTool(calc)}
	if deps.Knowledge != nil {
		ts = append(ts, createSearchKnowledgeTool(deps.Knowledge))
	}
	if deps.Web != nil {
		ts = append(ts, createSearchWebTool(deps.Web))
	}
	return ts
}

// GetToolInfos collects the schema of every tool for model binding.
func GetToolInfos(ctx context.Context, ts []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Names returns the tool names in order.
func Names(infos []*schema.ToolInfo) []string {
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names
}
