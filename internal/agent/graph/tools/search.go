package tools

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/bazi-agent/server/internal/agent/model"
	"github.com/bazi-agent/server/internal/bazi"
	errx "github.com/bazi-agent/server/internal/core/error"
	logx "github.com/bazi-agent/server/pkg/logger"
)

type SearchInput struct {
	Query string `json:"query"`
}

func searchParams(desc string) *schema.ParamsOneOf {
	return schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
		"query": {Type: schema.String, Desc: desc, Required: true},
	})
}

func createSearchKnowledgeTool(s Searcher) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSearchKnowledge,
			Desc: "Searches a private knowledge base for detailed interpretations and analysis of a Bazi chart. " +
				"Returns an answer with its sources.",
			ParamsOneOf: searchParams("The Bazi chart exactly as returned by " + ToolBaziCalculator + ", optionally followed by a question."),
		},
		searchFunc(ToolSearchKnowledge, s),
	)
}

func createSearchWebTool(s Searcher) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSearchWeb,
			Desc: "Searches Google for public information, facts and famous people related to a Bazi chart. " +
				"Returns an answer with its sources.",
			ParamsOneOf: searchParams("Search query, e.g. the Bazi chart or the Day Master with a topic."),
		},
		searchFunc(ToolSearchWeb, s),
	)
}

// searchFunc turns search failures into a result the model can read, so
// one failing backend does not abort the whole turn.
func searchFunc(name string, s Searcher) func(context.Context, *SearchInput) (*model.SearchResult, error) {
	return func(ctx context.Context, in *SearchInput) (*model.SearchResult, error) {
		if err := checkChart(in.Query); err != nil {
			logx.Warn().Err(err).Str("tool", name).Str("query", in.Query).Msg("search query carries a malformed chart")
			return &model.SearchResult{Query: in.Query, Error: "invalid Bazi chart: " + err.Error()}, nil
		}
		res, err := s.Search(ctx, in.Query)
		if err != nil {
			logx.Warn().Err(err).Str("tool", name).Str("query", in.Query).Msg("search tool failed")
			msg := errx.SearchErrorMessage
			var ae *errx.AppError
			if errors.As(err, &ae) {
				msg = ae.Message
			}
			return &model.SearchResult{Query: in.Query, Error: msg}, nil
		}
		return res, nil
	}
}

// checkChart validates a query that opens with four two-character Han
// tokens, the form the calculator tool returns. Other queries pass.
func checkChart(query string) error {
	fields := strings.Fields(query)
	if len(fields) < 4 {
		return nil
	}
	for _, f := range fields[:4] {
		r := []rune(f)
		if len(r) != 2 || !unicode.Is(unicode.Han, r[0]) || !unicode.Is(unicode.Han, r[1]) {
			return nil
		}
	}
	_, err := bazi.ParsePillars(strings.Join(fields[:4], " "))
	return err
}
