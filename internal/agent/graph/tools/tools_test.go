package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazi-agent/server/internal/agent/model"
	"github.com/bazi-agent/server/internal/bazi"
	errx "github.com/bazi-agent/server/internal/core/error"
)

type stubSearcher struct {
	res   *model.SearchResult
	err   error
	query string
}

func (s *stubSearcher) Search(_ context.Context, query string) (*model.SearchResult, error) {
	s.query = query
	return s.res, s.err
}

func invoke(t *testing.T, bt tool.BaseTool, args string, out any) {
	t.Helper()
	it, ok := bt.(tool.InvokableTool)
	require.True(t, ok)
	raw, err := it.InvokableRun(context.Background(), args)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(raw), out))
}

func TestGetQueryTools(t *testing.T) {
	ctx := context.Background()

	infos, err := GetToolInfos(ctx, GetQueryTools(Dependencies{}))
	require.NoError(t, err)
	assert.Equal(t, []string{ToolBaziCalculator}, Names(infos))

	infos, err = GetToolInfos(ctx, GetQueryTools(Dependencies{
		Knowledge: &stubSearcher{},
		Web:       &stubSearcher{},
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{ToolBaziCalculator, ToolSearchKnowledge, ToolSearchWeb}, Names(infos))
	assert.NotNil(t, infos[0].ParamsOneOf)
}

func TestBaziCalculatorTool(t *testing.T) {
	calc := GetQueryTools(Dependencies{})[0]

	var out model.BaziResult
	invoke(t, calc, `{"year":1990,"month":1,"day":1,"hour":0,"minute":0}`, &out)
	assert.Equal(t, "己巳 丙子 丙寅 戊子", out.Bazi)
	assert.Equal(t, "丙", out.DayMaster)
	assert.Equal(t, "Fire", out.DayMasterElement)
	assert.Equal(t, "一九八九年腊月初五", out.LunarDate)
	assert.Equal(t, "1990-01-01 00:00", out.Input)
	assert.Empty(t, out.Error)
}

func TestBaziCalculatorToolOptions(t *testing.T) {
	calc := GetQueryTools(Dependencies{Calculator: bazi.NewCalculator(bazi.WithYearBoundary(bazi.LiChun))})[0]

	var out model.BaziResult
	invoke(t, calc, `{"year":2024,"month":2,"day":4,"hour":17,"minute":0}`, &out)
	assert.Equal(t, "甲辰 丙寅 戊戌 辛酉", out.Bazi)
}

func TestBaziCalculatorToolInvalidInput(t *testing.T) {
	calc := GetQueryTools(Dependencies{})[0]

	var out model.BaziResult
	invoke(t, calc, `{"year":2023,"month":2,"day":30,"hour":10,"minute":0}`, &out)
	assert.Empty(t, out.Bazi)
	assert.Equal(t, errx.InvalidBirthMessage, out.Error)
	assert.Equal(t, "day", out.Field)
	assert.NotEmpty(t, out.Reason)

	out = model.BaziResult{}
	invoke(t, calc, `{"year":2023,"month":5,"day":1,"hour":24,"minute":0}`, &out)
	assert.Equal(t, "hour", out.Field)

	out = model.BaziResult{}
	invoke(t, calc, `{"year":1850,"month":5,"day":1,"hour":8,"minute":0}`, &out)
	assert.Equal(t, errx.UnsupportedBirthMessage, out.Error)
	assert.Equal(t, "year", out.Field)
}

func TestSearchTools(t *testing.T) {
	knowledge := &stubSearcher{res: &model.SearchResult{
		Query:   "己巳 丙子 丙寅 戊子",
		Answer:  "Bính Hỏa",
		Sources: []model.Source{{URI: "gs://docs/a.pdf"}},
	}}
	web := &stubSearcher{err: errx.WrapSearch(errors.New("quota"))}
	ts := GetQueryTools(Dependencies{Knowledge: knowledge, Web: web})

	var out model.SearchResult
	invoke(t, ts[1], `{"query":"己巳 丙子 丙寅 戊子"}`, &out)
	assert.Equal(t, "Bính Hỏa", out.Answer)
	assert.Equal(t, "己巳 丙子 丙寅 戊子", knowledge.query)
	require.Len(t, out.Sources, 1)

	out = model.SearchResult{}
	invoke(t, ts[2], `{"query":"famous 丙寅 people"}`, &out)
	assert.Empty(t, out.Answer)
	assert.Equal(t, errx.SearchErrorMessage, out.Error)
	assert.Equal(t, "famous 丙寅 people", out.Query)
}

func TestSearchToolsRejectMalformedChart(t *testing.T) {
	knowledge := &stubSearcher{res: &model.SearchResult{Answer: "unused"}}
	ts := GetQueryTools(Dependencies{Knowledge: knowledge})

	var out model.SearchResult
	// 甲丑 mixes a yang stem with a yin branch
	invoke(t, ts[1], `{"query":"甲丑 丙子 丙寅 戊子 career"}`, &out)
	assert.Contains(t, out.Error, "invalid Bazi chart")
	assert.Empty(t, knowledge.query, "searcher must not be called")
}

func TestCheckChart(t *testing.T) {
	assert.NoError(t, checkChart("己巳 丙子 丙寅 戊子"))
	assert.NoError(t, checkChart("己巳 丙子 丙寅 戊子 sự nghiệp"))
	assert.NoError(t, checkChart("Bính Hỏa là gì"))
	assert.NoError(t, checkChart("丙寅"))
	assert.Error(t, checkChart("己巳 丙子 丙寅 戊丑"))
	assert.Error(t, checkChart("你好 世界 天气 很好"))
}
