package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"

	"github.com/bazi-agent/server/internal/agent/graph"
	"github.com/bazi-agent/server/internal/agent/graph/nodes"
	"github.com/bazi-agent/server/internal/agent/graph/tools"
	"github.com/bazi-agent/server/internal/agent/model"
	"github.com/bazi-agent/server/internal/agent/repo"
	"github.com/bazi-agent/server/internal/agent/search"
	"github.com/bazi-agent/server/internal/bazi"
	"github.com/bazi-agent/server/internal/core"
	logx "github.com/bazi-agent/server/pkg/logger"
	pkgredis "github.com/bazi-agent/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the agent demo,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider. The API key is not needed on Vertex AI.
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`
	Google  model.GoogleCloudConfig

	// Agent configs
	Root         model.RootModelConfig
	Search       model.SearchConfig
	Bazi         model.BaziConfig
	Prompt       model.PromptConfig
	Conversation model.ConversationConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		fmt.Printf("Warning: could not load .env file: %v\n", err)
	}

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		logx.Fatal().Err(err).Msg("Failed to process environment config")
	}

	logx.Init(logx.LoggerOpts{
		Environment: core.ParseEnvironment(envCfg.Environment),
		Level:       envCfg.LogLevel,
	})

	if envCfg.APIKey == "" && !envCfg.Google.UseVertexAI {
		logx.Fatal().Msg("GEMINI_API_KEY is required unless GOOGLE_GENAI_USE_VERTEXAI is set")
	}

	client, err := nodes.NewClient(ctx, nodes.ClientConfig{
		APIKey:  envCfg.APIKey,
		BaseURL: envCfg.BaseURL,
		Google:  envCfg.Google,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	calc, err := newCalculator(envCfg.Bazi)
	if err != nil {
		logx.Fatal().Err(err).Msg("Invalid Bazi config")
	}

	deps := tools.Dependencies{Calculator: calc}

	searchOpts, closeCache, err := searchOptions(ctx, envCfg)
	if err != nil {
		logx.Fatal().Err(err).Msg("Invalid search config")
	}
	defer closeCache()

	deps.Web = search.NewWebSearcher(client.Models, envCfg.Search.WebModel, searchOpts...)
	if path := envCfg.Google.DatastorePath(); path != "" {
		knowledge, err := search.NewKnowledgeSearcher(client.Models, envCfg.Search.RAGModel, path, searchOpts...)
		if err != nil {
			logx.Fatal().Err(err).Msg("Failed to create knowledge searcher")
		}
		deps.Knowledge = knowledge
	} else {
		logx.Warn().Msg("GOOGLE_DATASTORE_ID not set; knowledge search disabled")
	}

	ttl, err := envCfg.Conversation.TTLDuration()
	if err != nil {
		logx.Fatal().Err(err).Msg("Invalid conversation config")
	}

	convRepo := repo.NewMemoryConversationRepository(ttl, envCfg.Conversation.MaxMessages)
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go convRepo.RunJanitor(janitorCtx, time.Minute)

	runner, err := graph.BuildResponseGraph(ctx, graph.Config{
		Client:           client,
		RootModel:        envCfg.Root,
		Prompt:           envCfg.Prompt,
		Conversation:     envCfg.Conversation,
		ConversationRepo: convRepo,
		Tools:            deps,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build graph")
	}

	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "Greeting and request for a reading",
			query:       "Xin chào, bạn có thể xem lá số Bát Tự cho tôi không?",
		},
		{
			description: "Birth date and time",
			query:       "Tôi sinh ngày 15 tháng 8 năm 1990, lúc 14 giờ 30.",
		},
		{
			description: "Follow-up about career",
			query:       "Nhật chủ của tôi hợp với nghề gì?",
		},
	}

	conversationID := fmt.Sprintf("demo-%d", time.Now().Unix())

	for i, test := range testQueries {
		fmt.Printf("\nTest %d: %s\n", i+1, test.description)
		fmt.Printf("Query: %q\n", test.query)

		response, err := runner.Invoke(ctx, model.QueryInput{
			ConversationID: conversationID,
			Query:          test.query,
		})
		if err != nil {
			logx.Fatal().Err(err).Int("test", i+1).Msg("Failed to invoke graph")
		}

		fmt.Printf("Response %d:\n%s\n", i+1, response)
		fmt.Println("----------------------------------------------")
	}
}

func newCalculator(cfg model.BaziConfig) (*bazi.Calculator, error) {
	boundary, err := bazi.ParseYearBoundary(cfg.YearBoundary)
	if err != nil {
		return nil, err
	}
	sect, err := bazi.ParseSect(cfg.Sect)
	if err != nil {
		return nil, err
	}
	return bazi.NewCalculator(bazi.WithYearBoundary(boundary), bazi.WithSect(sect)), nil
}

// searchOptions configures the searchers' timeout and, when REDIS_URL is
// set, the shared result cache. The returned func closes the Redis client.
func searchOptions(ctx context.Context, cfg AppConfig) ([]search.Option, func(), error) {
	noop := func() {}

	timeout, err := cfg.Search.TimeoutDuration()
	if err != nil {
		return nil, noop, err
	}
	opts := []search.Option{search.WithTimeout(timeout)}

	cacheTTL, err := cfg.Search.CacheTTLDuration()
	if err != nil {
		return nil, noop, err
	}

	var rdb *redis.Client
	rdb, err = cfg.Redis.New(ctx)
	switch {
	case errors.Is(err, pkgredis.ErrNotConfigured):
		logx.Info().Msg("REDIS_URL not set; search results are not cached")
		return opts, noop, nil
	case err != nil:
		// The agent still works without the cache
		logx.Warn().Err(err).Msg("Redis unavailable; search results are not cached")
		return opts, noop, nil
	}

	logx.Info().Msg("Connected to Redis; caching search results")
	opts = append(opts, search.WithCache(repo.NewRedisSearchCache(rdb, cacheTTL)))
	return opts, func() { _ = rdb.Close() }, nil
}
