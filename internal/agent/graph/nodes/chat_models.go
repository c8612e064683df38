package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/bazi-agent/server/internal/agent/model"
	logx "github.com/bazi-agent/server/pkg/logger"
)

// ClientConfig selects the Gemini API or Vertex AI backend.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Google  model.GoogleCloudConfig
}

// NewClient creates the genai client shared by the root chat model and the
// grounded searchers.
func NewClient(ctx context.Context, config ClientConfig) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.Google.UseVertexAI {
		clientCfg = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  config.Google.Project,
			Location: config.Google.Location,
		}
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Bool("vertex_ai", config.Google.UseVertexAI).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}
	return client, nil
}

// ChatModels holds the root chat model that drives the conversation.
type ChatModels struct {
	Root          einomodel.ChatModel
	RootModelName string
}

// NewChatModels creates the root Gemini chat model.
func NewChatModels(ctx context.Context, client *genai.Client, config *model.RootModelConfig) (*ChatModels, error) {
	if client == nil || config == nil {
		return nil, fmt.Errorf("gemini client and root model config are required")
	}

	cfg := &gemini.Config{
		Client:      client,
		Model:       config.Model,
		Temperature: &config.Temperature,
		MaxTokens:   &config.MaxTokens,
	}
	if config.ThinkingBudget > 0 {
		cfg.ThinkingConfig = &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(config.ThinkingBudget),
		}
	}

	root, err := gemini.NewChatModel(ctx, cfg)
	if err != nil {
		logx.Error().Err(err).Str("model", config.Model).Msg("Error creating root model")
		return nil, fmt.Errorf("error creating root model: %w", err)
	}

	return &ChatModels{
		Root:          root,
		RootModelName: config.Model,
	}, nil
}

// BindToolsToRootModel binds tools to the root chat model
func (cm *ChatModels) BindToolsToRootModel(ctx context.Context, tools []*schema.ToolInfo) error {
	if err := cm.Root.BindTools(tools); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return fmt.Errorf("failed to bind tools: %w", err)
	}

	logx.Debug().Int("tool_count", len(tools)).Msg("Successfully bound tools to root model")
	return nil
}
