package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/bazi-agent/server/internal/agent/graph/conversations"
	"github.com/bazi-agent/server/internal/agent/graph/nodes"
	"github.com/bazi-agent/server/internal/agent/graph/observers"
	"github.com/bazi-agent/server/internal/agent/graph/tools"
	"github.com/bazi-agent/server/internal/agent/model"
	logx "github.com/bazi-agent/server/pkg/logger"
)

// Runner executes the compiled graph for one user turn.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
}

// Config holds everything needed to compose the full response graph end-to-end.
// This is a convenience layer over GraphConfig that also constructs the chat
// model and the MessagesManager.
type Config struct {
	Client           *genai.Client
	RootModel        model.RootModelConfig
	Prompt           model.PromptConfig
	Conversation     model.ConversationConfig
	ConversationRepo model.ConversationRepository
	Tools            tools.Dependencies
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	ChatModels      *nodes.ChatModels
	MessagesManager *conversations.MessagesManager
	PromptConfig    model.PromptConfig
	Tools           []tool.BaseTool
	ToolMaxCalls    int
}

// GraphBuilder handles the construction of the agent conversation graph
type GraphBuilder struct {
	config    *GraphConfig
	graph     *compose.Graph[model.QueryInput, *schema.Message]
	toolNames []string
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *schema.Message]
}

// NewRunner wraps a compiled graph.
func NewRunner(runnable compose.Runnable[model.QueryInput, *schema.Message]) Runner {
	return &graphRunner{runnable: runnable}
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (string, error) {
	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	if cost, ok := out.Extra["usage_cost_total_usd"]; ok {
		logx.Info().
			Str("conversation_id", in.ConversationID).
			Interface("total_cost_usd", cost).
			Msg("turn completed")
	}
	return out.Content, nil
}

// BuildResponseGraph composes the chat model, tools and MessagesManager,
// builds the graph, and returns a Runner.
func BuildResponseGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.ConversationRepo == nil {
		return nil, fmt.Errorf("conversation repo is nil")
	}

	cms, err := nodes.NewChatModels(ctx, cfg.Client, &cfg.RootModel)
	if err != nil {
		return nil, err
	}

	mm := conversations.NewMessagesManager(cfg.ConversationRepo, cfg.Conversation)

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels:      cms,
		MessagesManager: mm,
		PromptConfig:    cfg.Prompt,
		Tools:           tools.GetQueryTools(cfg.Tools),
		ToolMaxCalls:    cfg.Conversation.Tools.MaxCalls,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Response graph built successfully")
	return NewRunner(runnable), nil
}

// BuildGraph constructs and returns the compiled agent graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Root == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if len(config.Tools) == 0 {
		return nil, fmt.Errorf("no tools configured")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	if err := builder.setupTools(ctx); err != nil {
		return nil, err
	}
	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// setupTools binds the tools to the root model and adds the tools node
func (b *GraphBuilder) setupTools(ctx context.Context) error {
	toolInfos, err := tools.GetToolInfos(ctx, b.config.Tools)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to get tool infos")
		return fmt.Errorf("failed to get tool infos: %w", err)
	}
	b.toolNames = tools.Names(toolInfos)

	if err := b.config.ChatModels.BindToolsToRootModel(ctx, toolInfos); err != nil {
		return fmt.Errorf("failed to bind tools to root model: %w", err)
	}

	toolsNode, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		Tools:               b.config.Tools,
		ExecuteSequentially: true,
		UnknownToolsHandler: func(ctx context.Context, name, input string) (string, error) {
			logx.Warn().
				Str("tool_name", name).
				Str("arguments", input).
				Msg("Unknown or invalid tool call; returning fallback result")
			return fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"available\":%q}", name, strings.Join(b.toolNames, ",")), nil
		},
		ToolArgumentsHandler: func(ctx context.Context, name, arguments string) (string, error) {
			return sanitizeToolArguments(name, arguments), nil
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Failed to create tools node")
		return fmt.Errorf("failed to create tools node: %w", err)
	}

	return b.graph.AddToolsNode(nodes.NodeToolExecutor, toolsNode,
		compose.WithStatePreHandler(nodes.NewToolExecutorPreHandler(b.config.ToolMaxCalls)),
	)
}

func (b *GraphBuilder) addNodes() error {
	if err := b.graph.AddLambdaNode(nodes.NodeInputConverter,
		nodes.NewInputConverterNode(b.config.MessagesManager, b.config.PromptConfig, b.toolNames),
		compose.WithStatePreHandler(nodes.NewInputConverterPreHandler()),
	); err != nil {
		return fmt.Errorf("add input converter: %w", err)
	}

	if err := b.graph.AddChatModelNode(nodes.NodeResponseChatModel,
		b.config.ChatModels.Root,
		compose.WithStatePreHandler(nodes.NewResponseChatModelPreHandler(b.config.ToolMaxCalls)),
		compose.WithStatePostHandler(nodes.NewResponseChatModelPostHandler(b.config.MessagesManager, b.config.ChatModels.RootModelName, b.config.PromptConfig.Language)),
	); err != nil {
		return fmt.Errorf("add root chat model: %w", err)
	}
	return nil
}

func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeInputConverter},
		{nodes.NodeInputConverter, nodes.NodeResponseChatModel},
		{nodes.NodeToolExecutor, nodes.NodeResponseChatModel},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("add edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

func (b *GraphBuilder) addBranches() error {
	decisionBranch := compose.NewGraphBranch(
		nodes.NewToolExecutorCondition(),
		map[string]bool{
			nodes.NodeToolExecutor: true,
			compose.END:            true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeResponseChatModel, decisionBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding decision branch")
		return fmt.Errorf("error adding decision branch: %w", err)
	}
	return nil
}

func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// Bound run steps so tool loops terminate
	maxSteps := 10 + b.config.ToolMaxCalls*2
	if maxSteps < 20 {
		maxSteps = 20
	}

	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}

// calculatorFields are the integer arguments of the calculator tool.
var calculatorFields = []string{"year", "month", "day", "hour", "minute"}

// sanitizeToolArguments coerces model-produced arguments to the shapes the
// tools decode. It never fails; unparsable input is passed through.
func sanitizeToolArguments(name, arguments string) string {
	var m map[string]any
	if err := json.Unmarshal([]byte(arguments), &m); err != nil {
		return arguments
	}

	switch name {
	case tools.ToolBaziCalculator:
		for _, k := range calculatorFields {
			v, ok := m[k]
			if !ok {
				continue
			}
			if n, ok := toInt(v); ok {
				m[k] = n
			} else {
				delete(m, k)
			}
		}
		if _, ok := m["minute"]; !ok {
			m["minute"] = 0
		}
	case tools.ToolSearchKnowledge, tools.ToolSearchWeb:
		if v, ok := m["query"]; ok {
			switch vv := v.(type) {
			case string:
				m["query"] = strings.Join(strings.Fields(vv), " ")
			default:
				m["query"] = strings.TrimSpace(fmt.Sprint(v))
			}
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return arguments
	}
	return string(b)
}

// toInt accepts JSON numbers with no fractional part and numeric strings.
func toInt(v any) (int, bool) {
	switch vv := v.(type) {
	case float64:
		if vv != math.Trunc(vv) {
			return 0, false
		}
		return int(vv), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(vv))
		return n, err == nil
	}
	return 0, false
}
