package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/bazi-agent/server/internal/agent/model"
	errx "github.com/bazi-agent/server/internal/core/error"
	logx "github.com/bazi-agent/server/pkg/logger"
)

// Backend names, also used as cache namespaces.
const (
	BackendKnowledge = "knowledge"
	BackendWeb       = "web"
)

const (
	knowledgeInstruction = "You are a helpful assistant that answers questions based on information found in the document store %s. " +
		"Search the document store before answering and only use what it returns."
	webInstruction = "You are a helpful assistant that answers questions based on information found on the web. " +
		"Prefer facts, famous people and historical events related to the Bazi chart in the question."
)

// Generator is the part of genai.Models the searchers call.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Cache stores answers per backend and query. Get returns nil on a miss.
type Cache interface {
	Get(ctx context.Context, backend, query string) (*model.SearchResult, error)
	Set(ctx context.Context, backend, query string, res *model.SearchResult) error
}

// Searcher answers a query with one grounded Gemini call.
type Searcher struct {
	gen         Generator
	cache       Cache
	backend     string
	model       string
	instruction string
	tool        *genai.Tool
	timeout     time.Duration
}

type Option func(*Searcher)

// WithCache enables result caching.
func WithCache(c Cache) Option {
	return func(s *Searcher) { s.cache = c }
}

// WithTimeout bounds each generate call.
func WithTimeout(d time.Duration) Option {
	return func(s *Searcher) { s.timeout = d }
}

// NewKnowledgeSearcher searches the Vertex AI Search datastore at
// datastorePath. It requires a Vertex AI backed client.
func NewKnowledgeSearcher(gen Generator, modelName, datastorePath string, opts ...Option) (*Searcher, error) {
	if datastorePath == "" {
		return nil, fmt.Errorf("knowledge searcher: datastore path is empty")
	}
	return newSearcher(gen, BackendKnowledge, modelName,
		fmt.Sprintf(knowledgeInstruction, datastorePath),
		&genai.Tool{Retrieval: &genai.Retrieval{
			VertexAISearch: &genai.VertexAISearch{Datastore: datastorePath},
		}},
		opts...), nil
}

// NewWebSearcher searches the public web through Google Search grounding.
func NewWebSearcher(gen Generator, modelName string, opts ...Option) *Searcher {
	return newSearcher(gen, BackendWeb, modelName, webInstruction,
		&genai.Tool{GoogleSearch: &genai.GoogleSearch{}},
		opts...)
}

func newSearcher(gen Generator, backend, modelName, instruction string, tool *genai.Tool, opts ...Option) *Searcher {
	s := &Searcher{
		gen:         gen,
		backend:     backend,
		model:       modelName,
		instruction: instruction,
		tool:        tool,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns BackendKnowledge or BackendWeb.
func (s *Searcher) Backend() string { return s.backend }

// Search returns a grounded answer for query, consulting the cache first.
// Cache failures are logged and never fail the search.
func (s *Searcher) Search(ctx context.Context, query string) (*model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errx.WrapSearch(errx.ErrEmptyQuery)
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, s.backend, query)
		if err != nil {
			logx.Warn().Err(err).Str("backend", s.backend).Msg("search cache read failed")
		} else if cached != nil {
			cached.Cached = true
			logx.Debug().Str("backend", s.backend).Str("query", query).Msg("search cache hit")
			return cached, nil
		}
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.gen.GenerateContent(callCtx, s.model, genai.Text(query), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(s.instruction, genai.RoleUser),
		Tools:             []*genai.Tool{s.tool},
	})
	if err != nil {
		logx.Error().Err(err).Str("backend", s.backend).Str("model", s.model).Msg("grounded search failed")
		return nil, errx.WrapSearch(err)
	}

	res, err := toResult(query, resp)
	if err != nil {
		return nil, errx.WrapSearch(err)
	}
	logx.Debug().
		Str("backend", s.backend).
		Str("model", s.model).
		Int("sources", len(res.Sources)).
		Dur("took", time.Since(start)).
		Msg("grounded search done")

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.backend, query, res); err != nil {
			logx.Warn().Err(err).Str("backend", s.backend).Msg("search cache write failed")
		}
	}
	return res, nil
}

// toResult joins the answer text of the first candidate and collects its
// grounding sources, dropping thoughts and duplicate URIs.
func toResult(query string, resp *genai.GenerateContentResponse) (*model.SearchResult, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil, fmt.Errorf("no candidates")
	}
	cand := resp.Candidates[0]

	var sb strings.Builder
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if p == nil || p.Thought || p.Text == "" {
				continue
			}
			sb.WriteString(p.Text)
		}
	}
	answer := strings.TrimSpace(sb.String())
	if answer == "" {
		return nil, fmt.Errorf("empty answer (finish reason %q)", cand.FinishReason)
	}

	res := &model.SearchResult{Query: query, Answer: answer}
	if gm := cand.GroundingMetadata; gm != nil {
		seen := map[string]bool{}
		for _, ch := range gm.GroundingChunks {
			if ch == nil {
				continue
			}
			var src model.Source
			switch {
			case ch.Web != nil:
				src = model.Source{Title: ch.Web.Title, URI: ch.Web.URI}
			case ch.RetrievedContext != nil:
				src = model.Source{Title: ch.RetrievedContext.Title, URI: ch.RetrievedContext.URI}
			default:
				continue
			}
			if src.URI == "" || seen[src.URI] {
				continue
			}
			seen[src.URI] = true
			res.Sources = append(res.Sources, src)
		}
	}
	return res, nil
}
