package model

import (
	"fmt"
	"time"
)

// ================ Config ================
type ConversationConfig struct {
	TTL         string `envconfig:"CONVERSATION_TTL" default:"30m"`
	MaxTurns    int    `envconfig:"CONVERSATION_MAX_TURNS" default:"20"`
	MaxMessages int    `envconfig:"CONVERSATION_MAX_MESSAGES" default:"100"`
	Tools       struct {
		MaxCalls int `envconfig:"CONVERSATION_TOOL_MAX_CALLS" default:"10"`
	}
}

// TTLDuration parses TTL. Zero disables expiry.
func (c ConversationConfig) TTLDuration() (time.Duration, error) {
	return parseDuration("CONVERSATION_TTL", c.TTL)
}

type RootModelConfig struct {
	Model          string  `envconfig:"ROOT_MODEL" default:"gemini-2.5-pro"`
	MaxTokens      int     `envconfig:"ROOT_MAX_TOKENS" default:"8192"`
	Temperature    float32 `envconfig:"ROOT_TEMPERATURE" default:"0.7"`
	ThinkingBudget int32   `envconfig:"ROOT_THINKING_BUDGET" default:"2000"`
}

type SearchConfig struct {
	RAGModel string `envconfig:"RAG_MODEL" default:"gemini-2.5-pro"`
	WebModel string `envconfig:"SEARCH_MODEL" default:"gemini-2.5-flash"`
	CacheTTL string `envconfig:"SEARCH_CACHE_TTL" default:"24h"`
	Timeout  string `envconfig:"SEARCH_TIMEOUT" default:"60s"`
}

func (c SearchConfig) CacheTTLDuration() (time.Duration, error) {
	return parseDuration("SEARCH_CACHE_TTL", c.CacheTTL)
}

func (c SearchConfig) TimeoutDuration() (time.Duration, error) {
	return parseDuration("SEARCH_TIMEOUT", c.Timeout)
}

// GoogleCloudConfig selects the genai backend. Vertex AI is required for the
// private knowledge datastore.
type GoogleCloudConfig struct {
	UseVertexAI bool   `envconfig:"GOOGLE_GENAI_USE_VERTEXAI" default:"false"`
	Project     string `envconfig:"GOOGLE_CLOUD_PROJECT"`
	Location    string `envconfig:"GOOGLE_CLOUD_LOCATION" default:"global"`
	DatastoreID string `envconfig:"GOOGLE_DATASTORE_ID"`
}

// DatastorePath is the Vertex AI Search resource name, or "" when no
// datastore is configured.
func (c GoogleCloudConfig) DatastorePath() string {
	if c.Project == "" || c.DatastoreID == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/locations/%s/collections/default_collection/dataStores/%s",
		c.Project, c.Location, c.DatastoreID)
}

type BaziConfig struct {
	YearBoundary string `envconfig:"BAZI_YEAR_BOUNDARY" default:"lunar_new_year"`
	Sect         string `envconfig:"BAZI_SECT" default:"2"`
}

type PromptConfig struct {
	Language string `envconfig:"PROMPT_LANGUAGE" default:"Vietnamese"`
}

func parseDuration(key, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
