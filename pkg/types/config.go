// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-summarizer/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LLMConfig holds shared settings for stages that call the language model API.
type LLMConfig struct {
	// Model is the chat model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// EmbeddingModel is the embedding model identifier
	// (e.g. "text-embedding-3-small").
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint. Empty uses the provider default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts for failed metadata
	// extraction calls (default 3). Summarization calls are not retried.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// StoreConfig holds settings for the chunk store.
type StoreConfig struct {
	// DataDir is the base directory for store state (contains index/
	// and the spend ledger).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// IngestConfig holds settings for the ingestion stage.
type IngestConfig struct {
	HTTPConfig `yaml:",inline"`

	// ChunkSize is the maximum chunk length in characters (default 1000).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// ChunkOverlap is the overlap between consecutive chunks (default 100).
	ChunkOverlap int `json:"chunk_overlap" yaml:"chunk_overlap"`
}

// SummarizeConfig holds settings for the summarization stage.
type SummarizeConfig struct {
	// ChunkNums is the number of chunks retrieved per question
	// (default 4, clamped to [0,100]).
	ChunkNums int `json:"chunk_nums" yaml:"chunk_nums"`

	// Style is the bibliography style name (default "harvard1").
	Style string `json:"style" yaml:"style"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	LLM       LLMConfig       `json:"llm" yaml:"llm"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	Ingest    IngestConfig    `json:"ingest" yaml:"ingest"`
	Summarize SummarizeConfig `json:"summarize" yaml:"summarize"`
}
