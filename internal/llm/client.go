// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps the OpenAI API behind the narrow backends the pipeline
// consumes: embeddings, bibliographic metadata extraction, and
// schema-constrained grounded answering.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

const (
	defaultChatModel      = "gpt-4o-mini"
	defaultEmbeddingModel = string(openai.SmallEmbedding3)
	defaultMaxRetries     = 3
)

// UsageRecorder receives token usage from every API call. Implementations
// must not fail; spend bookkeeping never blocks the pipeline.
type UsageRecorder interface {
	RecordUsage(model string, promptTokens, completionTokens int)
}

// backoffBase controls the base duration for exponential backoff on
// metadata extraction retries. Tests override this to avoid real sleeps.
var backoffBase = time.Second

// Client calls the OpenAI API. Metadata extraction retries with backoff;
// answering does not, so pipeline failures propagate to the caller.
type Client struct {
	api            *openai.Client
	chatModel      string
	embeddingModel string
	maxRetries     int
	usage          UsageRecorder
}

// NewClient builds a Client from config. The usage recorder may be nil.
func NewClient(cfg types.LLMConfig, usage UsageRecorder) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = defaultChatModel
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = defaultEmbeddingModel
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Client{
		api:            openai.NewClientWithConfig(apiCfg),
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
		maxRetries:     maxRetries,
		usage:          usage,
	}
}

// Embed produces one embedding vector per input text.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("creating embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding API returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	c.recordUsage(c.embeddingModel, resp.Usage.PromptTokens, 0)

	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = d.Embedding
	}
	return out, nil
}

// ExtractMetadata extracts bibliographic metadata from a paper's first-page
// text. The response format is bound to the PaperMeta JSON schema. Failed
// calls are retried with exponential backoff.
func (c *Client) ExtractMetadata(ctx context.Context, firstPage string) (types.PaperMeta, error) {
	var meta types.PaperMeta
	err := c.withRetry(ctx, func() error {
		return c.structuredCompletion(ctx, metadataSystemPrompt,
			"Extract the bibliographic information from the scientific paper.\n\n"+firstPage,
			"bibliographic_citation", types.PaperMeta{}, &meta)
	})
	if err != nil {
		return types.PaperMeta{}, fmt.Errorf("extracting metadata: %w", err)
	}
	return meta, nil
}

// Answer generates a grounded answer for the question from the formatted
// context blocks. The response format is bound to the QuotedAnswer JSON
// schema. No retries: upstream failures propagate to the caller.
func (c *Client) Answer(ctx context.Context, question, formattedContext string) (types.QuotedAnswer, error) {
	system, err := renderAnswerSystem(formattedContext)
	if err != nil {
		return types.QuotedAnswer{}, fmt.Errorf("rendering system prompt: %w", err)
	}

	var answer types.QuotedAnswer
	if err := c.structuredCompletion(ctx, system, question, "quoted_answer", types.QuotedAnswer{}, &answer); err != nil {
		return types.QuotedAnswer{}, fmt.Errorf("generating answer: %w", err)
	}
	return answer, nil
}

// structuredCompletion runs one chat completion with a JSON-schema response
// format derived from schemaFor and unmarshals the reply into out.
func (c *Client) structuredCompletion(ctx context.Context, system, user, schemaName string, schemaFor, out any) error {
	schema, err := jsonschema.GenerateSchemaForType(schemaFor)
	if err != nil {
		return fmt.Errorf("generating schema %s: %w", schemaName, err)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("chat completion: %w", err)
	}

	c.recordUsage(c.chatModel, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return fmt.Errorf("chat completion returned no choices")
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), out); err != nil {
		return fmt.Errorf("parsing %s response: %w", schemaName, err)
	}
	return nil
}

// withRetry runs fn with exponential backoff up to maxRetries attempts.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) recordUsage(model string, promptTokens, completionTokens int) {
	if c.usage == nil {
		return
	}
	c.usage.RecordUsage(model, promptTokens, completionTokens)
}
