// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rag

import (
	"context"
	"fmt"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

const (
	// DefaultChunkNums is the number of chunks retrieved per question
	// when the caller does not specify one.
	DefaultChunkNums = 4

	// maxChunkNums caps retrieval size.
	maxChunkNums = 100
)

// Retriever is the similarity-search side of the chunk store.
type Retriever interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]types.Chunk, error)
}

// AnswerBackend generates a schema-constrained grounded answer from a
// question and a formatted context block.
type AnswerBackend interface {
	Answer(ctx context.Context, question, formattedContext string) (types.QuotedAnswer, error)
}

// Result is the pipeline output: the question, the retrieved chunks the
// answer was grounded in, and the structured answer. All three are needed
// for downstream citation resolution.
type Result struct {
	Question string
	Context  []types.Chunk
	Answer   types.QuotedAnswer
}

// Pipeline runs retrieve-then-generate for one question. The two stages
// are sequential with no retries; failures of either stage propagate.
type Pipeline struct {
	store   Retriever
	backend AnswerBackend
}

// NewPipeline builds a pipeline over the given store and generation backend.
func NewPipeline(store Retriever, backend AnswerBackend) *Pipeline {
	return &Pipeline{store: store, backend: backend}
}

// Run answers the question from the top chunkNums most similar chunks.
// chunkNums < 0 falls back to DefaultChunkNums and values above 100 are
// clamped; 0 is honored and retrieves nothing.
func (p *Pipeline) Run(ctx context.Context, question string, chunkNums int) (Result, error) {
	if question == "" {
		return Result{}, fmt.Errorf("empty question")
	}

	k := chunkNums
	if k < 0 {
		k = DefaultChunkNums
	}
	if k > maxChunkNums {
		k = maxChunkNums
	}

	chunks, err := p.store.SimilaritySearch(ctx, question, k)
	if err != nil {
		return Result{}, fmt.Errorf("retrieving chunks: %w", err)
	}

	answer, err := p.backend.Answer(ctx, question, FormatChunks(chunks))
	if err != nil {
		return Result{}, fmt.Errorf("generating answer: %w", err)
	}

	return Result{Question: question, Context: chunks, Answer: answer}, nil
}
