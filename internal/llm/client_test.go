// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

type usageCall struct {
	model            string
	promptTokens     int
	completionTokens int
}

type stubRecorder struct {
	calls []usageCall
}

func (r *stubRecorder) RecordUsage(model string, promptTokens, completionTokens int) {
	r.calls = append(r.calls, usageCall{model, promptTokens, completionTokens})
}

// chatReply builds an OpenAI chat completion payload whose assistant message
// content is the JSON encoding of v.
func chatReply(t *testing.T, v any) []byte {
	t.Helper()
	content, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshaling reply content: %v", err)
	}
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": string(content)}},
		},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshaling payload: %v", err)
	}
	return data
}

func newTestClient(t *testing.T, handler http.HandlerFunc, usage UsageRecorder) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	savedBackoff := backoffBase
	backoffBase = time.Millisecond
	t.Cleanup(func() { backoffBase = savedBackoff })

	return NewClient(types.LLMConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
	}, usage)
}

func TestExtractMetadata(t *testing.T) {
	want := types.PaperMeta{
		Author:  "Jane Doe; John Smith",
		Title:   "Attention Is Not Enough",
		Journal: "Journal of Results",
		Year:    "2020",
	}

	recorder := &stubRecorder{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write(chatReply(t, want))
	}, recorder)

	got, err := client.ExtractMetadata(context.Background(), "first page text")
	if err != nil {
		t.Fatalf("ExtractMetadata: %v", err)
	}
	if got != want {
		t.Errorf("metadata = %+v, want %+v", got, want)
	}

	if len(recorder.calls) != 1 {
		t.Fatalf("expected 1 usage record, got %d", len(recorder.calls))
	}
	call := recorder.calls[0]
	if call.model != defaultChatModel || call.promptTokens != 10 || call.completionTokens != 5 {
		t.Errorf("usage = %+v", call)
	}
}

func TestExtractMetadataRetries(t *testing.T) {
	attempts := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			http.Error(w, `{"error": {"message": "upstream failure"}}`, http.StatusInternalServerError)
			return
		}
		w.Write(chatReply(t, types.PaperMeta{Title: "Recovered"}))
	}, nil)

	got, err := client.ExtractMetadata(context.Background(), "first page")
	if err != nil {
		t.Fatalf("ExtractMetadata after retries: %v", err)
	}
	if got.Title != "Recovered" {
		t.Errorf("title = %q, want Recovered", got.Title)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestExtractMetadataExhaustsRetries(t *testing.T) {
	attempts := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, `{"error": {"message": "upstream failure"}}`, http.StatusInternalServerError)
	}, nil)

	_, err := client.ExtractMetadata(context.Background(), "first page")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	// initial attempt plus defaultMaxRetries
	if attempts != defaultMaxRetries+1 {
		t.Errorf("attempts = %d, want %d", attempts, defaultMaxRetries+1)
	}
}

func TestAnswerDoesNotRetry(t *testing.T) {
	attempts := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, `{"error": {"message": "upstream failure"}}`, http.StatusInternalServerError)
	}, nil)

	_, err := client.Answer(context.Background(), "What is attention?", "Source ID: 1\n...")
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestAnswer(t *testing.T) {
	want := types.QuotedAnswer{
		Answer: "Attention weighs token interactions (1).",
		Citations: []types.SourceCitation{
			{SourceID: 1, Hash: "abcd1234"},
		},
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply(t, want))
	}, nil)

	got, err := client.Answer(context.Background(), "What is attention?", "Source ID: 1\n...")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if got.Answer != want.Answer {
		t.Errorf("answer = %q, want %q", got.Answer, want.Answer)
	}
	if len(got.Citations) != 1 || got.Citations[0] != want.Citations[0] {
		t.Errorf("citations = %+v, want %+v", got.Citations, want.Citations)
	}
}

func TestEmbed(t *testing.T) {
	recorder := &stubRecorder{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"data": [
				{"index": 0, "embedding": [0.1, 0.2]},
				{"index": 1, "embedding": [0.3, 0.4]}
			],
			"usage": {"prompt_tokens": 7}
		}`)
	}, recorder)

	vectors, err := client.Embed(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	if vectors[0][0] != 0.1 || vectors[1][1] != 0.4 {
		t.Errorf("vectors = %v", vectors)
	}

	if len(recorder.calls) != 1 {
		t.Fatalf("expected 1 usage record, got %d", len(recorder.calls))
	}
	if recorder.calls[0].model != defaultEmbeddingModel || recorder.calls[0].promptTokens != 7 {
		t.Errorf("usage = %+v", recorder.calls[0])
	}
}
