// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package spend keeps an append-only ledger of API token usage and cost.
// One ledger instance owns the log for a session: opened before the first
// API call, fed by the LLM client, saved once on the way out.
package spend

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-summarizer/pkg/types"
)

const ledgerFile = "spend.yaml"

// Record is one API call's usage.
type Record struct {
	Model            string    `json:"model" yaml:"model"`
	PromptTokens     int       `json:"prompt_tokens" yaml:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens" yaml:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens" yaml:"total_tokens"`
	CostUSD          float64   `json:"cost_usd" yaml:"cost_usd"`
	Timestamp        time.Time `json:"timestamp" yaml:"timestamp"`
}

// price holds USD per million tokens.
type price struct {
	prompt     float64
	completion float64
}

// modelPrices covers the models the pipeline uses by default. Unknown
// models record zero cost but full token counts.
var modelPrices = map[string]price{
	"gpt-4o-mini":            {prompt: 0.15, completion: 0.60},
	"gpt-4o":                 {prompt: 2.50, completion: 10.00},
	"text-embedding-3-small": {prompt: 0.02},
	"text-embedding-3-large": {prompt: 0.13},
}

// Ledger accumulates usage records and persists them as YAML at
// dataDir/spend.yaml.
type Ledger struct {
	path    string
	records []Record

	// now is a test seam for timestamps.
	now func() time.Time
}

// OpenLedger loads the ledger from the data directory, creating an empty
// one when the file does not exist yet.
func OpenLedger(cfg types.StoreConfig) (*Ledger, error) {
	l := &Ledger{
		path: filepath.Join(cfg.DataDir, ledgerFile),
		now:  time.Now,
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("reading spend ledger: %w", err)
	}
	if err := yaml.Unmarshal(data, &l.records); err != nil {
		return nil, fmt.Errorf("parsing spend ledger: %w", err)
	}
	return l, nil
}

// RecordUsage appends one usage record, pricing it by model.
func (l *Ledger) RecordUsage(model string, promptTokens, completionTokens int) {
	p := modelPrices[model]
	l.records = append(l.records, Record{
		Model:            model,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		CostUSD:          (float64(promptTokens)*p.prompt + float64(completionTokens)*p.completion) / 1e6,
		Timestamp:        l.now(),
	})
}

// Records returns the accumulated records in append order.
func (l *Ledger) Records() []Record {
	return l.records
}

// Total sums tokens and cost across all records.
func (l *Ledger) Total() (tokens int, costUSD float64) {
	for _, r := range l.records {
		tokens += r.TotalTokens
		costUSD += r.CostUSD
	}
	return tokens, costUSD
}

// Save writes the ledger back to disk.
func (l *Ledger) Save() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	data, err := yaml.Marshal(l.records)
	if err != nil {
		return fmt.Errorf("marshaling spend ledger: %w", err)
	}
	return os.WriteFile(l.path, data, 0o644)
}

// WriteTable renders the ledger as an aligned text table.
func (l *Ledger) WriteTable(w io.Writer) {
	if len(l.records) == 0 {
		fmt.Fprintln(w, "No spendings recorded.")
		return
	}

	fmt.Fprintf(w, "%-20s  %-24s  %8s  %10s  %8s  %10s\n",
		"Timestamp", "Model", "Prompt", "Completion", "Total", "Cost (USD)")
	for _, r := range l.records {
		fmt.Fprintf(w, "%-20s  %-24s  %8d  %10d  %8d  %10.6f\n",
			r.Timestamp.Format("2006-01-02 15:04:05"), r.Model,
			r.PromptTokens, r.CompletionTokens, r.TotalTokens, r.CostUSD)
	}

	tokens, cost := l.Total()
	fmt.Fprintf(w, "\ntotal: %d tokens, $%.6f\n", tokens, cost)
}
