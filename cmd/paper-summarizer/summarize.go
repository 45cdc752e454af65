package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-summarizer/internal/citation"
	"github.com/pdiddy/paper-summarizer/internal/llm"
	"github.com/pdiddy/paper-summarizer/internal/rag"
	"github.com/pdiddy/paper-summarizer/internal/spend"
	"github.com/pdiddy/paper-summarizer/internal/vectorstore"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <question>",
	Short: "Answer a question from the ingested papers",
	Long: `Summarize retrieves the chunks most relevant to the question from the
store, generates an answer grounded in them, and prints the answer with a
styled bibliography of the sources it cites.

Citations the model invents are flagged in the output and omitted from
the bibliography; they do not abort the command.`,
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().Int("chunks", rag.DefaultChunkNums, "number of chunks to retrieve (clamped to [0,100])")
	summarizeCmd.Flags().String("style", citation.DefaultStyle,
		"bibliography style: "+strings.Join(citation.StyleNames(), ", "))
	summarizeCmd.Flags().String("model", "", "chat model identifier for answer generation")
	summarizeCmd.Flags().String("embedding-model", "", "embedding model identifier")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one question (quote it)")
	}

	chunkNums, _ := cmd.Flags().GetInt("chunks")
	styleName, _ := cmd.Flags().GetString("style")

	storeCfg := storeConfig(cmd)
	ledger, err := spend.OpenLedger(storeCfg)
	if err != nil {
		return err
	}
	defer saveLedger(ledger)

	client := llm.NewClient(llmConfig(cmd), ledger)
	store, err := vectorstore.Open(storeCfg, client)
	if err != nil {
		return err
	}
	defer store.Close()

	pipeline := rag.NewPipeline(store, client)
	result, err := pipeline.Run(cmd.Context(), args[0], chunkNums)
	if err != nil {
		return err
	}

	summary := citation.ParseSummary(result)
	output, diag, err := summary.Format(styleName)
	if err != nil {
		return err
	}

	fmt.Println(output)
	for _, w := range diag.StyleWarnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	return nil
}
