package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-summarizer/internal/vectorstore"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "List the papers in the chunk store",
	Long: `Papers lists every distinct paper in the store with its content hash,
authors, year, and the number of indexed chunks.`,
	RunE: runPapers,
}

func init() {
	papersCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(papersCmd)
}

func runPapers(cmd *cobra.Command, args []string) error {
	store, err := vectorstore.Open(storeConfig(cmd), nil)
	if err != nil {
		return err
	}
	defer store.Close()

	papers, err := store.Papers(cmd.Context())
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(papers)
	}

	if len(papers) == 0 {
		fmt.Println("No papers in the store.")
		return nil
	}

	fmt.Printf("%-10s  %-6s  %6s  %s\n", "Hash", "Year", "Chunks", "Title")
	for _, p := range papers {
		fmt.Printf("%-10s  %-6s  %6d  %s\n", p.Hash, p.Year, p.Chunks, p.Title)
		if p.Author != "" {
			fmt.Printf("%-10s  %s\n", "", p.Author)
		}
	}
	return nil
}
