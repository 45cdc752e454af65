package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-summarizer/internal/spend"
)

var spendCmd = &cobra.Command{
	Use:   "spend",
	Short: "Report API token usage and cost",
	Long: `Spend prints the accumulated API usage ledger: one row per API call
with token counts and cost, plus a total.`,
	RunE: runSpend,
}

func init() {
	spendCmd.Flags().Bool("json", false, "output the ledger as JSON")

	rootCmd.AddCommand(spendCmd)
}

func runSpend(cmd *cobra.Command, args []string) error {
	ledger, err := spend.OpenLedger(storeConfig(cmd))
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ledger.Records())
	}

	ledger.WriteTable(os.Stdout)
	return nil
}
