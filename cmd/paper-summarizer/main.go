// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-summarizer CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-summarizer/internal/secrets"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the paper-summarizer CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-summarizer",
	Short: "Summarize scientific papers with cited answers",
	Long: `paper-summarizer ingests scientific papers in PDF form, indexes their
content in a local chunk store, and answers questions about them with
summaries whose claims cite the papers they came from.

Each pipeline stage is a subcommand: ingest adds papers to the store,
summarize asks a question, papers lists the store contents, and spend
reports API token usage and cost.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-summarizer.yaml or ~/.config/paper-summarizer/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "data", "base directory for store state (chunk index and spend ledger)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-summarizer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-summarizer"))
		}
	}

	viper.SetEnvPrefix("PAPER_SUMMARIZER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// storeConfig builds the store configuration from the persistent data-dir flag.
func storeConfig(cmd *cobra.Command) types.StoreConfig {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("store.data_dir")
	}
	return types.StoreConfig{DataDir: dataDir}
}

// llmConfig builds the LLM configuration from flags, config file, and secrets.
func llmConfig(cmd *cobra.Command) types.LLMConfig {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("llm.model")
	}
	embeddingModel, _ := cmd.Flags().GetString("embedding-model")
	if embeddingModel == "" {
		embeddingModel = viper.GetString("llm.embedding_model")
	}
	return types.LLMConfig{
		Model:          model,
		EmbeddingModel: embeddingModel,
		APIKey:         secretDefault("openai-api-key", viper.GetString("llm.api_key")),
		BaseURL:        viper.GetString("llm.base_url"),
		MaxRetries:     viper.GetInt("llm.max_retries"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
