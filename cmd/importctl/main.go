package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shopyard/importer/config"
	"github.com/shopyard/importer/internal/domain"
	"github.com/shopyard/importer/internal/infrastructure/dataset"
	"github.com/shopyard/importer/internal/usecase"
)

var requestTimeout time.Duration

func main() {
	// .env is optional; real deployments set env vars directly
	if err := godotenv.Load(); err == nil {
		log.Println("[CONFIG] Loaded environment from .env file")
	}

	rootCmd := &cobra.Command{
		Use:           "importctl",
		Short:         "Import external products into catalog-ready records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", 60*time.Second, "overall request timeout")

	urlCmd := &cobra.Command{
		Use:   "url <product-url>",
		Short: "Import a product from a live retail page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), domain.ImportRequest{SourceURL: args[0]})
		},
	}

	datasetCmd := &cobra.Command{
		Use:   "dataset <name> [reference]",
		Short: "Import a product from a demo catalog (demo-catalog-a, demo-catalog-b)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := domain.ImportRequest{Dataset: args[0]}
			if len(args) > 1 {
				req.DatasetReference = args[1]
			}
			return runImport(cmd.Context(), req)
		},
	}

	rootCmd.AddCommand(urlCmd, datasetCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runImport(parent context.Context, req domain.ImportRequest) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	service := usecase.NewImportService(
		dataset.NewDummyJSONClient(cfg.Dataset.DummyJSONBaseURL, cfg.Dataset.Timeout),
		dataset.NewFakeStoreClient(cfg.Dataset.FakeStoreBaseURL, cfg.Dataset.Timeout),
		cfg,
	)

	ctx, cancel := context.WithTimeout(parent, requestTimeout)
	defer cancel()

	result, err := service.Import(ctx, req)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(result)
}
