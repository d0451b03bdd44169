package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/answerscope/aeo-analyzer/internal/paa"
	"github.com/answerscope/aeo-analyzer/internal/ranking"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Run a one-shot analysis and print the report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, args []string) error {
	targetURL := args[0]

	cfg, err := loadRuntimeConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	resolver, client, err := buildResolver(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	analyzer := paa.NewAnalyzer(time.Duration(cfg.FetchTimeoutSeconds) * time.Second)

	clientReport := analyzer.Analyze(ctx, targetURL)
	if clientReport.Error {
		return fmt.Errorf("could not access %s: %s", targetURL, clientReport.FailureReason)
	}

	intel := resolver.Resolve(ctx, clientReport.RawExcerpt, targetURL)
	report := ranking.NewAggregator(analyzer.Analyze).Aggregate(ctx, clientReport, targetURL, intel)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
