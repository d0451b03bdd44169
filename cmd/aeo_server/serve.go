package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/answerscope/aeo-analyzer/internal/config"
	"github.com/answerscope/aeo-analyzer/internal/llm"
	"github.com/answerscope/aeo-analyzer/internal/market"
	"github.com/answerscope/aeo-analyzer/internal/server"
)

var (
	servePort  int
	configPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the POST /analyze endpoint.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

// loadRuntimeConfig merges the optional config file, defaults, the
// environment and CLI flags, in increasing priority.
func loadRuntimeConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	merged := cfg.MergeWithDefaults(config.Config{
		Port:                8080,
		Model:               llm.DefaultModel,
		FetchTimeoutSeconds: 10,
	})

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		merged.APIKey = key
	}
	if servePort != 0 {
		merged.Port = servePort
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	if merged.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable (or api_key in config) is required")
	}

	return &merged, nil
}

// buildResolver creates the Gemini-backed competitor resolver.
func buildResolver(ctx context.Context, cfg *config.Config) (market.Resolver, *llm.GeminiClient, error) {
	client, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create model client: %w", err)
	}
	resolver, err := market.NewGeminiResolver(client)
	if err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to create resolver: %w", err)
	}
	return resolver, client, nil
}

func runServe(_ *cobra.Command, _ []string) error {
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

	srv := server.New(server.Config{
		Port:         cfg.Port,
		Resolver:     resolver,
		FetchTimeout: time.Duration(cfg.FetchTimeoutSeconds) * time.Second,
	})

	return srv.Start()
}
