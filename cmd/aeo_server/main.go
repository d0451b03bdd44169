// Package main provides the entry point for the AEO analyzer.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aeo_server",
	Short: "AEO analyzer server",
	Long:  "AEO analyzer scores a website's answer-engine-optimization quality and benchmarks it against AI-suggested competitors.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
