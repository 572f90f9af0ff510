// Package main provides the entry point for the author website
// resolver HTTP API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "author_agent",
	Short: "Author website resolver",
	Long:  "Resolves a book title to its author and the author's official website, using multi-source consensus over public reference sites, via REST API or one-shot CLI commands.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
