package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/author-site-resolver/internal/config"
	"github.com/jonathan/author-site-resolver/internal/resolver"
	"github.com/jonathan/author-site-resolver/internal/search"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a book title to its author and the author's website",
	Long:  "Run the full resolution flow for one book title and print the result as JSON.",
	RunE:  runResolve,
}

var (
	resolveBookTitle     string
	resolveOutputFile    string
	resolveAllowEstate   bool
	resolveKeepPublisher bool
	resolveDebug         bool
)

func init() {
	resolveCmd.Flags().StringVarP(&resolveBookTitle, "book", "b", "", "Book title to resolve (required)")
	resolveCmd.Flags().StringVarP(&resolveOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	resolveCmd.Flags().BoolVar(&resolveAllowEstate, "allow-estate-sites", false, "Accept estate-maintained sites for recently deceased authors")
	resolveCmd.Flags().BoolVar(&resolveKeepPublisher, "keep-publisher-sites", false, "Allow publisher-hosted author profiles as fallback results")
	resolveCmd.Flags().BoolVar(&resolveDebug, "debug", false, "Include diagnostic details in the output")
	_ = resolveCmd.MarkFlagRequired("book")

	rootCmd.AddCommand(resolveCmd)
}

// newCLIResolver builds a resolver from the environment. Missing search
// credentials are allowed; the flows then report search as disabled.
func newCLIResolver(ctx context.Context) (*resolver.Resolver, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var provider search.Provider
	if cfg.SearchConfigured() {
		p, err := search.NewGoogleProvider(ctx, cfg.SearchAPIKey, cfg.SearchCX)
		if err != nil {
			return nil, fmt.Errorf("failed to create search provider: %w", err)
		}
		provider = p
	}

	return resolver.New(provider, resolver.Config{
		Concurrency:     cfg.SearchConcurrency,
		FetchTimeout:    cfg.FetchTimeout,
		StrictHosts:     cfg.StrictHostMatch,
		BrowserFallback: cfg.BrowserFallback,
		Verbose:         cfg.Verbose,
	}), nil
}

// writeJSON prints the result to stdout or the --out file.
func writeJSON(outputFile string, result any) error {
	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if outputFile == "" {
		fmt.Println(string(jsonBytes))
		return nil
	}
	if err := os.WriteFile(outputFile, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func runResolve(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	r, err := newCLIResolver(ctx)
	if err != nil {
		return err
	}

	result, err := r.ResolveBook(ctx, resolver.BookOptions{
		BookTitle:             resolveBookTitle,
		IncludeSearch:         true,
		AllowEstateSites:      resolveAllowEstate,
		ExcludePublisherSites: !resolveKeepPublisher,
		Debug:                 resolveDebug,
	})
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	return writeJSON(resolveOutputFile, result)
}
