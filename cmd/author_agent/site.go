package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/author-site-resolver/internal/resolver"
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Find the official website for an author name",
	Long:  "Run the bare-name website flow for one author and print the result as JSON. A book title sharpens the search when known.",
	RunE:  runSite,
}

var (
	siteAuthorName     string
	siteBookTitle      string
	siteOutputFile     string
	siteMinConfidence  float64
	siteDisableFilters bool
	siteSkipEnrichment bool
	siteDebug          bool
)

func init() {
	siteCmd.Flags().StringVarP(&siteAuthorName, "author", "a", "", "Author name to look up (required)")
	siteCmd.Flags().StringVarP(&siteBookTitle, "book", "b", "", "Known book title, used as an extra search signal")
	siteCmd.Flags().StringVarP(&siteOutputFile, "out", "o", "", "Path to output JSON file (default: stdout)")
	siteCmd.Flags().Float64Var(&siteMinConfidence, "min-confidence", resolver.DefaultMinSiteConfidence, "Minimum confidence to accept a site")
	siteCmd.Flags().BoolVar(&siteDisableFilters, "unsafe-disable-domain-filters", false, "Skip the host blocklist (diagnostics only)")
	siteCmd.Flags().BoolVar(&siteSkipEnrichment, "skip-enrichment", false, "Skip live homepage fetches when scoring")
	siteCmd.Flags().BoolVar(&siteDebug, "debug", false, "Include diagnostic details in the output")
	_ = siteCmd.MarkFlagRequired("author")

	rootCmd.AddCommand(siteCmd)
}

func runSite(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	r, err := newCLIResolver(ctx)
	if err != nil {
		return err
	}

	result, err := r.ResolveName(ctx, resolver.NameOptions{
		AuthorName:           siteAuthorName,
		BookTitle:            siteBookTitle,
		MinSiteConfidence:    siteMinConfidence,
		DisableDomainFilters: siteDisableFilters,
		IncludeSearch:        true,
		SkipEnrichment:       siteSkipEnrichment,
		Debug:                siteDebug,
	})
	if err != nil {
		return fmt.Errorf("site lookup failed: %w", err)
	}

	return writeJSON(siteOutputFile, result)
}
