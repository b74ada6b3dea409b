package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/cjkfts/internal/output"
	"github.com/Aman-CERP/cjkfts/pkg/engine"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	limit  int
	format string // "text", "json"
	memory bool   // search the sample corpus in memory instead of the index
}

func newSearchCmd(a *app) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the index",
		Long: `Search titles and bodies, by word and by substring.

Query syntax:
  +term        term must match
  -term        term must not match
  "a phrase"   exact phrase
  title:term   search one field (title, body, title_ngram, body_ngram)
  term~1       fuzzy match
  metadata.<key>:value   filter on a metadata value

Examples:
  cjkfts search 인천
  cjkfts search '+공항 +metadata.country:일본' -n 5
  cjkfts search 北京 --profile chinese --memory --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, a, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (default search.default_limit)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&opts.memory, "memory", false, "Search the built-in sample documents in memory")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, a *app, q string, opts searchOptions) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	limit := opts.limit
	if limit == 0 {
		limit = a.cfg.Search.DefaultLimit
	}
	if limit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", limit)
	}

	search := func(e *engine.Engine) error {
		results, err := e.Search(ctx, q, limit)
		if err != nil {
			return err
		}
		return output.New(cmd.OutOrStdout()).Results(format, q, results)
	}

	if !opts.memory {
		return a.withEngine(ctx, search)
	}

	e := a.newEngine()
	defer func() { _ = e.Close() }()
	if err := e.Initialize(ctx, a.cfg.Index.Profile); err != nil {
		return err
	}
	if _, err := e.IndexSeedDocuments(ctx); err != nil {
		return err
	}
	return search(e)
}
