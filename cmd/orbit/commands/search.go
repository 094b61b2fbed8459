// ABOUTME: CLI command to search stored cards by meaning
// ABOUTME: Embeds the query and lists the nearest cards by cosine similarity
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search cards",
		Long: `Search stored cards using semantic similarity.

The query is embedded the same way cards are, so a search for a hotel
finds other lodging before anything else.

Examples:
  orbit search "beach apartment"
  orbit search --limit 10 "cheap flights"
  orbit search --format json "coffee"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Validate limit flag
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	query := args[0]

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	results, err := a.Service.SearchSimilar(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("searching cards: %w", err)
	}

	if wantJSON() {
		return printJSON(cmd, map[string]interface{}{
			"query":   query,
			"results": results,
			"count":   len(results),
		})
	}

	if len(results) == 0 {
		if !quiet {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No cards found for query: %s\n", query)
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "SCORE\tID\tCATEGORY\tTITLE\n")
	_, _ = fmt.Fprintf(w, "-----\t--\t--------\t-----\n")
	for _, result := range results {
		_, _ = fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\n",
			result.Score,
			result.ID,
			truncate(result.Category, 15),
			truncate(result.Title, 50))
	}
	_ = w.Flush()

	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}
	return nil
}
