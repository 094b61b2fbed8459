// ABOUTME: CLI command to score cards against a magnet constraint
// ABOUTME: Describes cards from their stored metadata before asking the model
package commands

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewMagnetCmd creates magnet command
func NewMagnetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "magnet <constraint> <card-id>...",
		Short: "Score cards against a constraint",
		Long: `Score how relevant each card is to a magnet constraint.

Relevance runs from 0.0 to 1.0. Cards are described to the language
model from their stored title, summary and category; cards that were
never stored are sent as "Unknown".

Examples:
  orbit magnet "walkable to the beach" a1b2c3d4 e5f6a7b8
  orbit magnet --format json "under $200" a1b2c3d4`,
		Args: cobra.MinimumNArgs(2),
		RunE: runMagnet,
	}

	return cmd
}

func runMagnet(cmd *cobra.Command, args []string) error {
	constraint, ids := args[0], args[1:]

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()
	sess := a.Service.LoadSession(ctx, ids)
	results, err := a.Service.EvaluateMagnet(ctx, sess, constraint, ids)
	if err != nil {
		return fmt.Errorf("evaluating magnet: %w", err)
	}

	if wantJSON() {
		return printJSON(cmd, map[string]interface{}{"results": results})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "RELEVANCE\tID\tTITLE\n")
	_, _ = fmt.Fprintf(w, "---------\t--\t-----\n")
	for _, r := range results {
		title := "(unknown)"
		if card, ok := sess.Get(r.CardID); ok {
			title = card.Title
		}
		_, _ = fmt.Fprintf(w, "%.2f\t%s\t%s\n", r.Relevance, r.CardID, truncate(title, 50))
	}
	return w.Flush()
}
