// ABOUTME: CLI command to show pairwise gravity between stored cards
// ABOUTME: Prints similarity pairs in input order; unknown cards are skipped
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewGravityCmd creates gravity command
func NewGravityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gravity <card-id> <card-id>...",
		Short: "Show pairwise similarity between cards",
		Long: `Show the cosine similarity of every pair of stored cards.

Higher similarity pulls cards closer together on the canvas. Cards that
were never embedded are left out.

Examples:
  orbit gravity a1b2c3d4 e5f6a7b8 c9d0e1f2
  orbit gravity --format json a1b2c3d4 e5f6a7b8`,
		Args: cobra.MinimumNArgs(2),
		RunE: runGravity,
	}

	return cmd
}

func runGravity(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	pairs := a.Service.SimilarityPairs(cmd.Context(), args)

	if wantJSON() {
		return printJSON(cmd, map[string]interface{}{"pairs": pairs})
	}

	if len(pairs) == 0 {
		if !quiet {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No pairs: fewer than two of these cards are embedded")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "CARD A\tCARD B\tSIMILARITY\n")
	_, _ = fmt.Fprintf(w, "------\t------\t----------\n")
	for _, p := range pairs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.4f\n", p.CardA, p.CardB, p.Similarity)
	}
	return w.Flush()
}
