// ABOUTME: CLI command to embed text under a card id
// ABOUTME: Stores the vector so the card takes part in gravity and search
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var embedFile string

// NewEmbedCmd creates embed command
func NewEmbedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed <card-id> [text]",
		Short: "Embed text and store it under a card id",
		Long: `Embed text into the semantic space and store it under a card id.

The first 50 characters become the card title and its category is
"unknown". Repeated text is served from the embedding cache.

Examples:
  orbit embed a1b2c3d4 "Quiet hotel by the lake with a spa"
  orbit embed a1b2c3d4 --file notes.txt`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runEmbed,
	}

	cmd.Flags().StringVar(&embedFile, "file", "", "Read text from file")

	return cmd
}

func runEmbed(cmd *cobra.Command, args []string) error {
	cardID := args[0]
	text, err := readInput(embedFile, args[1:], os.Stdin)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	vector, err := a.Service.EmbedText(cmd.Context(), cardID, text)
	if err != nil {
		return fmt.Errorf("embedding card %s: %w", cardID, err)
	}

	if wantJSON() {
		return printJSON(cmd, map[string]interface{}{
			"card_id":   cardID,
			"success":   true,
			"dimension": len(vector),
		})
	}
	if !quiet {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✓ Embedded card %s (%d dimensions)\n", cardID, len(vector))
	}
	return nil
}
