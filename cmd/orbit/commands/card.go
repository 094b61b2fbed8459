// ABOUTME: CLI command to generate a canvas card from content
// ABOUTME: Reads text from an argument, file or stdin and embeds the resulting card
package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/orbit/internal/models"
)

var (
	cardFile string
	cardType string
)

// NewCardCmd creates card command
func NewCardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card [content]",
		Short: "Generate a card from content",
		Long: `Generate an interactive card from dropped content.

The language model picks a title, category, icon and widgets. The card's
semantic text is embedded and stored so it takes part in gravity.

Examples:
  orbit card "2br apartment near the beach, $180/night"
  orbit card --type url "https://example.com/listing/42"
  orbit card --file listing.txt --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCard,
	}

	cmd.Flags().StringVar(&cardFile, "file", "", "Read content from file")
	cmd.Flags().StringVar(&cardType, "type", "text", "Content type hint: text, url or note")

	return cmd
}

func runCard(cmd *cobra.Command, args []string) error {
	content, err := readInput(cardFile, args, os.Stdin)
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	card, err := a.Service.GenerateCard(cmd.Context(), content, cardType)
	if err != nil {
		return fmt.Errorf("generating card: %w", err)
	}

	if wantJSON() {
		return printJSON(cmd, card)
	}
	printCard(cmd, card)
	return nil
}

func printCard(cmd *cobra.Command, card *models.GeneratedCard) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "ID\t%s\n", card.ID)
	_, _ = fmt.Fprintf(w, "Title\t%s %s\n", card.Icon, card.Title)
	_, _ = fmt.Fprintf(w, "Category\t%s\n", card.Category)
	_, _ = fmt.Fprintf(w, "Summary\t%s\n", truncate(card.Summary, 80))
	for _, widget := range card.Widgets {
		_, _ = fmt.Fprintf(w, "%s\t%s: %v\n", widget.Type, widget.Label, widget.Value)
	}
	_ = w.Flush()
}
