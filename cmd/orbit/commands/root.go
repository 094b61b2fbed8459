// ABOUTME: Root command for the orbit CLI with global output flags
// ABOUTME: Wires every subcommand and rejects conflicting verbosity flags
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
  ██████╗ ██████╗ ██████╗ ██╗████████╗
 ██╔═══██╗██╔══██╗██╔══██╗██║╚══██╔══╝
 ██║   ██║██████╔╝██████╔╝██║   ██║
 ██║   ██║██╔══██╗██╔══██╗██║   ██║
 ╚██████╔╝██║  ██║██████╔╝██║   ██║
  ╚═════╝ ╚═╝  ╚═╝╚═════╝ ╚═╝   ╚═╝
`

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orbit",
		Short: "Semantic canvas engine: cards, gravity and magnets",
		Long: banner + `
Orbit turns dropped content into cards, embeds them into a 256-dimension
semantic space and scores how strongly cards attract each other.

Cards are stored locally in SQLite or synced through Charm. Language
model calls go to Claude or OpenAI and are cached by content.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			switch outputFormat {
			case "auto", "json", "table":
				return nil
			default:
				return fmt.Errorf("unknown --format %q (want auto, json or table)", outputFormat)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json or table")

	cmd.AddCommand(NewCardCmd())
	cmd.AddCommand(NewEmbedCmd())
	cmd.AddCommand(NewGravityCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewMagnetCmd())
	cmd.AddCommand(NewHealthCmd())
	cmd.AddCommand(NewCacheCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
