// ABOUTME: CLI command reporting store, language model and cache status
// ABOUTME: Exits non-zero when the service is degraded
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewHealthCmd creates health command
func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check store, language model and cache",
		Long: `Report whether the vector store is reachable, a language model is
configured and the cache is enabled. Status is "ok" only when both the
store and the model are usable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			h := a.Service.Health(cmd.Context())
			if wantJSON() {
				if err := printJSON(cmd, h); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "Status: %s\n", h.Status)
				_, _ = fmt.Fprintf(out, "Store:  %s (%s)\n", h.Store, a.Config.Store)
				if h.Cards != nil {
					_, _ = fmt.Fprintf(out, "Cards:  %d\n", *h.Cards)
				}
				_, _ = fmt.Fprintf(out, "Model:  %s (%s)\n", h.Oracle, a.Config.Provider)
				_, _ = fmt.Fprintf(out, "Cache:  %s\n", h.Cache)
			}

			if h.Status != "ok" {
				return fmt.Errorf("orbit is degraded")
			}
			return nil
		},
	}
}
