// ABOUTME: Cache commands for inspecting and purging content-addressed entries
// ABOUTME: Provides stats and purge over the configured cache backend
package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/orbit/internal/app"
	"github.com/harper/orbit/internal/cache"
)

// NewCacheCmd creates the cache command group
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and purge the response cache",
		Long: `Inspect and purge the content-addressed cache.

Card generations are kept for 7 days, magnet evaluations for 1 hour and
embeddings for 30 days unless overridden with ORBIT_CACHE_*_TTL.`,
	}

	cmd.AddCommand(newCacheStatsCmd())
	cmd.AddCommand(newCachePurgeCmd())

	return cmd
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show live entries and TTL per namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if !a.Cache.Enabled() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cache: disabled")
				return nil
			}

			counts, err := a.CacheEntries(cmd.Context())
			if errors.Is(err, app.ErrNoCacheStore) {
				counts = nil
			} else if err != nil {
				return fmt.Errorf("counting cache entries: %w", err)
			}

			if wantJSON() {
				type row struct {
					Namespace string `json:"namespace"`
					TTL       string `json:"ttl"`
					Entries   *int   `json:"entries,omitempty"`
				}
				rows := make([]row, 0, len(cache.Namespaces))
				for _, ns := range cache.Namespaces {
					r := row{Namespace: string(ns), TTL: a.Cache.TTL(ns).String()}
					if counts != nil {
						n := counts[string(ns)]
						r.Entries = &n
					}
					rows = append(rows, r)
				}
				return printJSON(cmd, rows)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(w, "NAMESPACE\tTTL\tENTRIES\n")
			for _, ns := range cache.Namespaces {
				entries := "-"
				if counts != nil {
					entries = fmt.Sprintf("%d", counts[string(ns)])
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", ns, a.Cache.TTL(ns), entries)
			}
			return w.Flush()
		},
	}
}

func newCachePurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete expired cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			n, err := a.PurgeCache(cmd.Context())
			if err != nil {
				return fmt.Errorf("purging cache: %w", err)
			}
			if !quiet {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Purged %d expired entries\n", n)
			}
			return nil
		},
	}
}
