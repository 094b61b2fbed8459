// ABOUTME: Sync commands for Charm cloud synchronization
// ABOUTME: Provides status, now, wipe, keys and unlink for the charm card store
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/orbit/internal/charm"
)

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Manage Charm cloud synchronization",
		Long: `Manage synchronization with Charm cloud.

With ORBIT_STORE=charm, card vectors and cache entries live in a Charm
KV database and sync across devices linked to the same Charm account.
The default SQLite store is local only.`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncNowCmd())
	cmd.AddCommand(newSyncWipeCmd())
	cmd.AddCommand(newSyncKeysCmd())
	cmd.AddCommand(newSyncUnlinkCmd())

	return cmd
}

// charmClient connects with the host and database from the orbit config
func charmClient() (*charm.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := charm.GetClient(&charm.Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: cfg.AutoSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Charm: %w", err)
	}
	return client, nil
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync status and connection info",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := charmClient()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			id, err := client.ID()
			if err != nil {
				_, _ = fmt.Fprintln(out, "Status: Not connected")
				_, _ = fmt.Fprintln(out, "Run 'orbit sync keys' to check your SSH keys")
				return nil
			}

			cards, err := client.ListKeys(charm.CardPrefix)
			if err != nil {
				return fmt.Errorf("failed to list cards: %w", err)
			}

			cfg := client.Config()
			_, _ = fmt.Fprintln(out, "Status: Connected")
			_, _ = fmt.Fprintf(out, "User ID: %s\n", id)
			_, _ = fmt.Fprintf(out, "Host: %s\n", cfg.Host)
			_, _ = fmt.Fprintf(out, "Database: %s\n", cfg.DBName)
			_, _ = fmt.Fprintf(out, "Cards: %d\n", len(cards))

			return nil
		},
	}
}

func newSyncNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Force immediate sync with Charm cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := charmClient()
			if err != nil {
				return err
			}

			if !quiet {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Syncing...")
			}
			if err := client.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			if !quiet {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Sync complete")
			}
			return nil
		},
	}
}

func newSyncWipeCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Wipe all local data (nuclear option)",
		Long: `Completely wipe all local Charm data.

WARNING: This deletes all locally cached cards. Your cloud data
remains intact and will be re-synced on next access.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "This will wipe ALL local data!")
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Run with --confirm to proceed")
				return nil
			}

			client, err := charmClient()
			if err != nil {
				return err
			}

			if err := client.Reset(); err != nil {
				return fmt.Errorf("failed to wipe data: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Local data wiped successfully")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm the wipe operation")

	return cmd
}

func newSyncKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List authorized SSH keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := charmClient()
			if err != nil {
				return err
			}

			keys, err := client.GetAuthorizedKeys()
			if err != nil {
				return fmt.Errorf("failed to get authorized keys: %w", err)
			}

			if keys == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No authorized keys found")
				return nil
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Authorized SSH keys:")
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), keys)

			return nil
		},
	}
}

func newSyncUnlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <public-key>",
		Short: "Remove an SSH key from the Charm account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := charmClient()
			if err != nil {
				return err
			}

			if err := client.UnlinkKey(args[0]); err != nil {
				return fmt.Errorf("failed to unlink key: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Key unlinked")
			return nil
		},
	}
}
