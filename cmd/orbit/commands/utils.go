// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Input reading, app construction and output formatting helpers
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/orbit/internal/app"
	"github.com/harper/orbit/internal/config"
	"github.com/harper/orbit/internal/logging"
)

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// readInput returns text from a file, the first argument, or stdin, in that order
func readInput(file string, args []string, stdin io.Reader) (string, error) {
	var text string
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		text = string(data)
	case len(args) > 0:
		text = args[0]
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no text provided")
	}
	return text, nil
}

// newLogger honours the global --verbose and --quiet flags
func newLogger(cfg *config.Config) *log.Logger {
	switch {
	case quiet:
		return logging.Discard()
	case verbose:
		return logging.New("debug")
	default:
		return logging.New(cfg.LogLevel)
	}
}

// loadConfig reads .env and the orbit configuration
func loadConfig() (*config.Config, error) {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openApp loads configuration and builds the service. Callers close the app.
func openApp() (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a, err := app.New(cfg, newLogger(cfg))
	if err != nil {
		return nil, fmt.Errorf("initializing orbit: %w", err)
	}
	return a, nil
}

// wantJSON reports whether --format json was requested. auto prints tables.
func wantJSON() bool {
	return outputFormat == "json"
}

// printJSON writes v as indented JSON
func printJSON(cmd *cobra.Command, v interface{}) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
	return nil
}
