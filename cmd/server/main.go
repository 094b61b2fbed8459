// ABOUTME: Main entry point for the orbit MCP server with stdio transport
// ABOUTME: Loads config, opens the store and cache, and registers the canvas tools
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/orbit/internal/app"
	"github.com/harper/orbit/internal/config"
	"github.com/harper/orbit/internal/logging"
	"github.com/harper/orbit/internal/mcp"
)

var version = "dev"

func main() {
	// Load .env file if it exists (for API keys)
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.New("error").Fatal("invalid configuration", "err", err)
	}
	logger := logging.New(cfg.LogLevel)
	if envErr != nil {
		logger.Debug("no .env file found", "err", envErr)
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize", "err", err)
	}
	defer func() { _ = a.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := a.ServeMetrics(ctx); err != nil {
			logger.Warn("metrics listener stopped", "err", err)
		}
	}()

	server := mcpserver.NewMCPServer("Orbit", version)
	mcp.RegisterTools(server, a.Service, logger)

	logger.Info("orbit MCP server starting on stdio", "store", cfg.Store, "provider", cfg.Provider)
	if err := mcpserver.ServeStdio(server); err != nil {
		logger.Error("server error", "err", err)
		cancel()
		_ = a.Close()
		os.Exit(1)
	}
}
