package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ironsheep/object-finder-mcp/internal/config"
	"github.com/ironsheep/object-finder-mcp/internal/logging"
	"github.com/ironsheep/object-finder-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("object-finder-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("object-finder-mcp - MCP server for sliding-window object detection")
			fmt.Println()
			fmt.Println("Usage: object-finder-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from .env.odf):")
			fmt.Println("  ODF_LOG_LEVEL=debug          Log level: debug, info, warn, error")
			fmt.Println("  ODF_LOG_FORMAT=json          Log as JSON instead of text")
			fmt.Println("  ODF_CONFIG=path.json         Detection defaults file")
			fmt.Println("  ODF_WINDOW_WIDTH, ODF_WINDOW_HEIGHT, ODF_STEP_X, ODF_STEP_Y,")
			fmt.Println("  ODF_THRESHOLD, ODF_TILE_SIZE, ODF_WORKERS, ODF_CONSOLIDATE,")
			fmt.Println("  ODF_CACHE_SIZE, ODF_HIGHLIGHT_COLOR  Override single settings")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	if err := godotenv.Load(".env.odf"); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to read .env.odf: %v\n", err)
	}

	// Logs go to stderr; stdout is for the MCP protocol
	logger := logging.FromEnv()
	logger.Debug("starting object-finder-mcp", "version", Version, "built", BuildTime, "commit", GitCommit)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Warn("failed to load configuration, using defaults", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server.Version = Version
	srv := server.New(cfg, logger)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server error", "error", err)
		stop()
		os.Exit(1)
	}
}
