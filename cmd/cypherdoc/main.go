// Command cypherdoc turns fenced cypher blocks in markdown documents into
// interactive query consoles: `build` rewrites sources for publishing,
// `serve` previews a built site and proxies query execution, and `exec`
// runs a single query from the terminal.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// Load .env file if present (non-fatal; production won't have one).
	_ = godotenv.Load()

	logger := newLogger()
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:           "cypherdoc",
		Short:         "Interactive cypher blocks for documentation sites",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBuildCmd(logger))
	root.AddCommand(newServeCmd(logger))
	root.AddCommand(newExecCmd(logger))

	if err := root.Execute(); err != nil {
		logger.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("CYPHERDOC_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}
