package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AdaWorldAPI/cypherdoc/internal/config"
	"github.com/AdaWorldAPI/cypherdoc/internal/runner"
	"github.com/AdaWorldAPI/cypherdoc/internal/server"
	"github.com/AdaWorldAPI/cypherdoc/internal/telemetry"
)

func newServeCmd(logger *slog.Logger) *cobra.Command {
	var (
		dir  string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview a built site and proxy query execution",
		Long: `Serve hosts a built site directory and exposes POST /api/v1/run, the
route the embedded page script calls. Each run executes the block's query
against its resolved endpoint and returns the rendered result fragment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Port = port
			}
			return serve(cmd.Context(), cfg, dir, logger)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "_site", "built site directory")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides CYPHERDOC_PORT)")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, dir string, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	otelShutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, cfg.OTELInsecure)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	client := runner.New(runner.Config{
		DefaultEndpoint: cfg.DefaultEndpoint,
		Timeout:         cfg.QueryTimeout,
		Logger:          logger,
	})

	srv := server.New(server.ServerConfig{
		Runner:              client,
		SiteDir:             dir,
		Logger:              logger,
		Port:                cfg.Port,
		ReadTimeout:         cfg.ReadTimeout,
		WriteTimeout:        cfg.WriteTimeout,
		Version:             version,
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
