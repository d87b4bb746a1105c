package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/AdaWorldAPI/cypherdoc/internal/config"
	"github.com/AdaWorldAPI/cypherdoc/internal/render"
	"github.com/AdaWorldAPI/cypherdoc/internal/runner"
)

func newExecCmd(logger *slog.Logger) *cobra.Command {
	var (
		endpoint string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "exec <query>",
		Short: "Execute one query and print the result table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if timeout != 0 {
				cfg.QueryTimeout = timeout
			}

			client := runner.New(runner.Config{
				DefaultEndpoint: cfg.DefaultEndpoint,
				Timeout:         cfg.QueryTimeout,
				Logger:          logger,
			})

			result, err := client.Run(cmd.Context(), endpoint, args[0])
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), render.TerminalError(err.Error()))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Terminal(result))
			return nil
		},
	}

	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "", "query service endpoint (overrides CYPHERDOC_ENDPOINT)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "execution timeout (overrides CYPHERDOC_QUERY_TIMEOUT)")
	return cmd
}
