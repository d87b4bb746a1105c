package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AdaWorldAPI/cypherdoc/internal/config"
	"github.com/AdaWorldAPI/cypherdoc/internal/document"
)

func newBuildCmd(logger *slog.Logger) *cobra.Command {
	var (
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Rewrite tagged cypher blocks in a source tree for publishing",
		Long: `Build scans markdown sources for fenced cypher blocks, extracts their
inline directives, and splices published interactive HTML in place. All other
content passes through verbatim. The companion script and stylesheet are
written into the output tree exactly once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// One build pass: fresh counter and registration state.
			bc := document.NewBuildContext(
				document.FileRegistrar{Dir: output},
				cfg.DefaultEndpoint,
			)
			ex := document.NewExtractor(document.TargetHTML, logger)
			builder := document.NewBuilder(ex, logger)

			total, err := builder.BuildDir(cmd.Context(), bc, input, output)
			if err != nil {
				return fmt.Errorf("build: %w", err)
			}
			logger.Info("build complete", "source", input, "output", output, "blocks", total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", ".", "source directory")
	cmd.Flags().StringVarP(&output, "output", "o", "_site", "output directory")
	return cmd
}
