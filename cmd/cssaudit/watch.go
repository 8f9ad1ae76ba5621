package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssaudit/internal/cssaudit"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the architecture gates whenever a stylesheet changes",
	Long: `Run the gates once, then again after every change to a .css file
below the styles root. Stops on Ctrl+C.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := GetLogger(cmd.Context())
		cfg := buildWatchConfig(logger)
		logger.Info("watching stylesheets", "root", cfg.Root, "debounce", cfg.Debounce)

		return cssaudit.Watch(cmd.Context(), cfg, func(ctx context.Context) error {
			err := runGates(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if errors.Is(err, cssaudit.ErrGatesFailed) {
				return nil
			}
			return err
		})
	},
}

func init() {
	f := watchCmd.Flags()
	f.Duration("debounce", cssaudit.DefaultDebounce, "Quiet period before re-running")
	f.String("output-format", "", "Output format: text|issues|json")
}
