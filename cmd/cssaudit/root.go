package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cssaudit",
	Short: "CSS architecture audit toolkit",
	Long: `Static analysis for a layered stylesheet codebase.
Checks design token hygiene, selector specificity, !important usage,
media query consistency and inline styles, and tracks bundle metrics
against a saved baseline.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		logger := newLogger(os.Stderr,
			getBoolWithFallback("verbose", "verbose", false),
			getBoolWithFallback("quiet", "quiet", false))
		cmd.SetContext(WithLogger(cmd.Context(), logger))
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress console summaries (reports are still written)")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("styles", "src/styles", "Styles root directory")
	rootCmd.PersistentFlags().String("config", defaultConfigPath, "Config file path")

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(gatesCmd)
	rootCmd.AddCommand(specificityCmd)
	rootCmd.AddCommand(importantCmd)
	rootCmd.AddCommand(mediaCmd)
	rootCmd.AddCommand(inlineStylesCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
