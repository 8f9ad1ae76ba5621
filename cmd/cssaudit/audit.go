package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssaudit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run every audit and write all reports",
	Long: `Parse the styles root once, run the architecture gates and the
specificity, !important and media query audits, and write every Markdown
report into the output directory. With --source the inline style audit
runs as well.

Exits 1 when the architecture gates fail; the other audits are advisory.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := GetLogger(cmd.Context())
		gates := buildGateConfig(logger)

		result, err := cssaudit.Run(cmd.Context(), cssaudit.Config{
			StylesDir:       gates.StylesDir,
			SourceDir:       getStringWithFallback("source", "audit.source", ""),
			TokensDir:       gates.TokensDir,
			Allowlist:       gates.Allowlist,
			FeatureFile:     gates.FeatureFile,
			ScopeClass:      gates.ScopeClass,
			SkipLeakage:     gates.SkipLeakage,
			UtilitiesDir:    getStringWithFallback("utilities-dir", "audit.utilities-dir", "utilities"),
			BreakpointsFile: getStringWithFallback("breakpoints-file", "media.breakpoints-file", "tokens/spacing.css"),
			Logger:          logger,
		})
		if err != nil {
			return err
		}

		paths, err := result.WriteReports(getStringWithFallback("output-dir", "audit.output-dir", "."), time.Now())
		if err != nil {
			return err
		}
		for _, path := range paths {
			logger.Info("report written", "path", path)
		}

		if err := result.WriteGateSummary(cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
			return err
		}
		if !result.Passed() {
			return cssaudit.ErrGatesFailed
		}
		return nil
	},
}

func init() {
	f := auditCmd.Flags()
	f.String("output-dir", ".", "Directory for the Markdown reports")
	f.String("source", "", "Component source root for the inline style audit (skipped when empty)")
	f.String("utilities-dir", "utilities", "Directory exempt from specificity and !important rules")
	f.String("breakpoints-file", "tokens/spacing.css", "Styles-relative file declaring --breakpoint-* tokens")
}
