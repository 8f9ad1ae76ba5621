package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssaudit/internal/cssaudit"
)

var gatesCmd = &cobra.Command{
	Use:   "gates",
	Short: "Run the CSS architecture gates",
	Long: `Fail when a token is declared twice in the same scope, when a custom
property is used without a declaration in the token files, or when the
feature stylesheet contains unscoped generic selectors. A missing feature
stylesheet is an error unless --skip-leakage is set.

Exits 0 when all gates pass and 1 otherwise.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runGates(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	f := gatesCmd.Flags()
	f.String("tokens-dir", "tokens", "Canonical token directory under the styles root")
	f.StringSlice("allowlist", nil, "Runtime custom properties exempt from declaration")
	f.String("feature-file", "features/configurator.css", "Feature stylesheet checked for selector leakage")
	f.String("scope-class", cssaudit.DefaultScopeClass, "Class that must scope the feature stylesheet")
	f.Bool("skip-leakage", false, "Skip the selector leakage gate (no feature stylesheet)")
	f.String("output-format", "", "Output format: text|issues|json")
	f.Bool("print-lines", true, "Show source lines with issues")
	f.Bool("print-linter-name", true, "Show (gate) suffix on issues")
	f.Int("max-issues-per-linter", 0, "Max issues to show per gate (0=unlimited)")
	f.Int("max-same-issues", 0, "Max repeated issues to show (0=unlimited)")
}

// runGates is shared between `cssaudit gates` and `cssaudit watch`.
// Failing gates are reported as ErrGatesFailed after the findings are printed.
func runGates(ctx context.Context, stdout, stderr io.Writer) error {
	format, err := outputFormat("gates", cssaudit.OutputText,
		cssaudit.OutputText, cssaudit.OutputIssues, cssaudit.OutputJSON)
	if err != nil {
		return err
	}

	result, err := cssaudit.RunGates(buildGateConfig(GetLogger(ctx)))
	if err != nil {
		return fmt.Errorf("gates failed to run: %w", err)
	}

	switch format {
	case cssaudit.OutputJSON:
		err = cssaudit.WriteJSON(stdout, result)
	case cssaudit.OutputIssues:
		reporter := cssaudit.NewReporter(stdout, cssaudit.ReporterConfig{
			UseColors:        getBoolWithFallback("color", "color", false),
			PrintIssuedLines: getBoolWithFallback("print-lines", "gates.print-lines", true),
			PrintLinterName:  getBoolWithFallback("print-linter-name", "gates.print-linter-name", true),
		})
		issues, dropped := cssaudit.LimitIssues(result.Issues(),
			getIntWithFallback("max-issues-per-linter", "gates.max-issues-per-linter", 0),
			getIntWithFallback("max-same-issues", "gates.max-same-issues", 0))
		if len(issues) > 0 {
			reporter.PrintIssues(issues)
			reporter.PrintIssueSummary(issues)
		}
		if dropped > 0 {
			fmt.Fprintf(stdout, "(%d more hidden by issue limits)\n", dropped)
		}
	default:
		err = cssaudit.WriteGateSummary(stdout, stderr, result)
	}
	if err != nil {
		return err
	}

	if !result.Passed() {
		return cssaudit.ErrGatesFailed
	}
	return nil
}
