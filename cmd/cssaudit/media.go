package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssaudit/internal/cssaudit"
)

var mediaCmd = &cobra.Command{
	Use:     "media",
	Aliases: []string{"media-queries"},
	Short:   "Audit media query breakpoints and co-location",
	Long: `Check that media queries use the --breakpoint-* tokens, follow the
mobile-first (min-width) convention and live in the same file as the
base styles of their component.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		files, err := parseStyles(cmd.Context())
		if err != nil {
			return err
		}

		breakpointsFile := getStringWithFallback("breakpoints-file", "media.breakpoints-file", "tokens/spacing.css")
		result := cssaudit.AuditMediaQueries(files, cssaudit.MediaQueryOptions{BreakpointsFile: breakpointsFile})
		generated := time.Now()

		return publish(cmd, auditOutput{
			section:       "media",
			defaultReport: "MEDIA_QUERY_AUDIT_REPORT.md",
			result:        result,
			render: func(w io.Writer) error {
				return cssaudit.WriteMediaQueryReport(w, result, breakpointsFile, generated)
			},
			summarize: func(r *cssaudit.SummaryReporter) { r.PrintMediaQueries(result) },
		})
	},
}

func init() {
	addAuditFlags(mediaCmd, "MEDIA_QUERY_AUDIT_REPORT.md")
	mediaCmd.Flags().String("breakpoints-file", "tokens/spacing.css", "Styles-relative file declaring --breakpoint-* tokens")
}
