package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssaudit/internal/cssaudit"
)

var importantCmd = &cobra.Command{
	Use:   "important",
	Short: "Audit !important declarations",
	Long: `Find every !important declaration, classify why it is there and
whether it is acceptable (utility overrides, accessibility) or must be
removed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		files, err := parseStyles(cmd.Context())
		if err != nil {
			return err
		}

		declarations := cssaudit.AuditImportant(files, cssaudit.ImportantOptions{
			UtilitiesDir: getStringWithFallback("utilities-dir", "important.utilities-dir", "utilities"),
		})
		generated := time.Now()

		return publish(cmd, auditOutput{
			section:       "important",
			defaultReport: "IMPORTANT_AUDIT_REPORT.md",
			result:        declarations,
			render: func(w io.Writer) error {
				return cssaudit.WriteImportantReport(w, declarations, generated)
			},
			summarize: func(r *cssaudit.SummaryReporter) { r.PrintImportant(declarations) },
		})
	},
}

func init() {
	addAuditFlags(importantCmd, "IMPORTANT_AUDIT_REPORT.md")
	importantCmd.Flags().String("utilities-dir", "utilities", "Directory whose overrides are acceptable")
}
