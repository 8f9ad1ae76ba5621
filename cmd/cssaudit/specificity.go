package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssaudit/internal/cssaudit"
)

var specificityCmd = &cobra.Command{
	Use:   "specificity",
	Short: "Audit selectors against the (0,0,2,0) specificity budget",
	Long: `Compute the specificity of every selector outside the utilities
directory and report those exceeding two classes, with severity and a
refactoring recommendation.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		files, err := parseStyles(cmd.Context())
		if err != nil {
			return err
		}

		result := cssaudit.AuditSpecificity(files, cssaudit.SpecificityOptions{
			UtilitiesDir: getStringWithFallback("utilities-dir", "specificity.utilities-dir", "utilities"),
		})
		generated := time.Now()

		return publish(cmd, auditOutput{
			section:       "specificity",
			defaultReport: "SPECIFICITY_AUDIT_REPORT.md",
			result:        result,
			render: func(w io.Writer) error {
				return cssaudit.WriteSpecificityReport(w, result, generated)
			},
			summarize: func(r *cssaudit.SummaryReporter) { r.PrintSpecificity(result) },
		})
	},
}

func init() {
	addAuditFlags(specificityCmd, "SPECIFICITY_AUDIT_REPORT.md")
	specificityCmd.Flags().String("utilities-dir", "utilities", "Directory whose selectors are exempt")
}
