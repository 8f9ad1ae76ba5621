package main

import (
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssaudit/internal/cssaudit"
)

var inlineStylesCmd = &cobra.Command{
	Use:   "inline-styles",
	Short: "Audit inline style={{...}} attributes in components",
	Long: `Scan TSX/JSX sources for inline style attributes and classify each
one as static, dynamic or mixed. Files listed in .gitignore are skipped.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		result, err := cssaudit.AuditInlineStyles(buildInlineStyleOptions(GetLogger(cmd.Context())))
		if err != nil {
			return err
		}
		generated := time.Now()

		return publish(cmd, auditOutput{
			section:       "inline-styles",
			defaultReport: "INLINE_STYLES_AUDIT_REPORT.md",
			result:        result,
			render: func(w io.Writer) error {
				return cssaudit.WriteInlineStylesReport(w, result, generated)
			},
			summarize: func(r *cssaudit.SummaryReporter) { r.PrintInlineStyles(result) },
		})
	},
}

func init() {
	addAuditFlags(inlineStylesCmd, "INLINE_STYLES_AUDIT_REPORT.md")
	f := inlineStylesCmd.Flags()
	f.String("root", "src", "Source root to scan")
	f.StringSlice("patterns", nil, "Glob patterns of component files, relative to the root")
	f.StringSlice("ignore", nil, "Glob patterns of files to skip")
}
