package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"github.com/yacobolo/cssaudit/internal/cssaudit"
)

// parseStyles parses every stylesheet below the configured styles root
func parseStyles(ctx context.Context) ([]*cssaudit.Stylesheet, error) {
	root := stylesDir()
	files, err := cssaudit.ParseDir(root)
	if err != nil {
		return nil, err
	}
	GetLogger(ctx).Debug("parsed stylesheets", "root", root, "files", len(files))
	return files, nil
}

// auditOutput describes how an audit command publishes its result
type auditOutput struct {
	section       string // Config section ("specificity")
	defaultReport string // Report file used when none is configured
	result        any    // Printed as JSON with --output-format json
	render        func(io.Writer) error
	summarize     func(*cssaudit.SummaryReporter)
}

// addAuditFlags registers the flags shared by the report-writing audits
func addAuditFlags(cmd *cobra.Command, defaultReport string) {
	cmd.Flags().String("report", defaultReport, "Markdown report file")
	cmd.Flags().String("output-format", "", "Output format: markdown|json")
}

// publish writes the Markdown report plus a console summary, or prints the
// result as JSON
func publish(cmd *cobra.Command, out auditOutput) error {
	format, err := outputFormat(out.section, cssaudit.OutputMarkdown, cssaudit.OutputMarkdown, cssaudit.OutputJSON)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	if format == cssaudit.OutputJSON {
		return cssaudit.WriteJSON(stdout, out.result)
	}

	path := reportPath(out.section, out.defaultReport)
	if err := cssaudit.WriteReportFile(path, out.render); err != nil {
		return err
	}
	GetLogger(cmd.Context()).Debug("report written", "path", path)

	if getBoolWithFallback("quiet", "quiet", false) {
		return nil
	}
	useColors := cssaudit.ShouldUseColors(getBoolWithFallback("color", "color", false))
	out.summarize(cssaudit.NewSummaryReporter(stdout, useColors))
	cssaudit.NewReporter(stdout, cssaudit.ReporterConfig{UseColors: useColors}).PrintReportPath(path)
	return nil
}
