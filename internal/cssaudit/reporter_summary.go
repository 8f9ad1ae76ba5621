package cssaudit

import (
	"fmt"
	"io"
)

// SummaryReporter prints short console summaries of audit results
type SummaryReporter struct {
	w         io.Writer
	useColors bool
	table     *Reporter
}

// NewSummaryReporter creates a summary reporter
func NewSummaryReporter(w io.Writer, useColors bool) *SummaryReporter {
	return &SummaryReporter{
		w:         w,
		useColors: useColors,
		table:     &Reporter{w: w, useColors: useColors},
	}
}

// PrintSpecificity outputs compliance and the violation count per severity
func (r *SummaryReporter) PrintSpecificity(result *SpecificityAuditResult) {
	r.heading("Specificity Audit")
	fmt.Fprintf(r.w, "Selectors Audited: %d\n", result.TotalSelectors)
	fmt.Fprintf(r.w, "Violations:        %d\n", result.ViolationCount)
	fmt.Fprint(r.w, "Compliance:        ")
	printProgressBar(r.w, result.ComplianceRate)

	if result.ViolationCount == 0 {
		return
	}
	counts := make(map[Severity]int)
	for _, v := range result.Violations {
		counts[v.Severity]++
	}
	r.table.PrintTable([]string{"Severity", "Violations"}, [][]any{
		{SeverityHigh, counts[SeverityHigh]},
		{SeverityMedium, counts[SeverityMedium]},
		{SeverityLow, counts[SeverityLow]},
	})
}

// PrintImportant outputs !important declarations per directory
func (r *SummaryReporter) PrintImportant(declarations []ImportantDeclaration) {
	r.heading("!important Audit")
	fmt.Fprintf(r.w, "Declarations: %d\n", len(declarations))
	if len(declarations) == 0 {
		fmt.Fprintln(r.w, RenderStyle(StyleGreen, "No !important declarations found", r.useColors))
		return
	}

	var rows [][]any
	var mustRemove int
	for _, g := range GroupByCategory(declarations) {
		acceptable := 0
		for _, d := range g.Declarations {
			if d.Acceptable() {
				acceptable++
			}
		}
		mustRemove += len(g.Declarations) - acceptable
		rows = append(rows, []any{g.Category, len(g.Declarations), acceptable})
	}
	r.table.PrintTable([]string{"Directory", "Declarations", "Acceptable"}, rows)

	if mustRemove > 0 {
		fmt.Fprintln(r.w, RenderStyle(StyleYellow,
			pluralizeCount(mustRemove, "declaration needs", "declarations need")+" removal", r.useColors))
	}
}

// PrintMediaQueries outputs token consistency, direction and co-location
func (r *SummaryReporter) PrintMediaQueries(result *MediaQueryAuditResult) {
	r.heading("Media Query Audit")
	r.table.PrintTable([]string{"Check", "Count"}, [][]any{
		{"Media queries", result.TotalMediaQueries},
		{"Files", result.FileCount},
		{"Breakpoint tokens", len(result.BreakpointTokens)},
		{"Consistent", len(result.Consistent)},
		{"Inconsistent", len(result.Inconsistent)},
		{"Mobile-first", len(result.MobileFirst)},
		{"Desktop-first", len(result.DesktopFirst)},
		{"Co-location issues", len(result.ColocationIssues)},
	})
	if !result.HasIssues() {
		fmt.Fprintln(r.w, RenderStyle(StyleGreen, "No issues found", r.useColors))
	}
}

// PrintInlineStyles outputs inline style counts and the worst files
func (r *SummaryReporter) PrintInlineStyles(result *InlineStyleAuditResult) {
	r.heading("Inline Styles Audit")
	fmt.Fprintf(r.w, "Files Scanned:     %d\n", result.TotalFiles)
	fmt.Fprintf(r.w, "Files With Styles: %d\n", result.FilesWithInlineStyles)
	fmt.Fprintf(r.w, "Inline Styles:     %d (static %d, dynamic %d, mixed %d)\n",
		result.TotalInlineStyles, result.StaticStyles, result.DynamicStyles, result.MixedStyles)

	if len(result.ByFile) == 0 {
		return
	}
	var rows [][]any
	for i, fc := range result.ByFile {
		if i >= 10 {
			break
		}
		rows = append(rows, []any{fc.File, fc.Count})
	}
	r.table.PrintTable([]string{"File", "Inline Styles"}, rows)
}

// PrintMetrics outputs bundle sizes and, with a comparison, the reduction
func (r *SummaryReporter) PrintMetrics(current PerformanceMetrics, cmp *MetricsComparison) {
	r.heading("CSS Metrics")
	fmt.Fprintf(r.w, "Total Size:   %s\n", FormatBytes(current.BundleSize.TotalSize))
	fmt.Fprintf(r.w, "Gzipped Size: %s\n", FormatBytes(current.BundleSize.GzippedSize))
	if current.BundleSize.MinifiedSize > 0 {
		fmt.Fprintf(r.w, "Minified:     %s\n", FormatBytes(current.BundleSize.MinifiedSize))
	}
	fmt.Fprintf(r.w, "Files:        %d\n", current.BundleSize.FileCount)
	if current.CSSParsingTime != 0 {
		fmt.Fprintf(r.w, "Parsing Time: %.2fms\n", current.CSSParsingTime)
	}

	if cmp == nil {
		return
	}
	r.heading("Comparison with Baseline")
	fmt.Fprintf(r.w, "Bundle Size Reduction:  %s (%.2f%%)\n", FormatBytes(cmp.BundleSizeReduction), cmp.BundleSizeReductionPercent)
	fmt.Fprintf(r.w, "Gzipped Size Reduction: %s (%.2f%%)\n", FormatBytes(cmp.GzippedSizeReduction), cmp.GzippedSizeReductionPercent)
	if cmp.HasParsingTime {
		fmt.Fprintf(r.w, "Parsing Time Change:    %.2fms (%.2f%%)\n", cmp.ParsingTimeChange, cmp.ParsingTimeChangePercent)
	}

	style := StyleGreen
	if cmp.BundleSizeReductionPercent <= 0 {
		style = StyleRed
	} else if cmp.BundleSizeReductionPercent < 30 {
		style = StyleYellow
	}
	fmt.Fprintln(r.w, RenderStyle(style, AssessReduction(cmp.BundleSizeReductionPercent), r.useColors))
}

func (r *SummaryReporter) heading(title string) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, title, r.useColors))
	fmt.Fprintln(r.w, "------------------------")
}

// printProgressBar draws a 20-cell bar for a percentage
func printProgressBar(w io.Writer, percentage float64) {
	barWidth := 20
	filled := int(percentage / 100 * float64(barWidth))

	fmt.Fprint(w, "[")
	for i := 0; i < barWidth; i++ {
		if i < filled {
			fmt.Fprint(w, "█")
		} else {
			fmt.Fprint(w, "░")
		}
	}
	fmt.Fprintf(w, "] %.1f%%\n", percentage)
}
