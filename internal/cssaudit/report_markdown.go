package cssaudit

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// markdown accumulates report lines
type markdown struct {
	lines []string
}

func (m *markdown) add(line string) {
	m.lines = append(m.lines, line)
}

func (m *markdown) addf(format string, args ...any) {
	m.lines = append(m.lines, fmt.Sprintf(format, args...))
}

func (m *markdown) blank() {
	m.lines = append(m.lines, "")
}

func (m *markdown) header(title string, generated time.Time) {
	m.add("# " + title)
	m.blank()
	m.addf("**Generated:** %s", generated.UTC().Format(time.RFC3339))
	m.blank()
}

func (m *markdown) writeTo(w io.Writer) error {
	_, err := io.WriteString(w, strings.Join(m.lines, "\n")+"\n")
	return err
}

// WriteSpecificityReport renders the specificity audit as Markdown
func WriteSpecificityReport(w io.Writer, r *SpecificityAuditResult, generated time.Time) error {
	var m markdown
	m.header("CSS Specificity Audit Report", generated)

	m.add("## Summary")
	m.blank()
	m.addf("- **Total Selectors Audited:** %d", r.TotalSelectors)
	m.addf("- **Compliant Selectors:** %d (%.1f%%)", r.TotalSelectors-r.ViolationCount, r.ComplianceRate)
	m.addf("- **Non-Compliant Selectors:** %d", r.ViolationCount)
	m.blank()

	switch {
	case r.ComplianceRate == 100:
		m.add("✅ **All selectors comply with maximum specificity (0,0,2,0)**")
	case r.ComplianceRate >= 90:
		m.add("⚠️ **Most selectors comply, but some violations need attention**")
	default:
		m.add("❌ **Significant specificity violations detected - refactoring required**")
	}
	m.blank()

	if len(r.GeneralRecommendations) > 0 {
		m.add("## General Recommendations")
		m.blank()
		for _, rec := range r.GeneralRecommendations {
			m.add("- " + rec)
		}
		m.blank()
	}

	sections := []struct {
		severity Severity
		title    string
		intro    string
	}{
		{SeverityHigh, "High Severity Violations", "These violations use ID selectors or excessive specificity and should be fixed immediately."},
		{SeverityMedium, "Medium Severity Violations", "These violations exceed the maximum specificity but can be addressed in the next refactoring phase."},
		{SeverityLow, "Low Severity Violations", "These violations slightly exceed the maximum specificity."},
	}
	for _, section := range sections {
		var matching []SpecificityViolation
		for _, v := range r.Violations {
			if v.Severity == section.severity {
				matching = append(matching, v)
			}
		}
		if len(matching) == 0 {
			continue
		}

		m.add("## " + section.title)
		m.blank()
		m.add(section.intro)
		m.blank()
		for _, v := range matching {
			m.add("### " + v.Selector)
			m.blank()
			m.addf("- **File:** `%s`", v.File)
			m.addf("- **Line:** %d", v.Line)
			m.addf("- **Specificity:** %s", v.Specificity)
			m.addf("- **Recommendation:** %s", v.Recommendation)
			m.blank()
		}
	}

	if len(r.Violations) > 0 {
		m.add("## Detailed Violations Table")
		m.blank()
		m.add("| Selector | File | Line | Specificity | Severity | Recommendation |")
		m.add("|----------|------|------|-------------|----------|----------------|")
		for _, v := range r.Violations {
			m.addf("| `%s` | %s | %d | %s | %s | %s |",
				escapeTableCell(v.Selector), lastSegments(v.File, 2), v.Line, v.Specificity, v.Severity, escapeTableCell(v.Recommendation))
		}
		m.blank()
	}

	m.add("## Next Steps")
	m.blank()
	m.add("1. Review high severity violations first")
	m.add("2. Replace ID selectors with class selectors")
	m.add("3. Eliminate compound selectors (e.g., nav.navbar → .navbar)")
	m.add("4. Reduce class chaining by using BEM modifiers")
	m.add("5. Adjust cascade order in index.css if needed")
	m.add("6. Re-run audit to verify compliance")

	return m.writeTo(w)
}

// WriteImportantReport renders the !important audit as Markdown
func WriteImportantReport(w io.Writer, declarations []ImportantDeclaration, generated time.Time) error {
	var m markdown
	m.header("!important Declaration Audit Report", generated)
	m.addf("**Total !important declarations found:** %d", len(declarations))
	m.blank()

	if len(declarations) == 0 {
		m.add("✅ No !important declarations found!")
		return m.writeTo(w)
	}

	groups := GroupByCategory(declarations)

	m.add("## Summary by Directory")
	m.blank()
	for _, g := range groups {
		m.addf("- **%s**: %d declaration(s)", g.Category, len(g.Declarations))
	}
	m.blank()

	m.add("## Detailed Findings")
	m.blank()
	for _, g := range groups {
		m.addf("### %s/ (%d declaration(s))", g.Category, len(g.Declarations))
		m.blank()
		for i, d := range g.Declarations {
			m.addf("#### %d. %s:%d", i+1, d.File, d.Line)
			m.blank()
			m.addf("- **Selector:** `%s`", d.Selector)
			if d.MediaQuery != "" {
				m.addf("- **Media Query:** `@media %s`", d.MediaQuery)
			}
			m.addf("- **Property:** `%s: %s !important`", d.Property, d.Value)
			m.addf("- **Reason:** %s", d.Reason)
			switch {
			case d.InUtilities:
				m.add("- **Action Required:** ✅ Acceptable (utility class)")
			case strings.Contains(d.Reason, ReasonAccessibility):
				m.add("- **Action Required:** ✅ Acceptable (accessibility)")
			default:
				m.add("- **Action Required:** ❌ Must be removed - resolve specificity conflict")
			}
			m.blank()
		}
	}

	m.add("## Recommendations")
	m.blank()

	counts := make(map[string]int)
	for _, g := range groups {
		for _, d := range g.Declarations {
			if g.Category == "features" && strings.Contains(d.Reason, "Accessibility") {
				continue
			}
			counts[g.Category]++
		}
	}
	needsRemoval := counts["components"] + counts["sections"] + counts["layout"] + counts["features"]

	if needsRemoval == 0 {
		m.add("✅ All !important declarations are in acceptable locations (utilities/ or accessibility)")
		return m.writeTo(w)
	}

	m.addf("### Priority: Remove %d !important declaration(s)", needsRemoval)
	m.blank()
	guidance := []struct {
		category string
		steps    []string
	}{
		{"components", []string{"Adjusting cascade order in index.css", "Using more specific selectors without !important", "Ensuring component styles load after base styles"}},
		{"sections", []string{"Adjusting cascade order in index.css", "Ensuring sections load after components", "Using BEM naming to avoid conflicts"}},
		{"layout", []string{"Adjusting cascade order in index.css", "Ensuring layout styles load early in cascade"}},
		{"features", []string{"Adjusting cascade order in index.css", "Using feature-specific class names"}},
	}
	for i, g := range guidance {
		if counts[g.category] == 0 {
			continue
		}
		m.addf("%d. **%s/**: %d declaration(s) - Resolve specificity conflicts by:", i+1, g.category, counts[g.category])
		for _, step := range g.steps {
			m.add("   - " + step)
		}
		m.blank()
	}

	return m.writeTo(w)
}

// WriteMediaQueryReport renders the media-query audit as Markdown
func WriteMediaQueryReport(w io.Writer, r *MediaQueryAuditResult, breakpointsFile string, generated time.Time) error {
	var m markdown
	m.header("Media Query Audit Report", generated)

	m.add("## Summary")
	m.blank()
	m.addf("- **Total Media Queries:** %d", r.TotalMediaQueries)
	m.addf("- **Files Analyzed:** %d", r.FileCount)
	m.addf("- **Breakpoint Tokens Defined:** %d", len(r.BreakpointTokens))
	m.blank()

	m.add("## Breakpoint Tokens")
	m.blank()
	for _, tok := range r.BreakpointTokens {
		m.addf("- `%s`: %s", tok.Name, tok.Value)
	}
	m.blank()

	m.add("## Breakpoint Consistency Analysis")
	m.blank()
	m.addf("**Consistent with tokens:** %d / %d", len(r.Consistent), r.TotalMediaQueries)
	m.addf("**Inconsistent (not using tokens):** %d / %d", len(r.Inconsistent), r.TotalMediaQueries)
	m.blank()

	if len(r.Inconsistent) > 0 {
		m.add("### Inconsistent Breakpoints")
		m.blank()
		m.add("These media queries use hardcoded values instead of tokens:")
		m.blank()
		for _, mq := range r.Inconsistent {
			m.addf("- **%s:%d**", mq.File, mq.Line)
			m.addf("  - Query: `%s`", mq.Query)
			m.addf("  - Breakpoint: `%s`", mq.Breakpoint)
			m.blank()
		}
	}

	m.add("## Mobile-First Compliance")
	m.blank()
	m.addf("**Mobile-first (min-width):** %d / %d", len(r.MobileFirst), r.TotalMediaQueries)
	m.addf("**Desktop-first (max-width):** %d / %d", len(r.DesktopFirst), r.TotalMediaQueries)
	m.blank()

	if len(r.DesktopFirst) > 0 {
		m.add("### Desktop-First Media Queries")
		m.blank()
		m.add("These media queries use max-width (should be converted to min-width):")
		m.blank()
		for _, mq := range r.DesktopFirst {
			m.addf("- **%s:%d**", mq.File, mq.Line)
			m.addf("  - Query: `%s`", mq.Query)
			m.blank()
		}
	}

	m.add("## Co-Location Analysis")
	m.blank()
	if len(r.ColocationIssues) == 0 {
		m.add("✅ **All responsive styles are co-located with their base styles!**")
	} else {
		m.addf("⚠️ **Found %d components with scattered responsive styles:**", len(r.ColocationIssues))
		m.blank()
		for _, issue := range r.ColocationIssues {
			base := issue.BaseFile
			if base == "" {
				base = "Not found"
			}
			m.addf("### Component: %s", issue.Component)
			m.blank()
			m.addf("- **Base styles:** %s", base)
			m.add("- **Media queries in:**")
			for _, f := range issue.MediaQueryFiles {
				m.add("  - " + f)
			}
			m.blank()
		}
	}
	m.blank()

	m.add("## All Media Queries")
	m.blank()
	var files []string
	byFile := make(map[string][]MediaQuery)
	for _, mq := range r.MediaQueries {
		if _, ok := byFile[mq.File]; !ok {
			files = append(files, mq.File)
		}
		byFile[mq.File] = append(byFile[mq.File], mq)
	}
	for _, file := range files {
		m.add("### " + file)
		m.blank()
		for _, mq := range byFile[file] {
			kind := "❓ other"
			if mq.IsMinWidth {
				kind = "📱 min-width"
			} else if mq.IsMaxWidth {
				kind = "🖥️ max-width"
			}
			mark := "⚠️"
			if r.IsConsistent(mq) {
				mark = "✅"
			}
			m.addf("- Line %d: %s %s", mq.Line, kind, mark)
			m.addf("  - `%s`", mq.Query)
		}
		m.blank()
	}

	m.add("## Recommendations")
	m.blank()
	if len(r.Inconsistent) > 0 {
		m.addf("1. **Update inconsistent breakpoints** to use tokens from `%s`", breakpointsFile)
	}
	if len(r.DesktopFirst) > 0 {
		m.add("2. **Convert max-width queries to min-width** for mobile-first approach")
	}
	if len(r.ColocationIssues) > 0 {
		m.add("3. **Move scattered responsive styles** to component base files")
	}
	if !r.HasIssues() {
		m.add("✅ **No issues found! All media queries follow best practices.**")
	}

	return m.writeTo(w)
}

// WriteInlineStylesReport renders the inline-styles audit as Markdown
func WriteInlineStylesReport(w io.Writer, r *InlineStyleAuditResult, generated time.Time) error {
	var m markdown
	m.header("Inline Styles Audit Report", generated)

	m.add("## Summary")
	m.blank()
	m.addf("- **Total TSX/JSX Files Scanned:** %d", r.TotalFiles)
	m.addf("- **Files with Inline Styles:** %d", r.FilesWithInlineStyles)
	m.addf("- **Total Inline Style Attributes:** %d", r.TotalInlineStyles)
	m.addf("- **Static Styles (hardcoded values):** %d (%.1f%%)", r.StaticStyles, share(r.StaticStyles, r.TotalInlineStyles))
	m.addf("- **Dynamic Styles (computed values):** %d (%.1f%%)", r.DynamicStyles, share(r.DynamicStyles, r.TotalInlineStyles))
	m.addf("- **Mixed Styles:** %d (%.1f%%)", r.MixedStyles, share(r.MixedStyles, r.TotalInlineStyles))
	m.blank()

	m.add("## Baseline Count")
	m.blank()
	m.addf("**%d** inline style attributes found across %d files.", r.TotalInlineStyles, r.FilesWithInlineStyles)
	m.blank()
	m.add("This baseline is used to measure the 90% reduction target.")
	m.blank()

	m.add("## By File")
	m.blank()
	for _, fc := range r.ByFile {
		m.addf("- **%s**: %d inline styles", fc.File, fc.Count)
	}
	m.blank()

	m.add("## By Type")
	m.blank()
	m.addf("- **Pure Static:** %d (should be converted to CSS classes)", r.StaticStyles)
	m.addf("- **Pure Dynamic:** %d (should use CSS custom properties)", r.DynamicStyles)
	m.addf("- **Mixed (static + dynamic):** %d (requires case-by-case analysis)", r.MixedStyles)
	m.blank()

	m.add("## Detailed Occurrences")
	m.blank()
	current := ""
	for _, occ := range r.Occurrences {
		if occ.File != current {
			current = occ.File
			m.add("### " + occ.File)
			m.blank()
		}
		content := occ.StyleContent
		if occ.Truncated {
			content += "..."
		}
		m.addf("**Line %d** [%s]", occ.Line, strings.ToUpper(string(occ.Kind)))
		m.add("```tsx")
		m.addf("style={%s}", content)
		m.add("```")
		m.addf("Properties: %s", strings.Join(occ.Properties, ", "))
		m.blank()
	}

	m.add("## Recommendations")
	m.blank()
	m.add("### Static Styles")
	m.add("Convert static inline styles to CSS classes:")
	m.add("- Extract hardcoded values to appropriate CSS files")
	m.add("- Replace `style={{...}}` with `className=\"...\"`")
	m.add("- Use existing component CSS files or create new ones as needed")
	m.blank()
	m.add("### Dynamic Styles")
	m.add("Convert dynamic inline styles to CSS custom properties:")
	m.add("- Define CSS rules using custom properties: `animation-delay: var(--delay)`")
	m.add("- Set custom properties via inline styles: `style={{ \"--delay\": `${index * 100}ms` }}`")
	m.add("- This maintains dynamic behavior while centralizing styling logic")

	return m.writeTo(w)
}

// WriteMetricsReport renders a metrics run, optionally against a baseline
func WriteMetricsReport(w io.Writer, current PerformanceMetrics, baseline *BaselineMetrics) error {
	var m markdown
	m.add("# CSS Metrics Report")
	m.blank()
	m.addf("Generated: %s", time.UnixMilli(current.Timestamp).UTC().Format(time.RFC3339))
	m.blank()

	m.add("## Bundle Size")
	m.blank()
	m.addf("- Total Size: %s", FormatBytes(current.BundleSize.TotalSize))
	m.addf("- Gzipped Size: %s", FormatBytes(current.BundleSize.GzippedSize))
	if current.BundleSize.MinifiedSize > 0 {
		m.addf("- Minified Size: %s", FormatBytes(current.BundleSize.MinifiedSize))
	}
	m.addf("- File Count: %d", current.BundleSize.FileCount)
	m.blank()

	if current.CSSParsingTime != 0 {
		m.add("## Performance")
		m.blank()
		m.addf("- CSS Parsing Time: %.2fms", current.CSSParsingTime)
		m.blank()
	}

	if baseline != nil {
		cmp := CompareMetrics(current, *baseline)
		m.add("## Comparison with Baseline")
		m.blank()
		m.addf("- Baseline: %s (%s)", baseline.Version, baseline.Description)
		m.addf("- Bundle Size Reduction: %s (%.2f%%)", FormatBytes(cmp.BundleSizeReduction), cmp.BundleSizeReductionPercent)
		m.addf("- Gzipped Size Reduction: %s (%.2f%%)", FormatBytes(cmp.GzippedSizeReduction), cmp.GzippedSizeReductionPercent)
		if cmp.HasParsingTime {
			m.addf("- Parsing Time Change: %.2fms (%.2f%%)", cmp.ParsingTimeChange, cmp.ParsingTimeChangePercent)
		}
		if n := len(cmp.ChangedFiles) + len(cmp.AddedFiles) + len(cmp.RemovedFiles); n > 0 {
			m.addf("- Files Changed: %d changed, %d added, %d removed", len(cmp.ChangedFiles), len(cmp.AddedFiles), len(cmp.RemovedFiles))
		}
		m.blank()
	}

	m.add("## Files")
	m.blank()
	for _, f := range current.BundleSize.Files {
		m.add("- " + f.Path)
		m.addf("  - Size: %s", FormatBytes(f.Size))
		m.addf("  - Gzipped: %s", FormatBytes(f.GzippedSize))
	}

	return m.writeTo(w)
}

func share(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// lastSegments keeps the last n segments of a slash path
func lastSegments(p string, n int) string {
	parts := strings.Split(p, "/")
	if len(parts) <= n {
		return p
	}
	return strings.Join(parts[len(parts)-n:], "/")
}

func escapeTableCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
