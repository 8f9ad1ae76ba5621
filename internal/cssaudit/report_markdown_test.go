package cssaudit

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestWriteSpecificityReport(t *testing.T) {
	sheets := parseTree(t, map[string]string{
		"layout/header.css": "#header{position:fixed}\n.ok{color:red}",
	})
	result := AuditSpecificity(sheets, SpecificityOptions{})

	var first, second bytes.Buffer
	require.NoError(t, WriteSpecificityReport(&first, result, reportTime))
	require.NoError(t, WriteSpecificityReport(&second, result, reportTime))
	assert.Equal(t, first.String(), second.String())

	out := first.String()
	assert.True(t, strings.HasPrefix(out, "# CSS Specificity Audit Report\n\n**Generated:** 2024-03-01T12:00:00Z\n"))
	assert.Contains(t, out, "- **Total Selectors Audited:** 2\n")
	assert.Contains(t, out, "- **Compliant Selectors:** 1 (50.0%)\n")
	assert.Contains(t, out, "❌ **Significant specificity violations detected - refactoring required**")
	assert.Contains(t, out, "## High Severity Violations\n")
	assert.Contains(t, out, "### #header\n\n- **File:** `layout/header.css`\n- **Line:** 1\n- **Specificity:** (0,1,0,0)\n")
	assert.Contains(t, out, "| `#header` | layout/header.css | 1 | (0,1,0,0) | high | Replace ID selectors with class selectors |")
	assert.NotContains(t, out, "## Medium Severity Violations")
	assert.Contains(t, out, "6. Re-run audit to verify compliance\n")
}

func TestWriteSpecificityReport_Compliant(t *testing.T) {
	result := AuditSpecificity(parseTree(t, map[string]string{"a.css": ".button{color:red}"}), SpecificityOptions{})

	var buf bytes.Buffer
	require.NoError(t, WriteSpecificityReport(&buf, result, reportTime))
	assert.Contains(t, buf.String(), "✅ **All selectors comply with maximum specificity (0,0,2,0)**")
	assert.NotContains(t, buf.String(), "## Detailed Violations Table")
	assert.NotContains(t, buf.String(), "## General Recommendations")
}

func TestWriteImportantReport(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		contains []string
	}{
		{
			name:  "no declarations",
			files: map[string]string{"a.css": ".a { color: red; }"},
			contains: []string{
				"**Total !important declarations found:** 0",
				"✅ No !important declarations found!",
			},
		},
		{
			name:  "utilities only",
			files: map[string]string{"utilities/reset.css": ".a.b.c.d{margin:0!important}"},
			contains: []string{
				"- **utilities**: 1 declaration(s)",
				"### utilities/ (1 declaration(s))",
				"#### 1. utilities/reset.css:1",
				"- **Property:** `margin: 0 !important`",
				"- **Action Required:** ✅ Acceptable (utility class)",
				"✅ All !important declarations are in acceptable locations (utilities/ or accessibility)",
			},
		},
		{
			name:  "utilities below another directory",
			files: map[string]string{"components/utilities/x.css": ".x { margin: 0 !important; }"},
			contains: []string{
				"- **Reason:** Utility class override",
				"- **Action Required:** ❌ Must be removed - resolve specificity conflict",
				"### Priority: Remove 1 !important declaration(s)",
			},
		},
		{
			name: "needs removal",
			files: map[string]string{
				"sections/hero.css": "@media (min-width: 768px) {\n  .hero .title { color: red !important; }\n}",
			},
			contains: []string{
				"- **Media Query:** `@media (min-width: 768px)`",
				"- **Reason:** Specificity conflict - needs resolution",
				"- **Action Required:** ❌ Must be removed - resolve specificity conflict",
				"### Priority: Remove 1 !important declaration(s)",
				"2. **sections/**: 1 declaration(s) - Resolve specificity conflicts by:\n   - Adjusting cascade order in index.css\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			declarations := AuditImportant(parseTree(t, tt.files), ImportantOptions{})

			var buf bytes.Buffer
			require.NoError(t, WriteImportantReport(&buf, declarations, reportTime))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestWriteMediaQueryReport(t *testing.T) {
	result := AuditMediaQueries(mediaFixture(t), MediaQueryOptions{})

	var first, second bytes.Buffer
	require.NoError(t, WriteMediaQueryReport(&first, result, "tokens/spacing.css", reportTime))
	require.NoError(t, WriteMediaQueryReport(&second, result, "tokens/spacing.css", reportTime))
	assert.Equal(t, first.String(), second.String())

	out := first.String()
	assert.Contains(t, out, "- **Total Media Queries:** 2")
	assert.Contains(t, out, "- `--breakpoint-md`: 768px")
	assert.Contains(t, out, "**Consistent with tokens:** 1 / 2")
	assert.Contains(t, out, "- **components/card.css:2**\n  - Query: `(max-width: 600px)`\n  - Breakpoint: `600px`")
	assert.Contains(t, out, "⚠️ **Found 1 components with scattered responsive styles:**")
	assert.Contains(t, out, "### Component: navigation\n\n- **Base styles:** components/navigation.css\n- **Media queries in:**\n  - components/overrides.css")
	assert.Contains(t, out, "- Line 1: 📱 min-width ✅")
	assert.Contains(t, out, "- Line 2: 🖥️ max-width ⚠️")
	assert.Contains(t, out, "1. **Update inconsistent breakpoints** to use tokens from `tokens/spacing.css`")
	assert.NotContains(t, out, "No issues found")
}

func TestWriteMediaQueryReport_Clean(t *testing.T) {
	sheets := parseTree(t, map[string]string{
		"tokens/spacing.css":  ":root { --breakpoint-md: 768px; }",
		"components/card.css": ".card { padding: 0; }\n@media (min-width: 768px) { .card { padding: 1rem; } }",
	})
	result := AuditMediaQueries(sheets, MediaQueryOptions{})
	require.False(t, result.HasIssues())

	var buf bytes.Buffer
	require.NoError(t, WriteMediaQueryReport(&buf, result, "tokens/spacing.css", reportTime))
	assert.Contains(t, buf.String(), "✅ **All responsive styles are co-located with their base styles!**")
	assert.Contains(t, buf.String(), "✅ **No issues found! All media queries follow best practices.**")
}

func TestWriteInlineStylesReport(t *testing.T) {
	result := &InlineStyleAuditResult{
		TotalFiles:            2,
		FilesWithInlineStyles: 1,
		TotalInlineStyles:     2,
		StaticStyles:          1,
		MixedStyles:           1,
		Occurrences: []InlineStyleOccurrence{
			{File: "components/Card.tsx", Line: 3, StyleContent: "{ color: 'red'", Kind: StyleStatic, Properties: []string{"color"}},
			{File: "components/Card.tsx", Line: 9, StyleContent: "{ a: 1", Truncated: true, Kind: StyleMixed, Properties: []string{"a"}},
		},
		ByFile: []FileCount{{File: "components/Card.tsx", Count: 2}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInlineStylesReport(&buf, result, reportTime))
	out := buf.String()
	assert.Contains(t, out, "- **Static Styles (hardcoded values):** 1 (50.0%)")
	assert.Contains(t, out, "- **Dynamic Styles (computed values):** 0 (0.0%)")
	assert.Contains(t, out, "- **components/Card.tsx**: 2 inline styles")
	assert.Equal(t, 1, strings.Count(out, "### components/Card.tsx"))
	assert.Contains(t, out, "**Line 3** [STATIC]\n```tsx\nstyle={{ color: 'red'}\n```\nProperties: color")
	assert.Contains(t, out, "**Line 9** [MIXED]\n```tsx\nstyle={{ a: 1...}")
	assert.Contains(t, out, "This baseline is used to measure the 90% reduction target.")
}

func TestMarkdownLines(t *testing.T) {
	var m markdown
	m.add("width: 100%")
	m.add("### " + ".w-50%d")
	m.addf("- **Line:** %d (%.1f%%)", 7, 12.5)

	var buf bytes.Buffer
	require.NoError(t, m.writeTo(&buf))
	assert.Equal(t, "width: 100%\n### .w-50%d\n- **Line:** 7 (12.5%)\n", buf.String())
}

func TestWriteInlineStylesReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInlineStylesReport(&buf, &InlineStyleAuditResult{}, reportTime))
	assert.Contains(t, buf.String(), "- **Static Styles (hardcoded values):** 0 (0.0%)")
	assert.NotContains(t, buf.String(), "NaN")
}

func TestLastSegments(t *testing.T) {
	assert.Equal(t, "components/card.css", lastSegments("src/styles/components/card.css", 2))
	assert.Equal(t, "card.css", lastSegments("card.css", 2))
}
