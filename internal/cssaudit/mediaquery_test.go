package cssaudit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mediaFixture(t *testing.T) []*Stylesheet {
	t.Helper()
	return parseTree(t, map[string]string{
		"tokens/spacing.css":         ":root {\n  --breakpoint-md: 768px;\n  --breakpoint-lg: 1024px;\n  --space-1: 4px;\n}",
		"components/navigation.css":  ".navigation { display: flex; }",
		"components/overrides.css":   "@media (min-width: 768px) {\n  .navigation { display: block; }\n}",
		"components/card.css":        ".card { padding: 1rem; }\n@media (max-width: 600px) {\n  .card { padding: 0; }\n}",
		"components/card.module.css": "@media (min-width: 1px) { .x { color: red; } }",
	})
}

func TestAuditMediaQueries(t *testing.T) {
	result := AuditMediaQueries(mediaFixture(t), MediaQueryOptions{})

	assert.Equal(t, 4, result.FileCount, "CSS modules are skipped")
	assert.Equal(t, 2, result.TotalMediaQueries)
	assert.Equal(t, []BreakpointToken{
		{Name: "--breakpoint-md", Value: "768px"},
		{Name: "--breakpoint-lg", Value: "1024px"},
	}, result.BreakpointTokens)

	require.Len(t, result.Consistent, 1)
	assert.Equal(t, "components/overrides.css", result.Consistent[0].File)
	require.Len(t, result.Inconsistent, 1)
	assert.Equal(t, "600px", result.Inconsistent[0].Breakpoint)

	require.Len(t, result.MobileFirst, 1)
	assert.True(t, result.MobileFirst[0].IsMinWidth)
	require.Len(t, result.DesktopFirst, 1)
	assert.Equal(t, "components/card.css", result.DesktopFirst[0].File)
	assert.Equal(t, 2, result.DesktopFirst[0].Line)
	assert.Equal(t, "card", result.DesktopFirst[0].Component)
	assert.True(t, result.DesktopFirst[0].HasBaseStyles)

	assert.True(t, result.HasIssues())
}

func TestAuditMediaQueries_Colocation(t *testing.T) {
	result := AuditMediaQueries(mediaFixture(t), MediaQueryOptions{})

	require.Len(t, result.ColocationIssues, 1)
	issue := result.ColocationIssues[0]
	assert.Equal(t, "navigation", issue.Component)
	assert.Equal(t, "components/navigation.css", issue.BaseFile)
	assert.Equal(t, []string{"components/overrides.css"}, issue.MediaQueryFiles)
}

func TestAuditMediaQueries_ScatteredMediaBlocks(t *testing.T) {
	sheets := parseTree(t, map[string]string{
		"components/menu.css":   ".menu { display: flex; }\n@media (min-width: 768px) { .menu__item { flex: 1; } }",
		"sections/header.css":   "@media (min-width: 1024px) { .menu--open { display: block; } }",
		"components/button.css": ".button { color: red; }\n@media (min-width: 768px) { .button-group { gap: 0; } }",
	})

	result := AuditMediaQueries(sheets, MediaQueryOptions{})
	require.Len(t, result.ColocationIssues, 1)
	assert.Equal(t, "menu", result.ColocationIssues[0].Component)
	assert.Equal(t, []string{"components/menu.css", "sections/header.css"}, result.ColocationIssues[0].MediaQueryFiles)
}

func TestAuditMediaQueries_MissingBreakpointFile(t *testing.T) {
	result := AuditMediaQueries(mediaFixture(t), MediaQueryOptions{BreakpointsFile: "tokens/missing.css"})

	assert.Empty(t, result.BreakpointTokens)
	assert.Empty(t, result.Consistent)
	assert.Len(t, result.Inconsistent, 2)
}

func TestBreakpointOf(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"(min-width: 768px)", "768px"},
		{"screen and (max-width:1024px)", "1024px"},
		{"(min-width: 48em) and (max-width: 64em)", "48em"},
		{"print", ""},
		{"(prefers-reduced-motion: reduce)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, breakpointOf(tt.query))
		})
	}
}

func TestComponentName(t *testing.T) {
	assert.Equal(t, "navigation", componentName("components/navigation.css"))
	assert.Equal(t, "hero", componentName("sections/hero.css"))
	assert.Equal(t, "", componentName("utilities/spacing.css"))
	assert.Equal(t, "", componentName("components/nested/deep.css"))
	assert.Equal(t, "deep", componentName("src/styles/layout/deep.css"))
}
