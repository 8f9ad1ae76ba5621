package cssaudit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditImportant_UtilityOverride(t *testing.T) {
	sheets := parseTree(t, map[string]string{
		"utilities/reset.css": ".a.b.c.d{margin:0!important}",
	})

	specificity := AuditSpecificity(sheets, SpecificityOptions{})
	assert.Empty(t, specificity.Violations)

	declarations := AuditImportant(sheets, ImportantOptions{})
	require.Len(t, declarations, 1)

	d := declarations[0]
	assert.Equal(t, "utilities/reset.css", d.File)
	assert.Equal(t, ".a.b.c.d", d.Selector)
	assert.Equal(t, "margin", d.Property)
	assert.Equal(t, "0", d.Value)
	assert.Equal(t, ReasonUtilityOverride, d.Reason)
	assert.True(t, d.InUtilities)
	assert.True(t, d.Acceptable())
}

func TestAuditImportant_NestedUtilitiesDir(t *testing.T) {
	sheets := parseTree(t, map[string]string{
		"components/utilities/x.css": ".x { margin: 0 !important; }",
		"helpers/x.css":              ".y { margin: 0 !important; }",
	})

	declarations := AuditImportant(sheets, ImportantOptions{})
	require.Len(t, declarations, 2)

	nested := declarations[0]
	assert.Equal(t, "components/utilities/x.css", nested.File)
	assert.Equal(t, ReasonUtilityOverride, nested.Reason)
	assert.False(t, nested.InUtilities)
	assert.False(t, nested.Acceptable())

	custom := AuditImportant(sheets, ImportantOptions{UtilitiesDir: "helpers"})
	require.Len(t, custom, 2)
	assert.False(t, custom[0].Acceptable())
	assert.True(t, custom[1].InUtilities)
	assert.True(t, custom[1].Acceptable())
}

func TestAuditImportant_Reasons(t *testing.T) {
	sheets := parseTree(t, map[string]string{
		"components/mixed.css": `.sr-only { position: absolute !important; }
.sr-only { color: red !important; }
@media (prefers-reduced-motion: reduce) {
  .anim { animation: none !important; }
}
.btn { color: red !important; }
.card .title { color: red !important; }
ul li { color: red !important; }
`,
	})

	declarations := AuditImportant(sheets, ImportantOptions{})
	require.Len(t, declarations, 6)

	tests := []struct {
		selector   string
		reason     string
		media      string
		acceptable bool
	}{
		{".sr-only", ReasonAccessibility, "", true},
		{".sr-only", ReasonPossibleUtility, "", false},
		{".anim", ReasonReducedMotion, "(prefers-reduced-motion: reduce)", true},
		{".btn", ReasonPossibleUtility, "", false},
		{".card .title", ReasonSpecificityConflict, "", false},
		{"ul li", ReasonUnknown, "", false},
	}

	for i, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			d := declarations[i]
			assert.Equal(t, tt.selector, d.Selector)
			assert.Equal(t, tt.reason, d.Reason)
			assert.Equal(t, tt.media, d.MediaQuery)
			assert.Equal(t, tt.acceptable, d.Acceptable())
		})
	}
}

func TestAuditImportant_Dedup(t *testing.T) {
	sheets := parseTree(t, map[string]string{
		"sections/hero.css": ".hero { color: red !important; color: blue !important; margin: 0 !important; }",
	})

	declarations := AuditImportant(sheets, ImportantOptions{})
	require.Len(t, declarations, 2)
	assert.Equal(t, "red", declarations[0].Value)
	assert.Equal(t, "margin", declarations[1].Property)
}

func TestAuditImportant_NestedMedia(t *testing.T) {
	sheets := parseTree(t, map[string]string{
		"layout/grid.css": `@media screen {
  @supports (display: grid) {
    @media (min-width: 768px) {
      .grid { display: grid !important; }
    }
  }
}`,
	})

	declarations := AuditImportant(sheets, ImportantOptions{})
	require.Len(t, declarations, 1)
	assert.Equal(t, "screen", declarations[0].MediaQuery)
	assert.Equal(t, 4, declarations[0].Line)
}

func TestGroupByCategory(t *testing.T) {
	declarations := []ImportantDeclaration{
		{File: "components/a.css"},
		{File: "utilities/u.css"},
		{File: "components/b.css"},
		{File: "index.css"},
	}

	groups := GroupByCategory(declarations)
	require.Len(t, groups, 3)
	assert.Equal(t, "components", groups[0].Category)
	assert.Len(t, groups[0].Declarations, 2)
	assert.Equal(t, "utilities", groups[1].Category)
	assert.Equal(t, "other", groups[2].Category)
}
