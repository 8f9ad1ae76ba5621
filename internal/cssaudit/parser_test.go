package cssaudit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	root, err := Parse("app.css", `/* header */
.card > .card__title,
.card  .card__body {
  color: var(--color-text);
  margin: 0 !important;
}

@media (min-width: 768px) {
  .card { padding: var( --space-4 ); }
}
`)
	require.NoError(t, err)
	require.Len(t, root.Children, 2)

	rule := root.Children[0]
	assert.Equal(t, NodeRule, rule.Kind)
	assert.Equal(t, 2, rule.Line)
	assert.Equal(t, ".card>.card__title,.card .card__body", rule.Prelude)
	assert.Equal(t, []string{".card>.card__title", ".card .card__body"}, rule.Selectors)
	require.Len(t, rule.Children, 2)

	color := rule.Children[0]
	assert.Equal(t, "color", color.Name)
	assert.Equal(t, "var(--color-text)", color.Value)
	assert.Equal(t, []string{"--color-text"}, color.Vars)
	assert.Equal(t, 4, color.Line)
	assert.False(t, color.Important)

	margin := rule.Children[1]
	assert.Equal(t, "0", margin.Value)
	assert.True(t, margin.Important)
	assert.Equal(t, 5, margin.Line)

	media := root.Children[1]
	assert.Equal(t, NodeAtRule, media.Kind)
	assert.Equal(t, "media", media.Name)
	assert.Equal(t, "(min-width: 768px)", media.Prelude)
	assert.Equal(t, 8, media.Line)
	require.Len(t, media.Children, 1)
	assert.Equal(t, []string{"--space-4"}, media.Children[0].Children[0].Vars)
}

func TestParseCustomProperties(t *testing.T) {
	root, err := Parse("tokens.css", `:root {
  --Color-Primary: #fff;
  --shadow: 0 1px var(--shadow-color), 0 2px var(--shadow-color);
  COLOR: Red;
}`)
	require.NoError(t, err)

	decls := root.Children[0].Children
	require.Len(t, decls, 3)
	assert.True(t, decls[0].IsCustomProperty())
	assert.Equal(t, "--Color-Primary", decls[0].Name, "custom property names keep their case")
	assert.Equal(t, []string{"--shadow-color", "--shadow-color"}, decls[1].Vars)
	assert.False(t, decls[2].IsCustomProperty())
	assert.Equal(t, "color", decls[2].Name)
}

func TestParseStatementAtRules(t *testing.T) {
	root, err := Parse("index.css", `@import url("base.css");
@charset "utf-8";
.a { color: red }`)
	require.NoError(t, err)
	require.Len(t, root.Children, 3)
	assert.Equal(t, "import", root.Children[0].Name)
	assert.Nil(t, root.Children[0].Children)
	assert.Equal(t, "charset", root.Children[1].Name)
	assert.Equal(t, NodeRule, root.Children[2].Kind)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
		msg     string
	}{
		{
			name:    "unclosed block",
			content: ".a {\n  color: red;\n",
			line:    1,
			msg:     "unclosed block, missing '}'",
		},
		{
			name:    "stray closing brace",
			content: ".a { color: red; }\n}",
			line:    2,
			msg:     "unexpected '}'",
		},
		{
			name:    "missing selector",
			content: "\n{ color: red; }",
			line:    2,
			msg:     "missing selector before '{'",
		},
		{
			name:    "declaration at top level",
			content: "color: red;",
			line:    1,
			msg:     `expected '{' after "color: red"`,
		},
		{
			name:    "missing colon",
			content: ".a {\n  color red;\n}",
			line:    2,
			msg:     `expected ':' after property "color"`,
		},
		{
			name:    "unterminated string",
			content: ".a {\n  content: \"oops\n}",
			line:    2,
			msg:     "unterminated string",
		},
		{
			name:    "unterminated comment",
			content: ".a { color: red; }\n/* never closed",
			line:    2,
			msg:     "unterminated comment",
		},
		{
			name:    "unclosed function",
			content: ".a {\n  width: calc(100% - 2px;\n}",
			line:    2,
			msg:     `unclosed "calc("`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("broken.css", tt.content)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, "broken.css", parseErr.File)
			assert.Equal(t, tt.line, parseErr.Line)
			assert.Equal(t, tt.msg, parseErr.Msg)
		})
	}
}

func TestNormalizeSelector(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{".a  >  .b", ".a>.b"},
		{".a +\n.b ~ .c", ".a+.b~.c"},
		{".a , .b", ".a,.b"},
		{".a   .b", ".a .b"},
		{`[title="a > b"]`, `[title="a > b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeSelector(tt.in))
		})
	}
}

func TestSplitSelectorList(t *testing.T) {
	assert.Equal(t, []string{".a", ".b:is(.c,.d)", `[x=","]`}, splitSelectorList(`.a,.b:is(.c,.d),[x=","]`))
	assert.Nil(t, splitSelectorList(""))
}
