package cssaudit

import "fmt"

// Stylesheet is one parsed CSS file together with the facts extracted from it.
// It is built once by the parser and never mutated afterwards.
type Stylesheet struct {
	Path         string               // Path as given to the parser
	Rel          string               // Slash path relative to the styles root ("" when parsed standalone)
	Content      string               // Raw file contents
	Root         *Node                // Syntax tree
	LineCount    int                  // Number of lines in Content
	Selectors    []SelectorOccurrence // One entry per selector of every rule (keyframe steps excluded)
	Tokens       []TokenDefinition    // Custom property declarations
	References   []TokenReference     // var(--name) usages
	MediaQueries []MediaBlock         // @media at-rules at any depth
}

// Name is the identifier used for the file in findings and reports
func (s *Stylesheet) Name() string {
	if s.Rel != "" {
		return s.Rel
	}
	return toSlash(s.Path)
}

// Specificity is the (inline, ids, classes, elements) tuple of a selector
type Specificity struct {
	Inline   int `json:"inline"`
	IDs      int `json:"ids"`
	Classes  int `json:"classes"`
	Elements int `json:"elements"`
}

// ExceedsBudget reports whether the selector is over the architecture budget:
// no inline styles, no ids and at most two class-level components
func (s Specificity) ExceedsBudget() bool {
	return s.Inline > 0 || s.IDs > 0 || s.Classes > 2
}

func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", s.Inline, s.IDs, s.Classes, s.Elements)
}

// SelectorOccurrence is one selector of a rule
type SelectorOccurrence struct {
	Selector     string      `json:"selector"`
	File         string      `json:"file"`
	Line         int         `json:"line"`
	Specificity  Specificity `json:"specificity"`
	HasImportant bool        `json:"hasImportant"` // Rule body contains an !important declaration
}

// TokenDefinition is a custom property declaration
type TokenDefinition struct {
	Name  string `json:"name"`  // "--color-primary"
	Value string `json:"value"` // Raw value text
	File  string `json:"file"`
	Line  int    `json:"line"`
	Scope string `json:"scope"` // Selector list of the enclosing rule (":root")
}

// TokenReference is a var(--name) usage inside a declaration value
type TokenReference struct {
	TokenName string `json:"tokenName"`
	File      string `json:"file"`
	Line      int    `json:"line"`
	Property  string `json:"property"` // Declaring property
}

// MediaBlock is an @media at-rule as found by the parser
type MediaBlock struct {
	Line      int
	Query     string   // Prelude text, "(min-width: 768px)"
	Selectors []string // Selectors of all rules nested inside the block
}

// MediaQuery is an @media occurrence annotated for the media-query audit
type MediaQuery struct {
	File          string   `json:"file"`
	Line          int      `json:"line"`
	Query         string   `json:"query"`
	Breakpoint    string   `json:"breakpoint,omitempty"` // First min/max-width value, "" when none
	IsMinWidth    bool     `json:"isMinWidth"`
	IsMaxWidth    bool     `json:"isMaxWidth"`
	Component     string   `json:"component,omitempty"` // From the file path, "" when not a component file
	HasBaseStyles bool     `json:"hasBaseStyles"`       // File declares a ".component {" rule
	Selectors     []string `json:"selectors,omitempty"`
}

// DuplicateToken is a custom property defined more than once in the same
// file and selector scope
type DuplicateToken struct {
	Token string `json:"token"`
	File  string `json:"file"`
	Scope string `json:"scope"`
	Lines []int  `json:"lines"`
}

// SelectorLeakage is an unscoped generic selector in a feature stylesheet
type SelectorLeakage struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Selector string `json:"selector"` // Trimmed source line
}

// OutputFormat selects how a command renders its result
type OutputFormat string

const (
	// OutputText prints the plain pass/fail summary (default for gates)
	OutputText OutputFormat = "text"
	// OutputMarkdown writes the Markdown report (default for audits)
	OutputMarkdown OutputFormat = "markdown"
	// OutputJSON prints the result struct as indented JSON
	OutputJSON OutputFormat = "json"
	// OutputIssues prints findings in file:line:col compiler style (gates only)
	OutputIssues OutputFormat = "issues"
)
