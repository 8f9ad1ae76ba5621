package cssaudit

import "strings"

// Reasons attached to !important declarations
const (
	ReasonUtilityOverride     = "Utility class override"
	ReasonAccessibility       = "Accessibility requirement"
	ReasonReducedMotion       = "Accessibility requirement (reduced motion)"
	ReasonPossibleUtility     = "Possible utility class"
	ReasonSpecificityConflict = "Specificity conflict - needs resolution"
	ReasonUnknown             = "Unknown - requires investigation"
)

// ImportantDeclaration is one !important declaration with its context
type ImportantDeclaration struct {
	File        string `json:"file"`
	Line        int    `json:"line"`
	Selector    string `json:"selector"` // Full selector list of the rule
	Property    string `json:"property"`
	Value       string `json:"value"`
	Reason      string `json:"reason"`
	MediaQuery  string `json:"mediaQuery,omitempty"` // Outermost enclosing @media prelude
	InUtilities bool   `json:"inUtilities"`        // First directory is the utilities directory
}

// Acceptable reports whether the declaration may stay: declarations in the
// utilities directory and accessibility requirements
func (d ImportantDeclaration) Acceptable() bool {
	return d.InUtilities || strings.Contains(d.Reason, ReasonAccessibility)
}

// ImportantGroup is the set of declarations in one styles directory
type ImportantGroup struct {
	Category     string                 `json:"category"`
	Declarations []ImportantDeclaration `json:"declarations"`
}

// ImportantOptions configures AuditImportant
type ImportantOptions struct {
	UtilitiesDir string // Directory whose overrides are expected ("utilities")
}

// AuditImportant collects every !important declaration. Each (file, line,
// selector, property) is reported once.
func AuditImportant(files []*Stylesheet, opts ImportantOptions) []ImportantDeclaration {
	if opts.UtilitiesDir == "" {
		opts.UtilitiesDir = "utilities"
	}

	type key struct {
		file, selector, property string
		line                     int
	}
	seen := make(map[key]bool)
	declarations := []ImportantDeclaration{}

	for _, f := range files {
		file := f.Name()
		inUtilities := categoryOf(file) == opts.UtilitiesDir
		Walk(f.Root, func(n *Node, ancestors []*Node) bool {
			if n.Kind != NodeRule {
				return true
			}
			media := outermostMedia(ancestors)

			for _, child := range n.Children {
				if child.Kind != NodeDeclaration || !child.Important {
					continue
				}
				k := key{file: file, line: child.Line, selector: n.Prelude, property: child.Name}
				if seen[k] {
					continue
				}
				seen[k] = true

				declarations = append(declarations, ImportantDeclaration{
					File:        file,
					Line:        child.Line,
					Selector:    n.Prelude,
					Property:    child.Name,
					Value:       child.Value,
					Reason:      importantReason(file, child.Name, n.Prelude, media, opts.UtilitiesDir),
					MediaQuery:  media,
					InUtilities: inUtilities,
				})
			}
			return true
		})
	}

	return declarations
}

// importantReason classifies why a declaration probably needed !important.
// The first matching rule wins.
func importantReason(file, property, selector, media, utilitiesDir string) string {
	if hasDirSegment(file, utilitiesDir) {
		return ReasonUtilityOverride
	}

	if strings.Contains(selector, "sr-only") || strings.Contains(selector, "visually-hidden") {
		if property == "display" || property == "position" || property == "clip" {
			return ReasonAccessibility
		}
	}

	if strings.Contains(media, "prefers-reduced-motion") {
		return ReasonReducedMotion
	}

	if strings.HasPrefix(selector, ".") && !strings.Contains(selector, " ") {
		return ReasonPossibleUtility
	}

	if strings.Contains(selector, ".") && strings.Contains(selector, " ") {
		return ReasonSpecificityConflict
	}

	return ReasonUnknown
}

// GroupByCategory groups declarations by their first directory under the
// styles root, in order of first appearance
func GroupByCategory(declarations []ImportantDeclaration) []ImportantGroup {
	var groups []ImportantGroup
	index := make(map[string]int)

	for _, d := range declarations {
		category := categoryOf(d.File)
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, ImportantGroup{Category: category})
		}
		groups[i].Declarations = append(groups[i].Declarations, d)
	}

	return groups
}
