package cssaudit

import (
	"fmt"
	"os"
	"strings"
)

// ParseFile reads and parses a single stylesheet
func ParseFile(path string) (*Stylesheet, error) {
	// #nosec G304 - path comes from discovery or trusted configuration
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	sheet, err := ParseStylesheet(path, string(content))
	if err != nil {
		return nil, err
	}
	return sheet, nil
}

// ParseStylesheet parses content and extracts selectors, tokens, references
// and media blocks. name is used as the stylesheet path.
func ParseStylesheet(name, content string) (*Stylesheet, error) {
	root, err := Parse(name, content)
	if err != nil {
		return nil, err
	}

	sheet := &Stylesheet{
		Path:      name,
		Content:   content,
		Root:      root,
		LineCount: strings.Count(content, "\n") + 1,
	}
	sheet.extract()
	return sheet, nil
}

// ParseDir discovers and parses every stylesheet below root. The first parse
// error aborts the run.
func ParseDir(root string) ([]*Stylesheet, error) {
	paths, err := DiscoverStylesheets(root)
	if err != nil {
		return nil, err
	}

	sheets := make([]*Stylesheet, 0, len(paths))
	for _, p := range paths {
		sheet, err := ParseFile(p)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		sheet.Rel = relativeTo(root, p)
		sheet.rename()
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// extract fills the derived fact slices from the syntax tree
func (s *Stylesheet) extract() {
	file := s.Name()

	Walk(s.Root, func(n *Node, ancestors []*Node) bool {
		switch n.Kind {
		case NodeRule:
			if insideAtRule(ancestors, "keyframes", "-webkit-keyframes", "-moz-keyframes") {
				return true
			}
			important := hasImportant(n)
			for _, sel := range n.Selectors {
				s.Selectors = append(s.Selectors, SelectorOccurrence{
					Selector:     sel,
					File:         file,
					Line:         n.Line,
					Specificity:  CalculateSpecificity(sel),
					HasImportant: important,
				})
			}

		case NodeAtRule:
			if n.Name == "media" {
				s.MediaQueries = append(s.MediaQueries, MediaBlock{
					Line:      n.Line,
					Query:     n.Prelude,
					Selectors: nestedSelectors(n),
				})
			}

		case NodeDeclaration:
			if n.IsCustomProperty() {
				s.Tokens = append(s.Tokens, TokenDefinition{
					Name:  n.Name,
					Value: n.Value,
					File:  file,
					Line:  n.Line,
					Scope: scopeOf(ancestors),
				})
			}
			for _, ref := range n.Vars {
				s.References = append(s.References, TokenReference{
					TokenName: ref,
					File:      file,
					Line:      n.Line,
					Property:  n.Name,
				})
			}
		}
		return true
	})
}

// rename rewrites the file field of extracted facts after Rel is known
func (s *Stylesheet) rename() {
	file := s.Name()
	for i := range s.Selectors {
		s.Selectors[i].File = file
	}
	for i := range s.Tokens {
		s.Tokens[i].File = file
	}
	for i := range s.References {
		s.References[i].File = file
	}
}

// scopeOf is the selector list of the enclosing rule, or the at-rule name
// for declarations like @property and @font-face bodies
func scopeOf(ancestors []*Node) string {
	if rule := enclosingRule(ancestors); rule != nil {
		return rule.Prelude
	}
	if len(ancestors) > 0 {
		if parent := ancestors[len(ancestors)-1]; parent.Kind == NodeAtRule {
			return "@" + parent.Name
		}
	}
	return ""
}

// hasImportant reports whether any declaration in the rule body (nested
// rules included) is !important
func hasImportant(rule *Node) bool {
	found := false
	Walk(rule, func(n *Node, _ []*Node) bool {
		if found {
			return false
		}
		if n.Kind == NodeDeclaration && n.Important {
			found = true
		}
		return !found
	})
	return found
}

// nestedSelectors collects the selectors of every rule inside n
func nestedSelectors(n *Node) []string {
	var selectors []string
	Walk(n, func(child *Node, _ []*Node) bool {
		if child.Kind == NodeRule {
			selectors = append(selectors, child.Selectors...)
		}
		return true
	})
	return selectors
}
