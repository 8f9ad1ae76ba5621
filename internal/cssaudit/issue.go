package cssaudit

// Issue is a single gate violation in golangci-lint format
type Issue struct {
	FromLinter  string   `json:"FromLinter"`  // "undeclared-token"
	Text        string   `json:"Text"`        // "undeclared token --color-x used by color"
	Severity    string   `json:"Severity"`    // "", "warning", "error"
	SourceLines []string `json:"SourceLines"` // Offending source line, when known
	Pos         IssuePos `json:"Pos"`         // File location
}

// IssuePos specifies the exact location of an issue
type IssuePos struct {
	Filename string `json:"Filename"` // "features/configurator.css"
	Line     int    `json:"Line"`     // 35
	Column   int    `json:"Column"`   // 1-based
}

// Issue severities
const (
	IssueSeverityError   = "error"
	IssueSeverityWarning = "warning"
	IssueSeverityInfo    = ""
)

// Linter names, one per gate
const (
	LinterDuplicateToken  = "duplicate-token"
	LinterUndeclaredToken = "undeclared-token"
	LinterSelectorLeakage = "selector-leakage"
)

// Issue message formats
const (
	IssueDuplicateToken  = "duplicate token %s in scope %s (first declared at line %d)"
	IssueUndeclaredToken = "undeclared token %s used by %s"
	IssueSelectorLeakage = "unscoped selector %q leaks out of the feature"
)

// LimitIssues applies the max-issues-per-linter and max-same-issues
// constraints (0 = unlimited) and returns the kept issues with the number
// dropped. Input order is preserved.
func LimitIssues(issues []Issue, maxPerLinter, maxSame int) ([]Issue, int) {
	if maxPerLinter <= 0 && maxSame <= 0 {
		return issues, 0
	}

	perLinter := make(map[string]int)
	sameText := make(map[string]int)
	kept := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		if maxPerLinter > 0 && perLinter[issue.FromLinter] >= maxPerLinter {
			continue
		}
		if maxSame > 0 && sameText[issue.Text] >= maxSame {
			continue
		}
		perLinter[issue.FromLinter]++
		sameText[issue.Text]++
		kept = append(kept, issue)
	}
	return kept, len(issues) - len(kept)
}
