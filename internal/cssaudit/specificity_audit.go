package cssaudit

import (
	"regexp"
	"sort"
	"strings"
)

// Severity ranks a specificity violation
type Severity string

// Severity levels, most severe first
const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

func (s Severity) rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// SpecificityViolation is a selector over the specificity budget
type SpecificityViolation struct {
	Selector       string      `json:"selector"`
	File           string      `json:"file"`
	Line           int         `json:"line"`
	Specificity    Specificity `json:"specificity"`
	Severity       Severity    `json:"severity"`
	Recommendation string      `json:"recommendation"`
}

// SpecificityAuditResult is the outcome of AuditSpecificity
type SpecificityAuditResult struct {
	TotalSelectors         int                    `json:"totalSelectors"` // Audited selectors (utilities excluded)
	ViolationCount         int                    `json:"violationCount"`
	ComplianceRate         float64                `json:"complianceRate"`
	Violations             []SpecificityViolation `json:"violations"`
	GeneralRecommendations []string               `json:"generalRecommendations"`
}

// SpecificityOptions configures AuditSpecificity
type SpecificityOptions struct {
	UtilitiesDir string // Directory whose selectors are exempt ("utilities")
}

var (
	compoundSelectorPattern = regexp.MustCompile(`(?i)[a-z]+\.[a-z]`)
)

// AuditSpecificity checks every selector outside the utilities directory
// against the specificity budget
func AuditSpecificity(files []*Stylesheet, opts SpecificityOptions) *SpecificityAuditResult {
	if opts.UtilitiesDir == "" {
		opts.UtilitiesDir = "utilities"
	}

	result := &SpecificityAuditResult{
		Violations: []SpecificityViolation{},
	}

	for _, f := range files {
		if hasDirSegment(f.Name(), opts.UtilitiesDir) {
			continue
		}
		for _, occ := range f.Selectors {
			result.TotalSelectors++
			if !occ.Specificity.ExceedsBudget() {
				continue
			}
			result.Violations = append(result.Violations, SpecificityViolation{
				Selector:       occ.Selector,
				File:           occ.File,
				Line:           occ.Line,
				Specificity:    occ.Specificity,
				Severity:       severityOf(occ.Specificity),
				Recommendation: recommendationFor(occ.Selector, occ.Specificity),
			})
		}
	}

	sort.SliceStable(result.Violations, func(i, j int) bool {
		a, b := result.Violations[i], result.Violations[j]
		if a.Severity != b.Severity {
			return a.Severity.rank() < b.Severity.rank()
		}
		return a.Specificity.Classes+a.Specificity.Elements > b.Specificity.Classes+b.Specificity.Elements
	})

	result.ViolationCount = len(result.Violations)
	result.ComplianceRate = 100
	if result.TotalSelectors > 0 {
		compliant := result.TotalSelectors - result.ViolationCount
		result.ComplianceRate = float64(compliant) / float64(result.TotalSelectors) * 100
	}
	result.GeneralRecommendations = generalRecommendations(result.Violations)

	return result
}

func severityOf(spec Specificity) Severity {
	switch {
	case spec.Inline > 0 || spec.IDs > 0:
		return SeverityHigh
	case spec.Classes > 3:
		return SeverityHigh
	case spec.Classes == 3:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// recommendationFor suggests how to bring a selector back under budget
func recommendationFor(selector string, spec Specificity) string {
	var recs []string

	if spec.IDs > 0 {
		recs = append(recs, "Replace ID selectors with class selectors")
	}
	if compoundSelectorPattern.MatchString(selector) {
		recs = append(recs, "Remove compound element-class selectors (e.g., nav.navbar → .navbar)")
	}
	if spec.Classes > 2 {
		recs = append(recs, "Reduce class chaining - use single class or BEM modifier instead")
	}
	if strings.Contains(selector, " ") && !strings.Contains(selector, ">") {
		recs = append(recs, "Consider using direct child selector (>) or single class with BEM naming")
	}
	if attributePattern.MatchString(selector) && !strings.Contains(selector, "[data-theme") {
		recs = append(recs, "Consider replacing attribute selectors with classes for better performance")
	}

	if len(recs) == 0 {
		return "Simplify selector structure or adjust cascade order in index.css"
	}
	return strings.Join(recs, "; ")
}

// generalRecommendations summarizes the patterns seen across all violations
func generalRecommendations(violations []SpecificityViolation) []string {
	var hasIDs, hasCompound, hasChaining, hasDeepNesting bool
	for _, v := range violations {
		if v.Specificity.IDs > 0 {
			hasIDs = true
		}
		if compoundSelectorPattern.MatchString(v.Selector) {
			hasCompound = true
		}
		if v.Specificity.Classes > 3 {
			hasChaining = true
		}
		if strings.Count(v.Selector, " ") > 2 {
			hasDeepNesting = true
		}
	}

	recs := []string{}
	if hasIDs {
		recs = append(recs, "Convert all ID selectors to class selectors for consistency")
	}
	if hasCompound {
		recs = append(recs, "Eliminate compound selectors (e.g., nav.navbar) - use single classes with BEM naming")
	}
	if hasChaining {
		recs = append(recs, "Reduce class chaining - prefer single class selectors with BEM modifiers")
	}
	if hasDeepNesting {
		recs = append(recs, "Flatten selector nesting - use BEM naming to avoid deep descendant selectors")
	}
	if len(violations) > 0 {
		recs = append(recs,
			"Review cascade order in index.css to resolve conflicts without increasing specificity",
			"Consider using CSS Modules for component-specific styles to avoid global conflicts",
		)
	}
	return recs
}
