package cssaudit

import (
	"regexp"
	"strings"
)

// BreakpointToken is a --breakpoint-* custom property from the token files
type BreakpointToken struct {
	Name  string `json:"name"` // "--breakpoint-md"
	Value string `json:"value"`
}

// ColocationIssue is a component whose responsive rules live apart from its
// base styles
type ColocationIssue struct {
	Component       string   `json:"component"`
	BaseFile        string   `json:"baseFile,omitempty"` // "" when no file declares the base rule
	MediaQueryFiles []string `json:"mediaQueryFiles"`
}

// MediaQueryAuditResult is the outcome of AuditMediaQueries
type MediaQueryAuditResult struct {
	TotalMediaQueries int               `json:"totalMediaQueries"`
	FileCount         int               `json:"fileCount"`
	MediaQueries      []MediaQuery      `json:"mediaQueries"`
	BreakpointTokens  []BreakpointToken `json:"breakpointTokens"`
	Consistent        []MediaQuery      `json:"consistent"`
	Inconsistent      []MediaQuery      `json:"inconsistent"`
	MobileFirst       []MediaQuery      `json:"mobileFirst"`
	DesktopFirst      []MediaQuery      `json:"desktopFirst"`
	ColocationIssues  []ColocationIssue `json:"colocationIssues"`
}

// IsConsistent reports whether the occurrence uses a breakpoint token value
func (r *MediaQueryAuditResult) IsConsistent(mq MediaQuery) bool {
	for _, c := range r.Consistent {
		if c.File == mq.File && c.Line == mq.Line {
			return true
		}
	}
	return false
}

// HasIssues reports whether any consistency, mobile-first or co-location
// finding exists
func (r *MediaQueryAuditResult) HasIssues() bool {
	return len(r.Inconsistent) > 0 || len(r.DesktopFirst) > 0 || len(r.ColocationIssues) > 0
}

// MediaQueryOptions configures AuditMediaQueries
type MediaQueryOptions struct {
	BreakpointsFile string // Styles-relative file declaring --breakpoint-* ("tokens/spacing.css")
}

var (
	breakpointPattern = regexp.MustCompile(`\((?:min-width|max-width):\s*([^)]+)\)`)
	componentPattern  = regexp.MustCompile(`(?:^|/)(components|sections|layout|features)/([^/]+)\.css$`)
)

// AuditMediaQueries checks breakpoint consistency, mobile-first usage and
// co-location of responsive rules. CSS module files are not audited.
func AuditMediaQueries(files []*Stylesheet, opts MediaQueryOptions) *MediaQueryAuditResult {
	if opts.BreakpointsFile == "" {
		opts.BreakpointsFile = "tokens/spacing.css"
	}

	result := &MediaQueryAuditResult{
		MediaQueries:     []MediaQuery{},
		BreakpointTokens: BreakpointTokens(files, opts.BreakpointsFile),
		Consistent:       []MediaQuery{},
		Inconsistent:     []MediaQuery{},
		MobileFirst:      []MediaQuery{},
		DesktopFirst:     []MediaQuery{},
		ColocationIssues: []ColocationIssue{},
	}

	tokenValues := make(map[string]bool, len(result.BreakpointTokens))
	for _, tok := range result.BreakpointTokens {
		tokenValues[tok.Value] = true
	}

	var audited []*Stylesheet
	for _, f := range files {
		if strings.HasSuffix(f.Name(), ".module.css") {
			continue
		}
		audited = append(audited, f)
		result.MediaQueries = append(result.MediaQueries, mediaQueriesOf(f)...)
	}
	result.FileCount = len(audited)
	result.TotalMediaQueries = len(result.MediaQueries)

	for _, mq := range result.MediaQueries {
		if mq.Breakpoint != "" {
			if tokenValues[mq.Breakpoint] {
				result.Consistent = append(result.Consistent, mq)
			} else {
				result.Inconsistent = append(result.Inconsistent, mq)
			}
		}

		if mq.IsMinWidth {
			result.MobileFirst = append(result.MobileFirst, mq)
		} else if mq.IsMaxWidth {
			result.DesktopFirst = append(result.DesktopFirst, mq)
		}
	}

	result.ColocationIssues = analyzeColocation(audited)
	return result
}

// BreakpointTokens returns the --breakpoint-* definitions of the stylesheet
// named breakpointsFile. A missing file yields no tokens.
func BreakpointTokens(files []*Stylesheet, breakpointsFile string) []BreakpointToken {
	tokens := []BreakpointToken{}
	want := strings.TrimPrefix(toSlash(breakpointsFile), "./")
	for _, f := range files {
		if f.Name() != want {
			continue
		}
		for _, def := range f.Tokens {
			if strings.HasPrefix(def.Name, "--breakpoint-") {
				tokens = append(tokens, BreakpointToken{Name: def.Name, Value: strings.TrimSpace(def.Value)})
			}
		}
	}
	return tokens
}

// mediaQueriesOf annotates the @media blocks of one stylesheet
func mediaQueriesOf(f *Stylesheet) []MediaQuery {
	component := componentName(f.Name())
	hasBase := component != "" && hasBaseStyles(f.Content, component)

	queries := make([]MediaQuery, 0, len(f.MediaQueries))
	for _, block := range f.MediaQueries {
		queries = append(queries, MediaQuery{
			File:          f.Name(),
			Line:          block.Line,
			Query:         block.Query,
			Breakpoint:    breakpointOf(block.Query),
			IsMinWidth:    strings.Contains(block.Query, "min-width"),
			IsMaxWidth:    strings.Contains(block.Query, "max-width"),
			Component:     component,
			HasBaseStyles: hasBase,
			Selectors:     block.Selectors,
		})
	}
	return queries
}

// breakpointOf extracts the first min-width/max-width value of a query
func breakpointOf(query string) string {
	m := breakpointPattern.FindStringSubmatch(query)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// componentName derives the component from a stylesheet path.
// Pattern: components/navigation.css -> navigation
func componentName(p string) string {
	m := componentPattern.FindStringSubmatch(p)
	if m == nil {
		return ""
	}
	return m[2]
}

// hasBaseStyles reports whether content declares a ".component {" rule
func hasBaseStyles(content, component string) bool {
	re := regexp.MustCompile(`(?i)\.` + regexp.QuoteMeta(component) + `\s*\{`)
	return re.MatchString(content)
}

// namesComponent reports whether a selector targets the component class or
// one of its BEM elements and modifiers
func namesComponent(selectors []string, component string) bool {
	re := regexp.MustCompile(`(?i)\.` + regexp.QuoteMeta(component) + `(?:$|__|--|[^\w-])`)
	for _, sel := range selectors {
		if re.MatchString(sel) {
			return true
		}
	}
	return false
}

// analyzeColocation finds components whose media blocks are spread over
// several files, or sit in a different file than the base styles.
//
// The base file is the component's own file when it declares the base rule,
// otherwise the first file that does. Media files are all files holding a
// media block that targets the component.
func analyzeColocation(files []*Stylesheet) []ColocationIssue {
	issues := []ColocationIssue{}

	type component struct {
		name string
		file *Stylesheet
	}
	var components []component
	seen := make(map[string]bool)
	for _, f := range files {
		name := componentName(f.Name())
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		components = append(components, component{name: name, file: f})
	}

	for _, c := range components {
		baseFile := ""
		if hasBaseStyles(c.file.Content, c.name) {
			baseFile = c.file.Name()
		} else {
			for _, f := range files {
				if hasBaseStyles(f.Content, c.name) {
					baseFile = f.Name()
					break
				}
			}
		}

		var mediaFiles []string
		for _, f := range files {
			for _, block := range f.MediaQueries {
				if namesComponent(block.Selectors, c.name) {
					mediaFiles = append(mediaFiles, f.Name())
					break
				}
			}
		}

		scattered := len(mediaFiles) > 1
		detached := baseFile != "" && len(mediaFiles) == 1 && mediaFiles[0] != baseFile
		if scattered || detached {
			issues = append(issues, ColocationIssue{
				Component:       c.name,
				BaseFile:        baseFile,
				MediaQueryFiles: mediaFiles,
			})
		}
	}

	return issues
}
