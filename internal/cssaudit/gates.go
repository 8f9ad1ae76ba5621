package cssaudit

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// ErrGatesFailed is returned by callers that turn a failing GateResult into
// a process exit status
var ErrGatesFailed = errors.New("css architecture gates failed")

// maxListedReferences caps the undeclared reference listing
const maxListedReferences = 100

// GateConfig configures RunGates
type GateConfig struct {
	StylesDir   string   // Styles root ("src/styles")
	TokensDir   string   // Canonical token directory under the root ("tokens")
	Allowlist   []string // Runtime custom properties exempt from declaration
	FeatureFile string   // Feature stylesheet checked for leakage, relative to StylesDir unless absolute
	ScopeClass  string   // Class that scopes the feature (".configurator-page")
	SkipLeakage bool     // Disable the selector leakage gate for projects without a feature stylesheet
	Logger      *slog.Logger
}

// GateResult holds the findings of the three architecture gates
type GateResult struct {
	Files                int               `json:"files"`
	DuplicateTokens      []DuplicateToken  `json:"duplicateTokens"`
	UndeclaredReferences []TokenReference  `json:"undeclaredReferences"`
	SelectorLeakage      []SelectorLeakage `json:"selectorLeakage"`
}

// Passed reports whether all gates are clean
func (r *GateResult) Passed() bool {
	return len(r.DuplicateTokens) == 0 && len(r.UndeclaredReferences) == 0 && len(r.SelectorLeakage) == 0
}

// ExitCode is 0 when all gates pass and 1 otherwise
func (r *GateResult) ExitCode() int {
	if r.Passed() {
		return 0
	}
	return 1
}

// RunGates parses the styles root and evaluates the architecture gates
func RunGates(cfg GateConfig) (*GateResult, error) {
	cfg = cfg.withDefaults()

	files, err := ParseDir(cfg.StylesDir)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Debug("parsed stylesheets", "root", cfg.StylesDir, "files", len(files))

	return EvaluateGates(files, cfg)
}

// EvaluateGates runs the gates over already parsed stylesheets
func EvaluateGates(files []*Stylesheet, cfg GateConfig) (*GateResult, error) {
	cfg = cfg.withDefaults()

	var leakage []SelectorLeakage
	if cfg.SkipLeakage {
		cfg.Logger.Debug("selector leakage gate skipped")
	} else {
		path, name := cfg.featurePath()
		var err error
		leakage, err = findSelectorLeakage(path, name, cfg.ScopeClass)
		if err != nil {
			return nil, err
		}
	}

	result := &GateResult{
		Files:                len(files),
		DuplicateTokens:      FindDuplicateTokens(files),
		UndeclaredReferences: FindUndeclaredReferences(files, cfg.TokensDir, cfg.Allowlist),
		SelectorLeakage:      leakage,
	}

	cfg.Logger.Debug("gates evaluated",
		"duplicates", len(result.DuplicateTokens),
		"undeclared", len(result.UndeclaredReferences),
		"leakage", len(result.SelectorLeakage))

	return result, nil
}

// featurePath resolves the feature stylesheet and its name relative to the
// styles root
func (cfg GateConfig) featurePath() (path, name string) {
	path = cfg.FeatureFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.StylesDir, path)
	}
	return path, relativeTo(cfg.StylesDir, path)
}

func (cfg GateConfig) withDefaults() GateConfig {
	if cfg.TokensDir == "" {
		cfg.TokensDir = "tokens"
	}
	if cfg.Allowlist == nil {
		cfg.Allowlist = DefaultTokenAllowlist
	}
	if cfg.FeatureFile == "" {
		cfg.FeatureFile = filepath.Join("features", "configurator.css")
	}
	if cfg.ScopeClass == "" {
		cfg.ScopeClass = DefaultScopeClass
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// WriteGateSummary prints the pass line to stdout or the failure listing to
// stderr
func WriteGateSummary(stdout, stderr io.Writer, r *GateResult) error {
	if r.Passed() {
		_, err := fmt.Fprintln(stdout, "CSS architecture gates passed.")
		return err
	}

	var sb strings.Builder
	sb.WriteString("CSS architecture gates failed.\n")

	if len(r.DuplicateTokens) > 0 {
		sb.WriteString("\nDuplicate token keys found in the same file:\n")
		for _, d := range r.DuplicateTokens {
			fmt.Fprintf(&sb, "- %s in %s (scope: %s) at lines: %s\n", d.Token, d.File, d.Scope, joinInts(d.Lines, ", "))
		}
	}

	if len(r.UndeclaredReferences) > 0 {
		sb.WriteString("\nUndeclared token references found:\n")
		for i, ref := range r.UndeclaredReferences {
			if i == maxListedReferences {
				break
			}
			fmt.Fprintf(&sb, "- %s at %s:%d (%s)\n", ref.TokenName, ref.File, ref.Line, ref.Property)
		}
		if extra := len(r.UndeclaredReferences) - maxListedReferences; extra > 0 {
			fmt.Fprintf(&sb, "...and %d more\n", extra)
		}
	}

	if len(r.SelectorLeakage) > 0 {
		sb.WriteString("\nSelector leakage detected in configurator feature styles:\n")
		for _, l := range r.SelectorLeakage {
			fmt.Fprintf(&sb, "- %s:%d -> %s\n", l.File, l.Line, l.Selector)
		}
	}

	_, err := io.WriteString(stderr, sb.String())
	return err
}

// Issues converts gate findings into compiler-style issues
func (r *GateResult) Issues() []Issue {
	var issues []Issue
	for _, d := range r.DuplicateTokens {
		for _, line := range d.Lines[1:] {
			issues = append(issues, Issue{
				FromLinter: LinterDuplicateToken,
				Text:       fmt.Sprintf(IssueDuplicateToken, d.Token, d.Scope, d.Lines[0]),
				Severity:   IssueSeverityError,
				Pos:        IssuePos{Filename: d.File, Line: line, Column: 1},
			})
		}
	}
	for _, ref := range r.UndeclaredReferences {
		issues = append(issues, Issue{
			FromLinter: LinterUndeclaredToken,
			Text:       fmt.Sprintf(IssueUndeclaredToken, ref.TokenName, ref.Property),
			Severity:   IssueSeverityError,
			Pos:        IssuePos{Filename: ref.File, Line: ref.Line, Column: 1},
		})
	}
	for _, l := range r.SelectorLeakage {
		issues = append(issues, Issue{
			FromLinter:  LinterSelectorLeakage,
			Text:        fmt.Sprintf(IssueSelectorLeakage, l.Selector),
			Severity:    IssueSeverityError,
			SourceLines: []string{l.Selector},
			Pos:         IssuePos{Filename: l.File, Line: l.Line, Column: 1},
		})
	}
	return issues
}

func joinInts(values []int, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, sep)
}
