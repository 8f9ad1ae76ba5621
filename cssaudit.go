// Package cssaudit audits the architecture of a layered stylesheet codebase.
//
// The styles root is expected to be organised by layer:
//
//	src/styles/{tokens,base,layout,components,sections,features,utilities}/*.css
//
// # Running every audit
//
//	result, err := cssaudit.Run(ctx, cssaudit.Config{StylesDir: "src/styles"})
//	if err != nil {
//		return err
//	}
//	paths, err := result.WriteReports(".", time.Now())
//
// Run parses the styles root once and evaluates the architecture gates
// (duplicate tokens, undeclared token references, selector leakage), the
// specificity budget, !important usage and media query conventions. Setting
// SourceDir also audits inline style attributes in TSX/JSX components.
//
// # CLI Tool
//
//	go install github.com/yacobolo/cssaudit/cmd/cssaudit@latest
package cssaudit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/yacobolo/cssaudit/internal/cssaudit"
)

// Result types of the individual audits
type (
	GateResult             = cssaudit.GateResult
	SpecificityAuditResult = cssaudit.SpecificityAuditResult
	ImportantDeclaration   = cssaudit.ImportantDeclaration
	MediaQueryAuditResult  = cssaudit.MediaQueryAuditResult
	InlineStyleAuditResult = cssaudit.InlineStyleAuditResult
)

// ErrGatesFailed marks a run whose architecture gates did not pass
var ErrGatesFailed = cssaudit.ErrGatesFailed

// Report file names written by WriteReports
const (
	SpecificityReport  = "SPECIFICITY_AUDIT_REPORT.md"
	ImportantReport    = "IMPORTANT_AUDIT_REPORT.md"
	MediaQueryReport   = "MEDIA_QUERY_AUDIT_REPORT.md"
	InlineStylesReport = "INLINE_STYLES_AUDIT_REPORT.md"
)

// Config holds the audit settings. Zero values select the defaults.
type Config struct {
	StylesDir       string   // Styles root (default: src/styles)
	SourceDir       string   // Component sources for the inline style audit; empty skips it
	TokensDir       string   // Canonical token directory under StylesDir (default: tokens)
	Allowlist       []string // Runtime custom properties exempt from declaration
	FeatureFile     string   // Feature stylesheet checked for leakage (default: features/configurator.css)
	ScopeClass      string   // Scoping class of the feature (default: .configurator-page)
	SkipLeakage     bool     // Disable the selector leakage gate
	UtilitiesDir    string   // Directory exempt from specificity and !important rules (default: utilities)
	BreakpointsFile string   // File declaring --breakpoint-* tokens (default: tokens/spacing.css)
	Logger          *slog.Logger
}

// Result bundles the findings of one run
type Result struct {
	Files        int                     `json:"files"`
	Gates        *GateResult             `json:"gates"`
	Specificity  *SpecificityAuditResult `json:"specificity"`
	Important    []ImportantDeclaration  `json:"important"`
	MediaQueries *MediaQueryAuditResult  `json:"mediaQueries"`
	InlineStyles *InlineStyleAuditResult `json:"inlineStyles,omitempty"`

	breakpointsFile string
}

// Passed reports whether the architecture gates are clean. The other audits
// are advisory.
func (r *Result) Passed() bool {
	return r.Gates.Passed()
}

// Run parses the styles root once and runs every audit over it
func Run(ctx context.Context, cfg Config) (*Result, error) {
	cfg = cfg.withDefaults()

	files, err := cssaudit.ParseDir(cfg.StylesDir)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg.Logger.Debug("parsed stylesheets", "root", cfg.StylesDir, "files", len(files))

	gates, err := cssaudit.EvaluateGates(files, cssaudit.GateConfig{
		StylesDir:   cfg.StylesDir,
		TokensDir:   cfg.TokensDir,
		Allowlist:   cfg.Allowlist,
		FeatureFile: cfg.FeatureFile,
		ScopeClass:  cfg.ScopeClass,
		SkipLeakage: cfg.SkipLeakage,
		Logger:      cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluate gates: %w", err)
	}

	result := &Result{
		Files:           len(files),
		Gates:           gates,
		Specificity:     cssaudit.AuditSpecificity(files, cssaudit.SpecificityOptions{UtilitiesDir: cfg.UtilitiesDir}),
		Important:       cssaudit.AuditImportant(files, cssaudit.ImportantOptions{UtilitiesDir: cfg.UtilitiesDir}),
		MediaQueries:    cssaudit.AuditMediaQueries(files, cssaudit.MediaQueryOptions{BreakpointsFile: cfg.BreakpointsFile}),
		breakpointsFile: cfg.BreakpointsFile,
	}

	if cfg.SourceDir != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.InlineStyles, err = cssaudit.AuditInlineStyles(cssaudit.InlineStyleOptions{
			Root:   cfg.SourceDir,
			Logger: cfg.Logger,
		})
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// WriteReports writes the Markdown report of every audit into dir and
// returns the paths written
func (r *Result) WriteReports(dir string, generated time.Time) ([]string, error) {
	type report struct {
		name   string
		render func(io.Writer) error
	}
	reports := []report{
		{SpecificityReport, func(w io.Writer) error { return cssaudit.WriteSpecificityReport(w, r.Specificity, generated) }},
		{ImportantReport, func(w io.Writer) error { return cssaudit.WriteImportantReport(w, r.Important, generated) }},
		{MediaQueryReport, func(w io.Writer) error {
			return cssaudit.WriteMediaQueryReport(w, r.MediaQueries, r.breakpointsFile, generated)
		}},
	}
	if r.InlineStyles != nil {
		reports = append(reports, report{InlineStylesReport, func(w io.Writer) error {
			return cssaudit.WriteInlineStylesReport(w, r.InlineStyles, generated)
		}})
	}

	paths := make([]string, 0, len(reports))
	for _, rep := range reports {
		path := filepath.Join(dir, rep.name)
		if err := cssaudit.WriteReportFile(path, rep.render); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteGateSummary prints the gate pass line to stdout or the failures to
// stderr
func (r *Result) WriteGateSummary(stdout, stderr io.Writer) error {
	return cssaudit.WriteGateSummary(stdout, stderr, r.Gates)
}

func (cfg Config) withDefaults() Config {
	if cfg.StylesDir == "" {
		cfg.StylesDir = filepath.Join("src", "styles")
	}
	if cfg.UtilitiesDir == "" {
		cfg.UtilitiesDir = "utilities"
	}
	if cfg.BreakpointsFile == "" {
		cfg.BreakpointsFile = "tokens/spacing.css"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}
