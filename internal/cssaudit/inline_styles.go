package cssaudit

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// ErrEmptyStyle is returned by ParseStyleAttribute for an empty expression
var ErrEmptyStyle = errors.New("empty style expression")

// maxStyleContent bounds the expression text kept per occurrence
const maxStyleContent = 100

// StyleKind classifies an inline style attribute
type StyleKind string

// Inline style kinds
const (
	StyleStatic  StyleKind = "static"  // Every value is a literal
	StyleDynamic StyleKind = "dynamic" // Every value is computed
	StyleMixed   StyleKind = "mixed"   // Both literal and computed values
)

// StyleProperty is one "name: value" pair of a style object
type StyleProperty struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Dynamic bool   `json:"dynamic"`
}

// StyleAttribute is the parsed expression of a style={...} attribute
type StyleAttribute struct {
	Expression string          `json:"expression"`
	Properties []StyleProperty `json:"properties"`
	Kind       StyleKind       `json:"kind"`
}

// InlineStyleOccurrence is a style={...} attribute found in a source file
type InlineStyleOccurrence struct {
	File         string    `json:"file"`
	Line         int       `json:"line"`
	StyleContent string    `json:"styleContent"` // Truncated to 100 characters
	Truncated    bool      `json:"truncated"`
	Kind         StyleKind `json:"kind"`
	Properties   []string  `json:"properties"`
}

// FileCount pairs a file with its number of occurrences
type FileCount struct {
	File  string `json:"file"`
	Count int    `json:"count"`
}

// InlineStyleAuditResult is the outcome of AuditInlineStyles
type InlineStyleAuditResult struct {
	TotalFiles            int                     `json:"totalFiles"`
	FilesWithInlineStyles int                     `json:"filesWithInlineStyles"`
	TotalInlineStyles     int                     `json:"totalInlineStyles"`
	StaticStyles          int                     `json:"staticStyles"`
	DynamicStyles         int                     `json:"dynamicStyles"`
	MixedStyles           int                     `json:"mixedStyles"`
	Occurrences           []InlineStyleOccurrence `json:"occurrences"`
	ByFile                []FileCount             `json:"byFile"` // Sorted by count, descending
}

// InlineStyleOptions configures AuditInlineStyles
type InlineStyleOptions struct {
	Root     string   // Source root ("src")
	Patterns []string // Globs relative to Root
	Ignore   []string // Globs matched against Root-relative slash paths
	Logger   *slog.Logger
}

// Default scan patterns for component sources
var (
	DefaultInlinePatterns = []string{"**/*.tsx", "**/*.jsx"}
	DefaultInlineIgnore   = []string{"**/node_modules/**", "**/dist/**", "**/*.test.tsx", "**/*.spec.tsx"}
)

var (
	styleAttrPattern     = regexp.MustCompile(`style=\{([^}]*(?:\{[^}]*\}[^}]*)*)\}`)
	stylePropertyPattern = regexp.MustCompile(`(\w+):\s*([^,}]+)`)

	// Ordered from most to least specific
	dynamicValuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$\{`),                      // Template literal interpolation
		regexp.MustCompile(`\b(props|state|index|i)\b`), // Common variable names
		regexp.MustCompile(`\?\s*[^:]+\s*:`),            // Ternary operators
		regexp.MustCompile(`[\+\-\*\/]\s*\d`),           // Arithmetic
		regexp.MustCompile(`\b(Math|Number|String)\.`),  // Builtin calls
	}
)

// isDynamicValue reports whether a style value is computed at runtime
func isDynamicValue(value string) bool {
	for _, pattern := range dynamicValuePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// ParseStyleAttribute splits a style expression into properties and
// classifies it. Without any "name: value" pair the whole expression is
// classified.
func ParseStyleAttribute(expression string) (StyleAttribute, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return StyleAttribute{}, ErrEmptyStyle
	}

	attr := StyleAttribute{Expression: expression, Properties: []StyleProperty{}}
	var hasStatic, hasDynamic bool

	for _, m := range stylePropertyPattern.FindAllStringSubmatch(expression, -1) {
		prop := StyleProperty{
			Name:  m[1],
			Value: strings.TrimSpace(m[2]),
		}
		prop.Dynamic = isDynamicValue(prop.Value)
		if prop.Dynamic {
			hasDynamic = true
		} else {
			hasStatic = true
		}
		attr.Properties = append(attr.Properties, prop)
	}

	if len(attr.Properties) == 0 {
		if isDynamicValue(expression) {
			hasDynamic = true
		} else {
			hasStatic = true
		}
	}

	switch {
	case hasStatic && hasDynamic:
		attr.Kind = StyleMixed
	case hasDynamic:
		attr.Kind = StyleDynamic
	default:
		attr.Kind = StyleStatic
	}
	return attr, nil
}

// AuditInlineStyles scans component sources for style={...} attributes
func AuditInlineStyles(opts InlineStyleOptions) (*InlineStyleAuditResult, error) {
	if opts.Root == "" {
		opts.Root = "src"
	}
	if len(opts.Patterns) == 0 {
		opts.Patterns = DefaultInlinePatterns
	}
	if opts.Ignore == nil {
		opts.Ignore = DefaultInlineIgnore
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	if _, err := os.Stat(opts.Root); err != nil {
		return nil, fmt.Errorf("source root: %w", err)
	}

	files, err := expandSourcePatterns(opts)
	if err != nil {
		return nil, err
	}

	result := &InlineStyleAuditResult{
		TotalFiles:  len(files),
		Occurrences: []InlineStyleOccurrence{},
		ByFile:      []FileCount{},
	}

	for _, file := range files {
		occurrences, err := scanInlineStyles(file, opts.Root, opts.Logger)
		if err != nil {
			return nil, err
		}
		if len(occurrences) == 0 {
			continue
		}

		result.ByFile = append(result.ByFile, FileCount{File: occurrences[0].File, Count: len(occurrences)})
		for _, occ := range occurrences {
			switch occ.Kind {
			case StyleStatic:
				result.StaticStyles++
			case StyleDynamic:
				result.DynamicStyles++
			case StyleMixed:
				result.MixedStyles++
			}
		}
		result.Occurrences = append(result.Occurrences, occurrences...)
	}

	result.FilesWithInlineStyles = len(result.ByFile)
	result.TotalInlineStyles = len(result.Occurrences)
	sort.SliceStable(result.ByFile, func(i, j int) bool {
		return result.ByFile[i].Count > result.ByFile[j].Count
	})

	opts.Logger.Debug("inline style audit complete", "files", result.TotalFiles, "styles", result.TotalInlineStyles)
	return result, nil
}

// expandSourcePatterns globs the source root and drops ignored files
func expandSourcePatterns(opts InlineStyleOptions) ([]string, error) {
	gi := loadGitIgnore(opts.Root)
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range opts.Patterns {
		matches, err := doublestar.FilepathGlob(filepath.Join(opts.Root, pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			if shouldSkipSource(relativeTo(opts.Root, match), opts.Ignore, gi) {
				continue
			}
			files = append(files, match)
		}
	}

	sort.Strings(files)
	return files, nil
}

// loadGitIgnore compiles the .gitignore at root. A missing file is fine.
func loadGitIgnore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// shouldSkipSource applies the ignore globs and the .gitignore rules
func shouldSkipSource(rel string, ignores []string, gi *ignore.GitIgnore) bool {
	for _, pattern := range ignores {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return gi != nil && gi.MatchesPath(rel)
}

// scanInlineStyles finds every style={...} attribute in one file
func scanInlineStyles(path, root string, logger *slog.Logger) ([]InlineStyleOccurrence, error) {
	// #nosec G304 - path comes from glob expansion
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	content := string(data)
	name := relativeTo(root, path)

	var occurrences []InlineStyleOccurrence
	for _, loc := range styleAttrPattern.FindAllStringSubmatchIndex(content, -1) {
		expression := content[loc[2]:loc[3]]
		line := strings.Count(content[:loc[0]], "\n") + 1

		attr, err := ParseStyleAttribute(expression)
		if err != nil {
			logger.Debug("skipping style attribute", "file", name, "line", line, "error", err)
			continue
		}

		snippet, truncated := truncateRunes(attr.Expression, maxStyleContent)
		names := make([]string, len(attr.Properties))
		for i, p := range attr.Properties {
			names[i] = p.Name
		}

		occurrences = append(occurrences, InlineStyleOccurrence{
			File:         name,
			Line:         line,
			StyleContent: snippet,
			Truncated:    truncated,
			Kind:         attr.Kind,
			Properties:   names,
		})
	}
	return occurrences, nil
}

func truncateRunes(s string, n int) (string, bool) {
	runes := []rune(s)
	if len(runes) <= n {
		return s, false
	}
	return string(runes[:n]), true
}
