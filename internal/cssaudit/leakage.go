package cssaudit

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// DefaultScopeClass is the class that scopes the configurator feature styles
const DefaultScopeClass = ".configurator-page"

// leakagePatterns match generic selectors that must not appear unscoped in
// feature stylesheets
var leakagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*\.form-group\b`),
	regexp.MustCompile(`^\s*\.cta-primary\b`),
	regexp.MustCompile(`^\s*\.cta-secondary\b`),
	regexp.MustCompile(`^\s*\.btn-continue\b`),
	regexp.MustCompile(`^\s*\.modal-backdrop\b`),
	regexp.MustCompile(`^\s*\.modal-dialog\b`),
	regexp.MustCompile(`^\s*\.modal-title\b`),
	regexp.MustCompile(`^\s*\.modal-message\b`),
	regexp.MustCompile(`^\s*\.modal-actions\b`),
	regexp.MustCompile(`^\s*\.modal-btn\b`),
	regexp.MustCompile(`^\s*\.modal-btn-primary\b`),
	regexp.MustCompile(`^\s*\.modal-btn-secondary\b`),
	regexp.MustCompile(`^\s*\.modal-btn-cancel\b`),
	regexp.MustCompile(`^\s*\[data-theme="dark"\]\s+\.modal-dialog\b`),
	regexp.MustCompile(`^\s*\[data-theme="dark"\]\s+\.modal-backdrop\b`),
}

// FindSelectorLeakage scans a feature stylesheet line by line for generic
// selectors that are not prefixed with scopeClass. A missing file is an
// error.
func FindSelectorLeakage(path, scopeClass string) ([]SelectorLeakage, error) {
	return findSelectorLeakage(path, toSlash(path), scopeClass)
}

// findSelectorLeakage reports findings under name
func findSelectorLeakage(path, name, scopeClass string) ([]SelectorLeakage, error) {
	if scopeClass == "" {
		scopeClass = DefaultScopeClass
	}

	// #nosec G304 - path comes from trusted configuration
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feature stylesheet: %w", err)
	}
	defer file.Close()

	leakage, err := scanLeakage(file, name, scopeClass)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return leakage, nil
}

func scanLeakage(file *os.File, name, scopeClass string) ([]SelectorLeakage, error) {
	var leakage []SelectorLeakage
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if sel, ok := leakingSelector(line, scopeClass); ok {
			leakage = append(leakage, SelectorLeakage{File: name, Line: lineNum, Selector: sel})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return leakage, nil
}

// leakingSelector checks one source line. Blank lines, comment openers and
// lines mentioning the scope class are exempt; the first pattern wins.
func leakingSelector(line, scopeClass string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "/*") || strings.Contains(trimmed, scopeClass) {
		return "", false
	}
	for _, pattern := range leakagePatterns {
		if pattern.MatchString(line) {
			return trimmed, true
		}
	}
	return "", false
}
