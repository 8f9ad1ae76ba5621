package cssaudit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ParseOutputFormat validates an --output-format value. An empty value
// selects fallback.
func ParseOutputFormat(value string, fallback OutputFormat, allowed ...OutputFormat) (OutputFormat, error) {
	if value == "" {
		return fallback, nil
	}
	if value == "md" {
		value = string(OutputMarkdown)
	}

	names := make([]string, len(allowed))
	for i, f := range allowed {
		if string(f) == value {
			return f, nil
		}
		names[i] = string(f)
	}
	return "", fmt.Errorf("invalid output format %q (expected one of: %s)", value, strings.Join(names, ", "))
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// WriteReportFile creates path and its parent directories and fills it
// with render
func WriteReportFile(path string, render func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	// #nosec G304 - report path is provided by user via CLI flag
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if err := render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return f.Close()
}
