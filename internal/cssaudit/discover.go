package cssaudit

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skippedDirs are never descended into during discovery
var skippedDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
	".git":         true,
}

// DiscoverStylesheets returns every .css file below root, sorted lexically.
// Directories named node_modules, dist, build or .git are skipped.
func DiscoverStylesheets(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("styles root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("styles root %s: not a directory", root)
	}

	matches, err := doublestar.Glob(os.DirFS(root), "**/*.css",
		doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("discover stylesheets in %s: %w", root, err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		if inSkippedDir(match) {
			continue
		}
		files = append(files, filepath.Join(root, filepath.FromSlash(match)))
	}

	sort.Strings(files)
	return files, nil
}

// inSkippedDir checks the directory segments of a slash path
func inSkippedDir(rel string) bool {
	dir := path.Dir(rel)
	if dir == "." {
		return false
	}
	for _, segment := range strings.Split(dir, "/") {
		if skippedDirs[segment] {
			return true
		}
	}
	return false
}

// toSlash normalizes Windows separators so path rules work on every platform
func toSlash(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), "\\", "/")
}

// relativeTo returns p relative to root as a slash path, or p itself when it
// is not below root
func relativeTo(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return toSlash(p)
	}
	return toSlash(rel)
}

// categoryOf returns the first directory of a styles-relative path.
// Pattern: components/button.css -> components, reset.css -> other
func categoryOf(rel string) string {
	parts := strings.Split(rel, "/")
	if len(parts) >= 2 && parts[0] != "" && parts[0] != "." {
		return parts[0]
	}
	return "other"
}

// hasDirSegment reports whether any directory of the slash path equals dir
func hasDirSegment(p, dir string) bool {
	if dir == "" {
		return false
	}
	parts := strings.Split(p, "/")
	for _, part := range parts[:len(parts)-1] {
		if part == dir {
			return true
		}
	}
	return false
}
