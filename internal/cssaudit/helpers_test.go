package cssaudit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTree creates files (slash paths relative to a temp root) and returns
// the root
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

// parseTree writes files and parses them as a styles root
func parseTree(t *testing.T, files map[string]string) []*Stylesheet {
	t.Helper()
	sheets, err := ParseDir(writeTree(t, files))
	require.NoError(t, err)
	return sheets
}
