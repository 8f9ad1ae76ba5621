package cssaudit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverStylesheets(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.css":                 "",
		"components/button.css":     "",
		"components/button.tsx":     "",
		"node_modules/lib/lib.css":  "",
		"dist/bundle.css":           "",
		"build/out.css":             "",
		".git/hooks/x.css":          "",
		"sections/hero/nested.css":  "",
		"features/build-config.css": "",
	})

	files, err := DiscoverStylesheets(root)
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		rel = append(rel, relativeTo(root, f))
	}
	assert.Equal(t, []string{
		"components/button.css",
		"features/build-config.css",
		"index.css",
		"sections/hero/nested.css",
	}, rel)
}

func TestDiscoverStylesheets_Errors(t *testing.T) {
	_, err := DiscoverStylesheets(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(t.TempDir(), "file.css")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, err = DiscoverStylesheets(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestDiscoverStylesheets_Empty(t *testing.T) {
	files, err := DiscoverStylesheets(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestPathHelpers(t *testing.T) {
	assert.Equal(t, "components", categoryOf("components/button.css"))
	assert.Equal(t, "other", categoryOf("index.css"))
	assert.True(t, hasDirSegment("src/utilities/x.css", "utilities"))
	assert.False(t, hasDirSegment("utilities.css", "utilities"))
	assert.False(t, hasDirSegment("my-utilities/x.css", "utilities"))
	assert.Equal(t, "a/b.css", relativeTo("/root", "/root/a/b.css"))
	assert.Equal(t, "/elsewhere/b.css", relativeTo("/root", "/elsewhere/b.css"))
}
