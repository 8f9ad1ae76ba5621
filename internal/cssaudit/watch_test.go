package cssaudit

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch(t *testing.T) {
	root := writeTree(t, map[string]string{"components/card.css": ".card{}"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, WatchConfig{Root: root, Debounce: 20 * time.Millisecond}, func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	path := filepath.Join(root, "components", "card.css")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(".card{color:red}"), 0o600))
	}
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	// Non-stylesheet changes are ignored
	time.Sleep(150 * time.Millisecond)
	settled := runs.Load()
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, settled, runs.Load())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatch_MissingRoot(t *testing.T) {
	err := Watch(context.Background(), WatchConfig{Root: filepath.Join(t.TempDir(), "missing")}, func(context.Context) error {
		return nil
	})
	require.Error(t, err)
}

func TestIsStylesheetEvent(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "a.css", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "a.css", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "a.css", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "a.tsx", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, isStylesheetEvent(tt.event))
		})
	}
}
