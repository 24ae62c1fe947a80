package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vinayprograms/robot/internal/robotfile"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.robot")
	require.NoError(t, os.WriteFile(path, []byte("move;"), 0644))

	w := New(path, robotfile.LoadOptions{})
	w.SetDebounce(10 * time.Millisecond)

	results := make(chan Result, 8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(r Result) { results <- r }) }()

	first := next(t, results)
	require.NoError(t, first.Err)
	assert.Len(t, first.Program.Statements, 1)

	require.NoError(t, os.WriteFile(path, []byte("move; turnL;"), 0644))
	waitFor(t, results, func(r Result) bool {
		return r.Err == nil && len(r.Program.Statements) == 2
	})

	require.NoError(t, os.WriteFile(path, []byte("if ( {"), 0644))
	waitFor(t, results, func(r Result) bool {
		return r.Err != nil && r.Program == nil
	})

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "gone", "bot.robot"), robotfile.LoadOptions{})
	err := w.Run(context.Background(), func(Result) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}

func next(t *testing.T, results <-chan Result) Result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
		return Result{}
	}
}

// waitFor drains results until one satisfies ok. Saves can arrive as more
// than one event, so intermediate reloads are skipped.
func waitFor(t *testing.T, results <-chan Result, ok func(Result) bool) {
	t.Helper()
	for {
		if ok(next(t, results)) {
			return
		}
	}
}
