// Package watch re-parses a program file whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vinayprograms/agentkit/logging"
	"github.com/vinayprograms/robot/internal/robotfile"
)

// DefaultDebounce coalesces the burst of events an editor produces on save.
const DefaultDebounce = 100 * time.Millisecond

// Result is the outcome of one parse of the watched file.
type Result struct {
	Program *robotfile.Program
	Err     error
}

// Watcher reloads a program file on every write.
type Watcher struct {
	path     string
	opts     robotfile.LoadOptions
	debounce time.Duration
	logger   *logging.Logger
}

// New creates a watcher for path.
func New(path string, opts robotfile.LoadOptions) *Watcher {
	return &Watcher{
		path:     path,
		opts:     opts,
		debounce: DefaultDebounce,
		logger:   logging.New().WithComponent("watch"),
	}
}

// SetDebounce changes how long the watcher waits for events to settle.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run parses the file once, then again after each change, passing every
// result to fn. It returns when ctx is done.
func (w *Watcher) Run(ctx context.Context, fn func(Result)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	// Editors often replace the file, so watch the directory.
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	target := filepath.Clean(w.path)

	fn(w.load())

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", map[string]interface{}{"error": err.Error()})
		case <-fire:
			fire = nil
			fn(w.load())
		}
	}
}

func (w *Watcher) load() Result {
	prog, err := robotfile.LoadFileWithOptions(w.path, w.opts)
	if err != nil {
		w.logger.Debug("reload failed", map[string]interface{}{"path": w.path, "error": err.Error()})
	} else {
		w.logger.Debug("reloaded", map[string]interface{}{"path": w.path, "statements": len(prog.Statements)})
	}
	return Result{Program: prog, Err: err}
}
