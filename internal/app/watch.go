package app

import (
	"context"
	"os"
	"sync"
	"time"
)

// FileWatcher polls a file's modification time and invokes a callback when
// it moves past the baseline. The dashboard uses it to refresh the current
// report when the sales database is rewritten.
type FileWatcher struct {
	path     string
	interval time.Duration

	mu       sync.Mutex
	baseline time.Time
	onChange func()
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewFileWatcher creates a watcher for path. Returns nil if the file cannot
// be stat'ed.
func NewFileWatcher(path string, interval time.Duration) *FileWatcher {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	return &FileWatcher{
		path:     path,
		interval: interval,
		baseline: info.ModTime(),
	}
}

// OnChange sets the callback. It runs on the watcher goroutine; UI code
// must marshal back onto the main thread.
func (w *FileWatcher) OnChange(callback func()) {
	w.mu.Lock()
	w.onChange = callback
	w.mu.Unlock()
}

// Start begins polling until ctx is done or Stop is called.
func (w *FileWatcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.watchLoop(ctx, w.done)
}

// Stop stops polling and waits for the goroutine to exit.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (w *FileWatcher) watchLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !w.checkForUpdate() {
				continue
			}
			w.mu.Lock()
			callback := w.onChange
			w.mu.Unlock()
			if callback != nil {
				callback()
			}
		}
	}
}

// checkForUpdate reports a change once per new modification time.
func (w *FileWatcher) checkForUpdate() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !info.ModTime().After(w.baseline) {
		return false
	}
	w.baseline = info.ModTime()
	return true
}

// Path returns the watched file.
func (w *FileWatcher) Path() string {
	return w.path
}
