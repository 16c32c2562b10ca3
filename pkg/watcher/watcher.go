package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DocumentWatcher calls back when watched documents change on disk.
//
// The parent directories are watched instead of the files, so documents
// saved by writing a temporary file and renaming it are still seen.
type DocumentWatcher struct {
	watcher   *fsnotify.Watcher
	mu        sync.Mutex
	callbacks map[string]func(string)
	dirs      map[string]int
	debounce  time.Duration
	timers    map[string]*time.Timer
	closed    bool

	// OnError receives watcher errors. It defaults to printing them.
	OnError func(error)
}

// NewDocumentWatcher creates a watcher that waits for debounce without
// further events before calling back
func NewDocumentWatcher(debounce time.Duration) (*DocumentWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &DocumentWatcher{
		watcher:   watcher,
		callbacks: make(map[string]func(string)),
		dirs:      make(map[string]int),
		debounce:  debounce,
		timers:    make(map[string]*time.Timer),
		OnError: func(err error) {
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		},
	}, nil
}

// Watch registers a callback for a document
func (dw *DocumentWatcher) Watch(file string, callback func(string)) error {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", file, err)
	}

	dw.mu.Lock()
	defer dw.mu.Unlock()

	if _, exists := dw.callbacks[absPath]; !exists {
		dir := filepath.Dir(absPath)
		if dw.dirs[dir] == 0 {
			if err := dw.watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
		}
		dw.dirs[dir]++
	}
	dw.callbacks[absPath] = callback
	return nil
}

// Unwatch removes a document
func (dw *DocumentWatcher) Unwatch(file string) error {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", file, err)
	}

	dw.mu.Lock()
	defer dw.mu.Unlock()

	if _, exists := dw.callbacks[absPath]; !exists {
		return nil
	}
	delete(dw.callbacks, absPath)
	if timer, exists := dw.timers[absPath]; exists {
		timer.Stop()
		delete(dw.timers, absPath)
	}

	dir := filepath.Dir(absPath)
	dw.dirs[dir]--
	if dw.dirs[dir] == 0 {
		delete(dw.dirs, dir)
		return dw.watcher.Remove(dir)
	}
	return nil
}

// Start begins delivering change events
func (dw *DocumentWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-dw.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					dw.handleChange(event.Name)
				}

			case err, ok := <-dw.watcher.Errors:
				if !ok {
					return
				}
				if dw.OnError != nil {
					dw.OnError(err)
				}
			}
		}
	}()
}

// handleChange restarts the debounce timer of a watched document
func (dw *DocumentWatcher) handleChange(filePath string) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.closed {
		return
	}
	callback, exists := dw.callbacks[filePath]
	if !exists {
		return
	}

	if timer, exists := dw.timers[filePath]; exists {
		timer.Stop()
	}
	dw.timers[filePath] = time.AfterFunc(dw.debounce, func() {
		callback(filePath)
	})
}

// Close stops the watcher and pending callbacks
func (dw *DocumentWatcher) Close() error {
	dw.mu.Lock()
	dw.closed = true
	for _, timer := range dw.timers {
		timer.Stop()
	}
	dw.timers = make(map[string]*time.Timer)
	dw.mu.Unlock()

	return dw.watcher.Close()
}
