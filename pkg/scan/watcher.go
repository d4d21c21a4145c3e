package scan

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/BuddyNice/sveltedoc-parser/pkg/docset"
	"github.com/BuddyNice/sveltedoc-parser/pkg/parser"
	"github.com/BuddyNice/sveltedoc-parser/pkg/sveltedoc"
)

// Watcher re-extracts components as their files change. Rapid edits to
// one file debounce into a single re-extraction.
type Watcher struct {
	watcher  *fsnotify.Watcher
	scanner  *Scanner
	logger   *slog.Logger
	options  WatchOptions
	extract  sveltedoc.Options
	rootPath string

	// OnUpdate fires after a changed component re-extracts successfully.
	OnUpdate func(entry *docset.Entry)

	// OnRemove fires when a component file is deleted or renamed away.
	OnRemove func(relPath string)

	// OnError fires when a changed component fails extraction.
	OnError func(path string, err error)

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher over the scanner's caches.
func NewWatcher(scanner *Scanner, extract sveltedoc.Options, options WatchOptions, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if options.DebounceMs == 0 {
		options.DebounceMs = 200
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		watcher:        fsw,
		scanner:        scanner,
		logger:         logger,
		options:        options,
		extract:        extract,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start watches rootPath and its subdirectories in a background
// goroutine.
func (w *Watcher) Start(rootPath string) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	w.rootPath = rootPath
	w.mu.Unlock()

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if shouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to setup watches: %w", err)
	}

	w.logger.Info("file watcher started", "root", rootPath)
	go w.eventLoop()
	return nil
}

// Stop stops the watcher. Idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = make(map[string]*time.Timer)
	w.debounceMu.Unlock()

	err := w.watcher.Close()
	w.logger.Info("file watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// New directories need their own watch.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() && !shouldIgnoreDir(path) {
			if err := w.watcher.Add(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	if !parser.IsSvelteFile(path) {
		return
	}

	w.logger.Debug("file event", "op", event.Op.String(), "file", path)

	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		w.debounceExtract(path)

	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.removeFile(path)
	}
}

func (w *Watcher) debounceExtract(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
	}
	w.debounceTimers[path] = time.AfterFunc(
		time.Duration(w.options.DebounceMs)*time.Millisecond,
		func() {
			w.extractFile(path)

			w.debounceMu.Lock()
			delete(w.debounceTimers, path)
			w.debounceMu.Unlock()
		},
	)
}

func (w *Watcher) extractFile(path string) {
	entry, err := w.scanner.ExtractOne(w.rootPath, path, w.extract)
	if err != nil {
		w.logger.Warn("failed to re-extract component", "file", path, "error", err)
		if w.OnError != nil {
			w.OnError(path, err)
		}
		return
	}

	w.logger.Debug("component re-extracted", "file", path)
	if w.OnUpdate != nil {
		w.OnUpdate(entry)
	}
}

func (w *Watcher) removeFile(path string) {
	w.scanner.cache.invalidate(path)
	w.scanner.files.Invalidate(path)

	relPath, err := filepath.Rel(w.rootPath, path)
	if err != nil {
		relPath = path
	}
	w.logger.Debug("component removed", "file", path)
	if w.OnRemove != nil {
		w.OnRemove(filepath.ToSlash(relPath))
	}
}

func shouldIgnoreDir(path string) bool {
	switch filepath.Base(path) {
	case "node_modules", ".git", "dist", "build", ".svelte-kit":
		return true
	}
	return false
}
