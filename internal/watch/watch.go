// Package watch reports changed files under a directory tree, debounced.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"bennypowers.dev/coloradjust/internal/log"
)

var skipDirs = []string{"node_modules", "dist", "build"}

// Watcher monitors a directory tree and sends batches of changed paths.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      string
	debounce  time.Duration
	relevant  func(path string) bool
	ignore    func(dir string) bool
	onChange  chan []string
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	Root        string
	DebounceDur time.Duration
	// Relevant filters the files that trigger a notification. Nil accepts
	// every file.
	Relevant func(path string) bool
	// Ignore reports directories that are not watched, in addition to
	// hidden and dependency directories.
	Ignore func(dir string) bool
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(root string) Config {
	return Config{
		Root:        root,
		DebounceDur: 200 * time.Millisecond,
	}
}

// New creates a new watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	relevant := cfg.Relevant
	if relevant == nil {
		relevant = func(string) bool { return true }
	}
	ignore := cfg.Ignore
	if ignore == nil {
		ignore = func(string) bool { return false }
	}

	return &Watcher{
		fsWatcher: fsw,
		root:      cfg.Root,
		debounce:  cfg.DebounceDur,
		relevant:  relevant,
		ignore:    ignore,
		onChange:  make(chan []string, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start watches root and every directory below it. The returned channel
// receives the sorted paths that changed during each quiet period.
func (w *Watcher) Start() (<-chan []string, error) {
	if err := w.addTree(w.root); err != nil {
		return nil, err
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skip(path) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("watching directory %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) skip(dir string) bool {
	name := filepath.Base(dir)
	return strings.HasPrefix(name, ".") || slices.Contains(skipDirs, name) || w.ignore(dir)
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var timer *time.Timer
	pending := map[string]struct{}{}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !w.skip(event.Name) {
						if err := w.addTree(event.Name); err != nil {
							log.Warn("Failed to watch %s: %v", event.Name, err)
						}
					}
					continue
				}
			}

			if !w.isRelevantEvent(event) {
				continue
			}
			pending[event.Name] = struct{}{}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			slices.Sort(changed)

			select {
			case w.onChange <- changed:
				pending = map[string]struct{}{}
			case <-w.done:
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn("File watcher error: %v", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a rebuild.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.relevant(event.Name)
}
