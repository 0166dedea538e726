package server

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Watcher monitors the site sources and triggers a rebuild when they change.
// Bursts of events (editor save dances, bulk copies) are coalesced into a
// single rebuild per quiet window.
type Watcher struct {
	roots    []string
	rebuild  func(context.Context) error
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	stopChan chan struct{}
	stopOnce sync.Once
	debounce time.Duration
}

// NewWatcher watches the given root directories recursively. The rebuild
// callback runs on the watcher goroutine; overlapping invocations never
// happen.
func NewWatcher(roots []string, rebuild func(context.Context) error) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		roots:    roots,
		rebuild:  rebuild,
		watcher:  fw,
		stopChan: make(chan struct{}),
		debounce: 2 * time.Second,
	}, nil
}

// Start registers the watch roots and begins monitoring.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, root := range w.roots {
		if err := w.addRecursive(root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}

	slog.Info("Watching site sources for changes", slog.Any("roots", w.roots))
	go w.loop(ctx)
	return nil
}

// Stop shuts down the watcher. Safe to call more than once.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() { close(w.stopChan) })
	return w.watcher.Close()
}

// addRecursive registers root and every subdirectory under it. Missing
// roots are skipped; they may appear later but will not be picked up, which
// is acceptable for a dev loop.
func (w *Watcher) addRecursive(root string) error {
	if _, err := os.Stat(root); err != nil {
		slog.Warn("Watch root missing, skipping", logfields.Path(root))
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); strings.HasPrefix(name, ".") && path != root {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) loop(ctx context.Context) {
	// Armed lazily on the first event so an idle watcher never wakes up.
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			slog.Debug("Source change detected",
				logfields.Path(event.Name),
				slog.String("op", event.Op.String()))
			// New directories must be added to the watch set so edits
			// inside them are seen.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
				}
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			timerC = timer.C
		case <-timerC:
			timerC = nil
			w.runRebuild(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	return !strings.HasPrefix(base, ".")
}

func (w *Watcher) runRebuild(ctx context.Context) {
	start := time.Now()
	slog.Info("Rebuilding after source change")
	if err := w.rebuild(ctx); err != nil {
		slog.Error("Rebuild failed", logfields.Error(err))
		return
	}
	slog.Info("Rebuild complete", logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}
