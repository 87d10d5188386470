package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dankservices/blog-site/internal/content"
	"github.com/dankservices/blog-site/internal/logger"
)

// DefaultDebounce groups bursts of filesystem events (editors tend to write
// a file several times) into one reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher turns filesystem changes under the content root into reload
// triggers. fsnotify is not recursive, so the root and every series
// directory are watched individually.
type Watcher struct {
	root     string
	trigger  chan<- struct{}
	logger   logger.Logger
	debounce time.Duration

	fsw      *fsnotify.Watcher
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewWatcher(root string, trigger chan<- struct{}, log logger.Logger, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		root:     root,
		trigger:  trigger,
		logger:   log,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start registers the watches and begins forwarding events.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	w.fsw = fsw

	if err := w.addTree(w.root); err != nil {
		_ = fsw.Close()
		w.fsw = nil
		return err
	}

	w.logger.Info("watching content directory", logger.String("root", w.root))
	go w.loop(ctx)
	return nil
}

// Stop closes the underlying watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.fsw != nil {
			_ = w.fsw.Close()
			<-w.done
		}
	})
}

func (w *Watcher) addTree(root string) error {
	if err := w.fsw.Add(root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", root, err)
	}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			dir := filepath.Join(root, e.Name())
			if err := w.fsw.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
		}
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("content change detected",
				logger.String("path", ev.Name),
				logger.String("op", ev.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("content watcher error", logger.Error(err))

		case <-timer.C:
			w.fire()

		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// relevant filters events down to .md files and series directories.
// New series directories are added to the watch list on the way.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if strings.HasSuffix(base, content.Ext) {
		return true
	}

	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() && filepath.Dir(ev.Name) == filepath.Clean(w.root) {
			if err := w.fsw.Add(ev.Name); err != nil {
				w.logger.Warn("failed to watch new series directory",
					logger.String("path", ev.Name), logger.Error(err))
			}
			return true
		}
	}
	// Removed or renamed series directories.
	return ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

// fire sends a reload request without blocking; one pending request is enough.
func (w *Watcher) fire() {
	select {
	case w.trigger <- struct{}{}:
	default:
		w.logger.Debug("reload already pending")
	}
}
