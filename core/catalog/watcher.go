package catalog

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"size-convert/internal/logging"
)

// Watcher serves the bundled catalog merged with an override file and
// reloads the override whenever it changes on disk. A failed reload keeps
// the previous catalog.
type Watcher struct {
	base    *Catalog
	path    string
	current atomic.Pointer[Catalog]
	fsw     *fsnotify.Watcher
	log     *zap.Logger

	// reloaded receives after every reload attempt; used by tests
	reloaded chan error
}

// NewWatcher loads path over base and starts watching its directory.
// Editors commonly replace files instead of writing them, so the directory
// is watched and events are filtered by name.
func NewWatcher(base *Catalog, path string) (*Watcher, error) {
	overlay, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		base: base,
		path: filepath.Clean(path),
		fsw:  fsw,
		log:  logging.Named("catalog"),
	}
	w.current.Store(base.Merge(overlay))
	return w, nil
}

// Current implements Provider
func (w *Watcher) Current() *Catalog {
	return w.current.Load()
}

// Run processes file events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			w.notify(w.reload())
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("catalog watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() error {
	overlay, err := LoadFile(w.path)
	if err != nil {
		w.log.Warn("catalog reload failed, keeping previous catalog", zap.String("path", w.path), zap.Error(err))
		return err
	}
	merged := w.base.Merge(overlay)
	w.current.Store(merged)
	w.log.Info("catalog reloaded", zap.String("path", w.path), zap.Int("brands", merged.Stats().Brands))
	return nil
}

func (w *Watcher) notify(err error) {
	if w.reloaded == nil {
		return
	}
	select {
	case w.reloaded <- err:
	default:
	}
}

// Close stops watching without waiting for Run
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
