package imgstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports files that disappear from the upload directory without
// going through Store.Remove, i.e. records now pointing to a missing image.
type Watcher struct {
	store *Store
	fw    *fsnotify.Watcher
	once  sync.Once
}

func (s *Store) NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(s.baseDir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", s.baseDir, err)
	}
	s.watchers.Add(1)
	return &Watcher{store: s, fw: fw}, nil
}

// Close stops watching. Once the last watcher of a store is closed the
// store forgets its pending removals.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.fw.Close()
		if w.store.watchers.Add(-1) == 0 {
			w.store.removing.Clear()
		}
	})
	return err
}

// Run blocks until ctx is done, calling onRemove with the public path of
// every externally removed or renamed file.
func (w *Watcher) Run(ctx context.Context, onRemove func(publicPath string)) error {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Remove != fsnotify.Remove && ev.Op&fsnotify.Rename != fsnotify.Rename {
				continue
			}
			name := filepath.Base(ev.Name)
			if _, own := w.store.removing.LoadAndDelete(name); own {
				continue
			}
			onRemove(PublicPrefix + "/" + name)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.store.log.Warnf("upload watcher: %s", err)
		}
	}
}
