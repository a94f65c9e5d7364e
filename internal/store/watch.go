package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"
)

// Watcher reconciles the store against OS file-change notifications for
// `.al` files under the workspace roots, per §4.4 step 6.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
	logger  *zap.Logger
}

// NewWatcher creates a Watcher over store's current and future roots.
// Close the returned Watcher when the server shuts down.
func NewWatcher(store *Store, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{store: store, watcher: fsw, logger: logger}, nil
}

// AddRoot recursively registers watches on root and its subdirectories,
// skipping the same directories the scanner skips.
func (w *Watcher) AddRoot(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil && w.logger != nil {
			w.logger.Warn("file watch: failed to watch directory", zap.Error(err), zap.String("path", path))
		}
		return nil
	})
}

// Run consumes filesystem events until ctx is canceled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Warn("file watch error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if !strings.EqualFold(filepath.Ext(event.Name), ".al") {
		return
	}

	docURI := protocol.URI(uri.File(event.Name))

	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.reload(ctx, event.Name, docURI)
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.reload(ctx, event.Name, docURI) // a rename's target may still exist under this name
	}
}

// reload reloads path from disk, treating "does not exist" as a
// deletion regardless of which fsnotify op triggered it (§4.4 step 6).
func (w *Watcher) reload(ctx context.Context, path string, docURI protocol.URI) {
	text, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		w.store.Delete(ctx, docURI)
		return
	}
	if err != nil {
		if w.logger != nil {
			w.logger.Warn("file watch: failed to read file", zap.Error(err), zap.String("path", path))
		}
		return
	}

	if _, err := w.store.Put(ctx, docURI, 0, string(text)); err != nil && w.logger != nil {
		w.logger.Warn("file watch: failed to parse file", zap.Error(err), zap.String("path", path))
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
