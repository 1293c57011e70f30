package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watch renders the scene, then renders it again after every change to the file until
// ctx is cancelled. Render failures are logged and do not stop the watch.
func (r *renderer) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: saving may replace the file.
	target := filepath.Clean(r.path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", r.path, err)
	}

	r.renderLogged()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			r.logger.Debug("scene changed", "path", ev.Name, "op", ev.Op.String())
			r.renderLogged()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watch error", "err", err)
		}
	}
}

func (r *renderer) renderLogged() {
	if err := r.render(); err != nil {
		r.logger.Error("render failed", "path", r.path, "err", err)
	}
}
