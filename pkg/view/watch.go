package view

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/schemeview/pkg/errors"
	"github.com/matzehuels/schemeview/pkg/scheme"
)

// reloadDelay collapses the burst of events editors produce on save.
const reloadDelay = 200 * time.Millisecond

// LoadFunc loads a scheme document from a path.
type LoadFunc func(path string) (*scheme.Document, error)

// Watch reloads the session whenever the file at path changes, until ctx is
// done. A document that fails to load is logged and the current one stays
// on display.
//
// The parent directory is watched rather than the file, so that editors
// replacing the file on save are handled.
func (s *Session) Watch(ctx context.Context, path string, load LoadFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create file watcher")
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", path)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "watch %s", filepath.Dir(abs))
	}
	s.logger.Info("watching scheme", "path", abs)

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || event.Op == fsnotify.Chmod {
				continue
			}
			timer.Reset(reloadDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("file watcher error", "err", err)
		case <-timer.C:
			doc, err := load(abs)
			if err != nil {
				s.logger.Error("scheme reload failed", "path", abs, "err", errors.UserMessage(err))
				continue
			}
			if err := s.Post(ctx, func(s *Session) {
				stats := s.Reload(doc)
				s.logger.Info("scheme reloaded", "components", stats.Components, "skipped", stats.Skipped)
			}); err != nil {
				return nil
			}
		}
	}
}
