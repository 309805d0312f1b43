package cli

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/genomicx/qrx/pkg/debounce"
	"github.com/genomicx/qrx/pkg/errors"
	"github.com/genomicx/qrx/pkg/logging"
)

// watchFile calls fn, debounced, whenever path changes, until the command
// context is cancelled. The directory is watched so editors that replace
// the file on save are still seen.
func watchFile(cmd *cobra.Command, path string, delay time.Duration, fn func()) error {
	logger := logging.GetLogger("watch")
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to start file watcher")
	}
	defer func() { _ = w.Close() }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "failed to resolve %s", path)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "failed to watch %s", path)
	}

	var mu sync.Mutex
	d := debounce.New(delay, func() {
		mu.Lock()
		defer mu.Unlock()
		fn()
	})
	defer func() {
		if d.Pending() {
			logger.Debug().Str("file", path).Msg("Dropping pending re-render")
		}
		d.Cancel()
	}()

	cmd.PrintErrln(styledf("Muted", MsgWatching, path))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			logger.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("Input changed")
			d.Trigger()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("Watcher error")
		}
	}
}
