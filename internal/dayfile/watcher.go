package dayfile

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/checksum"
	"github.com/starford/daycal/internal/storage"
)

// Debounce is how long the watcher waits for a burst of writes to settle.
const Debounce = 150 * time.Millisecond

// ChangeCallback is called with the month whose file changed on disk.
type ChangeCallback func(ym caldate.YearMonth)

// Watch runs an fsnotify watcher on dir, the root of r's storage, until ctx
// is cancelled. Bursts of events are debounced; files whose content matches
// what r last read or wrote are skipped, so the repository's own writes do
// not echo back. Removed and renamed month files are reported as changed.
func (r *Repository) Watch(ctx context.Context, dir string, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}
	if files, err := r.store.List(); err == nil {
		for _, f := range files {
			r.known.LoadOrStore(f.Path, f.Checksum)
		}
	}
	logger.Info("watcher: started", slog.String("dir", dir))

	pending := make(map[string]struct{})
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	schedule := func(path string) {
		pending[path] = struct{}{}
		if flushTimer == nil {
			flushTimer = time.NewTimer(Debounce)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-flushCh:
			for path := range pending {
				r.settle(path, logger, cb)
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if _, isMonth := storage.MonthOf(name); !isMonth {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				schedule(name)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// settle decides whether path really changed and reports its month.
func (r *Repository) settle(path string, logger *slog.Logger, cb ChangeCallback) {
	ym, _ := storage.MonthOf(path)

	data, err := r.store.Read(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if _, had := r.known.LoadAndDelete(path); !had {
			return
		}
		logger.Debug("watcher: month removed", slog.String("path", path))
	case err != nil:
		logger.Warn("watcher: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	case r.seen(path, data):
		return
	default:
		r.known.Store(path, checksum.Sum(data))
		logger.Debug("watcher: month changed", slog.String("path", path))
	}
	if cb != nil {
		cb(ym)
	}
}
