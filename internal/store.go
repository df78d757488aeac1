package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/dayfile"
	"github.com/starford/daycal/internal/daydb"
	"github.com/starford/daycal/internal/dayinfo"
	"github.com/starford/daycal/internal/storage"
)

// dayStore is the configured repository plus the days directory behind it.
type dayStore struct {
	repo  dayinfo.Repository
	db    *daydb.DB
	files *dayfile.Repository
	fs    storage.Provider
	dir   string
}

// openStore opens the repository selected by cfg.Driver. With sqlite and a
// days directory, updates go to both.
func openStore(cfg StoreConfig) (*dayStore, error) {
	s := &dayStore{dir: cfg.DaysDir}

	if cfg.DaysDir != "" {
		if err := os.MkdirAll(cfg.DaysDir, 0o755); err != nil {
			return nil, fmt.Errorf("create days dir: %w", err)
		}
		fs, err := storage.NewFS(cfg.DaysDir)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		s.fs = fs
		s.files = dayfile.New(fs)
	}

	switch cfg.Driver {
	case DriverYAML:
		s.repo = s.files
	default:
		db, err := daydb.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		s.db, s.repo = db, db
		if s.files != nil {
			s.repo = mirroredDB{DB: db, files: s.files}
		}
	}
	return s, nil
}

// mirroredDB writes each update to the month file before the database, so a
// later import of that month carries the update instead of dropping it.
type mirroredDB struct {
	*daydb.DB
	files *dayfile.Repository
}

var _ dayinfo.Updater = mirroredDB{}

func (m mirroredDB) Update(ctx context.Context, info dayinfo.Info) (bool, error) {
	if ok, err := m.files.Update(ctx, info); err != nil || !ok {
		return ok, err
	}
	return m.DB.Update(ctx, info)
}

// importDays brings the sqlite database up to date with the days directory.
// It is a no-op for the yaml driver or without a days directory.
func (s *dayStore) importDays(ctx context.Context, logger *slog.Logger) (daydb.ImportStats, error) {
	if s.db == nil || s.fs == nil {
		return daydb.ImportStats{}, nil
	}
	stats, err := daydb.Import(ctx, s.db, s.fs, logger)
	if err != nil {
		return stats, fmt.Errorf("import days: %w", err)
	}
	logger.Info("days imported",
		slog.Int("imported", len(stats.Imported)),
		slog.Int("removed", len(stats.Removed)),
		slog.Int("skipped", stats.Skipped))
	return stats, nil
}

// watch reports months changed on disk until ctx is done. With the sqlite
// driver the directory is re-imported before cb runs.
func (s *dayStore) watch(ctx context.Context, logger *slog.Logger, cb func(caldate.YearMonth)) error {
	if s.files == nil {
		return nil
	}
	return s.files.Watch(ctx, s.dir, logger, func(ym caldate.YearMonth) {
		if _, err := s.importDays(ctx, logger); err != nil {
			logger.Warn("re-import failed", slog.String("month", ym.String()), slog.String("error", err.Error()))
			return
		}
		cb(ym)
	})
}

func (s *dayStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
