package daydb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/models"
	"github.com/starford/daycal/internal/parser"
	"github.com/starford/daycal/internal/storage"
)

// ImportStats summarises one Import run.
type ImportStats struct {
	Imported []caldate.YearMonth `json:"imported"`
	Removed  []caldate.YearMonth `json:"removed"`
	Skipped  int                 `json:"skipped"`
}

// Import brings the database up to date with a days directory:
//   - new or changed month files replace the rows of their month
//   - months whose file disappeared lose their rows
//
// Unchanged files are recognised by checksum and skipped. The files are the
// source of truth for their months: rows written only to the database are
// replaced when their month is imported again.
func Import(ctx context.Context, db *DB, store storage.Provider, logger *slog.Logger) (ImportStats, error) {
	var stats ImportStats

	files, err := store.List()
	if err != nil {
		return stats, err
	}
	checksums, err := db.importChecksums(ctx)
	if err != nil {
		return stats, err
	}

	onDisk := make(map[caldate.YearMonth]struct{}, len(files))
	for _, f := range files {
		onDisk[f.Month] = struct{}{}
		if checksums[f.Month] == f.Checksum {
			stats.Skipped++
			continue
		}
		if err := db.importFile(ctx, store, f); err != nil {
			logger.Warn("import: month failed", slog.String("path", f.Path), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("import: month imported", slog.String("path", f.Path))
		stats.Imported = append(stats.Imported, f.Month)
	}

	for ym := range checksums {
		if _, ok := onDisk[ym]; ok {
			continue
		}
		if err := db.removeMonth(ctx, ym); err != nil {
			logger.Warn("import: remove failed", slog.String("month", ym.String()), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("import: month removed", slog.String("month", ym.String()))
		stats.Removed = append(stats.Removed, ym)
	}
	return stats, nil
}

func (db *DB) importFile(ctx context.Context, store storage.Provider, f models.MonthFile) error {
	data, err := store.Read(f.Path)
	if err != nil {
		return err
	}
	infos, err := parser.Parse(f.Month, data)
	if err != nil {
		return err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("daydb: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := deleteRange(ctx, tx, f.Month.FirstDay(), f.Month.LastDay()); err != nil {
		return err
	}
	for _, info := range infos {
		if err := upsertInfo(ctx, tx, info); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO imports (month, checksum) VALUES (?, ?)
		ON CONFLICT(month) DO UPDATE SET checksum = excluded.checksum
	`, f.Month.String(), f.Checksum); err != nil {
		return fmt.Errorf("daydb: record import: %w", err)
	}
	return tx.Commit()
}

func (db *DB) removeMonth(ctx context.Context, ym caldate.YearMonth) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("daydb: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := deleteRange(ctx, tx, ym.FirstDay(), ym.LastDay()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM imports WHERE month = ?`, ym.String()); err != nil {
		return fmt.Errorf("daydb: forget import: %w", err)
	}
	return tx.Commit()
}

func (db *DB) importChecksums(ctx context.Context) (map[caldate.YearMonth]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT month, checksum FROM imports`)
	if err != nil {
		return nil, fmt.Errorf("daydb: import checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[caldate.YearMonth]string)
	for rows.Next() {
		var month, cs string
		if err := rows.Scan(&month, &cs); err != nil {
			return nil, err
		}
		ym, err := caldate.ParseYearMonth(month)
		if err != nil {
			continue
		}
		out[ym] = cs
	}
	return out, rows.Err()
}
