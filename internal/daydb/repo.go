package daydb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/dayinfo"
)

var (
	_ dayinfo.Repository = (*DB)(nil)
	_ dayinfo.Updater    = (*DB)(nil)
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Upsert inserts or replaces the info of one date.
func (db *DB) Upsert(ctx context.Context, info dayinfo.Info) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("daydb: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := upsertInfo(ctx, tx, info); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertInfo(ctx context.Context, tx *sql.Tx, info dayinfo.Info) error {
	content, _ := json.Marshal(nonNil(info.Content))
	_, err := tx.ExecContext(ctx, `
		INSERT INTO day_infos (date, header, content, body, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			header     = excluded.header,
			content    = excluded.content,
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, info.Date.String(), info.Header, string(content), strings.Join(info.Content, "\n"), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("daydb: upsert %s: %w", info.Date, err)
	}
	return ftsUpsert(ctx, tx, info)
}

// Delete removes the info of date.
func (db *DB) Delete(ctx context.Context, date caldate.Date) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("daydb: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := deleteRange(ctx, tx, date, date); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteRange(ctx context.Context, ex execer, from, to caldate.Date) error {
	ftsDeleteRange(ctx, ex, from, to)
	if _, err := ex.ExecContext(ctx, `DELETE FROM day_infos WHERE date BETWEEN ? AND ?`, from.String(), to.String()); err != nil {
		return fmt.Errorf("daydb: delete %s..%s: %w", from, to, err)
	}
	return nil
}

// Update stores info; an info without header and content deletes the row.
func (db *DB) Update(ctx context.Context, info dayinfo.Info) (bool, error) {
	var err error
	if info.HasHeader() || info.HasContent() {
		err = db.Upsert(ctx, info)
	} else {
		err = db.Delete(ctx, info.Date)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (db *DB) FindBy(ctx context.Context, date caldate.Date) (dayinfo.Info, bool, error) {
	var header, content string
	err := db.conn.QueryRowContext(ctx,
		`SELECT header, content FROM day_infos WHERE date = ?`, date.String()).Scan(&header, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return dayinfo.Info{}, false, nil
	}
	if err != nil {
		return dayinfo.Info{}, false, fmt.Errorf("daydb: find %s: %w", date, err)
	}
	info, err := decode(date.String(), header, content)
	if err != nil {
		return dayinfo.Info{}, false, err
	}
	return info, true, nil
}

func (db *DB) FindAllByMonth(ctx context.Context, ym caldate.YearMonth) (map[caldate.Date]dayinfo.Info, error) {
	return db.findRange(ctx, ym.FirstDay(), ym.LastDay())
}

func (db *DB) FindAllByYear(ctx context.Context, year int) (map[caldate.Date]dayinfo.Info, error) {
	return db.findRange(ctx, caldate.Of(year, time.January, 1), caldate.Of(year, time.December, 31))
}

func (db *DB) findRange(ctx context.Context, from, to caldate.Date) (map[caldate.Date]dayinfo.Info, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT date, header, content FROM day_infos WHERE date BETWEEN ? AND ? ORDER BY date`,
		from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("daydb: find %s..%s: %w", from, to, err)
	}
	defer rows.Close()

	out := make(map[caldate.Date]dayinfo.Info)
	for rows.Next() {
		var date, header, content string
		if err := rows.Scan(&date, &header, &content); err != nil {
			return nil, err
		}
		info, err := decode(date, header, content)
		if err != nil {
			return nil, err
		}
		out[info.Date] = info
	}
	return out, rows.Err()
}

// Count returns the number of stored infos.
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM day_infos`).Scan(&n); err != nil {
		return 0, fmt.Errorf("daydb: count: %w", err)
	}
	return n, nil
}

func decode(date, header, content string) (dayinfo.Info, error) {
	d, err := caldate.Parse(date)
	if err != nil {
		return dayinfo.Info{}, fmt.Errorf("daydb: row %q: %w", date, err)
	}
	var lines []string
	if err := json.Unmarshal([]byte(content), &lines); err != nil {
		return dayinfo.Info{}, fmt.Errorf("daydb: row %s content: %w", date, err)
	}
	return dayinfo.NewInfo(d, header, lines...), nil
}

func nonNil(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}
