//go:build sqlite_fts5

package daydb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/dayinfo"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS days_fts USING fts5(
			date UNINDEXED,
			header,
			content,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(ctx context.Context, tx *sql.Tx, info dayinfo.Info) error {
	_, _ = tx.ExecContext(ctx, `DELETE FROM days_fts WHERE date = ?`, info.Date.String())
	_, err := tx.ExecContext(ctx, `INSERT INTO days_fts (date, header, content) VALUES (?, ?, ?)`,
		info.Date.String(), info.Header, strings.Join(info.Content, "\n"))
	if err != nil {
		return fmt.Errorf("daydb: upsert fts: %w", err)
	}
	return nil
}

func ftsDeleteRange(ctx context.Context, ex execer, from, to caldate.Date) {
	_, _ = ex.ExecContext(ctx, `DELETE FROM days_fts WHERE date BETWEEN ? AND ?`, from.String(), to.String())
}

// Search performs an FTS5 full-text search and returns matching days with snippets.
func (db *DB) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT date,
		       header,
		       snippet(days_fts, 2, '<b>', '</b>', '...', 32)
		FROM days_fts
		WHERE days_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("daydb: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var date string
		var r SearchResult
		if err := rows.Scan(&date, &r.Header, &r.Snippet); err != nil {
			return nil, err
		}
		if r.Date, err = caldate.Parse(date); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
