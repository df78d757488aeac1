//go:build !sqlite_fts5

package daydb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/dayinfo"
)

func initFTS(_ *sql.DB) error {
	// Without FTS5, Search scans day_infos with LIKE.
	return nil
}

func ftsUpsert(_ context.Context, _ *sql.Tx, _ dayinfo.Info) error { return nil }

func ftsDeleteRange(_ context.Context, _ execer, _, _ caldate.Date) {}

// Search performs a LIKE-based search over headers and content lines. The
// query is matched literally.
func (db *DB) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	like := likePattern(query)
	rows, err := db.conn.QueryContext(ctx, `
		SELECT date, header, substr(body, 1, 200)
		FROM day_infos
		WHERE header LIKE ? ESCAPE '\' OR body LIKE ? ESCAPE '\'
		ORDER BY date
		LIMIT ?
	`, like, like, limit)
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
