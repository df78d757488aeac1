// Package dayfile stores day infos as one YAML file per month and watches
// that directory for edits made outside the process.
package dayfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/checksum"
	"github.com/starford/daycal/internal/dayinfo"
	"github.com/starford/daycal/internal/parser"
	"github.com/starford/daycal/internal/storage"
)

// Repository implements dayinfo.Repository and dayinfo.Updater over a
// storage.Provider.
type Repository struct {
	store storage.Provider

	// mu serialises read-modify-write cycles of Update.
	mu sync.Mutex
	// known maps file path to the checksum last read or written by us.
	known sync.Map
}

var (
	_ dayinfo.Repository = (*Repository)(nil)
	_ dayinfo.Updater    = (*Repository)(nil)
)

// New returns a repository over store.
func New(store storage.Provider) *Repository {
	return &Repository{store: store}
}

func (r *Repository) readMonth(ym caldate.YearMonth) ([]dayinfo.Info, error) {
	path := storage.PathOf(ym)
	data, err := r.store.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dayfile: %w", err)
	}
	r.known.Store(path, checksum.Sum(data))
	infos, err := parser.Parse(ym, data)
	if err != nil {
		return nil, fmt.Errorf("dayfile: %w", err)
	}
	return infos, nil
}

func (r *Repository) FindBy(ctx context.Context, date caldate.Date) (dayinfo.Info, bool, error) {
	if err := ctx.Err(); err != nil {
		return dayinfo.Info{}, false, err
	}
	infos, err := r.readMonth(date.YearMonth())
	if err != nil {
		return dayinfo.Info{}, false, err
	}
	for _, i := range infos {
		if i.Date == date {
			return i, true, nil
		}
	}
	return dayinfo.Info{}, false, nil
}

func (r *Repository) FindAllByMonth(ctx context.Context, ym caldate.YearMonth) (map[caldate.Date]dayinfo.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos, err := r.readMonth(ym)
	if err != nil {
		return nil, err
	}
	out := make(map[caldate.Date]dayinfo.Info, len(infos))
	for _, i := range infos {
		out[i.Date] = i
	}
	return out, nil
}

func (r *Repository) FindAllByYear(ctx context.Context, year int) (map[caldate.Date]dayinfo.Info, error) {
	out := make(map[caldate.Date]dayinfo.Info)
	for m := time.January; m <= time.December; m++ {
		month, err := r.FindAllByMonth(ctx, caldate.MonthOf(year, m))
		if err != nil {
			return nil, err
		}
		for d, i := range month {
			out[d] = i
		}
	}
	return out, nil
}

// Update rewrites the month file of info. An info without header and
// content removes the day from the file; a month left empty loses its file.
func (r *Repository) Update(ctx context.Context, info dayinfo.Info) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	ym := info.Date.YearMonth()
	infos, err := r.readMonth(ym)
	if err != nil {
		return false, err
	}

	kept := infos[:0]
	for _, i := range infos {
		if i.Date != info.Date {
			kept = append(kept, i)
		}
	}
	if info.HasHeader() || info.HasContent() {
		kept = append(kept, info)
	}

	path := storage.PathOf(ym)
	if len(kept) == 0 {
		if err := r.store.Delete(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("dayfile: %w", err)
		}
		r.known.Delete(path)
		return true, nil
	}

	data, err := parser.Encode(ym, kept)
	if err != nil {
		return false, fmt.Errorf("dayfile: %w", err)
	}
	if err := r.store.Write(path, data); err != nil {
		return false, fmt.Errorf("dayfile: %w", err)
	}
	r.known.Store(path, checksum.Sum(data))
	return true, nil
}

// seen reports whether data is what the repository last read or wrote for path.
func (r *Repository) seen(path string, data []byte) bool {
	v, ok := r.known.Load(path)
	return ok && !checksum.Changed(v.(string), data)
}
