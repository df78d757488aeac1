package dayinfo

import (
	"context"
	"sync"

	"github.com/starford/daycal/internal/caldate"
)

// Repository loads infos. A date without an info is not an error: FindBy
// returns found=false and the FindAll methods simply omit it.
type Repository interface {
	FindBy(ctx context.Context, date caldate.Date) (info Info, found bool, err error)
	FindAllByMonth(ctx context.Context, ym caldate.YearMonth) (map[caldate.Date]Info, error)
	FindAllByYear(ctx context.Context, year int) (map[caldate.Date]Info, error)
}

// Updater is implemented by repositories that persist Cache.Set calls.
// A repository without it accepts every update.
type Updater interface {
	Update(ctx context.Context, info Info) (ok bool, err error)
}

// MemoryRepository keeps infos in a map. It is safe for concurrent use.
type MemoryRepository struct {
	mu     sync.RWMutex
	byDate map[caldate.Date]Info
}

// NewMemoryRepository returns a repository seeded with infos.
func NewMemoryRepository(infos ...Info) *MemoryRepository {
	r := &MemoryRepository{byDate: make(map[caldate.Date]Info, len(infos))}
	for _, i := range infos {
		r.byDate[i.Date] = i.clone()
	}
	return r
}

// Put stores info, replacing any previous one for the same date.
func (r *MemoryRepository) Put(info Info) {
	r.mu.Lock()
	r.byDate[info.Date] = info.clone()
	r.mu.Unlock()
}

// Remove deletes the info for date.
func (r *MemoryRepository) Remove(date caldate.Date) {
	r.mu.Lock()
	delete(r.byDate, date)
	r.mu.Unlock()
}

func (r *MemoryRepository) FindBy(_ context.Context, date caldate.Date) (Info, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byDate[date]
	return i.clone(), ok, nil
}

func (r *MemoryRepository) FindAllByMonth(_ context.Context, ym caldate.YearMonth) (map[caldate.Date]Info, error) {
	return r.collect(func(d caldate.Date) bool { return ym.Contains(d) }), nil
}

func (r *MemoryRepository) FindAllByYear(_ context.Context, year int) (map[caldate.Date]Info, error) {
	return r.collect(func(d caldate.Date) bool { return d.Year == year }), nil
}

// Update stores info, or removes its date when info has neither header nor
// content.
func (r *MemoryRepository) Update(_ context.Context, info Info) (bool, error) {
	if !info.HasHeader() && !info.HasContent() {
		r.Remove(info.Date)
		return true, nil
	}
	r.Put(info)
	return true, nil
}

func (r *MemoryRepository) collect(match func(caldate.Date) bool) map[caldate.Date]Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[caldate.Date]Info)
	for d, i := range r.byDate {
		if match(d) {
			out[d] = i.clone()
		}
	}
	return out
}
