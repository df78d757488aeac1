// Package testutil provides shared test helpers for setting up day stores and
// calendar services.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/calservice"
	"github.com/starford/daycal/internal/click"
	"github.com/starford/daycal/internal/daydb"
	"github.com/starford/daycal/internal/dayinfo"
	"github.com/starford/daycal/internal/storage"
)

// Today is the fixed date TestService treats as today.
var Today = caldate.MustParse("2022-10-25")

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *daydb.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "daycal-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := daydb.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDays creates a temporary days directory with a storage.Provider.
func TestDays(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// TestService starts a calendar service over repo with the clock fixed at
// noon of Today, Monday as first weekday, no midnight timer and click timers
// that never fire. pub may be nil.
func TestService(t *testing.T, repo dayinfo.Repository, pub calservice.Publisher) *calservice.Service {
	t.Helper()
	now := Today.Time(time.Local).Add(12 * time.Hour)
	svc, err := calservice.New(context.Background(), calservice.Config{
		Repo:           repo,
		FirstDayOfWeek: time.Monday,
		Publisher:      pub,
		Now:            func() time.Time { return now },
		NoMidnight:     true,
		ClickOptions: []click.Option{click.WithAfterFunc(func(time.Duration, func()) func() bool {
			return func() bool { return true }
		})},
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(svc.Close)
	return svc
}
