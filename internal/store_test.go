package internal

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/calservice"
	"github.com/starford/daycal/internal/dayinfo"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestStore_SQLiteUpdateSurvivesFileEdit(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, DriverSQLite)
	store, err := openStore(cfg.Store)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	if _, err := store.importDays(ctx, quietLogger()); err != nil {
		t.Fatal(err)
	}

	updater, ok := store.repo.(dayinfo.Updater)
	if !ok {
		t.Fatal("sqlite store is not an Updater")
	}
	party := caldate.MustParse("2022-10-20")
	if ok, err := updater.Update(ctx, dayinfo.NewInfo(party, "Party", "bring snacks")); !ok || err != nil {
		t.Fatalf("Update = %v, %v", ok, err)
	}

	// Someone edits another day of the same month by hand.
	path := filepath.Join(cfg.Store.DaysDir, "2022-10.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Party") {
		t.Fatalf("update not written to the month file:\n%s", data)
	}
	edited := strings.Replace(string(data), "Dentist", "Doctor", 1)
	if err := os.WriteFile(path, []byte(edited), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.importDays(ctx, quietLogger()); err != nil {
		t.Fatal(err)
	}

	got, found, err := store.repo.FindBy(ctx, party)
	if err != nil || !found || got.Header != "Party" {
		t.Errorf("after re-import: %+v found=%v err=%v", got, found, err)
	}
	got, _, _ = store.repo.FindBy(ctx, caldate.MustParse("2022-10-03"))
	if got.Header != "Doctor" {
		t.Errorf("file edit not imported, header = %q", got.Header)
	}
}

func TestStore_SQLiteClearRemovesFromFile(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, DriverSQLite)
	store, err := openStore(cfg.Store)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	_, _ = store.importDays(ctx, quietLogger())

	dentist := caldate.MustParse("2022-10-03")
	if ok, err := store.repo.(dayinfo.Updater).Update(ctx, dayinfo.NewInfo(dentist, "")); !ok || err != nil {
		t.Fatalf("Update = %v, %v", ok, err)
	}
	if _, err := store.importDays(ctx, quietLogger()); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := store.repo.FindBy(ctx, dentist); found {
		t.Error("cleared day came back after import")
	}
}

func TestStore_SQLiteKeepsSearch(t *testing.T) {
	store, err := openStore(testConfig(t, DriverSQLite).Store)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	if _, ok := store.repo.(calservice.Searcher); !ok {
		t.Error("mirrored sqlite store lost Search")
	}
}
