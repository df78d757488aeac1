package daydb

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/starford/daycal/internal/caldate"
	"github.com/starford/daycal/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_ = store.Write("2022-10.yaml", []byte("days:\n  - date: 2022-10-25\n    header: Birthday\n  - date: 2022-10-03\n    header: Dentist\n"))
	_ = store.Write("2022-11.yaml", []byte("days:\n  - date: 2022-11-01\n    header: Trip\n"))
	_ = store.Write("2022-12.yaml", []byte("days:\n  - date: 2023-01-01\n"))

	stats, err := Import(ctx, db, store, quietLogger())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(stats.Imported) != 2 {
		t.Errorf("imported = %v, want 2 months (the invalid file is skipped)", stats.Imported)
	}
	if n, _ := db.Count(ctx); n != 3 {
		t.Errorf("count = %d, want 3", n)
	}

	stats, _ = Import(ctx, db, store, quietLogger())
	if len(stats.Imported) != 0 || stats.Skipped != 2 {
		t.Errorf("second run = %+v, want 2 skipped", stats)
	}

	// Edit October, drop November.
	_ = store.Write("2022-10.yaml", []byte("days:\n  - date: 2022-10-25\n    header: Party\n"))
	_ = store.Delete("2022-11.yaml")
	stats, err = Import(ctx, db, store, quietLogger())
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(stats.Imported) != 1 || len(stats.Removed) != 1 {
		t.Errorf("third run = %+v", stats)
	}
	got, _, _ := db.FindBy(ctx, caldate.MustParse("2022-10-25"))
	if got.Header != "Party" {
		t.Errorf("header = %q, want %q", got.Header, "Party")
	}
	if _, found, _ := db.FindBy(ctx, caldate.MustParse("2022-10-03")); found {
		t.Error("day removed from the file still in the database")
	}
	if _, found, _ := db.FindBy(ctx, caldate.MustParse("2022-11-01")); found {
		t.Error("month removed from disk still in the database")
	}
}
