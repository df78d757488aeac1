package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const octoberFile = "days:\n  - date: 2022-10-25\n    header: Birthday\n  - date: 2022-10-03\n    header: Dentist\n"

func testConfig(t *testing.T, driver string) *Config {
	t.Helper()
	dir := t.TempDir()
	days := filepath.Join(dir, "days")
	if err := os.MkdirAll(days, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(days, "2022-10.yaml"), []byte(octoberFile), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := NewDefaultConfig()
	cfg.App.LogLevel = slog.LevelError
	cfg.Calendar.InitialDate = "2022-10-25"
	cfg.Store = StoreConfig{
		Driver:  driver,
		SQLite:  SQLiteConfig{Path: filepath.Join(dir, "daycal.db")},
		DaysDir: days,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestRender_Month(t *testing.T) {
	for _, driver := range []string{DriverYAML, DriverSQLite} {
		var out bytes.Buffer
		err := Render(context.Background(), WithConfig(testConfig(t, driver)), WithOutput(&out))
		if err != nil {
			t.Fatalf("%s: Render: %v", driver, err)
		}
		if !strings.Contains(out.String(), "October 2022") {
			t.Errorf("%s: no title in\n%s", driver, out.String())
		}
		if !strings.Contains(out.String(), "•") {
			t.Errorf("%s: no info marker in\n%s", driver, out.String())
		}
	}
}

func TestRender_Year(t *testing.T) {
	var out bytes.Buffer
	err := Render(context.Background(), WithConfig(testConfig(t, DriverYAML)), WithOutput(&out), WithYearView(true))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{"2022", "January", "December"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("year output lacks %q", want)
		}
	}
}

func TestRender_RequiresConfig(t *testing.T) {
	if err := Render(context.Background()); err == nil {
		t.Error("expected error without config")
	}
}

func TestSync(t *testing.T) {
	cfg := testConfig(t, DriverSQLite)

	var out bytes.Buffer
	if err := Sync(context.Background(), WithConfig(cfg), WithOutput(&out)); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	var res struct {
		Imported []string `json:"imported"`
		Skipped  int      `json:"skipped"`
		Days     int      `json:"days"`
	}
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if len(res.Imported) != 1 || res.Imported[0] != "2022-10" || res.Days != 2 {
		t.Errorf("first sync = %+v", res)
	}

	out.Reset()
	if err := Sync(context.Background(), WithConfig(cfg), WithOutput(&out)); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	_ = json.Unmarshal(out.Bytes(), &res)
	if res.Skipped != 1 || res.Days != 2 {
		t.Errorf("second sync = %+v", res)
	}
}

func TestSync_RejectsYAMLDriver(t *testing.T) {
	if err := Sync(context.Background(), WithConfig(testConfig(t, DriverYAML))); err == nil {
		t.Error("expected error for yaml driver")
	}
}
