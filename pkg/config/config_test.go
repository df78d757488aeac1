package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type testConfig struct {
	Name     string        `yaml:"name"`
	Interval time.Duration `yaml:"interval"`
}

func (c *testConfig) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("DAYCAL_TEST_NAME", "daycal")
	var cfg testConfig
	if err := Load(writeFile(t, "name: ${DAYCAL_TEST_NAME}\ninterval: 400ms\n"), &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "daycal" || cfg.Interval != 400*time.Millisecond {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	var cfg testConfig
	err := Load(writeFile(t, "name: x\nnmae: y\n"), &cfg)
	if err == nil || !strings.Contains(err.Error(), "nmae") {
		t.Errorf("err = %v, want unknown field error", err)
	}
}

func TestLoad_ValidatorCalled(t *testing.T) {
	cfg := testConfig{}
	err := Load(writeFile(t, "interval: 1s\n"), &cfg)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("err = %v", err)
	}
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	cfg := testConfig{Name: "default"}
	if err := Load(writeFile(t, ""), &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "default" {
		t.Errorf("name = %q", cfg.Name)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	fallback := writeFile(t, "name: fallback\n")
	var cfg testConfig
	if err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"), fallback, &cfg); err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.Name != "fallback" {
		t.Errorf("name = %q", cfg.Name)
	}
	if err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"), "", &cfg); err == nil {
		t.Error("expected error without default file")
	}
}
