package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TALLY_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path == "" {
		t.Fatalf("default database path empty")
	}
	if cfg.UI.WeekStartDay() != time.Monday {
		t.Fatalf("default week start = %v, want Monday", cfg.UI.WeekStartDay())
	}
	if cfg.UI.CurrencySymbol != "$" {
		t.Fatalf("default currency symbol = %q", cfg.UI.CurrencySymbol)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := "[database]\npath = \"/tmp/custom.db\"\n\n[ui]\nweek_start = \"sunday\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TALLY_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "/tmp/custom.db" {
		t.Fatalf("database path = %q", cfg.Database.Path)
	}
	if cfg.UI.WeekStartDay() != time.Sunday {
		t.Fatalf("week start = %v, want Sunday", cfg.UI.WeekStartDay())
	}
}

func TestWeekStartDayFallback(t *testing.T) {
	u := UIConfig{WeekStart: "someday"}
	if u.WeekStartDay() != time.Monday {
		t.Fatalf("unrecognized week start should fall back to Monday")
	}
	u = UIConfig{WeekStart: " Saturday "}
	if u.WeekStartDay() != time.Saturday {
		t.Fatalf("saturday not recognized")
	}
}
