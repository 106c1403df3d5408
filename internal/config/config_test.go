package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"TIMELEDGER_DB_PATH", "TIMELEDGER_LOG_FILE", "TIMELEDGER_LOG_LEVEL", "TIMELEDGER_CHIME", "TIMELEDGER_CHIME_INTERVAL", "TIMELEDGER_EXPORT_DIR"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()

	if !strings.HasSuffix(cfg.DBPath, filepath.Join("timeledger", "timeledger.db")) {
		t.Fatalf("DBPath = %q", cfg.DBPath)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
	if !cfg.ChimeEnabled || cfg.ChimeInterval != time.Hour {
		t.Fatalf("chime defaults = %v %v", cfg.ChimeEnabled, cfg.ChimeInterval)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TIMELEDGER_DB_PATH", filepath.Join(dir, "x.db"))
	t.Setenv("TIMELEDGER_LOG_LEVEL", "debug")
	t.Setenv("TIMELEDGER_CHIME", "false")
	t.Setenv("TIMELEDGER_CHIME_INTERVAL", "30m")
	t.Setenv("TIMELEDGER_EXPORT_DIR", dir)

	cfg := FromEnv()
	if cfg.DBPath != filepath.Join(dir, "x.db") || cfg.LogLevel != "debug" || cfg.ChimeEnabled || cfg.ChimeInterval != 30*time.Minute || cfg.ExportDir != dir {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestFromEnvBadValuesFallBack(t *testing.T) {
	t.Setenv("TIMELEDGER_CHIME", "maybe")
	t.Setenv("TIMELEDGER_CHIME_INTERVAL", "soon")
	cfg := FromEnv()
	if !cfg.ChimeEnabled || cfg.ChimeInterval != time.Hour {
		t.Fatalf("bad values should fall back: %+v", cfg)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := &Config{
		DBPath:        "",
		LogFile:       "x.log",
		LogLevel:      "loud",
		ChimeInterval: time.Second,
		ExportDir:     filepath.Join(t.TempDir(), "missing"),
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"database path", "log level", "chime interval", "export directory"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TIMELEDGER_LOG_LEVEL=warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	os.Unsetenv("TIMELEDGER_LOG_LEVEL")
	t.Cleanup(func() { os.Unsetenv("TIMELEDGER_LOG_LEVEL") })

	if cfg := Load(); cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want warn from .env", cfg.LogLevel)
	}
}
