package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sadopc/timeledger/internal/log"
)

const appDir = "timeledger"

// Config is the process configuration. User preferences such as the daily
// budget live in the store's settings table instead.
type Config struct {
	DBPath   string
	LogFile  string
	LogLevel string

	ChimeEnabled  bool
	ChimeInterval time.Duration

	ExportDir string
}

// Load reads an optional .env file and then the environment.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the environment only.
func FromEnv() *Config {
	base := defaultBaseDir()
	home, _ := os.UserHomeDir()
	return &Config{
		DBPath:        getEnv("TIMELEDGER_DB_PATH", filepath.Join(base, "timeledger.db")),
		LogFile:       getEnv("TIMELEDGER_LOG_FILE", filepath.Join(base, "timeledger.log")),
		LogLevel:      getEnv("TIMELEDGER_LOG_LEVEL", "info"),
		ChimeEnabled:  getEnvBool("TIMELEDGER_CHIME", true),
		ChimeInterval: getEnvDuration("TIMELEDGER_CHIME_INTERVAL", time.Hour),
		ExportDir:     getEnv("TIMELEDGER_EXPORT_DIR", home),
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	}
	if c.LogFile == "" {
		errs = append(errs, "log file cannot be empty")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level %q: must be debug, info, warn or error", c.LogLevel))
	}
	if c.ChimeInterval < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid chime interval %v: must be at least 1 minute", c.ChimeInterval))
	}
	if c.ExportDir == "" {
		errs = append(errs, "export directory cannot be empty")
	} else if info, err := os.Stat(c.ExportDir); err != nil || !info.IsDir() {
		errs = append(errs, fmt.Sprintf("export directory %q does not exist", c.ExportDir))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func defaultBaseDir() string {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(cfg, appDir)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
