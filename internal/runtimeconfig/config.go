package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrStorageDriverUnknown = errors.New("langmanager config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("langmanager config: storage dsn is required")
var ErrLoggingLevelInvalid = errors.New("langmanager config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("langmanager config: logging format is invalid")
var ErrRetentionInvalid = errors.New("langmanager config: retention days must be zero or positive")
var ErrDefaultLanguageRequired = errors.New("langmanager config: default language is required")
var ErrLanguageEmpty = errors.New("langmanager config: language codes must not be empty")
var ErrContentTypeRequired = errors.New("langmanager config: managed content type is required")

// Config aggregates runtime settings for the language manager module.
// Fields use simple types so host applications can bind them from
// flags, files, or the environment.
type Config struct {
	DefaultLanguage    string   `env:"LANGMANAGER_DEFAULT_LANGUAGE"`
	Languages          []string `env:"LANGMANAGER_LANGUAGES" envSeparator:","`
	ManagedContentType string   `env:"LANGMANAGER_CONTENT_TYPE"`
	Storage            StorageConfig
	Cache              CacheConfig
	Retention          RetentionConfig
	Logging            LoggingConfig
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `env:"LANGMANAGER_STORAGE_DRIVER"`
	DSN    string `env:"LANGMANAGER_STORAGE_DSN"`
}

// CacheConfig toggles read-through repository caching.
type CacheConfig struct {
	Enabled    bool          `env:"LANGMANAGER_CACHE_ENABLED"`
	DefaultTTL time.Duration `env:"LANGMANAGER_CACHE_TTL"`
}

// RetentionConfig controls cleanup of synced staging items.
type RetentionConfig struct {
	MaxAgeDays    int           `env:"LANGMANAGER_RETENTION_DAYS"`
	SweepInterval time.Duration `env:"LANGMANAGER_RETENTION_INTERVAL"`
}

// LoggingConfig captures options for the structured logging provider.
type LoggingConfig struct {
	Level     string `env:"LANGMANAGER_LOG_LEVEL"`
	Format    string `env:"LANGMANAGER_LOG_FORMAT"`
	AddSource bool   `env:"LANGMANAGER_LOG_SOURCE"`
}

func DefaultConfig() Config {
	return Config{
		DefaultLanguage:    "en",
		Languages:          []string{"en"},
		ManagedContentType: "page",
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "file:langmanager?mode=memory&cache=shared&_fk=1",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Retention: RetentionConfig{
			MaxAgeDays:    30,
			SweepInterval: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "",
		},
	}
}

func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DefaultLanguage) == "" {
		return ErrDefaultLanguageRequired
	}
	for _, lang := range cfg.Languages {
		if strings.TrimSpace(lang) == "" {
			return ErrLanguageEmpty
		}
	}
	if strings.TrimSpace(cfg.ManagedContentType) == "" {
		return ErrContentTypeRequired
	}
	driver := normalizeDriver(cfg.Storage.Driver)
	if !isSupportedDriver(driver) {
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if driver != "memory" && strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	if cfg.Retention.MaxAgeDays < 0 {
		return ErrRetentionInvalid
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func normalizeDriver(driver string) string {
	return strings.ToLower(strings.TrimSpace(driver))
}

func isSupportedDriver(driver string) bool {
	switch driver {
	case "memory", "sqlite", "postgres":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
