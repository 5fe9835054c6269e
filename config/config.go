package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultYearSubDir      = "by-year"
	DefaultAlbumSubDir     = "by-album"
	DefaultPreviewSubDir   = "previews"
	DefaultUnknownYearName = "unknown"
)

// Config is the resolved configuration consumed by the pipeline. it is
// assembled once in LoadConfig and treated as read-only afterwards
type Config struct {
	Input      InputConfig      `mapstructure:"input"`
	Output     OutputConfig     `mapstructure:"output"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Metadata   MetadataConfig   `mapstructure:"metadata"`
	Previews   PreviewConfig    `mapstructure:"previews"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
}

type InputConfig struct {
	ArchiveDir  string `mapstructure:"archive_dir"`
	ArchiveGlob string `mapstructure:"archive_glob"`
}

type OutputConfig struct {
	StagingDir      string `mapstructure:"staging_dir"`
	OutputDir       string `mapstructure:"output_dir"`
	YearSubDir      string `mapstructure:"year_subdir"`
	AlbumSubDir     string `mapstructure:"album_subdir"`
	UnknownYearName string `mapstructure:"unknown_year_name"`
}

type ProcessingConfig struct {
	Concurrency   int           `mapstructure:"concurrency"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
	UseHardLinks  bool          `mapstructure:"use_hard_links"`
	CopyFallback  bool          `mapstructure:"copy_fallback"`
}

type MetadataConfig struct {
	WriteGPS          bool `mapstructure:"write_gps"`
	WriteDescription  bool `mapstructure:"write_description"`
	WriteKeywords     bool `mapstructure:"write_keywords"`
	WriteDates        bool `mapstructure:"write_dates"`
	PreserveOriginals bool `mapstructure:"preserve_originals"`
}

type PreviewConfig struct {
	Enabled bool `mapstructure:"enabled"`
	MaxSize int  `mapstructure:"max_size"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// ServerConfig controls the optional read-only status endpoint
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// DatabaseConfig controls the optional run-catalog persistence
type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// YearDir returns the absolute root of the by-year tree
func (c Config) YearDir() string {
	return filepath.Join(c.Output.OutputDir, c.Output.YearSubDir)
}

// AlbumDir returns the absolute root of the by-album tree
func (c Config) AlbumDir() string {
	return filepath.Join(c.Output.OutputDir, c.Output.AlbumSubDir)
}

// PreviewDir returns the absolute root of the preview tree
func (c Config) PreviewDir() string {
	return filepath.Join(c.Output.OutputDir, DefaultPreviewSubDir)
}

// LoadConfig reads configuration from config.yaml (working directory or
// ./config) plus TAKEOUT_* environment overrides and applies defaults
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("input.archive_dir", ".")
	v.SetDefault("input.archive_glob", "takeout-*.zip")

	v.SetDefault("output.staging_dir", "./staging")
	v.SetDefault("output.output_dir", "./organized")
	v.SetDefault("output.year_subdir", DefaultYearSubDir)
	v.SetDefault("output.album_subdir", DefaultAlbumSubDir)
	v.SetDefault("output.unknown_year_name", DefaultUnknownYearName)

	v.SetDefault("processing.concurrency", runtime.NumCPU())
	v.SetDefault("processing.retry_attempts", 3)
	v.SetDefault("processing.retry_delay", 500*time.Millisecond)
	v.SetDefault("processing.use_hard_links", true)
	v.SetDefault("processing.copy_fallback", true)

	v.SetDefault("metadata.write_gps", true)
	v.SetDefault("metadata.write_description", true)
	v.SetDefault("metadata.write_keywords", true)
	v.SetDefault("metadata.write_dates", true)
	v.SetDefault("metadata.preserve_originals", false)

	v.SetDefault("previews.enabled", false)
	v.SetDefault("previews.max_size", 300)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)

	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", 8080)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.path", "takeout-runs.db")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// no config file is fine, defaults plus env cover everything
	}

	v.SetEnvPrefix("TAKEOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := resolvePaths(&cfg); err != nil {
		return nil, err
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return &cfg, nil
}

func resolvePaths(cfg *Config) error {
	for name, p := range map[string]*string{
		"archive directory": &cfg.Input.ArchiveDir,
		"staging directory": &cfg.Output.StagingDir,
		"output directory":  &cfg.Output.OutputDir,
	} {
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s '%s': %w", name, *p, err)
		}
		*p = abs
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Input.ArchiveGlob == "" {
		return fmt.Errorf("input.archive_glob cannot be empty")
	}
	if cfg.Processing.Concurrency <= 0 {
		return fmt.Errorf("processing.concurrency must be positive, got %d", cfg.Processing.Concurrency)
	}
	if cfg.Processing.RetryAttempts <= 0 {
		return fmt.Errorf("processing.retry_attempts must be positive, got %d", cfg.Processing.RetryAttempts)
	}
	if cfg.Output.YearSubDir == "" || cfg.Output.AlbumSubDir == "" {
		return fmt.Errorf("output year/album subdirectory names cannot be empty")
	}
	if cfg.Output.UnknownYearName == "" {
		return fmt.Errorf("output.unknown_year_name cannot be empty")
	}
	if cfg.Previews.Enabled && cfg.Previews.MaxSize <= 0 {
		return fmt.Errorf("previews.max_size must be positive, got %d", cfg.Previews.MaxSize)
	}
	return nil
}
