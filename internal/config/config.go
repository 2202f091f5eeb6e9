package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"nmcatalog/internal/distribution"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// SeedEnv is read from the environment (or a .env file) to override catalog.seed
const SeedEnv = "NMCATALOG_SEED"

// Config represents the application configuration
type Config struct {
	Catalog  CatalogConfig      `toml:"catalog"`
	Themes   distribution.Table `toml:"themes" validate:"dive"`
	Database DatabaseConfig     `toml:"database"`
	Audio    AudioConfig        `toml:"audio"`
	Logging  LoggingConfig      `toml:"logging"`
}

// CatalogConfig contains the generation range and file locations
type CatalogConfig struct {
	InputPath            string `toml:"input_path" validate:"required"`
	OutputPath           string `toml:"output_path" validate:"required"`
	IDPrefix             string `toml:"id_prefix"`
	StartIndex           int    `toml:"start_index" validate:"gte=0"`
	EndIndex             int    `toml:"end_index" validate:"gte=0"`
	ContinueFromExisting bool   `toml:"continue_from_existing"`
	Seed                 uint64 `toml:"seed"` // 0 picks a fresh seed per run
}

// DatabaseConfig contains the optional SQLite mirror configuration
type DatabaseConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path" validate:"required_if=Enabled true"`
}

// AudioConfig contains settings for the audio readiness audit
type AudioConfig struct {
	LibraryPath        string   `toml:"library_path" validate:"required"`
	SupportedFormats   []string `toml:"supported_formats" validate:"min=1"`
	MinDurationSeconds int      `toml:"min_duration_seconds" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=text json"`
	File   string `toml:"file"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			InputPath:  "neural-music-100-tracks-v2.csv",
			OutputPath: "neural-music-100-tracks-complete.csv",
			IDPrefix:   "NM",
			StartIndex: 10,
			EndIndex:   109,
		},
		Themes: distribution.DefaultTable(),
		Database: DatabaseConfig{
			Enabled: false,
			Path:    "./nmcatalog.db",
		},
		Audio: AudioConfig{
			LibraryPath:        "./audio",
			SupportedFormats:   []string{".mp3", ".flac", ".wav", ".m4a"},
			MinDurationSeconds: 3600,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
	}
}

// LoadConfig loads configuration from a TOML file, creating it with defaults
// when it does not exist yet
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := cfg.SaveToFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config file: %w", err)
		}
	} else {
		// A [[themes]] array in the file replaces the default table instead
		// of being merged into it.
		cfg.Themes = nil
		meta, err := toml.DecodeFile(configPath, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if !meta.IsDefined("themes") {
			cfg.Themes = distribution.DefaultTable()
		}
	}

	if err := cfg.applyEnv(filepath.Join(filepath.Dir(configPath), ".env")); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnv loads envFile if present and applies supported overrides
func (c *Config) applyEnv(envFile string) error {
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if v := os.Getenv(SeedEnv); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", SeedEnv, v, err)
		}
		c.Catalog.Seed = seed
	}
	return nil
}

// SaveToFile saves the configuration to a TOML file
func (c *Config) SaveToFile(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	header := `# Neural Music catalog generator configuration
# [catalog] controls the index range and the input/output CSV files.
# [[themes]] lists the theme distribution in shuffle order; counts must add up
# to the number of indices between start_index and end_index.

`
	if _, err := file.WriteString(header); err != nil {
		return fmt.Errorf("failed to write config header: %w", err)
	}

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config to TOML: %w", err)
	}

	return nil
}

var validate = validator.New()

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Catalog.EndIndex < c.Catalog.StartIndex {
		return fmt.Errorf("catalog end_index %d is before start_index %d", c.Catalog.EndIndex, c.Catalog.StartIndex)
	}

	seen := make(map[string]bool, len(c.Themes))
	for _, theme := range c.Themes {
		if seen[theme.Name] {
			return fmt.Errorf("theme %q listed more than once", theme.Name)
		}
		seen[theme.Name] = true
	}

	return nil
}

// IndexRange returns the first and last index to generate. With
// ContinueFromExisting the range starts right after lastExisting and keeps
// the configured length.
func (c *Config) IndexRange(lastExisting int) (int, int) {
	start, end := c.Catalog.StartIndex, c.Catalog.EndIndex
	if c.Catalog.ContinueFromExisting && lastExisting >= 0 {
		length := end - start
		start = lastExisting + 1
		end = start + length
	}
	return start, end
}

// IsFormatSupported checks if an audio file extension is supported
func (c *Config) IsFormatSupported(format string) bool {
	for _, supported := range c.Audio.SupportedFormats {
		if supported == format {
			return true
		}
	}
	return false
}
