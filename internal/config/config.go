package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jask/rowmark/internal/theme"
)

// Config holds application configuration.
type Config struct {
	Table  TableConfig
	Keymap KeymapConfig
	Log    LogConfig
	Source SourceConfig
	Labels map[string]theme.LabelStyle
}

// TableConfig selects the container and the labels applied to its rows.
type TableConfig struct {
	ID             string `mapstructure:"id"`
	SelectedLabels string `mapstructure:"selected_labels"`
	MarkedLabels   string `mapstructure:"marked_labels"`
	Height         int    `mapstructure:"height"`
}

// KeymapConfig points at an optional keybinding override file.
type KeymapConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls the debug log written while the TUI owns the terminal.
type LogConfig struct {
	Path string `mapstructure:"path"`
}

// SourceConfig tells the demo host where to read rows from.
type SourceConfig struct {
	CSV       string `mapstructure:"csv"`
	CSVHeader bool   `mapstructure:"csv_header"`
	DB        string `mapstructure:"db"`
	Query     string `mapstructure:"query"`
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "rowmark")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "rowmark")
}

// Load reads configuration from file and env. Env var overrides use prefix ROWMARK_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("table.id", "rows")
	v.SetDefault("table.selected_labels", "selected")
	v.SetDefault("table.marked_labels", "marked")
	v.SetDefault("table.height", 0)
	v.SetDefault("keymap.path", filepath.Join(configDir(), "keys.toml"))
	v.SetDefault("log.path", filepath.Join(os.TempDir(), "rowmark.log"))
	v.SetDefault("source.csv", "")
	v.SetDefault("source.csv_header", true)
	v.SetDefault("source.db", "")
	v.SetDefault("source.query", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ROWMARK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ROWMARK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the controller cannot work with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Table.ID) == "" {
		return fmt.Errorf("table.id is required")
	}
	if c.Table.Height < 0 {
		return fmt.Errorf("table.height must not be negative, got %d", c.Table.Height)
	}
	if c.Source.CSV != "" && c.Source.DB != "" {
		return fmt.Errorf("source.csv and source.db are mutually exclusive")
	}
	if c.Source.DB != "" && strings.TrimSpace(c.Source.Query) == "" {
		return fmt.Errorf("source.query is required with source.db")
	}
	return nil
}

// Theme returns the default label theme extended with configured label styles.
func (c Config) Theme() *theme.Theme {
	th := theme.Default()
	for name, ls := range c.Labels {
		th.Set(name, ls)
	}
	return th
}
