// Package config loads the YAML configuration of the tablemaker command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvConfigFile is the environment variable
// with an explicit config file path.
const EnvConfigFile = "TABLEMAKER_CONFIG"

// Config is the configuration of the tablemaker command.
type Config struct {
	Field    Field    `yaml:"field"`
	Editor   Editor   `yaml:"editor"`
	RichText RichText `yaml:"rich_text"`
	Store    Store    `yaml:"store"`
	Log      Log      `yaml:"log"`
}

// Field holds the label and instruction settings of the field.
// Empty values use the built-in defaults.
type Field struct {
	Handle              string `yaml:"handle" validate:"required,excludesall=[]"`
	ColumnsLabel        string `yaml:"columns_label"`
	ColumnsInstructions string `yaml:"columns_instructions"`
	ColumnsAddRowLabel  string `yaml:"columns_add_row_label"`
	RowsLabel           string `yaml:"rows_label"`
	RowsInstructions    string `yaml:"rows_instructions"`
	RowsAddRowLabel     string `yaml:"rows_add_row_label"`
}

type Editor struct {
	// Debounce is the quiet period before text edits are applied.
	Debounce time.Duration `yaml:"debounce" validate:"gte=0,lte=1m"`
}

type RichText struct {
	Enabled    bool   `yaml:"enabled"`
	ConfigFile string `yaml:"config_file"`
	Language   string `yaml:"language" validate:"required,bcp47_language_tag"`
	SiteID     int    `yaml:"site_id" validate:"gte=1"`
}

type Store struct {
	// Path of the SQLite database file
	Path string `yaml:"path" validate:"required"`
}

type Log struct {
	Level    string `yaml:"level" validate:"oneof=debug info warn error"`
	Encoding string `yaml:"encoding" validate:"oneof=console json"`
}

// Default returns the configuration used for missing values.
func Default() *Config {
	return &Config{
		Field:    Field{Handle: "table"},
		Editor:   Editor{Debounce: 250 * time.Millisecond},
		RichText: RichText{Enabled: true, ConfigFile: "redactor/Project.json", Language: "en", SiteID: 1},
		Store:    Store{Path: "tablemaker.db"},
		Log:      Log{Level: "info", Encoding: "console"},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the config values.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// Parse parses YAML data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Path returns the config file path from $TABLEMAKER_CONFIG
// or else tablemaker/config.yaml in the user config directory.
func Path() (string, error) {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tablemaker", "config.yaml"), nil
}

// Load reads the config file at path.
// An empty path uses Path().
// A missing file results in the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return Default(), nil
		}
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Write writes c as YAML to path.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
