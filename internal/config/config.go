// Package config loads edlkit settings from defaults, an edlkit.yaml file and
// EDLKIT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/tsawler/edlkit/format"
	"github.com/tsawler/edlkit/transform"
)

// Config holds the complete edlkit configuration
type Config struct {
	Log         LogConfig        `mapstructure:"log"`
	Encoding    string           `mapstructure:"encoding"` // latin1 or utf-8
	SearchPaths []string         `mapstructure:"search_paths"`
	Schema      string           `mapstructure:"schema"` // widget catalog file
	Colors      string           `mapstructure:"colors"` // colors.list file
	Concurrency int              `mapstructure:"concurrency"`
	Resize      ResizeConfig     `mapstructure:"resize"`
	Titlebar    TitlebarConfig   `mapstructure:"titlebar"`
	Substitute  SubstituteConfig `mapstructure:"substitute"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ResizeConfig holds resize settings
type ResizeConfig struct {
	Rounding    string   `mapstructure:"rounding"`
	SnapFonts   bool     `mapstructure:"snap_fonts"`
	NoFontScale []string `mapstructure:"no_font_scale"`
}

// TitlebarConfig holds title bar settings
type TitlebarConfig struct {
	Height      int    `mapstructure:"height"`
	HelpFile    string `mapstructure:"help_file"`
	TooltipFile string `mapstructure:"tooltip_file"`
	Area        string `mapstructure:"area"` // selects the "<area> title" color
}

// SubstituteConfig holds substitution settings
type SubstituteConfig struct {
	Rules     string `mapstructure:"rules"` // default rules file
	MaxDepth  int    `mapstructure:"max_depth"`
	CacheSize int    `mapstructure:"cache_size"`
}

// DefaultConfig returns a new configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Log:         LogConfig{Level: "info"},
		Encoding:    "latin1",
		SearchPaths: edmDataFiles(),
		Concurrency: 4,
		Resize: ResizeConfig{
			Rounding:  "half-away-from-zero",
			SnapFonts: true,
		},
		Titlebar: TitlebarConfig{
			Height:      30,
			HelpFile:    "generic-help",
			TooltipFile: "generic-tooltip",
			Area:        "CO",
		},
		Substitute: SubstituteConfig{
			MaxDepth:  100,
			CacheSize: 64,
		},
	}
}

// edmDataFiles returns the directories listed in EDMDATAFILES, EDM's own
// display search path
func edmDataFiles() []string {
	var dirs []string
	for _, dir := range filepath.SplitList(os.Getenv("EDMDATAFILES")) {
		if dir = strings.TrimSpace(dir); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Load loads configuration from file and environment variables. An empty
// configPath searches for edlkit.yaml in the current directory and in
// $HOME/.config/edlkit; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("EDLKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("edlkit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/edlkit")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := format.ParseEncoding(c.Encoding); err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}
	if _, err := transform.ParseRounding(c.Resize.Rounding); err != nil {
		return fmt.Errorf("invalid resize.rounding: %w", err)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency: %d (must be at least 1)", c.Concurrency)
	}
	if c.Titlebar.Height <= 10 {
		return fmt.Errorf("invalid titlebar.height: %d (must be more than 10)", c.Titlebar.Height)
	}
	if c.Substitute.MaxDepth < 1 {
		return fmt.Errorf("invalid substitute.max_depth: %d", c.Substitute.MaxDepth)
	}
	if c.Substitute.CacheSize < 1 {
		return fmt.Errorf("invalid substitute.cache_size: %d", c.Substitute.CacheSize)
	}
	return nil
}

// FileEncoding returns the configured file encoding
func (c *Config) FileEncoding() format.Encoding {
	enc, _ := format.ParseEncoding(c.Encoding)
	return enc
}

// Rounding returns the configured rounding policy
func (c *Config) Rounding() transform.Rounding {
	r, _ := transform.ParseRounding(c.Resize.Rounding)
	return r
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("encoding", defaults.Encoding)
	v.SetDefault("search_paths", defaults.SearchPaths)
	v.SetDefault("schema", defaults.Schema)
	v.SetDefault("colors", defaults.Colors)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("resize.rounding", defaults.Resize.Rounding)
	v.SetDefault("resize.snap_fonts", defaults.Resize.SnapFonts)
	v.SetDefault("resize.no_font_scale", defaults.Resize.NoFontScale)
	v.SetDefault("titlebar.height", defaults.Titlebar.Height)
	v.SetDefault("titlebar.help_file", defaults.Titlebar.HelpFile)
	v.SetDefault("titlebar.tooltip_file", defaults.Titlebar.TooltipFile)
	v.SetDefault("titlebar.area", defaults.Titlebar.Area)
	v.SetDefault("substitute.rules", defaults.Substitute.Rules)
	v.SetDefault("substitute.max_depth", defaults.Substitute.MaxDepth)
	v.SetDefault("substitute.cache_size", defaults.Substitute.CacheSize)
}
