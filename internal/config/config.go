// Package config loads browser settings from a YAML file, the environment and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/zackbart/codebrowser/internal/theme"
)

// ThemeEnv names the environment variable holding the preferred theme.
const ThemeEnv = "CODEBROWSER_THEME"

// Config holds every user-tunable setting.
type Config struct {
	Themes           []string `yaml:"themes"`              // cycling order
	PreferredTheme   string   `yaml:"preferred_theme"`     // promoted to the front when listed
	HideTreeOnSelect bool     `yaml:"hide_tree_on_select"` // hide the tree when a file is picked
	ShowHidden       bool     `yaml:"show_hidden"`         // list dotfiles in the tree
	Ignore           []string `yaml:"ignore"`              // glob patterns hidden from the tree
	Watch            bool     `yaml:"watch"`               // re-render the selection when it changes
	TableRows        int      `yaml:"table_rows"`          // rows kept from CSV and parquet files
	ASCIIColumns     int      `yaml:"ascii_columns"`       // requested image width in characters

	Debug   bool   `yaml:"-"`
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Themes:       slices.Clone(theme.Favorites),
		Ignore:       []string{".git", "node_modules", "__pycache__"},
		TableRows:    500,
		ASCIIColumns: 150,
	}
}

// DefaultPath is $XDG_CONFIG_HOME/codebrowser/config.yaml or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "codebrowser", "config.yaml"), nil
}

// LoadFile overlays the YAML file at path on the defaults. A missing file is
// not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.merge(&file)
	return cfg, nil
}

func (c *Config) merge(o *Config) {
	if len(o.Themes) > 0 {
		c.Themes = o.Themes
	}
	if o.PreferredTheme != "" {
		c.PreferredTheme = o.PreferredTheme
	}
	if o.Ignore != nil {
		c.Ignore = o.Ignore
	}
	if o.TableRows != 0 {
		c.TableRows = o.TableRows
	}
	if o.ASCIIColumns != 0 {
		c.ASCIIColumns = o.ASCIIColumns
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	c.HideTreeOnSelect = c.HideTreeOnSelect || o.HideTreeOnSelect
	c.ShowHidden = c.ShowHidden || o.ShowHidden
	c.Watch = c.Watch || o.Watch
}

// ApplyEnv reads the preferred theme from lookup, usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(ThemeEnv); ok && v != "" {
		c.PreferredTheme = v
	}
}

// Flags are the command-line settings that override the file and environment.
type Flags struct {
	Theme            string
	HideTreeOnSelect bool
	Watch            bool
	Hidden           bool
	Debug            bool
	LogFile          string
}

// Bind registers the flags on fs.
func (f *Flags) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.Theme, "theme", "t", "", "preferred theme, moved to the front of the cycle")
	fs.BoolVar(&f.HideTreeOnSelect, "hide-tree-on-select", false, "hide the file tree after picking a file")
	fs.BoolVarP(&f.Watch, "watch", "w", false, "re-render the open file when it changes on disk")
	fs.BoolVar(&f.Hidden, "hidden", false, "show dotfiles in the tree")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "write logs to this file")
}

// Apply copies flags that were set on fs into c.
func (f *Flags) Apply(c *Config, fs *pflag.FlagSet) {
	if fs.Changed("theme") {
		c.PreferredTheme = f.Theme
	}
	if fs.Changed("hide-tree-on-select") {
		c.HideTreeOnSelect = f.HideTreeOnSelect
	}
	if fs.Changed("watch") {
		c.Watch = f.Watch
	}
	if fs.Changed("hidden") {
		c.ShowHidden = f.Hidden
	}
	if fs.Changed("log-file") {
		c.LogFile = f.LogFile
	}
	c.Debug = f.Debug
}

// Validate checks the settings are usable.
func (c *Config) Validate() error {
	if len(c.Themes) == 0 {
		return errors.New("themes: at least one theme is required")
	}
	if err := theme.Validate(c.Themes); err != nil {
		return fmt.Errorf("themes: %w", err)
	}
	if c.TableRows <= 0 {
		return fmt.Errorf("table_rows must be positive, got %d", c.TableRows)
	}
	if c.ASCIIColumns <= 0 {
		return fmt.Errorf("ascii_columns must be positive, got %d", c.ASCIIColumns)
	}
	return nil
}

// Catalog builds the theme cycle with the preferred theme promoted.
func (c *Config) Catalog() (*theme.Catalog, error) {
	return theme.NewCatalog(c.Themes, c.PreferredTheme)
}
