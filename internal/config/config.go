// Package config provides configuration management for renderstatic using
// Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// The configuration system supports YAML files and environment variable
// overrides with the RENDERSTATIC_ prefix. It describes the template
// engines, application directories, render destinations, template contexts,
// the url manifest exposed to generated JavaScript, and the placeholder and
// define registrations consumed during generation.
package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Engines      []EngineConfig            `yaml:"engines" mapstructure:"engines"`
	Apps         []AppConfig               `yaml:"apps" mapstructure:"apps"`
	StaticRoot   string                    `yaml:"static_root" mapstructure:"static_root"`
	Context      any                       `yaml:"context" mapstructure:"context"`
	Templates    map[string]TemplateConfig `yaml:"templates" mapstructure:"templates"`
	URLs         URLConfig                 `yaml:"urls" mapstructure:"urls"`
	Placeholders PlaceholderConfig         `yaml:"placeholders" mapstructure:"placeholders"`
	Defines      []DefineConfig            `yaml:"defines" mapstructure:"defines"`
	Watch        WatchConfig               `yaml:"watch" mapstructure:"watch"`

	// BaseDir anchors relative paths in the file the config was read from.
	// Set by Load, never read from the file itself.
	BaseDir string `yaml:"-" mapstructure:"-"`
}

// EngineConfig describes one template engine. Engines are consulted in
// order; earlier engines win when first-engine rendering is requested.
type EngineConfig struct {
	// Name uniquely identifies the engine. Defaults to the backend name.
	Name string `yaml:"name" mapstructure:"name"`
	// Backend selects the template implementation: "text" or "html".
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Dirs are filesystem search directories, in precedence order.
	Dirs []string `yaml:"dirs" mapstructure:"dirs"`
	// AppDirs enables per-app template directory search.
	AppDirs bool `yaml:"app_dirs" mapstructure:"app_dirs"`
	// AppDirname overrides the per-app template directory name.
	AppDirname string `yaml:"app_dirname" mapstructure:"app_dirname"`
	// Delimiters overrides the default {{ }} action delimiters.
	Delimiters []string `yaml:"delimiters" mapstructure:"delimiters"`
}

// AppConfig names an application directory participating in template
// discovery and destination resolution.
type AppConfig struct {
	Label string `yaml:"label" mapstructure:"label"`
	Path  string `yaml:"path" mapstructure:"path"`
}

// TemplateConfig carries per-template settings.
type TemplateConfig struct {
	// Dest is where the rendered artifact is written. Relative paths are
	// resolved against the config file's directory. Empty falls back to the
	// owning app's static directory, then to static_root.
	Dest string `yaml:"dest" mapstructure:"dest"`
	// Context is a context specifier layered over the global context.
	Context any `yaml:"context" mapstructure:"context"`
}

// URLConfig locates the application's route table.
type URLConfig struct {
	// Manifest is a YAML route manifest path.
	Manifest string `yaml:"manifest" mapstructure:"manifest"`
}

// PlaceholderConfig registers reversal samples from configuration.
type PlaceholderConfig struct {
	Variables  []VariablePlaceholder  `yaml:"variables" mapstructure:"variables"`
	Converters []ConverterPlaceholder `yaml:"converters" mapstructure:"converters"`
	Unnamed    []UnnamedPlaceholder   `yaml:"unnamed" mapstructure:"unnamed"`
}

type VariablePlaceholder struct {
	Name  string `yaml:"name" mapstructure:"name"`
	Value any    `yaml:"value" mapstructure:"value"`
	App   string `yaml:"app" mapstructure:"app"`
}

type ConverterPlaceholder struct {
	Converter string `yaml:"converter" mapstructure:"converter"`
	Value     any    `yaml:"value" mapstructure:"value"`
}

type UnnamedPlaceholder struct {
	URL  string `yaml:"url" mapstructure:"url"`
	Args []any  `yaml:"args" mapstructure:"args"`
	App  string `yaml:"app" mapstructure:"app"`
}

// DefineConfig declares a constant group exported to generated JavaScript.
type DefineConfig struct {
	Name   string         `yaml:"name" mapstructure:"name"`
	Parent string         `yaml:"parent" mapstructure:"parent"`
	Values map[string]any `yaml:"values" mapstructure:"values"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	// Debounce groups rapid changes into one re-render.
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
	// Paths are extra directories to watch beyond the engine search dirs.
	Paths []string `yaml:"paths" mapstructure:"paths"`
	// Ignore are directory names skipped while watching.
	Ignore []string `yaml:"ignore" mapstructure:"ignore"`
}

// NewViper builds the viper instance configuration loading runs on. The
// custom key delimiter keeps template names containing dots ("urls.js")
// from being split into nested keys.
func NewViper() *viper.Viper {
	return viper.NewWithOptions(viper.KeyDelimiter("::"))
}

// V is the viper instance behind Load. The CLI points it at the selected
// config file and binds flags and environment variables to it.
var V = NewViper()

// Load builds a Config from the current state of V.
func Load() (*Config, error) {
	var config Config
	if err := V.Unmarshal(&config); err != nil {
		return nil, err
	}

	if used := V.ConfigFileUsed(); used != "" {
		config.BaseDir = filepath.Dir(used)
	} else {
		config.BaseDir = "."
	}

	// Apply defaults only when the file left them unset.
	if len(config.Engines) == 0 {
		config.Engines = []EngineConfig{{
			Backend: "text",
			AppDirs: len(config.Apps) > 0,
			Dirs:    []string{"static_templates"},
		}}
	}
	for i := range config.Engines {
		if config.Engines[i].Backend == "" {
			config.Engines[i].Backend = "text"
		}
		if config.Engines[i].Name == "" {
			config.Engines[i].Name = config.Engines[i].Backend
		}
	}
	if config.Watch.Debounce == 0 {
		config.Watch.Debounce = 300 * time.Millisecond
	}
	if len(config.Watch.Ignore) == 0 {
		config.Watch.Ignore = []string{".git", "node_modules"}
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Resolve turns a possibly relative path into one anchored at the config
// file's directory.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}
