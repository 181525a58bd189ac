// Package config loads the optional slangc project file.
//
// The file is TOML (slang.toml) or YAML (slang.yaml, slang.yml); the format
// is picked from the extension. Fields left out of the file keep their
// defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/slang-lang/slang/syntax"
)

// Format is the encoding of a configuration file.
type Format int

const (
	// FormatTOML is the default format.
	FormatTOML Format = iota
	FormatYAML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Filenames lists the project files Discover looks for, in order.
var Filenames = []string{"slang.toml", "slang.yaml", "slang.yml"}

// Allowed values of the enumerated fields.
var (
	EmitModes  = []string{"text", "yaml", "json"}
	ColorModes = []string{"auto", "always", "never"}
)

// Config is the decoded project file.
type Config struct {
	// Language is a semver constraint the frontend's language version
	// must satisfy. Empty accepts any version.
	Language string `toml:"language" yaml:"language"`

	Output Output `toml:"output" yaml:"output"`
	Log    Log    `toml:"log" yaml:"log"`
	Watch  Watch  `toml:"watch" yaml:"watch"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// Output controls how slangc prints trees and diagnostics.
type Output struct {
	Emit  string `toml:"emit" yaml:"emit"`
	Color string `toml:"color" yaml:"color"`
}

// Log sets the level of the CLI logger.
type Log struct {
	Level string `toml:"level" yaml:"level"`
}

// Watch configures check --watch.
type Watch struct {
	Debounce string `toml:"debounce" yaml:"debounce"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		Output: Output{Emit: "text", Color: "auto"},
		Log:    Log{Level: "info"},
		Watch:  Watch{Debounce: "100ms"},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data, detectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes content in the given format on top of the defaults and
// validates the result. Unknown keys are rejected.
func Parse(content []byte, format Format) (*Config, error) {
	cfg := Default()
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		// An empty document decodes to io.EOF and leaves the defaults.
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		md, err := toml.Decode(string(content), cfg)
		if err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Discover loads the first of Filenames present in dir. It returns the
// defaults when none exists.
func Discover(dir string) (*Config, error) {
	for _, name := range Filenames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		return Load(path)
	}
	return Default(), nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(EmitModes, c.Output.Emit) {
		errs = append(errs, fmt.Errorf("output.emit: %q is not one of %s", c.Output.Emit, strings.Join(EmitModes, ", ")))
	}
	if !slices.Contains(ColorModes, c.Output.Color) {
		errs = append(errs, fmt.Errorf("output.color: %q is not one of %s", c.Output.Color, strings.Join(ColorModes, ", ")))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := c.Watch.Interval(); err != nil {
		errs = append(errs, fmt.Errorf("watch.debounce: %w", err))
	}
	if err := CheckLanguage(c.Language); err != nil {
		errs = append(errs, fmt.Errorf("language: %w", err))
	}
	return errors.Join(errs...)
}

// SlogLevel parses the level name ("debug", "info", "warn", "error").
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, err
	}
	return level, nil
}

// Interval parses the debounce duration. It must not be negative.
func (w Watch) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", w.Debounce)
	}
	return d, nil
}

// CheckLanguage reports whether syntax.LanguageVersion satisfies the
// constraint. An empty constraint always passes.
func CheckLanguage(constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(syntax.LanguageVersion)
	if err != nil {
		return fmt.Errorf("invalid language version %q: %w", syntax.LanguageVersion, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("language version %s does not satisfy %q", v, constraint)
	}
	return nil
}

// detectFormat picks the format from the file extension, TOML by default.
func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}
