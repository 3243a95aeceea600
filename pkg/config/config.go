// Package config holds the process-wide settings that decide whether pass
// observation is enabled and where its diagrams go.
//
// Settings come from the environment, from a TOML or YAML file, or are set
// programmatically at startup:
//
//	cfg, err := config.LoadFile("passview.toml")
//	if err != nil {
//	    return err
//	}
//	config.Set(cfg)
//
// When no destination is configured, observation is disabled and costs
// nothing beyond a configuration lookup.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/passview/pkg/errors"
	"github.com/matzehuels/passview/pkg/render/nodelink"
)

// Environment variables read by FromEnv.
const (
	EnvOutput            = "PASSVIEW_OUTPUT"
	EnvFormat            = "PASSVIEW_FORMAT"
	EnvIncludeAttributes = "PASSVIEW_INCLUDE_ATTRIBUTES"
	EnvIncludeParameters = "PASSVIEW_INCLUDE_PARAMETERS"
)

// DefaultImageFormat is used when no image format is configured.
const DefaultImageFormat = nodelink.FormatSVG

// Config configures pass observation.
type Config struct {
	// OutputDestination is a directory path or a sink URL (file://, redis://,
	// mongodb://). Empty disables observation.
	OutputDestination string `toml:"output_destination" yaml:"output_destination"`

	// ImageFormat is the diagram format: svg, png or dot.
	ImageFormat string `toml:"image_format" yaml:"image_format"`

	// IncludeAttributes keeps get_attr nodes in diagrams. Nil means unset,
	// so a later source can turn it off again.
	IncludeAttributes *bool `toml:"include_attributes" yaml:"include_attributes"`

	// IncludeParameters keeps parameter and buffer nodes in diagrams.
	IncludeParameters *bool `toml:"include_parameters" yaml:"include_parameters"`
}

// Bool returns a pointer to v, for the optional fields of Config.
func Bool(v bool) *bool { return &v }

// Enabled reports whether an output destination is configured.
func (c Config) Enabled() bool { return c.OutputDestination != "" }

// Format returns the parsed image format, falling back to DefaultImageFormat.
func (c Config) Format() (nodelink.Format, error) {
	if c.ImageFormat == "" {
		return DefaultImageFormat, nil
	}
	f, err := nodelink.ParseFormat(c.ImageFormat)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "image format")
	}
	return f, nil
}

// RenderOptions returns the diagram options implied by the config.
func (c Config) RenderOptions() nodelink.Options {
	return nodelink.Options{
		IncludeAttributes: c.IncludeAttributes != nil && *c.IncludeAttributes,
		IncludeParameters: c.IncludeParameters != nil && *c.IncludeParameters,
	}
}

// Validate checks the config for unusable values.
func (c Config) Validate() error {
	_, err := c.Format()
	return err
}

// Merge returns c with every set field of o applied on top: non-empty
// strings and non-nil booleans.
func (c Config) Merge(o Config) Config {
	if o.OutputDestination != "" {
		c.OutputDestination = o.OutputDestination
	}
	if o.ImageFormat != "" {
		c.ImageFormat = o.ImageFormat
	}
	if o.IncludeAttributes != nil {
		c.IncludeAttributes = o.IncludeAttributes
	}
	if o.IncludeParameters != nil {
		c.IncludeParameters = o.IncludeParameters
	}
	return c
}

// FromEnv builds a config from PASSVIEW_* environment variables.
func FromEnv() Config {
	return Config{
		OutputDestination: strings.TrimSpace(os.Getenv(EnvOutput)),
		ImageFormat:       strings.TrimSpace(os.Getenv(EnvFormat)),
		IncludeAttributes: envBool(EnvIncludeAttributes),
		IncludeParameters: envBool(EnvIncludeParameters),
	}
}

// envBool returns nil when key is unset or not a boolean.
func envBool(key string) *bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return nil
	}
	return &v
}

// LoadFile reads a TOML (.toml) or YAML (.yaml, .yml) config file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeConfig, err, "read config %s", path)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeConfig, err, "parse %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeConfig, err, "parse %s", path)
		}
	default:
		return Config{}, errors.New(errors.ErrCodeUnsupported, "config format %q (want .toml, .yaml or .yml)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// =============================================================================
// Process-wide configuration
// =============================================================================

var (
	current   Config
	loaded    bool
	currentMu sync.RWMutex
)

// Current returns the process-wide config. The first call loads it from the
// environment unless Set was called before.
func Current() Config {
	currentMu.RLock()
	if loaded {
		c := current
		currentMu.RUnlock()
		return c
	}
	currentMu.RUnlock()

	currentMu.Lock()
	defer currentMu.Unlock()
	if !loaded {
		current = FromEnv()
		loaded = true
	}
	return current
}

// Set replaces the process-wide config.
func Set(c Config) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = c
	loaded = true
}

// Reset forgets the process-wide config so the next Current call reloads it
// from the environment. This is primarily useful for testing.
func Reset() {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = Config{}
	loaded = false
}
