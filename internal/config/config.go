// Package config reads the storeview YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/3-lines-studio/storeview/internal/core"
)

var ErrInvalidConfig = errors.New("invalid config")

type Route struct {
	Pattern string         `yaml:"pattern"`
	View    string         `yaml:"view"`
	Locals  map[string]any `yaml:"locals"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config mirrors the YAML file. Engine fields left out of the file keep the
// engine defaults.
type Config struct {
	Views          string                `yaml:"views"`
	Env            string                `yaml:"env"`
	Addr           string                `yaml:"addr"`
	Public         string                `yaml:"public"`
	Doctype        *string               `yaml:"doctype"`
	Beautify       bool                  `yaml:"beautify"`
	TransformViews *bool                 `yaml:"transformViews"`
	Transform      *core.TransformConfig `yaml:"transform"`
	Routes         []Route               `yaml:"routes"`
	Log            Log                   `yaml:"log"`
}

func Default() Config {
	return Config{
		Views: "views",
		Addr:  ":8080",
		Log:   Log{Level: "info", Format: "text"},
	}
}

// Load reads path. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Views == "" {
		return fmt.Errorf("%w: views is required", ErrInvalidConfig)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalidConfig, c.Log.Format)
	}
	for i, r := range c.Routes {
		if err := core.ValidateRoutePath(r.Pattern); err != nil {
			return fmt.Errorf("%w: routes[%d]: %v", ErrInvalidConfig, i, err)
		}
		if r.View == "" {
			return fmt.Errorf("%w: routes[%d]: view is required", ErrInvalidConfig, i)
		}
	}
	return nil
}

func (c Config) EngineOptions() core.EngineOptions {
	opts := core.DefaultEngineOptions()
	if c.Doctype != nil {
		opts.Doctype = *c.Doctype
	}
	opts.Beautify = c.Beautify
	if c.TransformViews != nil {
		opts.TransformViews = *c.TransformViews
	}
	// Transform keys left out of the file keep their defaults.
	if t := c.Transform; t != nil {
		if t.Presets != nil {
			opts.Transform.Presets = t.Presets
		}
		if t.Style != "" {
			opts.Transform.Style = t.Style
		}
		if t.Extensions != nil {
			opts.Transform.Extensions = t.Extensions
		}
	}
	return opts
}
