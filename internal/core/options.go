package core

import "slices"

const DefaultDoctype = "<!DOCTYPE html>"

type TransformConfig struct {
	Presets    []string `yaml:"presets"`
	Style      string   `yaml:"style"`
	Extensions []string `yaml:"extensions"`
}

type EngineOptions struct {
	Doctype        string
	Beautify       bool
	TransformViews bool
	Transform      TransformConfig
}

func DefaultTransformConfig() TransformConfig {
	return TransformConfig{
		Presets:    []string{"gfm", "highlight"},
		Style:      "github",
		Extensions: []string{".md", ".markdown"},
	}
}

func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		Doctype:        DefaultDoctype,
		Beautify:       false,
		TransformViews: true,
		Transform:      DefaultTransformConfig(),
	}
}

// Clone returns a copy that shares no slices with o.
func (o EngineOptions) Clone() EngineOptions {
	o.Transform.Presets = slices.Clone(o.Transform.Presets)
	o.Transform.Extensions = slices.Clone(o.Transform.Extensions)
	return o
}
