package patchforge

import (
	"patchforge/pkg/patchforge/codec"
	"patchforge/pkg/patchforge/tagging"
)

type Config struct {
	Schema    codec.Schema
	Neighbors int // k for the parameter tagger
	Logger    Logger
}

type Option func(*Config)

// WithSchema selects the synth family codec. Defaults to the Synth1
// schema.
func WithSchema(s codec.Schema) Option {
	return func(c *Config) {
		c.Schema = s
	}
}

// WithNeighbors sets k for the parameter tagger.
func WithNeighbors(k int) Option {
	return func(c *Config) {
		c.Neighbors = k
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func defaultConfig() *Config {
	return &Config{
		Neighbors: tagging.DefaultNeighbors,
	}
}
