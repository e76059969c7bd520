/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"github.com/rs/zerolog"

	"dirpx.dev/inspect/apis"
)

const (
	// DefaultTagName is the default struct tag key read by the reflection
	// descriptor.
	DefaultTagName = "inspect"
	// DefaultMode is the default structural failure mode.
	DefaultMode = apis.FailFast
	// DefaultPlatformTypes represents the default for PlatformTypes.
	// When false, standard library structs need an explicit validator.
	DefaultPlatformTypes = false
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return Normalize(cfg)
}

// DefaultConfig is the default configuration used when none is provided.
// Its logger discards everything.
func DefaultConfig() apis.Config {
	return apis.Config{
		TagName:       DefaultTagName,
		Mode:          DefaultMode,
		PlatformTypes: DefaultPlatformTypes,
		Logger:        zerolog.Nop(),
	}
}

// Normalize replaces invalid values of cfg with their defaults: an empty
// tag name and an unknown mode.
func Normalize(cfg apis.Config) apis.Config {
	if cfg.TagName == "" {
		cfg.TagName = DefaultTagName
	}
	if cfg.Mode != apis.FailFast && cfg.Mode != apis.Aggregate {
		cfg.Mode = DefaultMode
	}
	return cfg
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithTagName sets the struct tag key. An empty name resets to the default.
func WithTagName(name string) Option {
	return func(c *apis.Config) {
		if name == "" {
			c.TagName = DefaultTagName
			return
		}
		c.TagName = name
	}
}

// WithMode sets the structural failure mode.
func WithMode(mode apis.Mode) Option {
	return func(c *apis.Config) {
		c.Mode = mode
	}
}

// WithPlatformTypes sets the PlatformTypes option.
func WithPlatformTypes(allow bool) Option {
	return func(c *apis.Config) {
		c.PlatformTypes = allow
	}
}

// WithLogger sets the logger receiving resolution diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *apis.Config) {
		c.Logger = l
	}
}
