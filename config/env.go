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
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"dirpx.dev/inspect/apis"
)

// ErrParsingEnv is returned when the environment cannot be decoded.
var ErrParsingEnv = errors.New("inspect(config): failed to parse environment variables")

// envConfig is the environment view of apis.Config. The logger is not
// configurable from the environment.
type envConfig struct {
	TagName       string    `env:"INSPECT_TAG_NAME" envDefault:"inspect"`
	Mode          apis.Mode `env:"INSPECT_MODE" envDefault:"FailFast"`
	PlatformTypes bool      `env:"INSPECT_PLATFORM_TYPES" envDefault:"false"`
}

// FromEnv builds a configuration from INSPECT_TAG_NAME, INSPECT_MODE and
// INSPECT_PLATFORM_TYPES, applying opts afterwards. Unset variables keep
// their defaults.
func FromEnv(opts ...Option) (apis.Config, error) {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return DefaultConfig(), fmt.Errorf("%w: %w", ErrParsingEnv, err)
	}

	base := []Option{
		WithTagName(e.TagName),
		WithMode(e.Mode),
		WithPlatformTypes(e.PlatformTypes),
	}
	return NewConfig(append(base, opts...)...), nil
}

// LoadEnv loads variables from the given .env files into the process
// environment, or from ./.env when no file is given. Variables already set
// are not overridden.
func LoadEnv(files ...string) error {
	return godotenv.Load(files...)
}
