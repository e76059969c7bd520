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

package registry

import (
	"dirpx.dev/inspect/apis"
	"dirpx.dev/inspect/factory"
	"dirpx.dev/inspect/qualifier"
)

// NewBuilder returns an empty builder using cfg.
func NewBuilder(cfg apis.Config) apis.Builder {
	return &builder{cfg: cfg}
}

// builder is a mutable, single-goroutine assembler of user factories.
// The first error is sticky: later calls are ignored and Build reports it.
type builder struct {
	cfg       apis.Config
	factories []apis.Factory
	err       error
}

// Add appends a factory.
func (b *builder) Add(f apis.Factory) apis.Builder {
	if b.err != nil {
		return b
	}
	if f == nil {
		b.err = ErrNilFactory
		return b
	}
	b.factories = append(b.factories, f)
	return b
}

// AddValidator binds v to raw for unqualified requests.
func (b *builder) AddValidator(raw any, v apis.Validator) apis.Builder {
	if b.err != nil {
		return b
	}
	if err := checkBinding(raw, v); err != nil {
		b.err = err
		return b
	}
	bind, err := factory.Explicit(raw, v)
	if err != nil {
		b.err = err
		return b
	}
	return b.Add(bind)
}

// AddQualified binds v to raw for requests qualified with exactly tag.
func (b *builder) AddQualified(raw any, tag *qualifier.Tag, v apis.Validator) apis.Builder {
	if b.err != nil {
		return b
	}
	if err := checkBinding(raw, v); err != nil {
		b.err = err
		return b
	}
	if tag == nil {
		b.err = ErrNilQualifier
		return b
	}
	bind, err := factory.Qualified(raw, tag, v)
	if err != nil {
		b.err = err
		return b
	}
	return b.Add(bind)
}

// WithConfig replaces the configuration.
func (b *builder) WithConfig(cfg apis.Config) apis.Builder {
	b.cfg = cfg
	return b
}

// Build constructs the Registry, or reports the first recorded error.
func (b *builder) Build() (apis.Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	return newRegistry(b.cfg, b.factories), nil
}

func checkBinding(raw any, v apis.Validator) error {
	if raw == nil {
		return ErrNilType
	}
	if v == nil {
		return ErrNilValidator
	}
	return nil
}
