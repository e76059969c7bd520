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

package inspect

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/inspect/apis"
	"dirpx.dev/inspect/config"
	"dirpx.dev/inspect/qualifier"
	"dirpx.dev/inspect/registry"
)

// init publishes the default snapshot.
func init() {
	cfg := config.DefaultConfig()
	st.Store(&state{cfg: cfg, reg: registry.New(cfg)})
}

var (
	// ErrNilRegistry is returned when a rebuild produced no registry.
	ErrNilRegistry = errors.New("inspect: builder returned nil registry")
	// ErrNilValue is returned by Validate for an untyped nil.
	ErrNilValue = errors.New("inspect: cannot infer the type of a nil value")
	// ErrRegistryPinned is returned by Use while a registry set with
	// SetRegistry is in place.
	ErrRegistryPinned = errors.New("inspect: registry is pinned")
)

// Validator returns the validator for raw from the global registry.
func Validator(raw any) (apis.Validator, error) {
	return st.Load().reg.Validator(raw)
}

// ValidatorWith returns the validator for raw and quals from the global
// registry.
func ValidatorWith(raw any, quals qualifier.Set) (apis.Validator, error) {
	return st.Load().reg.ValidatorWith(raw, quals)
}

// Validate validates v with the global registry's validator for its
// dynamic type.
func Validate(v any) error {
	t := reflect.TypeOf(v)
	if t == nil {
		return ErrNilValue
	}
	val, err := Validator(t)
	if err != nil {
		return err
	}
	return val.Validate(v)
}

// IsValid reports whether Validate(v) succeeds. Resolution errors count as
// invalid.
func IsValid(v any) bool {
	return Validate(v) == nil
}

// Typed is a validator for values of static type T.
type Typed[T any] struct {
	v apis.Validator
}

// Validate validates v.
func (t Typed[T]) Validate(v T) error { return t.v.Validate(v) }

// IsValid reports whether v is valid.
func (t Typed[T]) IsValid(v T) bool { return t.v.Validate(v) == nil }

// Validator returns the untyped validator.
func (t Typed[T]) Validator() apis.Validator { return t.v }

// For resolves the validator for T from reg, or from the global registry
// when reg is nil.
func For[T any](reg apis.Registry) (Typed[T], error) {
	if reg == nil {
		reg = Registry()
	}
	v, err := reg.Validator(reflect.TypeFor[T]())
	if err != nil {
		return Typed[T]{}, err
	}
	return Typed[T]{v: v}, nil
}

// MustFor is like For but panics on error.
func MustFor[T any](reg apis.Registry) Typed[T] {
	t, err := For[T](reg)
	if err != nil {
		panic(err)
	}
	return t
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration. Unless the registry is pinned,
// the registry is rebuilt with cfg, keeping its user factories; the new
// registry starts with an empty cache.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	cfg = config.Normalize(cfg)

	nreg := old.reg
	if !old.pinned {
		reg, err := old.reg.NewBuilder().WithConfig(cfg).Build()
		if err != nil {
			panic(fmt.Errorf("%w: %w", ErrNilRegistry, err))
		}
		nreg = reg
	}
	if nreg == nil {
		panic(ErrNilRegistry)
	}

	st.Store(&state{cfg: cfg, reg: nreg, pinned: old.pinned})
}

// Use rebuilds the global registry with factories appended after the user
// factories already in place.
func Use(factories ...apis.Factory) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	if old.pinned {
		return ErrRegistryPinned
	}

	b := old.reg.NewBuilder().WithConfig(old.cfg)
	for _, f := range factories {
		b = b.Add(f)
	}
	reg, err := b.Build()
	if err != nil {
		return err
	}

	st.Store(&state{cfg: old.cfg, reg: reg})
	return nil
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry replaces the global registry and pins it: SetConfig and Use
// leave it alone until UnpinRegistry is called. A nil reg is ignored.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(&state{cfg: old.cfg, reg: reg, pinned: true})
}

// IsRegistryPinned reports whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().pinned
}

// UnpinRegistry lets SetConfig and Use rebuild the global registry again.
func UnpinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(&state{cfg: old.cfg, reg: old.reg})
}

// buildMu serializes writers so a snapshot is never built from a stale one.
var buildMu sync.Mutex

// st is the published snapshot.
var st atomic.Pointer[state]

// state is an immutable snapshot; writers publish a new one.
type state struct {
	cfg    apis.Config
	reg    apis.Registry
	pinned bool
}
