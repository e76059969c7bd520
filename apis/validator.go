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

package apis

import (
	"errors"
	"reflect"

	"dirpx.dev/inspect/qualifier"
	"dirpx.dev/inspect/typekey"
)

// ErrAbsent is returned by Accessor.Get when the value sits behind a nil
// pointer that is allowed to be nil, such as a nullable embedded struct.
// The accessor is then not validated at all.
var ErrAbsent = errors.New("inspect(apis): accessor value is absent")

// Validator checks a value and reports violations as a non-nil error.
// Validators are immutable after construction and safe for concurrent use.
type Validator interface {
	// Validate returns nil if v is valid.
	Validate(v any) error
}

// Factory is a pluggable producer of validators. A Registry walks its
// factories in order and the first non-nil result wins.
type Factory interface {
	// Create returns a validator for key annotated with quals, or (nil, nil)
	// if this factory does not apply. A non-nil error is a fatal
	// configuration error and stops resolution.
	//
	// Implementations may use reg.Validator* to compose validators of other
	// types, or reg.NextValidator to delegate to the validator that would
	// apply without them.
	Create(key typekey.Key, quals qualifier.Set, reg Registry) (Validator, error)
}

// CreateFunc is the signature of a function-backed Factory.
type CreateFunc func(key typekey.Key, quals qualifier.Set, reg Registry) (Validator, error)

// NewFactory adapts fn to a Factory. The returned value has pointer
// identity, so it can be passed to Registry.NextValidator.
func NewFactory(fn CreateFunc) Factory {
	return &funcFactory{fn: fn}
}

type funcFactory struct {
	fn CreateFunc
}

func (f *funcFactory) Create(key typekey.Key, quals qualifier.Set, reg Registry) (Validator, error) {
	return f.fn(key, quals, reg)
}

// SelfValidating is implemented by types that validate themselves instead
// of relying on factory-derived composition. reg may be used to request
// validators for nested values. Those validators run as part of the same
// validation call, so references already visited in it are not walked
// again and a cyclic value terminates.
type SelfValidating interface {
	InspectSelf(reg Registry) error
}

// Describer is implemented by struct types that supply their own accessor
// descriptor, typically from generated code. It is called on the zero
// value of the type, once, at resolution time.
type Describer interface {
	InspectAccessors() []Accessor
}

// Accessor describes one validated member of a structural type.
type Accessor struct {
	// Name identifies the accessor in failure paths.
	Name string
	// Type is the static type of the value returned by Get.
	Type reflect.Type
	// Nullable allows Get to return a nil value.
	Nullable bool
	// Qualifiers are passed along when the accessor's validator is
	// resolved from the registry.
	Qualifiers qualifier.Set
	// Validator, if set, is used as-is instead of registry resolution.
	Validator Validator
	// Get reads the accessor value from the owner struct value. It returns
	// ErrAbsent to skip the accessor.
	Get func(owner reflect.Value) (reflect.Value, error)
}
