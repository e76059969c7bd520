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

package factory

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/inspect/apis"
	"dirpx.dev/inspect/descriptor"
	"dirpx.dev/inspect/qualifier"
	"dirpx.dev/inspect/typekey"
	uref "dirpx.dev/inspect/utils/reflect"
	"dirpx.dev/inspect/validator"
)

var describerType = reflect.TypeFor[apis.Describer]()

// Structural returns the factory for named struct types.
//
// Accessors come from the type's InspectAccessors method when it
// implements apis.Describer (on T or *T), otherwise from the descriptor
// package. One validator per accessor is resolved up front; an accessor's
// own Validator replaces registry resolution. At validation time a nil
// value of a non-nullable pointer, interface, func or chan accessor fails.
//
// Anonymous structs are rejected. Standard library structs are rejected
// unless cfg.PlatformTypes is set.
func Structural(cfg apis.Config) apis.Factory {
	return &structural{cfg: cfg}
}

type structural struct {
	cfg apis.Config
}

func (f *structural) Create(key typekey.Key, quals qualifier.Set, reg apis.Registry) (apis.Validator, error) {
	t := key.Type()
	if t.Kind() != reflect.Struct {
		return nil, nil
	}
	if uref.IsPlatform(t) && !f.cfg.PlatformTypes {
		return nil, fmt.Errorf("%w: %s with qualifiers %s", ErrPlatformType, key, quals)
	}
	if !quals.IsEmpty() {
		return nil, nil
	}
	if t.Name() == "" {
		return nil, fmt.Errorf("%w: %s", ErrAnonymousStruct, t)
	}

	accessors, err := f.accessors(t)
	if err != nil {
		return nil, err
	}

	fields := make([]field, 0, len(accessors))
	for _, a := range accessors {
		v := a.Validator
		if v == nil {
			if v, err = reg.ValidatorWith(a.Type, a.Qualifiers); err != nil {
				return nil, fmt.Errorf("%s.%s: %w", t, a.Name, err)
			}
		}
		fields = append(fields, field{
			name:    a.Name,
			get:     a.Get,
			v:       v,
			nilFail: !a.Nullable && nilFails(a.Type),
		})
	}

	return validator.NullSafe(&record{t: t, fields: fields, mode: f.cfg.Mode}), nil
}

func (f *structural) accessors(t reflect.Type) ([]apis.Accessor, error) {
	var d apis.Describer
	switch {
	case t.Implements(describerType):
		d = reflect.Zero(t).Interface().(apis.Describer)
	case reflect.PointerTo(t).Implements(describerType):
		d = reflect.New(t).Interface().(apis.Describer)
	default:
		return descriptor.Of(t, f.cfg)
	}

	accessors := d.InspectAccessors()
	if err := descriptor.Check(accessors); err != nil {
		return nil, fmt.Errorf("%s: %w", t, err)
	}
	return accessors, nil
}

// nilFails reports whether a nil value of t is a failure by default.
// Nil slices and maps read as empty.
func nilFails(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

type field struct {
	name    string
	get     func(owner reflect.Value) (reflect.Value, error)
	v       apis.Validator
	nilFail bool
}

// record validates the accessors of one struct type.
type record struct {
	t      reflect.Type
	fields []field
	mode   apis.Mode
}

func (r *record) Validate(v any) error { return r.ValidateIn(validator.NewScope(), v) }

// ValidateIn accepts a T or a non-nil *T.
func (r *record) ValidateIn(s *validator.Scope, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr && rv.Type().Elem() == r.t {
		if rv.IsNil() {
			return nil
		}
		if !s.Enter(r, rv) {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != r.t {
		return validator.Errorf("expected %s, got %T", r.t, v)
	}

	var errs []error
	for _, f := range r.fields {
		err := f.check(s, rv)
		if err == nil {
			continue
		}
		if r.mode != apis.Aggregate {
			return err
		}
		errs = append(errs, err)
	}
	return validator.Join(errs...)
}

func (f field) check(s *validator.Scope, owner reflect.Value) error {
	fv, err := f.get(owner)
	if errors.Is(err, apis.ErrAbsent) {
		return nil
	}
	if err != nil {
		return &validator.ValidationError{Path: f.name, Message: "could not read value", Cause: err}
	}
	if uref.IsNil(fv) {
		if f.nilFail {
			return &validator.ValidationError{Path: f.name, Message: "value was nil"}
		}
		if !fv.IsValid() {
			return nil
		}
	}
	return validator.AtField(validator.Run(s, f.v, fv.Interface()), f.name)
}

func (r *record) String() string { return fmt.Sprintf("Validator(%s)", r.t) }
