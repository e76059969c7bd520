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

// Package validator holds the building blocks shared by every validator:
// function adapters, null-safety, composition and the failure types.
package validator

import (
	"fmt"
	"reflect"

	"dirpx.dev/inspect/apis"
	uref "dirpx.dev/inspect/utils/reflect"
)

// Func adapts an ordinary function to apis.Validator.
type Func func(v any) error

// Validate calls f(v).
func (f Func) Validate(v any) error { return f(v) }

// Typed adapts a function over T to apis.Validator. Values that are not a
// T fail with a *ValidationError naming both types.
func Typed[T any](fn func(T) error) apis.Validator {
	return Func(func(v any) error {
		t, ok := v.(T)
		if !ok {
			return Errorf("expected %s, got %T", reflect.TypeFor[T](), v)
		}
		return fn(t)
	})
}

type noop struct{}

func (noop) Validate(any) error { return nil }

// NoOp returns the pass-through validator.
func NoOp() apis.Validator { return noop{} }

// IsNoOp reports whether v is the pass-through validator.
func IsNoOp(v apis.Validator) bool {
	_, ok := v.(noop)
	return ok
}

// IsValid reports whether v accepts value. It never fails.
func IsValid(v apis.Validator, value any) bool {
	return v.Validate(value) == nil
}

// IsNil reports whether v is an untyped nil or a nil pointer, map, slice,
// interface, func or channel.
func IsNil(v any) bool {
	return v == nil || uref.IsNil(reflect.ValueOf(v))
}

// NullSafe wraps v so that nil values are valid and never reach v.
func NullSafe(v apis.Validator) apis.Validator {
	if v == nil {
		return NoOp()
	}
	if ns, ok := v.(*nullSafe); ok {
		return ns
	}
	return &nullSafe{delegate: v}
}

type nullSafe struct {
	delegate apis.Validator
}

func (n *nullSafe) Validate(v any) error {
	if IsNil(v) {
		return nil
	}
	return n.delegate.Validate(v)
}

func (n *nullSafe) ValidateIn(s *Scope, v any) error {
	if IsNil(v) {
		return nil
	}
	return Run(s, n.delegate, v)
}

// Unwrap returns the wrapped validator.
func (n *nullSafe) Unwrap() apis.Validator { return n.delegate }

// Of returns a validator that runs every non-nil validator of vs, in order
// and exactly once, and reports their failures through Join: a single
// failure is returned as is, two or more as a *CompositeValidationError.
func Of(vs ...apis.Validator) apis.Validator {
	kept := make([]apis.Validator, 0, len(vs))
	for _, v := range vs {
		if v != nil {
			kept = append(kept, v)
		}
	}
	return &composite{vs: kept}
}

type composite struct {
	vs []apis.Validator
}

func (c *composite) Validate(v any) error {
	return c.ValidateIn(NewScope(), v)
}

func (c *composite) ValidateIn(s *Scope, v any) error {
	var errs []error
	for _, sub := range c.vs {
		if err := Run(s, sub, v); err != nil {
			errs = append(errs, err)
		}
	}
	return Join(errs...)
}

// String renders the composite for diagnostics.
func (c *composite) String() string {
	return fmt.Sprintf("validator.Of(%d)", len(c.vs))
}
