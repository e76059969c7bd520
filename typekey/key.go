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

// Package typekey provides the canonical, comparable description of a Go
// type used as the lookup key of validator registries.
//
// A Key wraps a reflect.Type. Go's runtime type identity is already total:
// two reflect.Type values are == iff they describe the same type, including
// generic instantiation arguments, element types, map key/value types and
// array lengths. Key adds the raw-description handling on top of that
// (wildcards with bounds) and a few structural accessors that factories
// need when they decompose a type.
package typekey

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

var (
	// ErrNilType is returned when a nil reflect.Type (or a zero Key) is provided.
	ErrNilType = errors.New("inspect(typekey): nil type provided")
	// ErrMultipleBounds is returned when a wildcard declares two or more bounds.
	ErrMultipleBounds = errors.New("inspect(typekey): wildcard has more than one bound")
	// ErrUnsupportedRaw is returned when a raw description is neither a
	// reflect.Type, a Key nor a Wildcard.
	ErrUnsupportedRaw = errors.New("inspect(typekey): unsupported raw type description")
)

// topType is the representative of an unbounded wildcard.
var topType = reflect.TypeFor[any]()

// Key is the canonical description of a type. The zero Key describes no
// type and is never produced by Canonicalize.
type Key struct {
	t reflect.Type
}

// Wildcard is a raw type description standing for "some type within these
// bounds". It canonicalizes to its single bound, or to the top type when
// it has none.
type Wildcard struct {
	Bounds []reflect.Type
}

// Of returns the Key of T.
func Of[T any]() Key {
	return Key{t: reflect.TypeFor[T]()}
}

// TypeOf returns the Key of v's dynamic type. It returns the zero Key for
// a nil interface value.
func TypeOf(v any) Key {
	return Key{t: reflect.TypeOf(v)}
}

// Canonicalize turns a raw type description into a Key.
//
// Accepted inputs are reflect.Type, Key and Wildcard. Canonicalize is
// idempotent: canonicalizing a Key returns it unchanged.
func Canonicalize(raw any) (Key, error) {
	switch r := raw.(type) {
	case Key:
		if r.t == nil {
			return Key{}, ErrNilType
		}
		return r, nil
	case reflect.Type:
		if r == nil {
			return Key{}, ErrNilType
		}
		return Key{t: r}, nil
	case Wildcard:
		switch len(r.Bounds) {
		case 0:
			return Key{t: topType}, nil
		case 1:
			if r.Bounds[0] == nil {
				return Key{}, ErrNilType
			}
			return Key{t: r.Bounds[0]}, nil
		default:
			return Key{}, fmt.Errorf("%w: %v", ErrMultipleBounds, r.Bounds)
		}
	case *Wildcard:
		if r == nil {
			return Key{}, ErrNilType
		}
		return Canonicalize(*r)
	case nil:
		return Key{}, ErrNilType
	default:
		return Key{}, fmt.Errorf("%w: %T", ErrUnsupportedRaw, raw)
	}
}

// MustCanonicalize is like Canonicalize but panics on error.
func MustCanonicalize(raw any) Key {
	k, err := Canonicalize(raw)
	if err != nil {
		panic(err)
	}
	return k
}

// Type returns the underlying reflect.Type.
func (k Key) Type() reflect.Type { return k.t }

// IsZero reports whether k describes no type.
func (k Key) IsZero() bool { return k.t == nil }

// Kind returns the reflect.Kind of the type, or reflect.Invalid for the zero Key.
func (k Key) Kind() reflect.Kind {
	if k.t == nil {
		return reflect.Invalid
	}
	return k.t.Kind()
}

// Params returns the nested type parameters of a composite type:
// the element for pointers, slices, arrays and channels, and the key then
// the element for maps. Other kinds have no parameters.
func (k Key) Params() []Key {
	switch k.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Chan:
		return []Key{{t: k.t.Elem()}}
	case reflect.Map:
		return []Key{{t: k.t.Key()}, {t: k.t.Elem()}}
	default:
		return nil
	}
}

// Elem returns the element key of pointers, slices, arrays, channels and maps.
func (k Key) Elem() (Key, bool) {
	switch k.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Array, reflect.Chan, reflect.Map:
		return Key{t: k.t.Elem()}, true
	default:
		return Key{}, false
	}
}

// Len returns the length of an array type and -1 for any other kind.
func (k Key) Len() int {
	if k.Kind() != reflect.Array {
		return -1
	}
	return k.t.Len()
}

// ArrayDepth returns the number of nested slice/array levels, e.g. 2 for [][3]int.
func (k Key) ArrayDepth() int {
	n := 0
	for t := k.t; t != nil && (t.Kind() == reflect.Slice || t.Kind() == reflect.Array); t = t.Elem() {
		n++
	}
	return n
}

// String returns a fully qualified rendering of the type.
func (k Key) String() string {
	if k.t == nil {
		return "<nil>"
	}
	return typeStr(k.t)
}

// typeStr renders named types with their full package path.
func typeStr(t reflect.Type) string {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.String()
		}
		return t.PkgPath() + "." + t.Name()
	}
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + typeStr(t.Elem())
	case reflect.Slice:
		return "[]" + typeStr(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + typeStr(t.Elem())
	case reflect.Map:
		return "map[" + typeStr(t.Key()) + "]" + typeStr(t.Elem())
	default:
		return t.String()
	}
}
