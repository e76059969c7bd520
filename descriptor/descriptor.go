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

// Package descriptor derives accessor lists for struct types from their
// exported fields and struct tags.
//
// Recognized tag options, with the default tag key "inspect":
//
//	Name   string   `inspect:"nullable"`
//	Email  string   `inspect:"qualifier=email"`
//	Parent *Node    `inspect:"nullable,name=parent"`
//	Cache  []byte   `inspect:"-"`
//
// Fields promoted through embedded structs are included; a nil embedded
// pointer reads as a nil value. An embedded pointer may be tagged
// nullable, in which case the fields promoted through it are skipped
// while it is nil:
//
//	*Audit `inspect:"nullable"`
//
// Func, chan and unsafe pointer fields are skipped.
package descriptor

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"dirpx.dev/inspect/apis"
	"dirpx.dev/inspect/qualifier"
)

// DefaultTagName is the struct tag key used when none is configured.
const DefaultTagName = "inspect"

var (
	// ErrNotStruct is returned when Of is given a non-struct type.
	ErrNotStruct = errors.New("inspect(descriptor): not a struct type")
	// ErrUnknownQualifier is returned when a tag names an undeclared qualifier.
	ErrUnknownQualifier = errors.New("inspect(descriptor): unknown qualifier")
	// ErrMalformedTag is returned for unrecognized tag options.
	ErrMalformedTag = errors.New("inspect(descriptor): malformed struct tag")
	// ErrConflictingAccessor indicates two accessors with the same name.
	ErrConflictingAccessor = errors.New("inspect(descriptor): conflicting accessors")
	// ErrIncompleteAccessor indicates an accessor without a type or getter.
	ErrIncompleteAccessor = errors.New("inspect(descriptor): accessor has no type or getter")
)

// Of returns the accessors of struct type t in field declaration order.
// It uses cfg.TagName, or DefaultTagName when empty.
func Of(t reflect.Type, cfg apis.Config) ([]apis.Accessor, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v", ErrNotStruct, t)
	}
	tagName := cfg.TagName
	if tagName == "" {
		tagName = DefaultTagName
	}

	var (
		out      []apis.Accessor
		ignored  [][]int
		nullable [][]int
	)
	for _, f := range reflect.VisibleFields(t) {
		if hasPrefix(f.Index, ignored) {
			continue
		}
		tag, hasTag := f.Tag.Lookup(tagName)
		if hasTag && strings.TrimSpace(tag) == "-" {
			ignored = append(ignored, f.Index)
			continue
		}
		if f.Anonymous && isStructLike(f.Type) {
			// Its fields are promoted and visited on their own.
			opt, err := embedded(tag)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", t, f.Name, err)
			}
			if opt && f.Type.Kind() == reflect.Ptr {
				nullable = append(nullable, slices.Clone(f.Index))
			}
			continue
		}
		if !f.IsExported() || skipKind(f.Type) {
			continue
		}

		a, err := accessor(f, tag, nullable)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t, f.Name, err)
		}
		out = append(out, a)
	}

	if err := Check(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Check reports ErrIncompleteAccessor for an accessor without Type or Get,
// and ErrConflictingAccessor if two accessors share a name.
func Check(accessors []apis.Accessor) error {
	seen := make(map[string]struct{}, len(accessors))
	for _, a := range accessors {
		if a.Type == nil || a.Get == nil {
			return fmt.Errorf("%w: %q", ErrIncompleteAccessor, a.Name)
		}
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("%w: %q", ErrConflictingAccessor, a.Name)
		}
		seen[a.Name] = struct{}{}
	}
	return nil
}

// embedded parses the tag of an embedded struct. Only nullable applies.
func embedded(tag string) (bool, error) {
	var nullable bool
	for opt := range strings.SplitSeq(tag, ",") {
		switch opt = strings.TrimSpace(opt); opt {
		case "":
		case "nullable":
			nullable = true
		default:
			return false, fmt.Errorf("%w: option %q on embedded field", ErrMalformedTag, opt)
		}
	}
	return nullable, nil
}

func accessor(f reflect.StructField, tag string, nullable [][]int) (apis.Accessor, error) {
	a := apis.Accessor{Name: f.Name, Type: f.Type}

	var tags []*qualifier.Tag
	for opt := range strings.SplitSeq(tag, ",") {
		opt = strings.TrimSpace(opt)
		name, value, hasValue := strings.Cut(opt, "=")
		switch {
		case opt == "":
		case opt == "nullable":
			a.Nullable = true
		case name == "qualifier" && hasValue && value != "":
			q, ok := qualifier.Lookup(value)
			if !ok {
				return a, fmt.Errorf("%w: %q", ErrUnknownQualifier, value)
			}
			tags = append(tags, q)
		case name == "name" && hasValue && value != "":
			a.Name = value
		default:
			return a, fmt.Errorf("%w: option %q", ErrMalformedTag, opt)
		}
	}
	a.Qualifiers = qualifier.NewSet(tags...)

	index := slices.Clone(f.Index)
	if !hasPrefix(index, nullable) {
		a.Get = func(owner reflect.Value) (reflect.Value, error) {
			v, err := owner.FieldByIndexErr(index)
			if err != nil {
				// Nil embedded pointer on the way to the field.
				return reflect.Value{}, nil
			}
			return v, nil
		}
		return a, nil
	}

	a.Get = func(owner reflect.Value) (reflect.Value, error) {
		v := owner
		for i, x := range index {
			if v.Kind() == reflect.Ptr {
				if v.IsNil() {
					if slices.ContainsFunc(nullable, func(p []int) bool { return slices.Equal(p, index[:i]) }) {
						return reflect.Value{}, apis.ErrAbsent
					}
					return reflect.Value{}, nil
				}
				v = v.Elem()
			}
			v = v.Field(x)
		}
		return v, nil
	}
	return a, nil
}

func hasPrefix(index []int, prefixes [][]int) bool {
	for _, p := range prefixes {
		if len(index) > len(p) && slices.Equal(index[:len(p)], p) {
			return true
		}
	}
	return false
}

func isStructLike(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func skipKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}
