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

// Package rules provides ready-made leaf validators. They are meant to be
// bound with Builder.AddValidator or Builder.AddQualified, or combined
// with validator.Of.
//
// String rules accept any value whose kind is string, so they also apply
// to named string types. Every failure is a *validator.ValidationError
// whose cause is one of the sentinel errors below.
package rules

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"dirpx.dev/inspect/apis"
	"dirpx.dev/inspect/validator"
)

var (
	// ErrRequired is the cause of NotBlank and NonNil failures.
	ErrRequired = errors.New("inspect(rules): value is required")
	// ErrInvalidLength is the cause of MinLen and MaxLen failures.
	ErrInvalidLength = errors.New("inspect(rules): invalid length")
	// ErrOutOfRange is the cause of Range failures.
	ErrOutOfRange = errors.New("inspect(rules): value out of range")
	// ErrInvalidFormat is the cause of Pattern and UUID failures.
	ErrInvalidFormat = errors.New("inspect(rules): invalid format")
	// ErrNotAllowed is the cause of OneOf failures.
	ErrNotAllowed = errors.New("inspect(rules): value not allowed")
	// ErrUnsupportedValue is the cause of failures on values a rule cannot read.
	ErrUnsupportedValue = errors.New("inspect(rules): unsupported value")
)

// Numeric is the set of types accepted by Range.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

func fail(cause error, format string, args ...any) error {
	return &validator.ValidationError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

func unsupported(rule string, v any) error {
	return fail(ErrUnsupportedValue, "%s cannot validate %T", rule, v)
}

func stringOf(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

// NotBlank rejects strings that are empty or only whitespace.
func NotBlank() apis.Validator {
	return validator.Func(func(v any) error {
		s, ok := stringOf(v)
		if !ok {
			return unsupported("NotBlank", v)
		}
		if strings.TrimSpace(s) == "" {
			return fail(ErrRequired, "must not be blank")
		}
		return nil
	})
}

// NonNil rejects nil values.
func NonNil() apis.Validator {
	return validator.Func(func(v any) error {
		if validator.IsNil(v) {
			return fail(ErrRequired, "must not be nil")
		}
		return nil
	})
}

// length returns the rune count of strings and the length of slices,
// arrays and maps.
func length(v any) (int, bool) {
	if s, ok := stringOf(v); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}

// MinLen rejects strings, slices, arrays and maps shorter than n.
func MinLen(n int) apis.Validator {
	return validator.Func(func(v any) error {
		l, ok := length(v)
		if !ok {
			return unsupported("MinLen", v)
		}
		if l < n {
			return fail(ErrInvalidLength, "length must be at least %d, got %d", n, l)
		}
		return nil
	})
}

// MaxLen rejects strings, slices, arrays and maps longer than n.
func MaxLen(n int) apis.Validator {
	return validator.Func(func(v any) error {
		l, ok := length(v)
		if !ok {
			return unsupported("MaxLen", v)
		}
		if l > n {
			return fail(ErrInvalidLength, "length must be at most %d, got %d", n, l)
		}
		return nil
	})
}

// Range rejects numbers outside [lo, hi]. Values of other numeric types
// are converted to N first.
func Range[N Numeric](lo, hi N) apis.Validator {
	target := reflect.TypeFor[N]()
	return validator.Func(func(v any) error {
		n, ok := v.(N)
		if !ok {
			rv := reflect.ValueOf(v)
			if !rv.IsValid() || !isNumber(rv.Kind()) || !rv.CanConvert(target) {
				return unsupported("Range", v)
			}
			n = rv.Convert(target).Interface().(N)
		}
		if n < lo || n > hi {
			return fail(ErrOutOfRange, "must be between %v and %v, got %v", lo, hi, n)
		}
		return nil
	})
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// Pattern rejects strings that do not match re.
func Pattern(re *regexp.Regexp) apis.Validator {
	return validator.Func(func(v any) error {
		s, ok := stringOf(v)
		if !ok {
			return unsupported("Pattern", v)
		}
		if !re.MatchString(s) {
			return fail(ErrInvalidFormat, "must match %s", re)
		}
		return nil
	})
}

// MustPattern compiles expr and returns Pattern for it. It panics if expr
// does not compile.
func MustPattern(expr string) apis.Validator {
	return Pattern(regexp.MustCompile(expr))
}

// OneOf rejects values that are not among allowed.
func OneOf[T comparable](allowed ...T) apis.Validator {
	allowed = slices.Clone(allowed)
	return validator.Func(func(v any) error {
		t, ok := v.(T)
		if !ok {
			return unsupported("OneOf", v)
		}
		if !slices.Contains(allowed, t) {
			return fail(ErrNotAllowed, "must be one of: %v", allowed)
		}
		return nil
	})
}

// UUID rejects strings that are not in the canonical 36 character UUID
// form. Malformed input is rejected before parsing.
func UUID() apis.Validator {
	return validator.Func(func(v any) error {
		s, ok := stringOf(v)
		if !ok {
			return unsupported("UUID", v)
		}
		if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
			return fail(ErrInvalidFormat, "must be a valid UUID")
		}
		if _, err := uuid.Parse(s); err != nil {
			return fail(ErrInvalidFormat, "must be a valid UUID")
		}
		return nil
	})
}

// NonNilUUID rejects uuid.Nil.
func NonNilUUID() apis.Validator {
	return validator.Typed(func(id uuid.UUID) error {
		if id == uuid.Nil {
			return fail(ErrRequired, "UUID cannot be nil")
		}
		return nil
	})
}
