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

package validator

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// ValidationError is a single, data-dependent validation failure.
//
// Path locates the failing value relative to the value handed to the
// outermost validator, e.g. "Children[2].Name" or "[\"k\"]". It is empty
// for failures of the root value itself.
type ValidationError struct {
	Path    string
	Message string
	Cause   error
}

// Error renders "<path>: <message>", or just the message for root failures.
// When Message is empty the cause's text is used.
func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Path == "" {
		return msg
	}
	return e.Path + ": " + msg
}

// Unwrap returns the cause, if any.
func (e *ValidationError) Unwrap() error { return e.Cause }

// Errorf returns a *ValidationError with a formatted message.
func Errorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a *ValidationError with a formatted message and cause.
// It returns nil if cause is nil.
func Wrap(cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return &ValidationError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

// CompositeValidationError bundles two or more failures of one value, in
// the order their validators ran.
type CompositeValidationError struct {
	errs []error
}

// Errors returns a copy of the bundled failures.
func (e *CompositeValidationError) Errors() []error { return slices.Clone(e.errs) }

// Len returns the number of bundled failures.
func (e *CompositeValidationError) Len() int { return len(e.errs) }

// Error concatenates the bundled messages in order.
func (e *CompositeValidationError) Error() string {
	var b strings.Builder
	b.WriteString("multiple validation errors found: [\n")
	for i, err := range e.errs {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString(err.Error())
	}
	b.WriteString("\n]")
	return b.String()
}

// Unwrap exposes the bundled failures to errors.Is and errors.As.
func (e *CompositeValidationError) Unwrap() []error { return e.Errors() }

// Join reports the non-nil errors of errs: nil when there are none, the
// single error unwrapped when there is one, and a *CompositeValidationError
// otherwise.
func Join(errs ...error) error {
	var kept []error
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	default:
		return &CompositeValidationError{errs: kept}
	}
}

// AtIndex prefixes the path of err with "[i]".
func AtIndex(err error, i int) error {
	return at(err, "["+strconv.Itoa(i)+"]")
}

// AtKey prefixes the path of err with "[<key>]", quoting keys of string
// kind and formatting others with %v.
func AtKey(err error, key any) error {
	if rv := reflect.ValueOf(key); rv.Kind() == reflect.String {
		return at(err, "["+strconv.Quote(rv.String())+"]")
	}
	return at(err, fmt.Sprintf("[%v]", key))
}

// AtField prefixes the path of err with name.
func AtField(err error, name string) error {
	return at(err, name)
}

func at(err error, seg string) error {
	if err == nil {
		return nil
	}

	if ce, ok := err.(*CompositeValidationError); ok {
		out := make([]error, len(ce.errs))
		for i, e := range ce.errs {
			out[i] = at(e, seg)
		}
		return &CompositeValidationError{errs: out}
	}

	if ve, ok := err.(*ValidationError); ok {
		cp := *ve
		cp.Path = joinPath(seg, ve.Path)
		return &cp
	}

	// Foreign errors are kept as the cause so errors.Is still matches.
	return &ValidationError{Path: seg, Cause: err}
}

func joinPath(seg, path string) string {
	switch {
	case path == "":
		return seg
	case strings.HasPrefix(path, "["):
		return seg + path
	default:
		return seg + "." + path
	}
}
