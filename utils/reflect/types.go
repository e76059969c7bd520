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

// Package reflect holds small reflection helpers shared by the validator
// and factory packages.
package reflect

import (
	"reflect"
	"strings"
)

// Nillable reports whether values of kind k can be nil.
func Nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// IsNil reports whether rv is invalid or a nil value of a nillable kind.
func IsNil(rv reflect.Value) bool {
	if !rv.IsValid() {
		return true
	}
	return Nillable(rv.Kind()) && rv.IsNil()
}

// IsPlatform reports whether t is a named type declared in the Go standard
// library (its package path has no dot in the first element, e.g. "time"
// or "net/url"). Predeclared and unnamed types are not platform types.
func IsPlatform(t reflect.Type) bool {
	if t == nil {
		return false
	}
	pkg := t.PkgPath()
	if pkg == "" {
		return false
	}
	first, _, _ := strings.Cut(pkg, "/")
	return !strings.Contains(first, ".") && first != "main"
}
