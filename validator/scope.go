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
	"reflect"

	"dirpx.dev/inspect/apis"
)

// Scope is the state of one validation call. It records which reference
// values (pointers, slices, maps) a container validator has already
// entered, so cyclic instance graphs are walked once.
//
// A Scope is not safe for concurrent use; each top-level Validate call
// creates its own.
type Scope struct {
	visited map[visit]struct{}
}

type visit struct {
	by  any
	ptr uintptr
	len int
	t   reflect.Type
}

// NewScope returns an empty Scope.
func NewScope() *Scope {
	return &Scope{}
}

// Enter marks rv as visited by the validator by and reports whether this
// is the first visit. Values that are not references, and nil references,
// are always entered. by must be comparable.
func (s *Scope) Enter(by any, rv reflect.Value) bool {
	var key visit
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map:
		if rv.IsNil() {
			return true
		}
		key = visit{by: by, ptr: rv.Pointer(), t: rv.Type()}
	case reflect.Slice:
		if rv.IsNil() || rv.Len() == 0 {
			return true
		}
		key = visit{by: by, ptr: rv.Pointer(), len: rv.Len(), t: rv.Type()}
	default:
		return true
	}

	if s.visited == nil {
		s.visited = make(map[visit]struct{})
	}
	if _, seen := s.visited[key]; seen {
		return false
	}
	s.visited[key] = struct{}{}
	return true
}

// Scoped is implemented by validators that carry a Scope through nested
// validation. Validate on such a validator starts a fresh Scope.
type Scoped interface {
	ValidateIn(s *Scope, v any) error
}

// Run validates value with v inside s. Validators that are not Scoped are
// called through Validate.
func Run(s *Scope, v apis.Validator, value any) error {
	if sv, ok := v.(Scoped); ok {
		return sv.ValidateIn(s, value)
	}
	return v.Validate(value)
}
