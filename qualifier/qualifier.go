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

// Package qualifier provides tags that disambiguate several validators
// bound to the same type.
//
// A Tag is declared once per process, usually as a package-level variable:
//
//	var Email = qualifier.New("email")
//
// Tags carry no payload beyond their name and the names of their declared
// parameters. A parameterized tag cannot be matched by generic factories;
// it can only be satisfied by a validator bound to it directly.
package qualifier

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrEmptyName is returned when a tag is declared with an empty name.
	ErrEmptyName = errors.New("inspect(qualifier): empty tag name")
	// ErrConflictingTag indicates an attempt to re-declare a tag name with
	// different parameters.
	ErrConflictingTag = errors.New("inspect(qualifier): conflicting tag declaration")
)

// Tag is a declared qualifier. Tags are compared by identity; the tag table
// guarantees a single *Tag per name.
type Tag struct {
	name   string
	params []string
}

// Name returns the tag name.
func (t *Tag) Name() string { return t.name }

// Params returns a copy of the declared parameter names.
func (t *Tag) Params() []string { return slices.Clone(t.params) }

// Parameterized reports whether the tag declares parameters.
func (t *Tag) Parameterized() bool { return len(t.params) > 0 }

// String renders the tag as "@name" or "@name(p1,p2)".
func (t *Tag) String() string {
	if len(t.params) == 0 {
		return "@" + t.name
	}
	return "@" + t.name + "(" + strings.Join(t.params, ",") + ")"
}

// table is the process-wide tag table.
var table struct {
	mu   sync.Mutex
	tags sync.Map // map[string]*Tag
}

// Declare registers a tag with the given name and parameter names.
// It is idempotent for the same (name, params) pair.
func Declare(name string, params ...string) (*Tag, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := table.tags.Load(name); ok {
		return sameOrConflict(old.(*Tag), params)
	}

	table.mu.Lock()
	defer table.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := table.tags.Load(name); ok {
		return sameOrConflict(old.(*Tag), params)
	}

	t := &Tag{name: name, params: slices.Clone(params)}
	table.tags.Store(name, t)
	return t, nil
}

// New is like Declare but panics on error. It is meant for package-level
// tag declarations.
func New(name string, params ...string) *Tag {
	t, err := Declare(name, params...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the tag declared under name, if any.
func Lookup(name string) (*Tag, bool) {
	if v, ok := table.tags.Load(name); ok {
		return v.(*Tag), true
	}
	return nil, false
}

func sameOrConflict(old *Tag, params []string) (*Tag, error) {
	if slices.Equal(old.params, params) {
		return old, nil
	}
	return nil, fmt.Errorf("%w: %s redeclared with params %v", ErrConflictingTag, old, params)
}
