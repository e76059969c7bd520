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

package qualifier

import (
	"slices"
	"strings"
)

// Set is an immutable, deduplicated collection of tags. Its zero value is
// the empty set. Tags are kept sorted by name so that two sets holding the
// same tags have the same Key regardless of construction order.
type Set struct {
	tags []*Tag
	key  string
}

// Empty returns the empty set.
func Empty() Set { return Set{} }

// NewSet builds a set from tags. Nil tags and duplicates are dropped.
func NewSet(tags ...*Tag) Set {
	out := make([]*Tag, 0, len(tags))
	for _, t := range tags {
		if t != nil && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return Set{}
	}
	slices.SortFunc(out, func(a, b *Tag) int { return strings.Compare(a.name, b.name) })

	names := make([]string, len(out))
	for i, t := range out {
		names[i] = t.String()
	}
	return Set{tags: out, key: strings.Join(names, " ")}
}

// Len returns the number of tags.
func (s Set) Len() int { return len(s.tags) }

// IsEmpty reports whether the set holds no tags.
func (s Set) IsEmpty() bool { return len(s.tags) == 0 }

// Has reports whether t is a member of the set.
func (s Set) Has(t *Tag) bool { return slices.Contains(s.tags, t) }

// Tags returns the tags in canonical order.
func (s Set) Tags() []*Tag { return slices.Clone(s.tags) }

// Key returns the canonical string form; equal sets have equal keys.
func (s Set) Key() string { return s.key }

// Equal reports whether s and o hold the same tags.
func (s Set) Equal(o Set) bool { return s.key == o.key }

// Parameterized reports whether any tag in the set declares parameters.
func (s Set) Parameterized() bool {
	for _, t := range s.tags {
		if t.Parameterized() {
			return true
		}
	}
	return false
}

// String renders the set as "[@a @b]".
func (s Set) String() string { return "[" + s.key + "]" }
