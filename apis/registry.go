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

package apis

import (
	"dirpx.dev/inspect/qualifier"
	"dirpx.dev/inspect/typekey"
)

// Registry resolves, caches and hands out validators for types.
// Implementations must be safe for concurrent use.
//
// Raw type descriptions (raw) are anything typekey.Canonicalize accepts:
// reflect.Type, typekey.Key or typekey.Wildcard.
type Registry interface {
	// Validator returns the validator for raw, creating it if necessary.
	Validator(raw any) (Validator, error)
	// ValidatorWith returns the validator for raw annotated with quals,
	// creating it if necessary.
	ValidatorWith(raw any, quals qualifier.Set) (Validator, error)
	// NextValidator returns the validator that the factories after
	// skipPast would produce. It never consults the cache.
	NextValidator(skipPast Factory, raw any, quals qualifier.Set) (Validator, error)
	// NewBuilder returns a builder seeded with the user factories of this
	// registry (built-ins excluded) and its configuration.
	NewBuilder() Builder
	// Entries returns a snapshot of the cache for diagnostics (order is unspecified).
	Entries() []Entry
	// Count returns the number of cached validators.
	Count() int
}

// Entry is a single cached validator in a Registry snapshot.
type Entry struct {
	// Key is the canonical type.
	Key typekey.Key
	// Qualifiers is the qualifier set the validator was resolved with.
	Qualifiers qualifier.Set
	// Validator is the cached validator.
	Validator Validator
}
