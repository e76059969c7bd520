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

// Package registry implements apis.Registry: an ordered factory chain, a
// validator cache and cycle breaking for self-referential types.
package registry

import (
	"errors"
	"slices"
	"sync"

	"dirpx.dev/inspect/apis"
	"dirpx.dev/inspect/config"
	"dirpx.dev/inspect/factory"
	"dirpx.dev/inspect/qualifier"
	"dirpx.dev/inspect/resolver"
	"dirpx.dev/inspect/typekey"
)

var (
	// ErrNilType is returned when a nil type is provided.
	ErrNilType = errors.New("inspect(registry): nil type provided")
	// ErrNilFactory is returned when a nil factory is provided.
	ErrNilFactory = errors.New("inspect(registry): nil factory provided")
	// ErrNilValidator is returned when a nil validator is provided.
	ErrNilValidator = errors.New("inspect(registry): nil validator provided")
	// ErrNilQualifier is returned when a nil qualifier tag is provided.
	ErrNilQualifier = errors.New("inspect(registry): nil qualifier provided")
	// ErrNoValidator indicates that no factory produced a validator.
	ErrNoValidator = errors.New("inspect(registry): no validator")
	// ErrUnknownFactory indicates a NextValidator call with a factory that
	// is not part of the chain.
	ErrUnknownFactory = errors.New("inspect(registry): unable to skip past unknown factory")
	// ErrParameterizedQualifier indicates a qualifier set that mixes a
	// parameterized tag with other tags.
	ErrParameterizedQualifier = errors.New("inspect(registry): parameterized qualifier must be requested alone")
	// ErrNotReady is returned by a placeholder validator used before the
	// resolution it stands for has finished.
	ErrNotReady = errors.New("inspect(registry): validator used before its resolution finished")
)

// New constructs a Registry over the given user factories followed by the
// built-in factories. Nil factories are ignored.
func New(cfg apis.Config, factories ...apis.Factory) apis.Registry {
	return newRegistry(cfg, factories)
}

func newRegistry(cfg apis.Config, user []apis.Factory) *registry {
	cfg = config.Normalize(cfg)
	user = resolver.New(user...).Factories()
	return &registry{
		cfg:   cfg,
		user:  user,
		chain: resolver.New(append(slices.Clone(user), factory.Builtins(cfg)...)...),
		cache: make(map[any]apis.Entry),
	}
}

// registry is the Registry implementation. The cache is a plain map
// guarded by a single mutex; entries are never evicted.
type registry struct {
	// cfg is the configuration the built-ins were created with.
	cfg apis.Config
	// user holds the user factories, in registration order.
	user []apis.Factory
	// chain is user followed by the built-ins.
	chain resolver.Chain
	// mu guards cache.
	mu sync.Mutex
	// cache maps a cache key to the first validator stored for it.
	cache map[any]apis.Entry
}

// pairKey is the cache key of a qualified request.
type pairKey struct {
	key   typekey.Key
	quals string
}

// cacheKey is the key itself when quals is empty, the pair otherwise.
func cacheKey(key typekey.Key, quals qualifier.Set) any {
	if quals.IsEmpty() {
		return key
	}
	return pairKey{key: key, quals: quals.Key()}
}

// Validator returns the validator for raw, creating it if necessary.
func (r *registry) Validator(raw any) (apis.Validator, error) {
	return r.ValidatorWith(raw, qualifier.Empty())
}

// ValidatorWith returns the validator for raw and quals, creating it if
// necessary. Every call starts its own resolution; nested requests made
// by factories go through that resolution.
func (r *registry) ValidatorWith(raw any, quals qualifier.Set) (apis.Validator, error) {
	res := newResolution(r)
	defer res.finish()
	return res.resolve(raw, quals)
}

// NextValidator returns the validator that the factories after skipPast
// produce for raw and quals. The result is not cached.
func (r *registry) NextValidator(skipPast apis.Factory, raw any, quals qualifier.Set) (apis.Validator, error) {
	res := newResolution(r)
	defer res.finish()
	return res.next(skipPast, raw, quals)
}

// NewBuilder returns a builder seeded with the user factories and the
// configuration of r.
func (r *registry) NewBuilder() apis.Builder {
	b := &builder{cfg: r.cfg}
	b.factories = slices.Clone(r.user)
	return b
}

// Entries returns a snapshot of the cache for diagnostics (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]apis.Entry, 0, len(r.cache))
	for _, e := range r.cache {
		entries = append(entries, e)
	}
	return entries
}

// Count returns the number of cached validators.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

// lookup returns the cached validator for ck.
func (r *registry) lookup(ck any) (apis.Validator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.cache[ck]
	return e.Validator, ok
}

// store inserts entries that are not cached yet and returns, for each of
// them, the validator that ended up in the cache.
func (r *registry) store(entries []pending) []apis.Validator {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]apis.Validator, len(entries))
	for i, p := range entries {
		if e, ok := r.cache[p.ck]; ok {
			out[i] = e.Validator
			continue
		}
		r.cache[p.ck] = apis.Entry{Key: p.key, Qualifiers: p.quals, Validator: p.v}
		out[i] = p.v
	}
	return out
}
