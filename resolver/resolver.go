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

// Package resolver implements the ordered factory chain walked by a registry.
package resolver

import (
	"reflect"
	"slices"

	"dirpx.dev/inspect/apis"
	"dirpx.dev/inspect/qualifier"
	"dirpx.dev/inspect/typekey"
)

// New constructs a Chain that tries the given factories in order.
// Nil factories are ignored. The returned chain is safe for concurrent use
// provided the factories themselves are safe for concurrent Create calls.
func New(factories ...apis.Factory) Chain {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Factory, 0, len(factories))
	for _, f := range factories {
		if f != nil {
			out = append(out, f)
		}
	}
	return Chain{factories: out}
}

// Chain is an immutable, order-preserving sequence of factories.
type Chain struct {
	factories []apis.Factory
}

// Len returns the number of factories in the chain.
func (c Chain) Len() int { return len(c.factories) }

// Factories returns a copy of the chain.
func (c Chain) Factories() []apis.Factory { return slices.Clone(c.factories) }

// IndexOf returns the position of f in the chain, or -1.
//
// Factories are compared by identity. Values of non-comparable dynamic
// types (e.g. a struct holding a func) can never be found and yield -1
// instead of panicking.
func (c Chain) IndexOf(f apis.Factory) int {
	if f == nil || !reflect.TypeOf(f).Comparable() {
		return -1
	}
	for i, g := range c.factories {
		if reflect.TypeOf(g) == reflect.TypeOf(f) && g == f {
			return i
		}
	}
	return -1
}

// ResolveWhere runs the factories from position from onwards, skipping
// those for which keep reports false, until one produces a validator. A
// nil keep consults every factory. It returns the validator and the index
// of the factory that produced it, or (nil, -1, nil) if none applies. A
// factory error stops the walk and is returned with the factory's index.
func (c Chain) ResolveWhere(from int, key typekey.Key, quals qualifier.Set, reg apis.Registry, keep func(apis.Factory) bool) (apis.Validator, int, error) {
	for i := max(from, 0); i < len(c.factories); i++ {
		f := c.factories[i]
		if keep != nil && !keep(f) {
			continue
		}
		v, err := f.Create(key, quals, reg)
		if err != nil {
			return nil, i, err
		}
		if v != nil {
			return v, i, nil
		}
	}
	return nil, -1, nil
}
