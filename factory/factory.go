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

// Package factory contains the built-in validator factories and the
// binding factories produced by registry builders.
//
// Every factory returns (nil, nil) when it does not apply to a key, so
// the registry moves on to the next one. Errors are reserved for types a
// factory recognizes but refuses to handle.
package factory

import (
	"errors"

	"dirpx.dev/inspect/apis"
	"dirpx.dev/inspect/qualifier"
	"dirpx.dev/inspect/typekey"
)

var (
	// ErrAnonymousStruct is returned for unnamed struct types.
	ErrAnonymousStruct = errors.New("inspect(factory): cannot validate anonymous struct")
	// ErrPlatformType is returned for standard library struct types when
	// platform types are not enabled.
	ErrPlatformType = errors.New("inspect(factory): platform type requires an explicitly registered validator")
)

// Builtins returns the built-in factories in chain order: self-validating,
// scalar, collection, map, array, structural, pointer.
func Builtins(cfg apis.Config) []apis.Factory {
	return []apis.Factory{
		SelfValidating(),
		Scalar(),
		Collection(),
		Map(),
		Array(),
		Structural(cfg),
		Pointer(),
	}
}

// Binding is a factory that hands out one pre-built validator for one type,
// either without qualifiers or for exactly one qualifier tag.
type Binding struct {
	key typekey.Key
	tag *qualifier.Tag
	v   apis.Validator
}

// Explicit binds v to raw when no qualifiers are requested.
func Explicit(raw any, v apis.Validator) (*Binding, error) {
	key, err := typekey.Canonicalize(raw)
	if err != nil {
		return nil, err
	}
	return &Binding{key: key, v: v}, nil
}

// Qualified binds v to raw when the requested set is exactly {tag}.
func Qualified(raw any, tag *qualifier.Tag, v apis.Validator) (*Binding, error) {
	key, err := typekey.Canonicalize(raw)
	if err != nil {
		return nil, err
	}
	return &Binding{key: key, tag: tag, v: v}, nil
}

// Key returns the bound type.
func (b *Binding) Key() typekey.Key { return b.key }

// Tag returns the bound qualifier, or nil for explicit bindings.
func (b *Binding) Tag() *qualifier.Tag { return b.tag }

// Create implements apis.Factory.
func (b *Binding) Create(key typekey.Key, quals qualifier.Set, _ apis.Registry) (apis.Validator, error) {
	if key != b.key {
		return nil, nil
	}
	if b.tag == nil {
		if quals.IsEmpty() {
			return b.v, nil
		}
		return nil, nil
	}
	if quals.Len() == 1 && quals.Has(b.tag) {
		return b.v, nil
	}
	return nil, nil
}
