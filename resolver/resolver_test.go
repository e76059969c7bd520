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

package resolver_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/inspect/apis"
	"dirpx.dev/inspect/qualifier"
	"dirpx.dev/inspect/resolver"
	"dirpx.dev/inspect/typekey"
	"dirpx.dev/inspect/validator"
)

// fixed is a factory that always returns v (which may be nil).
type fixed struct {
	v   apis.Validator
	err error
}

func (f *fixed) Create(typekey.Key, qualifier.Set, apis.Registry) (apis.Validator, error) {
	return f.v, f.err
}

// funcHolder is a non-comparable factory value.
type funcHolder struct {
	fn func() apis.Validator
}

func (f funcHolder) Create(typekey.Key, qualifier.Set, apis.Registry) (apis.Validator, error) {
	return f.fn(), nil
}

var intKey = typekey.Of[int]()

func TestChain_FirstMatchWins(t *testing.T) {
	a := validator.Errorf("a")
	va := validator.Func(func(any) error { return a })
	vb := validator.NoOp()

	skip := &fixed{}
	fa := &fixed{v: va}
	fb := &fixed{v: vb}

	c := resolver.New(skip, fa, fb)
	got, idx, err := c.ResolveWhere(0, intKey, qualifier.Empty(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Same(t, a, got.Validate(0))
}

func TestChain_ResolveFrom(t *testing.T) {
	fa := &fixed{v: validator.NoOp()}
	fb := &fixed{v: validator.NoOp()}
	c := resolver.New(fa, fb)

	_, idx, err := c.ResolveWhere(1, intKey, qualifier.Empty(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	v, idx, err := c.ResolveWhere(2, intKey, qualifier.Empty(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, -1, idx)
}

func TestChain_FactoryErrorStopsWalk(t *testing.T) {
	boom := errors.New("boom")
	after := &fixed{v: validator.NoOp()}
	c := resolver.New(&fixed{err: boom}, after)

	v, idx, err := c.ResolveWhere(0, intKey, qualifier.Empty(), nil, nil)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, v)
	assert.Equal(t, 0, idx)
}

func TestChain_ResolveWhere(t *testing.T) {
	fa := &fixed{v: validator.NoOp()}
	fb := &fixed{v: validator.NoOp()}
	c := resolver.New(fa, fb)

	onlyB := func(f apis.Factory) bool { return f == apis.Factory(fb) }
	_, idx, err := c.ResolveWhere(0, intKey, qualifier.Empty(), nil, onlyB)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	none := func(apis.Factory) bool { return false }
	v, idx, err := c.ResolveWhere(0, intKey, qualifier.Empty(), nil, none)
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, -1, idx)
}

func TestChain_NilFactoriesFiltered(t *testing.T) {
	f := &fixed{}
	c := resolver.New(nil, f, nil)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, c.IndexOf(f))
}

func TestChain_IndexOf(t *testing.T) {
	f1 := &fixed{}
	f2 := &fixed{}
	nc := funcHolder{fn: validator.NoOp}
	c := resolver.New(f1, nc, f2)

	assert.Equal(t, 0, c.IndexOf(f1))
	assert.Equal(t, 2, c.IndexOf(f2))
	assert.Equal(t, -1, c.IndexOf(&fixed{}))
	assert.Equal(t, -1, c.IndexOf(nil))

	// Non-comparable factories are never found, and never panic.
	assert.NotPanics(t, func() {
		assert.Equal(t, -1, c.IndexOf(nc))
	})
}

func TestChain_FactoriesIsACopy(t *testing.T) {
	f := &fixed{}
	c := resolver.New(f)
	fs := c.Factories()
	fs[0] = nil
	assert.Equal(t, 0, c.IndexOf(f))
}
