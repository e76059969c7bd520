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

package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/inspect/apis"
	"dirpx.dev/inspect/config"
	"dirpx.dev/inspect/qualifier"
	"dirpx.dev/inspect/typekey"
	"dirpx.dev/inspect/validator"
)

func TestDeferred_BindOnce(t *testing.T) {
	d := &deferred{key: typekey.Of[int](), quals: qualifier.Empty()}

	err := d.Validate(1)
	require.ErrorIs(t, err, ErrNotReady)
	assert.Contains(t, err.Error(), "int")
	assert.ErrorIs(t, d.ValidateIn(validator.NewScope(), 1), ErrNotReady)

	boom := errors.New("boom")
	d.bind(validator.Func(func(any) error { return boom }))
	d.bind(validator.NoOp())

	assert.ErrorIs(t, d.Validate(1), boom)
	assert.ErrorIs(t, d.ValidateIn(validator.NewScope(), 1), boom)
	assert.Equal(t, "Deferred(int)", d.String())
}

func TestNewBuilder_UserFactoriesOnly(t *testing.T) {
	user := apis.NewFactory(func(typekey.Key, qualifier.Set, apis.Registry) (apis.Validator, error) {
		return nil, nil
	})
	r := newRegistry(config.DefaultConfig(), []apis.Factory{nil, user})
	require.Len(t, r.user, 1)

	b, ok := r.NewBuilder().(*builder)
	require.True(t, ok)
	assert.Len(t, b.factories, 1, "built-ins must not be copied into the builder")

	derived, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, r.chain.Len(), derived.(*registry).chain.Len())
}

func TestCacheKey(t *testing.T) {
	k := typekey.Of[string]()
	tag := qualifier.New("registry.internal.cachekey")

	assert.Equal(t, any(k), cacheKey(k, qualifier.Empty()))
	assert.Equal(t, cacheKey(k, qualifier.NewSet(tag)), cacheKey(k, qualifier.NewSet(tag, tag)))
	assert.NotEqual(t, cacheKey(k, qualifier.Empty()), cacheKey(k, qualifier.NewSet(tag)))
}

func TestResolution_ForwardsWhenFinished(t *testing.T) {
	r := newRegistry(config.DefaultConfig(), nil)
	res := newResolution(r)
	res.finish()

	_, err := res.Validator(typekey.Of[int]())
	require.NoError(t, err)
	assert.Equal(t, 1, r.Count())
	assert.Empty(t, res.made)
}
