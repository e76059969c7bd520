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

package validator_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/inspect/validator"
)

type owner struct{}

func TestScope_EnterOnce(t *testing.T) {
	s := validator.NewScope()
	by := &owner{}
	x := 1
	rv := reflect.ValueOf(&x)

	assert.True(t, s.Enter(by, rv))
	assert.False(t, s.Enter(by, rv))

	// A different visitor has its own record.
	assert.True(t, s.Enter(&owner{}, rv))
}

func TestScope_NonReferencesAlwaysEntered(t *testing.T) {
	s := validator.NewScope()
	by := &owner{}
	var nilPtr *int

	for range 2 {
		assert.True(t, s.Enter(by, reflect.ValueOf(3)))
		assert.True(t, s.Enter(by, reflect.ValueOf("s")))
		assert.True(t, s.Enter(by, reflect.ValueOf(nilPtr)))
		assert.True(t, s.Enter(by, reflect.ValueOf([]int{})))
	}
}

func TestScope_SlicesKeyedByLength(t *testing.T) {
	s := validator.NewScope()
	by := &owner{}
	backing := []int{1, 2, 3}

	assert.True(t, s.Enter(by, reflect.ValueOf(backing)))
	assert.True(t, s.Enter(by, reflect.ValueOf(backing[:2])))
	assert.False(t, s.Enter(by, reflect.ValueOf(backing)))
}

type scopedProbe struct {
	got *validator.Scope
}

func (p *scopedProbe) Validate(v any) error { return p.ValidateIn(validator.NewScope(), v) }

func (p *scopedProbe) ValidateIn(s *validator.Scope, _ any) error {
	p.got = s
	return nil
}

func TestRun_ThreadsScope(t *testing.T) {
	s := validator.NewScope()
	probe := &scopedProbe{}

	assert.NoError(t, validator.Run(s, probe, 1))
	assert.Same(t, s, probe.got)

	// Composites and null-safe wrappers forward the scope.
	assert.NoError(t, validator.Run(s, validator.Of(validator.NullSafe(probe)), 1))
	assert.Same(t, s, probe.got)
}
