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
	"fmt"
	"sync/atomic"

	"dirpx.dev/inspect/apis"
	"dirpx.dev/inspect/qualifier"
	"dirpx.dev/inspect/typekey"
	"dirpx.dev/inspect/validator"
)

// deferred stands in for a validator whose resolution is still running
// further up the same call stack. It is bound exactly once, when that
// resolution succeeds, and is never stored in the cache.
type deferred struct {
	ck       any
	key      typekey.Key
	quals    qualifier.Set
	delegate atomic.Pointer[bound]
}

type bound struct {
	v apis.Validator
}

// bind sets the delegate. Later calls are ignored.
func (d *deferred) bind(v apis.Validator) {
	d.delegate.CompareAndSwap(nil, &bound{v: v})
}

func (d *deferred) target() (apis.Validator, error) {
	b := d.delegate.Load()
	if b == nil {
		return nil, fmt.Errorf("%w: %s with qualifiers %s", ErrNotReady, d.key, d.quals)
	}
	return b.v, nil
}

func (d *deferred) Validate(v any) error {
	t, err := d.target()
	if err != nil {
		return err
	}
	return t.Validate(v)
}

func (d *deferred) ValidateIn(s *validator.Scope, v any) error {
	t, err := d.target()
	if err != nil {
		return err
	}
	return validator.Run(s, t, v)
}

func (d *deferred) String() string {
	return fmt.Sprintf("Deferred(%s)", d.key)
}
