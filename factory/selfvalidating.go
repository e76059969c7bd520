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

package factory

import (
	"fmt"
	"reflect"

	"dirpx.dev/inspect/apis"
	"dirpx.dev/inspect/qualifier"
	"dirpx.dev/inspect/typekey"
	"dirpx.dev/inspect/validator"
)

var selfValidatingType = reflect.TypeFor[apis.SelfValidating]()

// SelfValidating returns the factory for types implementing
// apis.SelfValidating, either on T or on *T. The validator hands the
// registry to InspectSelf. It runs before the structural factory, so a
// self-validating struct is never reflected on.
func SelfValidating() apis.Factory { return selfValidating{} }

type selfValidating struct{}

func (selfValidating) Create(key typekey.Key, quals qualifier.Set, reg apis.Registry) (apis.Validator, error) {
	if !quals.IsEmpty() {
		return nil, nil
	}
	t := key.Type()
	switch {
	case t.Implements(selfValidatingType):
		return validator.NullSafe(&self{t: t, reg: reg}), nil
	case t.Kind() != reflect.Ptr && t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(selfValidatingType):
		return validator.NullSafe(&self{t: t, reg: reg, addr: true}), nil
	default:
		return nil, nil
	}
}

type self struct {
	t    reflect.Type
	reg  apis.Registry
	addr bool
}

func (s *self) Validate(v any) error {
	return s.ValidateIn(validator.NewScope(), v)
}

// ValidateIn runs InspectSelf once per reference in sc. Validators that
// InspectSelf obtains from the registry stay in sc.
func (s *self) ValidateIn(sc *validator.Scope, v any) error {
	rv := reflect.ValueOf(v)
	if !sc.Enter(s, rv) {
		return nil
	}
	reg := &scopedRegistry{Registry: s.reg, sc: sc}
	if sv, ok := v.(apis.SelfValidating); ok {
		return sv.InspectSelf(reg)
	}
	if !s.addr || !rv.IsValid() || rv.Type() != s.t {
		return validator.Errorf("expected %s, got %T", s.t, v)
	}
	// Only *T has the method; validate an addressable copy.
	p := reflect.New(s.t)
	p.Elem().Set(rv)
	return p.Interface().(apis.SelfValidating).InspectSelf(reg)
}

func (s *self) String() string { return fmt.Sprintf("SelfValidating(%s)", s.t) }

// scopedRegistry hands out validators bound to one validation call.
type scopedRegistry struct {
	apis.Registry
	sc *validator.Scope
}

func (r *scopedRegistry) Validator(raw any) (apis.Validator, error) {
	return r.bind(r.Registry.Validator(raw))
}

func (r *scopedRegistry) ValidatorWith(raw any, quals qualifier.Set) (apis.Validator, error) {
	return r.bind(r.Registry.ValidatorWith(raw, quals))
}

func (r *scopedRegistry) NextValidator(skipPast apis.Factory, raw any, quals qualifier.Set) (apis.Validator, error) {
	return r.bind(r.Registry.NextValidator(skipPast, raw, quals))
}

func (r *scopedRegistry) bind(v apis.Validator, err error) (apis.Validator, error) {
	if err != nil {
		return nil, err
	}
	return inScope{v: v, sc: r.sc}, nil
}

type inScope struct {
	v  apis.Validator
	sc *validator.Scope
}

func (i inScope) Validate(v any) error { return validator.Run(i.sc, i.v, v) }

func (i inScope) String() string { return fmt.Sprint(i.v) }
