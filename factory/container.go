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
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"dirpx.dev/inspect/apis"
	"dirpx.dev/inspect/qualifier"
	"dirpx.dev/inspect/typekey"
	"dirpx.dev/inspect/validator"
)

// Collection returns the factory for slices. Elements are validated in
// order and the first failure is reported with its index.
func Collection() apis.Factory { return collection{} }

type collection struct{}

func (collection) Create(key typekey.Key, quals qualifier.Set, reg apis.Registry) (apis.Validator, error) {
	if key.Kind() != reflect.Slice || !quals.IsEmpty() {
		return nil, nil
	}
	elem, err := reg.Validator(key.Type().Elem())
	if err != nil {
		return nil, err
	}
	if validator.IsNoOp(elem) {
		return validator.NoOp(), nil
	}
	return validator.NullSafe(&sequence{t: key.Type(), elem: elem}), nil
}

// Array returns the factory for fixed-size arrays. Every slot is validated
// by index.
func Array() apis.Factory { return array{} }

type array struct{}

func (array) Create(key typekey.Key, quals qualifier.Set, reg apis.Registry) (apis.Validator, error) {
	if key.Kind() != reflect.Array || !quals.IsEmpty() {
		return nil, nil
	}
	elem, err := reg.Validator(key.Type().Elem())
	if err != nil {
		return nil, err
	}
	if validator.IsNoOp(elem) || key.Len() == 0 {
		return validator.NoOp(), nil
	}
	return &sequence{t: key.Type(), elem: elem}, nil
}

// sequence validates slices and arrays element by element.
type sequence struct {
	t    reflect.Type
	elem apis.Validator
}

func (q *sequence) Validate(v any) error { return q.ValidateIn(validator.NewScope(), v) }

func (q *sequence) ValidateIn(s *validator.Scope, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Type() != q.t {
		return validator.Errorf("expected %s, got %T", q.t, v)
	}
	if !s.Enter(q, rv) {
		return nil
	}
	for i := range rv.Len() {
		if err := validator.Run(s, q.elem, rv.Index(i).Interface()); err != nil {
			return validator.AtIndex(err, i)
		}
	}
	return nil
}

func (q *sequence) String() string { return fmt.Sprintf("Validator(%s)", q.t) }

// Map returns the factory for maps. Key and value validators are resolved
// independently. A nil key fails the whole map before any entry is
// validated; entries are then visited in a stable key order.
func Map() apis.Factory { return mapping{} }

type mapping struct{}

func (mapping) Create(key typekey.Key, quals qualifier.Set, reg apis.Registry) (apis.Validator, error) {
	if key.Kind() != reflect.Map || !quals.IsEmpty() {
		return nil, nil
	}
	kv, err := reg.Validator(key.Type().Key())
	if err != nil {
		return nil, err
	}
	vv, err := reg.Validator(key.Type().Elem())
	if err != nil {
		return nil, err
	}
	return validator.NullSafe(&dict{t: key.Type(), key: kv, value: vv}), nil
}

type dict struct {
	t     reflect.Type
	key   apis.Validator
	value apis.Validator
}

func (d *dict) Validate(v any) error { return d.ValidateIn(validator.NewScope(), v) }

func (d *dict) ValidateIn(s *validator.Scope, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Type() != d.t {
		return validator.Errorf("expected %s, got %T", d.t, v)
	}
	if !s.Enter(d, rv) {
		return nil
	}

	keys := rv.MapKeys()
	for _, k := range keys {
		if validator.IsNil(k.Interface()) {
			return validator.Errorf("map key is nil")
		}
	}
	if validator.IsNoOp(d.key) && validator.IsNoOp(d.value) {
		return nil
	}

	slices.SortFunc(keys, compareKeys)
	for _, k := range keys {
		kv := k.Interface()
		if err := validator.Run(s, d.key, kv); err != nil {
			return validator.AtKey(err, kv)
		}
		if err := validator.Run(s, d.value, rv.MapIndex(k).Interface()); err != nil {
			return validator.AtKey(err, kv)
		}
	}
	return nil
}

func (d *dict) String() string { return fmt.Sprintf("Validator(%s)", d.t) }

// compareKeys orders map keys: natural order for strings and numbers,
// formatted text otherwise.
func compareKeys(a, b reflect.Value) int {
	if a.Kind() == b.Kind() {
		switch a.Kind() {
		case reflect.String:
			return cmp.Compare(a.String(), b.String())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return cmp.Compare(a.Int(), b.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return cmp.Compare(a.Uint(), b.Uint())
		case reflect.Float32, reflect.Float64:
			return cmp.Compare(a.Float(), b.Float())
		}
	}
	return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
}

// Pointer returns the factory for pointer types. A nil pointer is valid;
// otherwise the pointee is validated with the element validator, resolved
// with the same qualifiers. Within one validation call each pointer is
// followed once, so cyclic graphs terminate.
func Pointer() apis.Factory { return pointer{} }

type pointer struct{}

func (pointer) Create(key typekey.Key, quals qualifier.Set, reg apis.Registry) (apis.Validator, error) {
	if key.Kind() != reflect.Ptr {
		return nil, nil
	}
	elem, err := reg.ValidatorWith(key.Type().Elem(), quals)
	if err != nil {
		return nil, err
	}
	if validator.IsNoOp(elem) {
		return validator.NoOp(), nil
	}
	return &indirect{t: key.Type(), elem: elem}, nil
}

type indirect struct {
	t    reflect.Type
	elem apis.Validator
}

func (p *indirect) Validate(v any) error { return p.ValidateIn(validator.NewScope(), v) }

func (p *indirect) ValidateIn(s *validator.Scope, v any) error {
	if validator.IsNil(v) {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type() != p.t {
		return validator.Errorf("expected %s, got %T", p.t, v)
	}
	if !s.Enter(p, rv) {
		return nil
	}
	return validator.Run(s, p.elem, rv.Elem().Interface())
}

func (p *indirect) String() string { return fmt.Sprintf("Validator(%s)", p.t) }
