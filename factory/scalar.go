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
	"reflect"
	"time"

	"dirpx.dev/inspect/apis"
	"dirpx.dev/inspect/qualifier"
	"dirpx.dev/inspect/typekey"
	"dirpx.dev/inspect/validator"
)

var timeType = reflect.TypeFor[time.Time]()

// Scalar returns the factory for booleans, numbers, strings, the empty
// interface and time.Time. Types of those kinds (time.Duration included)
// get the pass-through validator when no qualifiers are requested.
func Scalar() apis.Factory { return scalar{} }

type scalar struct{}

func (scalar) Create(key typekey.Key, quals qualifier.Set, _ apis.Registry) (apis.Validator, error) {
	if !quals.IsEmpty() {
		return nil, nil
	}
	t := key.Type()
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		return validator.NoOp(), nil
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return validator.NoOp(), nil
		}
	case reflect.Struct:
		if t == timeType {
			return validator.NoOp(), nil
		}
	}
	return nil, nil
}
