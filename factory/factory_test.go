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

package factory_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/inspect/apis"
	"dirpx.dev/inspect/config"
	"dirpx.dev/inspect/factory"
	"dirpx.dev/inspect/qualifier"
	"dirpx.dev/inspect/registry"
	"dirpx.dev/inspect/rules"
	"dirpx.dev/inspect/typekey"
	"dirpx.dev/inspect/validator"
)

var strictTag = qualifier.New("factory_test.strict")

// Name is validated by NotBlank in most tests.
type Name string

func newRegistry(t *testing.T, cfg apis.Config) apis.Registry {
	t.Helper()
	reg, err := registry.NewBuilder(cfg).
		AddValidator(reflect.TypeFor[Name](), rules.NotBlank()).
		Build()
	require.NoError(t, err)
	return reg
}

func TestScalar(t *testing.T) {
	f := factory.Scalar()
	reg := registry.New(config.DefaultConfig())

	for _, k := range []typekey.Key{
		typekey.Of[bool](), typekey.Of[int8](), typekey.Of[uint64](), typekey.Of[float32](),
		typekey.Of[complex128](), typekey.Of[string](), typekey.Of[Name](), typekey.Of[any](),
		typekey.Of[time.Time](), typekey.Of[time.Duration](),
	} {
		v, err := f.Create(k, qualifier.Empty(), reg)
		require.NoError(t, err, k.String())
		assert.True(t, validator.IsNoOp(v), k.String())
	}

	for _, k := range []typekey.Key{typekey.Of[fmt.Stringer](), typekey.Of[[]int](), typekey.Of[*int]()} {
		v, err := f.Create(k, qualifier.Empty(), reg)
		require.NoError(t, err)
		assert.Nil(t, v, k.String())
	}

	v, err := f.Create(typekey.Of[string](), qualifier.NewSet(strictTag), reg)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestBuiltinsOrder(t *testing.T) {
	bs := factory.Builtins(config.DefaultConfig())
	require.Len(t, bs, 7)
	assert.Equal(t, factory.SelfValidating(), bs[0])
	assert.Equal(t, factory.Pointer(), bs[len(bs)-1])
}

func TestBinding(t *testing.T) {
	v := rules.NotBlank()

	b, err := factory.Explicit(reflect.TypeFor[Name](), v)
	require.NoError(t, err)
	assert.Equal(t, typekey.Of[Name](), b.Key())
	assert.Nil(t, b.Tag())

	got, err := b.Create(typekey.Of[Name](), qualifier.Empty(), nil)
	require.NoError(t, err)
	assert.NotNil(t, got)

	got, _ = b.Create(typekey.Of[Name](), qualifier.NewSet(strictTag), nil)
	assert.Nil(t, got)
	got, _ = b.Create(typekey.Of[string](), qualifier.Empty(), nil)
	assert.Nil(t, got)

	q, err := factory.Qualified(reflect.TypeFor[Name](), strictTag, v)
	require.NoError(t, err)
	assert.Same(t, strictTag, q.Tag())

	got, _ = q.Create(typekey.Of[Name](), qualifier.NewSet(strictTag), nil)
	assert.NotNil(t, got)
	got, _ = q.Create(typekey.Of[Name](), qualifier.Empty(), nil)
	assert.Nil(t, got)

	_, err = factory.Explicit(42, v)
	assert.ErrorIs(t, err, typekey.ErrUnsupportedRaw)
}

func TestCollection(t *testing.T) {
	reg := newRegistry(t, config.DefaultConfig())

	plain, err := reg.Validator(reflect.TypeFor[[]int]())
	require.NoError(t, err)
	assert.True(t, validator.IsNoOp(plain), "elements without checks need no walk")

	v, err := reg.Validator(reflect.TypeFor[[]Name]())
	require.NoError(t, err)
	assert.NoError(t, v.Validate([]Name(nil)))
	assert.NoError(t, v.Validate([]Name{}))
	assert.NoError(t, v.Validate([]Name{"a"}))
	assert.EqualError(t, v.Validate([]Name{"a", "b", ""}), "[2]: must not be blank")
	assert.Error(t, v.Validate([]string{"a"}), "wrong type")

	nested, err := reg.Validator(reflect.TypeFor[[][]Name]())
	require.NoError(t, err)
	assert.EqualError(t, nested.Validate([][]Name{{"a"}, {"b", ""}}), "[1][1]: must not be blank")
}

func TestArray(t *testing.T) {
	reg := newRegistry(t, config.DefaultConfig())

	empty, err := reg.Validator(reflect.TypeFor[[0]Name]())
	require.NoError(t, err)
	assert.True(t, validator.IsNoOp(empty))

	v, err := reg.Validator(reflect.TypeFor[[2]Name]())
	require.NoError(t, err)
	assert.NoError(t, v.Validate([2]Name{"a", "b"}))
	assert.EqualError(t, v.Validate([2]Name{"", "b"}), "[0]: must not be blank")
}

func TestMap(t *testing.T) {
	reg := newRegistry(t, config.DefaultConfig())

	v, err := reg.Validator(reflect.TypeFor[map[Name]int]())
	require.NoError(t, err)
	assert.NoError(t, v.Validate(map[Name]int(nil)))
	assert.NoError(t, v.Validate(map[Name]int{"a": 1}))
	assert.EqualError(t, v.Validate(map[Name]int{"a": 1, "": 2}), `[""]: must not be blank`)

	byInt, err := reg.Validator(reflect.TypeFor[map[int]Name]())
	require.NoError(t, err)
	assert.EqualError(t, byInt.Validate(map[int]Name{10: "", 2: "", 3: "ok"}), "[2]: must not be blank")

	ifaces, err := reg.Validator(reflect.TypeFor[map[any]int]())
	require.NoError(t, err)
	assert.EqualError(t, ifaces.Validate(map[any]int{"a": 1, nil: 2}), "map key is nil")
}

func TestPointer(t *testing.T) {
	reg := newRegistry(t, config.DefaultConfig())

	plain, err := reg.Validator(reflect.TypeFor[*int]())
	require.NoError(t, err)
	assert.True(t, validator.IsNoOp(plain))

	v, err := reg.Validator(reflect.TypeFor[**Name]())
	require.NoError(t, err)

	var nilName *Name
	assert.NoError(t, v.Validate((**Name)(nil)))
	assert.NoError(t, v.Validate(&nilName))

	blank := Name("")
	p := &blank
	assert.EqualError(t, v.Validate(&p), "must not be blank")
}

type Address struct {
	Street Name
	City   Name
}

type Person struct {
	Name    Name
	Home    *Address
	Work    *Address `inspect:"nullable"`
	Tags    []Name
	Extra   map[string]Name
	Contact fmt.Stringer `inspect:"-"`
}

func TestStructural(t *testing.T) {
	reg := newRegistry(t, config.DefaultConfig())
	v, err := reg.Validator(reflect.TypeFor[Person]())
	require.NoError(t, err)

	ok := Person{Name: "p", Home: &Address{Street: "s", City: "c"}}
	assert.NoError(t, v.Validate(ok))
	assert.NoError(t, v.Validate(&ok))
	assert.NoError(t, v.Validate((*Person)(nil)))

	noHome := ok
	noHome.Home = nil
	assert.EqualError(t, v.Validate(noHome), "Home: value was nil")

	badCity := ok
	badCity.Home = &Address{Street: "s"}
	assert.EqualError(t, v.Validate(badCity), "Home.City: must not be blank")

	badTag := ok
	badTag.Tags = []Name{"a", ""}
	assert.EqualError(t, v.Validate(badTag), "Tags[1]: must not be blank")

	badExtra := ok
	badExtra.Extra = map[string]Name{"k": ""}
	assert.EqualError(t, v.Validate(badExtra), `Extra["k"]: must not be blank`)

	assert.Error(t, v.Validate(Address{}), "wrong type")
}

func TestStructural_Modes(t *testing.T) {
	bad := Address{}

	ff := newRegistry(t, config.NewConfig(config.WithMode(apis.FailFast)))
	v, err := ff.Validator(reflect.TypeFor[Address]())
	require.NoError(t, err)
	assert.EqualError(t, v.Validate(bad), "Street: must not be blank")

	agg := newRegistry(t, config.NewConfig(config.WithMode(apis.Aggregate)))
	v, err = agg.Validator(reflect.TypeFor[Address]())
	require.NoError(t, err)

	err = v.Validate(bad)
	var ce *validator.CompositeValidationError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, 2, ce.Len())
	assert.Equal(t, "Street: must not be blank", ce.Errors()[0].Error())
	assert.Equal(t, "City: must not be blank", ce.Errors()[1].Error())
	assert.ErrorIs(t, err, rules.ErrRequired)

	// A single failure is not bundled.
	err = v.Validate(Address{Street: "s"})
	assert.EqualError(t, err, "City: must not be blank")
}

func TestStructural_Rejections(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	_, err := reg.Validator(reflect.TypeFor[struct{ A int }]())
	assert.ErrorIs(t, err, factory.ErrAnonymousStruct)

	_, err = reg.Validator(reflect.TypeFor[strings.Builder]())
	assert.ErrorIs(t, err, factory.ErrPlatformType)

	_, err = reg.ValidatorWith(reflect.TypeFor[strings.Builder](), qualifier.NewSet(strictTag))
	assert.ErrorIs(t, err, factory.ErrPlatformType, "platform check runs before the qualifier check")

	allowed := registry.New(config.NewConfig(config.WithPlatformTypes(true)))
	v, err := allowed.Validator(reflect.TypeFor[strings.Builder]())
	require.NoError(t, err)
	assert.NoError(t, v.Validate(strings.Builder{}))

	_, err = reg.ValidatorWith(reflect.TypeFor[Address](), qualifier.NewSet(strictTag))
	assert.ErrorIs(t, err, registry.ErrNoValidator)
}

func TestStructural_TimeFields(t *testing.T) {
	type Event struct {
		At time.Time
		In time.Duration
	}
	reg := registry.New(config.DefaultConfig())

	v, err := reg.Validator(reflect.TypeFor[Event]())
	require.NoError(t, err)
	assert.NoError(t, v.Validate(Event{}))
}

type Audit struct {
	By *Address
}

// Record may have no audit trail at all.
type Record struct {
	*Audit `inspect:"nullable"`
	ID     int
}

type Entry struct {
	*Audit
	ID int
}

func TestStructural_NullableEmbed(t *testing.T) {
	reg := newRegistry(t, config.DefaultConfig())

	v, err := reg.Validator(reflect.TypeFor[Record]())
	require.NoError(t, err)
	assert.NoError(t, v.Validate(Record{ID: 1}))
	assert.EqualError(t, v.Validate(Record{Audit: &Audit{}}), "By: value was nil")
	assert.EqualError(t, v.Validate(Record{Audit: &Audit{By: &Address{Street: "s"}}}), "By.City: must not be blank")

	ev, err := reg.Validator(reflect.TypeFor[Entry]())
	require.NoError(t, err)
	assert.EqualError(t, ev.Validate(Entry{ID: 1}), "By: value was nil")
}

// Range is described by hand instead of by its fields.
type Range struct {
	Lo, Hi int
}

var errInverted = errors.New("inverted range")

func (Range) InspectAccessors() []apis.Accessor {
	get := func(name string) func(reflect.Value) (reflect.Value, error) {
		return func(owner reflect.Value) (reflect.Value, error) {
			return owner.FieldByName(name), nil
		}
	}
	return []apis.Accessor{
		{Name: "lo", Type: reflect.TypeFor[int](), Get: get("Lo"), Validator: rules.Range(0, 100)},
		{Name: "self", Type: reflect.TypeFor[Range](), Get: func(owner reflect.Value) (reflect.Value, error) {
			return owner, nil
		}, Validator: validator.Typed(func(r Range) error {
			if r.Lo > r.Hi {
				return errInverted
			}
			return nil
		})},
	}
}

func TestStructural_Describer(t *testing.T) {
	reg := registry.New(config.NewConfig(config.WithMode(apis.Aggregate)))
	v, err := reg.Validator(reflect.TypeFor[Range]())
	require.NoError(t, err)

	assert.NoError(t, v.Validate(Range{Lo: 1, Hi: 2}))

	err = v.Validate(Range{Lo: 200, Hi: 2})
	var ce *validator.CompositeValidationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "lo: must be between 0 and 100, got 200", ce.Errors()[0].Error())
	assert.Equal(t, "self: inverted range", ce.Errors()[1].Error())
	assert.ErrorIs(t, err, errInverted)
}

type broken struct{}

func (*broken) InspectAccessors() []apis.Accessor {
	return []apis.Accessor{{Name: "x"}}
}

func TestStructural_IncompleteDescriber(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	_, err := reg.Validator(reflect.TypeFor[broken]())
	assert.Error(t, err)
}

// Login validates itself; its fields are never reflected on.
type Login struct {
	User Name
	Pass *string
}

func (l Login) InspectSelf(reg apis.Registry) error {
	if l.User == "admin" {
		return validator.Errorf("admin login is disabled")
	}
	v, err := reg.Validator(reflect.TypeFor[Name]())
	if err != nil {
		return err
	}
	return validator.AtField(v.Validate(l.User), "User")
}

// Token validates itself through a pointer receiver.
type Token string

func (t *Token) InspectSelf(apis.Registry) error {
	if !strings.HasPrefix(string(*t), "tk_") {
		return validator.Errorf("token must start with tk_")
	}
	return nil
}

func TestSelfValidating(t *testing.T) {
	reg := newRegistry(t, config.DefaultConfig())

	v, err := reg.Validator(reflect.TypeFor[Login]())
	require.NoError(t, err)
	assert.NoError(t, v.Validate(Login{User: "bob"}), "nil Pass is not checked")
	assert.EqualError(t, v.Validate(Login{User: "admin"}), "admin login is disabled")
	assert.EqualError(t, v.Validate(Login{User: " "}), "User: must not be blank")

	tv, err := reg.Validator(reflect.TypeFor[Token]())
	require.NoError(t, err)
	assert.NoError(t, tv.Validate(Token("tk_1")))
	assert.Error(t, tv.Validate(Token("x")))

	tok := Token("x")
	pv, err := reg.Validator(reflect.TypeFor[*Token]())
	require.NoError(t, err)
	assert.Error(t, pv.Validate(&tok))
	assert.NoError(t, pv.Validate((*Token)(nil)))
}

// Ring validates its successor through the registry.
type Ring struct {
	Label Name
	Next  *Ring
}

func (r Ring) InspectSelf(reg apis.Registry) error {
	if r.Label == "" {
		return validator.Errorf("unlabeled ring")
	}
	if r.Next == nil {
		return nil
	}
	v, err := reg.Validator(reflect.TypeFor[*Ring]())
	if err != nil {
		return err
	}
	return validator.AtField(v.Validate(r.Next), "Next")
}

func TestSelfValidating_Cycle(t *testing.T) {
	reg := newRegistry(t, config.DefaultConfig())
	v, err := reg.Validator(reflect.TypeFor[*Ring]())
	require.NoError(t, err)

	loop := &Ring{Label: "a"}
	loop.Next = loop
	assert.NoError(t, v.Validate(loop))

	pair := &Ring{Label: "a", Next: &Ring{}}
	pair.Next.Next = pair
	assert.EqualError(t, v.Validate(pair), "Next: unlabeled ring")
}
