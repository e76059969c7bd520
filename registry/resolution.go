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
	"dirpx.dev/inspect/factory"
	"dirpx.dev/inspect/qualifier"
	"dirpx.dev/inspect/typekey"
)

// resolution is the view of a registry handed to factories during one
// top-level Validator* call. It carries the keys being resolved on this
// call stack, so a self-referential type gets a placeholder instead of
// recursing, and it holds back the validators it creates until the
// top-level request succeeds.
//
// A resolution belongs to the goroutine that started it. Once finished it
// forwards every call to the root registry, so factories may keep it.
type resolution struct {
	root *registry
	// stack holds the placeholders of the keys in flight, outermost first.
	stack []*deferred
	// made holds validators created so far, innermost first.
	made  []pending
	index map[any]int
	done  atomic.Bool
}

type pending struct {
	ck    any
	key   typekey.Key
	quals qualifier.Set
	v     apis.Validator
}

func newResolution(r *registry) *resolution {
	return &resolution{root: r}
}

func (res *resolution) finish() { res.done.Store(true) }

// Validator implements apis.Registry.
func (res *resolution) Validator(raw any) (apis.Validator, error) {
	return res.ValidatorWith(raw, qualifier.Empty())
}

// ValidatorWith implements apis.Registry.
func (res *resolution) ValidatorWith(raw any, quals qualifier.Set) (apis.Validator, error) {
	if res.done.Load() {
		return res.root.ValidatorWith(raw, quals)
	}
	return res.resolve(raw, quals)
}

// NextValidator implements apis.Registry.
func (res *resolution) NextValidator(skipPast apis.Factory, raw any, quals qualifier.Set) (apis.Validator, error) {
	if res.done.Load() {
		return res.root.NextValidator(skipPast, raw, quals)
	}
	return res.next(skipPast, raw, quals)
}

// NewBuilder implements apis.Registry.
func (res *resolution) NewBuilder() apis.Builder { return res.root.NewBuilder() }

// Entries implements apis.Registry.
func (res *resolution) Entries() []apis.Entry { return res.root.Entries() }

// Count implements apis.Registry.
func (res *resolution) Count() int { return res.root.Count() }

func (res *resolution) resolve(raw any, quals qualifier.Set) (apis.Validator, error) {
	key, err := canonicalize(raw, quals)
	if err != nil {
		return nil, err
	}
	ck := cacheKey(key, quals)
	log := res.root.cfg.Logger

	if v, ok := res.root.lookup(ck); ok {
		return v, nil
	}
	if i, ok := res.index[ck]; ok {
		return res.made[i].v, nil
	}
	for _, d := range res.stack {
		if d.ck == ck {
			log.Debug().Stringer("type", key).Stringer("qualifiers", quals).Msg("cycle deferred")
			return d, nil
		}
	}

	d := &deferred{ck: ck, key: key, quals: quals}
	mark := len(res.made)
	res.stack = append(res.stack, d)
	v, idx, err := res.root.chain.ResolveWhere(0, key, quals, res, keepFor(quals))
	res.stack = res.stack[:len(res.stack)-1]

	if err != nil {
		res.rollback(mark)
		return nil, err
	}
	if v == nil {
		res.rollback(mark)
		log.Debug().Stringer("type", key).Stringer("qualifiers", quals).Msg("no validator")
		return nil, fmt.Errorf("%w for %s with qualifiers %s", ErrNoValidator, key, quals)
	}
	d.bind(v)
	log.Debug().Stringer("type", key).Stringer("qualifiers", quals).Int("factory", idx).Msg("validator resolved")

	if res.index == nil {
		res.index = make(map[any]int)
	}
	res.index[ck] = len(res.made)
	res.made = append(res.made, pending{ck: ck, key: key, quals: quals, v: v})

	if len(res.stack) > 0 {
		return v, nil
	}

	// Outermost request done: publish everything made on the way.
	stored := res.root.store(res.made)
	v = stored[len(stored)-1]
	res.made, res.index = nil, nil
	return v, nil
}

// rollback drops the validators made since mark. They may hold the
// placeholder of a resolution that failed, which is never bound, so they
// must not reach the cache even if an enclosing factory recovers.
func (res *resolution) rollback(mark int) {
	for _, p := range res.made[mark:] {
		delete(res.index, p.ck)
	}
	res.made = res.made[:mark]
}

func (res *resolution) next(skipPast apis.Factory, raw any, quals qualifier.Set) (apis.Validator, error) {
	from := res.root.chain.IndexOf(skipPast)
	if from < 0 {
		return nil, fmt.Errorf("%w: %T", ErrUnknownFactory, skipPast)
	}
	key, err := canonicalize(raw, quals)
	if err != nil {
		return nil, err
	}

	v, _, err := res.root.chain.ResolveWhere(from+1, key, quals, res, keepFor(quals))
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w after %T for %s with qualifiers %s", ErrNoValidator, skipPast, key, quals)
	}
	return v, nil
}

// canonicalize turns raw into a key and rejects qualifier sets that mix a
// parameterized tag with other tags.
func canonicalize(raw any, quals qualifier.Set) (typekey.Key, error) {
	if raw == nil {
		return typekey.Key{}, ErrNilType
	}
	key, err := typekey.Canonicalize(raw)
	if err != nil {
		return typekey.Key{}, err
	}
	if quals.Parameterized() && quals.Len() > 1 {
		return typekey.Key{}, fmt.Errorf("%w: %s", ErrParameterizedQualifier, quals)
	}
	return key, nil
}

// keepFor restricts a parameterized request to builder bindings.
func keepFor(quals qualifier.Set) func(apis.Factory) bool {
	if !quals.Parameterized() {
		return nil
	}
	return func(f apis.Factory) bool {
		_, ok := f.(*factory.Binding)
		return ok
	}
}
