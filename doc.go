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

// Package inspect derives validators for Go types and keeps them in a
// process-wide registry.
//
// A validator checks a value of one type and reports violations as an
// error. Validators are not written per type by hand; they are produced
// by an ordered chain of factories. Given a type and a set of qualifier
// tags, each factory either declines or returns a validator, and the
// first one that answers wins. Built-in factories cover scalars, slices,
// arrays, maps, pointers, self-validating types and named structs, so
// most domain types need nothing registered at all:
//
//	type Node struct {
//		Label    Label
//		Children []*Node
//		Parent   *Node `inspect:"nullable"`
//	}
//
//	err := inspect.Validate(root)
//
// # Design
//
// Resolution lives in the registry package. A registry owns a factory
// chain (user factories first, then the built-ins) and a cache keyed by
// type and qualifier set. Each type is resolved once; later requests get
// the same validator. Self-referential types are resolved through a
// placeholder that is bound when the outer resolution finishes, so
// Node above resolves without recursing forever. Cyclic values are walked
// once per validation call.
//
// A failed resolution caches nothing: validators built on the way to an
// error are dropped with it.
//
// This package holds one registry in an immutable snapshot published
// through an atomic pointer. Readers never lock:
//
//	v, err := inspect.Validator(reflect.TypeFor[Node]())
//	typed := inspect.MustFor[Node](nil)
//
// Writers are serialized and publish a new snapshot:
//
//	SetConfig(cfg)          rebuild with a new configuration
//	Use(factories...)       rebuild with extra user factories
//	SetRegistry(reg)        replace and pin the registry
//	UnpinRegistry()         let SetConfig and Use rebuild it again
//
// Rebuilding starts a new registry from the previous one's builder, so
// user factories are carried over and the cache starts empty.
//
// # Customizing
//
// Registries are assembled with a builder:
//
//	reg, err := registry.NewBuilder(config.DefaultConfig()).
//		AddValidator(reflect.TypeFor[Label](), rules.NotBlank()).
//		AddQualified(reflect.TypeFor[string](), emailTag, rules.MustPattern(`^.+@.+$`)).
//		Add(myFactory).
//		Build()
//
// A factory may compose the validators of other types through the
// registry it is given, or wrap the validator that would apply without it
// through Registry.NextValidator.
//
// Struct fields are described by the "inspect" struct tag (see the
// descriptor package) or, for generated code, by an InspectAccessors
// method. Failures carry a path such as "Children[0].Label".
//
// # Configuration
//
// config.DefaultConfig, config.NewConfig with functional options, and
// config.FromEnv (INSPECT_TAG_NAME, INSPECT_MODE, INSPECT_PLATFORM_TYPES)
// build an apis.Config. Resolution diagnostics go to the zerolog logger
// in the configuration, which discards everything by default.
package inspect
