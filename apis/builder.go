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

package apis

import "dirpx.dev/inspect/qualifier"

// Builder assembles the user factory chain of a Registry.
// Methods are chainable; the first error is kept and reported by Build.
type Builder interface {
	// Add appends a factory. Factories run in registration order, before
	// the built-ins.
	Add(f Factory) Builder
	// AddValidator binds v to raw when no qualifiers are requested.
	AddValidator(raw any, v Validator) Builder
	// AddQualified binds v to raw when exactly tag is requested. This is
	// the only way to satisfy a parameterized tag.
	AddQualified(raw any, tag *qualifier.Tag, v Validator) Builder
	// WithConfig replaces the configuration of the registry to build.
	WithConfig(cfg Config) Builder
	// Build constructs the Registry.
	Build() (Registry, error)
}
