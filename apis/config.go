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

import "github.com/rs/zerolog"

// Config carries read-only knobs that influence the built-in factories.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// TagName is the struct tag key read by the reflection descriptor
	// (e.g. `inspect:"nullable"`).
	TagName string

	// Mode selects whether structural validators stop at the first failing
	// accessor or aggregate every failure.
	Mode Mode

	// PlatformTypes allows reflection on standard library struct types.
	// When false such types need an explicitly registered validator.
	PlatformTypes bool

	// Logger receives resolution diagnostics at debug level.
	Logger zerolog.Logger
}
