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

import (
	"fmt"
	"strings"
)

// Mode controls how a structural validator reports failures of
// independent accessors.
//
// # Values
//
//   - FailFast: stop at the first failing accessor and return its error.
//   - Aggregate: run every accessor and report all failures, with the
//     same single-failure unwrapping as validator.Of.
//
// Mode values are plain integers and safe to share across goroutines.
// The textual forms produced by String are stable and accepted back by
// ParseMode and UnmarshalText, so a Mode can be read from configuration.
type Mode int

const (
	// FailFast returns the first accessor failure.
	FailFast Mode = iota

	// Aggregate collects every accessor failure.
	Aggregate
)

// String returns "FailFast", "Aggregate", or "Unknown(<n>)" for values
// outside the defined range. It never panics.
func (m Mode) String() string {
	switch m {
	case FailFast:
		return "FailFast"
	case Aggregate:
		return "Aggregate"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMode parses a textual Mode, case-insensitively and ignoring
// surrounding whitespace. "fail-fast" and "failfast" are both accepted.
// On failure it returns FailFast and a non-nil error.
func ParseMode(s string) (Mode, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return FailFast, fmt.Errorf("inspect(mode): empty mode")
	}

	switch strings.ReplaceAll(strings.ToUpper(trimmed), "-", "") {
	case "FAILFAST":
		return FailFast, nil
	case "AGGREGATE":
		return Aggregate, nil
	default:
		return FailFast, fmt.Errorf("inspect(mode): unknown mode %q", s)
	}
}

// MustParseMode is like ParseMode but panics on invalid input.
//
//	var defaultMode = MustParseMode("aggregate")
func MustParseMode(s string) Mode {
	m, err := ParseMode(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MarshalText implements encoding.TextMarshaler. Unknown values are an
// error rather than a serialized "Unknown(...)" form.
func (m Mode) MarshalText() ([]byte, error) {
	switch m {
	case FailFast, Aggregate:
		return []byte(m.String()), nil
	default:
		return nil, fmt.Errorf("inspect(mode): cannot marshal unknown mode %d", m)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. On failure *m is
// left unchanged.
func (m *Mode) UnmarshalText(text []byte) error {
	value, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = value
	return nil
}
