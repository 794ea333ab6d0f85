// Copyright (C) 2026 Mucgly Authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package eval defines the engine's contract with the embedded script
// interpreter. The interpreter itself is an external collaborator: the
// engine only ever depends on this interface.
package eval

// Evaluator is the opaque script interpreter the engine dispatches macro
// bodies to. Implementations must be safe to call synchronously and
// re-entrantly is not required: the engine never calls an Evaluator method
// while another call to the same Evaluator is outstanding.
type Evaluator interface {
	// LoadFile executes the named file's contents as a program, for the
	// ":source <path>" directive.
	LoadFile(path string) error

	// Eval evaluates one fragment of script source. When wantString is
	// true, the caller wants the fragment's value coerced to a string (the
	// "." directive); when false, the fragment is evaluated purely for
	// side effects and any result is discarded. ok reports whether a
	// usable result was produced; when wantString is false, ok is always
	// false. err carries the script-level exception's text on failure.
	Eval(source string, wantString bool) (result string, ok bool, err error)

	// Bind registers a host-callable function under name, so that macro
	// scripts can call back into the engine. fn's concrete type is
	// interpreter-specific; Evaluator implementations document what they
	// accept.
	Bind(name string, fn any) error
}
