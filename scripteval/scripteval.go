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

// Package scripteval implements eval.Evaluator by embedding
// github.com/traefik/yaegi, a pure-Go interpreter: macro bodies become
// snippets of Go evaluated in one long-lived interpreter session, and the
// engine's host bindings are registered into it as an ordinary importable
// package.
package scripteval

import (
	"fmt"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// bindingsPackage is the synthetic import path scripts use to reach the
// engine: a macro body that needs a host binding writes
// `mucgly.Write("x")`, having already imported "mucgly/host".
const bindingsPackage = "mucgly/host"
const bindingsAlias = "mucgly"

// Evaluator wraps one yaegi interpreter instance.
type Evaluator struct {
	interp *interp.Interpreter
}

// New returns an Evaluator with the Go standard library's symbols loaded and
// ready for host bindings to be added via Bind.
func New() *Evaluator {
	i := interp.New(interp.Options{})
	i.Use(stdlib.Symbols)
	return &Evaluator{interp: i}
}

// LoadFile implements eval.Evaluator's ":source <path>" obligation.
func (e *Evaluator) LoadFile(path string) error {
	if _, err := e.interp.EvalPath(path); err != nil {
		return fmt.Errorf("scripteval: loading %s: %w", path, err)
	}
	return nil
}

// Eval implements eval.Evaluator. When wantString is true and the expression
// produced a value, it is coerced with fmt.Sprint, matching the ".<expr>"
// directive's "coerce result to string" contract.
func (e *Evaluator) Eval(source string, wantString bool) (string, bool, error) {
	v, err := e.interp.Eval(source)
	if err != nil {
		return "", false, err
	}
	if !wantString || !v.IsValid() {
		return "", false, nil
	}
	return fmt.Sprint(v.Interface()), true, nil
}

// Bind registers fn under name in the synthetic "mucgly/host" package, so
// scripts can call it as mucgly.<Name>(...) after `import "mucgly/host"`.
// fn must be a function value; yaegi reflects its signature directly.
func (e *Evaluator) Bind(name string, fn any) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("scripteval: Bind(%q): not a function", name)
	}
	return e.interp.Use(interp.Exports{
		bindingsPackage + "/" + bindingsAlias: {name: v},
	})
}
