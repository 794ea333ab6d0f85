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

package engine

import (
	"fmt"
	"strings"

	"github.com/SnellerInc/mucgly/diag"
	"github.com/SnellerInc/mucgly/hook"
)

// dispatch interprets one fully-collected macro body. It returns whether the
// outer loop should terminate (the ":exit" case).
func (e *Engine) dispatch(body string) (bool, error) {
	if e.Metrics != nil {
		e.Metrics.IncMacrosDispatched()
	}
	if e.Tagger != nil {
		e.lastTag = e.Tagger.Tag([]byte(body))
	}

	if strings.HasPrefix(body, "+") {
		e.Sources.Top().SetEatTail()
		body = body[1:]
	}

	switch {
	case body == "":
		return false, nil
	case body[0] == ':':
		return e.dispatchDirective(body[1:])
	case body[0] == '.':
		return false, e.dispatchEval(body[1:])
	case body[0] == '/':
		return false, nil
	case body[0] == '#':
		return false, e.dispatchQuote(body[1:])
	default:
		return false, e.dispatchBare(body)
	}
}

// splitDirective splits "name arg..." on the first space; with no space, the
// whole string is the name and arg is empty.
func splitDirective(s string) (name, arg string) {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// splitPair splits "a b" into its two tokens on the first space; with no
// space, a is the whole string and hasB is false.
func splitPair(s string) (a, b string, hasB bool) {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

func (e *Engine) dispatchDirective(rest string) (bool, error) {
	name, arg := splitDirective(rest)
	top := e.Sources.Top()

	switch name {
	case "hookbeg":
		top.Hooks.Set(hook.Begin, arg)
	case "hookend":
		top.Hooks.Set(hook.End, arg)
	case "hookesc":
		top.Hooks.Set(hook.Escape, arg)
	case "hookall":
		top.Hooks.SetAll(arg)
	case "hook":
		a, b, hasB := splitPair(arg)
		top.Hooks.SetBeginEnd(a, b, hasB)
	case "eater":
		if arg == "" {
			top.Hooks.SetEater("", false)
		} else {
			top.Hooks.SetEater(arg, true)
		}
	case "include":
		if err := e.pushInclude(arg); err != nil {
			return false, e.errorf(diag.FileOpen, "cannot include %q: %v", arg, err)
		}
	case "source":
		if err := e.Eval.LoadFile(arg); err != nil {
			return false, e.exceptionf(err)
		}
	case "block":
		e.Sinks.Top().Blocked = true
	case "unblock":
		e.Sinks.Top().Blocked = false
	case "comment":
		// no-op
	case "cacheinfo":
		return false, e.emitCacheInfo()
	case "exit":
		return true, nil
	default:
		return false, e.errorf(diag.UnknownDirective, "unknown directive %q", name)
	}
	return false, nil
}

func (e *Engine) dispatchEval(expr string) error {
	result, ok, err := e.Eval.Eval(expr, true)
	if err != nil {
		return e.exceptionf(err)
	}
	if ok {
		return e.emit(result)
	}
	return nil
}

func (e *Engine) dispatchQuote(rest string) error {
	top := e.Sources.Top()
	return e.emit(top.Hooks.PrimaryBegin() + rest + top.Hooks.PrimaryEnd())
}

func (e *Engine) dispatchBare(body string) error {
	_, _, err := e.Eval.Eval(body, false)
	if err != nil {
		return e.exceptionf(err)
	}
	return nil
}

// emitCacheInfo is the domain-stack addition backing ":cacheinfo": it reports
// includecache's hit/miss counters and the idcodec fingerprint of the macro
// body that just triggered it, purely for diagnostics.
func (e *Engine) emitCacheInfo() error {
	var hits, misses int
	if e.Cache != nil {
		hits, misses = e.Cache.Counters()
	}
	return e.emit(fmt.Sprintf("cache hits=%d misses=%d tag=%s", hits, misses, e.lastTag))
}
