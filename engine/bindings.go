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

// Bindings exposed to the embedded evaluator. Each method here is registered
// by an eval.Evaluator implementation under whatever calling convention its
// scripting language uses; the engine itself only promises the synchronous,
// process-wide-state semantics described on each method.
package engine

import (
	"github.com/SnellerInc/mucgly/diag"
	"github.com/SnellerInc/mucgly/hook"
)

// Write emits s to the top sink verbatim.
func (e *Engine) Write(s string) error { return e.emit(s) }

// Puts emits s followed by a newline to the top sink.
func (e *Engine) Puts(s string) error { return e.emit(s + "\n") }

// HookBeg, HookEnd, and HookEsc read the active source's current delimiters.
func (e *Engine) HookBeg() string { return e.Sources.Top().Hooks.PrimaryBegin() }
func (e *Engine) HookEnd() string { return e.Sources.Top().Hooks.PrimaryEnd() }
func (e *Engine) HookEsc() string { return e.Sources.Top().Hooks.Escape() }

// SetHook, SetHookBeg, SetHookEnd, SetHookEsc, and SetEater mutate the
// active source's delimiter configuration.
func (e *Engine) SetHook(a, b string) { e.Sources.Top().Hooks.SetBeginEnd(a, b, true) }
func (e *Engine) SetHookBeg(s string) { e.Sources.Top().Hooks.Set(hook.Begin, s) }
func (e *Engine) SetHookEnd(s string) { e.Sources.Top().Hooks.Set(hook.End, s) }
func (e *Engine) SetHookEsc(s string) { e.Sources.Top().Hooks.Set(hook.Escape, s) }
func (e *Engine) SetEater(s string, has bool) { e.Sources.Top().Hooks.SetEater(s, has) }

// SetEaterAny is the evaluator-facing form of SetEater, accepting whatever a
// dynamically typed script hands across: a string token, or nil/none to
// clear the eater. Any other argument type is rejected.
func (e *Engine) SetEaterAny(value any) error {
	switch v := value.(type) {
	case nil:
		e.SetEater("", false)
		return nil
	case string:
		e.SetEater(v, true)
		return nil
	default:
		return e.errorf(diag.EaterType, "seteater: argument must be a string or none, got %T", value)
	}
}

// MultiHook adds one or more (begin,end[,suspend]) triples to the active
// source's delimiter configuration, switching it to multi mode. Evaluators
// normalize whatever calling form a script used (flat string list, single
// list, or list of sub-lists) into []hook.Triple before calling this; that
// marshaling is interpreter-specific and lives in the Evaluator
// implementation, not here.
func (e *Engine) MultiHook(triples []hook.Triple) error {
	top := e.Sources.Top()
	for _, t := range triples {
		err := top.Hooks.AddMulti(t.Begin, t.End, t.Suspend, t.HasSuspend)
		switch err.(type) {
		case nil:
			continue
		case *hook.ErrEscapeClash:
			return e.errorf(diag.MultihookEscapeClash, "multihook: %v", err)
		case *hook.ErrCapacity:
			return e.errorf(diag.MultihookCapacity, "multihook: %v", err)
		default:
			return e.errorf(diag.InternalInvariant, "multihook: %v", err)
		}
	}
	return nil
}

// IFilename and ILineNumber report the active source's name and 1-based
// current line. OFilename and OLineNumber do the same for the top sink.
func (e *Engine) IFilename() string { return e.Sources.Top().Name }
func (e *Engine) ILineNumber() int  { return e.Sources.Top().Line + 1 }
func (e *Engine) OFilename() string { return e.Sinks.Top().Name }
func (e *Engine) OLineNumber() int  { return e.Sinks.Top().Line + 1 }

// PushInput and CloseInput mirror ":include" and its implicit close: the
// activation/pop is queued, not immediate, for the same reason ":include"
// defers (see deferred.go).
func (e *Engine) PushInput(name string) error { return e.pushInclude(name) }
func (e *Engine) CloseInput()                 { e.deferPop() }

// PushOutput and CloseOutput mutate the sink stack immediately: unlike
// sources, there is no mid-macro read-cursor hazard to defer around.
func (e *Engine) PushOutput(name string) error { return e.Sinks.Push(name) }
func (e *Engine) CloseOutput()                 { e.Sinks.Pop() }

// Block and Unblock toggle the top sink's blocked flag.
func (e *Engine) Block()   { e.Sinks.Top().Blocked = true }
func (e *Engine) Unblock() { e.Sinks.Top().Blocked = false }
