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
	"github.com/SnellerInc/mucgly/diag"
	"github.com/SnellerInc/mucgly/hook"
)

// tryEscape probes for the escape token. On a match it runs the full escape
// handling: eater suppression, then escape == end / escape == begin
// shortcuts, then literal passthrough.
func (e *Engine) tryEscape() (bool, error) {
	top := e.Sources.Top()
	esc := top.Hooks.Escape()
	if esc == "" {
		return false, nil
	}
	buf := e.Sources.GetN(len(esc))
	if string(buf) != esc {
		e.Sources.PutN(buf)
		return false, nil
	}
	return true, e.handleEscape()
}

func (e *Engine) handleEscape() error {
	top := e.Sources.Top()

	b, ok := e.Sources.GetOne()
	if !ok {
		if e.macroDepth > 0 {
			return e.fatalf(diag.EOFInMacro, "end of input immediately after an escape token")
		}
		e.exitRequested = true
		return nil
	}

	// The eater check runs before the escaped-escape/line-continuation
	// branches below: a configured eater token takes priority over every
	// other interpretation of the byte(s) following an escape.
	if eater, hasEater := top.Hooks.Eater(); hasEater && eater != "" && b == eater[0] {
		e.Sources.Put(b)
		probe := e.Sources.GetN(len(eater))
		if string(probe) == eater {
			return nil
		}
		e.Sources.PutN(probe)
		b, ok = e.Sources.GetOne()
		if !ok {
			if e.macroDepth > 0 {
				return e.fatalf(diag.EOFInMacro, "end of input immediately after an escape token")
			}
			e.exitRequested = true
			return nil
		}
	}

	if e.macroDepth > 0 {
		if top.Hooks.EscapeEqEnd() && (b == ' ' || b == '\n') {
			return e.closeOrSuspend([]byte{b})
		}
		e.macroBuf.WriteByte(b)
		return nil
	}

	// Outside any macro: a newline or space right after an escape is a
	// line-continuation and is swallowed without emitting anything.
	if b == '\n' || b == ' ' {
		return nil
	}

	if top.Hooks.EscapeEqBegin() {
		escTok := top.Hooks.Escape()
		if len(escTok) == 1 && b == escTok[0] {
			return e.emit(string(b))
		}
		e.Sources.Put(b)
		t := top.Hooks.Triples()[0]
		e.macroDepth++
		top.EnterMacro(t)
		e.macroBuf.Reset()
		return nil
	}

	return e.emit(string(b))
}

// trySuspend probes for the innermost open triple's suspend token, only
// meaningful while a macro is open.
func (e *Engine) trySuspend() (bool, error) {
	top := e.Sources.Top()
	t, ok := top.TopHook()
	if !ok || !t.HasSuspend || t.Suspend == "" {
		return false, nil
	}
	buf := e.Sources.GetN(len(t.Suspend))
	if string(buf) != t.Suspend {
		e.Sources.PutN(buf)
		return false, nil
	}
	e.suspendDepth++
	e.macroBuf.Write(buf)
	return true, nil
}

// tryEnd probes for the innermost open triple's end token.
func (e *Engine) tryEnd() (bool, error) {
	top := e.Sources.Top()
	t, ok := top.TopHook()
	if !ok {
		return false, nil
	}
	buf := e.Sources.GetN(len(t.End))
	if string(buf) != t.End {
		e.Sources.PutN(buf)
		return false, nil
	}
	return true, e.closeOrSuspend(buf)
}

// tryBegin probes every triple currently in effect for a begin-token match.
func (e *Engine) tryBegin() (bool, error) {
	top := e.Sources.Top()
	for _, t := range top.Hooks.Triples() {
		buf := e.Sources.GetN(len(t.Begin))
		if string(buf) == t.Begin {
			return true, e.handleBegin(t, buf)
		}
		e.Sources.PutN(buf)
	}
	return false, nil
}

func (e *Engine) handleBegin(t hook.Triple, tok []byte) error {
	top := e.Sources.Top()
	if e.macroDepth > 0 {
		// A nested macro is never itself evaluated: its begin/end tokens are
		// textual and pass straight through to the current sink, even
		// though the content between them still accumulates into the
		// enclosing macro's body like any other byte (step 4.5, case 6).
		e.macroDepth++
		top.PushHook(t)
		return e.emit(string(tok))
	}
	e.macroDepth++
	top.EnterMacro(t)
	e.macroBuf.Reset()
	return nil
}

// closeOrSuspend implements the end-token (or escape==end shortcut) closing
// logic: while a suspend is outstanding, the close just cancels it and the
// token bytes rejoin the macro body literally; otherwise it closes the
// macro, nested or outermost.
func (e *Engine) closeOrSuspend(tok []byte) error {
	if e.suspendDepth > 0 {
		e.suspendDepth--
		e.macroBuf.Write(tok)
		return nil
	}
	return e.closeMacro(tok)
}

func (e *Engine) closeMacro(tok []byte) error {
	top := e.Sources.Top()
	e.macroDepth--
	if e.macroDepth < 0 {
		return e.fatalf(diag.InternalInvariant, "macro depth went negative")
	}
	if e.macroDepth > 0 {
		top.PopHook()
		return e.emit(string(tok))
	}

	body := e.macroBuf.String()
	e.macroBuf.Reset()

	abort, err := e.dispatch(body)

	top.ExitMacro()
	top.PopHook()
	e.suspendDepth = 0
	e.applyPending()

	if err != nil {
		return err
	}
	if abort {
		e.exitRequested = true
	}
	return nil
}
