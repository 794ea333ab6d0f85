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

package scripteval

import (
	"fmt"

	"github.com/SnellerInc/mucgly/engine"
	"github.com/SnellerInc/mucgly/hook"
)

// RegisterEngine binds every host operation eng exposes into ev, under the
// "mucgly/host" synthetic package (see scripteval.go). Call this once, right
// after constructing both, before running the engine.
func RegisterEngine(ev *Evaluator, eng *engine.Engine) error {
	bindings := map[string]any{
		"Write":        eng.Write,
		"Puts":         eng.Puts,
		"HookBeg":      eng.HookBeg,
		"HookEnd":      eng.HookEnd,
		"HookEsc":      eng.HookEsc,
		"SetHook":      eng.SetHook,
		"SetHookBeg":   eng.SetHookBeg,
		"SetHookEnd":   eng.SetHookEnd,
		"SetHookEsc":   eng.SetHookEsc,
		"SetEater":     setEaterFunc(eng),
		"IFilename":    eng.IFilename,
		"ILineNumber":  eng.ILineNumber,
		"OFilename":    eng.OFilename,
		"OLineNumber":  eng.OLineNumber,
		"PushInput":    eng.PushInput,
		"CloseInput":   eng.CloseInput,
		"PushOutput":   eng.PushOutput,
		"CloseOutput":  eng.CloseOutput,
		"Block":        eng.Block,
		"Unblock":      eng.Unblock,
		"MultiHook":    multiHookFunc(eng),
	}
	for name, fn := range bindings {
		if err := ev.Bind(name, fn); err != nil {
			return fmt.Errorf("scripteval: registering %s: %w", name, err)
		}
	}
	return nil
}

// multiHookFunc returns the script-facing multihook(...) entry point. It
// accepts any of the three calling forms a macro script might use -- a flat
// sequence of strings, a single list of strings, or a list of 2/3-element
// sub-lists -- normalizes them into []hook.Triple, and forwards to the
// engine's typed MultiHook binding. This marshaling is interpreter-specific
// (yaegi hands variadic script arguments through as []any), so it lives
// here rather than in engine itself.
//
// A macro body that calls multihook(...) without checking a return value
// must not be able to silently swallow an escape clash or a capacity
// overflow, so this panics on failure rather than returning an error for the
// script to ignore; the panic unwinds out of the interpreted call, and the
// embedding Evaluator reports it the same way it reports any other runtime
// exception raised while evaluating a macro body.
func multiHookFunc(eng *engine.Engine) func(args ...any) {
	return func(args ...any) {
		triples, err := normalizeMultiHookArgs(args)
		if err != nil {
			panic(fmt.Errorf("multihook: %w", err))
		}
		if err := eng.MultiHook(triples); err != nil {
			panic(err)
		}
	}
}

// setEaterFunc wraps Engine.SetEaterAny the same way: an argument that is
// neither a string nor none is terminal, not a value for the script to
// inspect and ignore.
func setEaterFunc(eng *engine.Engine) func(value any) {
	return func(value any) {
		if err := eng.SetEaterAny(value); err != nil {
			panic(err)
		}
	}
}

func normalizeMultiHookArgs(args []any) ([]hook.Triple, error) {
	if len(args) == 1 {
		if list, ok := asAnySlice(args[0]); ok {
			return triplesFromList(list)
		}
	}
	return triplesFromFlat(args)
}

// triplesFromFlat interprets a flat, even-length sequence of strings as
// (begin,end) pairs.
func triplesFromFlat(args []any) ([]hook.Triple, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("flat calling form needs an even number of strings, got %d", len(args))
	}
	var triples []hook.Triple
	for i := 0; i < len(args); i += 2 {
		begin, ok1 := args[i].(string)
		end, ok2 := args[i+1].(string)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("flat calling form argument %d/%d is not a string", i, i+1)
		}
		triples = append(triples, hook.Triple{Begin: begin, End: end})
	}
	return triples, nil
}

// triplesFromList interprets a single list argument: either a list of
// strings (pairs, same as the flat form) or a list of 2/3-element
// sub-lists (one triple per sub-list).
func triplesFromList(list []any) ([]hook.Triple, error) {
	if len(list) == 0 {
		return nil, nil
	}
	if _, ok := list[0].(string); ok {
		return triplesFromFlat(list)
	}

	var triples []hook.Triple
	for i, item := range list {
		sub, ok := asAnySlice(item)
		if !ok {
			return nil, fmt.Errorf("sub-list calling form item %d is neither a string list nor a sub-list", i)
		}
		t, err := tripleFromSubList(sub)
		if err != nil {
			return nil, fmt.Errorf("sub-list calling form item %d: %w", i, err)
		}
		triples = append(triples, t)
	}
	return triples, nil
}

func tripleFromSubList(sub []any) (hook.Triple, error) {
	if len(sub) != 2 && len(sub) != 3 {
		return hook.Triple{}, fmt.Errorf("expected 2 or 3 elements, got %d", len(sub))
	}
	begin, ok := sub[0].(string)
	if !ok {
		return hook.Triple{}, fmt.Errorf("element 0 is not a string")
	}
	end, ok := sub[1].(string)
	if !ok {
		return hook.Triple{}, fmt.Errorf("element 1 is not a string")
	}
	t := hook.Triple{Begin: begin, End: end}
	if len(sub) == 3 {
		suspend, ok := sub[2].(string)
		if !ok {
			return hook.Triple{}, fmt.Errorf("element 2 is not a string")
		}
		t.Suspend = suspend
		t.HasSuspend = true
	}
	return t, nil
}

// asAnySlice normalizes the handful of slice shapes yaegi might hand us
// ([]any, []string, [][]string) into a uniform []any.
func asAnySlice(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	case [][]string:
		out := make([]any, len(x))
		for i, s := range x {
			sub := make([]any, len(s))
			for j, e := range s {
				sub[j] = e
			}
			out[i] = sub
		}
		return out, true
	default:
		return nil, false
	}
}
