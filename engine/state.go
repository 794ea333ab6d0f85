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

// Package engine is the macro engine's coordinator: it owns the input and
// output stacks, drives the byte-at-a-time scan loop, accumulates and
// dispatches macro bodies, and exposes the host-callable bindings an
// Evaluator registers for scripts.
//
// Scanner, command dispatch, and host bindings live in one package (rather
// than three) because they mutate the same in-flight state -- the open
// source stack, the in-progress macro buffer, the suspend depth -- on every
// call. Splitting them would mean passing that shared mutable state across
// package boundaries on every call for no benefit.
package engine

import (
	"bytes"
	"hash"

	"golang.org/x/crypto/blake2b"

	"github.com/SnellerInc/mucgly/diag"
	"github.com/SnellerInc/mucgly/eval"
	"github.com/SnellerInc/mucgly/idcodec"
	"github.com/SnellerInc/mucgly/includecache"
	"github.com/SnellerInc/mucgly/metrics"
	"github.com/SnellerInc/mucgly/sink"
	"github.com/SnellerInc/mucgly/source"
)

// Engine coordinates one run: a source stack, a sink stack, and the script
// evaluator macro bodies are dispatched to.
type Engine struct {
	Sources *source.Stack
	Sinks   *sink.Stack
	Eval    eval.Evaluator

	// Program names the process for diagnostic formatting.
	Program string
	// Flush forces every emitted write to flush (and fsync real files)
	// immediately, trading throughput for a guarantee that a crash mid-run
	// loses nothing already emitted.
	Flush bool

	// Cache and Tagger are optional domain-stack extensions; either may be
	// left nil to disable the corresponding diagnostic.
	Cache  *includecache.Cache
	Tagger *idcodec.Tagger

	// Metrics, if non-nil, is incremented as the run progresses. Scanning
	// logic only ever writes to it, never reads it back.
	Metrics *metrics.Counters

	// Warnings accumulates non-fatal diagnostics (currently only
	// includecache duplicate-content warnings) for the driver to print
	// after a run completes.
	Warnings []*diag.Diagnostic

	macroDepth   int
	suspendDepth int
	macroBuf     bytes.Buffer

	pending []pendingOp

	exitRequested bool
	lastTag       string

	digesters map[*source.Source]hash.Hash
}

type pendingOp func(*source.Stack)

// New builds an Engine around the given source/sink stacks and evaluator.
// sources.OnPop is claimed to finalize includecache digests; callers should
// not set it themselves.
func New(sources *source.Stack, sinks *sink.Stack, evaluator eval.Evaluator) *Engine {
	e := &Engine{Sources: sources, Sinks: sinks, Eval: evaluator, Program: "mucgly"}
	sources.OnPop = e.handleSourcePopped
	return e
}

// Run drives the scan loop until input is exhausted or an :exit directive
// fires. It returns the first fatal error encountered, if any; non-fatal
// diagnostics accumulate in Warnings instead of stopping the run.
func (e *Engine) Run() error {
	for !e.exitRequested {
		c, ok := e.Sources.GetOne()
		if !ok {
			if e.macroDepth > 0 {
				return e.fatalf(diag.EOFInMacro, "end of input while a macro is still open")
			}
			return nil
		}
		if e.Metrics != nil {
			e.Metrics.AddBytesScanned(1)
		}
		if err := e.step(c); err != nil {
			return err
		}
	}
	return nil
}

// step processes one byte read from the active source.
func (e *Engine) step(c byte) error {
	top := e.Sources.Top()
	if !top.Hooks.FirstByteMatch(c) {
		return e.nonHook(c)
	}

	e.Sources.PutN([]byte{c})

	if matched, err := e.tryEscape(); err != nil || matched {
		return err
	}
	if e.macroDepth > 0 {
		if matched, err := e.trySuspend(); err != nil || matched {
			return err
		}
		if matched, err := e.tryEnd(); err != nil || matched {
			return err
		}
	}
	if matched, err := e.tryBegin(); err != nil || matched {
		return err
	}

	// The fast-reject table said c might start a token, but none of the
	// active candidates actually matched; treat it as ordinary content.
	c2, ok := e.Sources.GetOne()
	if !ok {
		return nil
	}
	if e.Metrics != nil {
		e.Metrics.AddBytesScanned(1)
	}
	return e.nonHook(c2)
}

func (e *Engine) nonHook(c byte) error {
	if e.macroDepth > 0 {
		e.macroBuf.WriteByte(c)
		return nil
	}
	return e.emit(string(c))
}

func (e *Engine) emit(s string) error {
	if e.Metrics != nil {
		e.Metrics.AddBytesEmitted(len(s))
	}
	return e.Sinks.Top().WriteString(s, e.Flush)
}

// armDigester installs a content digester on src when includecache is
// enabled, so its content is hashed as it streams through.
func (e *Engine) armDigester(src *source.Source) {
	if e.Cache == nil || src == nil {
		return
	}
	h, err := blake2b.New256(nil)
	if err != nil {
		return
	}
	if e.digesters == nil {
		e.digesters = make(map[*source.Source]hash.Hash)
	}
	e.digesters[src] = h
	src.SetDigester(h)
}

func (e *Engine) handleSourcePopped(src *source.Source) {
	if e.Cache == nil {
		return
	}
	h, ok := e.digesters[src]
	if !ok {
		return
	}
	delete(e.digesters, src)

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	if dup, first := e.Cache.Observe(sum, src.Name); dup {
		e.Warnings = append(e.Warnings, diag.New(e.Program, diag.Warning, diag.DuplicateInclude,
			src.Name, src.Line+1, src.Col+1,
			"include %q has content identical to previously included %q", src.Name, first))
		if e.Metrics != nil {
			e.Metrics.IncWarnings()
		}
	}
}

func (e *Engine) diagAt(sev diag.Severity, kind diag.Kind, format string, args ...any) *diag.Diagnostic {
	top := e.Sources.Top()
	file, line, col := "?", 0, 0
	if top != nil {
		file = top.Name
		if top.InMacro() {
			l, c := top.MacroOrigin()
			line, col = l+1, c+1
		} else {
			line, col = top.Line+1, top.Col+1
		}
	}
	return diag.New(e.Program, sev, kind, file, line, col, format, args...)
}

func (e *Engine) fatalf(kind diag.Kind, format string, args ...any) error {
	return e.diagAt(diag.Fatal, kind, format, args...)
}

func (e *Engine) errorf(kind diag.Kind, format string, args ...any) error {
	return e.diagAt(diag.Error, kind, format, args...)
}

func (e *Engine) exceptionf(err error) error {
	return e.diagAt(diag.Exception, diag.EvaluatorException, "%v", err)
}
