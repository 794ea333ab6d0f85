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

// Package source implements a single input stream: a byte cursor with
// line/column tracking and a character-putback buffer, plus the per-source
// mutable delimiter configuration every included file inherits by deep
// copy.
package source

import (
	"bufio"
	"io"
	"os"

	"github.com/SnellerInc/mucgly/hook"
)

// Stdin is the display name used for standard input.
const Stdin = "<STDIN>"

// Source is one input file (or standard input).
type Source struct {
	Name   string
	Hooks  *hook.Config
	Line   int
	Col    int
	isStdin bool

	r       *bufio.Reader
	closer  io.Closer
	putback []byte // newest at the end; Get pops from the end

	prevCol int

	eatTail bool

	inMacro             bool
	macroLine, macroCol int

	hookStack []hook.Triple

	digester io.Writer // optional; fed every byte read fresh from r (not putback replays)
}

// Open opens name for reading, or standard input when name is empty.
// hooks is deep-copied from the parent source (or the process defaults) by
// the caller before Open is invoked; Open takes ownership of the pointer
// passed in.
func Open(name string, hooks *hook.Config) (*Source, error) {
	if name == "" {
		return &Source{Name: Stdin, Hooks: hooks, r: bufio.NewReader(os.Stdin), isStdin: true}, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return &Source{Name: name, Hooks: hooks, r: bufio.NewReader(f), closer: f}, nil
}

// FromReader wraps an arbitrary reader as a Source; used by tests and by
// callers synthesizing in-memory input.
func FromReader(name string, r io.Reader, hooks *hook.Config) *Source {
	return &Source{Name: name, Hooks: hooks, r: bufio.NewReader(r)}
}

// Close closes the underlying file, unless this Source is standard input.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// IsStdin reports whether this Source reads from standard input.
func (s *Source) IsStdin() bool { return s.isStdin }

// InMacro reports whether a macro that started in this source is still
// open.
func (s *Source) InMacro() bool { return s.inMacro }

// MacroOrigin returns the line/column where the currently-open macro began.
func (s *Source) MacroOrigin() (line, col int) { return s.macroLine, s.macroCol }

// EnterMacro records that a macro begins at the source's current position
// and pushes t onto the hook stack.
func (s *Source) EnterMacro(t hook.Triple) {
	s.inMacro = true
	s.macroLine, s.macroCol = s.Line, s.Col
	s.hookStack = append(s.hookStack, t)
}

// PushHook pushes a (nested) triple onto the hook stack without altering
// inMacro (used for nested begins inside an already-open macro).
func (s *Source) PushHook(t hook.Triple) {
	s.hookStack = append(s.hookStack, t)
}

// PopHook pops the innermost open triple. It is a no-op, never a panic, if
// the stack is already empty (callers are expected to maintain the
// macroDepth invariant and never call this on an empty stack, but tests
// probing edge cases should not crash the process).
func (s *Source) PopHook() {
	if len(s.hookStack) == 0 {
		return
	}
	s.hookStack = s.hookStack[:len(s.hookStack)-1]
}

// TopHook returns the innermost open triple, and whether the stack is
// non-empty.
func (s *Source) TopHook() (hook.Triple, bool) {
	if len(s.hookStack) == 0 {
		return hook.Triple{}, false
	}
	return s.hookStack[len(s.hookStack)-1], true
}

// ExitMacro clears inMacro once the outermost macro closes.
func (s *Source) ExitMacro() {
	s.inMacro = false
}

// SetEatTail arms the one-shot "eat the next byte" flag (the ":+..."
// directive prefix).
func (s *Source) SetEatTail() { s.eatTail = true }

// SetDigester installs a hash-like writer that is fed every freshly-read
// byte (not bytes re-served from the putback buffer); used by includecache
// to digest a file's content as it streams through.
func (s *Source) SetDigester(w io.Writer) { s.digester = w }

// Get returns the next byte, or ok=false at end of stream.
func (s *Source) Get() (byte, bool) {
	b, ok := s.getRaw()
	if !ok {
		return 0, false
	}
	if s.eatTail {
		s.eatTail = false
		return s.Get()
	}
	return b, true
}

func (s *Source) getRaw() (byte, bool) {
	if n := len(s.putback); n > 0 {
		b := s.putback[n-1]
		s.putback = s.putback[:n-1]
		s.advance(b)
		return b, true
	}
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, false
	}
	if s.digester != nil {
		s.digester.Write([]byte{b})
	}
	s.advance(b)
	return b, true
}

func (s *Source) advance(b byte) {
	if b == '\n' {
		s.prevCol = s.Col
		s.Line++
		s.Col = 0
	} else {
		s.Col++
	}
}

// Put pushes a byte back onto the source; the next Get will return it.
func (s *Source) Put(b byte) {
	s.putback = append(s.putback, b)
	if b == '\n' {
		s.Line--
		s.Col = s.prevCol
		s.prevCol = 0
	} else {
		s.Col--
	}
}
