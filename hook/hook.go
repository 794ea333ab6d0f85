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

// Package hook implements the per-source delimiter configuration: the set of
// begin/end/suspend tokens and the escape/eater tokens that the scanner
// matches against, plus the first-byte fast-reject table that keeps the
// common case (a byte that can't possibly start any recognized token) to a
// single bitmap probe.
package hook

import (
	"fmt"
	"sort"

	"golang.org/x/exp/slices"
)

// MaxTriples is the hard cap on the number of (begin,end,suspend) triples a
// Config may hold in multi mode.
const MaxTriples = 127

// Triple is one (begin, end, suspend) delimiter set. Suspend is optional.
type Triple struct {
	Begin      string
	End        string
	Suspend    string
	HasSuspend bool
}

// Field names an individual settable token for Set.
type Field int

const (
	Begin Field = iota
	End
	Escape
)

// Config is a source's delimiter configuration. The zero Config is not
// usable; construct one with Default.
type Config struct {
	multi   bool
	single  Triple
	triples []Triple

	escape string
	eater  string
	hasEater bool

	firstByte     [256]bool
	escapeEqBegin bool
	escapeEqEnd   bool
}

// Default returns the engine's built-in delimiter set: begin "-<", end ">-",
// escape "\".
func Default() *Config {
	c := &Config{single: Triple{Begin: "-<", End: ">-"}, escape: `\`}
	c.rebuild()
	return c
}

// Clone returns a deep copy, used when a new Source inherits its parent's
// delimiter configuration.
func (c *Config) Clone() *Config {
	cp := *c
	cp.triples = append([]Triple(nil), c.triples...)
	return &cp
}

// Multi reports whether the Config is currently in multi-triple mode.
func (c *Config) Multi() bool { return c.multi }

// Triples returns the triples currently in effect: a one-element slice of
// the single-mode triple, or the full multi-mode list.
func (c *Config) Triples() []Triple {
	if c.multi {
		return c.triples
	}
	return []Triple{c.single}
}

// Escape returns the current escape token.
func (c *Config) Escape() string { return c.escape }

// Eater returns the current eater token, if any.
func (c *Config) Eater() (string, bool) { return c.eater, c.hasEater }

// EscapeEqBegin reports whether the escape token equals the (single-mode)
// begin token, enabling the escaped-escape shortcut.
func (c *Config) EscapeEqBegin() bool { return c.escapeEqBegin }

// EscapeEqEnd reports whether the escape token equals the (single-mode) end
// token.
func (c *Config) EscapeEqEnd() bool { return c.escapeEqEnd }

// PrimaryBegin and PrimaryEnd expose the "current" begin/end delimiters for
// introspection bindings (hookbeg()/hookend()): the single-mode triple, or
// the first triple in multi mode.
func (c *Config) PrimaryBegin() string { return c.Triples()[0].Begin }
func (c *Config) PrimaryEnd() string   { return c.Triples()[0].End }

// Set replaces begin, end, or escape. Setting Begin or End while in multi
// mode collapses back to single mode, discarding the multi-triple list.
func (c *Config) Set(field Field, value string) {
	if c.multi && field != Escape {
		c.multi = false
		c.triples = nil
	}
	switch field {
	case Begin:
		c.single.Begin = value
	case End:
		c.single.End = value
	case Escape:
		c.escape = value
	}
	c.rebuild()
}

// SetBeginEnd implements ":hook <a> <b>" (or ":hook <a>" meaning both).
func (c *Config) SetBeginEnd(a string, b string, hasB bool) {
	if c.multi {
		c.multi = false
		c.triples = nil
	}
	c.single.Begin = a
	if hasB {
		c.single.End = b
	} else {
		c.single.End = a
	}
	c.rebuild()
}

// SetAll implements ":hookall <s>": begin, end, and escape all become s.
func (c *Config) SetAll(s string) {
	if c.multi {
		c.multi = false
		c.triples = nil
	}
	c.single.Begin = s
	c.single.End = s
	c.escape = s
	c.rebuild()
}

// SetEater replaces the eater token, or clears it when has is false.
func (c *Config) SetEater(value string, has bool) {
	c.eater = value
	c.hasEater = has
	c.rebuild()
}

// ErrEscapeClash is returned by AddMulti when the escape token equals one of
// the triple's delimiters.
type ErrEscapeClash struct {
	Escape, Delim string
}

func (e *ErrEscapeClash) Error() string {
	return fmt.Sprintf("escape %q clashes with delimiter %q in multi-hook", e.Escape, e.Delim)
}

// ErrCapacity is returned by AddMulti when the triple list would exceed
// MaxTriples.
type ErrCapacity struct{}

func (*ErrCapacity) Error() string {
	return fmt.Sprintf("multi-hook list cannot exceed %d triples", MaxTriples)
}

// AddMulti inserts one (begin,end[,suspend]) triple, switching to multi mode
// if necessary. Triples are kept sorted by descending Begin length (ties
// broken by insertion order) so that tryBegin always probes a longer
// delimiter before a shorter one that happens to be one of its prefixes;
// without that ordering, registering "{{" after "{{{" would let "{{" steal
// every match intended for the three-brace form.
func (c *Config) AddMulti(begin, end, suspend string, hasSuspend bool) error {
	if c.escape == begin {
		return &ErrEscapeClash{Escape: c.escape, Delim: begin}
	}
	if c.escape == end {
		return &ErrEscapeClash{Escape: c.escape, Delim: end}
	}
	if !c.multi {
		c.multi = true
		c.triples = nil
	}
	if len(c.triples) >= MaxTriples {
		return &ErrCapacity{}
	}
	at := sort.Search(len(c.triples), func(i int) bool {
		return len(c.triples[i].Begin) < len(begin)
	})
	c.triples = slices.Insert(c.triples, at, Triple{
		Begin: begin, End: end, Suspend: suspend, HasSuspend: hasSuspend,
	})
	c.rebuild()
	return nil
}

// FirstByteMatch is the O(1) fast-reject probe the scanner calls for every
// input byte.
func (c *Config) FirstByteMatch(b byte) bool { return c.firstByte[b] }

// rebuild performs a clean, full reconstruction of the first-byte table and
// the escape-equality shortcuts on every mutation, so that a byte marked by
// a delimiter that has since been replaced never lingers as a stale false
// positive.
func (c *Config) rebuild() {
	for i := range c.firstByte {
		c.firstByte[i] = false
	}
	mark := func(tok string) {
		if tok != "" {
			c.firstByte[tok[0]] = true
		}
	}
	if c.multi {
		for _, t := range c.triples {
			mark(t.Begin)
			mark(t.End)
			if t.HasSuspend {
				mark(t.Suspend)
			}
		}
		c.escapeEqBegin = false
		c.escapeEqEnd = false
	} else {
		mark(c.single.Begin)
		mark(c.single.End)
		c.escapeEqBegin = c.escape == c.single.Begin
		c.escapeEqEnd = c.escape == c.single.End
	}
	mark(c.escape)
}
