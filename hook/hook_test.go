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

package hook

import "testing"

func TestDefaultFirstByteTable(t *testing.T) {
	c := Default()
	cases := []struct {
		b     byte
		match bool
	}{
		{'-', true},  // begin "-<"
		{'>', true},  // end ">-"
		{'\\', true}, // escape
		{'x', false},
		{'a', false},
	}
	for _, tc := range cases {
		if got := c.FirstByteMatch(tc.b); got != tc.match {
			t.Errorf("FirstByteMatch(%q) = %v, want %v", tc.b, got, tc.match)
		}
	}
}

func TestSetCollapsesMultiMode(t *testing.T) {
	c := Default()
	if err := c.AddMulti("[[", "]]", "", false); err != nil {
		t.Fatal(err)
	}
	if !c.Multi() {
		t.Fatal("expected multi mode")
	}
	c.Set(Begin, "{{")
	if c.Multi() {
		t.Fatal("Set(Begin, ...) should collapse multi mode")
	}
	if c.PrimaryBegin() != "{{" {
		t.Fatalf("PrimaryBegin() = %q", c.PrimaryBegin())
	}
}

func TestAddMultiEscapeClash(t *testing.T) {
	c := Default()
	c.Set(Escape, "[[")
	if err := c.AddMulti("[[", "]]", "", false); err == nil {
		t.Fatal("expected escape clash error")
	}
	if c.Multi() {
		t.Fatal("failed AddMulti must not switch to multi mode")
	}
}

func TestAddMultiCapacity(t *testing.T) {
	c := Default()
	c.Set(Escape, "\\")
	for i := 0; i < MaxTriples; i++ {
		if err := c.AddMulti("b", "e", "", false); err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
	}
	if err := c.AddMulti("b", "e", "", false); err == nil {
		t.Fatal("expected capacity error past 127 triples")
	}
}

func TestEscapeEqualityShortcuts(t *testing.T) {
	c := Default()
	c.SetAll("%")
	if !c.EscapeEqBegin() || !c.EscapeEqEnd() {
		t.Fatal("expected escape to equal both begin and end after SetAll")
	}
}

func TestRebuildIsFullNotIncremental(t *testing.T) {
	c := Default()
	c.AddMulti("[[", "]]", "", false)
	// collapse back to single with a begin that doesn't share a first byte
	// with the old multi-mode triples; the '[' bit must be gone.
	c.Set(Begin, "#<")
	if c.FirstByteMatch('[') {
		t.Fatal("stale bit from discarded multi-mode triple survived rebuild")
	}
	if !c.FirstByteMatch('#') {
		t.Fatal("new begin's first byte should be set")
	}
}

func TestAddMultiOrdersByDescendingBeginLength(t *testing.T) {
	c := Default()
	c.Set(Escape, "\\")
	if err := c.AddMulti("{{", "}}", "", false); err != nil {
		t.Fatal(err)
	}
	if err := c.AddMulti("{{{", "}}}", "", false); err != nil {
		t.Fatal(err)
	}
	if err := c.AddMulti("{", "}", "", false); err != nil {
		t.Fatal(err)
	}
	triples := c.Triples()
	wantOrder := []string{"{{{", "{{", "{"}
	if len(triples) != len(wantOrder) {
		t.Fatalf("got %d triples, want %d", len(triples), len(wantOrder))
	}
	for i, want := range wantOrder {
		if triples[i].Begin != want {
			t.Fatalf("triples[%d].Begin = %q, want %q (full order: %v)", i, triples[i].Begin, want, triples)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := Default()
	clone := c.Clone()
	clone.Set(Begin, "<<")
	if c.PrimaryBegin() == clone.PrimaryBegin() {
		t.Fatal("clone shares state with original")
	}
}
