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

package source

import (
	"strings"
	"testing"

	"github.com/SnellerInc/mucgly/hook"
)

func TestStackGetOnePopsAcrossSources(t *testing.T) {
	s := NewStack(hook.Default())
	s.items = append(s.items, FromReader("a", strings.NewReader("A"), hook.Default()))
	s.items = append(s.items, FromReader("b", strings.NewReader("B"), hook.Default()))
	s.active = 1 // "b" is active (LIFO top)

	var out []byte
	for {
		b, ok := s.GetOne()
		if !ok {
			break
		}
		out = append(out, b)
	}
	if string(out) != "BA" {
		t.Fatalf("got %q, want %q (the active source's bytes, then the one beneath it once the active one is exhausted)", out, "BA")
	}
	if s.Len() != 0 {
		t.Fatalf("expected both exhausted sources popped, Len()=%d", s.Len())
	}
}

func TestPushDeferredWithSynthesizedSources(t *testing.T) {
	s := NewStack(hook.Default())
	base := FromReader("base", strings.NewReader("X"), hook.Default())
	s.items = append(s.items, base)
	s.active = 0

	included := FromReader("included", strings.NewReader("Y"), hook.Default())
	s.items = append(s.items, included)
	handle := 1 // as PushDeferred would have returned

	// reads still come from "base" until Activate is called
	b, ok := s.GetNoPop()
	if !ok || b != 'X' {
		t.Fatalf("expected reads from base before activation, got %q ok=%v", b, ok)
	}

	s.Activate(handle)
	b, ok = s.GetOne()
	if !ok || b != 'Y' {
		t.Fatalf("expected reads from included after activation, got %q ok=%v", b, ok)
	}
}

func TestGetNReturnsFewerOnEOF(t *testing.T) {
	s := NewStack(hook.Default())
	s.items = append(s.items, FromReader("a", strings.NewReader("ab"), hook.Default()))
	s.active = 0

	got := s.GetN(5)
	if string(got) != "ab" {
		t.Fatalf("got %q, want %q", got, "ab")
	}
}

func TestPutNOrdersFirstByteNext(t *testing.T) {
	s := NewStack(hook.Default())
	s.items = append(s.items, FromReader("a", strings.NewReader(""), hook.Default()))
	s.active = 0

	s.PutN([]byte("xyz"))
	b, _ := s.GetOne()
	if b != 'x' {
		t.Fatalf("got %q, want 'x' to be served first", b)
	}
	b, _ = s.GetOne()
	if b != 'y' {
		t.Fatalf("got %q, want 'y'", b)
	}
}
