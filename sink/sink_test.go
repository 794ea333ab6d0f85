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

package sink

import (
	"bytes"
	"testing"
)

func TestWriteByteCountsLines(t *testing.T) {
	var buf bytes.Buffer
	s := FromWriter("test", &buf)
	for _, b := range []byte("ab\ncd\n") {
		if err := s.WriteByte(b, false); err != nil {
			t.Fatal(err)
		}
	}
	s.w.Flush()
	if buf.String() != "ab\ncd\n" {
		t.Fatalf("got %q", buf.String())
	}
	if s.Line != 2 {
		t.Fatalf("Line = %d, want 2", s.Line)
	}
}

func TestBlockedDropsWritesWithoutAdvancingLine(t *testing.T) {
	var buf bytes.Buffer
	s := FromWriter("test", &buf)
	s.Blocked = true
	s.WriteString("hello\n", true)
	if buf.Len() != 0 {
		t.Fatalf("blocked sink wrote %q", buf.String())
	}
	if s.Line != 0 {
		t.Fatalf("blocked sink advanced Line to %d", s.Line)
	}
}

func TestStackPopNeverRemovesLastSink(t *testing.T) {
	s := NewStack()
	s.items = append(s.items, FromWriter("only", &bytes.Buffer{}))
	s.Pop()
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (last sink must survive Pop)", s.Len())
	}
}

func TestStackTopIsMostRecentlyPushed(t *testing.T) {
	s := NewStack()
	s.items = append(s.items, FromWriter("a", &bytes.Buffer{}), FromWriter("b", &bytes.Buffer{}))
	if s.Top().Name != "b" {
		t.Fatalf("Top().Name = %q, want %q", s.Top().Name, "b")
	}
	s.Pop()
	if s.Top().Name != "a" {
		t.Fatalf("after Pop, Top().Name = %q, want %q", s.Top().Name, "a")
	}
}
