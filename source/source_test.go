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

func newTestSource(text string) *Source {
	return FromReader("test", strings.NewReader(text), hook.Default())
}

func TestGetPutInverse(t *testing.T) {
	s := newTestSource("ab\ncd")
	for i := 0; i < 5; i++ {
		b, ok := s.Get()
		if !ok {
			t.Fatalf("unexpected EOF at %d", i)
		}
		line, col := s.Line, s.Col
		s.Put(b)
		b2, ok2 := s.Get()
		if !ok2 || b2 != b {
			t.Fatalf("round trip mismatch: got %q, want %q", b2, b)
		}
		if s.Line != line || s.Col != col {
			t.Fatalf("position mismatch after round trip: got (%d,%d) want (%d,%d)", s.Line, s.Col, line, col)
		}
	}
}

func TestNewlineTracksLineAndColumn(t *testing.T) {
	s := newTestSource("ab\ncd")
	want := []struct {
		b          byte
		line, col int
	}{
		{'a', 0, 0},
		{'b', 0, 1},
		{'\n', 0, 2},
		{'c', 1, 0},
		{'d', 1, 1},
	}
	for i, w := range want {
		if s.Line != w.line || s.Col != w.col {
			t.Fatalf("before byte %d: got (%d,%d) want (%d,%d)", i, s.Line, s.Col, w.line, w.col)
		}
		b, ok := s.Get()
		if !ok || b != w.b {
			t.Fatalf("byte %d: got %q ok=%v want %q", i, b, ok, w.b)
		}
	}
	if s.Line != 1 || s.Col != 2 {
		t.Fatalf("final position = (%d,%d)", s.Line, s.Col)
	}
	if _, ok := s.Get(); ok {
		t.Fatal("expected EOF")
	}
}

func TestPutNewlineRestoresPrevCol(t *testing.T) {
	s := newTestSource("xx\ny")
	s.Get() // x
	s.Get() // x
	b, _ := s.Get() // '\n', line becomes 1, col 0
	if b != '\n' || s.Line != 1 || s.Col != 0 {
		t.Fatalf("unexpected state before put: line=%d col=%d", s.Line, s.Col)
	}
	s.Put('\n')
	if s.Line != 0 || s.Col != 2 {
		t.Fatalf("put newline did not restore prevCol: line=%d col=%d", s.Line, s.Col)
	}
}

func TestEatTailSwallowsExactlyOneByte(t *testing.T) {
	s := newTestSource("abc")
	s.SetEatTail()
	b, ok := s.Get()
	if !ok || b != 'b' {
		t.Fatalf("got %q ok=%v, want 'b' (eat 'a')", b, ok)
	}
	b, ok = s.Get()
	if !ok || b != 'c' {
		t.Fatalf("got %q ok=%v, want 'c'", b, ok)
	}
}

func TestDigesterSeesOnlyFreshBytesNotPutback(t *testing.T) {
	s := newTestSource("ab")
	var seen []byte
	s.SetDigester(writerFunc(func(p []byte) (int, error) {
		seen = append(seen, p...)
		return len(p), nil
	}))
	b, _ := s.Get()
	s.Put(b)
	s.Get()
	s.Get()
	if string(seen) != "ab" {
		t.Fatalf("digester saw %q, want \"ab\" (no duplicate for the put-back byte)", seen)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
