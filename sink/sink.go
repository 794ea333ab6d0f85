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

// Package sink implements the output side of the engine: a blockable,
// line-counting output stream, and a LIFO stack of them.
package sink

import (
	"bufio"
	"io"
	"os"
)

// Stdout is the display name used for standard output.
const Stdout = "<STDOUT>"

// Sink is one output stream.
type Sink struct {
	Name    string
	Line    int
	Blocked bool

	w        *bufio.Writer
	closer   io.Closer
	file     *os.File // non-nil only for real files, used for Sync
	isStdout bool
}

// Open creates (truncating) name for writing, or standard output when name
// is empty.
func Open(name string) (*Sink, error) {
	if name == "" {
		return &Sink{Name: Stdout, w: bufio.NewWriter(os.Stdout), isStdout: true}, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	return &Sink{Name: name, w: bufio.NewWriter(f), closer: f, file: f}, nil
}

// FromWriter wraps an arbitrary writer as a Sink; used by tests.
func FromWriter(name string, w io.Writer) *Sink {
	return &Sink{Name: name, w: bufio.NewWriter(w)}
}

// New builds a Sink around a caller-supplied writer and closer, for drivers
// that wrap the real destination (e.g. a replay trace tee) before handing it
// to the engine. When closer is a real *os.File, flushing writes also syncs it.
func New(name string, w io.Writer, closer io.Closer, isStdout bool) *Sink {
	s := &Sink{Name: name, w: bufio.NewWriter(w), closer: closer, isStdout: isStdout}
	if f, ok := closer.(*os.File); ok {
		s.file = f
	}
	return s
}

// Close flushes and closes the underlying file, unless this Sink is
// standard output.
func (s *Sink) Close() error {
	s.w.Flush()
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// IsStdout reports whether this Sink writes to standard output.
func (s *Sink) IsStdout() bool { return s.isStdout }

// WriteByte writes b unless the sink is blocked, counts a completed line on
// '\n', and flushes (and fsyncs, for real files) when flush is true.
func (s *Sink) WriteByte(b byte, flush bool) error {
	if s.Blocked {
		return nil
	}
	if err := s.w.WriteByte(b); err != nil {
		return err
	}
	if b == '\n' {
		s.Line++
	}
	return s.maybeFlush(flush)
}

// WriteString writes s unless the sink is blocked, counting completed lines,
// and flushes once at the end when flush is true. This is equivalent to
// calling WriteByte once per byte, just without the per-byte call overhead.
func (s *Sink) WriteString(str string, flush bool) error {
	if s.Blocked {
		return nil
	}
	if _, err := s.w.WriteString(str); err != nil {
		return err
	}
	for i := 0; i < len(str); i++ {
		if str[i] == '\n' {
			s.Line++
		}
	}
	return s.maybeFlush(flush)
}

func (s *Sink) maybeFlush(flush bool) error {
	if !flush {
		return nil
	}
	if err := s.w.Flush(); err != nil {
		return err
	}
	if s.file != nil {
		return s.file.Sync()
	}
	return nil
}
