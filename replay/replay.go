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

// Package replay tees a sink's output into a zstd-compressed trace file, so
// a run can be replayed or diffed later without re-running the evaluator.
package replay

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Writer tees every Write into both an underlying writer and a
// zstd-compressed trace file.
type Writer struct {
	underlying io.Writer
	enc        *zstd.Encoder
	f          *os.File
}

// Open creates path (truncating) and returns a Writer that tees writes made
// through it into both underlying and the compressed trace.
func Open(path string, underlying io.Writer) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("replay: opening trace file: %w", err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("replay: starting zstd encoder: %w", err)
	}
	return &Writer{underlying: underlying, enc: enc, f: f}, nil
}

// Write satisfies io.Writer: bytes land in the underlying writer first, and
// only on success are they also mirrored into the trace.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.underlying.Write(p)
	if err != nil {
		return n, err
	}
	if _, terr := w.enc.Write(p[:n]); terr != nil {
		return n, fmt.Errorf("replay: writing trace: %w", terr)
	}
	return n, nil
}

// Close flushes and closes the zstd stream and the trace file. It does not
// close the underlying writer, which the caller owns.
func (w *Writer) Close() error {
	if err := w.enc.Close(); err != nil {
		w.f.Close()
		return fmt.Errorf("replay: closing zstd encoder: %w", err)
	}
	return w.f.Close()
}
