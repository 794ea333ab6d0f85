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

// Package metrics holds the engine's optional run counters: plain
// atomically-updated totals a driver can print after a run, with no
// dependency on a specific metrics backend. A run that doesn't ask for
// Counters pays nothing beyond one nil check per increment site.
package metrics

import (
	"fmt"
	"sync/atomic"
)

// Counters accumulates one run's activity. The zero value is ready to use;
// every method is safe for concurrent use, though in practice the engine
// only ever touches a given Counters from its own scan loop.
type Counters struct {
	bytesScanned     int64
	bytesEmitted     int64
	macrosDispatched int64
	includesOpened   int64
	warnings         int64
}

// New returns a ready-to-use, zeroed Counters.
func New() *Counters { return &Counters{} }

// AddBytesScanned adds n to the count of input bytes the scanner has
// consumed.
func (c *Counters) AddBytesScanned(n int) { atomic.AddInt64(&c.bytesScanned, int64(n)) }

// AddBytesEmitted adds n to the count of bytes written to a sink.
func (c *Counters) AddBytesEmitted(n int) { atomic.AddInt64(&c.bytesEmitted, int64(n)) }

// IncMacrosDispatched counts one macro body reaching dispatch.
func (c *Counters) IncMacrosDispatched() { atomic.AddInt64(&c.macrosDispatched, 1) }

// IncIncludesOpened counts one source opened via :include or pushinput().
func (c *Counters) IncIncludesOpened() { atomic.AddInt64(&c.includesOpened, 1) }

// IncWarnings counts one non-fatal diagnostic appended to Engine.Warnings.
func (c *Counters) IncWarnings() { atomic.AddInt64(&c.warnings, 1) }

// BytesScanned returns the current input byte count.
func (c *Counters) BytesScanned() int64 { return atomic.LoadInt64(&c.bytesScanned) }

// BytesEmitted returns the current output byte count.
func (c *Counters) BytesEmitted() int64 { return atomic.LoadInt64(&c.bytesEmitted) }

// MacrosDispatched returns the current dispatched-macro count.
func (c *Counters) MacrosDispatched() int64 { return atomic.LoadInt64(&c.macrosDispatched) }

// IncludesOpened returns the current opened-include count.
func (c *Counters) IncludesOpened() int64 { return atomic.LoadInt64(&c.includesOpened) }

// Warnings returns the current non-fatal-diagnostic count.
func (c *Counters) Warnings() int64 { return atomic.LoadInt64(&c.warnings) }

// String renders every counter on one line, for a driver's end-of-run
// summary.
func (c *Counters) String() string {
	return fmt.Sprintf("bytes_scanned=%d bytes_emitted=%d macros_dispatched=%d includes_opened=%d warnings=%d",
		c.BytesScanned(), c.BytesEmitted(), c.MacrosDispatched(), c.IncludesOpened(), c.Warnings())
}
