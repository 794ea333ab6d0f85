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

package engine

import "github.com/SnellerInc/mucgly/source"

// deferPush arranges for the source at handle (as returned by
// source.Stack.PushDeferred) to become active once the current macro
// finishes evaluating. Queuing this instead of activating immediately keeps
// the scanner from resuming mid-macro-evaluation on the just-included
// file's bytes.
func (e *Engine) deferPush(handle int) {
	e.pending = append(e.pending, func(s *source.Stack) { s.Activate(handle) })
}

// deferPop arranges for the active source to be popped once the current
// macro finishes evaluating.
func (e *Engine) deferPop() {
	e.pending = append(e.pending, func(s *source.Stack) { s.Pop() })
}

// applyPending drains and runs every queued structural mutation, in the
// order they were queued.
func (e *Engine) applyPending() {
	ops := e.pending
	e.pending = nil
	for _, op := range ops {
		op(e.Sources)
	}
}

// pushInclude opens path, arms includecache digesting on it if enabled, and
// queues its activation for when the current macro closes. Shared by the
// ":include" directive and the pushinput() host binding.
func (e *Engine) pushInclude(path string) error {
	handle, err := e.Sources.PushDeferred(path)
	if err != nil {
		return err
	}
	if e.Metrics != nil {
		e.Metrics.IncIncludesOpened()
	}
	e.armDigester(e.Sources.At(handle))
	e.deferPush(handle)
	return nil
}
