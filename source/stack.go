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

import "github.com/SnellerInc/mucgly/hook"

// Stack is a LIFO sequence of Sources. active names the index of the Source
// currently being read from, which can trail behind the physical top of
// items while a deferred push is pending (see PushDeferred).
type Stack struct {
	Defaults *hook.Config

	// OnPop, if set, is called every time a Source is closed and removed,
	// whether via Pop or automatically on EOF inside GetOne. Used by
	// includecache to finalize a source's content digest once it is fully
	// consumed.
	OnPop func(*Source)

	items  []*Source
	active int // -1 when empty
}

// NewStack returns an empty stack that will clone defaults for the first
// Source pushed onto it.
func NewStack(defaults *hook.Config) *Stack {
	return &Stack{Defaults: defaults, active: -1}
}

// Top returns the currently active Source, or nil if the stack is empty.
func (s *Stack) Top() *Source {
	if s.active < 0 {
		return nil
	}
	return s.items[s.active]
}

// Len reports the number of open sources (including ones pushed but not yet
// activated).
func (s *Stack) Len() int { return len(s.items) }

// At returns the Source for a handle previously returned by PushDeferred, or
// nil if the handle is out of range.
func (s *Stack) At(handle int) *Source {
	if handle < 0 || handle >= len(s.items) {
		return nil
	}
	return s.items[handle]
}

func (s *Stack) parentHooks() *hook.Config {
	if top := s.Top(); top != nil {
		return top.Hooks.Clone()
	}
	return s.Defaults.Clone()
}

// Push opens name and makes it the active source immediately.
func (s *Stack) Push(name string) error {
	src, err := Open(name, s.parentHooks())
	if err != nil {
		return err
	}
	s.items = append(s.items, src)
	s.active = len(s.items) - 1
	return nil
}

// PushDeferred opens name and places it at the top of the physical stack,
// but leaves the previous source active. It returns a handle the caller
// must pass to Activate once the deferred mutation should take effect (see
// engine's pending-operation queue).
func (s *Stack) PushDeferred(name string) (handle int, err error) {
	src, err := Open(name, s.parentHooks())
	if err != nil {
		return -1, err
	}
	s.items = append(s.items, src)
	return len(s.items) - 1, nil
}

// Activate makes the source at handle (as returned by PushDeferred) the
// active one.
func (s *Stack) Activate(handle int) {
	if handle >= 0 && handle < len(s.items) {
		s.active = handle
	}
}

// Pop closes and removes the active source.
func (s *Stack) Pop() {
	if s.active < 0 {
		return
	}
	s.removeAt(s.active)
}

func (s *Stack) removeAt(i int) {
	src := s.items[i]
	src.Close()
	s.items = append(s.items[:i], s.items[i+1:]...)
	if len(s.items) == 0 {
		s.active = -1
	} else if s.active >= len(s.items) {
		s.active = len(s.items) - 1
	}
	if s.OnPop != nil {
		s.OnPop(src)
	}
}

// GetOne reads one byte from the active source, popping exhausted sources
// and retrying until a byte is produced or the stack is empty.
func (s *Stack) GetOne() (byte, bool) {
	for {
		top := s.Top()
		if top == nil {
			return 0, false
		}
		if b, ok := top.Get(); ok {
			return b, true
		}
		s.removeAt(s.active)
	}
}

// GetNoPop reads one byte from the active source without popping it on EOF.
func (s *Stack) GetNoPop() (byte, bool) {
	top := s.Top()
	if top == nil {
		return 0, false
	}
	return top.Get()
}

// GetN accumulates up to n bytes via GetNoPop, returning fewer on EOF.
func (s *Stack) GetN(n int) []byte {
	buf := make([]byte, 0, n)
	for len(buf) < n {
		b, ok := s.GetNoPop()
		if !ok {
			break
		}
		buf = append(buf, b)
	}
	return buf
}

// PutN pushes b back onto the active source so that b[0] is the next byte
// GetOne/GetNoPop will return.
func (s *Stack) PutN(b []byte) {
	top := s.Top()
	if top == nil {
		return
	}
	for i := len(b) - 1; i >= 0; i-- {
		top.Put(b[i])
	}
}
