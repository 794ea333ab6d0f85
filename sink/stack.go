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

// Stack is a LIFO sequence of Sinks; writes always go to the top.
type Stack struct {
	items []*Sink
}

// NewStack returns an empty sink stack.
func NewStack() *Stack { return &Stack{} }

// NewStackWith returns a sink stack whose sole, initial member is first. The
// driver uses this to seed the stack with the process's real destination
// (standard output, a named file, or a replay-wrapped writer) before the
// engine ever runs.
func NewStackWith(first *Sink) *Stack { return &Stack{items: []*Sink{first}} }

// Top returns the current output sink, or nil if the stack is empty.
func (s *Stack) Top() *Sink {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

// Len reports the number of open sinks.
func (s *Stack) Len() int { return len(s.items) }

// Push opens name and makes it the new top.
func (s *Stack) Push(name string) error {
	sk, err := Open(name)
	if err != nil {
		return err
	}
	s.items = append(s.items, sk)
	return nil
}

// Pop closes the top sink (unless it is standard output) and removes it.
// Popping the last sink on the stack is a no-op: there must always be
// somewhere for output to go.
func (s *Stack) Pop() {
	if len(s.items) <= 1 {
		return
	}
	top := s.items[len(s.items)-1]
	top.Close()
	s.items = s.items[:len(s.items)-1]
}
