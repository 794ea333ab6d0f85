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

// Package includecache digests the content of every ":include"d source and
// reports when two includes pull in byte-identical content, purely as a
// diagnostic: it never changes what the engine reads or emits.
package includecache

import (
	"encoding/hex"
	"sync"
)

// Cache tracks content digests observed across every include processed in a
// run.
type Cache struct {
	mu   sync.RWMutex
	seen map[string]string // hex digest -> name of the source first seen with it

	hits   int
	misses int
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{seen: make(map[string]string)}
}

// Observe records digest as having been produced by name, and reports
// whether an earlier source already produced the same digest. When dup is
// true, first names that earlier source.
func (c *Cache) Observe(digest [32]byte, name string) (dup bool, first string) {
	key := hex.EncodeToString(digest[:])

	c.mu.Lock()
	defer c.mu.Unlock()

	if prior, ok := c.seen[key]; ok {
		c.hits++
		return true, prior
	}
	c.seen[key] = name
	c.misses++
	return false, ""
}

// Counters reports the number of duplicate (hits) and unique (misses)
// includes observed so far, for ":cacheinfo".
func (c *Cache) Counters() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
