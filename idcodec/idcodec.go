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

// Package idcodec fingerprints dispatched macro bodies so that two
// invocations with byte-identical bodies can be correlated in diagnostics,
// without storing or comparing the bodies themselves. It uses a keyed,
// fast, non-cryptographic hash: exactly what a diagnostic tag needs, and
// nothing a real content digest would require.
package idcodec

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/dchest/siphash"
)

// Tagger computes short fingerprints under a fixed key.
type Tagger struct {
	k0, k1 uint64
}

// New returns a Tagger keyed with k0, k1.
func New(k0, k1 uint64) *Tagger {
	return &Tagger{k0: k0, k1: k1}
}

// NewRandom returns a Tagger keyed with a fresh random 128-bit key, generated
// once at process startup. The key only needs to avoid collisions within a
// single run; it is never persisted or compared across runs.
func NewRandom() (*Tagger, error) {
	var key [16]byte
	if _, err := rand.Read(key[:]); err != nil {
		return nil, fmt.Errorf("idcodec: generating random key: %w", err)
	}
	return &Tagger{
		k0: binary.LittleEndian.Uint64(key[:8]),
		k1: binary.LittleEndian.Uint64(key[8:]),
	}, nil
}

// Tag returns a 16-hex-character fingerprint of body.
func (t *Tagger) Tag(body []byte) string {
	lo, _ := siphash.Hash128(t.k0, t.k1, body)
	return fmt.Sprintf("%016x", lo)
}
