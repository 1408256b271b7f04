// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package randfill produces reproducible pseudo-random content.
package randfill

import (
	"encoding/binary"

	"github.com/zeebo/mwc"
)

// Source is a seeded stream of pseudo-random bytes. It implements io.Reader
// and never fails. The stream does not depend on how it is split into reads.
type Source struct {
	rng *mwc.T
	buf [8]byte
	off int
}

// New returns a Source that always yields the same bytes for the same seed.
func New(seed uint64) *Source {
	return &Source{
		rng: mwc.New(seed, seed^0x9e3779b97f4a7c15),
		off: 8,
	}
}

// Fill overwrites b with the next len(b) bytes of the stream.
func (s *Source) Fill(b []byte) {
	// drain the word left over from the previous call.
	n := copy(b, s.buf[s.off:])
	s.off += n
	b = b[n:]

	// whole words come straight from the generator, little endian.
	if words := len(b) &^ 7; words > 0 {
		_, _ = s.rng.Read(b[:words])
		b = b[words:]
	}

	if len(b) > 0 {
		binary.LittleEndian.PutUint64(s.buf[:], s.rng.Uint64())
		s.off = copy(b, s.buf[:])
	}
}

// Read implements io.Reader.
func (s *Source) Read(b []byte) (int, error) {
	s.Fill(b)
	return len(b), nil
}
