// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package eestream

import "storj.io/fragment/private/technique"

func init() { register(technique.NoCoding, noCoding{}) }

type noCoding struct{}

func (noCoding) Validate(p Params) error {
	if p.M != 0 {
		return invalid("no_coding produces no coding shares, m must be 0, got %d", p.M)
	}
	return nil
}

func (noCoding) NewScheme(p Params) (ErasureScheme, error) {
	return newPassThrough(p.K), nil
}

// passThrough splits data into shares without redundancy.
type passThrough struct {
	k int
}

func newPassThrough(k int) ErasureScheme { return &passThrough{k: k} }

func (s *passThrough) Encode(stripe []byte, coding [][]byte) error {
	if len(coding) != 0 {
		return Error.New("pass-through scheme has no coding shares, got %d", len(coding))
	}
	if len(stripe)%s.k != 0 {
		return Error.New("stripe of %d bytes does not split into %d shares", len(stripe), s.k)
	}
	return nil
}

func (s *passThrough) Rebuild(shares [][]byte) error {
	for i := 0; i < s.k; i++ {
		if len(shares[i]) == 0 {
			return Error.New("share %d is missing and cannot be rebuilt without coding shares", i)
		}
	}
	return nil
}

func (s *passThrough) TotalCount() int    { return s.k }
func (s *passThrough) RequiredCount() int { return s.k }
