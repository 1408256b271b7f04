// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package eestream

import (
	"github.com/klauspost/reedsolomon"

	"storj.io/fragment/private/technique"
)

func init() { register(technique.ReedSolomonVandermonde, vandermondeTechnique{}) }

// maxGF8Shards is the largest share count a GF(2^8) Vandermonde code supports.
const maxGF8Shards = 256

type vandermondeTechnique struct{}

func (vandermondeTechnique) Validate(p Params) error {
	if err := validWordSize(p.W); err != nil {
		return err
	}
	if p.W == 8 && p.K+p.M > maxGF8Shards {
		return invalid("reed_sol_van with w=8 supports at most %d shares, got k+m=%d", maxGF8Shards, p.K+p.M)
	}
	return nil
}

func (vandermondeTechnique) NewScheme(p Params) (ErasureScheme, error) {
	var opts []reedsolomon.Option
	if p.W == 8 {
		opts = append(opts, reedsolomon.WithJerasureMatrix())
	} else {
		opts = append(opts, reedsolomon.WithLeopardGF16(true))
	}
	enc, err := reedsolomon.New(p.K, p.M, opts...)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return &vandermondeScheme{enc: enc, k: p.K, m: p.M}, nil
}

type vandermondeScheme struct {
	enc  reedsolomon.Encoder
	k, m int
}

func (s *vandermondeScheme) Encode(stripe []byte, coding [][]byte) error {
	if len(coding) != s.m {
		return Error.New("expected %d coding shares, got %d", s.m, len(coding))
	}
	if len(stripe)%s.k != 0 {
		return Error.New("stripe of %d bytes does not split into %d shares", len(stripe), s.k)
	}
	size := len(stripe) / s.k

	shards := make([][]byte, 0, s.k+s.m)
	for i := 0; i < s.k; i++ {
		shards = append(shards, stripe[i*size:(i+1)*size:(i+1)*size])
	}
	shards = append(shards, coding...)
	return Error.Wrap(s.enc.Encode(shards))
}

func (s *vandermondeScheme) Rebuild(shares [][]byte) error {
	return Error.Wrap(s.enc.ReconstructData(shares))
}

func (s *vandermondeScheme) TotalCount() int    { return s.k + s.m }
func (s *vandermondeScheme) RequiredCount() int { return s.k }
