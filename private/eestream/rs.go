// Copyright (C) 2019 Storj Labs, Inc.
// See LICENSE for copying information.

package eestream

import (
	"storj.io/common/sync2/race2"
	"storj.io/fragment/private/technique"
	"storj.io/infectious"
)

func init() { register(technique.ReedSolomonR6Optimized, r6Technique{}) }

type r6Technique struct{}

func (r6Technique) Validate(p Params) error {
	if p.M != 2 {
		return invalid("reed_sol_r6_op requires m == 2, got %d", p.M)
	}
	if err := validWordSize(p.W); err != nil {
		return err
	}
	if p.K+p.M > maxFECTotal {
		return invalid("reed_sol_r6_op supports at most %d shares, got k+m=%d", maxFECTotal, p.K+p.M)
	}
	return nil
}

func (r6Technique) NewScheme(p Params) (ErasureScheme, error) {
	fc, err := NewFEC(p.K, p.K+p.M)
	if err != nil {
		return nil, err
	}
	return NewRSScheme(fc), nil
}

type rsScheme struct {
	fc *infectious.FEC
}

// NewRSScheme returns a Reed-Solomon-based ErasureScheme computing every
// coding share directly from the stripe.
func NewRSScheme(fc *infectious.FEC) ErasureScheme {
	return &rsScheme{fc: fc}
}

func (s *rsScheme) Encode(stripe []byte, coding [][]byte) error {
	race2.ReadSlice(stripe)
	k := s.fc.Required()
	for i, out := range coding {
		race2.WriteSlice(out)
		if err := s.fc.EncodeSingle(stripe, out, k+i); err != nil {
			return Error.Wrap(err)
		}
	}
	return nil
}

func (s *rsScheme) Rebuild(shares [][]byte) error {
	k := s.fc.Required()

	in := make([]infectious.Share, 0, len(shares))
	missing := 0
	for num, data := range shares {
		if len(data) == 0 {
			if num < k {
				missing++
			}
			continue
		}
		race2.ReadSlice(data)
		in = append(in, infectious.Share{Number: num, Data: data})
	}
	if missing == 0 {
		return nil
	}
	if len(in) < k {
		return Error.New("need %d shares to rebuild, have %d", k, len(in))
	}

	err := s.fc.Rebuild(in, func(share infectious.Share) {
		if share.Number < k && len(shares[share.Number]) == 0 {
			shares[share.Number] = append(shares[share.Number][:0], share.Data...)
		}
	})
	return Error.Wrap(err)
}

func (s *rsScheme) TotalCount() int {
	return s.fc.Total()
}

func (s *rsScheme) RequiredCount() int {
	return s.fc.Required()
}
