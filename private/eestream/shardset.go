// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package eestream

import "math"

// ShardSet holds the shares of one pass. The k data shares are views into a
// single stripe buffer; the coding shares are separate buffers. All of them
// are allocated once and reused for every pass.
type ShardSet struct {
	k, m      int
	shareSize int
	stripe    []byte
	shares    [][]byte
	views     [][]byte
}

// NewShardSet allocates a ShardSet for k data and m coding shares of
// shareSize bytes each.
func NewShardSet(k, m, shareSize int) (*ShardSet, error) {
	if k < 1 || m < 0 || shareSize < 0 {
		return nil, Error.New("invalid shard set k=%d m=%d size=%d", k, m, shareSize)
	}
	if shareSize > 0 && k+m > math.MaxInt/shareSize {
		return nil, Error.New("shard set of %d×%d bytes is too large", k+m, shareSize)
	}

	s := &ShardSet{
		k:         k,
		m:         m,
		shareSize: shareSize,
		stripe:    make([]byte, k*shareSize),
		shares:    make([][]byte, k+m),
		views:     make([][]byte, k+m),
	}
	for i := 0; i < k; i++ {
		s.shares[i] = s.stripe[i*shareSize : (i+1)*shareSize : (i+1)*shareSize]
	}
	for i := k; i < k+m; i++ {
		s.shares[i] = make([]byte, shareSize)
	}
	return s, nil
}

// ShareSize returns the size of every share.
func (s *ShardSet) ShareSize() int { return s.shareSize }

// Stripe returns the buffer backing all data shares.
func (s *ShardSet) Stripe() []byte { return s.stripe }

// Share returns share num; data shares come first.
func (s *ShardSet) Share(num int) []byte { return s.shares[num] }

// Coding returns the coding shares.
func (s *ShardSet) Coding() [][]byte { return s.shares[s.k:] }

// Encode fills the coding shares from the current stripe.
func (s *ShardSet) Encode(scheme ErasureScheme) error {
	return scheme.Encode(s.stripe, s.Coding())
}

// Rebuild regenerates the data shares that are not marked present.
func (s *ShardSet) Rebuild(scheme ErasureScheme, present []bool) error {
	if len(present) != s.k+s.m {
		return Error.New("expected %d presence flags, got %d", s.k+s.m, len(present))
	}

	if s.shareSize == 0 {
		return nil
	}

	missing := false
	for i, share := range s.shares {
		if present[i] {
			s.views[i] = share
			continue
		}
		s.views[i] = share[:0]
		if i < s.k {
			missing = true
		}
	}
	if !missing {
		return nil
	}

	if err := scheme.Rebuild(s.views); err != nil {
		return err
	}

	for i := 0; i < s.k; i++ {
		if present[i] {
			continue
		}
		rebuilt := s.views[i]
		if len(rebuilt) != s.shareSize {
			return Error.New("share %d rebuilt to %d bytes, expected %d", i, len(rebuilt), s.shareSize)
		}
		if &rebuilt[0] != &s.shares[i][0] {
			copy(s.shares[i], rebuilt)
		}
	}
	return nil
}
