// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package fragment

import (
	"math"
	"math/bits"

	"storj.io/fragment/private/technique"
)

// MaxPassBuffer bounds the memory of a single pass. Jobs needing a larger
// buffer fail with ErrAllocationFailure.
const MaxPassBuffer = 1 << 32

// PadByte fills the unused tail of the last pass.
const PadByte = '0'

// AlignmentUnit returns the granularity every pass buffer must be a multiple
// of: WordSize*w*k*packetSize, or WordSize*w*k when packetSize is zero.
func AlignmentUnit(k, w, packetSize int) (int64, error) {
	if k < 1 || w < 1 || packetSize < 0 {
		return 0, ErrInvalidParameter.New("invalid alignment parameters k=%d w=%d packetsize=%d", k, w, packetSize)
	}
	factors := []int{technique.WordSize, w, k}
	if packetSize != 0 {
		factors = append(factors, packetSize)
	}
	unit := uint64(1)
	for _, f := range factors {
		hi, lo := bits.Mul64(unit, uint64(f))
		if hi != 0 || lo > math.MaxInt64 {
			return 0, ErrAllocationFailure.New("alignment unit overflows for k=%d w=%d packetsize=%d", k, w, packetSize)
		}
		unit = lo
	}
	return int64(unit), nil
}

// NormalizeBufferSize rounds bufferSize up to the nearest multiple of the
// alignment unit. Zero stays zero and means a single pass.
func NormalizeBufferSize(bufferSize, k, w, packetSize int) (int, error) {
	if bufferSize < 0 {
		return 0, ErrInvalidParameter.New("buffersize must be non-negative, got %d", bufferSize)
	}
	unit, err := AlignmentUnit(k, w, packetSize)
	if err != nil {
		return 0, err
	}
	if bufferSize == 0 {
		return 0, nil
	}
	n, ok := roundUp(int64(bufferSize), unit)
	if !ok || n > math.MaxInt {
		return 0, ErrAllocationFailure.New("buffersize %d cannot be aligned to %d", bufferSize, unit)
	}
	return int(n), nil
}

// roundUp returns the smallest multiple of unit that is >= n.
func roundUp(n, unit int64) (int64, bool) {
	q := n / unit
	if n%unit != 0 {
		q++
	}
	hi, lo := bits.Mul64(uint64(q), uint64(unit))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

// sizing describes how a source of a given size is cut into passes.
type sizing struct {
	size      int64
	padded    int64
	pass      int
	readins   int
	shareSize int
}

// computeSizing pads size to the alignment unit and splits it into passes of
// bufferSize bytes. A zero bufferSize, or a source no larger than one
// buffer, is encoded in one pass covering the whole padded source. An empty
// source still produces one unit.
func computeSizing(size int64, k int, unit int64, bufferSize int) (sizing, error) {
	padded, ok := roundUp(max(size, 1), unit)
	if !ok {
		return sizing{}, ErrAllocationFailure.New("size %d cannot be padded to %d", size, unit)
	}

	s := sizing{size: size, padded: padded, readins: 1}
	pass := padded
	if bufferSize != 0 && size > int64(bufferSize) {
		s.padded, ok = roundUp(padded, int64(bufferSize))
		if !ok {
			return sizing{}, ErrAllocationFailure.New("size %d cannot be padded to %d", size, bufferSize)
		}
		pass = int64(bufferSize)
		readins := s.padded / pass
		if readins > math.MaxInt32 {
			return sizing{}, ErrAllocationFailure.New("%d passes are too many", readins)
		}
		s.readins = int(readins)
	}
	if pass > MaxPassBuffer {
		return sizing{}, ErrAllocationFailure.New("pass buffer of %d bytes exceeds %d", pass, int64(MaxPassBuffer))
	}

	s.pass = int(pass)
	s.shareSize = s.pass / k
	return s, nil
}
