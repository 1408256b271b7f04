// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package fragment

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/mwc"
)

func TestComputeSizing(t *testing.T) {
	cases := []struct {
		desc       string
		size       int64
		k          int
		unit       int64
		bufferSize int
		want       sizing
	}{
		{"empty", 0, 4, 256, 0, sizing{size: 0, padded: 256, pass: 256, readins: 1, shareSize: 64}},
		{"exact", 1024, 4, 256, 0, sizing{size: 1024, padded: 1024, pass: 1024, readins: 1, shareSize: 256}},
		{"padded", 10000, 4, 256, 0, sizing{size: 10000, padded: 10240, pass: 10240, readins: 1, shareSize: 2560}},
		{"fits buffer", 1000, 4, 256, 1024, sizing{size: 1000, padded: 1024, pass: 1024, readins: 1, shareSize: 256}},
		{"equal to buffer", 1024, 4, 256, 1024, sizing{size: 1024, padded: 1024, pass: 1024, readins: 1, shareSize: 256}},
		{"small in big buffer", 100, 4, 256, 4096, sizing{size: 100, padded: 256, pass: 256, readins: 1, shareSize: 64}},
		{"multi pass", 1025, 4, 256, 1024, sizing{size: 1025, padded: 2048, pass: 1024, readins: 2, shareSize: 256}},
		{"many passes", 10000, 2, 16, 1024, sizing{size: 10000, padded: 10240, pass: 1024, readins: 10, shareSize: 512}},
	}
	for _, c := range cases {
		got, err := computeSizing(c.size, c.k, c.unit, c.bufferSize)
		require.NoError(t, err, c.desc)
		require.Equal(t, c.want, got, c.desc)
	}
}

func TestComputeSizingProperties(t *testing.T) {
	for i := 0; i < 1000; i++ {
		k := mwc.Intn(12) + 1
		w := mwc.Intn(16) + 1
		unit, err := AlignmentUnit(k, w, 0)
		require.NoError(t, err)

		bufferSize := 0
		if mwc.Intn(2) == 0 {
			bufferSize, err = NormalizeBufferSize(mwc.Intn(1<<16)+1, k, w, 0)
			require.NoError(t, err)
		}
		size := int64(mwc.Intn(1 << 20))

		s, err := computeSizing(size, k, unit, bufferSize)
		require.NoError(t, err)
		require.Zero(t, int64(s.pass)%unit)
		require.Equal(t, s.padded, int64(s.pass)*int64(s.readins))
		require.GreaterOrEqual(t, s.padded, size)
		require.Equal(t, s.pass, s.shareSize*k)
		if s.readins > 1 {
			require.Equal(t, bufferSize, s.pass)
			require.Less(t, s.padded-size, int64(bufferSize))
		}
	}
}

func TestComputeSizingLimits(t *testing.T) {
	_, err := computeSizing(MaxPassBuffer+1, 1, 8, 0)
	require.True(t, ErrAllocationFailure.Has(err))

	s, err := computeSizing(MaxPassBuffer+1, 1, 8, 1<<20)
	require.NoError(t, err)
	require.Equal(t, 4097, s.readins)
}
