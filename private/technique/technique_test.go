// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package technique_test

import (
	"testing"

	"github.com/zeebo/assert"

	"storj.io/fragment/private/technique"
)

func TestParseOrdinals(t *testing.T) {
	cases := []struct {
		name    string
		ordinal int
	}{
		{"reed_sol_van", 0},
		{"reed_sol_r6_op", 1},
		{"cauchy_orig", 2},
		{"cauchy_good", 3},
		{"liberation", 4},
		{"blaum_roth", 5},
		{"liber8tion", 6},
		{"rdp", 7},
		{"evenodd", 8},
		{"no_coding", 9},
	}
	for _, c := range cases {
		tech, ok := technique.Parse(c.name)
		assert.True(t, ok)
		assert.Equal(t, tech.Ordinal(), c.ordinal)
		assert.Equal(t, tech.String(), c.name)

		back, ok := technique.FromOrdinal(c.ordinal)
		assert.True(t, ok)
		assert.Equal(t, back, tech)
	}
	assert.Equal(t, len(technique.All()), len(cases))
}

func TestParseUnknown(t *testing.T) {
	for _, name := range []string{"", "Reed_Sol_Van", "cauchy", "reed_sol_van "} {
		_, ok := technique.Parse(name)
		assert.False(t, ok)
	}
	_, ok := technique.FromOrdinal(10)
	assert.False(t, ok)
	_, ok = technique.FromOrdinal(-1)
	assert.False(t, ok)
}

func TestImplemented(t *testing.T) {
	assert.False(t, technique.RDP.Implemented())
	assert.False(t, technique.EvenOdd.Implemented())
	assert.True(t, technique.NoCoding.Implemented())
	assert.True(t, technique.Liber8tion.UsesBitmatrix())
	assert.False(t, technique.ReedSolomonVandermonde.UsesBitmatrix())
}

func TestIsPrime(t *testing.T) {
	naive := func(n int) bool {
		if n < 2 {
			return false
		}
		for d := 2; d*d <= n; d++ {
			if n%d == 0 {
				return false
			}
		}
		return true
	}
	for n := -3; n < 5000; n++ {
		assert.Equal(t, technique.IsPrime(n), naive(n))
	}
	assert.True(t, technique.IsPrime(65537))
	assert.False(t, technique.IsPrime(263*269))
}
