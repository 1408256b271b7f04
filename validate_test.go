// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package fragment_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/errs"
	"github.com/zeebo/mwc"

	"storj.io/fragment"
	"storj.io/fragment/private/technique"
)

func TestValidateAccepts(t *testing.T) {
	cases := []struct {
		k, m, w, ps int
		name        string
		want        technique.CodingTechnique
	}{
		{4, 0, 8, 0, "no_coding", technique.NoCoding},
		{4, 2, 8, 0, "reed_sol_van", technique.ReedSolomonVandermonde},
		{10, 4, 16, 0, "reed_sol_van", technique.ReedSolomonVandermonde},
		{3, 3, 32, 0, "reed_sol_van", technique.ReedSolomonVandermonde},
		{6, 2, 8, 0, "reed_sol_r6_op", technique.ReedSolomonR6Optimized},
		{6, 2, 32, 0, "reed_sol_r6_op", technique.ReedSolomonR6Optimized},
		{4, 2, 4, 8, "cauchy_orig", technique.CauchyOriginal},
		{4, 2, 4, 8, "cauchy_good", technique.CauchyGood},
		{4, 2, 3, 1, "cauchy_good", technique.CauchyGood},
		{5, 2, 5, 8, "liberation", technique.Liberation},
		{3, 2, 7, 16, "liberation", technique.Liberation},
		{4, 2, 4, 8, "blaum_roth", technique.BlaumRoth},
		{6, 2, 6, 64, "blaum_roth", technique.BlaumRoth},
		{8, 2, 8, 8, "liber8tion", technique.Liber8tion},
	}
	for _, c := range cases {
		tech, err := fragment.Validate(c.k, c.m, c.w, c.ps, c.name)
		require.NoError(t, err, "%+v", c)
		require.Equal(t, c.want, tech)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		desc        string
		k, m, w, ps int
		name        string
		class       *errs.Class
	}{
		{"k zero", 0, 2, 8, 0, "reed_sol_van", &fragment.ErrInvalidParameter},
		{"m negative", 4, -1, 8, 0, "reed_sol_van", &fragment.ErrInvalidParameter},
		{"w zero", 4, 2, 0, 0, "reed_sol_van", &fragment.ErrInvalidParameter},
		{"packetsize negative", 4, 2, 8, -8, "cauchy_good", &fragment.ErrInvalidParameter},
		{"bad params beat bad name", 0, 2, 8, 0, "bogus", &fragment.ErrInvalidParameter},
		{"unknown", 4, 2, 8, 0, "bogus", &fragment.ErrUnknownTechnique},
		{"case sensitive", 4, 2, 8, 0, "Reed_Sol_Van", &fragment.ErrUnknownTechnique},
		{"rdp", 4, 2, 8, 0, "rdp", &fragment.ErrNotImplemented},
		{"evenodd", 4, 2, 8, 0, "evenodd", &fragment.ErrNotImplemented},
		{"rs word size", 4, 2, 7, 0, "reed_sol_van", &fragment.ErrInvalidParameter},
		{"rs too many shares", 200, 60, 8, 0, "reed_sol_van", &fragment.ErrInvalidParameter},
		{"r6 m", 4, 3, 8, 0, "reed_sol_r6_op", &fragment.ErrInvalidParameter},
		{"r6 word size", 4, 2, 4, 0, "reed_sol_r6_op", &fragment.ErrInvalidParameter},
		{"cauchy packetsize", 4, 2, 4, 0, "cauchy_orig", &fragment.ErrInvalidParameter},
		{"cauchy field", 15, 2, 4, 8, "cauchy_good", &fragment.ErrInvalidParameter},
		{"liberation k", 6, 2, 5, 8, "liberation", &fragment.ErrInvalidParameter},
		{"liberation even", 4, 2, 6, 8, "liberation", &fragment.ErrInvalidParameter},
		{"liberation composite", 4, 2, 9, 8, "liberation", &fragment.ErrInvalidParameter},
		{"liberation small", 2, 2, 2, 8, "liberation", &fragment.ErrInvalidParameter},
		{"liberation packetsize", 4, 2, 5, 0, "liberation", &fragment.ErrInvalidParameter},
		{"liberation alignment", 4, 2, 5, 12, "liberation", &fragment.ErrInvalidParameter},
		{"liberation m", 4, 3, 5, 8, "liberation", &fragment.ErrInvalidParameter},
		{"blaum_roth k", 5, 2, 4, 8, "blaum_roth", &fragment.ErrInvalidParameter},
		{"blaum_roth w+1", 4, 2, 5, 8, "blaum_roth", &fragment.ErrInvalidParameter},
		{"blaum_roth alignment", 4, 2, 4, 4, "blaum_roth", &fragment.ErrInvalidParameter},
		{"liber8tion packetsize", 4, 2, 8, 0, "liber8tion", &fragment.ErrInvalidParameter},
		{"liber8tion w", 4, 2, 7, 8, "liber8tion", &fragment.ErrInvalidParameter},
		{"liber8tion m", 4, 3, 8, 8, "liber8tion", &fragment.ErrInvalidParameter},
		{"liber8tion k", 9, 2, 8, 8, "liber8tion", &fragment.ErrInvalidParameter},
		{"no_coding m", 4, 1, 8, 0, "no_coding", &fragment.ErrInvalidParameter},
	}
	for _, c := range cases {
		_, err := fragment.Validate(c.k, c.m, c.w, c.ps, c.name)
		require.Error(t, err, c.desc)
		require.True(t, c.class.Has(err), "%s: %v", c.desc, err)
	}
}

func TestJobValidate(t *testing.T) {
	job := fragment.Job{Source: "a", Technique: "reed_sol_van", K: 4, M: 2, W: 8, BufferSize: -1}
	_, err := job.Validate()
	require.True(t, fragment.ErrInvalidParameter.Has(err))

	job.BufferSize = 0
	job.Source = ""
	_, err = job.Validate()
	require.True(t, fragment.ErrInvalidParameter.Has(err))

	job.Benchmark = &fragment.Benchmark{Size: 10}
	tech, err := job.Validate()
	require.NoError(t, err)
	require.Equal(t, technique.ReedSolomonVandermonde, tech)
}

func TestNormalizeBufferSize(t *testing.T) {
	unit, err := fragment.AlignmentUnit(4, 8, 0)
	require.NoError(t, err)
	require.EqualValues(t, 256, unit)

	unit, err = fragment.AlignmentUnit(4, 5, 8)
	require.NoError(t, err)
	require.EqualValues(t, 8*5*4*8, unit)

	size, err := fragment.NormalizeBufferSize(0, 4, 8, 0)
	require.NoError(t, err)
	require.Zero(t, size)

	size, err = fragment.NormalizeBufferSize(1000, 4, 8, 0)
	require.NoError(t, err)
	require.Equal(t, 1024, size)

	size, err = fragment.NormalizeBufferSize(1024, 4, 8, 0)
	require.NoError(t, err)
	require.Equal(t, 1024, size)

	_, err = fragment.NormalizeBufferSize(-1, 4, 8, 0)
	require.True(t, fragment.ErrInvalidParameter.Has(err))
}

func TestNormalizeBufferSizeProperties(t *testing.T) {
	for i := 0; i < 1000; i++ {
		k := mwc.Intn(16) + 1
		w := mwc.Intn(32) + 1
		ps := 0
		if mwc.Intn(2) == 0 {
			ps = 8 * (mwc.Intn(8) + 1)
		}
		request := mwc.Intn(1<<24) + 1

		unit, err := fragment.AlignmentUnit(k, w, ps)
		require.NoError(t, err)

		got, err := fragment.NormalizeBufferSize(request, k, w, ps)
		require.NoError(t, err)
		require.Zero(t, int64(got)%unit)
		require.GreaterOrEqual(t, got, request)
		require.Less(t, int64(got-request), unit)

		again, err := fragment.NormalizeBufferSize(got, k, w, ps)
		require.NoError(t, err)
		require.Equal(t, got, again)
	}
}

func TestAlignmentUnitOverflow(t *testing.T) {
	_, err := fragment.AlignmentUnit(1<<30, 1<<20, 1<<20)
	require.Error(t, err)
	require.True(t, fragment.ErrAllocationFailure.Has(err))
}
