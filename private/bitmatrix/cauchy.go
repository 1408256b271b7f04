// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package bitmatrix

import (
	"storj.io/fragment/private/galois"
)

// CauchyOriginal returns the m×k Cauchy matrix with element (i, j) equal to
// 1/(i XOR (m+j)) over f.
func CauchyOriginal(f *galois.Field, k, m int) ([]uint32, error) {
	if k < 1 || m < 0 {
		return nil, Error.New("invalid dimensions k=%d m=%d", k, m)
	}
	if uint64(k+m) > f.Size() {
		return nil, Error.New("k+m=%d exceeds field size 2^%d", k+m, f.W())
	}
	elems := make([]uint32, m*k)
	for i := 0; i < m; i++ {
		for j := 0; j < k; j++ {
			v, err := f.Div(1, uint32(i)^uint32(m+j))
			if err != nil {
				return nil, Error.Wrap(err)
			}
			elems[i*k+j] = v
		}
	}
	return elems, nil
}

// CauchyGood returns the original Cauchy matrix improved to reduce the number
// of ones in its bitmatrix. Every column is divided by its first element so
// the first row becomes all ones. Each further row is then divided by the
// element that minimises the row's bit weight.
func CauchyGood(f *galois.Field, k, m int) ([]uint32, error) {
	elems, err := CauchyOriginal(f, k, m)
	if err != nil {
		return nil, err
	}
	if m == 0 {
		return elems, nil
	}

	for j := 0; j < k; j++ {
		if elems[j] == 1 {
			continue
		}
		inv := f.Inverse(elems[j])
		for i := 0; i < m; i++ {
			elems[i*k+j] = f.Mul(elems[i*k+j], inv)
		}
	}

	for i := 1; i < m; i++ {
		row := elems[i*k : (i+1)*k]

		best := 0
		for _, e := range row {
			best += f.BitWeight(e)
		}
		bestIndex := -1

		for j, e := range row {
			if e == 1 {
				continue
			}
			inv := f.Inverse(e)
			weight := 0
			for _, x := range row {
				weight += f.BitWeight(f.Mul(x, inv))
			}
			if weight < best {
				best = weight
				bestIndex = j
			}
		}

		if bestIndex >= 0 {
			inv := f.Inverse(row[bestIndex])
			for j := range row {
				row[j] = f.Mul(row[j], inv)
			}
		}
	}
	return elems, nil
}
