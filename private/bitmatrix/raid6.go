// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package bitmatrix

import (
	"storj.io/fragment/private/galois"
	"storj.io/fragment/private/technique"
)

// parity returns a 2w×kw matrix whose first block row is the identity for
// every data device, i.e. the first coding device is the XOR of all data.
func parity(k, w int) *Matrix {
	m := New(2*w, k*w)
	for j := 0; j < k; j++ {
		for i := 0; i < w; i++ {
			m.Set(i, j*w+i)
		}
	}
	return m
}

// Liberation returns the minimal density RAID-6 bitmatrix for prime w.
func Liberation(k, w int) (*Matrix, error) {
	if k > w || w <= 2 || w%2 == 0 || !technique.IsPrime(w) {
		return nil, Error.New("liberation requires odd prime w > 2 and k <= w, got k=%d w=%d", k, w)
	}
	m := parity(k, w)
	for j := 0; j < k; j++ {
		for i := 0; i < w; i++ {
			m.Set(w+i, j*w+(j+i)%w)
		}
		if j > 0 {
			i := (j * ((w - 1) / 2)) % w
			m.Set(w+i, j*w+(i+j-1)%w)
		}
	}
	return m, nil
}

// BlaumRoth returns the Blaum-Roth RAID-6 bitmatrix for w+1 prime. Block j of
// the second coding device is multiplication by x^j modulo 1+x+...+x^w.
func BlaumRoth(k, w int) (*Matrix, error) {
	p := w + 1
	if k > w || w <= 2 || !technique.IsPrime(p) {
		return nil, Error.New("blaum_roth requires w+1 prime, w > 2 and k <= w, got k=%d w=%d", k, w)
	}
	m := parity(k, w)
	for j := 0; j < k; j++ {
		for c := 0; c < w; c++ {
			r := (c + j) % p
			if r == p-1 {
				// x^w folds into every lower power.
				for i := 0; i < w; i++ {
					m.Set(w+i, j*w+c)
				}
				continue
			}
			m.Set(w+r, j*w+c)
		}
	}
	return m, nil
}

// Liber8tion returns the RAID-6 bitmatrix used for w=8: the second coding
// device's block j is the bitmatrix of 2^j in GF(2^8).
func Liber8tion(k int) (*Matrix, error) {
	const w = 8
	if k < 1 || k > w {
		return nil, Error.New("liber8tion requires 1 <= k <= 8, got k=%d", k)
	}
	f, err := galois.New(w)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	elems := make([]uint32, 2*k)
	for j := 0; j < k; j++ {
		elems[j] = 1
		elems[k+j] = f.Pow(2, uint64(j))
	}
	return FromElements(f, 2, k, elems)
}
