// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package galois implements arithmetic in GF(2^w) for w in 1..32.
package galois

import (
	"math/bits"

	"github.com/zeebo/errs"
)

// Error is the class of errors returned by this package.
var Error = errs.Class("galois")

// MaxW is the largest supported word size in bits.
const MaxW = 32

// primitive polynomials, including the x^w term, indexed by w.
var primitive = [MaxW + 1]uint64{
	0,
	0x3, 0x7, 0xb, 0x13, 0x25, 0x43, 0x89, 0x11d,
	0x211, 0x409, 0x805, 0x1053, 0x201b, 0x4443, 0x8003, 0x1100b,
	0x20009, 0x40081, 0x80027, 0x100009, 0x200005, 0x400003, 0x800021, 0x1000087,
	0x2000009, 0x4000047, 0x8000027, 0x10000009, 0x20000005, 0x40800007, 0x80000009, 0x100400007,
}

// Field is GF(2^w). Elements are stored in the low w bits of a uint32.
type Field struct {
	w    uint
	poly uint64
	top  uint64
}

// New returns the field GF(2^w).
func New(w int) (*Field, error) {
	if w < 1 || w > MaxW {
		return nil, Error.New("word size %d out of range 1..%d", w, MaxW)
	}
	return &Field{
		w:    uint(w),
		poly: primitive[w],
		top:  uint64(1) << uint(w),
	}, nil
}

// W returns the word size in bits.
func (f *Field) W() int { return int(f.w) }

// Size returns the number of elements in the field.
func (f *Field) Size() uint64 { return f.top }

// Mul returns a*b.
func (f *Field) Mul(a, b uint32) uint32 {
	var r uint64
	x := uint64(a)
	for y := b; y != 0; y >>= 1 {
		if y&1 != 0 {
			r ^= x
		}
		x <<= 1
		if x&f.top != 0 {
			x ^= f.poly
		}
	}
	return uint32(r)
}

// Pow returns a^e.
func (f *Field) Pow(a uint32, e uint64) uint32 {
	r := uint32(1)
	for ; e != 0; e >>= 1 {
		if e&1 != 0 {
			r = f.Mul(r, a)
		}
		a = f.Mul(a, a)
	}
	return r
}

// Inverse returns the multiplicative inverse of a. The inverse of zero is
// reported as zero.
func (f *Field) Inverse(a uint32) uint32 {
	if a == 0 {
		return 0
	}
	return f.Pow(a, f.top-2)
}

// Div returns a/b.
func (f *Field) Div(a, b uint32) (uint32, error) {
	if b == 0 {
		return 0, Error.New("division by zero")
	}
	return f.Mul(a, f.Inverse(b)), nil
}

// BitWeight returns the number of ones in the w×w bitmatrix of e, that is
// the total popcount of e·2^x for x in 0..w-1.
func (f *Field) BitWeight(e uint32) int {
	n := 0
	for x := uint(0); x < f.w; x++ {
		n += bits.OnesCount32(e)
		e = f.Mul(e, 2)
	}
	return n
}
