// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package bitmatrix builds binary coding matrices for the bit-packing erasure
// techniques and compiles them into XOR schedules.
//
// A coding bitmatrix for k data devices, m coding devices and word size w has
// m*w rows and k*w columns. Row r describes packet r%w of coding device r/w,
// column c stands for packet c%w of data device c/w.
package bitmatrix

import (
	"math/bits"
	"strings"

	"github.com/zeebo/errs"

	"storj.io/fragment/private/galois"
)

// Error is the class of errors returned by this package.
var Error = errs.Class("bitmatrix")

// Matrix is a dense matrix over GF(2) with rows packed into 64-bit words.
type Matrix struct {
	rows, cols int
	stride     int
	bits       []uint64
}

// New returns a zero rows×cols matrix.
func New(rows, cols int) *Matrix {
	stride := (cols + 63) / 64
	return &Matrix{
		rows:   rows,
		cols:   cols,
		stride: stride,
		bits:   make([]uint64, rows*stride),
	}
}

// Identity returns the n×n identity matrix.
func Identity(n int) *Matrix {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i)
	}
	return m
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Get reports whether bit (r, c) is set.
func (m *Matrix) Get(r, c int) bool {
	return m.bits[r*m.stride+c/64]&(1<<uint(c%64)) != 0
}

// Set sets bit (r, c).
func (m *Matrix) Set(r, c int) {
	m.bits[r*m.stride+c/64] |= 1 << uint(c%64)
}

// Flip toggles bit (r, c).
func (m *Matrix) Flip(r, c int) {
	m.bits[r*m.stride+c/64] ^= 1 << uint(c%64)
}

func (m *Matrix) row(r int) []uint64 {
	return m.bits[r*m.stride : (r+1)*m.stride]
}

// Ones returns the number of set bits.
func (m *Matrix) Ones() int {
	n := 0
	for _, v := range m.bits {
		n += bits.OnesCount64(v)
	}
	return n
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	c := *m
	c.bits = append([]uint64(nil), m.bits...)
	return &c
}

// Stack returns the rows of m followed by the rows of o.
func (m *Matrix) Stack(o *Matrix) (*Matrix, error) {
	if m.cols != o.cols {
		return nil, Error.New("cannot stack %d and %d columns", m.cols, o.cols)
	}
	s := New(m.rows+o.rows, m.cols)
	copy(s.bits, m.bits)
	copy(s.bits[len(m.bits):], o.bits)
	return s, nil
}

// SelectRows returns a matrix made of the listed rows of m, in order.
func (m *Matrix) SelectRows(rows []int) *Matrix {
	s := New(len(rows), m.cols)
	for i, r := range rows {
		copy(s.row(i), m.row(r))
	}
	return s
}

// Invert returns the inverse of the square matrix m.
func (m *Matrix) Invert() (*Matrix, error) {
	if m.rows != m.cols {
		return nil, Error.New("cannot invert %d×%d matrix", m.rows, m.cols)
	}
	n := m.rows
	a := m.Clone()
	inv := Identity(n)

	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if a.Get(r, col) {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return nil, Error.New("matrix is singular")
		}
		if pivot != col {
			a.swapRows(pivot, col)
			inv.swapRows(pivot, col)
		}
		for r := 0; r < n; r++ {
			if r != col && a.Get(r, col) {
				a.xorRow(r, col)
				inv.xorRow(r, col)
			}
		}
	}
	return inv, nil
}

func (m *Matrix) swapRows(a, b int) {
	ra, rb := m.row(a), m.row(b)
	for i := range ra {
		ra[i], rb[i] = rb[i], ra[i]
	}
}

// xorRow sets row dst to dst XOR src.
func (m *Matrix) xorRow(dst, src int) {
	rd, rs := m.row(dst), m.row(src)
	for i := range rd {
		rd[i] ^= rs[i]
	}
}

// rowDistance returns the number of bits in which rows a and b differ.
func (m *Matrix) rowDistance(a, b int) int {
	ra, rb := m.row(a), m.row(b)
	n := 0
	for i := range ra {
		n += bits.OnesCount64(ra[i] ^ rb[i])
	}
	return n
}

func (m *Matrix) rowOnes(r int) int {
	n := 0
	for _, v := range m.row(r) {
		n += bits.OnesCount64(v)
	}
	return n
}

// String renders m as rows of 0 and 1.
func (m *Matrix) String() string {
	var b strings.Builder
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			if m.Get(r, c) {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// FromElements expands a rows×cols matrix of GF(2^w) elements into its
// (rows*w)×(cols*w) bitmatrix. Block (i, j) has, in column x, the bits of
// elems[i*cols+j]·2^x.
func FromElements(f *galois.Field, rows, cols int, elems []uint32) (*Matrix, error) {
	if len(elems) != rows*cols {
		return nil, Error.New("expected %d elements, got %d", rows*cols, len(elems))
	}
	w := f.W()
	m := New(rows*w, cols*w)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			elt := elems[i*cols+j]
			for x := 0; x < w; x++ {
				for l := 0; l < w; l++ {
					if elt&(1<<uint(l)) != 0 {
						m.Set(i*w+l, j*w+x)
					}
				}
				elt = f.Mul(elt, 2)
			}
		}
	}
	return m, nil
}
