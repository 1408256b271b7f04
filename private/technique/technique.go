// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package technique enumerates the erasure coding techniques and the small
// arithmetic helpers their parameter rules depend on.
package technique

import "strconv"

// WordSize is the machine word size in bytes used for alignment.
const WordSize = 8

// CodingTechnique identifies an erasure coding family.
//
// The numeric values are persisted in metadata files and must never change.
type CodingTechnique int

// Known techniques.
const (
	ReedSolomonVandermonde CodingTechnique = iota
	ReedSolomonR6Optimized
	CauchyOriginal
	CauchyGood
	Liberation
	BlaumRoth
	Liber8tion
	RDP
	EvenOdd
	NoCoding
)

var names = [...]string{
	ReedSolomonVandermonde: "reed_sol_van",
	ReedSolomonR6Optimized: "reed_sol_r6_op",
	CauchyOriginal:         "cauchy_orig",
	CauchyGood:             "cauchy_good",
	Liberation:             "liberation",
	BlaumRoth:              "blaum_roth",
	Liber8tion:             "liber8tion",
	RDP:                    "rdp",
	EvenOdd:                "evenodd",
	NoCoding:               "no_coding",
}

// All returns every declared technique in ordinal order.
func All() []CodingTechnique {
	all := make([]CodingTechnique, len(names))
	for i := range all {
		all[i] = CodingTechnique(i)
	}
	return all
}

// Parse looks up a technique by its case-sensitive name.
func Parse(name string) (CodingTechnique, bool) {
	for i, n := range names {
		if n == name {
			return CodingTechnique(i), true
		}
	}
	return 0, false
}

// FromOrdinal converts a persisted ordinal back into a technique.
func FromOrdinal(ordinal int) (CodingTechnique, bool) {
	if ordinal < 0 || ordinal >= len(names) {
		return 0, false
	}
	return CodingTechnique(ordinal), true
}

// Valid reports whether t is a declared technique.
func (t CodingTechnique) Valid() bool {
	return t >= 0 && int(t) < len(names)
}

// Implemented reports whether t has a working coding path.
func (t CodingTechnique) Implemented() bool {
	return t.Valid() && t != RDP && t != EvenOdd
}

// UsesBitmatrix reports whether t encodes through a bitmatrix schedule.
func (t CodingTechnique) UsesBitmatrix() bool {
	switch t {
	case CauchyOriginal, CauchyGood, Liberation, BlaumRoth, Liber8tion:
		return true
	default:
		return false
	}
}

// Ordinal returns the persisted numeric value of t.
func (t CodingTechnique) Ordinal() int { return int(t) }

func (t CodingTechnique) String() string {
	if !t.Valid() {
		return "technique(" + strconv.Itoa(int(t)) + ")"
	}
	return names[t]
}
