// Copyright (C) 2023 Storj Labs, Inc.
// See LICENSE for copying information.

package eestream

import (
	"storj.io/fragment/private/technique"
)

// ErasureScheme represents the general format of any erasure scheme algorithm.
// Every coding technique provides one; the fragmentation loops only talk to
// this interface.
type ErasureScheme interface {
	// Encode takes a stripe of RequiredCount equally sized data shares laid
	// out back to back and fills each of the TotalCount-RequiredCount coding
	// buffers with the matching redundancy share.
	Encode(stripe []byte, coding [][]byte) error

	// Rebuild takes TotalCount shares indexed by share number and regenerates
	// every missing data share in place. A missing share has length zero;
	// its capacity is used when it is large enough. Missing coding shares are
	// left alone.
	Rebuild(shares [][]byte) error

	// Encode will generate this many erasure shares and therefore this many pieces.
	TotalCount() int

	// Rebuild requires at least this many pieces.
	RequiredCount() int
}

// Params are the erasure parameters of a job.
type Params struct {
	K, M       int
	W          int
	PacketSize int
}

// Technique validates parameters for one coding technique and builds its
// scheme.
type Technique interface {
	// Validate checks the technique specific rules. The common rules (k >= 1,
	// m >= 0, w >= 1, packetsize >= 0) are assumed to hold.
	Validate(p Params) error

	// NewScheme builds the scheme for validated parameters with m > 0.
	NewScheme(p Params) (ErasureScheme, error)
}

var techniques = map[technique.CodingTechnique]Technique{}

func register(t technique.CodingTechnique, impl Technique) {
	if _, ok := techniques[t]; ok {
		panic("eestream: technique registered twice: " + t.String())
	}
	techniques[t] = impl
}

// Lookup returns the implementation of t.
func Lookup(t technique.CodingTechnique) (Technique, error) {
	impl, ok := techniques[t]
	if !ok {
		return nil, Error.New("technique %q has no implementation", t)
	}
	return impl, nil
}

// NewPlan validates p against t and builds the scheme used for a single job.
// A scheme with no coding shares is a plain pass-through regardless of t.
func NewPlan(t technique.CodingTechnique, p Params) (_ ErasureScheme, err error) {
	impl, err := Lookup(t)
	if err != nil {
		return nil, err
	}
	if err := impl.Validate(p); err != nil {
		return nil, err
	}
	if p.M == 0 {
		return newPassThrough(p.K), nil
	}
	return impl.NewScheme(p)
}

func invalid(format string, args ...interface{}) error {
	return ErrInvalidParams.New(format, args...)
}

// validWordSize is shared by the Reed-Solomon techniques.
func validWordSize(w int) error {
	switch w {
	case 8, 16, 32:
		return nil
	default:
		return invalid("w must be one of {8, 16, 32}, got %d", w)
	}
}
