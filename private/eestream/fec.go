// Copyright (C) 2023 Storj Labs, Inc.
// See LICENSE for copying information.

package eestream

import "storj.io/infectious"

// A Share represents a piece of the FEC-encoded data.
type Share = infectious.Share

// maxFECTotal is the largest total share count infectious supports.
const maxFECTotal = 256

// NewFEC creates a *FEC using k required pieces and n total pieces.
// Encoding data with this *FEC will generate n pieces, and decoding
// data requires k uncorrupted pieces.
func NewFEC(k, n int) (*infectious.FEC, error) {
	if n > maxFECTotal {
		return nil, Error.New("total pieces %d exceeds %d", n, maxFECTotal)
	}
	fc, err := infectious.NewFEC(k, n)
	return fc, Error.Wrap(err)
}
