// Copyright (C) 2020 Storj Labs, Inc.
// See LICENSE for copying information.

package fragment

import (
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"

	"storj.io/eventkit"
)

var (
	mon = monkit.Package()
	evs = eventkit.Package()
)

var (
	// Error is default error class for fragment.
	Error = errs.Class("fragment")

	// ErrInvalidParameter is returned when job parameters are out of range
	// or inconsistent with the chosen technique.
	ErrInvalidParameter = errs.Class("invalid parameter")

	// ErrUnknownTechnique is returned for an unrecognized technique name.
	ErrUnknownTechnique = errs.Class("unknown technique")

	// ErrNotImplemented is returned for techniques without a coding path.
	ErrNotImplemented = errs.Class("not implemented")

	// ErrSourceUnavailable is returned when the input cannot be read.
	ErrSourceUnavailable = errs.Class("source unavailable")

	// ErrOutputUnavailable is returned when output files cannot be created
	// or written.
	ErrOutputUnavailable = errs.Class("output unavailable")

	// ErrAllocationFailure is returned when a buffer would be too large.
	ErrAllocationFailure = errs.Class("allocation failure")

	// ErrInsufficientShards is returned when fewer than k shards exist.
	ErrInsufficientShards = errs.Class("insufficient shards")

	// ErrShardSizeMismatch is returned when a shard's length disagrees with
	// the metadata.
	ErrShardSizeMismatch = errs.Class("shard size mismatch")

	// ErrMetadataCorrupt is returned for unreadable or inconsistent metadata.
	ErrMetadataCorrupt = errs.Class("metadata corrupt")
)
