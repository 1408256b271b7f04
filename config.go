// Copyright (C) 2020 Storj Labs, Inc.
// See LICENSE for copying information.

package fragment

import (
	"storj.io/fragment/private/eestream"
	"storj.io/fragment/private/technique"
)

// Job defines a single encode of one file.
type Job struct {
	// Source is the file to split. It is ignored in benchmark mode.
	Source string

	// OutputDir receives the shards and the metadata record.
	OutputDir string

	// Technique is the name of the coding technique, e.g. "reed_sol_van".
	Technique string

	K, M int
	W    int

	// PacketSize is the packet granularity of the bit-packing techniques.
	// Zero means unused.
	PacketSize int

	// BufferSize is the requested pass size. It is rounded up to a multiple
	// of the alignment unit. Zero encodes the whole file in a single pass.
	BufferSize int

	// Benchmark, when set, encodes synthetic content instead of Source and
	// writes nothing to disk.
	Benchmark *Benchmark

	// OnPass is called after every pass with the current progress.
	OnPass func(Snapshot)
}

// Benchmark configures a throughput measurement run.
type Benchmark struct {
	// Size is the number of synthetic bytes to encode.
	Size int64

	// Seed selects the pseudo-random content.
	Seed uint64
}

// Validate checks the job and returns the selected technique.
func (job Job) Validate() (technique.CodingTechnique, error) {
	tech, err := Validate(job.K, job.M, job.W, job.PacketSize, job.Technique)
	if err != nil {
		return tech, err
	}
	if job.BufferSize < 0 {
		return tech, ErrInvalidParameter.New("buffersize must be non-negative, got %d", job.BufferSize)
	}
	if job.Benchmark != nil {
		if job.Benchmark.Size < 0 {
			return tech, ErrInvalidParameter.New("benchmark size must be non-negative, got %d", job.Benchmark.Size)
		}
	} else if job.Source == "" {
		return tech, ErrInvalidParameter.New("source is required")
	}
	return tech, nil
}

// Validate checks raw coding parameters for mutual consistency and returns
// the technique they select. The first violated rule is reported.
func Validate(k, m, w, packetSize int, name string) (technique.CodingTechnique, error) {
	switch {
	case k < 1:
		return 0, ErrInvalidParameter.New("k must be at least 1, got %d", k)
	case m < 0:
		return 0, ErrInvalidParameter.New("m must be non-negative, got %d", m)
	case w < 1:
		return 0, ErrInvalidParameter.New("w must be at least 1, got %d", w)
	case packetSize < 0:
		return 0, ErrInvalidParameter.New("packetsize must be non-negative, got %d", packetSize)
	}

	tech, ok := technique.Parse(name)
	if !ok {
		return 0, ErrUnknownTechnique.New("%q", name)
	}
	if !tech.Implemented() {
		return tech, ErrNotImplemented.New("technique %s", tech)
	}

	impl, err := eestream.Lookup(tech)
	if err != nil {
		return tech, ErrNotImplemented.Wrap(err)
	}
	params := eestream.Params{K: k, M: m, W: w, PacketSize: packetSize}
	if err := impl.Validate(params); err != nil {
		return tech, ErrInvalidParameter.Wrap(err)
	}
	return tech, nil
}
