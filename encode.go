// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package fragment

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"storj.io/eventkit"
	"storj.io/fragment/private/eestream"
	"storj.io/fragment/private/etag"
	"storj.io/fragment/private/metadata"
	"storj.io/fragment/private/randfill"
	"storj.io/fragment/private/technique"
)

// Result describes a finished encode or decode.
type Result struct {
	Record metadata.Record

	// Shards lists the shard files written by an encode, or read by a
	// decode. It is empty in benchmark mode.
	Shards []string

	// Metadata is the path of the metadata record.
	Metadata string

	// Output is the reconstructed file of a decode.
	Output string

	Elapsed time.Duration
}

// Throughput returns the processed source bytes per second.
func (r *Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Record.Size) / r.Elapsed.Seconds()
}

// Encoder splits one file into shards.
type Encoder struct {
	log        *zap.Logger
	job        Job
	tech       technique.CodingTechnique
	bufferSize int
	unit       int64
	progress   *Progress
}

// NewEncoder validates job and normalizes its buffer size. Nothing is
// touched on disk until Encode is called.
func NewEncoder(log *zap.Logger, job Job) (*Encoder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if job.OutputDir == "" {
		job.OutputDir = "."
	}
	tech, err := job.Validate()
	if err != nil {
		return nil, err
	}
	unit, err := AlignmentUnit(job.K, job.W, job.PacketSize)
	if err != nil {
		return nil, err
	}
	bufferSize, err := NormalizeBufferSize(job.BufferSize, job.K, job.W, job.PacketSize)
	if err != nil {
		return nil, err
	}
	if bufferSize != job.BufferSize {
		log.Debug("buffer size normalized",
			zap.Int("requested", job.BufferSize),
			zap.Int("normalized", bufferSize))
	}

	return &Encoder{
		log:        log,
		job:        job,
		tech:       tech,
		bufferSize: bufferSize,
		unit:       unit,
		progress:   NewProgress(tech),
	}, nil
}

// BufferSize returns the normalized buffer size.
func (e *Encoder) BufferSize() int { return e.bufferSize }

// Progress returns the live progress of the encoder.
func (e *Encoder) Progress() *Progress { return e.progress }

// Encode runs the job. On failure every file it created is removed.
func (e *Encoder) Encode(ctx context.Context) (_ *Result, err error) {
	defer mon.Task()(&ctx)(&err)
	start := time.Now()
	job := e.job

	var (
		size   int64
		source io.Reader
		hashed *etag.HashReader
	)
	if job.Benchmark != nil {
		size = job.Benchmark.Size
		source = io.LimitReader(randfill.New(job.Benchmark.Seed), size)
	} else {
		f, openErr := os.Open(job.Source)
		if openErr != nil {
			return nil, ErrSourceUnavailable.Wrap(openErr)
		}
		defer func() { err = errs.Combine(err, f.Close()) }()

		info, statErr := f.Stat()
		if statErr != nil {
			return nil, ErrSourceUnavailable.Wrap(statErr)
		}
		if !info.Mode().IsRegular() {
			return nil, ErrSourceUnavailable.New("%q is not a regular file", job.Source)
		}
		size = info.Size()
		hashed = etag.NewReader(io.LimitReader(f, size))
		source = hashed
	}

	sz, err := computeSizing(size, job.K, e.unit, e.bufferSize)
	if err != nil {
		return nil, err
	}

	params := eestream.Params{K: job.K, M: job.M, W: job.W, PacketSize: job.PacketSize}
	plan, err := eestream.NewPlan(e.tech, params)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	set, err := eestream.NewShardSet(job.K, job.M, sz.shareSize)
	if err != nil {
		return nil, ErrAllocationFailure.Wrap(err)
	}

	layout := metadata.NewLayout(job.OutputDir, job.Source, job.K, job.M)
	var out *shardFiles
	if job.Benchmark == nil {
		if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
			return nil, ErrOutputUnavailable.Wrap(err)
		}
		// a record from an earlier run must not outlive the shards about to
		// be overwritten.
		if err := os.Remove(layout.Metadata()); err == nil {
			e.log.Debug("removed previous metadata", zap.String("path", layout.Metadata()))
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, ErrOutputUnavailable.Wrap(err)
		}
		out, err = createShardFiles(layout.Shards())
		if err != nil {
			return nil, err
		}
		defer func() {
			if err != nil {
				err = errs.Combine(err, out.remove())
			}
		}()
	}

	e.log.Info("encode started",
		zap.String("source", job.Source),
		zap.Stringer("technique", e.tech),
		zap.Int("k", job.K), zap.Int("m", job.M), zap.Int("w", job.W),
		zap.Int("packetsize", job.PacketSize),
		zap.Int("buffersize", sz.pass),
		zap.Int64("size", size),
		zap.Int("readins", sz.readins),
		zap.Bool("benchmark", job.Benchmark != nil))

	e.progress.start(sz.readins)
	mon.IntVal("readins").Observe(int64(sz.readins))

	stripe := set.Stripe()
	for pass := 1; pass <= sz.readins; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := io.ReadFull(source, stripe)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrSourceUnavailable.Wrap(err)
		}
		pad(stripe[n:])

		if err := set.Encode(plan); err != nil {
			return nil, Error.Wrap(err)
		}

		if out != nil {
			for num := 0; num < job.K+job.M; num++ {
				if err := out.write(num, set.Share(num)); err != nil {
					return nil, err
				}
			}
		}

		e.progress.advance(pass)
		mon.Counter("encode_passes").Inc(1)
		mon.Meter("encode_bytes").Mark(len(stripe))
		e.log.Debug("pass encoded", zap.Int("pass", pass), zap.Int("readins", sz.readins), zap.Int("read", n))
		if job.OnPass != nil {
			job.OnPass(e.progress.Snapshot())
		}
	}

	rec := metadata.Record{
		Path:       job.Source,
		Size:       size,
		K:          job.K,
		M:          job.M,
		W:          job.W,
		PacketSize: job.PacketSize,
		BufferSize: sz.pass,
		Technique:  e.tech,
		Readins:    sz.readins,
	}

	result := &Result{Record: rec}
	if out != nil {
		if hashed.Count() != size {
			return nil, ErrSourceUnavailable.New("%q changed while reading: read %d of %d bytes", job.Source, hashed.Count(), size)
		}
		result.Record.Checksum = hashed.CurrentETag()

		if err := out.close(); err != nil {
			return nil, err
		}
		if err := metadata.WriteFile(layout.Metadata(), result.Record); err != nil {
			return nil, ErrOutputUnavailable.Wrap(err)
		}
		result.Shards = layout.Shards()
		result.Metadata = layout.Metadata()
	}
	result.Elapsed = time.Since(start)

	evs.Event("encode",
		eventkit.String("technique", e.tech.String()),
		eventkit.Int64("k", int64(job.K)),
		eventkit.Int64("m", int64(job.M)),
		eventkit.Int64("w", int64(job.W)),
		eventkit.Int64("size", size),
		eventkit.Int64("readins", int64(sz.readins)),
		eventkit.Duration("duration", result.Elapsed),
		eventkit.Bool("benchmark", job.Benchmark != nil))

	e.log.Info("encode finished",
		zap.String("source", job.Source),
		zap.Duration("elapsed", result.Elapsed),
		zap.Float64("bytes_per_second", result.Throughput()))

	return result, nil
}

func pad(b []byte) {
	for i := range b {
		b[i] = PadByte
	}
}
