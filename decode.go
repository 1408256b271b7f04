// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package fragment

import (
	"context"
	"errors"
	"hash"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/errs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storj.io/eventkit"
	"storj.io/fragment/private/eestream"
	"storj.io/fragment/private/etag"
	"storj.io/fragment/private/metadata"
)

// DecodeJob defines the reconstruction of one file.
type DecodeJob struct {
	// MetadataPath is the record written by the encode. The shards are
	// expected in the same directory.
	MetadataPath string

	// OutputPath receives the reconstructed file. It defaults to
	// <base>_decoded<ext> next to the shards.
	OutputPath string

	// OnPass is called after every pass with the current progress.
	OnPass func(Snapshot)
}

// Decoder reassembles one file from its shards.
type Decoder struct {
	log      *zap.Logger
	job      DecodeJob
	progress *Progress
}

// NewDecoder returns a decoder for job.
func NewDecoder(log *zap.Logger, job DecodeJob) (*Decoder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if job.MetadataPath == "" {
		return nil, ErrInvalidParameter.New("metadata path is required")
	}
	return &Decoder{
		log:      log,
		job:      job,
		progress: newPendingProgress(),
	}, nil
}

// Progress returns the live progress of the decoder. Its technique is known
// once the metadata has been read.
func (d *Decoder) Progress() *Progress { return d.progress }

// shard is one shard file found on disk.
type shard struct {
	num  int
	path string
	size int64
}

// Decode reconstructs the file. The output is written to a temporary file
// that only replaces OutputPath once it is complete and verified.
func (d *Decoder) Decode(ctx context.Context) (_ *Result, err error) {
	defer mon.Task()(&ctx)(&err)
	start := time.Now()

	rec, err := readRecord(d.job.MetadataPath)
	if err != nil {
		return nil, err
	}
	d.progress.setTechnique(rec.Technique)

	layout := metadata.NewLayout(filepath.Dir(d.job.MetadataPath), rec.Path, rec.K, rec.M)
	shards, err := findShards(ctx, d.log, layout)
	if err != nil {
		return nil, err
	}
	if len(shards) < rec.K {
		return nil, ErrInsufficientShards.New("found %d of %d shards, need %d", len(shards), rec.K+rec.M, rec.K)
	}
	for _, s := range shards {
		if s.size != rec.ShardSize() {
			return nil, ErrShardSizeMismatch.New("%q is %d bytes, expected %d", s.path, s.size, rec.ShardSize())
		}
	}
	// the first k shards suffice, data shards first.
	shards = shards[:rec.K]

	params := eestream.Params{K: rec.K, M: rec.M, W: rec.W, PacketSize: rec.PacketSize}
	plan, err := eestream.NewPlan(rec.Technique, params)
	if err != nil {
		return nil, ErrMetadataCorrupt.Wrap(err)
	}
	set, err := eestream.NewShardSet(rec.K, rec.M, rec.ShareSize())
	if err != nil {
		return nil, ErrAllocationFailure.Wrap(err)
	}

	present := make([]bool, rec.K+rec.M)
	files := make([]*os.File, 0, len(shards))
	defer func() {
		for _, f := range files {
			err = errs.Combine(err, f.Close())
		}
	}()
	for _, s := range shards {
		f, err := os.Open(s.path)
		if err != nil {
			return nil, ErrSourceUnavailable.Wrap(err)
		}
		files = append(files, f)
		present[s.num] = true
	}

	outputPath := d.job.OutputPath
	if outputPath == "" {
		outputPath = layout.Decoded()
	}
	out, err := createOutput(outputPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			err = errs.Combine(err, out.abort())
		}
	}()

	d.log.Info("decode started",
		zap.String("metadata", d.job.MetadataPath),
		zap.String("output", outputPath),
		zap.Stringer("technique", rec.Technique),
		zap.Int("k", rec.K), zap.Int("m", rec.M),
		zap.Int("available", len(shards)),
		zap.Int("readins", rec.Readins))

	d.progress.start(rec.Readins)
	mon.IntVal("decode_missing_data").Observe(int64(rec.K - countData(present, rec.K)))

	h := etag.NewHash()
	remaining := rec.Size
	stripe := set.Stripe()
	for pass := 1; pass <= rec.Readins; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i, s := range shards {
			if _, err := io.ReadFull(files[i], set.Share(s.num)); err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					return nil, ErrShardSizeMismatch.New("%q ended early in pass %d", s.path, pass)
				}
				return nil, ErrSourceUnavailable.Wrap(err)
			}
		}

		if err := set.Rebuild(plan, present); err != nil {
			return nil, Error.Wrap(err)
		}

		if err := out.write(stripe); err != nil {
			return nil, err
		}
		content := stripe[:min(int64(len(stripe)), max(remaining, 0))]
		_, _ = h.Write(content)
		remaining -= int64(len(content))

		d.progress.advance(pass)
		mon.Counter("decode_passes").Inc(1)
		mon.Meter("decode_bytes").Mark(len(content))
		d.log.Debug("pass decoded", zap.Int("pass", pass), zap.Int("readins", rec.Readins))
		if d.job.OnPass != nil {
			d.job.OnPass(d.progress.Snapshot())
		}
	}

	if len(rec.Checksum) > 0 {
		if err := verifyChecksum(h, rec.Checksum); err != nil {
			return nil, err
		}
	}
	if err := out.commit(rec.Size); err != nil {
		return nil, err
	}

	result := &Result{
		Record:   rec,
		Metadata: d.job.MetadataPath,
		Output:   outputPath,
		Elapsed:  time.Since(start),
	}
	for _, s := range shards {
		result.Shards = append(result.Shards, s.path)
	}

	evs.Event("decode",
		eventkit.String("technique", rec.Technique.String()),
		eventkit.Int64("k", int64(rec.K)),
		eventkit.Int64("m", int64(rec.M)),
		eventkit.Int64("size", rec.Size),
		eventkit.Int64("rebuilt", int64(rec.K-countData(present, rec.K))),
		eventkit.Duration("duration", result.Elapsed))

	d.log.Info("decode finished",
		zap.String("output", outputPath),
		zap.Duration("elapsed", result.Elapsed),
		zap.Float64("bytes_per_second", result.Throughput()))

	return result, nil
}

// readRecord loads and cross-checks the metadata record.
func readRecord(path string) (metadata.Record, error) {
	rec, err := metadata.ReadFile(path)
	switch {
	case metadata.ErrCorrupt.Has(err):
		return rec, ErrMetadataCorrupt.Wrap(err)
	case err != nil:
		return rec, ErrSourceUnavailable.Wrap(err)
	}

	if _, err := Validate(rec.K, rec.M, rec.W, rec.PacketSize, rec.Technique.String()); err != nil {
		return rec, ErrMetadataCorrupt.Wrap(err)
	}
	unit, err := AlignmentUnit(rec.K, rec.W, rec.PacketSize)
	if err != nil {
		return rec, ErrMetadataCorrupt.Wrap(err)
	}
	if int64(rec.BufferSize)%unit != 0 {
		return rec, ErrMetadataCorrupt.New("buffersize %d is not a multiple of %d", rec.BufferSize, unit)
	}
	if int64(rec.BufferSize) > MaxPassBuffer {
		return rec, ErrAllocationFailure.New("pass buffer of %d bytes exceeds %d", rec.BufferSize, int64(MaxPassBuffer))
	}
	return rec, nil
}

// findShards stats every shard named by layout concurrently and returns the
// ones that exist, ordered by share number.
func findShards(ctx context.Context, log *zap.Logger, layout metadata.Layout) ([]shard, error) {
	paths := layout.Shards()
	found := make([]*shard, len(paths))

	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(16)
	for num, path := range paths {
		num, path := num, path
		group.Go(func() error {
			info, err := os.Stat(path)
			switch {
			case errors.Is(err, os.ErrNotExist):
				return nil
			case err != nil:
				log.Warn("shard unavailable", zap.String("path", path), zap.Error(err))
				return nil
			case !info.Mode().IsRegular():
				log.Warn("shard is not a regular file", zap.String("path", path))
				return nil
			}
			found[num] = &shard{num: num, path: path, size: info.Size()}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, Error.Wrap(err)
	}

	var shards []shard
	for _, s := range found {
		if s != nil {
			shards = append(shards, *s)
		}
	}
	return shards, nil
}

func countData(present []bool, k int) int {
	n := 0
	for _, p := range present[:k] {
		if p {
			n++
		}
	}
	return n
}

func verifyChecksum(h hash.Hash, expected []byte) error {
	if err := etag.Verify(h, expected); err != nil {
		return ErrMetadataCorrupt.Wrap(err)
	}
	return nil
}

// output is a reconstructed file being written next to its final path.
type output struct {
	path string
	name string
	tmp  *os.File
}

func createOutput(path string) (*output, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, ErrOutputUnavailable.Wrap(err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, ErrOutputUnavailable.Wrap(err)
	}
	return &output{path: path, name: tmp.Name(), tmp: tmp}, nil
}

func (o *output) write(b []byte) error {
	_, err := o.tmp.Write(b)
	return ErrOutputUnavailable.Wrap(err)
}

// commit drops the padding and moves the file into place.
func (o *output) commit(size int64) error {
	if err := o.tmp.Truncate(size); err != nil {
		return ErrOutputUnavailable.Wrap(err)
	}
	if err := o.tmp.Sync(); err != nil {
		return ErrOutputUnavailable.Wrap(err)
	}
	err := o.tmp.Close()
	o.tmp = nil
	if err != nil {
		return ErrOutputUnavailable.Wrap(err)
	}
	return ErrOutputUnavailable.Wrap(os.Rename(o.name, o.path))
}

func (o *output) abort() error {
	var group errs.Group
	if o.tmp != nil {
		group.Add(o.tmp.Close())
		o.tmp = nil
	}
	if err := os.Remove(o.name); err != nil && !errors.Is(err, os.ErrNotExist) {
		group.Add(err)
	}
	return group.Err()
}
