// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package metadata reads and writes the sidecar record that describes how a
// file was split into shards, and derives the shard file names.
package metadata

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zeebo/errs"

	"storj.io/fragment/private/technique"
)

var (
	// Error is the class of errors returned by this package.
	Error = errs.Class("metadata")

	// ErrCorrupt is the class of errors returned for malformed records.
	ErrCorrupt = errs.Class("metadata corrupt")
)

// checksumPrefix introduces the optional content checksum line.
const checksumPrefix = "blake3:"

// Record is everything needed to reverse an encode.
type Record struct {
	Path       string
	Size       int64
	K, M, W    int
	PacketSize int
	BufferSize int
	Technique  technique.CodingTechnique
	Readins    int

	// Checksum is the blake3 digest of the original content, when known.
	Checksum []byte
}

// ShareSize returns the number of bytes each shard receives per pass.
func (r Record) ShareSize() int {
	return r.BufferSize / r.K
}

// ShardSize returns the expected length of every shard file.
func (r Record) ShardSize() int64 {
	return int64(r.ShareSize()) * int64(r.Readins)
}

// Write encodes rec to w.
func Write(w io.Writer, rec Record) error {
	if strings.ContainsAny(rec.Path, "\r\n") {
		return Error.New("path %q contains a line break", rec.Path)
	}
	if !rec.Technique.Valid() {
		return Error.New("invalid technique %d", int(rec.Technique))
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n", rec.Path)
	fmt.Fprintf(bw, "%d\n", rec.Size)
	fmt.Fprintf(bw, "%d %d %d %d %d\n", rec.K, rec.M, rec.W, rec.PacketSize, rec.BufferSize)
	fmt.Fprintf(bw, "%s\n", rec.Technique)
	fmt.Fprintf(bw, "%d\n", rec.Technique.Ordinal())
	fmt.Fprintf(bw, "%d\n", rec.Readins)
	if len(rec.Checksum) > 0 {
		fmt.Fprintf(bw, "%s%x\n", checksumPrefix, rec.Checksum)
	}
	return Error.Wrap(bw.Flush())
}

// Read decodes a record from r.
func Read(r io.Reader) (rec Record, err error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return Record{}, Error.Wrap(err)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) < 6 || len(lines) > 7 {
		return Record{}, ErrCorrupt.New("expected 6 or 7 lines, got %d", len(lines))
	}

	rec.Path = lines[0]

	rec.Size, err = strconv.ParseInt(lines[1], 10, 64)
	if err != nil || rec.Size < 0 {
		return Record{}, ErrCorrupt.New("invalid size %q", lines[1])
	}

	fields := strings.Fields(lines[2])
	if len(fields) != 5 {
		return Record{}, ErrCorrupt.New("expected 5 parameters, got %q", lines[2])
	}
	params := make([]int, len(fields))
	for i, f := range fields {
		params[i], err = strconv.Atoi(f)
		if err != nil || params[i] < 0 {
			return Record{}, ErrCorrupt.New("invalid parameter %q", f)
		}
	}
	rec.K, rec.M, rec.W, rec.PacketSize, rec.BufferSize = params[0], params[1], params[2], params[3], params[4]

	tech, ok := technique.Parse(lines[3])
	if !ok {
		return Record{}, ErrCorrupt.New("unknown technique %q", lines[3])
	}
	ordinal, err := strconv.Atoi(lines[4])
	if err != nil || ordinal != tech.Ordinal() {
		return Record{}, ErrCorrupt.New("technique ordinal %q does not match %s", lines[4], tech)
	}
	rec.Technique = tech

	rec.Readins, err = strconv.Atoi(lines[5])
	if err != nil || rec.Readins < 1 {
		return Record{}, ErrCorrupt.New("invalid readins %q", lines[5])
	}

	if len(lines) == 7 {
		digest, ok := strings.CutPrefix(lines[6], checksumPrefix)
		if !ok {
			return Record{}, ErrCorrupt.New("unexpected trailing line %q", lines[6])
		}
		rec.Checksum, err = hex.DecodeString(digest)
		if err != nil || len(rec.Checksum) == 0 {
			return Record{}, ErrCorrupt.New("invalid checksum %q", digest)
		}
	}

	if rec.K < 1 || rec.W < 1 {
		return Record{}, ErrCorrupt.New("invalid k=%d w=%d", rec.K, rec.W)
	}
	if rec.BufferSize == 0 || rec.BufferSize%rec.K != 0 {
		return Record{}, ErrCorrupt.New("buffersize %d does not split into %d shares", rec.BufferSize, rec.K)
	}
	if rec.Size > int64(rec.BufferSize)*int64(rec.Readins) {
		return Record{}, ErrCorrupt.New("size %d exceeds %d passes of %d bytes", rec.Size, rec.Readins, rec.BufferSize)
	}
	return rec, nil
}

// WriteFile atomically replaces path with the encoded record.
func WriteFile(path string, rec Record) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return Error.Wrap(err)
	}
	closed := false
	defer func() {
		if err != nil {
			if !closed {
				err = errs.Combine(err, tmp.Close())
			}
			err = errs.Combine(err, os.Remove(tmp.Name()))
		}
	}()

	if err := Write(tmp, rec); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return Error.Wrap(err)
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return Error.Wrap(err)
	}
	return Error.Wrap(os.Rename(tmp.Name(), path))
}

// ReadFile reads the record stored at path.
func ReadFile(path string) (_ Record, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, Error.Wrap(err)
	}
	defer func() { err = errs.Combine(err, Error.Wrap(f.Close())) }()

	return Read(f)
}
