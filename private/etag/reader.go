// Copyright (C) 2021 Storj Labs, Inc.
// See LICENSE for copying information.

// Package etag computes content checksums of data as it streams by.
package etag

import (
	"bytes"
	"hash"
	"io"

	"github.com/zeebo/blake3"
	"github.com/zeebo/errs"
)

// ErrMismatch is the class of errors returned when content does not match
// its recorded checksum.
var ErrMismatch = errs.Class("checksum mismatch")

// Reader that calculates a checksum from content.
//
// CurrentETag returns the checksum calculated from the content that is
// already read.
type Reader interface {
	io.Reader
	CurrentETag() []byte
}

// NewHash returns the hash used for content checksums.
func NewHash() hash.Hash {
	return blake3.New()
}

// HashReader implements the etag.Reader interface by reading from an io.Reader
// and calculating the checksum with a hash.Hash.
type HashReader struct {
	io.Reader
	h hash.Hash
	n int64
}

// NewHashReader returns a new HashReader reading from r and calculating the checksum with h.
func NewHashReader(r io.Reader, h hash.Hash) *HashReader {
	return &HashReader{
		Reader: r,
		h:      h,
	}
}

// NewReader returns a HashReader computing the content checksum of r.
func NewReader(r io.Reader) *HashReader {
	return NewHashReader(r, NewHash())
}

func (r *HashReader) Read(b []byte) (n int, err error) {
	n, err = r.Reader.Read(b)
	r.n += int64(n)
	_, hashErr := r.h.Write(b[:n])
	return n, errs.Combine(err, hashErr)
}

// Count returns the number of bytes read so far.
func (r *HashReader) Count() int64 { return r.n }

// CurrentETag returns the checksum for the content that has already been
// read from the reader.
func (r *HashReader) CurrentETag() []byte {
	return r.h.Sum(nil)
}

// Verify returns an error when the digest of h differs from expected.
func Verify(h hash.Hash, expected []byte) error {
	if actual := h.Sum(nil); !bytes.Equal(actual, expected) {
		return ErrMismatch.New("expected %x, got %x", expected, actual)
	}
	return nil
}
