// Copyright (C) 2021 Storj Labs, Inc.
// See LICENSE for copying information.

package etag_test

import (
	"bytes"
	"crypto/sha256"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"

	"storj.io/common/memory"
	"storj.io/common/testrand"
	"storj.io/fragment/private/etag"
)

func TestHashReader(t *testing.T) {
	inputData := testrand.Bytes(1 * memory.KiB)
	expectedETag := sha256.Sum256(inputData)

	reader := etag.NewHashReader(bytes.NewReader(inputData), sha256.New())
	readData, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, inputData, readData)
	require.Equal(t, expectedETag[:], reader.CurrentETag())
	require.EqualValues(t, len(inputData), reader.Count())
}

func TestContentChecksum(t *testing.T) {
	inputData := testrand.Bytes(10 * memory.KiB)
	expected := blake3.Sum256(inputData)

	reader := etag.NewReader(bytes.NewReader(inputData))
	_, err := io.Copy(io.Discard, reader)
	require.NoError(t, err)
	require.Equal(t, expected[:], reader.CurrentETag())

	h := etag.NewHash()
	_, err = h.Write(inputData)
	require.NoError(t, err)
	require.NoError(t, etag.Verify(h, expected[:]))

	_, err = h.Write([]byte{0})
	require.NoError(t, err)
	err = etag.Verify(h, expected[:])
	require.Error(t, err)
	require.True(t, etag.ErrMismatch.Has(err))
}
