// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package metadata_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/common/testcontext"
	"storj.io/fragment/private/metadata"
	"storj.io/fragment/private/technique"
)

func TestRecordFormat(t *testing.T) {
	rec := metadata.Record{
		Path:       "/data/report.pdf",
		Size:       10000,
		K:          4,
		M:          2,
		W:          8,
		BufferSize: 10240,
		Technique:  technique.ReedSolomonVandermonde,
		Readins:    1,
	}

	var buf bytes.Buffer
	require.NoError(t, metadata.Write(&buf, rec))
	require.Equal(t, "/data/report.pdf\n10000\n4 2 8 0 10240\nreed_sol_van\n0\n1\n", buf.String())

	got, err := metadata.Read(&buf)
	require.NoError(t, err)
	require.Equal(t, rec, got)
	require.Equal(t, 2560, got.ShareSize())
	require.EqualValues(t, 2560, got.ShardSize())
}

func TestRecordChecksum(t *testing.T) {
	rec := metadata.Record{
		Path:       "a.bin",
		Size:       5,
		K:          2,
		M:          2,
		W:          5,
		PacketSize: 8,
		BufferSize: 640,
		Technique:  technique.Liberation,
		Readins:    1,
		Checksum:   []byte{0xde, 0xad, 0xbe, 0xef},
	}

	var buf bytes.Buffer
	require.NoError(t, metadata.Write(&buf, rec))
	require.True(t, strings.HasSuffix(buf.String(), "\nliberation\n4\n1\nblake3:deadbeef\n"))

	got, err := metadata.Read(&buf)
	require.NoError(t, err)
	require.Equal(t, rec, got)
}

func TestRecordCorrupt(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"short":            "a\n1\n",
		"size":             "a\nten\n2 1 8 0 64\nreed_sol_van\n0\n1\n",
		"negative size":    "a\n-1\n2 1 8 0 64\nreed_sol_van\n0\n1\n",
		"params":           "a\n1\n2 1 8 0\nreed_sol_van\n0\n1\n",
		"param value":      "a\n1\n2 x 8 0 64\nreed_sol_van\n0\n1\n",
		"technique":        "a\n1\n2 1 8 0 64\ntech\n0\n1\n",
		"ordinal mismatch": "a\n1\n2 1 8 0 64\nreed_sol_van\n3\n1\n",
		"readins":          "a\n1\n2 1 8 0 64\nreed_sol_van\n0\n0\n",
		"trailer":          "a\n1\n2 1 8 0 64\nreed_sol_van\n0\n1\nsha1:00\n",
		"checksum":         "a\n1\n2 1 8 0 64\nreed_sol_van\n0\n1\nblake3:zz\n",
		"zero k":           "a\n1\n0 1 8 0 64\nreed_sol_van\n0\n1\n",
		"zero buffer":      "a\n1\n2 1 8 0 0\nreed_sol_van\n0\n1\n",
		"uneven buffer":    "a\n1\n2 1 8 0 63\nreed_sol_van\n0\n1\n",
		"size too large":   "a\n1000\n2 1 8 0 64\nreed_sol_van\n0\n1\n",
	}
	for name, text := range cases {
		_, err := metadata.Read(strings.NewReader(text))
		require.Error(t, err, name)
		require.True(t, metadata.ErrCorrupt.Has(err), name)
	}
}

func TestWriteRejectsLineBreaks(t *testing.T) {
	err := metadata.Write(&bytes.Buffer{}, metadata.Record{Path: "a\nb", K: 1, BufferSize: 8, Readins: 1})
	require.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	path := ctx.File("out", "photo_meta.txt")
	rec := metadata.Record{
		Path: "photo.jpg", Size: 3, K: 3, W: 8, BufferSize: 192,
		Technique: technique.NoCoding, Readins: 1,
	}
	require.NoError(t, metadata.WriteFile(path, rec))

	got, err := metadata.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, rec, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = metadata.ReadFile(ctx.File("missing_meta.txt"))
	require.Error(t, err)
}

func TestLayout(t *testing.T) {
	l := metadata.NewLayout("out", "/src/photo.tar.gz", 12, 3)
	require.Equal(t, filepath.Join("out", "photo_k01.tar.gz"), l.DataShard(1))
	require.Equal(t, filepath.Join("out", "photo_k12.tar.gz"), l.DataShard(12))
	require.Equal(t, filepath.Join("out", "photo_m03.tar.gz"), l.CodingShard(3))
	require.Equal(t, filepath.Join("out", "photo_meta.txt"), l.Metadata())
	require.Equal(t, filepath.Join("out", "photo_decoded.tar.gz"), l.Decoded())

	shards := l.Shards()
	require.Len(t, shards, 15)
	require.Equal(t, l.DataShard(1), shards[0])
	require.Equal(t, l.CodingShard(1), shards[12])

	plain := metadata.NewLayout("", "README", 4, 2)
	require.Equal(t, "README_k1", plain.DataShard(1))
	require.Equal(t, "README_m2", plain.CodingShard(2))
}

func TestWriteFileRenameFailure(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	// a directory in the way makes the final rename fail.
	path := ctx.Dir("out", "photo_meta.txt")
	rec := metadata.Record{
		Path: "photo.jpg", Size: 3, K: 3, W: 8, BufferSize: 192,
		Technique: technique.NoCoding, Readins: 1,
	}
	err := metadata.WriteFile(path, rec)
	require.Error(t, err)
	require.True(t, metadata.Error.Has(err))
	require.NotContains(t, err.Error(), os.ErrClosed.Error())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, entries[0].IsDir())
}
