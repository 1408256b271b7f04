// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/common/memory"
	"storj.io/common/testcontext"
	"storj.io/common/testrand"
	"storj.io/fragment"
	"storj.io/fragment/private/metadata"
)

func run(t *testing.T, ctx *testcontext.Context, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append(args, "--log.level", "warn"))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestEncodeDecode(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	data := testrand.BytesInt(50000)
	source := ctx.File("photo.jpg")
	require.NoError(t, os.WriteFile(source, data, 0o644))
	coding := ctx.Dir("Coding")

	out, err := run(t, ctx, "encode", source,
		"--output", coding, "--technique", "cauchy_good",
		"--k", "5", "--m", "3", "--w", "4", "--packetsize", "16", "--buffersize", "8KiB")
	require.NoError(t, err, out)
	require.Contains(t, out, filepath.Join(coding, "photo_k5.jpg"))
	require.Contains(t, out, "Encoding (MB/sec)")

	rec, err := metadata.ReadFile(filepath.Join(coding, "photo_meta.txt"))
	require.NoError(t, err)
	require.Equal(t, 5, rec.K)
	require.Equal(t, 3, rec.M)
	require.Greater(t, rec.Readins, 1)

	require.NoError(t, os.Remove(filepath.Join(coding, "photo_k2.jpg")))
	require.NoError(t, os.Remove(filepath.Join(coding, "photo_m1.jpg")))

	out, err = run(t, ctx, "decode", filepath.Join(coding, "photo_meta.txt"))
	require.NoError(t, err, out)
	decodedPath := filepath.Join(coding, "photo_decoded.jpg")
	require.Contains(t, out, decodedPath)

	decoded, err := os.ReadFile(decodedPath)
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}

func TestEnvironmentAndConfig(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	source := ctx.File("notes.txt")
	require.NoError(t, os.WriteFile(source, testrand.BytesInt(1000), 0o644))
	coding := ctx.Dir("Coding")

	config := ctx.File("config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("technique: liberation\nw: 5\npacketsize: 8\nk: 3\n"), 0o644))
	t.Setenv("FRAGMENT_K", "4")

	out, err := run(t, ctx, "encode", source, "--config", config, "--output", coding)
	require.NoError(t, err, out)

	rec, err := metadata.ReadFile(filepath.Join(coding, "notes_meta.txt"))
	require.NoError(t, err)
	require.Equal(t, "liberation", rec.Technique.String())
	require.Equal(t, 4, rec.K)
	require.Equal(t, 2, rec.M)
	require.Equal(t, 5, rec.W)
}

func TestBench(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	out, err := run(t, ctx, "bench", "--size", "256KiB", "--buffersize", "64KiB")
	require.NoError(t, err, out)
	require.Contains(t, out, "Encoding (MB/sec)")
}

func TestInvalidParameters(t *testing.T) {
	ctx := testcontext.New(t)
	defer ctx.Cleanup()

	source := ctx.File("a.bin")
	require.NoError(t, os.WriteFile(source, []byte("abc"), 0o644))

	out, err := run(t, ctx, "encode", source, "--technique", "liberation", "--w", "6", "--packetsize", "8", "--output", ctx.Dir("out"))
	require.Error(t, err)
	require.True(t, strings.Contains(out, "invalid parameter"), out)

	_, err = run(t, ctx, "encode", source, "--buffersize", "lots")
	require.True(t, fragment.ErrInvalidParameter.Has(err), "%v", err)

	_, err = run(t, ctx, "bench", "--size", "MiB")
	require.True(t, fragment.ErrInvalidParameter.Has(err), "%v", err)
}

func TestParseSize(t *testing.T) {
	for _, value := range []string{"", "lots", "KiB", " ", "1.5.5MB"} {
		_, err := parseSize("size", value)
		require.True(t, fragment.ErrInvalidParameter.Has(err), "%q: %v", value, err)
	}

	size, err := parseSize("size", "0")
	require.NoError(t, err)
	require.Zero(t, size)

	size, err = parseSize("size", "64MiB")
	require.NoError(t, err)
	require.Equal(t, 64*memory.MiB, size)

	size, err = parseSize("size", "4096")
	require.NoError(t, err)
	require.EqualValues(t, 4096, size)
}
