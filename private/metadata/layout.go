// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package metadata

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Layout derives the file names used for the shards of one source file.
//
// For a source "dir/photo.tar.gz" split with k=12 the data shards are
// photo_k01.tar.gz .. photo_k12.tar.gz, the coding shards photo_m01.tar.gz
// and so on, and the record lives in photo_meta.txt.
type Layout struct {
	Dir  string
	Base string
	Ext  string
	K, M int

	digits int
}

// NewLayout returns the layout for source inside dir.
func NewLayout(dir, source string, k, m int) Layout {
	name := filepath.Base(source)
	base, ext := name, ""
	if i := strings.IndexByte(name, '.'); i >= 0 {
		base, ext = name[:i], name[i:]
	}
	return Layout{
		Dir:    dir,
		Base:   base,
		Ext:    ext,
		K:      k,
		M:      m,
		digits: len(strconv.Itoa(k)),
	}
}

// DataShard returns the path of data shard i, counting from 1.
func (l Layout) DataShard(i int) string {
	return filepath.Join(l.Dir, fmt.Sprintf("%s_k%0*d%s", l.Base, l.digits, i, l.Ext))
}

// CodingShard returns the path of coding shard i, counting from 1.
func (l Layout) CodingShard(i int) string {
	return filepath.Join(l.Dir, fmt.Sprintf("%s_m%0*d%s", l.Base, l.digits, i, l.Ext))
}

// Shard returns the path of share num, counting from 0 with data first.
func (l Layout) Shard(num int) string {
	if num < l.K {
		return l.DataShard(num + 1)
	}
	return l.CodingShard(num - l.K + 1)
}

// Shards returns the paths of all k+m shards.
func (l Layout) Shards() []string {
	paths := make([]string, 0, l.K+l.M)
	for num := 0; num < l.K+l.M; num++ {
		paths = append(paths, l.Shard(num))
	}
	return paths
}

// Metadata returns the path of the metadata record.
func (l Layout) Metadata() string {
	return filepath.Join(l.Dir, l.Base+"_meta.txt")
}

// Decoded returns the default path of a reconstructed file.
func (l Layout) Decoded() string {
	return filepath.Join(l.Dir, l.Base+"_decoded"+l.Ext)
}
