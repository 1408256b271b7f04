// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package fragment

import (
	"os"

	"github.com/zeebo/errs"
)

// shardFiles are the shard outputs of one encode. They are truncated when
// created and appended to by every pass.
type shardFiles struct {
	paths  []string
	files  []*os.File
	opened int
}

func createShardFiles(paths []string) (_ *shardFiles, err error) {
	s := &shardFiles{paths: paths}
	defer func() {
		if err != nil {
			err = errs.Combine(err, s.remove())
		}
	}()

	for _, path := range paths {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, ErrOutputUnavailable.Wrap(err)
		}
		s.files = append(s.files, f)
		s.opened++
	}
	return s, nil
}

func (s *shardFiles) write(num int, data []byte) error {
	_, err := s.files[num].Write(data)
	return ErrOutputUnavailable.Wrap(err)
}

// close flushes and closes every file.
func (s *shardFiles) close() error {
	var group errs.Group
	for _, f := range s.files {
		group.Add(f.Sync(), f.Close())
	}
	s.files = nil
	return ErrOutputUnavailable.Wrap(group.Err())
}

// remove closes and deletes every file this run created.
func (s *shardFiles) remove() error {
	var group errs.Group
	for _, f := range s.files {
		group.Add(f.Close())
	}
	s.files = nil
	for _, path := range s.paths[:s.opened] {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			group.Add(err)
		}
	}
	return group.Err()
}
