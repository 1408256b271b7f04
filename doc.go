// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package fragment splits files into k data shards and m coding shards with
// a choice of erasure coding techniques, and reassembles the original from
// any k of them.
//
// An encode writes the shards and a small text record next to them:
//
//	enc, err := fragment.NewEncoder(log, fragment.Job{
//		Source:    "report.pdf",
//		OutputDir: "Coding",
//		Technique: "reed_sol_van",
//		K:         4, M: 2, W: 8,
//	})
//	res, err := enc.Encode(ctx)
//
// A decode reads the record and whichever shards survived:
//
//	dec, err := fragment.NewDecoder(log, fragment.DecodeJob{
//		MetadataPath: "Coding/report_meta.txt",
//	})
//	res, err := dec.Decode(ctx)
package fragment
