// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import "os"

// notifyDiagnostics does nothing; windows has no SIGQUIT.
func notifyDiagnostics(c chan<- os.Signal) {}
