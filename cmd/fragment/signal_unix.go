// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// notifyDiagnostics relays SIGQUIT, which then prints a progress report
// instead of killing the process.
func notifyDiagnostics(c chan<- os.Signal) {
	signal.Notify(c, syscall.SIGQUIT)
}
