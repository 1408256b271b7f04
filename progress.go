// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package fragment

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"storj.io/fragment/private/technique"
)

// Progress tracks a running job. The job's loop updates it; any goroutine may
// read it.
type Progress struct {
	technique atomic.Int64
	readins   atomic.Int64
	pass      atomic.Int64
}

// unknownTechnique marks a job whose technique has not been read yet.
const unknownTechnique = -1

// NewProgress returns the progress of a job using tech.
func NewProgress(tech technique.CodingTechnique) *Progress {
	p := &Progress{}
	p.setTechnique(tech)
	return p
}

// newPendingProgress returns the progress of a job that learns its technique
// later.
func newPendingProgress() *Progress {
	p := &Progress{}
	p.technique.Store(unknownTechnique)
	return p
}

// Snapshot is a point in time view of a Progress.
type Snapshot struct {
	Technique technique.CodingTechnique
	Pass      int
	Current   int
	Readins   int
}

// Technique returns the technique of the job. It is not Valid until the
// technique is known.
func (p *Progress) Technique() technique.CodingTechnique {
	return technique.CodingTechnique(p.technique.Load())
}

// Pass returns the number of completed passes.
func (p *Progress) Pass() int { return int(p.pass.Load()) }

// Current returns the 1-based pass in flight, the last pass once the job is
// done, or zero before the job has sized its input.
func (p *Progress) Current() int { return p.Snapshot().Current }

// Readins returns the total number of passes, or zero before the job has
// sized its input.
func (p *Progress) Readins() int { return int(p.readins.Load()) }

// Snapshot returns the current state.
func (p *Progress) Snapshot() Snapshot {
	readins := int(p.readins.Load())
	pass := int(p.pass.Load())
	current := 0
	if readins > 0 {
		current = min(pass+1, readins)
	}
	return Snapshot{
		Technique: p.Technique(),
		Pass:      pass,
		Current:   current,
		Readins:   readins,
	}
}

func (p *Progress) setTechnique(tech technique.CodingTechnique) {
	p.technique.Store(int64(tech))
}

func (p *Progress) start(readins int) {
	p.pass.Store(0)
	p.readins.Store(int64(readins))
}

func (p *Progress) advance(pass int) {
	p.pass.Store(int64(pass))
}

// Report writes a human readable progress report to w.
func (p *Progress) Report(w io.Writer, now time.Time) error {
	s := p.Snapshot()
	_, err := fmt.Fprintf(w, "\n%s\nTotal number of read ins = %d\nCurrent read in: %d\nMethod: %s\n\n",
		now.Format(time.ANSIC), s.Readins, s.Current, methodName(s.Technique))
	return Error.Wrap(err)
}

// WatchDiagnostics writes a report to w every time a signal arrives, until
// ctx is done or signals is closed.
func WatchDiagnostics(ctx context.Context, log *zap.Logger, p *Progress, signals <-chan os.Signal, w io.Writer) {
	if log == nil {
		log = zap.NewNop()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			s := p.Snapshot()
			log.Info("diagnostics requested",
				zap.Stringer("signal", sig),
				zap.Int("pass", s.Current),
				zap.Int("readins", s.Readins),
				zap.String("technique", methodName(s.Technique)))
			if err := p.Report(w, time.Now()); err != nil {
				log.Warn("failed to write diagnostics", zap.Error(err))
			}
		}
	}
}

func methodName(t technique.CodingTechnique) string {
	if !t.Valid() {
		return "unknown"
	}
	return t.String()
}
