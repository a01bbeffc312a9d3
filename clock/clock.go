// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clock paces emulated execution to the speed of a real C64.
//
// A Pacer runs a timing goroutine that converts elapsed wall-clock time into
// permits to execute a number of processor cycles. The executing goroutine
// asks for the next batch with Wait:
//
//	p := clock.NewPacer(clock.PAL, clock.Options{})
//	p.Start(ctx)
//	for {
//		n, err := p.Wait(ctx)
//		if err != nil {
//			return err
//		}
//		runCycles(n)
//	}
//
// The pacer never touches emulated state. It only hands out cycle counts.
package clock

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Standard is a video standard, which fixes the processor clock.
type Standard byte

const (
	PAL Standard = iota
	NTSC
)

// Processor clock frequencies in Hz, derived from the colour carrier
// crystals of the two board revisions.
const (
	PALFrequency  = 985248.444
	NTSCFrequency = 1022727.714
)

// Frequency returns the processor clock of the standard in Hz.
func (s Standard) Frequency() float64 {
	if s == NTSC {
		return NTSCFrequency
	}
	return PALFrequency
}

func (s Standard) String() string {
	if s == NTSC {
		return "NTSC"
	}
	return "PAL"
}

// ParseStandard converts "pal" or "ntsc" (in any case) into a Standard.
func ParseStandard(s string) (Standard, error) {
	switch strings.ToUpper(s) {
	case "PAL":
		return PAL, nil
	case "NTSC":
		return NTSC, nil
	}
	return PAL, fmt.Errorf("unknown clock standard %q", s)
}

// Defaults
const (
	DefaultQuantum = 2 * time.Millisecond

	// Cycles handed out per Wait when unthrottled.
	UnthrottledBatch = 1 << 16

	// Largest permit backlog, in wall-clock time. A core that falls further
	// behind (for example while paused) does not try to catch up beyond it.
	maxBacklog = 100 * time.Millisecond
)

// Options configure a Pacer.
type Options struct {
	Quantum     time.Duration // interval between permit grants; DefaultQuantum if zero
	Unthrottled bool          // run as fast as possible
}

// A Pacer grants cycle permits at the rate of an emulated clock.
type Pacer struct {
	freq        float64
	quantum     time.Duration
	unthrottled bool
	budget      atomic.Int64 // cycles granted but not yet claimed
	granted     atomic.Int64 // cycles granted since Start
	claimed     atomic.Int64 // cycles handed out by Wait
	started     atomic.Int64 // start time in unix nanoseconds
	ready       chan struct{}
}

// NewPacer creates a pacer for the standard's processor clock.
func NewPacer(std Standard, opts Options) *Pacer {
	q := opts.Quantum
	if q <= 0 {
		q = DefaultQuantum
	}
	return &Pacer{
		freq:        std.Frequency(),
		quantum:     q,
		unthrottled: opts.Unthrottled,
		ready:       make(chan struct{}, 1),
	}
}

// Frequency returns the paced clock rate in Hz.
func (p *Pacer) Frequency() float64 {
	return p.freq
}

// Unthrottled reports whether the pacer runs without a speed limit.
func (p *Pacer) Unthrottled() bool {
	return p.unthrottled
}

// Start launches the timing goroutine. It stops when ctx is done. Start
// does nothing for an unthrottled pacer.
func (p *Pacer) Start(ctx context.Context) {
	start := time.Now()
	p.started.Store(start.UnixNano())
	if p.unthrottled {
		return
	}

	backlog := int64(maxBacklog.Seconds() * p.freq)
	go func() {
		t := time.NewTicker(p.quantum)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				// Permits follow the total elapsed time, so timer jitter
				// never accumulates.
				target := int64(now.Sub(start).Seconds() * p.freq)
				grant := target - p.granted.Load()
				if grant <= 0 {
					continue
				}
				p.granted.Add(grant)
				if p.budget.Add(grant) > backlog {
					p.budget.Store(backlog)
				}
				select {
				case p.ready <- struct{}{}:
				default:
				}
			}
		}
	}()
}

// Wait blocks until cycles are available and returns how many may be
// executed. It returns early with the context's error when ctx is done.
func (p *Pacer) Wait(ctx context.Context) (int64, error) {
	if p.unthrottled {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		p.claimed.Add(UnthrottledBatch)
		return UnthrottledBatch, nil
	}
	for {
		if n := p.budget.Swap(0); n > 0 {
			p.claimed.Add(n)
			return n, nil
		}
		select {
		case <-p.ready:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// Stats describe the pacing achieved so far.
type Stats struct {
	Elapsed time.Duration // wall time since Start
	Cycles  int64         // cycles handed out by Wait
	Rate    float64       // Cycles per second of Elapsed
}

// Stats returns the cycles handed out since Start and the rate they
// correspond to.
func (p *Pacer) Stats() Stats {
	start := p.started.Load()
	if start == 0 {
		return Stats{}
	}
	elapsed := time.Since(time.Unix(0, start))
	s := Stats{Elapsed: elapsed, Cycles: p.claimed.Load()}
	if elapsed > 0 {
		s.Rate = float64(s.Cycles) / elapsed.Seconds()
	}
	return s
}
