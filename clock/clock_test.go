// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clock_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/beevik/go6510/clock"
)

func TestParseStandard(t *testing.T) {
	if s, err := clock.ParseStandard("ntsc"); err != nil || s != clock.NTSC {
		t.Errorf("ParseStandard(ntsc) = %v, %v", s, err)
	}
	if s, err := clock.ParseStandard("PAL"); err != nil || s != clock.PAL {
		t.Errorf("ParseStandard(PAL) = %v, %v", s, err)
	}
	if _, err := clock.ParseStandard("secam"); err == nil {
		t.Error("unknown standard accepted")
	}
	if f := clock.PAL.Frequency(); math.Abs(f-985248) > 1 {
		t.Errorf("PAL frequency incorrect: %f", f)
	}
	if f := clock.NTSC.Frequency(); math.Abs(f-1022727) > 1 {
		t.Errorf("NTSC frequency incorrect: %f", f)
	}
}

// drain consumes permits for the duration and returns the cycles granted.
func drain(t *testing.T, p *clock.Pacer, d time.Duration) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	p.Start(ctx)

	var total int64
	for {
		n, err := p.Wait(ctx)
		if errors.Is(err, context.DeadlineExceeded) {
			return total
		}
		if err != nil {
			t.Fatal(err)
		}
		total += n
	}
}

func TestPacerRate(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	const d = 300 * time.Millisecond
	p := clock.NewPacer(clock.PAL, clock.Options{})
	got := drain(t, p, d)

	exp := clock.PALFrequency * d.Seconds()
	if float64(got) < exp*0.7 || float64(got) > exp*1.1 {
		t.Errorf("paced cycles out of range. exp: ~%.0f, got: %d", exp, got)
	}

	stats := p.Stats()
	if stats.Cycles != got {
		t.Errorf("stats cycles incorrect. exp: %d, got: %d", got, stats.Cycles)
	}
}

func TestUnthrottled(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	const d = 100 * time.Millisecond
	paced := drain(t, clock.NewPacer(clock.PAL, clock.Options{}), d)
	free := drain(t, clock.NewPacer(clock.PAL, clock.Options{Unthrottled: true}), d)
	if free <= paced {
		t.Errorf("unthrottled pacer granted %d cycles, paced %d", free, paced)
	}
}

func TestWaitCancelled(t *testing.T) {
	p := clock.NewPacer(clock.NTSC, clock.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Start(ctx)
	if _, err := p.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
