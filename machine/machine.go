// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package machine assembles a processor, a memory bus and a clock pacer
// into a runnable C64 core.
//
// All emulated state belongs to one Machine value and is only touched by
// the goroutine executing Run or Step. Other goroutines interact through
// Stop, Pause, Resume, RequestIRQ and RequestNMI, which take effect at the
// next instruction boundary.
package machine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/beevik/go6510/bus"
	"github.com/beevik/go6510/clock"
	"github.com/beevik/go6510/cpu"
	"github.com/beevik/go6510/rom"
	"github.com/beevik/go6510/trace"
)

// Errors
var (
	ErrRunning       = errors.New("machine is already running")
	ErrInvalidConfig = errors.New("invalid machine configuration")
)

// Config describes a machine.
type Config struct {
	ROMs        *rom.Set          // system ROMs; all three are required
	Standard    clock.Standard    // PAL or NTSC clock
	Unthrottled bool              // run as fast as possible
	Quantum     time.Duration     // pacer grant interval; default if zero
	Illegal     cpu.IllegalPolicy // handling of undocumented opcodes
	Decimal     cpu.DecimalMode   // decimal mode fidelity
	Trace       io.Writer         // receives a line per instruction if set
	History     int               // number of recent steps kept for inspection
	RAMImage    []byte            // power-on RAM contents from $0000, if set
	Logger      *slog.Logger      // discards output if nil
}

// Validate reports every problem with the configuration.
func (c *Config) Validate() error {
	var errs []error
	if c.ROMs == nil {
		for _, k := range []rom.Kind{rom.Basic, rom.Kernal, rom.Char} {
			errs = append(errs, &rom.ImageError{Kind: k, Err: rom.ErrMissingImage})
		}
	} else if err := c.ROMs.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Standard != clock.PAL && c.Standard != clock.NTSC {
		errs = append(errs, fmt.Errorf("%w: clock standard %d", ErrInvalidConfig, c.Standard))
	}
	if c.Illegal != cpu.Emulate && c.Illegal != cpu.Trap {
		errs = append(errs, fmt.Errorf("%w: illegal opcode policy %d", ErrInvalidConfig, c.Illegal))
	}
	if c.Decimal > cpu.DecimalOff {
		errs = append(errs, fmt.Errorf("%w: decimal mode %d", ErrInvalidConfig, c.Decimal))
	}
	if len(c.RAMImage) > 0x10000 {
		errs = append(errs, fmt.Errorf("%w: RAM image of %d bytes exceeds 64K", ErrInvalidConfig, len(c.RAMImage)))
	}
	if c.History < 0 {
		errs = append(errs, fmt.Errorf("%w: negative history size", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// A Ticker is a collaborator (video, timers, sound) that advances in step
// with the processor. Tick is called on the executing goroutine after each
// instruction with the cycles it took.
type Ticker interface {
	Tick(cycles int)
}

// Machine is one emulated computer.
type Machine struct {
	CPU *cpu.CPU
	Bus *bus.Bus

	cfg     Config
	log     *slog.Logger
	tickers []Ticker
	tracer  *trace.Writer
	history *trace.Ring
	pacer   atomic.Pointer[clock.Pacer]

	irq   atomic.Bool
	nmi   atomic.Bool
	stop  atomic.Bool
	pause atomic.Bool

	mu      sync.Mutex
	gate    *sync.Cond
	running bool
	parked  bool
}

// New validates the configuration and builds a machine in its reset state.
// Configuration errors are reported here, before anything executes.
func New(cfg Config) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := &Machine{cfg: cfg, log: logger}
	m.gate = sync.NewCond(&m.mu)
	m.Bus = bus.New(cfg.ROMs, logger.With("component", "bus"))
	m.Bus.Load(0, cfg.RAMImage)
	m.CPU = cpu.NewCPU(m.Bus, cpu.Options{Illegal: cfg.Illegal, Decimal: cfg.Decimal})

	var observers trace.Multi
	if cfg.Trace != nil {
		m.tracer = trace.NewWriter(cfg.Trace)
		observers = append(observers, m.tracer)
	}
	if cfg.History > 0 {
		m.history, _ = trace.NewRing(cfg.History)
		observers = append(observers, m.history)
	}
	switch len(observers) {
	case 0:
	case 1:
		m.CPU.AttachObserver(observers[0])
	default:
		m.CPU.AttachObserver(observers)
	}

	m.Reset()
	return m, nil
}

// Config returns the configuration the machine was built with.
func (m *Machine) Config() Config {
	return m.cfg
}

// History returns the ring of recent steps, or nil if none is kept.
func (m *Machine) History() *trace.Ring {
	return m.history
}

// AddTicker registers a collaborator to be advanced after every step.
func (m *Machine) AddTicker(t Ticker) {
	m.tickers = append(m.tickers, t)
}

// Map decodes an I/O device into the bus.
func (m *Machine) Map(start, end uint16, dev bus.Device) error {
	return m.Bus.Map(start, end, dev)
}

// Reset resets the processor port and the processor. Pending interrupt
// requests are discarded.
func (m *Machine) Reset() {
	m.irq.Store(false)
	m.nmi.Store(false)
	m.Bus.Reset()
	m.CPU.Reset()
	m.log.Debug("reset", "pc", fmt.Sprintf("$%04X", m.CPU.Reg.PC))
}

// RequestIRQ asserts the maskable interrupt. It may be called from any
// goroutine.
func (m *Machine) RequestIRQ() {
	m.irq.Store(true)
}

// RequestNMI triggers a non-maskable interrupt. It may be called from any
// goroutine.
func (m *Machine) RequestNMI() {
	m.nmi.Store(true)
}

// Stop asks Run to return at the next instruction boundary. It may be
// called from any goroutine, including breakpoint handlers and tickers.
func (m *Machine) Stop() {
	m.stop.Store(true)
}

// Pause parks Run at the next instruction boundary and waits until it is
// parked. While paused, the machine state may be inspected and modified
// from the calling goroutine.
func (m *Machine) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pause.Store(true)
	for m.running && !m.parked {
		m.gate.Wait()
	}
}

// Resume lets a paused Run continue.
func (m *Machine) Resume() {
	m.mu.Lock()
	m.pause.Store(false)
	m.gate.Broadcast()
	m.mu.Unlock()
}

// Paused reports whether a pause has been requested.
func (m *Machine) Paused() bool {
	return m.pause.Load()
}

// Step executes one instruction on the calling goroutine, servicing any
// interrupt requested since the previous step after it, and advances the
// tickers.
func (m *Machine) Step() (int, error) {
	if m.nmi.Swap(false) {
		m.CPU.NMI()
	}
	if m.irq.Swap(false) {
		m.CPU.IRQ()
	}
	n, err := m.CPU.Step()
	if err != nil {
		return 0, err
	}
	for _, t := range m.tickers {
		t.Tick(n)
	}
	return n, nil
}

// Run executes instructions at the configured clock rate until Stop is
// called, ctx is done, or the processor faults. It returns nil after Stop,
// the context's error after cancellation, and the *cpu.Fault otherwise.
func (m *Machine) Run(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrRunning
	}
	m.running = true
	m.mu.Unlock()
	m.stop.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer func() {
		m.mu.Lock()
		m.running = false
		m.gate.Broadcast()
		m.mu.Unlock()
	}()

	// Wake the pause gate when the context ends.
	unregister := context.AfterFunc(ctx, func() {
		m.mu.Lock()
		m.gate.Broadcast()
		m.mu.Unlock()
	})
	defer unregister()

	pacer := clock.NewPacer(m.cfg.Standard, clock.Options{
		Quantum:     m.cfg.Quantum,
		Unthrottled: m.cfg.Unthrottled,
	})
	pacer.Start(ctx)
	m.pacer.Store(pacer)

	m.log.Info("machine started", "standard", m.cfg.Standard,
		"unthrottled", pacer.Unthrottled(), "pc", fmt.Sprintf("$%04X", m.CPU.Reg.PC))

	err := m.run(ctx, pacer)

	stats := pacer.Stats()
	switch {
	case err == nil:
		m.log.Info("machine stopped", "cycles", m.CPU.Cycles, "rate", int64(stats.Rate))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		m.log.Info("machine cancelled", "cycles", m.CPU.Cycles, "rate", int64(stats.Rate))
	default:
		m.log.Error("machine halted", "err", err, "cycles", m.CPU.Cycles)
	}
	return err
}

func (m *Machine) run(ctx context.Context, pacer *clock.Pacer) error {
	// Cycles executed beyond the previous permit are paid from the next.
	var debt int64
	for {
		permit, err := pacer.Wait(ctx)
		if err != nil {
			return err
		}
		budget := permit - debt
		for budget > 0 {
			if m.stop.Load() {
				return nil
			}
			if err := m.checkPause(ctx); err != nil {
				return err
			}
			n, err := m.Step()
			if err != nil {
				return err
			}
			budget -= int64(n)
		}
		debt = -budget
	}
}

// Park at the pause gate while a pause is requested.
func (m *Machine) checkPause(ctx context.Context) error {
	if !m.pause.Load() {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parked = true
	m.gate.Broadcast()
	for m.pause.Load() && ctx.Err() == nil {
		m.gate.Wait()
	}
	m.parked = false
	return ctx.Err()
}

// Stats returns the pacing statistics of the current or last run.
func (m *Machine) Stats() clock.Stats {
	if p := m.pacer.Load(); p != nil {
		return p.Stats()
	}
	return clock.Stats{}
}

// State is a complete copy of the machine's emulated state, including
// interrupt requests not yet handed to the processor.
type State struct {
	CPU        cpu.State
	Bus        *bus.State
	IRQRequest bool
	NMIRequest bool
}

// Save copies the machine state. The machine must be stopped or paused.
func (m *Machine) Save() *State {
	return &State{
		CPU:        m.CPU.State(),
		Bus:        m.Bus.Save(),
		IRQRequest: m.irq.Load(),
		NMIRequest: m.nmi.Load(),
	}
}

// Restore replaces the machine state with a saved copy. The machine must be
// stopped or paused. Execution continues exactly as it did after the save.
func (m *Machine) Restore(s *State) {
	m.Bus.Restore(s.Bus)
	m.CPU.SetState(s.CPU)
	m.irq.Store(s.IRQRequest)
	m.nmi.Store(s.NMIRequest)
}
