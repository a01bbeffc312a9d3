// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trace records processor steps, either as text lines written to
// an io.Writer or as snapshots kept in a fixed-size ring.
package trace

import (
	"fmt"
	"io"

	"github.com/beevik/go6510/cpu"
	"github.com/beevik/go6510/disasm"
)

// Line formats a snapshot as a single trace line:
//
//	1000  A9 5E     LDA #$5E      A=5E X=00 Y=00 SP=FD -----I--  cyc=2 (2)
func Line(s *cpu.Snapshot) string {
	inst := cpu.GetInstructionSet().Lookup(s.Opcode)
	operand := s.OperandBytes()
	line := fmt.Sprintf("%04X  %s  %-12s  A=%02X X=%02X Y=%02X SP=%02X %s  cyc=%d (%d)",
		s.PC, disasm.Bytes(s.Opcode, operand), disasm.Format(inst, s.PC, operand),
		s.Reg.A, s.Reg.X, s.Reg.Y, s.Reg.SP, cpu.FlagString(s.Reg.SavePS(false)),
		s.Total, s.Cycles)
	if s.Interrupt != cpu.NoInterrupt {
		line += fmt.Sprintf("  -> %s $%04X", s.Interrupt, s.Reg.PC)
	}
	return line
}

// Writer is a cpu.Observer that writes one line per step.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns an observer writing trace lines to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// OnStep implements cpu.Observer.
func (t *Writer) OnStep(s *cpu.Snapshot) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintln(t.w, Line(s))
}

// Err returns the first write error, if any. Tracing stops after an error
// without affecting execution.
func (t *Writer) Err() error {
	return t.err
}

// Ring is a cpu.Observer that keeps the most recent snapshots.
type Ring struct {
	buffer  []cpu.Snapshot
	cursor  int
	wrapped bool
}

// NewRing creates a ring holding up to size snapshots.
func NewRing(size int) (*Ring, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid size for trace ring (%d)", size)
	}
	return &Ring{buffer: make([]cpu.Snapshot, size)}, nil
}

// OnStep implements cpu.Observer.
func (r *Ring) OnStep(s *cpu.Snapshot) {
	r.buffer[r.cursor] = *s
	r.cursor++
	if r.cursor == len(r.buffer) {
		r.cursor = 0
		r.wrapped = true
	}
}

// Len returns the number of snapshots held.
func (r *Ring) Len() int {
	if r.wrapped {
		return len(r.buffer)
	}
	return r.cursor
}

// Snapshots returns the held snapshots, oldest first.
func (r *Ring) Snapshots() []cpu.Snapshot {
	if !r.wrapped {
		return append([]cpu.Snapshot(nil), r.buffer[:r.cursor]...)
	}
	s := make([]cpu.Snapshot, 0, len(r.buffer))
	s = append(s, r.buffer[r.cursor:]...)
	return append(s, r.buffer[:r.cursor]...)
}

// Reset empties the ring.
func (r *Ring) Reset() {
	r.cursor = 0
	r.wrapped = false
}

// WriteTo writes the held snapshots as trace lines, oldest first.
func (r *Ring) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, s := range r.Snapshots() {
		n, err := fmt.Fprintln(w, Line(&s))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Multi fans a step out to several observers.
type Multi []cpu.Observer

// OnStep implements cpu.Observer.
func (m Multi) OnStep(s *cpu.Snapshot) {
	for _, o := range m {
		o.OnStep(s)
	}
}
