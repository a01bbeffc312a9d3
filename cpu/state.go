// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// State holds everything needed to resume the processor exactly where it
// left off. Memory is saved separately by its owner.
type State struct {
	Reg        Registers
	Cycles     uint64
	LastPC     uint16
	IRQ        bool
	NMIPending bool
	Fault      *Fault
}

// State returns a copy of the processor state. It must be called between
// steps.
func (c *CPU) State() State {
	s := State{
		Reg:        c.Reg,
		Cycles:     c.Cycles,
		LastPC:     c.LastPC,
		IRQ:        c.irqLine,
		NMIPending: c.nmiPending,
	}
	if c.fault != nil {
		f := *c.fault
		s.Fault = &f
	}
	return s
}

// SetState restores a state previously returned by State.
func (c *CPU) SetState(s State) {
	c.Reg = s.Reg
	c.Cycles = s.Cycles
	c.LastPC = s.LastPC
	c.irqLine = s.IRQ
	c.nmiPending = s.NMIPending
	c.fault = nil
	if s.Fault != nil {
		f := *s.Fault
		c.fault = &f
	}
	c.nstores = 0
}
