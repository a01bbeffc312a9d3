// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// A Snapshot describes one completed step: the instruction that ran, the
// registers after it (and after any interrupt entry), and its cost.
type Snapshot struct {
	PC        uint16    // address of the executed instruction
	Opcode    byte      // opcode byte
	Operand   [2]byte   // operand bytes; only Length-1 are meaningful
	Length    byte      // instruction length in bytes
	Name      string    // instruction mnemonic
	Mode      Mode      // addressing mode
	Reg       Registers // registers after the step
	Cycles    int       // cycles spent by the step
	Total     uint64    // cycle counter after the step
	Interrupt Interrupt // interrupt entered after the instruction
}

// OperandBytes returns the operand bytes of the executed instruction.
func (s *Snapshot) OperandBytes() []byte {
	return s.Operand[:s.Length-1]
}

// An Observer receives a Snapshot after every step. The snapshot is
// reused between calls and must be copied if retained. Observers never
// influence execution.
type Observer interface {
	OnStep(s *Snapshot)
}

// AttachObserver installs an observer, replacing any previous one. A nil
// observer disables tracing.
func (c *CPU) AttachObserver(o Observer) {
	c.observer = o
}

func (c *CPU) snapshot(pc uint16, inst *Instruction, operand []byte, cycles int, irq Interrupt) *Snapshot {
	s := &c.snap
	*s = Snapshot{
		PC:        pc,
		Opcode:    inst.Opcode,
		Length:    inst.Length,
		Name:      inst.Name,
		Mode:      inst.Mode,
		Reg:       c.Reg,
		Cycles:    cycles,
		Total:     c.Cycles,
		Interrupt: irq,
	}
	copy(s.Operand[:], operand)
	return s
}
