// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "fmt"

// Registers contains the state of all 6510 registers.
type Registers struct {
	A                byte   // accumulator
	X                byte   // X indexing register
	Y                byte   // Y indexing register
	SP               byte   // stack pointer ($100 + SP = stack memory location)
	PC               uint16 // program counter
	Carry            bool   // P: Carry bit
	Zero             bool   // P: Zero bit
	InterruptDisable bool   // P: Interrupt disable bit
	Decimal          bool   // P: Decimal bit
	Overflow         bool   // P: Overflow bit
	Negative         bool   // P: Negative bit
}

// Bits assigned to the processor status byte
const (
	CarryBit            = 1 << 0
	ZeroBit             = 1 << 1
	InterruptDisableBit = 1 << 2
	DecimalBit          = 1 << 3
	BreakBit            = 1 << 4
	ReservedBit         = 1 << 5
	OverflowBit         = 1 << 6
	NegativeBit         = 1 << 7
)

// SavePS packs the processor status into a byte value. The reserved bit is
// always set. The break bit is set only when requested, which is the case
// for pushes performed by BRK and PHP.
func (r *Registers) SavePS(brk bool) byte {
	var ps byte = ReservedBit
	if r.Carry {
		ps |= CarryBit
	}
	if r.Zero {
		ps |= ZeroBit
	}
	if r.InterruptDisable {
		ps |= InterruptDisableBit
	}
	if r.Decimal {
		ps |= DecimalBit
	}
	if brk {
		ps |= BreakBit
	}
	if r.Overflow {
		ps |= OverflowBit
	}
	if r.Negative {
		ps |= NegativeBit
	}
	return ps
}

// RestorePS unpacks the processor status from a byte. The break and
// reserved bits have no storage and are ignored.
func (r *Registers) RestorePS(ps byte) {
	r.Carry = ps&CarryBit != 0
	r.Zero = ps&ZeroBit != 0
	r.InterruptDisable = ps&InterruptDisableBit != 0
	r.Decimal = ps&DecimalBit != 0
	r.Overflow = ps&OverflowBit != 0
	r.Negative = ps&NegativeBit != 0
}

// P returns the status register as it would appear on the stack after an
// interrupt (break bit clear).
func (r *Registers) P() byte {
	return r.SavePS(false)
}

// Init clears all registers and sets the stack pointer to the value it
// holds after the reset sequence.
func (r *Registers) Init() {
	*r = Registers{SP: 0xfd, InterruptDisable: true}
}

// String formats the registers the way the monitor displays them.
func (r Registers) String() string {
	return fmt.Sprintf("A=$%02X X=$%02X Y=$%02X SP=$%02X PC=$%04X P=%s",
		r.A, r.X, r.Y, r.SP, r.PC, FlagString(r.SavePS(false)))
}

// FlagString renders a status byte as NV-BDIZC letters, using a dash for
// each clear bit.
func FlagString(ps byte) string {
	const letters = "NV-BDIZC"
	b := []byte("--------")
	for i := 0; i < 8; i++ {
		if ps&(0x80>>i) != 0 {
			b[i] = letters[i]
		}
	}
	return string(b)
}

func boolToByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

func boolToUint32(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}
