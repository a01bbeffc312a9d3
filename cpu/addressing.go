// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

type operandKind byte

const (
	operandNone operandKind = iota // implied
	operandImm                     // immediate value
	operandAcc                     // accumulator
	operandMem                     // memory at addr
	operandRel                     // branch target in addr
)

// An operand is the resolved location an instruction works on. Resolving
// reads pointers from zero page or from the indirect vector but never the
// operand value itself, so the operation decides whether memory is read,
// written or both.
type operand struct {
	kind        operandKind
	addr        uint16 // effective address (or branch/jump target)
	base        uint16 // address before indexing
	value       byte   // immediate value
	pageCrossed bool   // indexing carried into the high byte
}

// resolve computes the operand of an instruction whose operand bytes have
// already been fetched. The program counter must already point at the
// following instruction.
func (c *CPU) resolve(mode Mode, b []byte) operand {
	switch mode {
	case IMP:
		return operand{kind: operandNone}
	case ACC:
		return operand{kind: operandAcc}
	case IMM:
		return operand{kind: operandImm, value: b[0]}
	case REL:
		target := c.Reg.PC + uint16(int8(b[0]))
		return operand{kind: operandRel, addr: target, base: c.Reg.PC}
	case ZPG:
		return mem(uint16(b[0]))
	case ZPX:
		return mem(offsetZeroPage(b[0], c.Reg.X))
	case ZPY:
		return mem(offsetZeroPage(b[0], c.Reg.Y))
	case ABS:
		return mem(operandToAddress(b))
	case ABX:
		return c.indexed(operandToAddress(b), c.Reg.X)
	case ABY:
		return c.indexed(operandToAddress(b), c.Reg.Y)
	case IND:
		// The NMOS part never carries into the high byte of the pointer,
		// so JMP ($12FF) takes its high byte from $1200.
		ptr := operandToAddress(b)
		lo := c.loadByte(ptr)
		hi := c.loadByte(ptr&0xff00 | uint16(byte(ptr)+1))
		return mem(uint16(lo) | uint16(hi)<<8)
	case IDX:
		zp := b[0] + c.Reg.X
		return mem(c.loadZeroPageAddress(zp))
	case IDY:
		return c.indexed(c.loadZeroPageAddress(b[0]), c.Reg.Y)
	default:
		panic("invalid addressing mode")
	}
}

func mem(addr uint16) operand {
	return operand{kind: operandMem, addr: addr, base: addr}
}

func (c *CPU) indexed(base uint16, index byte) operand {
	addr, crossed := offsetAddress(base, index)
	return operand{kind: operandMem, addr: addr, base: base, pageCrossed: crossed}
}

// Load a 16-bit pointer from page zero. The high byte of a pointer at $FF
// comes from $00.
func (c *CPU) loadZeroPageAddress(zp byte) uint16 {
	lo := c.loadByte(uint16(zp))
	hi := c.loadByte(uint16(zp + 1))
	return uint16(lo) | uint16(hi)<<8
}

// Load the value an operand refers to.
func (c *CPU) load(op operand) byte {
	switch op.kind {
	case operandImm:
		return op.value
	case operandAcc:
		return c.Reg.A
	case operandMem:
		return c.loadByte(op.addr)
	default:
		panic("operand cannot be loaded")
	}
}

// Store a value to the location an operand refers to.
func (c *CPU) store(op operand, v byte) {
	switch op.kind {
	case operandAcc:
		c.Reg.A = v
	case operandMem:
		c.storeByte(op.addr, v)
	default:
		panic("operand cannot be stored")
	}
}
