// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Value ORed into the accumulator by the unstable ANE and LXA opcodes.
// Real parts vary between $00, $EE and $FF; $EE is the most common.
const magicConst = 0xee

// AND immediate, then copy the negative flag into carry
func (c *CPU) anc(inst *Instruction, op operand) {
	c.Reg.A &= c.load(op)
	c.updateNZ(c.Reg.A)
	c.Reg.Carry = c.Reg.Negative
}

// AND immediate, then shift the accumulator right
func (c *CPU) alr(inst *Instruction, op operand) {
	c.Reg.A = c.shiftRight(c.Reg.A&c.load(op), 0)
}

// AND immediate, then rotate the accumulator right. Carry and overflow
// come from bits 6 and 5 of the result rather than from the rotation.
func (c *CPU) arr(inst *Instruction, op operand) {
	t := c.Reg.A & c.load(op)
	carryIn := boolToByte(c.Reg.Carry) << 7
	v := t>>1 | carryIn

	if !c.Reg.Decimal || c.opts.Decimal != DecimalNMOS {
		c.Reg.A = v
		c.updateNZ(v)
		c.Reg.Carry = v&0x40 != 0
		c.Reg.Overflow = (v>>6^v>>5)&1 != 0
		return
	}

	// Decimal mode applies a BCD fix-up to each digit of the rotated
	// value. N, Z and V are taken before the fix-up.
	c.Reg.Negative = carryIn != 0
	c.Reg.Zero = v == 0
	c.Reg.Overflow = (t^v)&0x40 != 0

	lo, hi := t&0x0f, t>>4
	if lo+lo&1 > 5 {
		v = v&0xf0 | (v+6)&0x0f
	}
	c.Reg.Carry = hi+hi&1 > 5
	if c.Reg.Carry {
		v += 0x60
	}
	c.Reg.A = v
}

// OR accumulator with a magic constant, AND with X and immediate
func (c *CPU) ane(inst *Instruction, op operand) {
	c.Reg.A = (c.Reg.A | magicConst) & c.Reg.X & c.load(op)
	c.updateNZ(c.Reg.A)
}

// OR accumulator with a magic constant, AND immediate into A and X
func (c *CPU) lxa(inst *Instruction, op operand) {
	c.Reg.A = (c.Reg.A | magicConst) & c.load(op)
	c.Reg.X = c.Reg.A
	c.updateNZ(c.Reg.A)
}

// Decrement memory, then compare with the accumulator
func (c *CPU) dcp(inst *Instruction, op operand) {
	v := c.load(op) - 1
	c.store(op, v)
	c.compare(c.Reg.A, v)
}

// Increment memory, then subtract it from the accumulator
func (c *CPU) isc(inst *Instruction, op operand) {
	v := c.load(op) + 1
	c.store(op, v)
	c.subtractWithBorrow(v)
}

// AND memory with the stack pointer into A, X and SP
func (c *CPU) las(inst *Instruction, op operand) {
	v := c.load(op) & c.Reg.SP
	c.Reg.A, c.Reg.X, c.Reg.SP = v, v, v
	c.updateNZ(v)
}

// Load A and X
func (c *CPU) lax(inst *Instruction, op operand) {
	c.Reg.A = c.load(op)
	c.Reg.X = c.Reg.A
	c.updateNZ(c.Reg.A)
}

// Rotate memory left, then AND it into the accumulator
func (c *CPU) rla(inst *Instruction, op operand) {
	v := c.shiftLeft(c.load(op), boolToByte(c.Reg.Carry))
	c.store(op, v)
	c.Reg.A &= v
	c.updateNZ(c.Reg.A)
}

// Rotate memory right, then add it to the accumulator
func (c *CPU) rra(inst *Instruction, op operand) {
	v := c.shiftRight(c.load(op), boolToByte(c.Reg.Carry)<<7)
	c.store(op, v)
	c.addWithCarry(v)
}

// Store A AND X
func (c *CPU) sax(inst *Instruction, op operand) {
	c.store(op, c.Reg.A&c.Reg.X)
}

// Subtract immediate from A AND X into X, without borrow
func (c *CPU) sbx(inst *Instruction, op operand) {
	ax := c.Reg.A & c.Reg.X
	v := c.load(op)
	c.Reg.Carry = ax >= v
	c.Reg.X = ax - v
	c.updateNZ(c.Reg.X)
}

// Shift memory left, then OR it into the accumulator
func (c *CPU) slo(inst *Instruction, op operand) {
	v := c.shiftLeft(c.load(op), 0)
	c.store(op, v)
	c.Reg.A |= v
	c.updateNZ(c.Reg.A)
}

// Shift memory right, then EOR it into the accumulator
func (c *CPU) sre(inst *Instruction, op operand) {
	v := c.shiftRight(c.load(op), 0)
	c.store(op, v)
	c.Reg.A ^= v
	c.updateNZ(c.Reg.A)
}

// Store A AND X AND (high byte of base address + 1)
func (c *CPU) sha(inst *Instruction, op operand) {
	c.storeHigh(op, c.Reg.A&c.Reg.X)
}

// Store X AND (high byte of base address + 1)
func (c *CPU) shx(inst *Instruction, op operand) {
	c.storeHigh(op, c.Reg.X)
}

// Store Y AND (high byte of base address + 1)
func (c *CPU) shy(inst *Instruction, op operand) {
	c.storeHigh(op, c.Reg.Y)
}

// Transfer A AND X to SP, then store SP AND (high byte of base address + 1)
func (c *CPU) tas(inst *Instruction, op operand) {
	c.Reg.SP = c.Reg.A & c.Reg.X
	c.storeHigh(op, c.Reg.SP)
}

// Store v ANDed with the incremented high byte of the unindexed address.
// When indexing crosses a page the stored value also replaces the high
// byte of the target address.
func (c *CPU) storeHigh(op operand, v byte) {
	v &= byte(op.base>>8) + 1
	addr := op.addr
	if op.pageCrossed {
		addr = uint16(v)<<8 | addr&0xff
	}
	c.storeByte(addr, v)
}
