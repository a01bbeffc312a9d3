// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Boolean AND
func (c *CPU) and(inst *Instruction, op operand) {
	c.Reg.A &= c.load(op)
	c.updateNZ(c.Reg.A)
}

// Arithmetic Shift Left
func (c *CPU) asl(inst *Instruction, op operand) {
	c.store(op, c.shiftLeft(c.load(op), 0))
}

// Branch if Carry Clear
func (c *CPU) bcc(inst *Instruction, op operand) {
	if !c.Reg.Carry {
		c.branch(op)
	}
}

// Branch if Carry Set
func (c *CPU) bcs(inst *Instruction, op operand) {
	if c.Reg.Carry {
		c.branch(op)
	}
}

// Branch if EQual (to zero)
func (c *CPU) beq(inst *Instruction, op operand) {
	if c.Reg.Zero {
		c.branch(op)
	}
}

// Bit Test
func (c *CPU) bit(inst *Instruction, op operand) {
	v := c.load(op)
	c.Reg.Zero = v&c.Reg.A == 0
	c.Reg.Negative = v&0x80 != 0
	c.Reg.Overflow = v&0x40 != 0
}

// Branch if MInus (negative)
func (c *CPU) bmi(inst *Instruction, op operand) {
	if c.Reg.Negative {
		c.branch(op)
	}
}

// Branch if Not Equal (not zero)
func (c *CPU) bne(inst *Instruction, op operand) {
	if !c.Reg.Zero {
		c.branch(op)
	}
}

// Branch if PLus (positive)
func (c *CPU) bpl(inst *Instruction, op operand) {
	if !c.Reg.Negative {
		c.branch(op)
	}
}

// Break. The byte after the opcode is skipped, so the pushed return
// address is the BRK address plus two.
func (c *CPU) brk(inst *Instruction, op operand) {
	c.Reg.PC++
	c.handleInterrupt(true, vectorBRK)
}

// Branch if oVerflow Clear
func (c *CPU) bvc(inst *Instruction, op operand) {
	if !c.Reg.Overflow {
		c.branch(op)
	}
}

// Branch if oVerflow Set
func (c *CPU) bvs(inst *Instruction, op operand) {
	if c.Reg.Overflow {
		c.branch(op)
	}
}

// Clear Carry flag
func (c *CPU) clc(inst *Instruction, op operand) {
	c.Reg.Carry = false
}

// Clear Decimal flag
func (c *CPU) cld(inst *Instruction, op operand) {
	c.Reg.Decimal = false
}

// Clear InterruptDisable flag
func (c *CPU) cli(inst *Instruction, op operand) {
	c.Reg.InterruptDisable = false
}

// Clear oVerflow flag
func (c *CPU) clv(inst *Instruction, op operand) {
	c.Reg.Overflow = false
}

// Compare to accumulator
func (c *CPU) cmp(inst *Instruction, op operand) {
	c.compare(c.Reg.A, c.load(op))
}

// Compare to X register
func (c *CPU) cpx(inst *Instruction, op operand) {
	c.compare(c.Reg.X, c.load(op))
}

// Compare to Y register
func (c *CPU) cpy(inst *Instruction, op operand) {
	c.compare(c.Reg.Y, c.load(op))
}

func (c *CPU) compare(reg, v byte) {
	c.Reg.Carry = reg >= v
	c.updateNZ(reg - v)
}

// Decrement memory value
func (c *CPU) dec(inst *Instruction, op operand) {
	v := c.load(op) - 1
	c.updateNZ(v)
	c.store(op, v)
}

// Decrement X register
func (c *CPU) dex(inst *Instruction, op operand) {
	c.Reg.X--
	c.updateNZ(c.Reg.X)
}

// Decrement Y register
func (c *CPU) dey(inst *Instruction, op operand) {
	c.Reg.Y--
	c.updateNZ(c.Reg.Y)
}

// Boolean XOR
func (c *CPU) eor(inst *Instruction, op operand) {
	c.Reg.A ^= c.load(op)
	c.updateNZ(c.Reg.A)
}

// Increment memory value
func (c *CPU) inc(inst *Instruction, op operand) {
	v := c.load(op) + 1
	c.updateNZ(v)
	c.store(op, v)
}

// Increment X register
func (c *CPU) inx(inst *Instruction, op operand) {
	c.Reg.X++
	c.updateNZ(c.Reg.X)
}

// Increment Y register
func (c *CPU) iny(inst *Instruction, op operand) {
	c.Reg.Y++
	c.updateNZ(c.Reg.Y)
}

// Jump to memory address. For the indirect form the target was already
// read from the vector (with the page-wrap quirk) while resolving.
func (c *CPU) jmp(inst *Instruction, op operand) {
	c.Reg.PC = op.addr
}

// Jump to subroutine
func (c *CPU) jsr(inst *Instruction, op operand) {
	c.pushAddress(c.Reg.PC - 1)
	c.Reg.PC = op.addr
}

// load Accumulator
func (c *CPU) lda(inst *Instruction, op operand) {
	c.Reg.A = c.load(op)
	c.updateNZ(c.Reg.A)
}

// load the X register
func (c *CPU) ldx(inst *Instruction, op operand) {
	c.Reg.X = c.load(op)
	c.updateNZ(c.Reg.X)
}

// load the Y register
func (c *CPU) ldy(inst *Instruction, op operand) {
	c.Reg.Y = c.load(op)
	c.updateNZ(c.Reg.Y)
}

// Logical Shift Right
func (c *CPU) lsr(inst *Instruction, op operand) {
	c.store(op, c.shiftRight(c.load(op), 0))
}

// No-operation. Variants with a memory operand still perform the read.
func (c *CPU) nop(inst *Instruction, op operand) {
	if op.kind == operandMem {
		c.load(op)
	}
}

// Boolean OR
func (c *CPU) ora(inst *Instruction, op operand) {
	c.Reg.A |= c.load(op)
	c.updateNZ(c.Reg.A)
}

// Push Accumulator
func (c *CPU) pha(inst *Instruction, op operand) {
	c.push(c.Reg.A)
}

// Push Processor flags
func (c *CPU) php(inst *Instruction, op operand) {
	c.push(c.Reg.SavePS(true))
}

// Pull (pop) Accumulator
func (c *CPU) pla(inst *Instruction, op operand) {
	c.Reg.A = c.pop()
	c.updateNZ(c.Reg.A)
}

// Pull (pop) Processor flags
func (c *CPU) plp(inst *Instruction, op operand) {
	c.Reg.RestorePS(c.pop())
}

// Rotate Left
func (c *CPU) rol(inst *Instruction, op operand) {
	c.store(op, c.shiftLeft(c.load(op), boolToByte(c.Reg.Carry)))
}

// Rotate Right
func (c *CPU) ror(inst *Instruction, op operand) {
	c.store(op, c.shiftRight(c.load(op), boolToByte(c.Reg.Carry)<<7))
}

// Shift left filling bit 0 with 'in'. Bit 7 moves into the carry.
func (c *CPU) shiftLeft(v, in byte) byte {
	c.Reg.Carry = v&0x80 != 0
	v = v<<1 | in
	c.updateNZ(v)
	return v
}

// Shift right filling bit 7 with 'in'. Bit 0 moves into the carry.
func (c *CPU) shiftRight(v, in byte) byte {
	c.Reg.Carry = v&1 != 0
	v = v>>1 | in
	c.updateNZ(v)
	return v
}

// Return from Interrupt
func (c *CPU) rti(inst *Instruction, op operand) {
	c.Reg.RestorePS(c.pop())
	c.Reg.PC = c.popAddress()
}

// Return from Subroutine
func (c *CPU) rts(inst *Instruction, op operand) {
	c.Reg.PC = c.popAddress() + 1
}

// Set Carry flag
func (c *CPU) sec(inst *Instruction, op operand) {
	c.Reg.Carry = true
}

// Set Decimal flag
func (c *CPU) sed(inst *Instruction, op operand) {
	c.Reg.Decimal = true
}

// Set InterruptDisable flag
func (c *CPU) sei(inst *Instruction, op operand) {
	c.Reg.InterruptDisable = true
}

// Store Accumulator
func (c *CPU) sta(inst *Instruction, op operand) {
	c.store(op, c.Reg.A)
}

// Store X register
func (c *CPU) stx(inst *Instruction, op operand) {
	c.store(op, c.Reg.X)
}

// Store Y register
func (c *CPU) sty(inst *Instruction, op operand) {
	c.store(op, c.Reg.Y)
}

// Transfer Accumulator to X register
func (c *CPU) tax(inst *Instruction, op operand) {
	c.Reg.X = c.Reg.A
	c.updateNZ(c.Reg.X)
}

// Transfer Accumulator to Y register
func (c *CPU) tay(inst *Instruction, op operand) {
	c.Reg.Y = c.Reg.A
	c.updateNZ(c.Reg.Y)
}

// Transfer stack pointer to X register
func (c *CPU) tsx(inst *Instruction, op operand) {
	c.Reg.X = c.Reg.SP
	c.updateNZ(c.Reg.X)
}

// Transfer X register to Accumulator
func (c *CPU) txa(inst *Instruction, op operand) {
	c.Reg.A = c.Reg.X
	c.updateNZ(c.Reg.A)
}

// Transfer X register to the stack pointer
func (c *CPU) txs(inst *Instruction, op operand) {
	c.Reg.SP = c.Reg.X
}

// Transfer Y register to the Accumulator
func (c *CPU) tya(inst *Instruction, op operand) {
	c.Reg.A = c.Reg.Y
	c.updateNZ(c.Reg.A)
}
