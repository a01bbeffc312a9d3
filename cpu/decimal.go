// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"
	"strings"
)

// DecimalMode selects how ADC and SBC behave while the decimal flag is set.
type DecimalMode byte

const (
	// DecimalNMOS reproduces the NMOS 6510, including the results and
	// flags it produces for operands that are not valid BCD. N and V come
	// from the intermediate sum of the high digits and Z from the binary
	// sum; SBC sets all flags as in binary mode.
	DecimalNMOS DecimalMode = iota

	// DecimalBCD performs digit-wise BCD arithmetic with N and Z taken
	// from the decimal result. It matches the NMOS results for valid BCD
	// inputs but not its flags.
	DecimalBCD

	// DecimalOff ignores the decimal flag for arithmetic.
	DecimalOff
)

var decimalModeNames = [...]string{"nmos", "bcd", "off"}

func (m DecimalMode) String() string {
	if int(m) < len(decimalModeNames) {
		return decimalModeNames[m]
	}
	return fmt.Sprintf("DecimalMode(%d)", m)
}

// ParseDecimalMode converts a name such as "nmos" into a DecimalMode.
func ParseDecimalMode(s string) (DecimalMode, error) {
	for i, n := range decimalModeNames {
		if strings.EqualFold(s, n) {
			return DecimalMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown decimal mode %q", s)
}

// ParseIllegalPolicy converts "emulate" or "trap" into an IllegalPolicy.
func ParseIllegalPolicy(s string) (IllegalPolicy, error) {
	switch strings.ToLower(s) {
	case "emulate":
		return Emulate, nil
	case "trap":
		return Trap, nil
	}
	return 0, fmt.Errorf("unknown illegal opcode policy %q", s)
}

func (p IllegalPolicy) String() string {
	if p == Trap {
		return "trap"
	}
	return "emulate"
}

// Add with carry
func (c *CPU) adc(inst *Instruction, op operand) {
	c.addWithCarry(c.load(op))
}

// Subtract with carry
func (c *CPU) sbc(inst *Instruction, op operand) {
	c.subtractWithBorrow(c.load(op))
}

func (c *CPU) addWithCarry(v byte) {
	if !c.Reg.Decimal || c.opts.Decimal == DecimalOff {
		c.adcBinary(v)
		return
	}
	if c.opts.Decimal == DecimalBCD {
		c.adcBCD(v)
		return
	}
	c.adcNMOS(v)
}

func (c *CPU) subtractWithBorrow(v byte) {
	if !c.Reg.Decimal || c.opts.Decimal == DecimalOff {
		c.sbcBinary(v)
		return
	}
	if c.opts.Decimal == DecimalBCD {
		c.sbcBCD(v)
		return
	}
	c.sbcNMOS(v)
}

func (c *CPU) adcBinary(v byte) {
	acc := uint32(c.Reg.A)
	add := uint32(v)
	sum := acc + add + boolToUint32(c.Reg.Carry)
	c.Reg.Carry = sum >= 0x100
	c.Reg.Overflow = (acc^sum)&(add^sum)&0x80 != 0
	c.Reg.A = byte(sum)
	c.updateNZ(c.Reg.A)
}

func (c *CPU) sbcBinary(v byte) {
	c.adcBinary(^v)
}

func (c *CPU) adcNMOS(v byte) {
	acc := int(c.Reg.A)
	add := int(v)
	carry := int(boolToByte(c.Reg.Carry))

	lo := acc&0x0f + add&0x0f + carry
	if lo >= 0x0a {
		lo = (lo+0x06)&0x0f + 0x10
	}

	// N and V are computed from the high digits treated as signed values.
	signed := int(int8(acc&0xf0)) + int(int8(add&0xf0)) + lo
	c.Reg.Negative = signed&0x80 != 0
	c.Reg.Overflow = signed < -128 || signed > 127

	sum := acc&0xf0 + add&0xf0 + lo
	if sum >= 0xa0 {
		sum += 0x60
	}
	c.Reg.Carry = sum >= 0x100
	c.Reg.Zero = byte(acc+add+carry) == 0
	c.Reg.A = byte(sum)
}

func (c *CPU) sbcNMOS(v byte) {
	acc := int(c.Reg.A)
	sub := int(v)
	carry := int(boolToByte(c.Reg.Carry))

	lo := acc&0x0f - sub&0x0f + carry - 1
	if lo < 0 {
		lo = (lo-0x06)&0x0f - 0x10
	}
	diff := acc&0xf0 - sub&0xf0 + lo
	if diff < 0 {
		diff -= 0x60
	}

	// Flags are those of the binary subtraction.
	c.sbcBinary(v)
	c.Reg.A = byte(diff)
}

func (c *CPU) adcBCD(v byte) {
	acc := uint32(c.Reg.A)
	add := uint32(v)

	lo := acc&0x0f + add&0x0f + boolToUint32(c.Reg.Carry)
	var carrylo uint32
	if lo >= 0x0a {
		lo -= 0x0a
		carrylo = 0x10
	}
	hi := acc&0xf0 + add&0xf0 + carrylo
	if hi >= 0xa0 {
		c.Reg.Carry = true
		hi -= 0xa0
	} else {
		c.Reg.Carry = false
	}
	result := hi&0xf0 | lo&0x0f

	c.Reg.Overflow = (acc^result)&0x80 != 0 && (acc^add)&0x80 == 0
	c.Reg.A = byte(result)
	c.updateNZ(c.Reg.A)
}

func (c *CPU) sbcBCD(v byte) {
	acc := int(c.Reg.A)
	sub := int(v)

	lo := acc&0x0f - sub&0x0f - int(1-boolToByte(c.Reg.Carry))
	var borrow int
	if lo < 0 {
		lo += 0x0a
		borrow = 1
	}
	hi := acc>>4 - sub>>4 - borrow
	c.Reg.Carry = hi >= 0
	if hi < 0 {
		hi += 0x0a
	}
	result := hi<<4&0xf0 | lo&0x0f

	c.Reg.Overflow = (acc^result)&0x80 != 0 && (acc^sub)&0x80 != 0
	c.Reg.A = byte(result)
	c.updateNZ(c.Reg.A)
}
