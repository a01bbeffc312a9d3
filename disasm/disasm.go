// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a 6510 instruction set
// disassembler.
package disasm

import (
	"fmt"
	"strings"

	"github.com/beevik/go6510/cpu"
)

// Disassembler formatting for addressing modes
var modeFormat = []string{
	"#$%s",    // IMM
	"%s",      // IMP
	"$%s",     // REL
	"$%s",     // ZPG
	"$%s,X",   // ZPX
	"$%s,Y",   // ZPY
	"$%s",     // ABS
	"$%s,X",   // ABX
	"$%s,Y",   // ABY
	"($%s)",   // IND
	"($%s,X)", // IDX
	"($%s),Y", // IDY
	"%s",      // ACC
}

// A Reader supplies the bytes to disassemble. Callers disassembling live
// memory should pass a reader without read side effects.
type Reader interface {
	Peek(addr uint16) byte
}

var hex = "0123456789ABCDEF"

// Return a hexadecimal string representation of the byte slice, most
// significant byte first.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// Format returns the assembly text of an instruction at addr with the
// given operand bytes. Branch targets are shown as absolute addresses.
func Format(inst *cpu.Instruction, addr uint16, operand []byte) string {
	if inst.Mode == cpu.REL && len(operand) == 1 {
		target := addr + uint16(inst.Length) + uint16(int8(operand[0]))
		operand = []byte{byte(target), byte(target >> 8)}
	}
	var arg string
	switch inst.Mode {
	case cpu.IMP:
		return inst.Name
	case cpu.ACC:
		arg = "A"
	default:
		arg = fmt.Sprintf(modeFormat[inst.Mode], hexString(operand))
	}
	return inst.Name + " " + arg
}

// Disassemble the machine code in memory 'm' at address 'addr'. Return a
// 'line' string representing the disassembled instruction and a 'next'
// address that starts the following line of machine code.
func Disassemble(m Reader, addr uint16) (line string, next uint16) {
	inst := cpu.GetInstructionSet().Lookup(m.Peek(addr))
	var buf [2]byte
	operand := buf[:inst.Length-1]
	for i := range operand {
		operand[i] = m.Peek(addr + 1 + uint16(i))
	}
	return Format(inst, addr, operand), addr + uint16(inst.Length)
}

// Bytes formats the raw bytes of an instruction as they appear in memory,
// padded to the width of the longest instruction.
func Bytes(opcode byte, operand []byte) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%02X", opcode)
	for _, b := range operand {
		fmt.Fprintf(&sb, " %02X", b)
	}
	for sb.Len() < 8 {
		sb.WriteByte(' ')
	}
	return sb.String()
}
