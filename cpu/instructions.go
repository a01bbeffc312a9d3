// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"
	"strings"
)

// An opsym is an internal symbol used to associate an opcode's data
// with its instructions.
type opsym byte

const (
	symADC opsym = iota
	symAND
	symASL
	symBCC
	symBCS
	symBEQ
	symBIT
	symBMI
	symBNE
	symBPL
	symBRK
	symBVC
	symBVS
	symCLC
	symCLD
	symCLI
	symCLV
	symCMP
	symCPX
	symCPY
	symDEC
	symDEX
	symDEY
	symEOR
	symINC
	symINX
	symINY
	symJMP
	symJSR
	symLDA
	symLDX
	symLDY
	symLSR
	symNOP
	symORA
	symPHA
	symPHP
	symPLA
	symPLP
	symROL
	symROR
	symRTI
	symRTS
	symSBC
	symSEC
	symSED
	symSEI
	symSTA
	symSTX
	symSTY
	symTAX
	symTAY
	symTSX
	symTXA
	symTXS
	symTYA

	// unofficial
	symALR
	symANC
	symANE
	symARR
	symDCP
	symISC
	symJAM
	symLAS
	symLAX
	symLXA
	symRLA
	symRRA
	symSAX
	symSBX
	symSHA
	symSHX
	symSHY
	symSLO
	symSRE
	symTAS
	symUSBC
)

type instfunc func(c *CPU, inst *Instruction, op operand)

// Emulator implementation for each opcode
type opcodeImpl struct {
	sym  opsym
	name string
	fn   instfunc
}

var impl = []opcodeImpl{
	{symADC, "ADC", (*CPU).adc},
	{symAND, "AND", (*CPU).and},
	{symASL, "ASL", (*CPU).asl},
	{symBCC, "BCC", (*CPU).bcc},
	{symBCS, "BCS", (*CPU).bcs},
	{symBEQ, "BEQ", (*CPU).beq},
	{symBIT, "BIT", (*CPU).bit},
	{symBMI, "BMI", (*CPU).bmi},
	{symBNE, "BNE", (*CPU).bne},
	{symBPL, "BPL", (*CPU).bpl},
	{symBRK, "BRK", (*CPU).brk},
	{symBVC, "BVC", (*CPU).bvc},
	{symBVS, "BVS", (*CPU).bvs},
	{symCLC, "CLC", (*CPU).clc},
	{symCLD, "CLD", (*CPU).cld},
	{symCLI, "CLI", (*CPU).cli},
	{symCLV, "CLV", (*CPU).clv},
	{symCMP, "CMP", (*CPU).cmp},
	{symCPX, "CPX", (*CPU).cpx},
	{symCPY, "CPY", (*CPU).cpy},
	{symDEC, "DEC", (*CPU).dec},
	{symDEX, "DEX", (*CPU).dex},
	{symDEY, "DEY", (*CPU).dey},
	{symEOR, "EOR", (*CPU).eor},
	{symINC, "INC", (*CPU).inc},
	{symINX, "INX", (*CPU).inx},
	{symINY, "INY", (*CPU).iny},
	{symJMP, "JMP", (*CPU).jmp},
	{symJSR, "JSR", (*CPU).jsr},
	{symLDA, "LDA", (*CPU).lda},
	{symLDX, "LDX", (*CPU).ldx},
	{symLDY, "LDY", (*CPU).ldy},
	{symLSR, "LSR", (*CPU).lsr},
	{symNOP, "NOP", (*CPU).nop},
	{symORA, "ORA", (*CPU).ora},
	{symPHA, "PHA", (*CPU).pha},
	{symPHP, "PHP", (*CPU).php},
	{symPLA, "PLA", (*CPU).pla},
	{symPLP, "PLP", (*CPU).plp},
	{symROL, "ROL", (*CPU).rol},
	{symROR, "ROR", (*CPU).ror},
	{symRTI, "RTI", (*CPU).rti},
	{symRTS, "RTS", (*CPU).rts},
	{symSBC, "SBC", (*CPU).sbc},
	{symSEC, "SEC", (*CPU).sec},
	{symSED, "SED", (*CPU).sed},
	{symSEI, "SEI", (*CPU).sei},
	{symSTA, "STA", (*CPU).sta},
	{symSTX, "STX", (*CPU).stx},
	{symSTY, "STY", (*CPU).sty},
	{symTAX, "TAX", (*CPU).tax},
	{symTAY, "TAY", (*CPU).tay},
	{symTSX, "TSX", (*CPU).tsx},
	{symTXA, "TXA", (*CPU).txa},
	{symTXS, "TXS", (*CPU).txs},
	{symTYA, "TYA", (*CPU).tya},

	{symALR, "ALR", (*CPU).alr},
	{symANC, "ANC", (*CPU).anc},
	{symANE, "ANE", (*CPU).ane},
	{symARR, "ARR", (*CPU).arr},
	{symDCP, "DCP", (*CPU).dcp},
	{symISC, "ISC", (*CPU).isc},
	{symJAM, "JAM", nil},
	{symLAS, "LAS", (*CPU).las},
	{symLAX, "LAX", (*CPU).lax},
	{symLXA, "LXA", (*CPU).lxa},
	{symRLA, "RLA", (*CPU).rla},
	{symRRA, "RRA", (*CPU).rra},
	{symSAX, "SAX", (*CPU).sax},
	{symSBX, "SBX", (*CPU).sbx},
	{symSHA, "SHA", (*CPU).sha},
	{symSHX, "SHX", (*CPU).shx},
	{symSHY, "SHY", (*CPU).shy},
	{symSLO, "SLO", (*CPU).slo},
	{symSRE, "SRE", (*CPU).sre},
	{symTAS, "TAS", (*CPU).tas},
	{symUSBC, "USBC", (*CPU).sbc},
}

// Mode describes a memory addressing mode.
type Mode byte

// All possible memory addressing modes
const (
	IMM Mode = iota // Immediate
	IMP             // Implied (no operand)
	REL             // Relative
	ZPG             // Zero Page
	ZPX             // Zero Page,X
	ZPY             // Zero Page,Y
	ABS             // Absolute
	ABX             // Absolute,X
	ABY             // Absolute,Y
	IND             // (Indirect)
	IDX             // (Indirect,X)
	IDY             // (Indirect),Y
	ACC             // Accumulator (no operand)
)

var modeNames = [...]string{
	"IMM", "IMP", "REL", "ZPG", "ZPX", "ZPY", "ABS",
	"ABX", "ABY", "IND", "IDX", "IDY", "ACC",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// operandLength returns the number of operand bytes that follow an opcode
// using the addressing mode.
func (m Mode) operandLength() byte {
	switch m {
	case IMP, ACC:
		return 0
	case ABS, ABX, ABY, IND:
		return 2
	default:
		return 1
	}
}

// Access describes what an instruction does with its memory operand.
type Access byte

// Memory access kinds. Only read instructions pay the page-crossing
// penalty; write and read-modify-write instructions always spend the
// fix-up cycle, so it is part of their base cost.
const (
	AccessNone Access = iota
	AccessRead
	AccessWrite
	AccessRMW
)

const (
	none  = AccessNone
	read  = AccessRead
	write = AccessWrite
	rmw   = AccessRMW
)

// Opcode data for an (opcode, mode) pair
type opcodeData struct {
	sym    opsym  // internal opcode symbol
	mode   Mode   // addressing mode
	opcode byte   // opcode hex value
	cycles byte   // number of CPU cycles to execute the instruction
	access Access // memory access kind
}

// All documented (opcode, mode) pairs
var data = []opcodeData{
	{symLDA, IMM, 0xa9, 2, read},
	{symLDA, ZPG, 0xa5, 3, read},
	{symLDA, ZPX, 0xb5, 4, read},
	{symLDA, ABS, 0xad, 4, read},
	{symLDA, ABX, 0xbd, 4, read},
	{symLDA, ABY, 0xb9, 4, read},
	{symLDA, IDX, 0xa1, 6, read},
	{symLDA, IDY, 0xb1, 5, read},

	{symLDX, IMM, 0xa2, 2, read},
	{symLDX, ZPG, 0xa6, 3, read},
	{symLDX, ZPY, 0xb6, 4, read},
	{symLDX, ABS, 0xae, 4, read},
	{symLDX, ABY, 0xbe, 4, read},

	{symLDY, IMM, 0xa0, 2, read},
	{symLDY, ZPG, 0xa4, 3, read},
	{symLDY, ZPX, 0xb4, 4, read},
	{symLDY, ABS, 0xac, 4, read},
	{symLDY, ABX, 0xbc, 4, read},

	{symSTA, ZPG, 0x85, 3, write},
	{symSTA, ZPX, 0x95, 4, write},
	{symSTA, ABS, 0x8d, 4, write},
	{symSTA, ABX, 0x9d, 5, write},
	{symSTA, ABY, 0x99, 5, write},
	{symSTA, IDX, 0x81, 6, write},
	{symSTA, IDY, 0x91, 6, write},

	{symSTX, ZPG, 0x86, 3, write},
	{symSTX, ZPY, 0x96, 4, write},
	{symSTX, ABS, 0x8e, 4, write},

	{symSTY, ZPG, 0x84, 3, write},
	{symSTY, ZPX, 0x94, 4, write},
	{symSTY, ABS, 0x8c, 4, write},

	{symADC, IMM, 0x69, 2, read},
	{symADC, ZPG, 0x65, 3, read},
	{symADC, ZPX, 0x75, 4, read},
	{symADC, ABS, 0x6d, 4, read},
	{symADC, ABX, 0x7d, 4, read},
	{symADC, ABY, 0x79, 4, read},
	{symADC, IDX, 0x61, 6, read},
	{symADC, IDY, 0x71, 5, read},

	{symSBC, IMM, 0xe9, 2, read},
	{symSBC, ZPG, 0xe5, 3, read},
	{symSBC, ZPX, 0xf5, 4, read},
	{symSBC, ABS, 0xed, 4, read},
	{symSBC, ABX, 0xfd, 4, read},
	{symSBC, ABY, 0xf9, 4, read},
	{symSBC, IDX, 0xe1, 6, read},
	{symSBC, IDY, 0xf1, 5, read},

	{symCMP, IMM, 0xc9, 2, read},
	{symCMP, ZPG, 0xc5, 3, read},
	{symCMP, ZPX, 0xd5, 4, read},
	{symCMP, ABS, 0xcd, 4, read},
	{symCMP, ABX, 0xdd, 4, read},
	{symCMP, ABY, 0xd9, 4, read},
	{symCMP, IDX, 0xc1, 6, read},
	{symCMP, IDY, 0xd1, 5, read},

	{symCPX, IMM, 0xe0, 2, read},
	{symCPX, ZPG, 0xe4, 3, read},
	{symCPX, ABS, 0xec, 4, read},

	{symCPY, IMM, 0xc0, 2, read},
	{symCPY, ZPG, 0xc4, 3, read},
	{symCPY, ABS, 0xcc, 4, read},

	{symBIT, ZPG, 0x24, 3, read},
	{symBIT, ABS, 0x2c, 4, read},

	{symCLC, IMP, 0x18, 2, none},
	{symSEC, IMP, 0x38, 2, none},
	{symCLI, IMP, 0x58, 2, none},
	{symSEI, IMP, 0x78, 2, none},
	{symCLD, IMP, 0xd8, 2, none},
	{symSED, IMP, 0xf8, 2, none},
	{symCLV, IMP, 0xb8, 2, none},

	{symBCC, REL, 0x90, 2, none},
	{symBCS, REL, 0xb0, 2, none},
	{symBEQ, REL, 0xf0, 2, none},
	{symBNE, REL, 0xd0, 2, none},
	{symBMI, REL, 0x30, 2, none},
	{symBPL, REL, 0x10, 2, none},
	{symBVC, REL, 0x50, 2, none},
	{symBVS, REL, 0x70, 2, none},

	{symBRK, IMP, 0x00, 7, none},

	{symAND, IMM, 0x29, 2, read},
	{symAND, ZPG, 0x25, 3, read},
	{symAND, ZPX, 0x35, 4, read},
	{symAND, ABS, 0x2d, 4, read},
	{symAND, ABX, 0x3d, 4, read},
	{symAND, ABY, 0x39, 4, read},
	{symAND, IDX, 0x21, 6, read},
	{symAND, IDY, 0x31, 5, read},

	{symORA, IMM, 0x09, 2, read},
	{symORA, ZPG, 0x05, 3, read},
	{symORA, ZPX, 0x15, 4, read},
	{symORA, ABS, 0x0d, 4, read},
	{symORA, ABX, 0x1d, 4, read},
	{symORA, ABY, 0x19, 4, read},
	{symORA, IDX, 0x01, 6, read},
	{symORA, IDY, 0x11, 5, read},

	{symEOR, IMM, 0x49, 2, read},
	{symEOR, ZPG, 0x45, 3, read},
	{symEOR, ZPX, 0x55, 4, read},
	{symEOR, ABS, 0x4d, 4, read},
	{symEOR, ABX, 0x5d, 4, read},
	{symEOR, ABY, 0x59, 4, read},
	{symEOR, IDX, 0x41, 6, read},
	{symEOR, IDY, 0x51, 5, read},

	{symINC, ZPG, 0xe6, 5, rmw},
	{symINC, ZPX, 0xf6, 6, rmw},
	{symINC, ABS, 0xee, 6, rmw},
	{symINC, ABX, 0xfe, 7, rmw},

	{symDEC, ZPG, 0xc6, 5, rmw},
	{symDEC, ZPX, 0xd6, 6, rmw},
	{symDEC, ABS, 0xce, 6, rmw},
	{symDEC, ABX, 0xde, 7, rmw},

	{symINX, IMP, 0xe8, 2, none},
	{symINY, IMP, 0xc8, 2, none},

	{symDEX, IMP, 0xca, 2, none},
	{symDEY, IMP, 0x88, 2, none},

	{symJMP, ABS, 0x4c, 3, none},
	{symJMP, IND, 0x6c, 5, none},

	{symJSR, ABS, 0x20, 6, none},
	{symRTS, IMP, 0x60, 6, none},

	{symRTI, IMP, 0x40, 6, none},

	{symNOP, IMP, 0xea, 2, none},

	{symTAX, IMP, 0xaa, 2, none},
	{symTXA, IMP, 0x8a, 2, none},
	{symTAY, IMP, 0xa8, 2, none},
	{symTYA, IMP, 0x98, 2, none},
	{symTXS, IMP, 0x9a, 2, none},
	{symTSX, IMP, 0xba, 2, none},

	{symPHA, IMP, 0x48, 3, none},
	{symPLA, IMP, 0x68, 4, none},
	{symPHP, IMP, 0x08, 3, none},
	{symPLP, IMP, 0x28, 4, none},

	{symASL, ACC, 0x0a, 2, none},
	{symASL, ZPG, 0x06, 5, rmw},
	{symASL, ZPX, 0x16, 6, rmw},
	{symASL, ABS, 0x0e, 6, rmw},
	{symASL, ABX, 0x1e, 7, rmw},

	{symLSR, ACC, 0x4a, 2, none},
	{symLSR, ZPG, 0x46, 5, rmw},
	{symLSR, ZPX, 0x56, 6, rmw},
	{symLSR, ABS, 0x4e, 6, rmw},
	{symLSR, ABX, 0x5e, 7, rmw},

	{symROL, ACC, 0x2a, 2, none},
	{symROL, ZPG, 0x26, 5, rmw},
	{symROL, ZPX, 0x36, 6, rmw},
	{symROL, ABS, 0x2e, 6, rmw},
	{symROL, ABX, 0x3e, 7, rmw},

	{symROR, ACC, 0x6a, 2, none},
	{symROR, ZPG, 0x66, 5, rmw},
	{symROR, ZPX, 0x76, 6, rmw},
	{symROR, ABS, 0x6e, 6, rmw},
	{symROR, ABX, 0x7e, 7, rmw},
}

// All undocumented (opcode, mode) pairs of the NMOS 6510. Together with the
// documented table they cover all 256 opcodes.
var unofficialData = []opcodeData{
	{symSLO, ZPG, 0x07, 5, rmw},
	{symSLO, ZPX, 0x17, 6, rmw},
	{symSLO, IDX, 0x03, 8, rmw},
	{symSLO, IDY, 0x13, 8, rmw},
	{symSLO, ABS, 0x0f, 6, rmw},
	{symSLO, ABX, 0x1f, 7, rmw},
	{symSLO, ABY, 0x1b, 7, rmw},

	{symRLA, ZPG, 0x27, 5, rmw},
	{symRLA, ZPX, 0x37, 6, rmw},
	{symRLA, IDX, 0x23, 8, rmw},
	{symRLA, IDY, 0x33, 8, rmw},
	{symRLA, ABS, 0x2f, 6, rmw},
	{symRLA, ABX, 0x3f, 7, rmw},
	{symRLA, ABY, 0x3b, 7, rmw},

	{symSRE, ZPG, 0x47, 5, rmw},
	{symSRE, ZPX, 0x57, 6, rmw},
	{symSRE, IDX, 0x43, 8, rmw},
	{symSRE, IDY, 0x53, 8, rmw},
	{symSRE, ABS, 0x4f, 6, rmw},
	{symSRE, ABX, 0x5f, 7, rmw},
	{symSRE, ABY, 0x5b, 7, rmw},

	{symRRA, ZPG, 0x67, 5, rmw},
	{symRRA, ZPX, 0x77, 6, rmw},
	{symRRA, IDX, 0x63, 8, rmw},
	{symRRA, IDY, 0x73, 8, rmw},
	{symRRA, ABS, 0x6f, 6, rmw},
	{symRRA, ABX, 0x7f, 7, rmw},
	{symRRA, ABY, 0x7b, 7, rmw},

	{symDCP, ZPG, 0xc7, 5, rmw},
	{symDCP, ZPX, 0xd7, 6, rmw},
	{symDCP, IDX, 0xc3, 8, rmw},
	{symDCP, IDY, 0xd3, 8, rmw},
	{symDCP, ABS, 0xcf, 6, rmw},
	{symDCP, ABX, 0xdf, 7, rmw},
	{symDCP, ABY, 0xdb, 7, rmw},

	{symISC, ZPG, 0xe7, 5, rmw},
	{symISC, ZPX, 0xf7, 6, rmw},
	{symISC, IDX, 0xe3, 8, rmw},
	{symISC, IDY, 0xf3, 8, rmw},
	{symISC, ABS, 0xef, 6, rmw},
	{symISC, ABX, 0xff, 7, rmw},
	{symISC, ABY, 0xfb, 7, rmw},

	{symSAX, ZPG, 0x87, 3, write},
	{symSAX, ZPY, 0x97, 4, write},
	{symSAX, IDX, 0x83, 6, write},
	{symSAX, ABS, 0x8f, 4, write},

	{symLAX, ZPG, 0xa7, 3, read},
	{symLAX, ZPY, 0xb7, 4, read},
	{symLAX, IDX, 0xa3, 6, read},
	{symLAX, IDY, 0xb3, 5, read},
	{symLAX, ABS, 0xaf, 4, read},
	{symLAX, ABY, 0xbf, 4, read},

	{symANC, IMM, 0x0b, 2, read},
	{symANC, IMM, 0x2b, 2, read},
	{symALR, IMM, 0x4b, 2, read},
	{symARR, IMM, 0x6b, 2, read},
	{symSBX, IMM, 0xcb, 2, read},
	{symUSBC, IMM, 0xeb, 2, read},
	{symANE, IMM, 0x8b, 2, read},
	{symLXA, IMM, 0xab, 2, read},

	{symNOP, IMP, 0x1a, 2, none},
	{symNOP, IMP, 0x3a, 2, none},
	{symNOP, IMP, 0x5a, 2, none},
	{symNOP, IMP, 0x7a, 2, none},
	{symNOP, IMP, 0xda, 2, none},
	{symNOP, IMP, 0xfa, 2, none},
	{symNOP, IMM, 0x80, 2, read},
	{symNOP, IMM, 0x82, 2, read},
	{symNOP, IMM, 0x89, 2, read},
	{symNOP, IMM, 0xc2, 2, read},
	{symNOP, IMM, 0xe2, 2, read},
	{symNOP, ZPG, 0x04, 3, read},
	{symNOP, ZPG, 0x44, 3, read},
	{symNOP, ZPG, 0x64, 3, read},
	{symNOP, ZPX, 0x14, 4, read},
	{symNOP, ZPX, 0x34, 4, read},
	{symNOP, ZPX, 0x54, 4, read},
	{symNOP, ZPX, 0x74, 4, read},
	{symNOP, ZPX, 0xd4, 4, read},
	{symNOP, ZPX, 0xf4, 4, read},
	{symNOP, ABS, 0x0c, 4, read},
	{symNOP, ABX, 0x1c, 4, read},
	{symNOP, ABX, 0x3c, 4, read},
	{symNOP, ABX, 0x5c, 4, read},
	{symNOP, ABX, 0x7c, 4, read},
	{symNOP, ABX, 0xdc, 4, read},
	{symNOP, ABX, 0xfc, 4, read},

	{symSHA, IDY, 0x93, 6, write},
	{symSHA, ABY, 0x9f, 5, write},
	{symSHY, ABX, 0x9c, 5, write},
	{symSHX, ABY, 0x9e, 5, write},
	{symTAS, ABY, 0x9b, 5, write},
	{symLAS, ABY, 0xbb, 4, read},

	{symJAM, IMP, 0x02, 0, none},
	{symJAM, IMP, 0x12, 0, none},
	{symJAM, IMP, 0x22, 0, none},
	{symJAM, IMP, 0x32, 0, none},
	{symJAM, IMP, 0x42, 0, none},
	{symJAM, IMP, 0x52, 0, none},
	{symJAM, IMP, 0x62, 0, none},
	{symJAM, IMP, 0x72, 0, none},
	{symJAM, IMP, 0x92, 0, none},
	{symJAM, IMP, 0xb2, 0, none},
	{symJAM, IMP, 0xd2, 0, none},
	{symJAM, IMP, 0xf2, 0, none},
}

// An Instruction describes a CPU instruction, including its name,
// its addressing mode, its opcode value, its operand size, and its CPU cycle
// cost.
type Instruction struct {
	Name       string   // all-caps name of the instruction
	Mode       Mode     // addressing mode
	Opcode     byte     // hexadecimal opcode value
	Length     byte     // combined size of opcode and operand, in bytes
	Cycles     byte     // number of CPU cycles to execute the instruction
	BPCycles   byte     // additional cycles required if boundary page crossed
	Access     Access   // what the instruction does with its memory operand
	Unofficial bool     // opcode is not part of the documented set
	Jam        bool     // opcode locks up the processor
	fn         instfunc // emulator implementation of the function
}

// An InstructionSet defines the set of all possible instructions that
// can run on the emulated CPU.
type InstructionSet struct {
	instructions [256]Instruction
	variants     map[string][]*Instruction // variants of each instruction
}

// Lookup retrieves a CPU instruction corresponding to the requested opcode.
func (s *InstructionSet) Lookup(opcode byte) *Instruction {
	return &s.instructions[opcode]
}

// GetInstructions returns all CPU instructions whose name matches the
// provided string.
func (s *InstructionSet) GetInstructions(name string) []*Instruction {
	return s.variants[strings.ToUpper(name)]
}

// Create an instruction set from the opcode tables. The tables are checked
// while building, so a bad row stops the program at initialization rather
// than producing wrong timing later.
func newInstructionSet() *InstructionSet {
	set := &InstructionSet{variants: make(map[string][]*Instruction)}

	symToImpl := make(map[opsym]*opcodeImpl, len(impl))
	for i := range impl {
		symToImpl[impl[i].sym] = &impl[i]
	}

	add := func(d opcodeData, unofficial bool) {
		impl := symToImpl[d.sym]
		inst := &set.instructions[d.opcode]
		if inst.Name != "" {
			panic(fmt.Sprintf("opcode $%02X defined twice", d.opcode))
		}

		inst.Name = impl.name
		inst.Mode = d.mode
		inst.Opcode = d.opcode
		inst.Length = 1 + d.mode.operandLength()
		inst.Cycles = d.cycles
		inst.Access = d.access
		inst.Unofficial = unofficial
		inst.Jam = d.sym == symJAM
		inst.fn = impl.fn

		if d.access == AccessRead {
			switch d.mode {
			case ABX, ABY, IDY:
				inst.BPCycles = 1
			}
		}
		if inst.fn == nil && !inst.Jam {
			panic(fmt.Sprintf("opcode $%02X has no implementation", d.opcode))
		}

		set.variants[inst.Name] = append(set.variants[inst.Name], inst)
	}

	for _, d := range data {
		add(d, false)
	}
	for _, d := range unofficialData {
		add(d, true)
	}

	for i := 0; i < 256; i++ {
		if set.instructions[i].Name == "" {
			panic(fmt.Sprintf("missing instruction $%02X", i))
		}
	}
	return set
}

var instructionSet = newInstructionSet()

// GetInstructionSet returns the 6510 instruction set. It is built once at
// package initialization and never modified, so it may be shared freely.
func GetInstructionSet() *InstructionSet {
	return instructionSet
}
