// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/beevik/go6510/cpu"
)

const origin = 0x1000

func loadCPU(code ...byte) (*cpu.CPU, *cpu.FlatMemory) {
	return loadCPUWith(cpu.Options{}, code...)
}

func loadCPUWith(opts cpu.Options, code ...byte) (*cpu.CPU, *cpu.FlatMemory) {
	mem := cpu.NewFlatMemory()
	c := cpu.NewCPU(mem, opts)
	mem.StoreBytes(origin, code)
	c.SetPC(origin)
	return c, mem
}

func stepCPU(t *testing.T, c *cpu.CPU, steps int) {
	t.Helper()
	for i := 0; i < steps; i++ {
		if _, err := c.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func runCPU(t *testing.T, steps int, code ...byte) *cpu.CPU {
	t.Helper()
	c, _ := loadCPU(code...)
	stepCPU(t, c, steps)
	return c
}

func expectPC(t *testing.T, c *cpu.CPU, pc uint16) {
	t.Helper()
	if c.Reg.PC != pc {
		t.Errorf("PC incorrect. exp: $%04X, got: $%04X", pc, c.Reg.PC)
	}
}

func expectCycles(t *testing.T, c *cpu.CPU, cycles uint64) {
	t.Helper()
	if c.Cycles != cycles {
		t.Errorf("Cycles incorrect. exp: %d, got: %d", cycles, c.Cycles)
	}
}

func expectACC(t *testing.T, c *cpu.CPU, acc byte) {
	t.Helper()
	if c.Reg.A != acc {
		t.Errorf("Accumulator incorrect. exp: $%02X, got: $%02X", acc, c.Reg.A)
	}
}

func expectX(t *testing.T, c *cpu.CPU, x byte) {
	t.Helper()
	if c.Reg.X != x {
		t.Errorf("X register incorrect. exp: $%02X, got: $%02X", x, c.Reg.X)
	}
}

func expectSP(t *testing.T, c *cpu.CPU, sp byte) {
	t.Helper()
	if c.Reg.SP != sp {
		t.Errorf("stack pointer incorrect. exp: $%02X, got $%02X", sp, c.Reg.SP)
	}
}

func expectPS(t *testing.T, c *cpu.CPU, ps byte) {
	t.Helper()
	if got := c.Reg.SavePS(false); got != ps {
		t.Errorf("status incorrect. exp: %s, got: %s", cpu.FlagString(ps), cpu.FlagString(got))
	}
}

func expectMem(t *testing.T, c *cpu.CPU, addr uint16, v byte) {
	t.Helper()
	got := c.Mem.LoadByte(addr)
	if got != v {
		t.Errorf("Memory at $%04X incorrect. exp: $%02X, got: $%02X", addr, v, got)
	}
}

func TestAccumulator(t *testing.T) {
	c := runCPU(t, 3,
		0xa9, 0x5e, // LDA #$5E
		0x85, 0x15, // STA $15
		0x8d, 0x00, 0x15, // STA $1500
	)

	expectPC(t, c, 0x1007)
	expectCycles(t, c, 9)
	expectACC(t, c, 0x5e)
	expectMem(t, c, 0x15, 0x5e)
	expectMem(t, c, 0x1500, 0x5e)
}

func TestAddImmediate(t *testing.T) {
	c, _ := loadCPU(0x69, 0x10) // ADC #$10
	c.Reg.A = 0x05
	c.Reg.Carry = false
	c.Reg.InterruptDisable = false

	n, err := c.Step()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("step cycles incorrect. exp: 2, got: %d", n)
	}
	expectACC(t, c, 0x15)
	expectPS(t, c, cpu.ReservedBit)
	expectCycles(t, c, 2)
}

func TestStack(t *testing.T) {
	c := runCPU(t, 12,
		0xa9, 0x11, 0x48, // LDA #$11, PHA
		0xa9, 0x12, 0x48, // LDA #$12, PHA
		0xa9, 0x13, 0x48, // LDA #$13, PHA
		0x68, 0x8d, 0x00, 0x20, // PLA, STA $2000
		0x68, 0x8d, 0x01, 0x20, // PLA, STA $2001
		0x68, 0x8d, 0x02, 0x20, // PLA, STA $2002
	)

	expectMem(t, c, 0x2000, 0x13)
	expectMem(t, c, 0x2001, 0x12)
	expectMem(t, c, 0x2002, 0x11)
	expectSP(t, c, 0xfd)
	expectPC(t, c, 0x1015)
}

func TestStackWrap(t *testing.T) {
	code := make([]byte, 257)
	for i := range code {
		code[i] = 0x48 // PHA
	}
	c, _ := loadCPU(code...)
	c.Reg.A = 0x5a
	stepCPU(t, c, 257)

	expectSP(t, c, 0xfc)
	expectCycles(t, c, 257*3)
	expectMem(t, c, 0x0100, 0x5a)
	expectMem(t, c, 0x01ff, 0x5a)
	expectMem(t, c, 0x00ff, 0x00)
	expectMem(t, c, 0x0200, 0x00)
}

func TestPageCrossing(t *testing.T) {
	var tests = []struct {
		name   string
		code   []byte
		x, y   byte
		cycles int
	}{
		{"LDA abs,X same page", []byte{0xbd, 0x00, 0x20}, 0x20, 0, 4},
		{"LDA abs,X crossed", []byte{0xbd, 0xf0, 0x20}, 0x20, 0, 5},
		{"LDA abs,Y crossed", []byte{0xb9, 0xff, 0x20}, 0, 0x01, 5},
		{"STA abs,X same page", []byte{0x9d, 0x00, 0x20}, 0x20, 0, 5},
		{"STA abs,X crossed", []byte{0x9d, 0xf0, 0x20}, 0x20, 0, 5},
		{"INC abs,X crossed", []byte{0xfe, 0xf0, 0x20}, 0x20, 0, 7},
		{"LDA (zp),Y same page", []byte{0xb1, 0x40}, 0, 0x01, 5},
		{"LDA (zp),Y crossed", []byte{0xb1, 0x42}, 0, 0x01, 6},
		{"STA (zp),Y crossed", []byte{0x91, 0x42}, 0, 0x01, 6},
		{"LAX abs,Y crossed", []byte{0xbf, 0xff, 0x20}, 0, 0x01, 5},
		{"NOP abs,X crossed", []byte{0x1c, 0xff, 0x20}, 0x01, 0, 5},
		{"SLO abs,Y crossed", []byte{0x1b, 0xff, 0x20}, 0, 0x01, 7},
	}

	for _, test := range tests {
		c, mem := loadCPU(test.code...)
		mem.StoreAddress(0x40, 0x2000)
		mem.StoreAddress(0x42, 0x20ff)
		c.Reg.X, c.Reg.Y = test.x, test.y

		n, err := c.Step()
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}
		if n != test.cycles {
			t.Errorf("%s: cycles incorrect. exp: %d, got: %d", test.name, test.cycles, n)
		}
	}
}

func TestBranchCycles(t *testing.T) {
	var tests = []struct {
		name   string
		at     uint16
		code   []byte
		pc     uint16
		cycles uint64
	}{
		{"not taken", 0x1000, []byte{0xa9, 0x01, 0xf0, 0x10}, 0x1004, 4},
		{"taken", 0x1000, []byte{0xa9, 0x00, 0xf0, 0x02}, 0x1006, 5},
		{"taken backward", 0x1000, []byte{0xa9, 0x00, 0xf0, 0xfc}, 0x1000, 5},
		{"taken across page", 0x10fb, []byte{0xa9, 0x00, 0xf0, 0x10}, 0x110f, 6},
	}

	for _, test := range tests {
		mem := cpu.NewFlatMemory()
		c := cpu.NewCPU(mem, cpu.Options{})
		mem.StoreBytes(test.at, test.code)
		c.SetPC(test.at)
		stepCPU(t, c, 2)

		if c.Reg.PC != test.pc {
			t.Errorf("%s: PC incorrect. exp: $%04X, got: $%04X", test.name, test.pc, c.Reg.PC)
		}
		if c.Cycles != test.cycles {
			t.Errorf("%s: cycles incorrect. exp: %d, got: %d", test.name, test.cycles, c.Cycles)
		}
	}
}

func TestIndirectJumpPageWrap(t *testing.T) {
	c, mem := loadCPU(0x6c, 0xff, 0x30) // JMP ($30FF)
	mem.StoreByte(0x30ff, 0x34)
	mem.StoreByte(0x3000, 0x12)
	mem.StoreByte(0x3100, 0x56)
	stepCPU(t, c, 1)

	expectPC(t, c, 0x1234)
	expectCycles(t, c, 5)
}

func TestZeroPageWrap(t *testing.T) {
	c, mem := loadCPU(
		0xb5, 0x80, // LDA $80,X
		0xa1, 0x7f, // LDA ($7F,X)
	)
	c.Reg.X = 0x80
	mem.StoreByte(0x0000, 0x42)
	mem.StoreByte(0x0100, 0x99)
	mem.StoreByte(0x00ff, 0x00)
	mem.StoreByte(0x0000, 0x42)
	mem.StoreByte(0x4200, 0x77)

	stepCPU(t, c, 1)
	expectACC(t, c, 0x42)

	stepCPU(t, c, 1)
	expectACC(t, c, 0x77)
}

func TestSubroutine(t *testing.T) {
	c, mem := loadCPU(
		0x20, 0x00, 0x20, // JSR $2000
		0xa9, 0x01, // LDA #$01
	)
	mem.StoreBytes(0x2000, []byte{0xa2, 0x07, 0x60}) // LDX #$07, RTS
	stepCPU(t, c, 4)

	expectX(t, c, 0x07)
	expectACC(t, c, 0x01)
	expectSP(t, c, 0xfd)
	expectPC(t, c, 0x1005)
	expectCycles(t, c, 6+2+6+2)
}

func TestBreak(t *testing.T) {
	c, mem := loadCPU(0x00, 0xea) // BRK
	mem.StoreAddress(0xfffe, 0x3000)
	mem.StoreByte(0x3000, 0x40) // RTI
	c.Reg.InterruptDisable = false
	c.Reg.Carry = true

	stepCPU(t, c, 1)
	expectPC(t, c, 0x3000)
	expectSP(t, c, 0xfa)
	expectMem(t, c, 0x01fd, 0x10)
	expectMem(t, c, 0x01fc, 0x02)
	expectMem(t, c, 0x01fb, cpu.ReservedBit|cpu.BreakBit|cpu.CarryBit)
	if !c.Reg.InterruptDisable {
		t.Error("BRK did not set the interrupt disable flag")
	}

	stepCPU(t, c, 1)
	expectPC(t, c, 0x1002)
	expectPS(t, c, cpu.ReservedBit|cpu.CarryBit)
	expectCycles(t, c, 13)
}

func TestNMIWithInterruptsDisabled(t *testing.T) {
	c, mem := loadCPU(
		0x78, // SEI
		0xea, // NOP
	)
	mem.StoreAddress(0xfffa, 0x2000)
	stepCPU(t, c, 1)

	c.NMI()
	n, err := c.Step()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2+7 {
		t.Errorf("step cycles incorrect. exp: 9, got: %d", n)
	}
	expectPC(t, c, 0x2000)
	expectSP(t, c, 0xfa)
	expectMem(t, c, 0x01fd, 0x10)
	expectMem(t, c, 0x01fc, 0x02)
	expectMem(t, c, 0x01fb, cpu.ReservedBit|cpu.InterruptDisableBit)

	// The latch was cleared by servicing it.
	mem.StoreByte(0x2000, 0xea)
	stepCPU(t, c, 1)
	expectPC(t, c, 0x2001)
}

func TestIRQDeferredUntilCLI(t *testing.T) {
	c, mem := loadCPU(
		0x78, // SEI
		0xea, // NOP
		0x58, // CLI
		0xea, // NOP
	)
	mem.StoreAddress(0xfffe, 0x3000)

	stepCPU(t, c, 1)
	c.IRQ()
	stepCPU(t, c, 1)
	expectPC(t, c, 0x1002)

	n, err := c.Step()
	if err != nil {
		t.Fatal(err)
	}
	if n != 9 {
		t.Errorf("step cycles incorrect. exp: 9, got: %d", n)
	}
	expectPC(t, c, 0x3000)
	expectMem(t, c, 0x01fb, cpu.ReservedBit)
	if !c.Reg.InterruptDisable {
		t.Error("IRQ entry did not set the interrupt disable flag")
	}
}

func TestClearIRQ(t *testing.T) {
	c, mem := loadCPU(0xea, 0xea)
	mem.StoreAddress(0xfffe, 0x3000)
	c.Reg.InterruptDisable = false

	c.IRQ()
	c.ClearIRQ()
	stepCPU(t, c, 1)
	expectPC(t, c, 0x1001)
}

func TestReset(t *testing.T) {
	c, mem := loadCPU(0xea)
	mem.StoreAddress(0xfffc, 0xe000)
	stepCPU(t, c, 1)
	c.Reg.SP = 0x10
	c.Reg.InterruptDisable = false

	c.Reset()
	expectPC(t, c, 0xe000)
	expectSP(t, c, 0xfd)
	expectCycles(t, c, 0)
	if !c.Reg.InterruptDisable {
		t.Error("reset did not set the interrupt disable flag")
	}
}

func TestJam(t *testing.T) {
	c, _ := loadCPU(0x02)

	_, err := c.Step()
	var fault *cpu.Fault
	if !errors.As(err, &fault) {
		t.Fatalf("expected a fault, got %v", err)
	}
	if !errors.Is(err, cpu.ErrJam) {
		t.Errorf("fault does not match ErrJam: %v", err)
	}
	if fault.Addr != 0x1000 || fault.Opcode != 0x02 {
		t.Errorf("fault location incorrect. exp: $02 at $1000, got: $%02X at $%04X", fault.Opcode, fault.Addr)
	}
	expectPC(t, c, 0x1000)
	expectCycles(t, c, 0)

	if _, again := c.Step(); again != err {
		t.Errorf("halted CPU did not repeat its fault: %v", again)
	}

	c.Reset()
	if c.Halted() != nil {
		t.Error("reset did not clear the halt")
	}
}

func TestIllegalPolicy(t *testing.T) {
	code := []byte{0xa7, 0x10} // LAX $10

	c, mem := loadCPUWith(cpu.Options{Illegal: cpu.Trap}, code...)
	mem.StoreByte(0x10, 0x42)
	_, err := c.Step()
	if !errors.Is(err, cpu.ErrIllegalOpcode) {
		t.Fatalf("expected illegal opcode fault, got %v", err)
	}
	expectPC(t, c, 0x1000)
	expectACC(t, c, 0x00)

	c, mem = loadCPUWith(cpu.Options{Illegal: cpu.Emulate}, code...)
	mem.StoreByte(0x10, 0x42)
	stepCPU(t, c, 1)
	expectACC(t, c, 0x42)
	expectX(t, c, 0x42)
	expectCycles(t, c, 3)
}

type guardedMemory struct {
	cpu.FlatMemory
	guard uint16
}

var errGuard = errors.New("guarded address")

func (m *guardedMemory) ValidateStore(addr uint16, v byte) error {
	if addr == m.guard {
		return errGuard
	}
	return nil
}

func TestRejectedStoreRollsBack(t *testing.T) {
	mem := &guardedMemory{guard: 0x0001}
	c := cpu.NewCPU(mem, cpu.Options{})
	mem.StoreBytes(origin, []byte{
		0xa9, 0x00, // LDA #$00
		0xe6, 0x01, // INC $01
	})
	mem.StoreByte(0x0001, 0x7f)
	c.SetPC(origin)
	stepCPU(t, c, 1)

	_, err := c.Step()
	if !errors.Is(err, cpu.ErrBusFault) || !errors.Is(err, errGuard) {
		t.Fatalf("expected bus fault wrapping the guard error, got %v", err)
	}
	expectPC(t, c, 0x1002)
	expectMem(t, c, 0x0001, 0x7f)
	expectCycles(t, c, 2)
	if !c.Reg.Zero || c.Reg.Negative {
		t.Error("flags were not rolled back")
	}
}

func TestDecimal(t *testing.T) {
	var tests = []struct {
		name  string
		mode  cpu.DecimalMode
		op    byte // ADC or SBC immediate
		a, v  byte
		carry bool
		exp   byte
		ps    byte
	}{
		{"nmos adc", cpu.DecimalNMOS, 0x69, 0x15, 0x27, false, 0x42, 0},
		{"nmos adc carry out", cpu.DecimalNMOS, 0x69, 0x99, 0x01, false, 0x00, cpu.CarryBit | cpu.NegativeBit},
		{"nmos adc invalid digits", cpu.DecimalNMOS, 0x69, 0x0f, 0x0f, false, 0x14, 0},
		{"nmos sbc", cpu.DecimalNMOS, 0xe9, 0x42, 0x15, true, 0x27, cpu.CarryBit},
		{"nmos sbc borrow", cpu.DecimalNMOS, 0xe9, 0x00, 0x01, true, 0x99, cpu.NegativeBit},
		{"bcd adc carry out", cpu.DecimalBCD, 0x69, 0x99, 0x01, false, 0x00, cpu.CarryBit | cpu.ZeroBit},
		{"bcd sbc", cpu.DecimalBCD, 0xe9, 0x42, 0x15, true, 0x27, cpu.CarryBit},
		{"off adc", cpu.DecimalOff, 0x69, 0x99, 0x01, false, 0x9a, cpu.NegativeBit},
	}

	for _, test := range tests {
		c, _ := loadCPUWith(cpu.Options{Decimal: test.mode}, test.op, test.v)
		c.Reg.RestorePS(cpu.DecimalBit)
		c.Reg.A = test.a
		c.Reg.Carry = test.carry
		stepCPU(t, c, 1)

		if c.Reg.A != test.exp {
			t.Errorf("%s: result incorrect. exp: $%02X, got: $%02X", test.name, test.exp, c.Reg.A)
		}
		exp := test.ps | cpu.DecimalBit | cpu.ReservedBit
		if got := c.Reg.SavePS(false) &^ cpu.OverflowBit; got != exp {
			t.Errorf("%s: flags incorrect. exp: %s, got: %s", test.name, cpu.FlagString(exp), cpu.FlagString(got))
		}
	}
}

// The NMOS part sets N and V from the intermediate result, before the
// high digit is adjusted.
func TestDecimalOverflow(t *testing.T) {
	c, _ := loadCPUWith(cpu.Options{Decimal: cpu.DecimalNMOS}, 0x69, 0x00) // ADC #$00
	c.Reg.RestorePS(cpu.DecimalBit | cpu.CarryBit)
	c.Reg.A = 0x79
	stepCPU(t, c, 1)

	expectACC(t, c, 0x80)
	expectPS(t, c, cpu.NegativeBit|cpu.OverflowBit|cpu.DecimalBit|cpu.ReservedBit)
}

// Base cycle costs of the NMOS 6510, by opcode. Opcodes that lock up the
// processor cost nothing.
var cycleTable = [256]int{
	7, 6, 0, 8, 3, 3, 5, 5, 3, 2, 2, 2, 4, 4, 6, 6, // 00
	2, 5, 0, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7, // 10
	6, 6, 0, 8, 3, 3, 5, 5, 4, 2, 2, 2, 4, 4, 6, 6, // 20
	2, 5, 0, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7, // 30
	6, 6, 0, 8, 3, 3, 5, 5, 3, 2, 2, 2, 3, 4, 6, 6, // 40
	2, 5, 0, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7, // 50
	6, 6, 0, 8, 3, 3, 5, 5, 4, 2, 2, 2, 5, 4, 6, 6, // 60
	2, 5, 0, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7, // 70
	2, 6, 2, 6, 3, 3, 3, 3, 2, 2, 2, 2, 4, 4, 4, 4, // 80
	2, 6, 0, 6, 4, 4, 4, 4, 2, 5, 2, 5, 5, 5, 5, 5, // 90
	2, 6, 2, 6, 3, 3, 3, 3, 2, 2, 2, 2, 4, 4, 4, 4, // A0
	2, 5, 0, 5, 4, 4, 4, 4, 2, 4, 2, 4, 4, 4, 4, 4, // B0
	2, 6, 2, 8, 3, 3, 5, 5, 2, 2, 2, 2, 4, 4, 6, 6, // C0
	2, 5, 0, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7, // D0
	2, 6, 2, 8, 3, 3, 5, 5, 2, 2, 2, 2, 4, 4, 6, 6, // E0
	2, 5, 0, 8, 4, 4, 6, 6, 2, 4, 2, 7, 4, 4, 7, 7, // F0
}

func TestInstructionSet(t *testing.T) {
	set := cpu.GetInstructionSet()

	documented := 0
	for op := range 256 {
		inst := set.Lookup(byte(op))
		if inst.Opcode != byte(op) {
			t.Errorf("opcode $%02X: table entry holds $%02X", op, inst.Opcode)
		}
		if int(inst.Cycles) != cycleTable[op] {
			t.Errorf("%s ($%02X): cycles incorrect. exp: %d, got: %d", inst.Name, op, cycleTable[op], inst.Cycles)
		}
		if !inst.Unofficial {
			documented++
		}
	}
	if documented != 151 {
		t.Errorf("documented opcodes incorrect. exp: 151, got: %d", documented)
	}
}

// Every opcode executed from a fixed state with no page crossings costs
// its base cycles, plus one for a taken branch.
func TestExecutedCycles(t *testing.T) {
	set := cpu.GetInstructionSet()
	taken := map[byte]bool{0x10: true, 0x50: true, 0x90: true, 0xd0: true}

	for op := range 256 {
		inst := set.Lookup(byte(op))
		if inst.Jam {
			continue
		}

		c, _ := loadCPU(byte(op), 0x10, 0x10)
		c.Reg.RestorePS(0)
		c.Reg.X, c.Reg.Y, c.Reg.SP = 0, 0, 0xfd
		n, err := c.Step()
		if err != nil {
			t.Errorf("%s ($%02X): %v", inst.Name, op, err)
			continue
		}

		exp := cycleTable[op]
		if taken[byte(op)] {
			exp++
		}
		if n != exp || c.Cycles != uint64(exp) {
			t.Errorf("%s ($%02X): cycles incorrect. exp: %d, got: %d (counter %d)", inst.Name, op, exp, n, c.Cycles)
		}
	}
}

func TestUnofficialOpcodes(t *testing.T) {
	t.Run("SAX", func(t *testing.T) {
		c := runCPU(t, 3, 0xa9, 0xf0, 0xa2, 0x3c, 0x87, 0x10)
		expectMem(t, c, 0x10, 0x30)
	})

	t.Run("DCP", func(t *testing.T) {
		c, mem := loadCPU(0xa9, 0x42, 0xc7, 0x10)
		mem.StoreByte(0x10, 0x43)
		stepCPU(t, c, 2)
		expectMem(t, c, 0x10, 0x42)
		if !c.Reg.Zero || !c.Reg.Carry {
			t.Error("DCP compare flags incorrect")
		}
	})

	t.Run("SLO", func(t *testing.T) {
		c, mem := loadCPU(0xa9, 0x01, 0x07, 0x10)
		mem.StoreByte(0x10, 0x81)
		stepCPU(t, c, 2)
		expectMem(t, c, 0x10, 0x02)
		expectACC(t, c, 0x03)
		if !c.Reg.Carry {
			t.Error("SLO did not shift into carry")
		}
		expectCycles(t, c, 2+5)
	})

	t.Run("ISC", func(t *testing.T) {
		c, mem := loadCPU(0x38, 0xa9, 0x10, 0xe7, 0x10)
		mem.StoreByte(0x10, 0x04)
		stepCPU(t, c, 3)
		expectMem(t, c, 0x10, 0x05)
		expectACC(t, c, 0x0b)
	})

	t.Run("ANC", func(t *testing.T) {
		c := runCPU(t, 2, 0xa9, 0xff, 0x0b, 0x80)
		expectACC(t, c, 0x80)
		if !c.Reg.Carry || !c.Reg.Negative {
			t.Error("ANC flags incorrect")
		}
	})

	t.Run("ARR", func(t *testing.T) {
		c := runCPU(t, 3, 0x18, 0xa9, 0xff, 0x6b, 0xc0)
		expectACC(t, c, 0x60)
		if !c.Reg.Carry || c.Reg.Overflow {
			t.Error("ARR flags incorrect")
		}
	})

	t.Run("SBX", func(t *testing.T) {
		c := runCPU(t, 3, 0xa9, 0x0f, 0xa2, 0xfc, 0xcb, 0x02)
		expectX(t, c, 0x0a)
		if !c.Reg.Carry {
			t.Error("SBX carry incorrect")
		}
	})

	t.Run("SHX", func(t *testing.T) {
		c := runCPU(t, 3, 0xa2, 0xff, 0xa0, 0x01, 0x9e, 0x00, 0x20)
		expectMem(t, c, 0x2001, 0x21)
	})

	t.Run("LAS", func(t *testing.T) {
		c, mem := loadCPU(0xbb, 0x00, 0x20)
		mem.StoreByte(0x2000, 0xf3)
		stepCPU(t, c, 1)
		expectACC(t, c, 0xf1)
		expectX(t, c, 0xf1)
		expectSP(t, c, 0xf1)
	})
}

type recorder struct {
	steps []cpu.Snapshot
}

func (r *recorder) OnStep(s *cpu.Snapshot) {
	r.steps = append(r.steps, *s)
}

func TestObserver(t *testing.T) {
	c, _ := loadCPU(0xa9, 0x05, 0x69, 0x10)
	var r recorder
	c.AttachObserver(&r)
	stepCPU(t, c, 2)

	if len(r.steps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(r.steps))
	}
	s := r.steps[1]
	if s.PC != 0x1002 || s.Name != "ADC" || s.Mode != cpu.IMM {
		t.Errorf("snapshot describes the wrong instruction: %+v", s)
	}
	if s.Reg.A != 0x15 || s.Cycles != 2 || s.Total != 4 {
		t.Errorf("snapshot state incorrect: A=$%02X cycles=%d total=%d", s.Reg.A, s.Cycles, s.Total)
	}
	if got := s.OperandBytes(); len(got) != 1 || got[0] != 0x10 {
		t.Errorf("snapshot operand incorrect: % X", got)
	}
}

type breakRecorder struct {
	hits     []uint16
	dataHits []uint16
}

func (b *breakRecorder) OnBreakpoint(c *cpu.CPU, bp *cpu.Breakpoint) {
	b.hits = append(b.hits, bp.Address)
}

func (b *breakRecorder) OnDataBreakpoint(c *cpu.CPU, bp *cpu.DataBreakpoint) {
	b.dataHits = append(b.dataHits, bp.Address)
}

func TestDebugger(t *testing.T) {
	c, _ := loadCPU(
		0xa9, 0x5e, // LDA #$5E
		0x85, 0x15, // STA $15
		0x85, 0x16, // STA $16
		0xea, // NOP
	)
	var h breakRecorder
	d := cpu.NewDebugger(&h)
	d.AddBreakpoint(0x1004)
	d.AddBreakpoint(0x1002).Disabled = true
	d.AddConditionalDataBreakpoint(0x15, 0x5e)
	d.AddConditionalDataBreakpoint(0x16, 0x00)
	c.AttachDebugger(d)
	stepCPU(t, c, 4)

	if !slices.Equal(h.hits, []uint16{0x1004}) {
		t.Errorf("breakpoint hits incorrect: %v", h.hits)
	}
	if !slices.Equal(h.dataHits, []uint16{0x15}) {
		t.Errorf("data breakpoint hits incorrect: %v", h.dataHits)
	}
	if bps := d.GetBreakpoints(); len(bps) != 2 || bps[0].Address != 0x1002 {
		t.Errorf("breakpoints not sorted: %v", bps)
	}
}

func TestStateRoundTrip(t *testing.T) {
	c, mem := loadCPU(
		0xe6, 0x20, // INC $20
		0xa5, 0x20, // LDA $20
		0x69, 0x03, // ADC #$03
		0x85, 0x21, // STA $21
		0x4c, 0x00, 0x10, // JMP $1000
	)
	stepCPU(t, c, 10)

	state := c.State()
	saved := *mem

	trace := func() []cpu.Snapshot {
		var r recorder
		c.AttachObserver(&r)
		stepCPU(t, c, 40)
		c.AttachObserver(nil)
		return r.steps
	}

	first := trace()
	c.SetState(state)
	*mem = saved
	second := trace()

	if !slices.Equal(first, second) {
		t.Error("trace after restore differs from the original trace")
	}
}
