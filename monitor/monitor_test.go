// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/go6510/machine"
	"github.com/beevik/go6510/rom"
)

// newMonitor builds an unthrottled machine whose KERNAL holds code at the
// given addresses and resets to $E000.
func newMonitor(t *testing.T, code map[uint16][]byte) *Monitor {
	t.Helper()
	img := make([]byte, rom.KernalSize)
	for addr, b := range code {
		copy(img[addr-0xe000:], b)
	}
	img[0xfffc-0xe000] = 0x00
	img[0xfffd-0xe000] = 0xe0

	m, err := machine.New(machine.Config{
		ROMs: &rom.Set{
			Basic:  make([]byte, rom.BasicSize),
			Kernal: img,
			Char:   make([]byte, rom.CharSize),
		},
		Unthrottled: true,
		History:     16,
	})
	if err != nil {
		t.Fatalf("machine.New: %v", err)
	}
	return New(m)
}

func runCommands(t *testing.T, mon *Monitor, script ...string) string {
	t.Helper()
	var out strings.Builder
	in := strings.NewReader(strings.Join(script, "\n") + "\n")
	if err := mon.RunCommands(context.Background(), in, &out, false); err != nil {
		t.Fatalf("RunCommands: %v", err)
	}
	return out.String()
}

func expectOutput(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Errorf("output missing %q:\n%s", want, out)
	}
}

func expectPC(t *testing.T, mon *Monitor, pc uint16) {
	t.Helper()
	if mon.m.CPU.Reg.PC != pc {
		t.Errorf("PC incorrect. exp: $%04X, got: $%04X", pc, mon.m.CPU.Reg.PC)
	}
}

var loopProgram = map[uint16][]byte{
	0xe000: {0xe8},             // INX
	0xe001: {0xe8},             // INX
	0xe002: {0xe8},             // INX
	0xe003: {0x4c, 0x00, 0xe0}, // JMP $E000
}

func TestSetRegisters(t *testing.T) {
	mon := newMonitor(t, loopProgram)
	out := runCommands(t, mon,
		"set a $42",
		"set pc $E002",
		"set carry 1",
		"registers",
	)

	expectOutput(t, out, "Register A set to $42.")
	expectOutput(t, out, "Register PC set to $E002.")
	expectOutput(t, out, "PC=$E002")
	if mon.m.CPU.Reg.A != 0x42 {
		t.Errorf("A incorrect. exp: $42, got: $%02X", mon.m.CPU.Reg.A)
	}
	if !mon.m.CPU.Reg.Carry {
		t.Error("carry not set")
	}
}

func TestSettings(t *testing.T) {
	mon := newMonitor(t, loopProgram)
	out := runCommands(t, mon,
		"set memdump 16",
		"set hexmode true",
		"set nosuchsetting 1",
		"set",
	)

	expectOutput(t, out, "Setting updated.")
	expectOutput(t, out, "setting 'nosuchsetting' not found")
	expectOutput(t, out, "MemDumpBytes")
	if mon.settings.MemDumpBytes != 16 {
		t.Errorf("MemDumpBytes incorrect. exp: 16, got: %d", mon.settings.MemDumpBytes)
	}
	if !mon.settings.HexMode {
		t.Error("HexMode not set")
	}
}

func TestParseValue(t *testing.T) {
	mon := newMonitor(t, loopProgram)
	mon.m.CPU.Reg.X = 0x12

	tests := []struct {
		in   string
		hex  bool
		want uint16
		err  bool
	}{
		{"$c000", false, 0xc000, false},
		{"0xFF", false, 0xff, false},
		{"%101", false, 5, false},
		{"100", false, 100, false},
		{"100", true, 0x100, false},
		{"x", false, 0x12, false},
		{"pc", false, 0xe000, false},
		{"sp", false, 0x1fd, false},
		{"$10000", false, 0, true},
		{"zz", false, 0, true},
	}
	for _, tt := range tests {
		mon.settings.HexMode = tt.hex
		got, err := mon.parseValue(tt.in)
		switch {
		case tt.err && err == nil:
			t.Errorf("parseValue(%q) succeeded, expected error", tt.in)
		case !tt.err && err != nil:
			t.Errorf("parseValue(%q): %v", tt.in, err)
		case got != tt.want:
			t.Errorf("parseValue(%q) = $%X, want $%X", tt.in, got, tt.want)
		}
	}
}

type registerNames map[string]int64

func (r registerNames) resolveIdentifier(name string) (int64, error) {
	if v, ok := r[name]; ok {
		return v, nil
	}
	return 0, errors.New("not found")
}

func TestExprParser(t *testing.T) {
	names := registerNames{"pc": 0xc000, "x": 3}

	tests := []struct {
		expr string
		hex  bool
		want int64
		err  bool
	}{
		{"1+2*3", false, 7, false},
		{"(1+2)*3", false, 9, false},
		{"10-2-3", false, 5, false},
		{"-5+2", false, -3, false},
		{"~0 & $ff", false, 0xff, false},
		{"1 << 4 | 1", false, 0x11, false},
		{"%1010 % 3", false, 1, false},
		{"0b11 + 0d10", false, 13, false},
		{"'A'", false, 0x41, false},
		{"pc + x", false, 0xc003, false},
		{"<$1234", false, 0x34, false},
		{">$1234", false, 0x12, false},
		{"ff + 1", true, 0x100, false},
		{"c000 + x", true, 0xc003, false},
		{"10", true, 0x10, false},
		{"1/0", false, 0, true},
		{"5 % 0", false, 0, true},
		{"(1+2", false, 0, true},
		{"1+2)", false, 0, true},
		{"1 2", false, 0, true},
		{"*", false, 0, true},
		{"1 # 2", false, 0, true},
		{"nosuch", false, 0, true},
	}

	var p exprParser
	for _, tt := range tests {
		p.hexMode = tt.hex
		got, err := p.Parse(tt.expr, names)
		switch {
		case tt.err && err == nil:
			t.Errorf("Parse(%q) = %d, expected error", tt.expr, got)
		case !tt.err && err != nil:
			t.Errorf("Parse(%q): %v", tt.expr, err)
		case got != tt.want:
			t.Errorf("Parse(%q) = %d, want %d", tt.expr, got, tt.want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	mon := newMonitor(t, loopProgram)
	mon.m.CPU.Reg.Y = 0x10
	out := runCommands(t, mon,
		"evaluate pc + y*2",
		"e -1",
		"evaluate 1/0",
		"set hexmode true",
		"evaluate 10 + sp",
		"memory set c0+.-$e000 $55",
	)

	expectOutput(t, out, "$E020 (57376)")
	expectOutput(t, out, "$FFFF (65535)")
	expectOutput(t, out, "division by zero")
	expectOutput(t, out, "$020D (525)")
	if got := mon.m.Bus.Peek(0xc0); got != 0x55 {
		t.Errorf("memory at $C0 incorrect. exp: $55, got: $%02X", got)
	}
}

func TestMemory(t *testing.T) {
	mon := newMonitor(t, loopProgram)
	out := runCommands(t, mon,
		"memory set $0400 $41 $42 $43",
		"memory dump $0400 3",
		"memory set $E000 $99",
	)

	expectOutput(t, out, "Stored 3 byte(s) at $0400.")
	expectOutput(t, out, "0400- 41 42 43")
	expectOutput(t, out, "ABC")

	// The store went under the ROM.
	if got := mon.m.Bus.RAM(0xe000); got != 0x99 {
		t.Errorf("RAM under KERNAL incorrect. exp: $99, got: $%02X", got)
	}
	if got := mon.m.Bus.Peek(0xe000); got != 0xe8 {
		t.Errorf("KERNAL byte incorrect. exp: $E8, got: $%02X", got)
	}
}

func TestBreakpointRun(t *testing.T) {
	mon := newMonitor(t, loopProgram)
	out := runCommands(t, mon,
		"breakpoint add $E002",
		"breakpoint list",
		"run",
	)

	expectOutput(t, out, "Breakpoint added at $E002.")
	expectOutput(t, out, "$E002 true")
	expectOutput(t, out, "Breakpoint hit at $E002.")
	expectPC(t, mon, 0xe002)
	if mon.m.CPU.Reg.X != 2 {
		t.Errorf("X incorrect. exp: 2, got: %d", mon.m.CPU.Reg.X)
	}
}

func TestBreakpointDisable(t *testing.T) {
	mon := newMonitor(t, loopProgram)
	out := runCommands(t, mon,
		"breakpoint add $E001",
		"breakpoint add $E003",
		"breakpoint disable $E001",
		"run",
		"breakpoint remove $E001",
		"breakpoint remove $E001",
	)

	expectOutput(t, out, "Breakpoint at $E001 disabled.")
	expectOutput(t, out, "Breakpoint hit at $E003.")
	expectOutput(t, out, "Breakpoint at $E001 removed.")
	expectOutput(t, out, "No breakpoint was set on $E001.")
	expectPC(t, mon, 0xe003)
}

func TestDataBreakpoint(t *testing.T) {
	mon := newMonitor(t, map[uint16][]byte{
		0xe000: {0xa9, 0x05},       // LDA #$05
		0xe002: {0x8d, 0x00, 0x04}, // STA $0400
		0xe005: {0xe8},             // INX
		0xe006: {0x4c, 0x05, 0xe0}, // JMP $E005
	})
	out := runCommands(t, mon,
		"databreakpoint add $0400 $05",
		"databreakpoint list",
		"run",
	)

	expectOutput(t, out, "Conditional data breakpoint added at $0400 for value $05.")
	expectOutput(t, out, "$0400 true     $05")
	expectOutput(t, out, "Data breakpoint hit on address $0400.")
	expectPC(t, mon, 0xe005)
}

func TestStepOver(t *testing.T) {
	mon := newMonitor(t, map[uint16][]byte{
		0xe000: {0x20, 0x00, 0xe1}, // JSR $E100
		0xe003: {0xe8},             // INX
		0xe100: {0xa9, 0x01},       // LDA #$01
		0xe102: {0x60},             // RTS
	})
	runCommands(t, mon, "step over")

	expectPC(t, mon, 0xe003)
	if mon.m.CPU.Reg.A != 1 {
		t.Errorf("A incorrect. exp: 1, got: %d", mon.m.CPU.Reg.A)
	}
	if mon.m.CPU.Reg.SP != 0xfd {
		t.Errorf("SP incorrect. exp: $FD, got: $%02X", mon.m.CPU.Reg.SP)
	}
}

func TestStepIn(t *testing.T) {
	mon := newMonitor(t, map[uint16][]byte{
		0xe000: {0x20, 0x00, 0xe1}, // JSR $E100
		0xe100: {0xa9, 0x01},       // LDA #$01
		0xe102: {0x60},             // RTS
	})
	runCommands(t, mon, "step in 2")
	expectPC(t, mon, 0xe102)
}

func TestRepeatLastCommand(t *testing.T) {
	mon := newMonitor(t, loopProgram)
	runCommands(t, mon, "step in", "", "")
	expectPC(t, mon, 0xe003)
}

func TestTrace(t *testing.T) {
	mon := newMonitor(t, loopProgram)
	out := runCommands(t, mon, "step in 4", "trace 2")

	expectOutput(t, out, "E002  E8        INX")
	expectOutput(t, out, "E003  4C 00 E0  JMP $E000")
	if strings.Contains(out, "E001  E8") {
		t.Errorf("trace showed more lines than requested:\n%s", out)
	}
}

func TestBank(t *testing.T) {
	mon := newMonitor(t, loopProgram)
	out := runCommands(t, mon, "bank", "memory set 1 $30", "bank")

	expectOutput(t, out, "$A000:ROM $D000:I/O $E000:ROM")
	expectOutput(t, out, "$A000:RAM $D000:RAM $E000:RAM")
}

func TestInterrupts(t *testing.T) {
	mon := newMonitor(t, map[uint16][]byte{
		0xe000: {0xe8},             // INX
		0xe001: {0x4c, 0x00, 0xe0}, // JMP $E000
		0xe200: {0x40},             // RTI
		0xfffa: {0x00, 0xe2},
	})
	out := runCommands(t, mon, "nmi", "step in")

	expectOutput(t, out, "NMI requested.")
	expectPC(t, mon, 0xe200)
}

func TestReset(t *testing.T) {
	mon := newMonitor(t, loopProgram)
	runCommands(t, mon, "step in 5", "reset")
	expectPC(t, mon, 0xe000)
	if mon.m.CPU.Cycles != 0 {
		t.Errorf("cycles not cleared: %d", mon.m.CPU.Cycles)
	}
}

func TestHaltReported(t *testing.T) {
	mon := newMonitor(t, map[uint16][]byte{
		0xe000: {0x02}, // JAM
	})
	out := runCommands(t, mon, "run")
	expectOutput(t, out, "Halted:")
	expectOutput(t, out, "$E000")
}

func TestQuitAndUnknown(t *testing.T) {
	mon := newMonitor(t, loopProgram)
	out := runCommands(t, mon, "bogus", "breakpoint", "step bogus", "quit", "set a 1")

	expectOutput(t, out, "Command not found.")
	expectOutput(t, out, "Incomplete command.")
	if strings.Contains(out, "Register A") {
		t.Errorf("command ran after quit:\n%s", out)
	}
}

func TestHelp(t *testing.T) {
	mon := newMonitor(t, loopProgram)
	out := runCommands(t, mon, "help", "help breakpoint", "help disassemble")

	expectOutput(t, out, "Breakpoint commands")
	expectOutput(t, out, "breakpoint add")
	expectOutput(t, out, "Syntax: disassemble [<address>] [<count>]")
}

func TestStatus(t *testing.T) {
	mon := newMonitor(t, loopProgram)
	out := runCommands(t, mon, "status", "breakpoint add $E003", "run", "status")

	expectOutput(t, out, "Clock:    PAL 985248 Hz, unthrottled")
	expectOutput(t, out, "Opcodes:  illegal=emulate decimal=nmos")
	expectOutput(t, out, "Cycles:   0")
	expectOutput(t, out, "Cycles:   6")
	expectOutput(t, out, "Last run:")
}

func TestClose(t *testing.T) {
	mon := newMonitor(t, loopProgram)
	runCommands(t, mon, "breakpoint add $E001")
	mon.Close()

	for range 8 {
		if _, err := mon.m.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if mon.hit.Load() {
		t.Error("breakpoint fired after Close")
	}
}

func TestGraph(t *testing.T) {
	mon := newMonitor(t, loopProgram)
	path := filepath.Join(t.TempDir(), "state.dot")
	out := runCommands(t, mon, "graph "+path)

	expectOutput(t, out, "Graph written to")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "digraph") {
		t.Errorf("graph is not in dot format:\n%s", b)
	}
}
