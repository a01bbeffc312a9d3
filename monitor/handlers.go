// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/beevik/go6510/trace"
	"github.com/bradleyjkemp/memviz"
)

func (mon *Monitor) displayUsage(sel selection) {
	c := sel.Command.Data.(*command)
	if c.usage != "" {
		mon.printf("Syntax: %s\n", c.usage)
	} else {
		mon.println("<no help text>")
	}
}

func (mon *Monitor) cmdHelp(sel selection) error {
	if len(sel.Args) == 0 {
		mon.println("Commands:")
		for _, c := range commands {
			if c.brief != "" && !strings.Contains(c.name, " ") {
				mon.printf("    %-15s  %s\n", c.name, c.brief)
			}
		}
		for _, g := range groups {
			mon.printf("    %-15s  %s\n", g.name, g.brief)
		}
		return nil
	}

	topic := strings.Join(sel.Args, " ")
	for _, g := range groups {
		if strings.HasPrefix(g.name, strings.ToLower(topic)) && !strings.Contains(topic, " ") {
			mon.printf("%s:\n", g.brief)
			for _, c := range g.cmds {
				mon.printf("    %-22s  %s\n", c.name, c.brief)
			}
			return nil
		}
	}

	cc, _, err := cmds.LookupCommand(topic)
	if err != nil {
		mon.printf("No help for '%s'.\n", topic)
		return nil
	}
	c := cc.Data.(*command)
	if c.usage != "" {
		mon.printf("Syntax: %s\n\n", c.usage)
	}
	switch {
	case c.description != "":
		mon.printf("Description:\n   %s\n", c.description)
	case c.brief != "":
		mon.printf("Description:\n   %s.\n", c.brief)
	}
	return nil
}

func (mon *Monitor) cmdBank(sel selection) error {
	ddr, port := mon.m.Bus.Port()
	mon.printf("DDR=$%02X PORT=$%02X  %s\n", ddr, port, mon.m.Bus.Banks())
	return nil
}

func (mon *Monitor) cmdBreakpointList(sel selection) error {
	mon.println("Addr  Enabled")
	mon.println("----- -------")
	for _, b := range mon.debugger.GetBreakpoints() {
		mon.printf("$%04X %v\n", b.Address, !b.Disabled)
	}
	return nil
}

func (mon *Monitor) cmdBreakpointAdd(sel selection) error {
	if len(sel.Args) < 1 {
		mon.displayUsage(sel)
		return nil
	}

	addr, err := mon.parseValue(sel.Args[0])
	if err != nil {
		mon.printf("%v\n", err)
		return nil
	}

	mon.debugger.AddBreakpoint(addr)
	mon.printf("Breakpoint added at $%04X.\n", addr)
	return nil
}

func (mon *Monitor) cmdBreakpointRemove(sel selection) error {
	if len(sel.Args) < 1 {
		mon.displayUsage(sel)
		return nil
	}

	addr, err := mon.parseValue(sel.Args[0])
	if err != nil {
		mon.printf("%v\n", err)
		return nil
	}

	if mon.debugger.GetBreakpoint(addr) == nil {
		mon.printf("No breakpoint was set on $%04X.\n", addr)
		return nil
	}

	mon.debugger.RemoveBreakpoint(addr)
	mon.printf("Breakpoint at $%04X removed.\n", addr)
	return nil
}

func (mon *Monitor) cmdBreakpointEnable(sel selection) error {
	return mon.setBreakpointDisabled(sel, false)
}

func (mon *Monitor) cmdBreakpointDisable(sel selection) error {
	return mon.setBreakpointDisabled(sel, true)
}

func (mon *Monitor) setBreakpointDisabled(sel selection, disabled bool) error {
	if len(sel.Args) < 1 {
		mon.displayUsage(sel)
		return nil
	}

	addr, err := mon.parseValue(sel.Args[0])
	if err != nil {
		mon.printf("%v\n", err)
		return nil
	}

	b := mon.debugger.GetBreakpoint(addr)
	if b == nil {
		mon.printf("No breakpoint was set on $%04X.\n", addr)
		return nil
	}

	b.Disabled = disabled
	if disabled {
		mon.printf("Breakpoint at $%04X disabled.\n", addr)
	} else {
		mon.printf("Breakpoint at $%04X enabled.\n", addr)
	}
	return nil
}

func (mon *Monitor) cmdDataBreakpointList(sel selection) error {
	mon.println("Addr  Enabled  Value")
	mon.println("----- -------  -----")
	for _, b := range mon.debugger.GetDataBreakpoints() {
		if b.Conditional {
			mon.printf("$%04X %-5v    $%02X\n", b.Address, !b.Disabled, b.Value)
		} else {
			mon.printf("$%04X %-5v    <none>\n", b.Address, !b.Disabled)
		}
	}
	return nil
}

func (mon *Monitor) cmdDataBreakpointAdd(sel selection) error {
	if len(sel.Args) < 1 {
		mon.displayUsage(sel)
		return nil
	}

	addr, err := mon.parseValue(sel.Args[0])
	if err != nil {
		mon.printf("%v\n", err)
		return nil
	}

	if len(sel.Args) > 1 {
		v, err := mon.parseByte(sel.Args[1])
		if err != nil {
			mon.printf("%v\n", err)
			return nil
		}
		mon.debugger.AddConditionalDataBreakpoint(addr, v)
		mon.printf("Conditional data breakpoint added at $%04X for value $%02X.\n", addr, v)
		return nil
	}

	mon.debugger.AddDataBreakpoint(addr)
	mon.printf("Data breakpoint added at $%04X.\n", addr)
	return nil
}

func (mon *Monitor) cmdDataBreakpointRemove(sel selection) error {
	if len(sel.Args) < 1 {
		mon.displayUsage(sel)
		return nil
	}

	addr, err := mon.parseValue(sel.Args[0])
	if err != nil {
		mon.printf("%v\n", err)
		return nil
	}

	if mon.debugger.GetDataBreakpoint(addr) == nil {
		mon.printf("No data breakpoint was set on $%04X.\n", addr)
		return nil
	}

	mon.debugger.RemoveDataBreakpoint(addr)
	mon.printf("Data breakpoint at $%04X removed.\n", addr)
	return nil
}

func (mon *Monitor) cmdDisassemble(sel selection) error {
	addr := mon.m.CPU.Reg.PC
	if len(sel.Args) > 0 {
		switch sel.Args[0] {
		case "$":
			addr = mon.settings.NextDisasmAddr
		default:
			a, err := mon.parseValue(sel.Args[0])
			if err != nil {
				mon.printf("%v\n", err)
				return nil
			}
			addr = a
		}
	}

	lines := mon.settings.DisasmLines
	if len(sel.Args) > 1 {
		n, err := mon.parseValue(sel.Args[1])
		if err != nil {
			mon.printf("%v\n", err)
			return nil
		}
		lines = int(n)
	}

	for range lines {
		var line string
		line, addr = mon.disassemble(addr, false)
		mon.println(line)
	}

	mon.settings.NextDisasmAddr = addr
	mon.lastCmd.Args = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (mon *Monitor) cmdEvaluate(sel selection) error {
	if len(sel.Args) < 1 {
		mon.displayUsage(sel)
		return nil
	}

	v, err := mon.parseValue(strings.Join(sel.Args, " "))
	if err != nil {
		mon.printf("%v\n", err)
		return nil
	}
	mon.printf("$%04X (%d)\n", v, v)
	return nil
}

func (mon *Monitor) cmdGraph(sel selection) error {
	if len(sel.Args) < 1 {
		mon.displayUsage(sel)
		return nil
	}

	f, err := os.Create(sel.Args[0])
	if err != nil {
		mon.printf("Failed to create '%s': %v\n", sel.Args[0], err)
		return nil
	}
	defer f.Close()

	state := mon.m.CPU.State()
	memviz.Map(f, &state, mon.debugger)
	mon.printf("Graph written to '%s'.\n", sel.Args[0])
	return nil
}

func (mon *Monitor) cmdIRQ(sel selection) error {
	mon.m.RequestIRQ()
	mon.println("IRQ requested.")
	return nil
}

func (mon *Monitor) cmdNMI(sel selection) error {
	mon.m.RequestNMI()
	mon.println("NMI requested.")
	return nil
}

func (mon *Monitor) cmdMemoryDump(sel selection) error {
	if len(sel.Args) < 1 {
		mon.displayUsage(sel)
		return nil
	}

	var addr uint16
	switch sel.Args[0] {
	case "$":
		addr = mon.settings.NextMemDumpAddr
	default:
		a, err := mon.parseValue(sel.Args[0])
		if err != nil {
			mon.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := mon.settings.MemDumpBytes
	if len(sel.Args) >= 2 {
		n, err := mon.parseValue(sel.Args[1])
		if err != nil {
			mon.printf("%v\n", err)
			return nil
		}
		bytes = int(n)
	}

	mon.dumpMemory(addr, bytes)

	mon.settings.NextMemDumpAddr = addr + uint16(bytes)
	mon.lastCmd.Args = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

// Dump memory eight bytes to a line, starting at addr.
func (mon *Monitor) dumpMemory(addr uint16, bytes int) {
	var sb strings.Builder
	for bytes > 0 {
		n := min(bytes, 8)
		var hex, chars strings.Builder
		for i := range 8 {
			if i < n {
				v := mon.m.Bus.Peek(addr + uint16(i))
				fmt.Fprintf(&hex, " %02X", v)
				chars.WriteByte(toPrintableChar(v))
			} else {
				hex.WriteString("   ")
			}
		}
		fmt.Fprintf(&sb, "%04X-%s  %s\n", addr, hex.String(), chars.String())
		addr += uint16(n)
		bytes -= n
	}
	mon.printf("%s", sb.String())
}

func (mon *Monitor) cmdMemorySet(sel selection) error {
	if len(sel.Args) < 2 {
		mon.displayUsage(sel)
		return nil
	}

	addr, err := mon.parseValue(sel.Args[0])
	if err != nil {
		mon.printf("%v\n", err)
		return nil
	}

	values := make([]byte, 0, len(sel.Args)-1)
	for _, a := range sel.Args[1:] {
		v, err := mon.parseByte(a)
		if err != nil {
			mon.printf("%v\n", err)
			return nil
		}
		values = append(values, v)
	}

	for i, v := range values {
		mon.m.Bus.StoreByte(addr+uint16(i), v)
	}
	mon.printf("Stored %d byte(s) at $%04X.\n", len(values), addr)
	return nil
}

func (mon *Monitor) cmdQuit(sel selection) error {
	return errQuit
}

func (mon *Monitor) cmdRegisters(sel selection) error {
	line, _ := mon.disassemble(mon.m.CPU.Reg.PC, true)
	mon.println(line)
	return nil
}

func (mon *Monitor) cmdReset(sel selection) error {
	mon.m.Reset()
	mon.println("Machine reset.")
	mon.displayPC()
	return nil
}

func (mon *Monitor) cmdRun(sel selection) error {
	if len(sel.Args) > 0 {
		pc, err := mon.parseValue(sel.Args[0])
		if err != nil {
			mon.printf("%v\n", err)
			return nil
		}
		mon.m.CPU.SetPC(pc)
	}

	mon.hit.Store(false)
	err := mon.m.Run(mon.ctx)
	switch {
	case err == nil:
	case mon.ctx.Err() != nil:
		return nil
	default:
		mon.printf("Halted: %v.\n", err)
	}
	mon.displayPC()
	mon.settings.NextDisasmAddr = mon.m.CPU.Reg.PC
	return nil
}

func (mon *Monitor) cmdSet(sel selection) error {
	switch len(sel.Args) {
	case 0:
		mon.println("Settings:")
		mon.settings.Display(mon.output)
		mon.flush()
		return nil
	case 1:
		mon.displayUsage(sel)
		return nil
	}

	key, value := strings.ToLower(sel.Args[0]), strings.Join(sel.Args[1:], " ")
	if mon.setRegister(key, value) {
		return nil
	}

	var err error
	switch mon.settings.Kind(key) {
	case reflect.Invalid:
		err = fmt.Errorf("setting '%s' not found", key)
	case reflect.Bool:
		var b bool
		if b, err = stringToBool(value); err == nil {
			err = mon.settings.Set(key, b)
		}
	default:
		var v uint16
		if v, err = mon.parseValue(value); err == nil {
			err = mon.settings.Set(key, v)
		}
	}

	if err != nil {
		mon.printf("%v\n", err)
		return nil
	}
	mon.println("Setting updated.")
	return nil
}

// Set a register or flag by name, reporting whether key named one.
func (mon *Monitor) setRegister(key, value string) bool {
	reg := &mon.m.CPU.Reg

	flags := map[string]*bool{
		"carry":     &reg.Carry,
		"zero":      &reg.Zero,
		"interrupt": &reg.InterruptDisable,
		"decimal":   &reg.Decimal,
		"overflow":  &reg.Overflow,
		"negative":  &reg.Negative,
	}
	if f, ok := flags[key]; ok {
		b, err := stringToBool(value)
		if err != nil {
			mon.printf("%v\n", err)
			return true
		}
		*f = b
		mon.printf("Flag %s set to %v.\n", strings.ToUpper(key), b)
		return true
	}

	switch key {
	case "a", "x", "y", "sp":
		v, err := mon.parseValue(value)
		if err != nil {
			mon.printf("%v\n", err)
			return true
		}
		switch key {
		case "a":
			reg.A = byte(v)
		case "x":
			reg.X = byte(v)
		case "y":
			reg.Y = byte(v)
		case "sp":
			reg.SP = byte(v)
		}
		mon.printf("Register %s set to $%02X.\n", strings.ToUpper(key), byte(v))
		return true
	case "pc", ".":
		v, err := mon.parseValue(value)
		if err != nil {
			mon.printf("%v\n", err)
			return true
		}
		reg.PC = v
		mon.printf("Register PC set to $%04X.\n", v)
		return true
	}
	return false
}

func (mon *Monitor) cmdStatus(sel selection) error {
	cfg := mon.m.Config()
	opts := mon.m.CPU.Options()

	speed := "throttled"
	if cfg.Unthrottled {
		speed = "unthrottled"
	}
	mon.printf("Clock:    %s %.0f Hz, %s\n", cfg.Standard, cfg.Standard.Frequency(), speed)
	mon.printf("Opcodes:  illegal=%s decimal=%s\n", opts.Illegal, opts.Decimal)
	mon.printf("Cycles:   %d\n", mon.m.CPU.Cycles)
	if st := mon.m.Stats(); st.Cycles > 0 {
		mon.printf("Last run: %d cycles in %v (%.0f Hz)\n", st.Cycles, st.Elapsed.Round(time.Millisecond), st.Rate)
	}
	if f := mon.m.CPU.Halted(); f != nil {
		mon.printf("Halted:   %v\n", f)
	}
	return nil
}

func (mon *Monitor) cmdStepIn(sel selection) error {
	return mon.stepN(sel, mon.stepIn)
}

func (mon *Monitor) cmdStepOver(sel selection) error {
	return mon.stepN(sel, mon.stepOver)
}

// Run step count times, displaying the last MaxStepLines results.
func (mon *Monitor) stepN(sel selection, step func() error) error {
	count := 1
	if len(sel.Args) > 0 {
		n, err := mon.parseValue(sel.Args[0])
		if err != nil {
			mon.printf("%v\n", err)
			return nil
		}
		count = int(n)
	}

	mon.hit.Store(false)
	for i := count - 1; i >= 0; i-- {
		if err := step(); err != nil {
			mon.printf("Halted: %v.\n", err)
			break
		}
		hit := mon.hit.Load()
		switch {
		case hit || i < mon.settings.MaxStepLines:
			mon.displayPC()
		case i == mon.settings.MaxStepLines:
			mon.println("...")
		}
		if hit {
			break
		}
	}

	mon.settings.NextDisasmAddr = mon.m.CPU.Reg.PC
	return nil
}

func (mon *Monitor) stepIn() error {
	_, err := mon.m.Step()
	return err
}

// Step one instruction, running a called subroutine until it returns.
func (mon *Monitor) stepOver() error {
	c := mon.m.CPU
	inst := c.GetInstruction(c.Reg.PC)
	if inst.Name != "JSR" {
		return mon.stepIn()
	}

	next, sp := c.NextAddr(c.Reg.PC), c.Reg.SP
	for range mon.settings.StepOverLimit {
		if err := mon.stepIn(); err != nil {
			return err
		}
		if (c.Reg.PC == next && c.Reg.SP == sp) || mon.hit.Load() {
			return nil
		}
	}
	mon.printf("Subroutine did not return after %d instructions.\n", mon.settings.StepOverLimit)
	return nil
}

func (mon *Monitor) cmdTrace(sel selection) error {
	h := mon.m.History()
	if h == nil {
		mon.println("Instruction history is disabled.")
		return nil
	}

	count := mon.settings.TraceLines
	if len(sel.Args) > 0 {
		n, err := mon.parseValue(sel.Args[0])
		if err != nil {
			mon.printf("%v\n", err)
			return nil
		}
		count = int(n)
	}

	snaps := h.Snapshots()
	if len(snaps) > count {
		snaps = snaps[len(snaps)-count:]
	}
	for i := range snaps {
		mon.println(trace.Line(&snaps[i]))
	}
	return nil
}
