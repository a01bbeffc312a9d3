// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package monitor implements an interactive machine-language monitor for a
// C64 machine.
//
// Within the monitor it is possible to run and step the processor, set
// address and data breakpoints, dump, modify and disassemble memory,
// inspect the memory configuration, raise interrupts and review the most
// recently executed instructions.
package monitor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/beevik/cmd"
	"github.com/beevik/go6510/cpu"
	"github.com/beevik/go6510/disasm"
	"github.com/beevik/go6510/machine"
)

var errQuit = errors.New("quit")

// A Monitor accepts commands that inspect and control a machine.
type Monitor struct {
	m           *machine.Machine
	debugger    *cpu.Debugger
	settings    *settings
	expr        exprParser
	ctx         context.Context
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	lastCmd     *selection
	hit         atomic.Bool
}

// New creates a monitor controlling m and attaches a debugger to its
// processor.
func New(m *machine.Machine) *Monitor {
	mon := &Monitor{
		m:        m,
		settings: newSettings(),
		ctx:      context.Background(),
	}
	mon.debugger = cpu.NewDebugger(mon)
	m.CPU.AttachDebugger(mon.debugger)
	return mon
}

// Close detaches the monitor's debugger from the processor. Breakpoints
// stop firing afterwards.
func (mon *Monitor) Close() {
	mon.m.CPU.DetachDebugger()
}

// RunCommands accepts monitor commands from a reader and writes the
// results to a writer until the input ends, the quit command is entered or
// ctx is done. If the commands are interactive, a prompt is displayed while
// the monitor waits for the next command. An empty line repeats the
// previous command.
func (mon *Monitor) RunCommands(ctx context.Context, r io.Reader, w io.Writer, interactive bool) error {
	mon.ctx = ctx
	mon.input = bufio.NewScanner(r)
	mon.output = bufio.NewWriter(w)
	mon.interactive = interactive
	defer mon.flush()

	mon.displayPC()

	for ctx.Err() == nil {
		mon.prompt()

		line, err := mon.getLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		var sel selection
		if line != "" {
			n, args, err := cmds.Lookup(line)
			switch {
			case errors.Is(err, cmd.ErrNotFound):
				mon.println("Command not found.")
				continue
			case errors.Is(err, cmd.ErrAmbiguous):
				mon.println("Command is ambiguous.")
				continue
			case err != nil:
				mon.printf("ERROR: %v.\n", err)
				continue
			}
			c, ok := n.(*cmd.Command)
			if !ok {
				mon.println("Incomplete command. Type help for a list of commands.")
				continue
			}
			sel = selection{Command: c, Args: args}
		} else if mon.lastCmd != nil {
			sel = *mon.lastCmd
		}

		if sel.Command == nil {
			continue
		}
		mon.lastCmd = &sel

		c := sel.Command.Data.(*command)
		if err := c.run(mon, sel); err != nil {
			if err == errQuit {
				return nil
			}
			return err
		}
	}
	return nil
}

// Break interrupts a running machine. It may be called from any goroutine.
func (mon *Monitor) Break() {
	mon.m.Stop()
}

// OnBreakpoint implements cpu.BreakpointHandler.
func (mon *Monitor) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	mon.hit.Store(true)
	mon.m.Stop()
	mon.printf("Breakpoint hit at $%04X.\n", b.Address)
}

// OnDataBreakpoint implements cpu.BreakpointHandler.
func (mon *Monitor) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	mon.hit.Store(true)
	mon.m.Stop()
	mon.printf("Data breakpoint hit on address $%04X.\n", b.Address)
}

func (mon *Monitor) printf(format string, args ...any) {
	fmt.Fprintf(mon.output, format, args...)
	mon.flush()
}

func (mon *Monitor) println(args ...any) {
	fmt.Fprintln(mon.output, args...)
	mon.flush()
}

func (mon *Monitor) flush() {
	if mon.output != nil {
		mon.output.Flush()
	}
}

func (mon *Monitor) getLine() (string, error) {
	if mon.input.Scan() {
		return mon.input.Text(), nil
	}
	if err := mon.input.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (mon *Monitor) prompt() {
	if mon.interactive {
		mon.printf("* ")
	}
}

func (mon *Monitor) displayPC() {
	if mon.interactive {
		line, _ := mon.disassemble(mon.m.CPU.Reg.PC, true)
		mon.println(line)
	}
}

// Format the instruction at addr, optionally followed by the registers and
// the cycle counter.
func (mon *Monitor) disassemble(addr uint16, regs bool) (string, uint16) {
	line, next := disasm.Disassemble(mon.m.Bus, addr)
	b := make([]byte, next-addr)
	for i := range b {
		b[i] = mon.m.Bus.Peek(addr + uint16(i))
	}
	s := fmt.Sprintf("%04X-   %s  %-12s", addr, disasm.Bytes(b[0], b[1:]), line)
	if regs {
		c := mon.m.CPU
		s += fmt.Sprintf("  %s C=%d", c.Reg, c.Cycles)
	}
	return s, next
}
