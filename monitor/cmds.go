// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"strings"

	"github.com/beevik/cmd"
)

// A command is the data stored with each entry of the command tree.
type command struct {
	name        string
	brief       string
	usage       string
	description string
	run         func(*Monitor, selection) error
}

// A selection is a command looked up in the command tree together with
// the arguments that followed it.
type selection struct {
	Command *cmd.Command
	Args    []string
}

// A group is a subtree of commands, listed together by help.
type group struct {
	name  string
	brief string
	cmds  []*command
}

var (
	cmds     *cmd.Tree
	commands []*command
	groups   []*group
)

func add(t *cmd.Tree, g *group, c *command) {
	words := strings.Fields(c.name)
	t.AddCommand(cmd.CommandDescriptor{
		Name:        words[len(words)-1],
		Brief:       c.brief,
		Description: c.description,
		Usage:       c.usage,
		Data:        c,
	})
	commands = append(commands, c)
	if g != nil {
		g.cmds = append(g.cmds, c)
	}
}

func subtree(t *cmd.Tree, name, brief string) (*cmd.Tree, *group) {
	g := &group{name: name, brief: brief}
	groups = append(groups, g)
	return t.AddSubtree(cmd.TreeDescriptor{Name: name, Brief: brief}), g
}

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "go6510"})
	add(root, nil, &command{
		name:        "help",
		description: "Display help for a command.",
		usage:       "help [<command>]",
		run:         (*Monitor).cmdHelp,
	})
	add(root, nil, &command{
		name:  "bank",
		brief: "Display the memory configuration",
		description: "Display the processor port and the ROM, RAM and I/O" +
			" regions the processor currently sees.",
		usage: "bank",
		run:   (*Monitor).cmdBank,
	})

	// Breakpoint commands
	bp, bpg := subtree(root, "breakpoint", "Breakpoint commands")
	add(bp, bpg, &command{
		name:        "breakpoint list",
		brief:       "List breakpoints",
		description: "List all current breakpoints.",
		usage:       "breakpoint list",
		run:         (*Monitor).cmdBreakpointList,
	})
	add(bp, bpg, &command{
		name:  "breakpoint add",
		brief: "Add a breakpoint",
		description: "Add a breakpoint at the specified address." +
			" The breakpoint starts enabled.",
		usage: "breakpoint add <address>",
		run:   (*Monitor).cmdBreakpointAdd,
	})
	add(bp, bpg, &command{
		name:        "breakpoint remove",
		brief:       "Remove a breakpoint",
		description: "Remove a breakpoint at the specified address.",
		usage:       "breakpoint remove <address>",
		run:         (*Monitor).cmdBreakpointRemove,
	})
	add(bp, bpg, &command{
		name:        "breakpoint enable",
		brief:       "Enable a breakpoint",
		description: "Enable a previously added breakpoint.",
		usage:       "breakpoint enable <address>",
		run:         (*Monitor).cmdBreakpointEnable,
	})
	add(bp, bpg, &command{
		name:  "breakpoint disable",
		brief: "Disable a breakpoint",
		description: "Disable a previously added breakpoint. This" +
			" prevents the breakpoint from being hit when running the CPU.",
		usage: "breakpoint disable <address>",
		run:   (*Monitor).cmdBreakpointDisable,
	})

	// Data breakpoint commands
	db, dbg := subtree(root, "databreakpoint", "Data breakpoint commands")
	add(db, dbg, &command{
		name:        "databreakpoint list",
		brief:       "List data breakpoints",
		description: "List all current data breakpoints.",
		usage:       "databreakpoint list",
		run:         (*Monitor).cmdDataBreakpointList,
	})
	add(db, dbg, &command{
		name:  "databreakpoint add",
		brief: "Add a data breakpoint",
		description: "Add a data breakpoint at the specified memory address." +
			" When the CPU stores data at this address, the breakpoint stops" +
			" the CPU. Optionally a byte value may be specified, and the CPU" +
			" stops only when this value is stored.",
		usage: "databreakpoint add <address> [<value>]",
		run:   (*Monitor).cmdDataBreakpointAdd,
	})
	add(db, dbg, &command{
		name:        "databreakpoint remove",
		brief:       "Remove a data breakpoint",
		description: "Remove a data breakpoint at the specified address.",
		usage:       "databreakpoint remove <address>",
		run:         (*Monitor).cmdDataBreakpointRemove,
	})

	add(root, nil, &command{
		name:  "disassemble",
		brief: "Disassemble code",
		description: "Disassemble machine code starting at the requested" +
			" address. The number of instructions to disassemble may be" +
			" specified as an option. Use $ to continue where the last" +
			" disassembly ended.",
		usage: "disassemble [<address>] [<count>]",
		run:   (*Monitor).cmdDisassemble,
	})
	add(root, nil, &command{
		name:  "evaluate",
		brief: "Evaluate an expression",
		description: "Evaluate an expression and display the result in" +
			" hexadecimal and decimal. Expressions may use the registers a," +
			" x, y, sp and pc, the operators + - * / % << >> & ^ | ~ and the" +
			" prefixes < and > for the low and high byte of a value.",
		usage: "evaluate <expression>",
		run:   (*Monitor).cmdEvaluate,
	})
	add(root, nil, &command{
		name:  "graph",
		brief: "Write a graph of the processor state",
		description: "Write the processor state and the debugger in Graphviz" +
			" dot format to a file.",
		usage: "graph <filename>",
		run:   (*Monitor).cmdGraph,
	})
	add(root, nil, &command{
		name:        "irq",
		brief:       "Request a maskable interrupt",
		description: "Assert the IRQ line. It is serviced after the next instruction if interrupts are enabled.",
		usage:       "irq",
		run:         (*Monitor).cmdIRQ,
	})
	add(root, nil, &command{
		name:        "nmi",
		brief:       "Request a non-maskable interrupt",
		description: "Trigger an NMI. It is serviced after the next instruction.",
		usage:       "nmi",
		run:         (*Monitor).cmdNMI,
	})

	// Memory commands
	mem, memg := subtree(root, "memory", "Memory commands")
	add(mem, memg, &command{
		name:  "memory dump",
		brief: "Dump memory at address",
		description: "Dump the contents of memory starting from the" +
			" specified address as the processor sees it. The number of" +
			" bytes to dump may be specified as an option.",
		usage: "memory dump <address> [<bytes>]",
		run:   (*Monitor).cmdMemoryDump,
	})
	add(mem, memg, &command{
		name:  "memory set",
		brief: "Store bytes in memory",
		description: "Store one or more bytes starting at the specified" +
			" address. Stores under ROM land in RAM, and stores to the" +
			" I/O area reach the mapped device.",
		usage: "memory set <address> <byte> [<byte> ...]",
		run:   (*Monitor).cmdMemorySet,
	})

	add(root, nil, &command{
		name:        "quit",
		brief:       "Quit the monitor",
		description: "Quit the monitor.",
		usage:       "quit",
		run:         (*Monitor).cmdQuit,
	})
	add(root, nil, &command{
		name:  "registers",
		brief: "Display register contents",
		description: "Display the current contents of all CPU registers, and" +
			" disassemble the instruction at the current program counter.",
		usage: "registers",
		run:   (*Monitor).cmdRegisters,
	})
	add(root, nil, &command{
		name:        "reset",
		brief:       "Reset the machine",
		description: "Reset the processor port and the processor.",
		usage:       "reset",
		run:         (*Monitor).cmdReset,
	})
	add(root, nil, &command{
		name:  "run",
		brief: "Run the CPU",
		description: "Run the CPU at the configured clock rate until a" +
			" breakpoint is hit, the CPU halts or the user types Ctrl-C." +
			" An optional address sets the program counter first.",
		usage: "run [<address>]",
		run:   (*Monitor).cmdRun,
	})
	add(root, nil, &command{
		name:  "set",
		brief: "Set a register or monitor setting",
		description: "Set the value of a register (a, x, y, sp, pc or a" +
			" flag name) or of a monitor setting. Type set without arguments" +
			" to display all settings.",
		usage: "set <name> <value>",
		run:   (*Monitor).cmdSet,
	})

	add(root, nil, &command{
		name:  "status",
		brief: "Display the machine configuration",
		description: "Display the clock standard and speed, the opcode" +
			" policies, the cycle counter and the pacing of the last run.",
		usage: "status",
		run:   (*Monitor).cmdStatus,
	})

	// Step commands
	st, stg := subtree(root, "step", "Step commands")
	add(st, stg, &command{
		name:  "step in",
		brief: "Step into next instruction",
		description: "Step the CPU by a single instruction. If the" +
			" instruction is a subroutine call, step into the subroutine." +
			" The number of steps may be specified as an option.",
		usage: "step in [<count>]",
		run:   (*Monitor).cmdStepIn,
	})
	add(st, stg, &command{
		name:  "step over",
		brief: "Step over next instruction",
		description: "Step the CPU by a single instruction. If the" +
			" instruction is a subroutine call, run until it returns." +
			" The number of steps may be specified as an option.",
		usage: "step over [<count>]",
		run:   (*Monitor).cmdStepOver,
	})

	add(root, nil, &command{
		name:  "trace",
		brief: "Show recently executed instructions",
		description: "Display the most recently executed instructions from" +
			" the machine's history.",
		usage: "trace [<count>]",
		run:   (*Monitor).cmdTrace,
	})

	root.AddShortcut("?", "help")
	root.AddShortcut("ba", "breakpoint add")
	root.AddShortcut("br", "breakpoint remove")
	root.AddShortcut("bl", "breakpoint list")
	root.AddShortcut("be", "breakpoint enable")
	root.AddShortcut("bd", "breakpoint disable")
	root.AddShortcut("d", "disassemble")
	root.AddShortcut("dba", "databreakpoint add")
	root.AddShortcut("dbr", "databreakpoint remove")
	root.AddShortcut("dbl", "databreakpoint list")
	root.AddShortcut("e", "evaluate")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("ms", "memory set")
	root.AddShortcut("r", "registers")
	root.AddShortcut("s", "step over")
	root.AddShortcut("si", "step in")
	root.AddShortcut("t", "trace")
	root.AddShortcut("x", "quit")

	cmds = root
}
