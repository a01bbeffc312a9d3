// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements the NMOS 6510 instruction set and a
// cycle-counted emulator for it.
package cpu

// IllegalPolicy selects what the CPU does with undocumented opcodes.
type IllegalPolicy byte

const (
	// Emulate executes undocumented opcodes with the behavior of the NMOS
	// part. The opcodes that lock up the real chip still halt with a fault.
	Emulate IllegalPolicy = iota

	// Trap halts with a fault on any undocumented opcode.
	Trap
)

// Options configure a CPU.
type Options struct {
	Illegal IllegalPolicy
	Decimal DecimalMode
}

// Interrupt identifies an interrupt serviced at an instruction boundary.
type Interrupt byte

const (
	NoInterrupt Interrupt = iota
	InterruptIRQ
	InterruptNMI
)

func (i Interrupt) String() string {
	switch i {
	case InterruptIRQ:
		return "IRQ"
	case InterruptNMI:
		return "NMI"
	default:
		return ""
	}
}

// Interrupt vectors
const (
	vectorNMI   = 0xfffa
	vectorReset = 0xfffc
	vectorIRQ   = 0xfffe
	vectorBRK   = 0xfffe
)

// Cycles spent entering an interrupt handler.
const interruptCycles = 7

// The most stores a single step performs (BRK pushes three bytes).
const maxStores = 4

type pendingStore struct {
	addr uint16
	v    byte
}

// CPU represents a single 6510 CPU. It contains a pointer to the
// memory associated with the CPU.
type CPU struct {
	Reg     Registers       // CPU registers
	Mem     Memory          // assigned memory
	Cycles  uint64          // total executed CPU cycles since reset
	LastPC  uint16          // address of the most recently executed instruction
	InstSet *InstructionSet // instruction set used by the CPU

	opts        Options
	validator   StoreValidator
	deltaCycles int8
	stores      [maxStores]pendingStore
	nstores     int
	irqLine     bool
	nmiPending  bool
	fault       *Fault
	debugger    *Debugger
	observer    Observer
	snap        Snapshot
}

// NewCPU creates an emulated 6510 CPU bound to the specified memory. If the
// memory implements StoreValidator every instruction's stores are checked
// with it before they are committed.
func NewCPU(m Memory, opts Options) *CPU {
	c := &CPU{
		Mem:     m,
		InstSet: GetInstructionSet(),
		opts:    opts,
	}
	c.validator, _ = m.(StoreValidator)
	c.Reg.Init()
	return c
}

// Options returns the options the CPU was created with.
func (c *CPU) Options() Options {
	return c.opts
}

// SetPC updates the CPU program counter to 'addr'.
func (c *CPU) SetPC(addr uint16) {
	c.Reg.PC = addr
}

// GetInstruction returns the instruction opcode at the requested address.
func (c *CPU) GetInstruction(addr uint16) *Instruction {
	return c.InstSet.Lookup(c.Mem.LoadByte(addr))
}

// NextAddr returns the address of the next instruction following the
// instruction at addr.
func (c *CPU) NextAddr(addr uint16) uint16 {
	return addr + uint16(c.GetInstruction(addr).Length)
}

// Halted returns the fault that halted the CPU, or nil if it is running.
func (c *CPU) Halted() *Fault {
	return c.fault
}

// Reset performs the reset sequence: registers are cleared, the stack
// pointer is set to $FD with interrupts disabled, the cycle counter returns
// to zero and execution continues at the address in the reset vector.
// Reset also clears a halt and any pending interrupt.
func (c *CPU) Reset() {
	c.Reg.Init()
	c.Reg.PC = LoadAddress(c.Mem, vectorReset)
	c.Cycles = 0
	c.LastPC = c.Reg.PC
	c.irqLine = false
	c.nmiPending = false
	c.fault = nil
	c.nstores = 0
}

// IRQ asserts the maskable interrupt line. The request is held until it is
// serviced or withdrawn with ClearIRQ.
func (c *CPU) IRQ() {
	c.irqLine = true
}

// ClearIRQ withdraws a pending maskable interrupt request.
func (c *CPU) ClearIRQ() {
	c.irqLine = false
}

// NMI latches a non-maskable interrupt. It is serviced after the current
// instruction regardless of the interrupt disable flag.
func (c *CPU) NMI() {
	c.nmiPending = true
}

// Step executes one instruction and then services a pending interrupt, if
// any. It returns the number of cycles consumed, including the interrupt
// entry sequence.
//
// A step either commits completely or not at all. If the opcode is
// rejected, or if the memory refuses one of the instruction's stores, the
// registers and memory are left as they were before the step and a *Fault
// is returned. The CPU stays halted until Reset.
func (c *CPU) Step() (int, error) {
	if c.fault != nil {
		return 0, c.fault
	}

	// Grab the next opcode at the current PC
	pc := c.Reg.PC
	opcode := c.Mem.LoadByte(pc)

	// Look up the instruction data for the opcode
	inst := c.InstSet.Lookup(opcode)
	switch {
	case inst.Jam:
		c.fault = &Fault{Kind: FaultJam, Addr: pc, Opcode: opcode}
		return 0, c.fault
	case inst.Unofficial && c.opts.Illegal == Trap:
		c.fault = &Fault{Kind: FaultIllegalOpcode, Addr: pc, Opcode: opcode}
		return 0, c.fault
	}

	// Fetch the operand (if any) and advance the PC
	var buf [2]byte
	b := buf[:inst.Length-1]
	for i := range b {
		b[i] = c.Mem.LoadByte(pc + 1 + uint16(i))
	}
	saved := c.Reg
	c.Reg.PC += uint16(inst.Length)

	// Execute the instruction
	c.deltaCycles = 0
	c.nstores = 0
	op := c.resolve(inst.Mode, b)
	inst.fn(c, inst, op)

	if err := c.commit(); err != nil {
		c.Reg = saved
		c.fault = &Fault{Kind: FaultBus, Addr: pc, Opcode: opcode, Err: err}
		return 0, c.fault
	}

	// Update the CPU cycle counter, with special-case logic
	// to handle a page boundary crossing
	cycles := int(inst.Cycles) + int(c.deltaCycles)
	if op.pageCrossed {
		cycles += int(inst.BPCycles)
	}
	c.LastPC = pc

	serviced := c.serviceInterrupt()
	if serviced != NoInterrupt {
		cycles += interruptCycles
	}
	c.Cycles += uint64(cycles)

	if c.observer != nil {
		c.observer.OnStep(c.snapshot(pc, inst, b, cycles, serviced))
	}

	// Update the debugger so it handles breakpoints.
	if c.debugger != nil {
		c.debugger.onUpdatePC(c, c.Reg.PC)
	}
	return cycles, nil
}

// Enter the highest priority pending interrupt handler, if any.
func (c *CPU) serviceInterrupt() Interrupt {
	var which Interrupt
	switch {
	case c.nmiPending:
		c.nmiPending = false
		c.handleInterrupt(false, vectorNMI)
		which = InterruptNMI
	case c.irqLine && !c.Reg.InterruptDisable:
		c.irqLine = false
		c.handleInterrupt(false, vectorIRQ)
		which = InterruptIRQ
	default:
		return NoInterrupt
	}

	// Stack pushes only touch page one, which no memory refuses, so the
	// flush cannot fail here.
	c.flush()
	return which
}

// Read a byte, seeing the stores the current instruction has issued.
func (c *CPU) loadByte(addr uint16) byte {
	for i := c.nstores - 1; i >= 0; i-- {
		if c.stores[i].addr == addr {
			return c.stores[i].v
		}
	}
	return c.Mem.LoadByte(addr)
}

// Queue a store until the instruction commits.
func (c *CPU) storeByte(addr uint16, v byte) {
	if c.nstores == maxStores {
		panic("too many stores in one instruction")
	}
	c.stores[c.nstores] = pendingStore{addr, v}
	c.nstores++
}

// Validate every queued store, then write them in order.
func (c *CPU) commit() error {
	if c.validator != nil {
		for _, s := range c.stores[:c.nstores] {
			if err := c.validator.ValidateStore(s.addr, s.v); err != nil {
				c.nstores = 0
				return err
			}
		}
	}
	c.flush()
	return nil
}

func (c *CPU) flush() {
	for _, s := range c.stores[:c.nstores] {
		c.Mem.StoreByte(s.addr, s.v)
		if c.debugger != nil {
			c.debugger.onDataStore(c, s.addr, s.v)
		}
	}
	c.nstores = 0
}

// Execute a branch to the operand's target, charging one cycle for the
// taken branch and one more if the target lies on another page.
func (c *CPU) branch(op operand) {
	c.Reg.PC = op.addr
	c.deltaCycles++
	if (op.addr^op.base)&0xff00 != 0 {
		c.deltaCycles++
	}
}

// Push a value 'v' onto the stack.
func (c *CPU) push(v byte) {
	c.storeByte(stackAddress(c.Reg.SP), v)
	c.Reg.SP--
}

// Push the address 'addr' onto the stack.
func (c *CPU) pushAddress(addr uint16) {
	c.push(byte(addr >> 8))
	c.push(byte(addr))
}

// Pop a value from the stack and return it.
func (c *CPU) pop() byte {
	c.Reg.SP++
	return c.loadByte(stackAddress(c.Reg.SP))
}

// Pop a 16-bit address off the stack.
func (c *CPU) popAddress() uint16 {
	lo := c.pop()
	hi := c.pop()
	return uint16(lo) | uint16(hi)<<8
}

// Update the Zero and Negative flags based on the value of 'v'.
func (c *CPU) updateNZ(v byte) {
	c.Reg.Zero = v == 0
	c.Reg.Negative = v&0x80 != 0
}

// Push the program counter and status flags, disable interrupts and
// continue at the address stored in the vector.
func (c *CPU) handleInterrupt(brk bool, vector uint16) {
	c.pushAddress(c.Reg.PC)
	c.push(c.Reg.SavePS(brk))
	c.Reg.InterruptDisable = true
	c.Reg.PC = uint16(c.Mem.LoadByte(vector)) | uint16(c.Mem.LoadByte(vector+1))<<8
}
