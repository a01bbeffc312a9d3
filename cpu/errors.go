// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"errors"
	"fmt"
)

// Errors matched by callers with errors.Is.
var (
	ErrIllegalOpcode = errors.New("illegal opcode")
	ErrJam           = errors.New("processor jammed")
	ErrBusFault      = errors.New("bus fault")
)

// FaultKind classifies a Fault.
type FaultKind byte

const (
	// FaultIllegalOpcode is raised for an unofficial opcode while the
	// illegal opcode policy is Trap.
	FaultIllegalOpcode FaultKind = iota

	// FaultJam is raised for one of the opcodes that lock up the NMOS part.
	FaultJam

	// FaultBus is raised when the memory rejected a store of the
	// instruction. Nothing of the instruction was committed.
	FaultBus
)

// A Fault halts the processor. It records the address of the offending
// instruction and its opcode. Once a fault has been raised every further
// Step returns it until the CPU is reset.
type Fault struct {
	Kind   FaultKind
	Addr   uint16 // address of the faulting instruction
	Opcode byte   // opcode at Addr
	Err    error  // underlying memory error for FaultBus
}

func (f *Fault) Error() string {
	switch f.Kind {
	case FaultJam:
		return fmt.Sprintf("processor jammed by opcode $%02X at $%04X", f.Opcode, f.Addr)
	case FaultBus:
		return fmt.Sprintf("bus fault in opcode $%02X at $%04X: %v", f.Opcode, f.Addr, f.Err)
	default:
		return fmt.Sprintf("illegal opcode $%02X at $%04X", f.Opcode, f.Addr)
	}
}

// Unwrap lets errors.Is match the fault against the package sentinels and
// against the memory error that caused a bus fault.
func (f *Fault) Unwrap() []error {
	switch f.Kind {
	case FaultJam:
		return []error{ErrJam}
	case FaultBus:
		return []error{ErrBusFault, f.Err}
	default:
		return []error{ErrIllegalOpcode}
	}
}
