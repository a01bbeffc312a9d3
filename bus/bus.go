// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bus implements the C64 memory bus: 64K of RAM, the ROMs that
// the 6510 processor port banks in over it, and the I/O window where the
// peripheral chips live.
package bus

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/beevik/go6510/rom"
)

// OpenBus is the value read from an address that nothing drives.
const OpenBus = 0xff

// Address ranges of the banked regions.
const (
	BasicStart  = 0xa000
	BasicEnd    = 0xbfff
	IOStart     = 0xd000
	IOEnd       = 0xdfff
	ColorStart  = 0xd800
	ColorEnd    = 0xdbff
	KernalStart = 0xe000
)

// Processor port bits.
const (
	LORAM  = 1 << 0
	HIRAM  = 1 << 1
	CHAREN = 1 << 2
)

// Port register values after reset.
const (
	resetDDR  = 0x2f
	resetPort = 0x37
)

// Errors
var (
	ErrMappingOverlap    = errors.New("I/O mapping overlaps an existing mapping")
	ErrMappingRange      = errors.New("I/O mapping outside the I/O pages")
	ErrInvalidBankConfig = errors.New("bank configuration maps a missing ROM")
)

// A Device is a peripheral chip decoded into the I/O window. Addresses
// passed to it are full bus addresses.
type Device interface {
	Read(addr uint16) byte
	Write(addr uint16, v byte)
}

// A Peeker is a Device that can report register contents without the side
// effects of a real read.
type Peeker interface {
	Peek(addr uint16) byte
}

// Region describes what is visible in the $D000-$DFFF window.
type Region byte

const (
	RegionRAM Region = iota
	RegionIO
	RegionChar
)

func (r Region) String() string {
	switch r {
	case RegionIO:
		return "I/O"
	case RegionChar:
		return "CHAR"
	default:
		return "RAM"
	}
}

// Banks describes the current memory configuration.
type Banks struct {
	Basic  bool   // BASIC ROM at $A000-$BFFF
	Kernal bool   // KERNAL ROM at $E000-$FFFF
	D000   Region // contents of $D000-$DFFF
}

func (b Banks) String() string {
	onOff := func(v bool) string {
		if v {
			return "ROM"
		}
		return "RAM"
	}
	return fmt.Sprintf("$A000:%s $D000:%s $E000:%s", onOff(b.Basic), b.D000, onOff(b.Kernal))
}

// Bus is the C64 memory map as seen by the processor.
type Bus struct {
	ram    [64 * 1024]byte
	color  [1024]byte
	basic  []byte
	kernal []byte
	char   []byte
	ddr    byte
	port   byte
	banks  Banks
	io     [16]Device // one entry per I/O page
	log    *slog.Logger
}

// New creates a bus with the given ROM images. Missing images are allowed;
// the bus then refuses to bank them in (see ValidateStore). A nil logger
// discards log output.
func New(roms *rom.Set, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b := &Bus{log: logger}
	if roms != nil {
		b.basic, b.kernal, b.char = roms.Basic, roms.Kernal, roms.Char
	}
	b.Reset()
	return b
}

// Reset returns the processor port to its power-on configuration. RAM is
// left untouched.
func (b *Bus) Reset() {
	b.ddr = resetDDR
	b.port = resetPort
	b.banks = b.decode(b.ddr, b.port)
}

// Map decodes a device into the I/O pages from start to end inclusive.
// Both ends must be page aligned and the range must not cover colour RAM
// or another device.
func (b *Bus) Map(start, end uint16, dev Device) error {
	if start < IOStart || end > IOEnd || start > end || start&0xff != 0 || end&0xff != 0xff {
		return fmt.Errorf("%w: $%04X-$%04X", ErrMappingRange, start, end)
	}
	first, last := (start-IOStart)>>8, (end-IOStart)>>8
	for p := first; p <= last; p++ {
		page := IOStart + p<<8
		if b.io[p] != nil || (page >= ColorStart && page <= ColorEnd) {
			return fmt.Errorf("%w: $%04X-$%04X", ErrMappingOverlap, start, end)
		}
	}
	for p := first; p <= last; p++ {
		b.io[p] = dev
	}
	b.log.Debug("device mapped", "start", fmt.Sprintf("$%04X", start), "end", fmt.Sprintf("$%04X", end))
	return nil
}

// Banks returns the current memory configuration.
func (b *Bus) Banks() Banks {
	return b.banks
}

// Port returns the processor port direction and data registers.
func (b *Bus) Port() (ddr, data byte) {
	return b.ddr, b.port
}

// Compute the visible regions for a port setting. Input bits are pulled
// high, and no cartridge is present.
func (b *Bus) decode(ddr, port byte) Banks {
	bits := (port | ^ddr) & (LORAM | HIRAM | CHAREN)
	banks := Banks{
		Basic:  bits&(LORAM|HIRAM) == LORAM|HIRAM,
		Kernal: bits&HIRAM != 0,
	}
	switch {
	case bits&(LORAM|HIRAM) == 0:
		banks.D000 = RegionRAM
	case bits&CHAREN != 0:
		banks.D000 = RegionIO
	default:
		banks.D000 = RegionChar
	}
	return banks
}

// LoadByte returns the value the processor reads at addr.
func (b *Bus) LoadByte(addr uint16) byte {
	return b.read(addr, false)
}

// Peek returns the value at addr like LoadByte, but without triggering the
// read side effects of I/O devices.
func (b *Bus) Peek(addr uint16) byte {
	return b.read(addr, true)
}

func (b *Bus) read(addr uint16, peek bool) byte {
	switch {
	case addr == 0:
		return b.ddr
	case addr == 1:
		return b.port&b.ddr | ^b.ddr&0x17
	case addr >= BasicStart && addr <= BasicEnd:
		if b.banks.Basic {
			return romByte(b.basic, addr-BasicStart)
		}
	case addr >= IOStart && addr <= IOEnd:
		switch b.banks.D000 {
		case RegionIO:
			return b.readIO(addr, peek)
		case RegionChar:
			return romByte(b.char, addr-IOStart)
		}
	case addr >= KernalStart:
		if b.banks.Kernal {
			return romByte(b.kernal, addr-KernalStart)
		}
	}
	return b.ram[addr]
}

func romByte(image []byte, offset uint16) byte {
	if int(offset) < len(image) {
		return image[offset]
	}
	return OpenBus
}

func (b *Bus) readIO(addr uint16, peek bool) byte {
	if addr >= ColorStart && addr <= ColorEnd {
		// Only the low nibble is stored; the high nibble floats.
		return OpenBus&0xf0 | b.color[addr-ColorStart]
	}
	dev := b.io[(addr-IOStart)>>8]
	switch {
	case dev == nil:
		return OpenBus
	case peek:
		if p, ok := dev.(Peeker); ok {
			return p.Peek(addr)
		}
		return OpenBus
	default:
		return dev.Read(addr)
	}
}

// StoreByte performs a processor write. Writes under a ROM always reach the
// RAM below it. Writes to the processor port also land in RAM.
func (b *Bus) StoreByte(addr uint16, v byte) {
	switch {
	case addr <= 1:
		if addr == 0 {
			b.ddr = v
		} else {
			b.port = v
		}
		b.ram[addr] = v
		b.updateBanks()
		return
	case addr >= IOStart && addr <= IOEnd && b.banks.D000 == RegionIO:
		b.writeIO(addr, v)
		return
	}
	b.ram[addr] = v
}

func (b *Bus) writeIO(addr uint16, v byte) {
	if addr >= ColorStart && addr <= ColorEnd {
		b.color[addr-ColorStart] = v & 0x0f
		return
	}
	if dev := b.io[(addr-IOStart)>>8]; dev != nil {
		dev.Write(addr, v)
	}
}

func (b *Bus) updateBanks() {
	banks := b.decode(b.ddr, b.port)
	if banks != b.banks {
		b.log.Debug("bank switch", "ddr", fmt.Sprintf("$%02X", b.ddr),
			"port", fmt.Sprintf("$%02X", b.port), "banks", banks.String())
		b.banks = banks
	}
}

// ValidateStore reports whether storing v at addr would bank in a ROM whose
// image was not supplied. Only stores to the processor port can fail.
func (b *Bus) ValidateStore(addr uint16, v byte) error {
	if addr > 1 {
		return nil
	}
	ddr, port := b.ddr, b.port
	if addr == 0 {
		ddr = v
	} else {
		port = v
	}
	next := b.decode(ddr, port)
	switch {
	case next.Basic && !b.banks.Basic && b.basic == nil:
		return fmt.Errorf("%w: BASIC", ErrInvalidBankConfig)
	case next.Kernal && !b.banks.Kernal && b.kernal == nil:
		return fmt.Errorf("%w: KERNAL", ErrInvalidBankConfig)
	case next.D000 == RegionChar && b.banks.D000 != RegionChar && b.char == nil:
		return fmt.Errorf("%w: CHAR", ErrInvalidBankConfig)
	}
	return nil
}

// Load copies b into RAM starting at addr, bypassing the banking logic.
func (b *Bus) Load(addr uint16, data []byte) {
	for i, v := range data {
		b.ram[addr+uint16(i)] = v
	}
}

// RAM returns the byte stored in RAM at addr, regardless of what the
// processor currently sees there.
func (b *Bus) RAM(addr uint16) byte {
	return b.ram[addr]
}

// State is a copy of everything the bus stores. ROM images and device
// mappings are configuration and are not part of it.
type State struct {
	RAM   [64 * 1024]byte
	Color [1024]byte
	DDR   byte
	Port  byte
}

// Save copies the bus contents.
func (b *Bus) Save() *State {
	return &State{RAM: b.ram, Color: b.color, DDR: b.ddr, Port: b.port}
}

// Restore replaces the bus contents with a saved copy.
func (b *Bus) Restore(s *State) {
	b.ram = s.RAM
	b.color = s.Color
	b.ddr = s.DDR
	b.port = s.Port
	b.banks = b.decode(b.ddr, b.port)
}
