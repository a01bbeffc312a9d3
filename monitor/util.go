// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package monitor

import (
	"fmt"
	"strings"
)

// Evaluate an expression as a 16-bit value. Negative results wrap.
func (mon *Monitor) parseValue(s string) (uint16, error) {
	mon.expr.hexMode = mon.settings.HexMode
	v, err := mon.expr.Parse(s, mon)
	if err != nil {
		return 0, err
	}
	if v > 0xffff || v < -0x10000 {
		return 0, fmt.Errorf("value '%s' out of range", s)
	}
	return uint16(v), nil
}

func (mon *Monitor) resolveIdentifier(name string) (int64, error) {
	reg := &mon.m.CPU.Reg
	switch strings.ToLower(name) {
	case "a":
		return int64(reg.A), nil
	case "x":
		return int64(reg.X), nil
	case "y":
		return int64(reg.Y), nil
	case "sp":
		return 0x100 | int64(reg.SP), nil
	case "pc", ".":
		return int64(reg.PC), nil
	case "p":
		return int64(reg.P()), nil
	case "cycles":
		return int64(mon.m.CPU.Cycles), nil
	}
	return 0, fmt.Errorf("identifier '%s' not found", name)
}

func (mon *Monitor) parseByte(s string) (byte, error) {
	v, err := mon.parseValue(s)
	if err != nil {
		return 0, err
	}
	if v > 0xff {
		return 0, fmt.Errorf("value '%s' does not fit in a byte", s)
	}
	return byte(v), nil
}

func stringToBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "0", "false", "off":
		return false, nil
	case "1", "true", "on":
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value '%s'", s)
	}
}

// Map a byte to the character shown in memory dumps. Shifted PETSCII
// letters are folded onto ASCII.
func toPrintableChar(v byte) byte {
	switch {
	case v >= 32 && v < 127:
		return v
	case v >= 160 && v < 255:
		return v - 128
	default:
		return '.'
	}
}
