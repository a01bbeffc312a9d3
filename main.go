// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/beevik/go6510/clock"
	"github.com/beevik/go6510/cpu"
	"github.com/beevik/go6510/machine"
	"github.com/beevik/go6510/monitor"
	"github.com/beevik/go6510/rom"
	"github.com/beevik/go6510/statsview"
	"github.com/beevik/term"
)

var (
	romDir     string
	basicPath  string
	kernalPath string
	charPath   string
	ramImage   string
	standard   string
	tracePath  string
	noThrottle bool
	illegal    string
	decimal    string
	useMonitor bool
	history    int
	stats      bool
	verbose    bool
)

func init() {
	flag.StringVar(&romDir, "romdir", rom.DefaultDir(), "directory holding the basic, kernal and chargen images")
	flag.StringVar(&basicPath, "basic", "", "BASIC ROM image (overrides -romdir)")
	flag.StringVar(&kernalPath, "kernal", "", "KERNAL ROM image (overrides -romdir)")
	flag.StringVar(&charPath, "char", "", "character ROM image (overrides -romdir)")
	flag.StringVar(&ramImage, "ramimage", "", "load power-on RAM contents from `file`")
	flag.StringVar(&standard, "clock", "pal", "clock standard: pal or ntsc")
	flag.StringVar(&tracePath, "trace", "", "write an instruction trace to `file` (- for stdout)")
	flag.BoolVar(&noThrottle, "nothrottle", false, "run as fast as possible")
	flag.StringVar(&illegal, "illegal", "emulate", "undocumented opcodes: emulate or trap")
	flag.StringVar(&decimal, "decimal", "nmos", "decimal mode: nmos, bcd or off")
	flag.BoolVar(&useMonitor, "monitor", false, "start in the machine-language monitor")
	flag.IntVar(&history, "history", 256, "instructions kept for the monitor's trace command")
	flag.BoolVar(&stats, "stats", false, "serve runtime statistics at "+statsview.Address)
	flag.BoolVar(&verbose, "v", false, "log debug messages")
	flag.CommandLine.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage: go6510 [options] [script] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, closeTrace, err := config(logger)
	if err != nil {
		exitOnError(err)
	}
	defer closeTrace()

	m, err := machine.New(cfg)
	if err != nil {
		exitOnError(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if stats {
		if err := statsview.Start(context.Background(), logger); err != nil {
			logger.Warn("runtime statistics unavailable", "err", err)
		}
	}

	if !useMonitor && flag.NArg() == 0 {
		err := m.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			exitOnError(err)
		}
		return
	}

	mon := monitor.New(m)
	defer mon.Close()

	// Run commands contained in command-line files.
	for _, filename := range flag.Args() {
		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		err = mon.RunCommands(ctx, file, os.Stdout, false)
		file.Close()
		if err != nil {
			exitOnError(err)
		}
	}
	if !useMonitor {
		return
	}

	// Ctrl-C breaks into the monitor instead of exiting.
	stop()
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		for range c {
			mon.Break()
		}
	}()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if err := mon.RunCommands(context.Background(), os.Stdin, os.Stdout, interactive); err != nil {
		exitOnError(err)
	}
}

// Build the machine configuration from the command line. Every problem
// with the ROM images is reported together.
func config(logger *slog.Logger) (machine.Config, func(), error) {
	cfg := machine.Config{
		Unthrottled: noThrottle,
		History:     history,
		Logger:      logger,
	}
	closeTrace := func() {}

	var errs []error
	var err error
	if cfg.Standard, err = clock.ParseStandard(standard); err != nil {
		errs = append(errs, err)
	}
	if cfg.Illegal, err = cpu.ParseIllegalPolicy(illegal); err != nil {
		errs = append(errs, err)
	}
	if cfg.Decimal, err = cpu.ParseDecimalMode(decimal); err != nil {
		errs = append(errs, err)
	}

	paths := rom.DefaultPaths(romDir)
	for _, p := range []struct {
		dst *string
		src string
	}{{&paths.Basic, basicPath}, {&paths.Kernal, kernalPath}, {&paths.Char, charPath}} {
		if p.src != "" {
			*p.dst = p.src
		}
	}
	if cfg.ROMs, err = rom.LoadSet(paths); err != nil {
		errs = append(errs, err)
	}
	if ramImage != "" {
		if cfg.RAMImage, err = os.ReadFile(ramImage); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return cfg, closeTrace, errors.Join(errs...)
	}

	switch tracePath {
	case "":
	case "-":
		cfg.Trace = os.Stdout
	default:
		f, err := os.Create(tracePath)
		if err != nil {
			return cfg, closeTrace, err
		}
		cfg.Trace = f
		closeTrace = func() { f.Close() }
	}
	return cfg, closeTrace, nil
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
