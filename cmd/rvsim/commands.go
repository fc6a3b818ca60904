package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/sarchlab/rvsim/benchmarks"
	"github.com/sarchlab/rvsim/core"
	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/insts"
	"github.com/sarchlab/rvsim/trace"
)

func runCmd(cliCtx *cli.Context) error {
	logger, err := newLogger(cliCtx)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cliCtx)
	if err != nil {
		return err
	}

	prog, err := loadProgram(cliCtx, cfg)
	if err != nil {
		return err
	}
	logger.Info("Program loaded",
		"path", cliCtx.Args().First(),
		"bytes", len(prog.Image),
		"instructions", prog.InstructionCount())

	w := cliCtx.App.Writer

	var tracer emu.Tracer
	if cfg.Trace {
		tracer = trace.NewPrinter(w, cfg.Color)
	}

	c, err := core.NewFromConfig(cfg, prog, tracer, core.WithLogger(logger))
	if err != nil {
		return err
	}

	result, runErr := c.Run()
	if runErr != nil && !errors.Is(runErr, core.ErrCycleLimit) {
		return runErr
	}

	fmt.Fprintf(w, "(%d,%d)\n", result.A0, result.A1)

	if cliCtx.Bool(RegsFlagName) {
		printRegisters(w, c.CPU().RegFile())
	}

	if dc := c.DataCache(); dc != nil {
		stats := dc.Stats()
		logger.Debug("Data cache",
			"reads", stats.Reads,
			"writes", stats.Writes,
			"hits", stats.Hits,
			"misses", stats.Misses,
			"writebacks", stats.Writebacks,
			"hit_rate", fmt.Sprintf("%.2f", stats.HitRate()))
	}

	logger.Info("Run finished",
		"reason", result.Reason.String(),
		"cycles", result.Cycles,
		"pc", fmt.Sprintf("0x%x", result.PC))

	return runErr
}

func printRegisters(w io.Writer, regFile *emu.RegFile) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Reg", "ABI", "Value", "Hex"})
	for i := uint8(0); i < emu.NumRegs; i++ {
		v := regFile.ReadReg(i)
		t.AppendRow(table.Row{fmt.Sprintf("x%d", i), emu.ABINames[i], v, fmt.Sprintf("0x%08x", uint32(v))})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"pc", "", regFile.PC, fmt.Sprintf("0x%08x", regFile.PC)})
	t.Render()
}

func disasmCmd(cliCtx *cli.Context) error {
	cfg, err := loadConfig(cliCtx)
	if err != nil {
		return err
	}

	prog, err := loadProgram(cliCtx, cfg)
	if err != nil {
		return err
	}

	mem := emu.NewMemory(cfg.InstructionMemorySize)
	mem.LoadImage(prog.Image)

	start := cfg.EntryPoint
	if len(prog.Segments) > 0 {
		start = prog.Entry
	}

	decoder := insts.NewDecoder()
	w := cliCtx.App.Writer
	for pc := start; ; pc += 4 {
		word := emu.FetchWord(mem, pc)
		if word == 0 {
			break
		}
		fmt.Fprintf(w, "%08x:  %08x  %s\n", pc, word, decoder.Decode(word))
	}

	return nil
}

func benchCmd(cliCtx *cli.Context) error {
	cfg := benchmarks.DefaultConfig()
	cfg.EnableDCache = cliCtx.Bool(DCacheFlagName)
	cfg.Output = cliCtx.App.Writer

	harness := benchmarks.NewHarness(cfg)
	harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	results := harness.RunAll()

	if cliCtx.Bool(JSONFlagName) {
		if err := harness.PrintJSON(results); err != nil {
			return err
		}
	} else {
		harness.PrintResults(results)
	}

	if !benchmarks.AllPassed(results) {
		return errors.New("some benchmarks failed")
	}
	return nil
}

func configCmd(cliCtx *cli.Context) error {
	cfg, err := loadConfig(cliCtx)
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	_, err = cliCtx.App.Writer.Write(data)
	return err
}
