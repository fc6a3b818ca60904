// Package core drives the CPU cycle by cycle and decides when a run ends.
package core

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/sarchlab/rvsim/cache"
	"github.com/sarchlab/rvsim/config"
	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/loader"
)

// ErrCycleLimit is returned by Run when the cycle budget ran out before the
// program halted on its own.
var ErrCycleLimit = errors.New("cycle limit reached")

// HaltReason tells why a run stopped.
type HaltReason int

// Halt reasons.
const (
	HaltNone       HaltReason = iota // still running
	HaltZeroWord                     // fetched the zero word
	HaltPCBound                      // PC moved past the last instruction
	HaltCycleLimit                   // max cycles executed
)

func (r HaltReason) String() string {
	switch r {
	case HaltNone:
		return "running"
	case HaltZeroWord:
		return "zero-word"
	case HaltPCBound:
		return "pc-bound"
	case HaltCycleLimit:
		return "cycle-limit"
	default:
		return fmt.Sprintf("HaltReason(%d)", int(r))
	}
}

// Result is the final state of a run.
type Result struct {
	Reason HaltReason
	Cycles uint64
	PC     uint32
	A0     int32
	A1     int32
}

// Flusher is anything holding data that must reach memory when the run
// ends, such as a write-back cache.
type Flusher interface {
	Flush()
}

// Core wraps a CPU with the run loop's halt conditions.
type Core struct {
	cpu       *emu.CPU
	bound     uint64
	maxCycles uint64
	logger    log.Logger
	flusher   Flusher
	dataCache *cache.Cache
	reason    HaltReason
}

// Option is a functional option for configuring the Core.
type Option func(*Core)

// WithMaxCycles stops the run after n cycles. 0 means no limit.
func WithMaxCycles(n uint64) Option {
	return func(c *Core) {
		c.maxCycles = n
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger log.Logger) Option {
	return func(c *Core) {
		c.logger = logger
	}
}

// WithFlusher registers f to be flushed when the core halts.
func WithFlusher(f Flusher) Option {
	return func(c *Core) {
		c.flusher = f
	}
}

// NewCore creates a Core for a program of instructionCount instructions.
// The run halts once the PC passes instructionCount*4.
func NewCore(cpu *emu.CPU, instructionCount int, opts ...Option) *Core {
	c := &Core{
		cpu:    cpu,
		bound:  uint64(instructionCount) * 4,
		logger: log.NewLogger(log.DiscardHandler()),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewFromConfig builds the memories, optional data cache, CPU and Core
// described by cfg and loads prog. tracer may be nil.
func NewFromConfig(
	cfg *config.Config,
	prog *loader.Program,
	tracer emu.Tracer,
	opts ...Option,
) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if len(prog.Image) > cfg.InstructionMemorySize {
		return nil, fmt.Errorf("%w: %d bytes, memory is %d bytes",
			loader.ErrProgramTooLarge, len(prog.Image), cfg.InstructionMemorySize)
	}

	entry := cfg.EntryPoint
	if len(prog.Segments) > 0 {
		entry = prog.Entry
	}

	dmem := emu.NewMemory(cfg.DataMemorySize)
	cpuOpts := []emu.CPUOption{
		emu.WithInstructionMemorySize(cfg.InstructionMemorySize),
		emu.WithDataMemory(dmem),
		emu.WithEntryPoint(entry),
	}
	if tracer != nil {
		cpuOpts = append(cpuOpts, emu.WithTracer(tracer))
	}

	var dc *cache.Cache
	if cfg.DataCache.Enabled {
		dc = cache.New(cfg.DataCache.Cache(), cache.NewMemoryBacking(dmem))
		cpuOpts = append(cpuOpts, emu.WithDataPort(dc))
		opts = append(opts, WithFlusher(dc))
	}

	opts = append([]Option{WithMaxCycles(cfg.MaxCycles)}, opts...)

	c := NewCore(emu.NewCPU(prog.Image, cpuOpts...), prog.InstructionCount(), opts...)
	c.dataCache = dc

	c.logger.Debug("Core created",
		"imem", cfg.InstructionMemorySize,
		"dmem", cfg.DataMemorySize,
		"instructions", prog.InstructionCount(),
		"entry", fmt.Sprintf("0x%x", entry),
		"dcache", cfg.DataCache.Enabled)

	return c, nil
}

// CPU returns the wrapped CPU.
func (c *Core) CPU() *emu.CPU {
	return c.cpu
}

// DataCache returns the data cache built by NewFromConfig, or nil.
func (c *Core) DataCache() *cache.Cache {
	return c.dataCache
}

// Tick executes one cycle and checks the halt conditions.
func (c *Core) Tick() {
	if c.Halted() {
		return
	}

	if c.cpu.Step().Halted {
		c.halt(HaltZeroWord)
		return
	}

	if uint64(c.cpu.PC()) > c.bound {
		c.halt(HaltPCBound)
		return
	}

	if c.maxCycles > 0 && c.cpu.Cycles() >= c.maxCycles {
		c.halt(HaltCycleLimit)
	}
}

func (c *Core) halt(reason HaltReason) {
	c.reason = reason

	if c.flusher != nil {
		c.flusher.Flush()
	}

	c.logger.Debug("Core halted",
		"reason", reason.String(),
		"cycles", c.cpu.Cycles(),
		"pc", fmt.Sprintf("0x%x", c.cpu.PC()))
}

// Halted returns true once a halt condition was met.
func (c *Core) Halted() bool {
	return c.reason != HaltNone
}

// Reason returns why the core halted, or HaltNone.
func (c *Core) Reason() HaltReason {
	return c.reason
}

// Result returns the current run state.
func (c *Core) Result() Result {
	return Result{
		Reason: c.reason,
		Cycles: c.cpu.Cycles(),
		PC:     c.cpu.PC(),
		A0:     c.cpu.A0(),
		A1:     c.cpu.A1(),
	}
}

// Run ticks until the core halts. It returns ErrCycleLimit alongside the
// result if the cycle budget stopped the run.
func (c *Core) Run() (Result, error) {
	for !c.Halted() {
		c.Tick()
	}

	if c.reason == HaltCycleLimit {
		return c.Result(), fmt.Errorf("%w after %d cycles", ErrCycleLimit, c.cpu.Cycles())
	}

	return c.Result(), nil
}

// RunCycles executes at most cycles cycles.
// Returns true if still running, false if halted.
func (c *Core) RunCycles(cycles uint64) bool {
	for i := uint64(0); i < cycles && !c.Halted(); i++ {
		c.Tick()
	}
	return !c.Halted()
}
