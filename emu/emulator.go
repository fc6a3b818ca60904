package emu

import (
	"github.com/sarchlab/rvsim/insts"
)

// StepResult represents the result of a single cycle.
type StepResult struct {
	// Halted is true if fetch returned the zero sentinel word. Nothing was
	// executed and the PC did not move.
	Halted bool

	// Word is the instruction word that was executed.
	Word uint32
}

// Decoded holds the result of the decode stage.
type Decoded struct {
	Inst    *insts.Instruction
	Control Control

	// Register values read from the register file.
	Rs1Val int32
	Rs2Val int32
}

// WritebackResult holds the result of the writeback stage.
type WritebackResult struct {
	// Rd is the destination register index.
	Rd uint8
	// Value is the value written, or 0 when Written is false.
	Value int32
	// Written is true if the register file changed.
	Written bool
}

// CycleState is a snapshot of every stage output of the current cycle,
// taken after writeback and before the PC update.
type CycleState struct {
	Cycle     uint64
	PC        uint32
	Word      uint32
	Inst      *insts.Instruction
	Control   Control
	Rs1Val    int32
	Rs2Val    int32
	ALUResult int32
	Zero      bool
	Mem       MemoryResult
	Writeback WritebackResult
}

// Tracer observes each executed cycle.
type Tracer interface {
	TraceCycle(state CycleState)
}

// CPU is a single-cycle RV32I core. It owns its register file and both
// memories; every stage reads and writes them through the CPU.
type CPU struct {
	regFile *RegFile
	imem    *Memory
	dmem    *Memory
	decoder *insts.Decoder
	tracer  Tracer

	// Execution units
	alu        *ALU
	memStage   *MemoryStage
	branchUnit *BranchUnit

	// Current cycle latches
	inst      *insts.Instruction
	control   Control
	rs1Val    int32
	rs2Val    int32
	aluResult int32
	mem       MemoryResult
	wb        WritebackResult

	// memReadData keeps the last completed load; dropped loads leave it.
	memReadData int32

	cycles uint64
}

type cpuOptions struct {
	imemSize int
	dmemSize int
	entry    uint32
	dmem     *Memory
	port     DataPort
	tracer   Tracer
}

// CPUOption is a functional option for configuring the CPU.
type CPUOption func(*cpuOptions)

// WithInstructionMemorySize sets the instruction memory size in bytes.
func WithInstructionMemorySize(size int) CPUOption {
	return func(o *cpuOptions) {
		o.imemSize = size
	}
}

// WithDataMemorySize sets the data memory size in bytes.
func WithDataMemorySize(size int) CPUOption {
	return func(o *cpuOptions) {
		o.dmemSize = size
	}
}

// WithDataMemory makes the CPU use m as data memory instead of allocating
// its own. It overrides WithDataMemorySize.
func WithDataMemory(m *Memory) CPUOption {
	return func(o *cpuOptions) {
		o.dmem = m
	}
}

// WithDataPort routes memory-stage accesses through port, e.g. a cache
// backed by the memory given to WithDataMemory.
func WithDataPort(port DataPort) CPUOption {
	return func(o *cpuOptions) {
		o.port = port
	}
}

// WithEntryPoint sets the initial PC.
func WithEntryPoint(pc uint32) CPUOption {
	return func(o *cpuOptions) {
		o.entry = pc
	}
}

// WithTracer installs a per-cycle observer.
func WithTracer(t Tracer) CPUOption {
	return func(o *cpuOptions) {
		o.tracer = t
	}
}

// NewCPU creates a CPU whose instruction memory holds image. The image is
// copied; bytes past the instruction memory size are ignored and the
// remainder is zero. Data memory starts zeroed.
func NewCPU(image []byte, opts ...CPUOption) *CPU {
	o := &cpuOptions{
		imemSize: DefaultMemorySize,
		dmemSize: DefaultMemorySize,
	}
	for _, opt := range opts {
		opt(o)
	}

	imem := NewMemory(o.imemSize)
	imem.LoadImage(image)

	dmem := o.dmem
	if dmem == nil {
		dmem = NewMemory(o.dmemSize)
	}

	port := o.port
	if port == nil {
		port = dmem
	}

	c := &CPU{
		regFile:    &RegFile{PC: o.entry},
		imem:       imem,
		dmem:       dmem,
		decoder:    insts.NewDecoder(),
		tracer:     o.tracer,
		alu:        NewALU(),
		memStage:   NewMemoryStage(port, dmem.Size()),
		branchUnit: NewBranchUnit(),
	}
	c.inst = c.decoder.Decode(0)

	return c
}

// RegFile returns the CPU's register file.
func (c *CPU) RegFile() *RegFile {
	return c.regFile
}

// InstructionMemory returns the CPU's instruction memory.
func (c *CPU) InstructionMemory() *Memory {
	return c.imem
}

// DataMemory returns the CPU's data memory.
func (c *CPU) DataMemory() *Memory {
	return c.dmem
}

// PC returns the current program counter.
func (c *CPU) PC() uint32 {
	return c.regFile.PC
}

// A0 returns register x10.
func (c *CPU) A0() int32 {
	return c.regFile.ReadReg(RegA0)
}

// A1 returns register x11.
func (c *CPU) A1() int32 {
	return c.regFile.ReadReg(RegA1)
}

// Cycles returns the number of cycles executed.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// FetchWord reads the little-endian word at pc. It returns 0, the halt
// sentinel, if the word does not fit inside m. A genuine all-zero
// instruction is indistinguishable from an out-of-range fetch.
func FetchWord(m *Memory, pc uint32) uint32 {
	if !m.Fits(pc, 4) {
		return 0
	}
	return m.Read32(pc)
}

// Fetch reads the instruction at the current PC.
func (c *CPU) Fetch() uint32 {
	return FetchWord(c.imem, c.regFile.PC)
}

// Decode splits word into fields, reads the source registers and derives
// the control vector and immediate.
func (c *CPU) Decode(word uint32) Decoded {
	c.inst = c.decoder.Decode(word)
	c.control = GenerateControl(c.inst.Opcode)
	c.rs1Val = c.regFile.ReadReg(c.inst.Rs1)
	c.rs2Val = c.regFile.ReadReg(c.inst.Rs2)

	return Decoded{
		Inst:    c.inst,
		Control: c.control,
		Rs1Val:  c.rs1Val,
		Rs2Val:  c.rs2Val,
	}
}

// Execute runs the ALU on the decoded operands and returns the execute
// stage output.
func (c *CPU) Execute() int32 {
	op2 := c.rs2Val
	if c.control.ALUSrc {
		op2 = c.inst.Imm
	}

	op := SelectALUOp(c.inst.Opcode, c.inst.Funct3, c.inst.Funct7, c.control.ALUOp)
	c.aluResult = c.alu.Execute(op, c.rs1Val, op2)

	if c.control.LUISel {
		c.aluResult = c.inst.Imm
	}

	return c.aluResult
}

// Mem performs the data-memory access of the current instruction.
func (c *CPU) Mem() MemoryResult {
	c.mem = c.memStage.Access(c.control, c.inst.Funct3, c.aluResult, c.rs2Val)
	if c.mem.Loaded {
		c.memReadData = c.mem.Data
	}

	return c.mem
}

// Writeback commits the result of the current instruction to rd.
func (c *CPU) Writeback() WritebackResult {
	rd := c.inst.Rd
	if !c.control.RegWrite || rd == 0 {
		c.wb = WritebackResult{Rd: rd}
		return c.wb
	}

	value := c.aluResult
	if c.control.MemToReg {
		value = c.memReadData
	}

	// jalr links the return address.
	if c.control.LinkSel {
		value = int32(c.regFile.PC + 4)
	}

	c.regFile.WriteReg(rd, value)
	c.wb = WritebackResult{Rd: rd, Value: value, Written: true}

	return c.wb
}

// UpdatePC moves the PC to the next instruction and returns it.
func (c *CPU) UpdatePC() uint32 {
	next := c.branchUnit.Candidates(c.regFile.PC, c.inst.Imm, c.rs1Val)
	c.regFile.PC = c.branchUnit.Resolve(c.control, c.alu.Zero(), next)

	return c.regFile.PC
}

// State returns a snapshot of the current cycle.
func (c *CPU) State() CycleState {
	return CycleState{
		Cycle:     c.cycles,
		PC:        c.regFile.PC,
		Word:      c.inst.Word,
		Inst:      c.inst,
		Control:   c.control,
		Rs1Val:    c.rs1Val,
		Rs2Val:    c.rs2Val,
		ALUResult: c.aluResult,
		Zero:      c.alu.Zero(),
		Mem:       c.mem,
		Writeback: c.wb,
	}
}

// Step executes one cycle: fetch, decode, execute, memory, writeback and
// PC update. A zero word halts before decode.
func (c *CPU) Step() StepResult {
	word := c.Fetch()
	if word == 0 {
		return StepResult{Halted: true}
	}

	c.Decode(word)
	c.Execute()
	c.Mem()
	c.Writeback()

	if c.tracer != nil {
		c.tracer.TraceCycle(c.State())
	}

	c.UpdatePC()
	c.cycles++

	return StepResult{Word: word}
}
