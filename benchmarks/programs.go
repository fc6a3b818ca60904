package benchmarks

import "github.com/sarchlab/rvsim/insts"

// GetMicrobenchmarks returns the standard set of RV32I programs. Each one
// exercises a different part of the core and leaves a known (a0,a1).
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		addiChain(),
		sumLoop(),
		memoryRoundTrip(),
		functionCall(),
		logicOps(),
		strideStores(),
	}
}

func addi(rd, rs1 uint8, imm int32) uint32 {
	return insts.EncodeI(insts.OpcodeOpImm, rd, 0b000, rs1, imm)
}

func sw(rs2, rs1 uint8, imm int32) uint32 {
	return insts.EncodeS(insts.OpcodeStore, 0b010, rs1, rs2, imm)
}

func lw(rd, rs1 uint8, imm int32) uint32 {
	return insts.EncodeI(insts.OpcodeLoad, rd, 0b010, rs1, imm)
}

func jalr(rd, rs1 uint8, imm int32) uint32 {
	return insts.EncodeI(insts.OpcodeJALR, rd, 0b000, rs1, imm)
}

func bne(rs1, rs2 uint8, imm int32) uint32 {
	return insts.EncodeB(insts.OpcodeBranch, 0b001, rs1, rs2, imm)
}

// 1. The reference two-instruction program
func addiChain() Benchmark {
	return Benchmark{
		Name:        "addi_chain",
		Description: "addi x10,x0,5; addi x11,x10,7",
		Program: BuildProgram(
			addi(10, 0, 5),
			addi(11, 10, 7),
		),
		ExpectedA0: 5,
		ExpectedA1: 12,
	}
}

// 2. Sum 10..1 with a backward bne
func sumLoop() Benchmark {
	return Benchmark{
		Name:        "sum_loop",
		Description: "sum 1..10 in a bne loop",
		Program: BuildProgram(
			addi(5, 0, 10),
			insts.EncodeR(insts.OpcodeOp, 10, 0b000, 10, 5, insts.Funct7Base), // add x10,x10,x5
			addi(5, 5, -1),
			bne(5, 0, -8),
			addi(11, 0, 1),
		),
		ExpectedA0: 55,
		ExpectedA1: 1,
	}
}

// 3. Word stores and loads, plus a sign-extending byte load
func memoryRoundTrip() Benchmark {
	return Benchmark{
		Name:        "memory_round_trip",
		Description: "sw/lw of signed words, lb sign extension",
		Program: BuildProgram(
			addi(5, 0, -3),
			sw(5, 0, 0),
			addi(5, 0, 7),
			sw(5, 0, 4),
			lw(6, 0, 0),
			lw(7, 0, 4),
			insts.EncodeR(insts.OpcodeOp, 10, 0b000, 6, 7, insts.Funct7Base), // add x10,x6,x7
			addi(5, 0, 0xF0),
			sw(5, 0, 8),
			insts.EncodeI(insts.OpcodeLoad, 11, 0b000, 0, 8), // lb x11,8(x0)
		),
		ExpectedA0: 4,
		ExpectedA1: -16,
	}
}

// 4. Call and return through jalr, then jump out of the program
func functionCall() Benchmark {
	return Benchmark{
		Name:        "function_call",
		Description: "jalr call/return and an exit jump past the program",
		Program: BuildProgram(
			addi(5, 0, 20),
			jalr(1, 5, 0), // call 20
			addi(11, 0, 2),
			addi(6, 0, 256),
			jalr(0, 6, 0), // exit
			addi(10, 0, 7),
			jalr(0, 1, 0), // return
		),
		ExpectedA0: 7,
		ExpectedA1: 2,
	}
}

// 5. lui/ori constant building, sltiu and sra
func logicOps() Benchmark {
	return Benchmark{
		Name:        "logic_ops",
		Description: "lui+ori constant, sltiu, and, sra",
		Program: BuildProgram(
			insts.EncodeU(insts.OpcodeLUI, 5, 0x12345),
			insts.EncodeI(insts.OpcodeOpImm, 10, 0b110, 5, 0x678), // ori
			insts.EncodeI(insts.OpcodeOpImm, 7, 0b011, 10, 1),     // sltiu
			insts.EncodeR(insts.OpcodeOp, 10, 0b111, 10, 10, insts.Funct7Base),
			addi(6, 0, -64),
			addi(7, 7, 3),
			insts.EncodeR(insts.OpcodeOp, 11, 0b101, 6, 7, insts.Funct7Alt), // sra
		),
		ExpectedA0: 0x12345678,
		ExpectedA1: -8,
	}
}

// 6. Stores 256 bytes apart so that lines collide in the data cache
func strideStores() Benchmark {
	return Benchmark{
		Name:        "stride_stores",
		Description: "8 stores with a 256-byte stride, then two loads",
		Program: BuildProgram(
			addi(5, 0, 0),
			addi(6, 0, 8),
			sw(6, 5, 0),
			addi(5, 5, 256),
			addi(6, 6, -1),
			bne(6, 0, -12),
			lw(10, 0, 0),
			lw(11, 0, 1792),
		),
		ExpectedA0: 8,
		ExpectedA1: 1,
	}
}
