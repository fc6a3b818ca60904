package emu

import "github.com/sarchlab/rvsim/insts"

// ALUClass is the 2-bit operation class the control unit hands to the ALU
// selector.
type ALUClass uint8

// ALU operation classes.
const (
	ClassAdd   ALUClass = 0b00 // address calculation and immediate arithmetic
	ClassSub   ALUClass = 0b01 // branch comparison
	ClassFunct ALUClass = 0b10 // decode funct3/funct7
)

// Control is the control-signal vector for one cycle. It is a pure function
// of the opcode and is recomputed from scratch every cycle.
type Control struct {
	RegWrite bool     // Write the writeback value to rd
	MemRead  bool     // Load from data memory
	MemWrite bool     // Store to data memory
	Branch   bool     // Select PC+imm when the ALU operands differ
	ALUSrc   bool     // Second ALU operand is the immediate, not rs2
	MemToReg bool     // Writeback source is memory data, not the ALU
	ALUOp    ALUClass // Operation class for the ALU selector
	LUISel   bool     // Execute-stage output is the immediate itself
	LinkSel  bool     // Writeback value is PC+4
	JumpSel  bool     // Next PC is (rs1+imm) with bit 0 cleared
}

// controlTable holds the vector for every recognized opcode. Missing
// entries are the zero Control: no writes, no memory access, PC+4.
var controlTable = map[insts.Opcode]Control{
	insts.OpcodeOp: {
		RegWrite: true,
		ALUOp:    ClassFunct,
	},
	insts.OpcodeOpImm: {
		RegWrite: true,
		ALUSrc:   true,
	},
	insts.OpcodeLUI: {
		RegWrite: true,
		ALUSrc:   true,
		LUISel:   true,
	},
	insts.OpcodeLoad: {
		RegWrite: true,
		MemRead:  true,
		ALUSrc:   true,
		MemToReg: true,
	},
	insts.OpcodeStore: {
		MemWrite: true,
		ALUSrc:   true,
		MemToReg: true,
	},
	insts.OpcodeBranch: {
		Branch:   true,
		ALUOp:    ClassSub,
		MemToReg: true,
	},
	insts.OpcodeJALR: {
		RegWrite: true,
		ALUSrc:   true,
		LinkSel:  true,
		JumpSel:  true,
	},
}

// GenerateControl returns the control vector for opcode. It is total:
// unrecognized opcodes get the all-disabled vector.
func GenerateControl(opcode insts.Opcode) Control {
	return controlTable[opcode]
}
