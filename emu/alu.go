package emu

import (
	"fmt"

	"github.com/sarchlab/rvsim/insts"
)

// ALUOp is the 4-bit operation the ALU executes.
type ALUOp uint8

// ALU operations.
const (
	ALUAnd  ALUOp = 0b0000
	ALUOr   ALUOp = 0b0001
	ALUAdd  ALUOp = 0b0010
	ALUSltu ALUOp = 0b0011
	ALUSub  ALUOp = 0b0110
	ALUSra  ALUOp = 0b0111
)

func (op ALUOp) String() string {
	switch op {
	case ALUAnd:
		return "AND"
	case ALUOr:
		return "OR"
	case ALUAdd:
		return "ADD"
	case ALUSltu:
		return "SLTU"
	case ALUSub:
		return "SUB"
	case ALUSra:
		return "SRA"
	default:
		return fmt.Sprintf("ALUOp(%d)", uint8(op))
	}
}

// SelectALUOp narrows the 2-bit class from the control unit to a concrete
// operation. A class the control table never produces panics.
func SelectALUOp(opcode insts.Opcode, funct3, funct7 uint8, class ALUClass) ALUOp {
	switch class {
	case ClassAdd:
		if opcode == insts.OpcodeOpImm {
			return selectImmOp(funct3)
		}
		return ALUAdd
	case ClassSub:
		return ALUSub
	case ClassFunct:
		return selectRegOp(funct3, funct7)
	default:
		panic(fmt.Sprintf("emu: invalid ALU class %d", uint8(class)))
	}
}

func selectImmOp(funct3 uint8) ALUOp {
	switch funct3 {
	case 0b110:
		return ALUOr
	case 0b011:
		return ALUSltu
	default:
		return ALUAdd
	}
}

func selectRegOp(funct3, funct7 uint8) ALUOp {
	switch {
	case funct3 == 0b000 && funct7 == insts.Funct7Base:
		return ALUAdd
	case funct3 == 0b000 && funct7 == insts.Funct7Alt:
		return ALUSub
	case funct3 == 0b101 && funct7 == insts.Funct7Alt:
		return ALUSra
	case funct3 == 0b111 && funct7 == insts.Funct7Base:
		return ALUAnd
	default:
		return ALUAdd
	}
}

// ALU implements the RV32I arithmetic and logic operations.
type ALU struct {
	zero bool
}

// NewALU creates a new ALU.
func NewALU() *ALU {
	return &ALU{}
}

// Execute performs op on the operands. Every call also recomputes the zero
// flag as a-b == 0, whatever op is. An unknown op panics.
func (a *ALU) Execute(op ALUOp, op1, op2 int32) int32 {
	var result int32

	switch op {
	case ALUAnd:
		result = op1 & op2
	case ALUOr:
		result = op1 | op2
	case ALUAdd:
		result = op1 + op2
	case ALUSltu:
		if uint32(op1) < uint32(op2) {
			result = 1
		}
	case ALUSub:
		result = op1 - op2
	case ALUSra:
		result = op1 >> (uint32(op2) & 0x1F)
	default:
		panic(fmt.Sprintf("emu: unknown ALU operation %v", op))
	}

	a.zero = op1-op2 == 0

	return result
}

// Zero reports whether the operands of the last Execute were equal.
func (a *ALU) Zero() bool {
	return a.zero
}
