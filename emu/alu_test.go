package emu_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/insts"
)

var _ = Describe("ALU", func() {
	var alu *emu.ALU

	BeforeEach(func() {
		alu = emu.NewALU()
	})

	DescribeTable("operations",
		func(op emu.ALUOp, a, b, expected int32) {
			Expect(alu.Execute(op, a, b)).To(Equal(expected))
		},
		Entry("AND", emu.ALUAnd, int32(0b1100), int32(0b1010), int32(0b1000)),
		Entry("OR", emu.ALUOr, int32(0b1100), int32(0b1010), int32(0b1110)),
		Entry("ADD", emu.ALUAdd, int32(5), int32(7), int32(12)),
		Entry("ADD wraps", emu.ALUAdd, int32(math.MaxInt32), int32(1), int32(math.MinInt32)),
		Entry("SUB", emu.ALUSub, int32(3), int32(5), int32(-2)),
		Entry("SLTU less", emu.ALUSltu, int32(1), int32(2), int32(1)),
		Entry("SLTU compares unsigned", emu.ALUSltu, int32(-1), int32(2), int32(0)),
		Entry("SLTU equal", emu.ALUSltu, int32(2), int32(2), int32(0)),
		Entry("SRA keeps the sign", emu.ALUSra, int32(-16), int32(2), int32(-4)),
		Entry("SRA uses the low five bits", emu.ALUSra, int32(-16), int32(34), int32(-4)),
		Entry("SRA by 31", emu.ALUSra, int32(math.MinInt32), int32(31), int32(-1)),
	)

	It("should compute the zero flag from the operands regardless of op", func() {
		alu.Execute(emu.ALUOr, 9, 9)
		Expect(alu.Zero()).To(BeTrue())

		alu.Execute(emu.ALUAdd, 9, 8)
		Expect(alu.Zero()).To(BeFalse())
	})

	It("should panic on an unknown op", func() {
		Expect(func() { alu.Execute(emu.ALUOp(0b1111), 1, 2) }).To(Panic())
	})

	It("should name its operations", func() {
		Expect(emu.ALUSra.String()).To(Equal("SRA"))
		Expect(emu.ALUOp(9).String()).To(Equal("ALUOp(9)"))
	})
})

var _ = Describe("SelectALUOp", func() {
	DescribeTable("operation selection",
		func(opcode insts.Opcode, funct3, funct7 uint8, class emu.ALUClass, expected emu.ALUOp) {
			Expect(emu.SelectALUOp(opcode, funct3, funct7, class)).To(Equal(expected))
		},
		Entry("load address", insts.OpcodeLoad, uint8(0b010), uint8(0), emu.ClassAdd, emu.ALUAdd),
		Entry("store address ignores funct3", insts.OpcodeStore, uint8(0b110), uint8(0), emu.ClassAdd, emu.ALUAdd),
		Entry("addi", insts.OpcodeOpImm, uint8(0b000), uint8(0), emu.ClassAdd, emu.ALUAdd),
		Entry("ori", insts.OpcodeOpImm, uint8(0b110), uint8(0), emu.ClassAdd, emu.ALUOr),
		Entry("sltiu", insts.OpcodeOpImm, uint8(0b011), uint8(0), emu.ClassAdd, emu.ALUSltu),
		Entry("branch", insts.OpcodeBranch, uint8(0b001), uint8(0), emu.ClassSub, emu.ALUSub),
		Entry("add", insts.OpcodeOp, uint8(0b000), insts.Funct7Base, emu.ClassFunct, emu.ALUAdd),
		Entry("sub", insts.OpcodeOp, uint8(0b000), insts.Funct7Alt, emu.ClassFunct, emu.ALUSub),
		Entry("sra", insts.OpcodeOp, uint8(0b101), insts.Funct7Alt, emu.ClassFunct, emu.ALUSra),
		Entry("and", insts.OpcodeOp, uint8(0b111), insts.Funct7Base, emu.ClassFunct, emu.ALUAnd),
		Entry("unsupported R-type falls back to add", insts.OpcodeOp, uint8(0b001), insts.Funct7Base, emu.ClassFunct, emu.ALUAdd),
	)

	It("should panic on class 11", func() {
		Expect(func() {
			emu.SelectALUOp(insts.OpcodeOp, 0, 0, emu.ALUClass(0b11))
		}).To(Panic())
	})
})
