package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Field extraction", func() {
		// add x3, x1, x2 -> 0x002081B3
		It("should split an R-type word into its fields", func() {
			inst := decoder.Decode(0x002081B3)

			Expect(inst.Word).To(Equal(uint32(0x002081B3)))
			Expect(inst.Opcode).To(Equal(insts.OpcodeOp))
			Expect(inst.Rd).To(Equal(uint8(3)))
			Expect(inst.Funct3).To(Equal(uint8(0)))
			Expect(inst.Rs1).To(Equal(uint8(1)))
			Expect(inst.Rs2).To(Equal(uint8(2)))
			Expect(inst.Funct7).To(Equal(uint8(0)))
			Expect(inst.Format).To(Equal(insts.FormatR))
		})

		It("should extract the top seven bits as funct7", func() {
			inst := decoder.Decode(0xFE000000)

			Expect(inst.Funct7).To(Equal(uint8(0x7F)))
			Expect(inst.Opcode).To(Equal(insts.Opcode(0)))
		})

		It("should extract all-ones fields without bleeding into neighbours", func() {
			inst := decoder.Decode(0xFFFFFFFF)

			Expect(inst.Opcode).To(Equal(insts.Opcode(0x7F)))
			Expect(inst.Rd).To(Equal(uint8(0x1F)))
			Expect(inst.Funct3).To(Equal(uint8(0x7)))
			Expect(inst.Rs1).To(Equal(uint8(0x1F)))
			Expect(inst.Rs2).To(Equal(uint8(0x1F)))
			Expect(inst.Funct7).To(Equal(uint8(0x7F)))
		})
	})

	DescribeTable("Mnemonic identification",
		func(word uint32, op insts.Op, format insts.Format) {
			inst := decoder.Decode(word)
			Expect(inst.Op).To(Equal(op))
			Expect(inst.Format).To(Equal(format))
		},
		Entry("add x3, x1, x2", uint32(0x002081B3), insts.OpADD, insts.FormatR),
		Entry("sub x3, x1, x2", uint32(0x402081B3), insts.OpSUB, insts.FormatR),
		Entry("sra x3, x1, x2", uint32(0x4020D1B3), insts.OpSRA, insts.FormatR),
		Entry("and x3, x1, x2", uint32(0x0020F1B3), insts.OpAND, insts.FormatR),
		Entry("or x3, x1, x2 is not implemented", uint32(0x0020E1B3), insts.OpUnknown, insts.FormatR),
		Entry("addi x10, x0, 5", uint32(0x00500513), insts.OpADDI, insts.FormatI),
		Entry("ori x5, x6, 15", uint32(0x00F36293), insts.OpORI, insts.FormatI),
		Entry("sltiu x5, x6, 1", uint32(0x00133293), insts.OpSLTIU, insts.FormatI),
		Entry("lui x5, 0x12345", uint32(0x123452B7), insts.OpLUI, insts.FormatU),
		Entry("lb x6, 4(x2)", uint32(0x00410303), insts.OpLB, insts.FormatI),
		Entry("lbu x6, 4(x2)", uint32(0x00414303), insts.OpLBU, insts.FormatI),
		Entry("lw x6, 4(x2)", uint32(0x00412303), insts.OpLW, insts.FormatI),
		Entry("sh x5, 12(x2)", uint32(0x00511623), insts.OpSH, insts.FormatS),
		Entry("sw x5, 12(x2)", uint32(0x00512623), insts.OpSW, insts.FormatS),
		Entry("bne x1, x2, 8", uint32(0x00209463), insts.OpBNE, insts.FormatB),
		Entry("jalr x1, 0(x5)", uint32(0x000280E7), insts.OpJALR, insts.FormatI),
		Entry("zero word", uint32(0x00000000), insts.OpUnknown, insts.FormatUnknown),
		Entry("jal is not implemented", uint32(0x008000EF), insts.OpUnknown, insts.FormatUnknown),
	)

	Describe("Immediate attachment", func() {
		It("should attach the I-type immediate", func() {
			inst := decoder.Decode(0x00500513)
			Expect(inst.Imm).To(Equal(int32(5)))
		})

		It("should attach the branch offset", func() {
			inst := decoder.Decode(0x00209463)
			Expect(inst.Imm).To(Equal(int32(8)))
		})

		It("should attach no immediate to R-type words", func() {
			inst := decoder.Decode(0xFE2081B3)
			Expect(inst.Imm).To(BeZero())
		})
	})

	Describe("Encode round trip", func() {
		It("should decode what EncodeR produced", func() {
			word := insts.EncodeR(insts.OpcodeOp, 7, 0b101, 8, 9, insts.Funct7Alt)
			inst := decoder.Decode(word)

			Expect(inst.Op).To(Equal(insts.OpSRA))
			Expect(inst.Rd).To(Equal(uint8(7)))
			Expect(inst.Rs1).To(Equal(uint8(8)))
			Expect(inst.Rs2).To(Equal(uint8(9)))
		})

		It("should decode what EncodeS produced", func() {
			word := insts.EncodeS(insts.OpcodeStore, 0b010, 2, 5, -4)
			inst := decoder.Decode(word)

			Expect(inst.Op).To(Equal(insts.OpSW))
			Expect(inst.Rs1).To(Equal(uint8(2)))
			Expect(inst.Rs2).To(Equal(uint8(5)))
			Expect(inst.Imm).To(Equal(int32(-4)))
		})

		It("should decode what EncodeU produced", func() {
			word := insts.EncodeU(insts.OpcodeLUI, 5, 0x12345)
			Expect(word).To(Equal(uint32(0x123452B7)))
		})
	})
})
