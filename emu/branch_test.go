package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/insts"
)

var _ = Describe("BranchUnit", func() {
	var unit *emu.BranchUnit

	BeforeEach(func() {
		unit = emu.NewBranchUnit()
	})

	It("should compute the next-PC candidates", func() {
		next := unit.Candidates(0x20, -8, 0x101)

		Expect(next.Sequential).To(Equal(uint32(0x24)))
		Expect(next.BranchTarget).To(Equal(uint32(0x18)))
		Expect(next.JumpTarget).To(Equal(uint32(0xF8)))
	})

	It("should clear bit 0 of the jump target", func() {
		next := unit.Candidates(0, 1, 4)

		Expect(next.JumpTarget).To(Equal(uint32(4)))
	})

	Describe("Resolve", func() {
		next := emu.NextPC{Sequential: 4, BranchTarget: 100, JumpTarget: 200}
		branch := emu.GenerateControl(insts.OpcodeBranch)

		It("should take a branch when the operands differ", func() {
			Expect(unit.Taken(branch, false)).To(BeTrue())
			Expect(unit.Resolve(branch, false, next)).To(Equal(uint32(100)))
		})

		It("should fall through when the operands are equal", func() {
			Expect(unit.Taken(branch, true)).To(BeFalse())
			Expect(unit.Resolve(branch, true, next)).To(Equal(uint32(4)))
		})

		It("should ignore the zero flag for non-branches", func() {
			ctrl := emu.GenerateControl(insts.OpcodeOpImm)

			Expect(unit.Resolve(ctrl, false, next)).To(Equal(uint32(4)))
		})

		It("should let the jump override the branch mux", func() {
			ctrl := emu.GenerateControl(insts.OpcodeJALR)
			ctrl.Branch = true

			Expect(unit.Resolve(ctrl, false, next)).To(Equal(uint32(200)))
		})
	})
})
