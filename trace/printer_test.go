package trace_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/emu"
	"github.com/sarchlab/rvsim/insts"
	"github.com/sarchlab/rvsim/trace"
)

func image(words ...uint32) []byte {
	out := make([]byte, 0, len(words)*4)
	for _, w := range words {
		out = append(out, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	return out
}

func runTraced(color bool, words ...uint32) string {
	buf := &bytes.Buffer{}
	cpu := emu.NewCPU(image(words...), emu.WithTracer(trace.NewPrinter(buf, color)))
	for !cpu.Step().Halted {
	}
	return buf.String()
}

var _ = Describe("Printer", func() {
	It("should print decode, execute and writeback for an addi", func() {
		out := runTraced(false, 0x00500513)

		Expect(out).To(Equal("================== CYCLE 0 ==================\n" +
			"PC: 0x0\n" +
			"Instruction: 0x00500513  [addi x10, x0, 5]\n" +
			"--- DECODE ---\n" +
			"rs1: x0 = 0   rs2: x5 = 0\n" +
			"Immediate: 5\n" +
			"--- EXECUTE ---\n" +
			"ALU Result: 5 (Zero Flag: F)\n" +
			"--- WRITE BACK ---\n" +
			"Writing 5 to register x10\n" +
			"\n"))
	})

	It("should print memory accesses", func() {
		out := runTraced(false,
			insts.EncodeI(insts.OpcodeOpImm, 5, 0, 0, -7),
			insts.EncodeS(insts.OpcodeStore, 0b010, 0, 5, 12),
			insts.EncodeI(insts.OpcodeLoad, 6, 0b010, 0, 12),
		)

		Expect(out).To(ContainSubstring("CYCLE 2"))
		Expect(out).To(ContainSubstring("Writing -7 to address 12\n"))
		Expect(out).To(ContainSubstring("Reading from address 12, Value: -7\n"))
		Expect(out).To(ContainSubstring("Writing -7 to register x6\n"))
	})

	It("should mark dropped accesses", func() {
		out := runTraced(false,
			insts.EncodeI(insts.OpcodeOpImm, 1, 0, 0, 2047),
			insts.EncodeI(insts.OpcodeLoad, 6, 0b010, 1, 2047),
		)

		Expect(out).To(ContainSubstring("Reading from address 4094, dropped\n"))
	})

	It("should omit writeback for stores and branches", func() {
		out := runTraced(false, insts.EncodeB(insts.OpcodeBranch, 0b001, 0, 0, 8))

		Expect(out).NotTo(ContainSubstring("WRITE BACK"))
		Expect(out).To(ContainSubstring("Zero Flag: T"))
	})

	It("should emit ANSI escapes when colored", func() {
		out := runTraced(true, 0x00500513)

		Expect(out).To(ContainSubstring("\x1b["))
		Expect(out).To(ContainSubstring("CYCLE 0"))
	})
})
