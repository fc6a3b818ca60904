package loader_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/loader"
)

var _ = Describe("Loader", func() {
	Describe("LoadHex", func() {
		It("should read whitespace-separated byte tokens", func() {
			prog, err := loader.LoadHex(strings.NewReader("13 05 50 00\n93 05 75 00\n"), 4096)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Image).To(Equal([]byte{0x13, 0x05, 0x50, 0x00, 0x93, 0x05, 0x75, 0x00}))
			Expect(prog.InstructionCount()).To(Equal(2))
			Expect(prog.Entry).To(BeZero())
		})

		It("should accept a 0x prefix and upper case", func() {
			prog, err := loader.LoadHex(strings.NewReader("0x13\tFF"), 4096)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Image).To(Equal([]byte{0x13, 0xFF}))
		})

		It("should stop at the memory size", func() {
			prog, err := loader.LoadHex(strings.NewReader("01 02 03 04 05 06"), 4)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Image).To(Equal([]byte{1, 2, 3, 4}))
		})

		It("should drop a trailing partial word from the instruction count", func() {
			prog, err := loader.LoadHex(strings.NewReader("13 05 50 00 01 02"), 4096)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Length).To(Equal(6))
			Expect(prog.InstructionCount()).To(Equal(1))
		})

		It("should reject a value wider than a byte", func() {
			_, err := loader.LoadHex(strings.NewReader("13 1FF"), 4096)

			Expect(err).To(MatchError(ContainSubstring("does not fit in a byte")))
		})

		It("should reject a non-hex token", func() {
			_, err := loader.LoadHex(strings.NewReader("13 zz"), 4096)

			Expect(err).To(MatchError(ContainSubstring("invalid hex token")))
		})

		It("should load an empty program", func() {
			prog, err := loader.LoadHex(strings.NewReader(""), 4096)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.InstructionCount()).To(BeZero())
		})
	})

	Describe("LoadBinary", func() {
		It("should read raw bytes up to the limit", func() {
			prog, err := loader.LoadBinary(bytes.NewReader([]byte{1, 2, 3, 4, 5}), 4)

			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Image).To(Equal([]byte{1, 2, 3, 4}))
			Expect(prog.Length).To(Equal(4))
		})
	})

	Describe("ParseFormat", func() {
		DescribeTable("names",
			func(name string, expected loader.Format) {
				f, err := loader.ParseFormat(name)
				Expect(err).NotTo(HaveOccurred())
				Expect(f).To(Equal(expected))
			},
			Entry("hex", "hex", loader.FormatHex),
			Entry("bin", "bin", loader.FormatBinary),
			Entry("elf", "ELF", loader.FormatELF),
			Entry("auto", "auto", loader.FormatAuto),
			Entry("empty", "", loader.FormatAuto),
		)

		It("should reject unknown names", func() {
			_, err := loader.ParseFormat("srec")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Load", func() {
		var tempDir string

		BeforeEach(func() {
			tempDir = GinkgoT().TempDir()
		})

		It("should detect hex text by content", func() {
			path := filepath.Join(tempDir, "prog")
			Expect(os.WriteFile(path, []byte("13 05 50 00\n"), 0644)).To(Succeed())

			format, err := loader.DetectFormat(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(format).To(Equal(loader.FormatHex))

			prog, err := loader.Load(path, loader.FormatAuto, 4096)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Image).To(Equal([]byte{0x13, 0x05, 0x50, 0x00}))
		})

		It("should treat other content as binary", func() {
			path := filepath.Join(tempDir, "prog")
			Expect(os.WriteFile(path, []byte{0x13, 0x05, 0x50, 0x00}, 0644)).To(Succeed())

			prog, err := loader.Load(path, loader.FormatAuto, 4096)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Image).To(Equal([]byte{0x13, 0x05, 0x50, 0x00}))
		})

		It("should trust the .bin extension", func() {
			path := filepath.Join(tempDir, "prog.bin")
			Expect(os.WriteFile(path, []byte("1305"), 0644)).To(Succeed())

			prog, err := loader.Load(path, loader.FormatAuto, 4096)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Image).To(Equal([]byte("1305")))
		})

		It("should honour an explicit format", func() {
			path := filepath.Join(tempDir, "prog.bin")
			Expect(os.WriteFile(path, []byte("13 05"), 0644)).To(Succeed())

			prog, err := loader.Load(path, loader.FormatHex, 4096)
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Image).To(Equal([]byte{0x13, 0x05}))
		})

		It("should fail on a missing file", func() {
			_, err := loader.Load(filepath.Join(tempDir, "missing"), loader.FormatHex, 4096)
			Expect(err).To(HaveOccurred())
		})
	})
})
