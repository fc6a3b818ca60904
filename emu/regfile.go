// Package emu provides the single-cycle RV32I functional core.
package emu

// NumRegs is the number of integer registers.
const NumRegs = 32

// ABI register indices used by the run driver to report results.
const (
	RegA0 uint8 = 10
	RegA1 uint8 = 11
)

// RegFile represents the RV32I register file.
// It contains 32 general-purpose registers (x0-x31) and the program
// counter (PC).
type RegFile struct {
	// X holds general-purpose registers x0-x31.
	// X[0] is hard-wired to zero; use ReadReg/WriteReg to honour that.
	X [NumRegs]int32

	// PC is the byte address of the current instruction.
	PC uint32
}

// ReadReg reads a register value. Register 0 and out-of-range indices
// read as 0.
func (r *RegFile) ReadReg(reg uint8) int32 {
	if reg == 0 || reg >= NumRegs {
		return 0
	}
	return r.X[reg]
}

// WriteReg writes a value to a register. Writes to register 0 are
// discarded.
func (r *RegFile) WriteReg(reg uint8, value int32) {
	if reg == 0 || reg >= NumRegs {
		return
	}
	r.X[reg] = value
}

// ABINames maps register indices to their calling-convention names.
var ABINames = [NumRegs]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}
