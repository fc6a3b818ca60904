package insts

import "fmt"

// String disassembles the instruction, e.g. "addi x10, x0, 5".
func (i *Instruction) String() string {
	switch i.Format {
	case FormatR:
		return fmt.Sprintf("%s x%d, x%d, x%d", i.Op, i.Rd, i.Rs1, i.Rs2)
	case FormatI:
		if i.Opcode == OpcodeLoad {
			return fmt.Sprintf("%s x%d, %d(x%d)", i.Op, i.Rd, i.Imm, i.Rs1)
		}
		return fmt.Sprintf("%s x%d, x%d, %d", i.Op, i.Rd, i.Rs1, i.Imm)
	case FormatS:
		return fmt.Sprintf("%s x%d, %d(x%d)", i.Op, i.Rs2, i.Imm, i.Rs1)
	case FormatB:
		return fmt.Sprintf("%s x%d, x%d, %d", i.Op, i.Rs1, i.Rs2, i.Imm)
	case FormatU:
		return fmt.Sprintf("%s x%d, 0x%x", i.Op, i.Rd, uint32(i.Imm)>>12)
	default:
		return OpUnknown.String()
	}
}
