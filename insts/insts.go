// Package insts provides RV32I instruction definitions and decoding.
//
// This package splits 32-bit RISC-V machine words into their fields and
// derives the sign-extended immediate for the encodings the simulator
// executes. It supports:
//   - R-type arithmetic: ADD, SUB, SRA, AND
//   - I-type arithmetic: ADDI, ORI, SLTIU
//   - LUI
//   - Loads: LB, LBU, LW
//   - Stores: SH, SW
//   - Branches: BNE
//   - Indirect jumps: JALR
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00500513) // addi x10, x0, 5
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rs1, inst.Imm)
package insts
