package insts

// The Encode functions are the inverse of Decode. They build instruction
// words for tests and hand-written programs; out-of-range operands are
// truncated to their field width.

// EncodeR builds an R-type word.
func EncodeR(opcode Opcode, rd, funct3, rs1, rs2, funct7 uint8) uint32 {
	return uint32(funct7&0x7F)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(opcode&0x7F)
}

// EncodeI builds an I-type word. imm keeps its low 12 bits.
func EncodeI(opcode Opcode, rd, funct3, rs1 uint8, imm int32) uint32 {
	return (uint32(imm)&0xFFF)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(opcode&0x7F)
}

// EncodeS builds an S-type word. imm keeps its low 12 bits.
func EncodeS(opcode Opcode, funct3, rs1, rs2 uint8, imm int32) uint32 {
	u := uint32(imm)
	return ((u>>5)&0x7F)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		(u&0x1F)<<7 |
		uint32(opcode&0x7F)
}

// EncodeB builds a B-type word. imm is a byte offset; bit 0 is dropped.
func EncodeB(opcode Opcode, funct3, rs1, rs2 uint8, imm int32) uint32 {
	u := uint32(imm)
	return ((u>>12)&0x1)<<31 |
		((u>>5)&0x3F)<<25 |
		uint32(rs2&0x1F)<<20 |
		uint32(rs1&0x1F)<<15 |
		uint32(funct3&0x7)<<12 |
		((u>>1)&0xF)<<8 |
		((u>>11)&0x1)<<7 |
		uint32(opcode&0x7F)
}

// EncodeU builds a U-type word from the 20-bit upper immediate.
func EncodeU(opcode Opcode, rd uint8, imm20 uint32) uint32 {
	return (imm20&0xFFFFF)<<12 |
		uint32(rd&0x1F)<<7 |
		uint32(opcode&0x7F)
}
