package insts

// Immediate derives the sign-extended immediate of word. The layout is
// keyed by opcode; opcodes without an immediate yield 0.
func Immediate(word uint32, opcode Opcode) int32 {
	switch opcode {
	case OpcodeOpImm, OpcodeLoad, OpcodeJALR:
		return immI(word)
	case OpcodeStore:
		return immS(word)
	case OpcodeBranch:
		return immB(word)
	case OpcodeLUI:
		return immU(word)
	default:
		return 0
	}
}

// signExtend treats the low bits of v as a two's-complement number.
// The right shift must stay arithmetic, so it happens on int32.
func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// immI: imm[11:0] = bits[31:20].
func immI(word uint32) int32 {
	return signExtend(word>>20, 12)
}

// immS: imm[11:5] = bits[31:25], imm[4:0] = bits[11:7].
func immS(word uint32) int32 {
	low := (word >> 7) & 0x1F
	high := (word >> 25) & 0x7F
	return signExtend(high<<5|low, 12)
}

// immB: imm[12|10:5] = bits[31:25], imm[4:1|11] = bits[11:7], imm[0] = 0.
func immB(word uint32) int32 {
	imm := ((word>>31)&0x1)<<12 |
		((word>>7)&0x1)<<11 |
		((word>>25)&0x3F)<<5 |
		((word>>8)&0xF)<<1
	return signExtend(imm, 13)
}

// immU: imm[31:12] = bits[31:12], low 12 bits zero.
func immU(word uint32) int32 {
	return int32(word & 0xFFFFF000)
}
