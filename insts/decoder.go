package insts

// Opcode is the low seven bits of an instruction word.
type Opcode uint8

// RV32I opcodes recognized by the control unit.
const (
	OpcodeLoad   Opcode = 0b0000011 // LB, LBU, LW
	OpcodeOpImm  Opcode = 0b0010011 // ADDI, ORI, SLTIU
	OpcodeStore  Opcode = 0b0100011 // SH, SW
	OpcodeOp     Opcode = 0b0110011 // ADD, SUB, SRA, AND
	OpcodeLUI    Opcode = 0b0110111 // LUI
	OpcodeBranch Opcode = 0b1100011 // BNE
	OpcodeJALR   Opcode = 0b1100111 // JALR
)

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR              // Register-register
	FormatI              // Register-immediate, loads, jalr
	FormatS              // Stores
	FormatB              // Conditional branches
	FormatU              // Upper immediate
)

// Format returns the encoding format used by the opcode.
func (o Opcode) Format() Format {
	switch o {
	case OpcodeOp:
		return FormatR
	case OpcodeOpImm, OpcodeLoad, OpcodeJALR:
		return FormatI
	case OpcodeStore:
		return FormatS
	case OpcodeBranch:
		return FormatB
	case OpcodeLUI:
		return FormatU
	default:
		return FormatUnknown
	}
}

// Op identifies a concrete instruction within its opcode family.
type Op uint8

// Instruction mnemonics.
const (
	OpUnknown Op = iota
	OpADD
	OpSUB
	OpSRA
	OpAND
	OpADDI
	OpORI
	OpSLTIU
	OpLUI
	OpLB
	OpLBU
	OpLW
	OpSH
	OpSW
	OpBNE
	OpJALR
)

var opNames = [...]string{
	OpUnknown: "unknown",
	OpADD:     "add",
	OpSUB:     "sub",
	OpSRA:     "sra",
	OpAND:     "and",
	OpADDI:    "addi",
	OpORI:     "ori",
	OpSLTIU:   "sltiu",
	OpLUI:     "lui",
	OpLB:      "lb",
	OpLBU:     "lbu",
	OpLW:      "lw",
	OpSH:      "sh",
	OpSW:      "sw",
	OpBNE:     "bne",
	OpJALR:    "jalr",
}

// String returns the assembler mnemonic.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return opNames[OpUnknown]
}

// funct7 values used by R-type instructions.
const (
	Funct7Base uint8 = 0b0000000
	Funct7Alt  uint8 = 0b0100000
)

// Instruction represents a decoded instruction word.
type Instruction struct {
	Word   uint32 // Raw instruction word
	Op     Op     // Operation mnemonic
	Format Format // Encoding format

	// Fields
	Opcode Opcode // bits[6:0]
	Rd     uint8  // bits[11:7]
	Funct3 uint8  // bits[14:12]
	Rs1    uint8  // bits[19:15]
	Rs2    uint8  // bits[24:20]
	Funct7 uint8  // bits[31:25]

	// Imm is the sign-extended immediate selected by Opcode.
	Imm int32
}

// Decoder decodes RV32I machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV32I instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode splits a 32-bit instruction word into its fields. It never fails:
// words the simulator does not implement decode with Op == OpUnknown.
func (d *Decoder) Decode(word uint32) *Instruction {
	opcode := Opcode(word & 0x7F)
	inst := &Instruction{
		Word:   word,
		Format: opcode.Format(),
		Opcode: opcode,
		Rd:     uint8((word >> 7) & 0x1F),
		Funct3: uint8((word >> 12) & 0x7),
		Rs1:    uint8((word >> 15) & 0x1F),
		Rs2:    uint8((word >> 20) & 0x1F),
		Funct7: uint8((word >> 25) & 0x7F),
		Imm:    Immediate(word, opcode),
	}
	inst.Op = d.identify(inst)

	return inst
}

// identify picks the mnemonic from opcode, funct3 and funct7.
func (d *Decoder) identify(inst *Instruction) Op {
	switch inst.Opcode {
	case OpcodeOp:
		return d.identifyRType(inst.Funct3, inst.Funct7)
	case OpcodeOpImm:
		switch inst.Funct3 {
		case 0b000:
			return OpADDI
		case 0b110:
			return OpORI
		case 0b011:
			return OpSLTIU
		}
	case OpcodeLUI:
		return OpLUI
	case OpcodeLoad:
		switch inst.Funct3 {
		case 0b000:
			return OpLB
		case 0b100:
			return OpLBU
		case 0b010:
			return OpLW
		}
	case OpcodeStore:
		switch inst.Funct3 {
		case 0b001:
			return OpSH
		case 0b010:
			return OpSW
		}
	case OpcodeBranch:
		// Every branch opcode executes as bne.
		return OpBNE
	case OpcodeJALR:
		return OpJALR
	}

	return OpUnknown
}

func (d *Decoder) identifyRType(funct3, funct7 uint8) Op {
	switch {
	case funct3 == 0b000 && funct7 == Funct7Base:
		return OpADD
	case funct3 == 0b000 && funct7 == Funct7Alt:
		return OpSUB
	case funct3 == 0b101 && funct7 == Funct7Alt:
		return OpSRA
	case funct3 == 0b111 && funct7 == Funct7Base:
		return OpAND
	default:
		return OpUnknown
	}
}
