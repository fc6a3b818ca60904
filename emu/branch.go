package emu

// NextPC holds the candidate next-PC values of one cycle.
type NextPC struct {
	// Sequential is PC+4.
	Sequential uint32
	// BranchTarget is PC+imm.
	BranchTarget uint32
	// JumpTarget is (rs1+imm) with bit 0 cleared.
	JumpTarget uint32
}

// BranchUnit resolves the next program counter.
type BranchUnit struct{}

// NewBranchUnit creates a new BranchUnit.
func NewBranchUnit() *BranchUnit {
	return &BranchUnit{}
}

// Candidates computes the three next-PC values.
func (b *BranchUnit) Candidates(pc uint32, imm, rs1Val int32) NextPC {
	return NextPC{
		Sequential:   pc + 4,
		BranchTarget: pc + uint32(imm),
		JumpTarget:   uint32(rs1Val+imm) &^ 1,
	}
}

// Taken reports whether a branch is taken. Only bne is implemented, so
// a branch is taken when the ALU operands differ.
func (b *BranchUnit) Taken(ctrl Control, zero bool) bool {
	return ctrl.Branch && !zero
}

// Resolve selects the next PC with two muxes: PC+4 or PC+imm by the
// branch outcome, then that or the jump target by JumpSel.
func (b *BranchUnit) Resolve(ctrl Control, zero bool, next NextPC) uint32 {
	target := next.Sequential
	if b.Taken(ctrl, zero) {
		target = next.BranchTarget
	}

	if ctrl.JumpSel {
		target = next.JumpTarget
	}

	return target
}
