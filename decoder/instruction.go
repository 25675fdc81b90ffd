package decoder

// OperandKind classifies one decoded Instruction operand.
type OperandKind byte

const (
	OperandNone OperandKind = iota
	OperandReg
	OperandMem
	OperandImm
	OperandRel
)

// RegClass distinguishes which register file a register operand names.
type RegClass byte

const (
	RegClassGPR RegClass = iota
	RegClassXMM
	RegClassYMM
	RegClassZMM
	RegClassMMX
	RegClassMask
)

// Operand is one decoded instruction operand, tagged by Kind.
type Operand struct {
	Kind  OperandKind
	Reg   string // Kind==OperandReg
	Class RegClass
	Mem   Memory // Kind==OperandMem
	Imm   int64  // Kind==OperandImm or OperandRel
	Width Width
}

// Instruction is the fully decoded shape of one guest instruction, per
// spec.md §4.5 step 5.
type Instruction struct {
	Mnemonic string
	Addr     uint64
	Length   int
	Operands []Operand
	Prefixes Prefixes
	REX      REX
	VEX      VEX
	EVEX     EVEX
	// Cond is the condition-code suffix for Jcc/SETcc/CMOVcc; -1 otherwise.
	Cond int
}

// HasREXOrVEX reports whether any register-extension prefix is present.
func (in *Instruction) HasREXOrVEX() bool {
	return in.REX.Present || in.VEX.Present || in.EVEX.Present
}

// operandWidth returns the effective operand width implied by REX.W, the
// VEX/EVEX.W bit and the 0x66 operand-size prefix, defaulting to 32 bits.
// It does not apply 64-bit mode's default-64 rule; decodePushPop chooses
// that width itself.
func operandWidth(p Prefixes, rex REX, vex VEX, evex EVEX, mode64 bool) Width {
	switch {
	case rex.Present && rex.W:
		return Width64
	case vex.Present && vex.W:
		return Width64
	case evex.Present && evex.W:
		return Width64
	case p.OperandSz:
		return Width16
	default:
		return Width32
	}
}
