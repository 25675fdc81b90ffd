package decoder

// Decoder wraps a byte buffer with the cursor state needed across
// successive calls to Decode, per spec.md §4.5's "plain cursor over an
// immutable byte slice; no hidden global state" design note.
type Decoder struct {
	cur    *cursor
	base   uint64
	Mode64 bool // true selects AMD64 decoding (REX/VEX/EVEX legal, default 32-bit ops); false selects legacy x86
}

// NewDecoder returns a Decoder over buf, whose first byte is at guest
// address base.
func NewDecoder(buf []byte, base uint64, mode64 bool) *Decoder {
	return &Decoder{cur: newCursor(buf), base: base, Mode64: mode64}
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int { return d.cur.pos }

// Remaining reports how many undecoded bytes are left.
func (d *Decoder) Remaining() int { return d.cur.remaining() }

// Decode decodes exactly one instruction starting at the cursor's current
// position, per the step sequence in spec.md §4.5. It returns
// errUnknownOpcode for opcode bytes this decoder does not recognize (the
// caller treats that as a block-ending condition, never a panic) and
// errTruncated if the buffer runs out mid-instruction.
func (d *Decoder) Decode() (*Instruction, error) {
	startPos := d.cur.pos
	addr := d.base + uint64(startPos)

	prefixes := absorbPrefixes(d.cur)
	rex, vex, evex, err := parseREXVEXEVEX(d.cur, d.Mode64)
	if err != nil {
		return nil, err
	}

	if evex.Present {
		in, err := decodeEVEX(d.cur, evex, prefixes)
		if err != nil {
			return nil, err
		}
		in.Addr = addr
		in.Length = d.cur.pos - startPos
		return in, nil
	}
	if vex.Present {
		return nil, errUnknownOpcode
	}

	op, ok := d.cur.take()
	if !ok {
		return nil, errTruncated
	}

	width := operandWidth(prefixes, rex, vex, evex, d.Mode64)

	in, err := decodeOneByteOpcode(d.cur, op, width, rex, prefixes, d.Mode64)
	if err != nil {
		return nil, err
	}
	in.Addr = addr
	in.Length = d.cur.pos - startPos
	in.Prefixes = prefixes
	in.REX = rex
	if in.Mnemonic != "JCC" {
		in.Cond = -1
	}
	return in, nil
}

func decodeOneByteOpcode(cur *cursor, op byte, width Width, rex REX, p Prefixes, mode64 bool) (*Instruction, error) {
	switch {
	case op >= 0xB8 && op <= 0xBF:
		return decodeMovRegImm(cur, op-0xB8, width, rex, mode64)
	case op == 0xC3:
		return &Instruction{Mnemonic: "RET"}, nil
	case op == 0x01:
		return decodeArithRMtoR(cur, "ADD", width, rex)
	case op == 0x29:
		return decodeArithRMtoR(cur, "SUB", width, rex)
	case op == 0x21:
		return decodeArithRMtoR(cur, "AND", width, rex)
	case op == 0x09:
		return decodeArithRMtoR(cur, "OR", width, rex)
	case op == 0x31:
		return decodeArithRMtoR(cur, "XOR", width, rex)
	case op == 0x39:
		return decodeArithRMtoR(cur, "CMP", width, rex)
	case op == 0x89:
		return decodeArithRMtoR(cur, "MOV", width, rex)
	case op >= 0x50 && op <= 0x57:
		return decodePushPop(cur, "PUSH", op-0x50, rex, mode64)
	case op >= 0x58 && op <= 0x5F:
		return decodePushPop(cur, "POP", op-0x58, rex, mode64)
	case op == 0x90:
		return &Instruction{Mnemonic: "NOP"}, nil
	case op == 0xCC:
		return &Instruction{Mnemonic: "INT3"}, nil
	case op == 0xE8:
		return decodeCallRel32(cur)
	case op == 0xEB:
		return decodeJmpRel8(cur)
	case op >= 0x70 && op <= 0x7F:
		return decodeJccRel8(cur, op-0x70)
	case op == 0x0F:
		return decodeTwoByteOpcode(cur, width, rex)
	default:
		return nil, errUnknownOpcode
	}
}

func decodeTwoByteOpcode(cur *cursor, width Width, rex REX) (*Instruction, error) {
	op2, ok := cur.take()
	if !ok {
		return nil, errTruncated
	}
	switch {
	case op2 == 0x0B:
		return &Instruction{Mnemonic: "UD2"}, nil
	case op2 >= 0x80 && op2 <= 0x8F:
		return decodeJccRel32(cur, op2-0x80)
	default:
		return nil, errUnknownOpcode
	}
}

func decodeMovRegImm(cur *cursor, enc byte, width Width, rex REX, mode64 bool) (*Instruction, error) {
	regEnc := int(enc)
	if rex.B {
		regEnc |= 0x08
	}
	immWidth := 4
	if width == Width64 {
		immWidth = 8
	}
	imm, err := parseImmediate(cur, immWidth)
	if err != nil {
		return nil, err
	}
	return &Instruction{
		Mnemonic: "MOV",
		Operands: []Operand{
			{Kind: OperandReg, Reg: GPRName(regEnc, width, rex.Present), Width: width},
			{Kind: OperandImm, Imm: imm, Width: width},
		},
	}, nil
}

func decodeArithRMtoR(cur *cursor, mnemonic string, width Width, rex REX) (*Instruction, error) {
	mrm, ok := parseModRM(cur)
	if !ok {
		return nil, errTruncated
	}
	regEnc := mrm.Reg
	if rex.R {
		regEnc |= 0x08
	}
	srcOperand := Operand{Kind: OperandReg, Reg: GPRName(regEnc, width, rex.Present), Width: width}

	if mrm.Mod == 3 {
		rmEnc := mrm.RM
		if rex.B {
			rmEnc |= 0x08
		}
		dst := Operand{Kind: OperandReg, Reg: GPRName(rmEnc, width, rex.Present), Width: width}
		return &Instruction{Mnemonic: mnemonic, Operands: []Operand{dst, srcOperand}}, nil
	}
	mem, _, err := parseMemoryOperand(cur, mrm, true, rex.B, rex.X)
	if err != nil {
		return nil, err
	}
	dst := Operand{Kind: OperandMem, Mem: mem, Width: width}
	return &Instruction{Mnemonic: mnemonic, Operands: []Operand{dst, srcOperand}}, nil
}

// decodePushPop decodes a single-byte PUSH/POP reg opcode. Per spec.md §4.6
// ("In 64-bit mode, default operand size for push/pop/call/ret is 64-bit
// regardless of operand-size prefix"), the word width comes only from
// Mode64; the 0x66 operand-size prefix does not shrink it.
func decodePushPop(cur *cursor, mnemonic string, enc byte, rex REX, mode64 bool) (*Instruction, error) {
	regEnc := int(enc)
	if rex.B {
		regEnc |= 0x08
	}
	width := Width32
	if mode64 {
		width = Width64
	}
	return &Instruction{
		Mnemonic: mnemonic,
		Operands: []Operand{{Kind: OperandReg, Reg: GPRName(regEnc, width, rex.Present), Width: width}},
	}, nil
}

func decodeCallRel32(cur *cursor) (*Instruction, error) {
	imm, err := parseImmediate(cur, 4)
	if err != nil {
		return nil, err
	}
	return &Instruction{Mnemonic: "CALL", Operands: []Operand{{Kind: OperandRel, Imm: imm}}}, nil
}

func decodeJmpRel8(cur *cursor) (*Instruction, error) {
	imm, err := parseImmediate(cur, 1)
	if err != nil {
		return nil, err
	}
	return &Instruction{Mnemonic: "JMP", Operands: []Operand{{Kind: OperandRel, Imm: imm}}}, nil
}

func decodeJccRel8(cur *cursor, cc byte) (*Instruction, error) {
	imm, err := parseImmediate(cur, 1)
	if err != nil {
		return nil, err
	}
	return &Instruction{Mnemonic: "JCC", Cond: int(cc), Operands: []Operand{{Kind: OperandRel, Imm: imm}}}, nil
}

func decodeJccRel32(cur *cursor, cc byte) (*Instruction, error) {
	imm, err := parseImmediate(cur, 4)
	if err != nil {
		return nil, err
	}
	return &Instruction{Mnemonic: "JCC", Cond: int(cc), Operands: []Operand{{Kind: OperandRel, Imm: imm}}}, nil
}

// decodeEVEX handles the small set of EVEX-encoded instructions this
// decoder recognizes: a register-register AVX-512 move (spec.md §4.5
// scenario 6). Its masked form (aaa != 0) is rejected as an unknown opcode.
// Broader AVX-512 coverage is out of scope (spec.md Non-goals: no guaranteed
// x86-64 completeness).
func decodeEVEX(cur *cursor, evex EVEX, p Prefixes) (*Instruction, error) {
	op, ok := cur.take()
	if !ok {
		return nil, errTruncated
	}
	if evex.MapSelect != 1 || op != 0x6F {
		return nil, errUnknownOpcode
	}
	mrm, ok := parseModRM(cur)
	if !ok {
		return nil, errTruncated
	}
	if mrm.Mod != 3 {
		return nil, errUnknownOpcode
	}
	if evex.HasMasking() {
		return nil, errUnknownOpcode
	}

	regEnc := mrm.Reg
	if evex.R {
		regEnc |= 0x08
	}
	if evex.RPrime {
		regEnc |= 0x10
	}
	rmEnc := mrm.RM
	if evex.B {
		rmEnc |= 0x08
	}

	mnemonic := "vmovdqa32"
	if p.Rep {
		mnemonic = "vmovdqu32"
	} else if evex.PP == 0 {
		mnemonic = "vmovdqu32"
	}

	return &Instruction{
		Mnemonic: mnemonic,
		EVEX:     evex,
		Operands: []Operand{
			{Kind: OperandReg, Reg: ZMMName(regEnc), Class: RegClassZMM, Width: Width64},
			{Kind: OperandReg, Reg: ZMMName(rmEnc), Class: RegClassZMM, Width: Width64},
		},
	}, nil
}
