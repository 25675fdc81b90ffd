// Package decoder implements the x86/x86-64 instruction decoder front end:
// prefixes, REX/VEX/EVEX, ModR/M, SIB, and the instruction shape consumed by
// package lift. It never executes or emits code; it only describes bytes.
package decoder

// Prefixes holds the legacy prefix bytes absorbed ahead of an opcode, per
// spec.md §4.5 step 1. Duplicate prefixes of the same class collapse: only
// the last-seen byte of each class survives.
type Prefixes struct {
	Segment    byte // 0 if none; else one of 2E,36,3E,26,64,65
	OperandSz  bool // 0x66 seen
	AddressSz  bool // 0x67 seen
	Lock       bool // 0xF0 seen
	RepNE      bool // 0xF2 seen (REPNE/BND/mandatory for some SSE opcodes)
	Rep        bool // 0xF3 seen (REP/mandatory for some SSE opcodes)
}

var segmentOverrides = map[byte]bool{
	0x2E: true, 0x36: true, 0x3E: true, 0x26: true, 0x64: true, 0x65: true,
}

// absorbPrefixes consumes every legacy prefix byte starting at cur.pos,
// returning once a non-prefix byte is encountered (left unconsumed).
func absorbPrefixes(cur *cursor) Prefixes {
	var p Prefixes
	for {
		b, ok := cur.peek()
		if !ok {
			return p
		}
		switch {
		case segmentOverrides[b]:
			p.Segment = b
		case b == 0x66:
			p.OperandSz = true
		case b == 0x67:
			p.AddressSz = true
		case b == 0xF0:
			p.Lock = true
		case b == 0xF2:
			p.RepNE = true
		case b == 0xF3:
			p.Rep = true
		default:
			return p
		}
		cur.advance(1)
	}
}
