package decoder

// REX carries the 64-bit mode register-extension prefix's four bit fields.
type REX struct {
	Present bool
	W, R, X, B bool
}

// VEX carries the fields common to both the 2-byte and 3-byte VEX
// encodings, normalized to one shape.
type VEX struct {
	Present bool
	Is3Byte bool
	R, X, B bool // inverted in the encoding; already un-inverted here
	W       bool
	MapSel  int // 1 = 0F, 2 = 0F38, 3 = 0F3A (only meaningful for VEX3)
	Vvvv    int // un-inverted 4-bit register specifier
	L       bool // vector length: false=128, true=256
	PP      int  // mandatory-prefix selector: 0=none,1=66,2=F3,3=F2
}

// EVEX carries the AVX-512 payload fields, per spec.md §4.5's required
// accessor list: mapSelect, W, vvvv (inverted+V' extended), pp, LL, z, b,
// aaa, plus hasMasking/getMaskRegister/getVectorLength.
type EVEX struct {
	Present            bool
	R, X, B, RPrime     bool
	W                   bool
	Vvvv                int // 4-bit, extended by V' to 5 bits by the caller
	VPrime              bool
	PP                  int
	Z                   bool
	LL                  int // 0=128,1=256,2=512
	BBit                bool // EVEX.b: broadcast/rounding/SAE control
	Aaa                 int  // 3-bit mask register selector
	MapSelect           int  // 2-bit map selector
}

// HasMasking reports whether a non-K0 mask register is selected.
func (e EVEX) HasMasking() bool { return e.Aaa != 0 }

// GetMaskRegister returns the selected AVX-512 mask register index (0-7).
func (e EVEX) GetMaskRegister() int { return e.Aaa }

// GetVectorLength returns the operand vector width in bits: 128, 256 or 512.
func (e EVEX) GetVectorLength() int {
	switch e.LL {
	case 0:
		return 128
	case 1:
		return 256
	default:
		return 512
	}
}

// Vreg returns the full 5-bit vector register specifier (vvvv extended by
// V'), as used to select among 32 ZMM/mask registers.
func (e EVEX) Vreg() int {
	v := e.Vvvv
	if e.VPrime {
		v |= 0x10
	}
	return v
}

// parseREXVEXEVEX inspects the next byte(s) and parses, in order of
// exclusivity, EVEX (0x62), VEX3 (0xC4), VEX2 (0xC5), else REX (0x4?) when
// in 64-bit mode, per spec.md §4.5 step 2.
func parseREXVEXEVEX(cur *cursor, mode64 bool) (REX, VEX, EVEX, error) {
	b, ok := cur.peek()
	if !ok {
		return REX{}, VEX{}, EVEX{}, errTruncated
	}

	switch {
	case b == 0x62 && mode64:
		return REX{}, VEX{}, parseEVEX(cur), nil
	case b == 0xC4 && mode64:
		return REX{}, parseVEX3(cur), EVEX{}, nil
	case b == 0xC5 && mode64:
		return REX{}, parseVEX2(cur), EVEX{}, nil
	case b&0xF0 == 0x40 && mode64:
		cur.advance(1)
		return REX{
			Present: true,
			W:       b&0x08 != 0,
			R:       b&0x04 != 0,
			X:       b&0x02 != 0,
			B:       b&0x01 != 0,
		}, VEX{}, EVEX{}, nil
	default:
		return REX{}, VEX{}, EVEX{}, nil
	}
}

func parseVEX2(cur *cursor) VEX {
	cur.advance(1) // 0xC5
	p1, _ := cur.take()
	return VEX{
		Present: true,
		R:       p1&0x80 == 0,
		Vvvv:    int(^(p1 >> 3) & 0x0F),
		L:       p1&0x04 != 0,
		PP:      int(p1 & 0x03),
		MapSel:  1,
	}
}

func parseVEX3(cur *cursor) VEX {
	cur.advance(1) // 0xC4
	p1, _ := cur.take()
	p2, _ := cur.take()
	return VEX{
		Present: true,
		Is3Byte: true,
		R:       p1&0x80 == 0,
		X:       p1&0x40 == 0,
		B:       p1&0x20 == 0,
		MapSel:  int(p1 & 0x1F),
		W:       p2&0x80 != 0,
		Vvvv:    int(^(p2 >> 3) & 0x0F),
		L:       p2&0x04 != 0,
		PP:      int(p2 & 0x03),
	}
}

func parseEVEX(cur *cursor) EVEX {
	cur.advance(1) // 0x62
	p0, _ := cur.take()
	p1, _ := cur.take()
	p2, _ := cur.take()
	return EVEX{
		Present:   true,
		R:         p0&0x80 == 0,
		X:         p0&0x40 == 0,
		B:         p0&0x20 == 0,
		RPrime:    p0&0x10 == 0,
		MapSelect: int(p0 & 0x03),
		W:         p1&0x80 != 0,
		Vvvv:      int(^(p1 >> 3) & 0x0F),
		PP:        int(p1 & 0x03),
		Z:         p2&0x80 != 0,
		LL:        int((p2 >> 5) & 0x03),
		BBit:      p2&0x10 != 0,
		VPrime:    p2&0x08 == 0,
		Aaa:       int(p2 & 0x07),
	}
}
