package decoder

// ModRM is the decoded mod/reg/rm byte.
type ModRM struct {
	Mod int
	Reg int // low 3 bits; callers extend with REX.R/VEX.R/EVEX.R+R' as needed
	RM  int // low 3 bits; callers extend with REX.B/VEX.B/EVEX.B as needed
}

// SIB is the decoded scale/index/base byte, present only when ModRM.Mod!=3
// and ModRM.RM==4.
type SIB struct {
	Present bool
	Scale   int // 1,2,4,8
	Index   int // low 3 bits; 4 means "no index" unless REX.X extends it to 12
	Base    int // low 3 bits
}

// Memory describes a decoded memory operand's addressing components.
type Memory struct {
	Base    int  // register number; meaningful only when HasBase is set (false for RIP-relative / disp-only)
	HasBase bool
	Index   int
	HasIndex bool
	Scale   int
	Disp    int64
	RIPRel  bool
	Segment byte
}

func parseModRM(cur *cursor) (ModRM, bool) {
	b, ok := cur.take()
	if !ok {
		return ModRM{}, false
	}
	return ModRM{
		Mod: int(b>>6) & 0x03,
		Reg: int(b>>3) & 0x07,
		RM:  int(b) & 0x07,
	}, true
}

func parseSIB(cur *cursor) (SIB, bool) {
	b, ok := cur.take()
	if !ok {
		return SIB{}, false
	}
	scales := [4]int{1, 2, 4, 8}
	return SIB{
		Present: true,
		Scale:   scales[(b>>6)&0x03],
		Index:   int(b>>3) & 0x07,
		Base:    int(b) & 0x07,
	}, true
}

// parseMemoryOperand resolves a ModRM/SIB pair into a Memory descriptor,
// per spec.md §4.5 step 4: if mod!=3 and rm==4, read SIB; then read
// displacement of 0, 1 or 4 bytes depending on mod and (for SIB) base==5.
func parseMemoryOperand(cur *cursor, mrm ModRM, addrSize32 bool, rexB, rexX bool) (Memory, bool, error) {
	if mrm.Mod == 3 {
		return Memory{}, false, nil
	}

	m := Memory{HasBase: true}

	rm := mrm.RM
	if rm == 4 {
		sib, ok := parseSIB(cur)
		if !ok {
			return Memory{}, false, errTruncated
		}
		base := sib.Base
		if rexB {
			base |= 0x08
		}
		idx := sib.Index
		if rexX {
			idx |= 0x08
		}
		if sib.Index != 4 || rexX {
			m.HasIndex = true
			m.Index = idx
			m.Scale = sib.Scale
		}
		if sib.Base == 5 && mrm.Mod == 0 {
			m.HasBase = false
			disp, ok := cur.takeN(4)
			if !ok {
				return Memory{}, false, errTruncated
			}
			m.Disp = int64(int32(uint32(disp)))
		} else {
			m.Base = base
		}
	} else {
		base := rm
		if rexB {
			base |= 0x08
		}
		if mrm.Mod == 0 && rm == 5 {
			// RIP-relative (64-bit mode) / disp32 (32-bit mode, no base).
			m.RIPRel = true
			m.HasBase = false
			disp, ok := cur.takeN(4)
			if !ok {
				return Memory{}, false, errTruncated
			}
			m.Disp = int64(int32(uint32(disp)))
			return m, true, nil
		}
		m.Base = base
	}

	switch mrm.Mod {
	case 1:
		disp, ok := cur.takeN(1)
		if !ok {
			return Memory{}, false, errTruncated
		}
		m.Disp = int64(int8(uint8(disp)))
	case 2:
		disp, ok := cur.takeN(4)
		if !ok {
			return Memory{}, false, errTruncated
		}
		m.Disp = int64(int32(uint32(disp)))
	}

	return m, true, nil
}

// parseImmediate reads an immediate of the given byte width, little-endian,
// sign-extended to int64.
func parseImmediate(cur *cursor, width int) (int64, error) {
	v, ok := cur.takeN(width)
	if !ok {
		return 0, errTruncated
	}
	switch width {
	case 1:
		return int64(int8(uint8(v))), nil
	case 2:
		return int64(int16(uint16(v))), nil
	case 4:
		return int64(int32(uint32(v))), nil
	default:
		return int64(v), nil
	}
}
