package guest

import "github.com/anhed0nic/vexgo/ir"

// X86 is the 32-bit x86 guest-state layout: eight 32-bit general-purpose
// registers and EIP in place of AMD64's 64-bit GPRs/RIP, 32-bit lazy-flags
// slots, the x87 FP stack, XMM0-XMM7 (no YMM/ZMM or mask registers) and the
// segment registers.
type X86 struct {
	l *layout
}

// x86GPRAlias names the 16- and 8-bit aliases of one 32-bit GPR slot, per
// spec.md §4.4's GPR-aliasing invariant (AX/AL/EAX share EAX's bytes). Only
// EAX/EBX/ECX/EDX have a legacy AH-style high byte; ESI/EDI/EBP/ESP never
// gained an 8-bit form in 32-bit mode (that required a REX prefix, which
// does not exist outside 64-bit mode).
type x86GPRAlias struct {
	name32, name16, name8Low, name8High string
}

var x86GPRAliases = []x86GPRAlias{
	{"EAX", "AX", "AL", "AH"},
	{"EBX", "BX", "BL", "BH"},
	{"ECX", "CX", "CL", "CH"},
	{"EDX", "DX", "DL", "DH"},
	{"ESI", "SI", "", ""},
	{"EDI", "DI", "", ""},
	{"EBP", "BP", "", ""},
	{"ESP", "SP", "", ""},
}

var x86Entries = func() []regEntry {
	var e []regEntry
	off := 0
	gprOff := make(map[string]int, len(x86GPRAliases))
	for _, n := range []string{"EAX", "EBX", "ECX", "EDX", "ESI", "EDI", "EBP", "ESP", "EIP"} {
		e = append(e, regEntry{n, off, ir.Ty_I32})
		gprOff[n] = off
		off += 4
	}
	for _, a := range x86GPRAliases {
		base := gprOff[a.name32]
		e = append(e, regEntry{a.name16, base, ir.Ty_I16})
		if a.name8Low != "" {
			e = append(e, regEntry{a.name8Low, base, ir.Ty_I8})
			e = append(e, regEntry{a.name8High, base + 1, ir.Ty_I8})
		}
	}
	e = append(e, regEntry{"CC_OP", off, ir.Ty_I32})
	off += 4
	e = append(e, regEntry{"CC_NDEP", off, ir.Ty_I32})
	off += 4
	e = append(e, regEntry{"CC_DEP1", off, ir.Ty_I32})
	off += 4
	e = append(e, regEntry{"CC_DEP2", off, ir.Ty_I32})
	off += 4
	for i := 0; i < 8; i++ {
		e = append(e, regEntry{fmtReg("FPREG", i), off, ir.Ty_F64})
		off += 8
	}
	e = append(e, regEntry{"FPTAG", off, ir.Ty_I8})
	off += 8
	for i := 0; i < 8; i++ {
		e = append(e, regEntry{fmtReg("XMM", i), off, ir.Ty_V128})
		off += 16
	}
	for _, n := range []string{"CS", "DS", "ES", "FS", "GS", "SS"} {
		e = append(e, regEntry{n, off, ir.Ty_I16})
		off += 2
	}
	return e
}()

// NewX86 returns a fresh 32-bit x86 guest-state layout.
func NewX86() *X86 { return &X86{l: newLayout(x86Entries, "ESP")} }

func (s *X86) Arch() string      { return "x86" }
func (s *X86) WordType() ir.Type { return ir.Ty_I32 }
func (s *X86) IPType() ir.Type   { return ir.Ty_I32 }

func (s *X86) RegisterOffset(name string) (int, error)   { return s.l.offset(name) }
func (s *X86) RegisterType(name string) (ir.Type, error) { return s.l.regType(name) }

func (s *X86) RequiresPreciseMemoryExceptions(lo, hi int) bool {
	return s.l.requiresPrecise(lo, hi)
}

func (s *X86) DeepCopy() State { return NewX86() }
