package guest

import "github.com/anhed0nic/vexgo/ir"

// CC_OP values tag which flag-setting operation last ran, per spec.md §4.4.
// The consumer's EFLAGS materialiser switches on this; the lifter only ever
// writes one of these into CC_OP, never computes EFLAGS itself.
const (
	CCOpCopy = iota
	CCOpAdd
	CCOpSub
	CCOpAnd
	CCOpOr
	CCOpXor
)

// AMD64 is the 64-bit x86 guest-state layout: general-purpose registers,
// RIP, segment bases, the lazy condition-code slots, the x87 FP stack,
// XMM/YMM/ZMM vector registers and the AVX-512 mask registers.
type AMD64 struct {
	l *layout
}

// gprAlias names the sub-width aliases of one 64-bit GPR slot: EAX/AX/AL
// (and, for the four legacy registers, AH) all read and write overlapping
// byte ranges of RAX's storage, per spec.md §4.4's GPR-aliasing invariant
// and the decoder's own `gpr8Low`/`gpr16`/`gpr32` tables
// (decoder/registers.go) that name these exact widths. name8High is empty
// for the registers that only gained a legacy 8-bit form via REX (SPL, BPL,
// SIL, DIL, R8L-R15L) rather than an AH-style high byte.
type gprAlias struct {
	name64, name32, name16, name8Low, name8High string
}

var amd64GPRAliases = []gprAlias{
	{"RAX", "EAX", "AX", "AL", "AH"},
	{"RBX", "EBX", "BX", "BL", "BH"},
	{"RCX", "ECX", "CX", "CL", "CH"},
	{"RDX", "EDX", "DX", "DL", "DH"},
	{"RSI", "ESI", "SI", "SIL", ""},
	{"RDI", "EDI", "DI", "DIL", ""},
	{"RBP", "EBP", "BP", "BPL", ""},
	{"RSP", "ESP", "SP", "SPL", ""},
	{"R8", "R8D", "R8W", "R8L", ""},
	{"R9", "R9D", "R9W", "R9L", ""},
	{"R10", "R10D", "R10W", "R10L", ""},
	{"R11", "R11D", "R11W", "R11L", ""},
	{"R12", "R12D", "R12W", "R12L", ""},
	{"R13", "R13D", "R13W", "R13L", ""},
	{"R14", "R14D", "R14W", "R14L", ""},
	{"R15", "R15D", "R15W", "R15L", ""},
}

// amd64Entries is the single source of truth for AMD64's register layout;
// every offset below is assigned once, here, and never duplicated in a
// lifter (spec.md §4.4 "Guest-state layouts: express as a static table").
var amd64Entries = func() []regEntry {
	var e []regEntry
	off := 0
	gprOff := make(map[string]int, len(amd64GPRAliases))
	gpr := func(name string) {
		e = append(e, regEntry{name, off, ir.Ty_I64})
		gprOff[name] = off
		off += 8
	}
	for _, a := range amd64GPRAliases {
		gpr(a.name64)
	}
	gpr("RIP")
	for _, a := range amd64GPRAliases {
		base := gprOff[a.name64]
		e = append(e, regEntry{a.name32, base, ir.Ty_I32})
		e = append(e, regEntry{a.name16, base, ir.Ty_I16})
		e = append(e, regEntry{a.name8Low, base, ir.Ty_I8})
		if a.name8High != "" {
			e = append(e, regEntry{a.name8High, base + 1, ir.Ty_I8})
		}
	}
	for _, n := range []string{"FS_BASE", "GS_BASE"} {
		gpr(n)
	}
	e = append(e, regEntry{"CC_OP", off, ir.Ty_I32})
	off += 4
	e = append(e, regEntry{"CC_NDEP", off, ir.Ty_I64})
	off += 8
	e = append(e, regEntry{"CC_DEP1", off, ir.Ty_I64})
	off += 8
	e = append(e, regEntry{"CC_DEP2", off, ir.Ty_I64})
	off += 8
	for i := 0; i < 8; i++ {
		e = append(e, regEntry{fmtReg("FPREG", i), off, ir.Ty_F64})
		off += 8
	}
	e = append(e, regEntry{"FPTAG", off, ir.Ty_I8})
	off += 8
	for i := 0; i < 16; i++ {
		e = append(e, regEntry{fmtReg("XMM", i), off, ir.Ty_V128})
		e = append(e, regEntry{fmtReg("YMM", i), off, ir.Ty_V256})
		e = append(e, regEntry{fmtReg("ZMM", i), off, ir.Ty_V512})
		off += 64
	}
	for i := 0; i < 8; i++ {
		e = append(e, regEntry{fmtReg("K", i), off, ir.Ty_I64})
		off += 8
	}
	for _, n := range []string{"CS", "DS", "ES", "FS", "GS", "SS"} {
		e = append(e, regEntry{n, off, ir.Ty_I16})
		off += 2
	}
	return e
}()

// NewAMD64 returns a fresh AMD64 guest-state layout.
func NewAMD64() *AMD64 { return &AMD64{l: newLayout(amd64Entries, "RSP")} }

func (s *AMD64) Arch() string    { return "amd64" }
func (s *AMD64) WordType() ir.Type { return ir.Ty_I64 }
func (s *AMD64) IPType() ir.Type   { return ir.Ty_I64 }

func (s *AMD64) RegisterOffset(name string) (int, error) { return s.l.offset(name) }
func (s *AMD64) RegisterType(name string) (ir.Type, error) { return s.l.regType(name) }

func (s *AMD64) RequiresPreciseMemoryExceptions(lo, hi int) bool {
	return s.l.requiresPrecise(lo, hi)
}

func (s *AMD64) DeepCopy() State { return NewAMD64() }

func fmtReg(prefix string, i int) string {
	const digits = "0123456789"
	if i < 10 {
		return prefix + string(digits[i])
	}
	return prefix + string(digits[i/10]) + string(digits[i%10])
}
