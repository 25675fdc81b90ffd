package guest

import "github.com/anhed0nic/vexgo/ir"

// ARM is the guest-state layout for 32-bit ARM, per spec.md §4.4's ARM
// aliasing rules. This package implements ARM only at the guest-state
// interface level (offset/type table, register aliasing); there is no ARM
// decoder or lifter in this module.
type ARM struct {
	l *layout
}

// armEntries lays out R0-R12, R13/R14 with their SP/LR aliases, R15T (the
// program counter packed with the Thumb bit), CPSR, and the VFP
// D0-D31/S0-S63 register file. S_(2i) aliases the low 4 bytes of D_i;
// S_(2i+1) aliases its high 4 bytes, per spec.md §4.4.
var armEntries = func() []regEntry {
	var e []regEntry
	off := 0
	for i := 0; i <= 12; i++ {
		e = append(e, regEntry{fmtReg("R", i), off, ir.Ty_I32})
		off += 4
	}
	r13 := off
	e = append(e, regEntry{"R13", r13, ir.Ty_I32})
	e = append(e, regEntry{"SP", r13, ir.Ty_I32})
	off += 4
	r14 := off
	e = append(e, regEntry{"R14", r14, ir.Ty_I32})
	e = append(e, regEntry{"LR", r14, ir.Ty_I32})
	off += 4
	// R15T packs the program counter with the Thumb-mode bit in bit 0; use
	// PackPC/UnpackPC to interpret its stored value.
	e = append(e, regEntry{"R15T", off, ir.Ty_I32})
	off += 4
	e = append(e, regEntry{"CPSR", off, ir.Ty_I32})
	off += 4
	for i := 0; i < 32; i++ {
		dOff := off
		e = append(e, regEntry{fmtReg("D", i), dOff, ir.Ty_F64})
		e = append(e, regEntry{fmtReg("S", 2*i), dOff, ir.Ty_F32})
		e = append(e, regEntry{fmtReg("S", 2*i+1), dOff + 4, ir.Ty_F32})
		off += 8
	}
	return e
}()

// NewARM returns a fresh ARM guest-state layout.
func NewARM() *ARM { return &ARM{l: newLayout(armEntries, "SP")} }

func (s *ARM) Arch() string      { return "arm" }
func (s *ARM) WordType() ir.Type { return ir.Ty_I32 }
func (s *ARM) IPType() ir.Type   { return ir.Ty_I32 }

func (s *ARM) RegisterOffset(name string) (int, error)   { return s.l.offset(name) }
func (s *ARM) RegisterType(name string) (ir.Type, error) { return s.l.regType(name) }

func (s *ARM) RequiresPreciseMemoryExceptions(lo, hi int) bool {
	return s.l.requiresPrecise(lo, hi)
}

func (s *ARM) DeepCopy() State { return NewARM() }

// PackPC builds the R15T value for program counter addr in the given
// instruction set, per spec.md §4.4's setPC formula.
func PackPC(addr uint32, thumb bool) uint32 {
	if thumb {
		return addr | 1
	}
	return addr &^ 1
}

// UnpackPC extracts the real program counter from a stored R15T value.
func UnpackPC(r15t uint32) uint32 { return r15t &^ 1 }

// IsThumb reports whether a stored R15T value has its Thumb bit set.
func IsThumb(r15t uint32) bool { return r15t&1 != 0 }
