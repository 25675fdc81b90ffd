// Package guest implements the per-architecture guest-state model: a flat,
// offset-addressed register file with a static name/offset/type table that
// is the single source of truth for every lifter (spec.md §4.4). The
// lifter never hard-codes a numeric offset; it always goes through
// RegisterOffset/RegisterType.
package guest

import (
	"strings"

	"github.com/anhed0nic/vexgo/ir"
)

// State is the per-architecture guest register file.
type State interface {
	// Arch names the architecture this state lays out ("x86", "amd64", "arm").
	Arch() string
	// WordType is the architecture's native integer width (I32 or I64).
	WordType() ir.Type
	// IPType is the type of the instruction-pointer register.
	IPType() ir.Type
	// RegisterOffset resolves name (ASCII case-insensitive) to its byte
	// offset in the flat register file. Unknown or synthetic/out-of-range
	// names fail with *ir.UnknownRegisterError.
	RegisterOffset(name string) (int, error)
	// RegisterType resolves name to its declared Type.
	RegisterType(name string) (ir.Type, error)
	// RequiresPreciseMemoryExceptions reports whether the byte range
	// [lo,hi) intersects the stack-pointer register's storage.
	RequiresPreciseMemoryExceptions(lo, hi int) bool
	// DeepCopy returns an independent copy of this state's layout metadata.
	// Guest state here models only the offset/type table (no live register
	// values), so DeepCopy is cheap and need not preserve identity.
	DeepCopy() State
}

// regEntry is one row of a static per-architecture layout table.
type regEntry struct {
	name   string
	offset int
	typ    ir.Type
}

// layout is the shared lookup machinery used by every concrete State: a
// name-indexed table built once from a slice of regEntry rows.
type layout struct {
	byName map[string]regEntry
	spLo   int
	spHi   int
}

func newLayout(entries []regEntry, spName string) *layout {
	byName := make(map[string]regEntry, len(entries))
	for _, e := range entries {
		byName[strings.ToUpper(e.name)] = e
	}
	sp, ok := byName[strings.ToUpper(spName)]
	if !ok {
		panic("BUG: stack pointer register " + spName + " missing from layout")
	}
	return &layout{byName: byName, spLo: sp.offset, spHi: sp.offset + sp.typ.Size()}
}

func (l *layout) offset(name string) (int, error) {
	e, ok := l.byName[strings.ToUpper(name)]
	if !ok {
		return 0, &ir.UnknownRegisterError{Name: name}
	}
	return e.offset, nil
}

func (l *layout) regType(name string) (ir.Type, error) {
	e, ok := l.byName[strings.ToUpper(name)]
	if !ok {
		return ir.TyInvalid, &ir.UnknownRegisterError{Name: name}
	}
	return e.typ, nil
}

func (l *layout) requiresPrecise(lo, hi int) bool {
	return lo < l.spHi && hi > l.spLo
}
