package ir

import "fmt"

// Temp is an SSA handle: a non-negative index into the enclosing IRTypeEnv,
// or TempInvalid.
type Temp int32

// TempInvalid is the sentinel Temp value used before a temp is assigned.
const TempInvalid Temp = -1

// String implements fmt.Stringer, per spec.md §6 ("t<n>"; invalid: "t_INVALID").
func (t Temp) String() string {
	if t == TempInvalid {
		return "t_INVALID"
	}
	return fmt.Sprintf("t%d", int32(t))
}

// TypeEnv maps dense temp indices to their declared Type. Temps are created
// exactly once, in strictly increasing order starting at 0; the environment
// is append-only during lifting (spec.md §4.3, design notes §9).
type TypeEnv struct {
	types []Type
}

// NewTypeEnv returns an empty, ready to use type environment.
func NewTypeEnv() *TypeEnv {
	return &TypeEnv{}
}

// NewTemp allocates a fresh Temp of type t, whose index equals the previous
// count of temps in this environment.
func (e *TypeEnv) NewTemp(t Type) Temp {
	idx := Temp(len(e.types))
	e.types = append(e.types, t)
	return idx
}

// Count returns the number of temps declared in this environment.
func (e *TypeEnv) Count() int {
	return len(e.types)
}

// GetType returns the declared type of temp t, or UnboundTempError if t is
// out of range.
func (e *TypeEnv) GetType(t Temp) (Type, error) {
	if t < 0 || int(t) >= len(e.types) {
		return TyInvalid, &UnboundTempError{Temp: t, Count: len(e.types)}
	}
	return e.types[t], nil
}

// DeepCopy returns an independent copy of this type environment.
func (e *TypeEnv) DeepCopy() *TypeEnv {
	cp := make([]Type, len(e.types))
	copy(cp, e.types)
	return &TypeEnv{types: cp}
}

// Equal reports whether two type environments declare the same temps, in the
// same order, with the same types.
func (e *TypeEnv) Equal(o *TypeEnv) bool {
	if len(e.types) != len(o.types) {
		return false
	}
	for i := range e.types {
		if e.types[i] != o.types[i] {
			return false
		}
	}
	return true
}
