package ir

import (
	"fmt"
	"strings"
)

// IRSB is a super-block: a straight-line sequence of statements (no internal
// control-flow joins) ending in a single unconditional jump, with zero or
// more conditional Exit statements along the way. It owns its own type
// environment, per spec.md §3/§4.4.
type IRSB struct {
	Tyenv  *TypeEnv
	Stmts  []Stmt
	Next   Expr
	Jk     JumpKind
	OffsIP int
}

// NewIRSB returns an empty IRSB with a fresh type environment.
func NewIRSB() *IRSB {
	return &IRSB{Tyenv: NewTypeEnv(), Jk: JumpInvalid}
}

// NewTemp allocates a fresh temp of type t in this block's type environment.
func (b *IRSB) NewTemp(t Type) Temp {
	return b.Tyenv.NewTemp(t)
}

// TypeOfTemp returns the declared type of temp t.
func (b *IRSB) TypeOfTemp(t Temp) (Type, error) {
	return b.Tyenv.GetType(t)
}

// AddStatement appends st to the end of the statement list.
func (b *IRSB) AddStatement(st Stmt) {
	b.Stmts = append(b.Stmts, st)
}

// InsertStatement inserts st at position i, shifting later statements right.
// It panics if i is out of [0, len(Stmts)] range, since that is a
// programming error in the caller, never a guest-input-derived condition.
func (b *IRSB) InsertStatement(i int, st Stmt) {
	if i < 0 || i > len(b.Stmts) {
		panic(fmt.Sprintf("BUG: InsertStatement index %d out of range [0,%d]", i, len(b.Stmts)))
	}
	b.Stmts = append(b.Stmts, nil)
	copy(b.Stmts[i+1:], b.Stmts[i:])
	b.Stmts[i] = st
}

// ReplaceStatement overwrites the statement at position i.
func (b *IRSB) ReplaceStatement(i int, st Stmt) {
	if i < 0 || i >= len(b.Stmts) {
		panic(fmt.Sprintf("BUG: ReplaceStatement index %d out of range [0,%d)", i, len(b.Stmts)))
	}
	b.Stmts[i] = st
}

// RemoveStatementAt replaces the statement at position i with a NoOp,
// preserving indices for any outstanding references.
func (b *IRSB) RemoveStatementAt(i int) {
	if i < 0 || i >= len(b.Stmts) {
		panic(fmt.Sprintf("BUG: RemoveStatementAt index %d out of range [0,%d)", i, len(b.Stmts)))
	}
	b.Stmts[i] = &StmtNoOp{}
}

// ClearStatements empties the statement list, keeping the type environment.
func (b *IRSB) ClearStatements() {
	b.Stmts = nil
}

// DeepCopy returns an independent copy of the whole block.
func (b *IRSB) DeepCopy() *IRSB {
	stmts := make([]Stmt, len(b.Stmts))
	for i, s := range b.Stmts {
		stmts[i] = s.DeepCopy()
	}
	return &IRSB{
		Tyenv:  b.Tyenv.DeepCopy(),
		Stmts:  stmts,
		Next:   exprDeepCopy(b.Next),
		Jk:     b.Jk,
		OffsIP: b.OffsIP,
	}
}

// Equal reports deep, order-sensitive equality between two blocks, per
// spec.md §4.5: same type environment, same statements in the same order,
// same terminator.
func (b *IRSB) Equal(o *IRSB) bool {
	if o == nil {
		return false
	}
	if !b.Tyenv.Equal(o.Tyenv) {
		return false
	}
	if len(b.Stmts) != len(o.Stmts) {
		return false
	}
	for i := range b.Stmts {
		if !b.Stmts[i].Equal(o.Stmts[i]) {
			return false
		}
	}
	if b.Jk != o.Jk || b.OffsIP != o.OffsIP {
		return false
	}
	return exprEqual(b.Next, o.Next)
}

// String renders the block using the section layout from spec.md §6.
func (b *IRSB) String() string {
	var sb strings.Builder
	sb.WriteString("------ Type Environment ------\n")
	for i := 0; i < b.Tyenv.Count(); i++ {
		ty, _ := b.Tyenv.GetType(Temp(i))
		fmt.Fprintf(&sb, "t%d:%s\n", i, ty)
	}
	sb.WriteString("------ Statements ------\n")
	for i, s := range b.Stmts {
		fmt.Fprintf(&sb, "%d:\t%s\n", i, s)
	}
	sb.WriteString("------ Exit ------\n")
	fmt.Fprintf(&sb, "Next:       %s\n", b.Next)
	fmt.Fprintf(&sb, "Jump Kind:  %s\n", b.Jk)
	fmt.Fprintf(&sb, "IP Offset:  %d\n", b.OffsIP)
	return sb.String()
}
