package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is the closed sum type of IR expressions (component D): pure,
// side-effect-free, referentially transparent. Each variant is its own
// struct rather than one flattened type, so that each smart constructor can
// validate exactly the shape spec.md §4.2 requires for that variant.
type Expr interface {
	Equal(Expr) bool
	DeepCopy() Expr
	String() string
	isExpr()
}

// ExprGet reads the guest register at a fixed byte Offset, typed Ty.
type ExprGet struct {
	Offset int
	Ty     Type
}

// ExprGetI is a circular-indexed guest register read: effective index is
// (Ix + Bias) mod Array.NumElems.
type ExprGetI struct {
	Array RegArray
	Ix    Expr
	Bias  int
}

// ExprRdTmp reads the current value of an SSA temp.
type ExprRdTmp struct {
	Tmp Temp
}

// ExprLoad is a (possibly speculative, from an analyser's point of view) pure
// read of guest memory.
type ExprLoad struct {
	End  Endness
	Ty   Type
	Addr Expr
}

// ExprConst wraps a literal Const.
type ExprConst struct {
	Con Const
}

// ExprUnop applies a 1-ary Op.
type ExprUnop struct {
	Op  Op
	Arg Expr
}

// ExprBinop applies a 2-ary Op.
type ExprBinop struct {
	Op         Op
	Arg1, Arg2 Expr
}

// ExprTriop applies a 3-ary Op.
type ExprTriop struct {
	Op               Op
	Arg1, Arg2, Arg3 Expr
}

// ExprQop applies a 4-ary Op.
type ExprQop struct {
	Op                     Op
	Arg1, Arg2, Arg3, Arg4 Expr
}

// ExprITE selects Then or Else based on Cond; Then and Else must share a
// type (checked by TypeOf, not at construction, since it may require the
// enclosing type environment to resolve RdTmp types).
type ExprITE struct {
	Cond, Then, Else Expr
}

// ExprCCall is a pure helper call: the contract requires the callee be
// idempotent and side-effect-free.
type ExprCCall struct {
	Target CallTarget
	RetTy  Type
	Args   []Expr
}

// ExprBinder is a placeholder used only inside pattern-matching helper
// tables (never emitted by a lifter into a live IRSB).
type ExprBinder struct {
	Index int
}

// ExprVECRET is a placeholder usable only inside a Dirty call's argument
// list, standing for "the address of the result vector register".
type ExprVECRET struct{}

// ExprGSPTR is a placeholder usable only inside a Dirty call's argument
// list, standing for "the address of the guest state".
type ExprGSPTR struct{}

func (*ExprGet) isExpr()    {}
func (*ExprGetI) isExpr()   {}
func (*ExprRdTmp) isExpr()  {}
func (*ExprLoad) isExpr()   {}
func (*ExprConst) isExpr()  {}
func (*ExprUnop) isExpr()   {}
func (*ExprBinop) isExpr()  {}
func (*ExprTriop) isExpr()  {}
func (*ExprQop) isExpr()    {}
func (*ExprITE) isExpr()    {}
func (*ExprCCall) isExpr()  {}
func (*ExprBinder) isExpr() {}
func (*ExprVECRET) isExpr() {}
func (*ExprGSPTR) isExpr()  {}

// --- smart constructors ----------------------------------------------------

// NewGet builds a Get(offset, ty) expression.
func NewGet(offset int, ty Type) (*ExprGet, error) {
	if !ty.Valid() {
		return nil, &InvalidOperandError{Variant: "Get", Field: "ty"}
	}
	return &ExprGet{Offset: offset, Ty: ty}, nil
}

// NewGetI builds a GetI(array)[ix,bias] expression.
func NewGetI(array RegArray, ix Expr, bias int) (*ExprGetI, error) {
	if ix == nil {
		return nil, &InvalidOperandError{Variant: "GetI", Field: "ix"}
	}
	return &ExprGetI{Array: array, Ix: ix, Bias: bias}, nil
}

// NewRdTmp builds a RdTmp(t) expression.
func NewRdTmp(t Temp) (*ExprRdTmp, error) {
	if t == TempInvalid {
		return nil, &InvalidOperandError{Variant: "RdTmp", Field: "tmp"}
	}
	return &ExprRdTmp{Tmp: t}, nil
}

// NewLoad builds a Load(end, ty, addr) expression.
func NewLoad(end Endness, ty Type, addr Expr) (*ExprLoad, error) {
	if addr == nil {
		return nil, &InvalidOperandError{Variant: "Load", Field: "addr"}
	}
	if !ty.Valid() {
		return nil, &InvalidOperandError{Variant: "Load", Field: "ty"}
	}
	return &ExprLoad{End: end, Ty: ty, Addr: addr}, nil
}

// NewConst builds a Const(con) expression.
func NewConst(con Const) (*ExprConst, error) {
	if con == nil {
		return nil, &InvalidOperandError{Variant: "Const", Field: "con"}
	}
	return &ExprConst{Con: con}, nil
}

// NewUnop builds a Unop(op, arg) expression, failing with
// OpArityMismatchError if op is not 1-ary.
func NewUnop(op Op, arg Expr) (*ExprUnop, error) {
	if arg == nil {
		return nil, &InvalidOperandError{Variant: "Unop", Field: "arg"}
	}
	if want := op.Arity(); want != 1 {
		return nil, &OpArityMismatchError{Op: op, Wanted: want, Supplied: 1}
	}
	return &ExprUnop{Op: op, Arg: arg}, nil
}

// NewBinop builds a Binop(op, arg1, arg2) expression.
func NewBinop(op Op, a1, a2 Expr) (*ExprBinop, error) {
	if a1 == nil {
		return nil, &InvalidOperandError{Variant: "Binop", Field: "arg1"}
	}
	if a2 == nil {
		return nil, &InvalidOperandError{Variant: "Binop", Field: "arg2"}
	}
	if want := op.Arity(); want != 2 {
		return nil, &OpArityMismatchError{Op: op, Wanted: want, Supplied: 2}
	}
	return &ExprBinop{Op: op, Arg1: a1, Arg2: a2}, nil
}

// NewTriop builds a Triop(op, arg1, arg2, arg3) expression.
func NewTriop(op Op, a1, a2, a3 Expr) (*ExprTriop, error) {
	for field, a := range map[string]Expr{"arg1": a1, "arg2": a2, "arg3": a3} {
		if a == nil {
			return nil, &InvalidOperandError{Variant: "Triop", Field: field}
		}
	}
	if want := op.Arity(); want != 3 {
		return nil, &OpArityMismatchError{Op: op, Wanted: want, Supplied: 3}
	}
	return &ExprTriop{Op: op, Arg1: a1, Arg2: a2, Arg3: a3}, nil
}

// NewQop builds a Qop(op, arg1..arg4) expression.
func NewQop(op Op, a1, a2, a3, a4 Expr) (*ExprQop, error) {
	for field, a := range map[string]Expr{"arg1": a1, "arg2": a2, "arg3": a3, "arg4": a4} {
		if a == nil {
			return nil, &InvalidOperandError{Variant: "Qop", Field: field}
		}
	}
	if want := op.Arity(); want != 4 {
		return nil, &OpArityMismatchError{Op: op, Wanted: want, Supplied: 4}
	}
	return &ExprQop{Op: op, Arg1: a1, Arg2: a2, Arg3: a3, Arg4: a4}, nil
}

// NewITE builds an ITE(cond, then, else) expression. Then/Else type
// agreement is checked by TypeOf, since it may require the type environment.
func NewITE(cond, then, els Expr) (*ExprITE, error) {
	if cond == nil {
		return nil, &InvalidOperandError{Variant: "ITE", Field: "cond"}
	}
	if then == nil {
		return nil, &InvalidOperandError{Variant: "ITE", Field: "then"}
	}
	if els == nil {
		return nil, &InvalidOperandError{Variant: "ITE", Field: "else"}
	}
	return &ExprITE{Cond: cond, Then: then, Else: els}, nil
}

// NewCCall builds a CCall(target, retTy, args) expression.
func NewCCall(target CallTarget, retTy Type, args []Expr) (*ExprCCall, error) {
	if !retTy.Valid() {
		return nil, &InvalidOperandError{Variant: "CCall", Field: "retTy"}
	}
	for i, a := range args {
		if a == nil {
			return nil, &InvalidOperandError{Variant: "CCall", Field: itoaField("args", i)}
		}
	}
	cp := make([]Expr, len(args))
	copy(cp, args)
	return &ExprCCall{Target: target, RetTy: retTy, Args: cp}, nil
}

// NewBinder builds a Binder(index) placeholder.
func NewBinder(index int) *ExprBinder { return &ExprBinder{Index: index} }

// NewVECRET builds the VECRET placeholder.
func NewVECRET() *ExprVECRET { return &ExprVECRET{} }

// NewGSPTR builds the GSPTR placeholder.
func NewGSPTR() *ExprGSPTR { return &ExprGSPTR{} }

func itoaField(prefix string, i int) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('[')
	b.WriteString(strconv.Itoa(i))
	b.WriteByte(']')
	return b.String()
}

// --- Equal -----------------------------------------------------------------

func exprEqual(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func (e *ExprGet) Equal(o Expr) bool {
	v, ok := o.(*ExprGet)
	return ok && v.Offset == e.Offset && v.Ty == e.Ty
}

func (e *ExprGetI) Equal(o Expr) bool {
	v, ok := o.(*ExprGetI)
	return ok && v.Array == e.Array && v.Bias == e.Bias && exprEqual(v.Ix, e.Ix)
}

func (e *ExprRdTmp) Equal(o Expr) bool {
	v, ok := o.(*ExprRdTmp)
	return ok && v.Tmp == e.Tmp
}

func (e *ExprLoad) Equal(o Expr) bool {
	v, ok := o.(*ExprLoad)
	return ok && v.End == e.End && v.Ty == e.Ty && exprEqual(v.Addr, e.Addr)
}

func (e *ExprConst) Equal(o Expr) bool {
	v, ok := o.(*ExprConst)
	return ok && v.Con.Equal(e.Con)
}

func (e *ExprUnop) Equal(o Expr) bool {
	v, ok := o.(*ExprUnop)
	return ok && v.Op == e.Op && exprEqual(v.Arg, e.Arg)
}

func (e *ExprBinop) Equal(o Expr) bool {
	v, ok := o.(*ExprBinop)
	return ok && v.Op == e.Op && exprEqual(v.Arg1, e.Arg1) && exprEqual(v.Arg2, e.Arg2)
}

func (e *ExprTriop) Equal(o Expr) bool {
	v, ok := o.(*ExprTriop)
	return ok && v.Op == e.Op && exprEqual(v.Arg1, e.Arg1) &&
		exprEqual(v.Arg2, e.Arg2) && exprEqual(v.Arg3, e.Arg3)
}

func (e *ExprQop) Equal(o Expr) bool {
	v, ok := o.(*ExprQop)
	return ok && v.Op == e.Op && exprEqual(v.Arg1, e.Arg1) &&
		exprEqual(v.Arg2, e.Arg2) && exprEqual(v.Arg3, e.Arg3) && exprEqual(v.Arg4, e.Arg4)
}

func (e *ExprITE) Equal(o Expr) bool {
	v, ok := o.(*ExprITE)
	return ok && exprEqual(v.Cond, e.Cond) && exprEqual(v.Then, e.Then) && exprEqual(v.Else, e.Else)
}

func (e *ExprCCall) Equal(o Expr) bool {
	v, ok := o.(*ExprCCall)
	if !ok || v.Target != e.Target || v.RetTy != e.RetTy || len(v.Args) != len(e.Args) {
		return false
	}
	for i := range e.Args {
		if !exprEqual(v.Args[i], e.Args[i]) {
			return false
		}
	}
	return true
}

func (e *ExprBinder) Equal(o Expr) bool {
	v, ok := o.(*ExprBinder)
	return ok && v.Index == e.Index
}

func (e *ExprVECRET) Equal(o Expr) bool { _, ok := o.(*ExprVECRET); return ok }
func (e *ExprGSPTR) Equal(o Expr) bool  { _, ok := o.(*ExprGSPTR); return ok }

// --- DeepCopy ----------------------------------------------------------------

func exprDeepCopy(e Expr) Expr {
	if e == nil {
		return nil
	}
	return e.DeepCopy()
}

func (e *ExprGet) DeepCopy() Expr { cp := *e; return &cp }

func (e *ExprGetI) DeepCopy() Expr {
	return &ExprGetI{Array: e.Array, Ix: exprDeepCopy(e.Ix), Bias: e.Bias}
}

func (e *ExprRdTmp) DeepCopy() Expr { cp := *e; return &cp }

func (e *ExprLoad) DeepCopy() Expr {
	return &ExprLoad{End: e.End, Ty: e.Ty, Addr: exprDeepCopy(e.Addr)}
}

func (e *ExprConst) DeepCopy() Expr { return &ExprConst{Con: e.Con.DeepCopy()} }

func (e *ExprUnop) DeepCopy() Expr {
	return &ExprUnop{Op: e.Op, Arg: exprDeepCopy(e.Arg)}
}

func (e *ExprBinop) DeepCopy() Expr {
	return &ExprBinop{Op: e.Op, Arg1: exprDeepCopy(e.Arg1), Arg2: exprDeepCopy(e.Arg2)}
}

func (e *ExprTriop) DeepCopy() Expr {
	return &ExprTriop{Op: e.Op, Arg1: exprDeepCopy(e.Arg1), Arg2: exprDeepCopy(e.Arg2), Arg3: exprDeepCopy(e.Arg3)}
}

func (e *ExprQop) DeepCopy() Expr {
	return &ExprQop{
		Op: e.Op, Arg1: exprDeepCopy(e.Arg1), Arg2: exprDeepCopy(e.Arg2),
		Arg3: exprDeepCopy(e.Arg3), Arg4: exprDeepCopy(e.Arg4),
	}
}

func (e *ExprITE) DeepCopy() Expr {
	return &ExprITE{Cond: exprDeepCopy(e.Cond), Then: exprDeepCopy(e.Then), Else: exprDeepCopy(e.Else)}
}

func (e *ExprCCall) DeepCopy() Expr {
	args := make([]Expr, len(e.Args))
	for i, a := range e.Args {
		args[i] = exprDeepCopy(a)
	}
	return &ExprCCall{Target: e.Target, RetTy: e.RetTy, Args: args}
}

func (e *ExprBinder) DeepCopy() Expr { cp := *e; return &cp }
func (e *ExprVECRET) DeepCopy() Expr { return &ExprVECRET{} }
func (e *ExprGSPTR) DeepCopy() Expr  { return &ExprGSPTR{} }

// --- String ------------------------------------------------------------------

func (e *ExprGet) String() string { return fmt.Sprintf("GET:%s(%d)", e.Ty, e.Offset) }

func (e *ExprGetI) String() string {
	return fmt.Sprintf("GETI%s[%s,%d]", e.Array, e.Ix, e.Bias)
}

func (e *ExprRdTmp) String() string { return e.Tmp.String() }

func (e *ExprLoad) String() string {
	return fmt.Sprintf("LD%s:%s(%s)", e.End, e.Ty, e.Addr)
}

func (e *ExprConst) String() string { return e.Con.String() }

func (e *ExprUnop) String() string { return fmt.Sprintf("%s(%s)", e.Op, e.Arg) }

func (e *ExprBinop) String() string {
	return fmt.Sprintf("%s(%s,%s)", e.Op, e.Arg1, e.Arg2)
}

func (e *ExprTriop) String() string {
	return fmt.Sprintf("%s(%s,%s,%s)", e.Op, e.Arg1, e.Arg2, e.Arg3)
}

func (e *ExprQop) String() string {
	return fmt.Sprintf("%s(%s,%s,%s,%s)", e.Op, e.Arg1, e.Arg2, e.Arg3, e.Arg4)
}

func (e *ExprITE) String() string {
	return fmt.Sprintf("ITE(%s,%s,%s)", e.Cond, e.Then, e.Else)
}

func (e *ExprCCall) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s:%s(%s)", e.Target, e.RetTy, strings.Join(parts, ","))
}

func (e *ExprBinder) String() string { return fmt.Sprintf("BIND-%d", e.Index) }
func (e *ExprVECRET) String() string { return "VECRET" }
func (e *ExprGSPTR) String() string  { return "GSPTR" }
