package ir

import (
	"fmt"
	"strings"
)

// Stmt is the closed sum type of IR statements (component E): the
// side-effecting, strictly-ordered contents of an IRSB.
type Stmt interface {
	Equal(Stmt) bool
	DeepCopy() Stmt
	String() string
	isStmt()
}

// StmtNoOp carries no effect; it exists so passes can delete a statement in
// place without shifting indices.
type StmtNoOp struct{}

// StmtIMark documents the start of a guest instruction at Addr, spanning Len
// bytes, with an ARM/Thumb-mode flag meaningful only on that architecture.
type StmtIMark struct {
	Addr  uint64
	Len   int
	Delta uint8
}

// StmtAbiHint tells the memory-effects analysis that the bytes at Base (Len
// of them) are about to become undefined, typically because NextIP is about
// to be pushed there by a call instruction.
type StmtAbiHint struct {
	Base   Expr
	Len    int
	NextIP Expr
}

// StmtPut writes Data to the guest register at a fixed byte Offset.
type StmtPut struct {
	Offset int
	Data   Expr
}

// StmtPutI writes Data into a circularly-indexed guest register.
type StmtPutI struct {
	Array RegArray
	Ix    Expr
	Bias  int
	Data  Expr
}

// StmtWrTmp assigns a temp's value. Spec.md requires each Temp be the target
// of exactly one WrTmp in a well-formed IRSB (SSA discipline).
type StmtWrTmp struct {
	Tmp  Temp
	Data Expr
}

// StmtStore writes Data to guest memory at Addr.
type StmtStore struct {
	End  Endness
	Addr Expr
	Data Expr
}

// StmtLoadG is a guarded load: when Guard is true, reads Addr (widened via
// Cvt) into Dst; otherwise Dst takes AltValue.
type StmtLoadG struct {
	End      Endness
	Cvt      Op
	Dst      Temp
	Addr     Expr
	AltValue Expr
	Guard    Expr
}

// StmtStoreG is a guarded store: writes Data to Addr only when Guard is
// true; otherwise it is a no-op.
type StmtStoreG struct {
	End   Endness
	Addr  Expr
	Data  Expr
	Guard Expr
}

// StmtCAS models an atomic compare-and-swap, possibly double-width
// (OldHi/ExpdHi/DataHi non-nil) for a DCAS.
type StmtCAS struct {
	OldLo, OldHi   Temp
	End            Endness
	Addr           Expr
	ExpdLo, ExpdHi Expr
	DataLo, DataHi Expr
}

// StmtLLSC models a load-linked/store-conditional pair. When StoreData is
// nil, this is the load-linked half and Result receives the loaded value.
// When StoreData is non-nil, this is the store-conditional half and Result
// receives the I1 success flag.
type StmtLLSC struct {
	End       Endness
	Result    Temp
	Addr      Expr
	StoreData Expr
}

// StmtDirty models a call to a helper with side effects (memory and/or guest
// state), optionally guarded, optionally returning a value into Result.
type StmtDirty struct {
	Result    Temp
	Target    CallTarget
	RetTy     Type
	Guard     Expr
	Args      []Expr
	MFx       MemFx
	MAddr     Expr
	MSize     int
	NFxState  []int
}

// StmtMBE notes a memory-bus event (fence or reservation cancellation).
type StmtMBE struct {
	Event MBusEvent
}

// StmtExit is a conditional exit from the middle of an IRSB: when Guard is
// true, control leaves to Dst (of type GuestPC) with reason Jk.
type StmtExit struct {
	Guard  Expr
	Dst    Const
	Jk     JumpKind
	OffsIP int
}

func (*StmtNoOp) isStmt()    {}
func (*StmtIMark) isStmt()   {}
func (*StmtAbiHint) isStmt() {}
func (*StmtPut) isStmt()     {}
func (*StmtPutI) isStmt()    {}
func (*StmtWrTmp) isStmt()   {}
func (*StmtStore) isStmt()   {}
func (*StmtLoadG) isStmt()   {}
func (*StmtStoreG) isStmt()  {}
func (*StmtCAS) isStmt()     {}
func (*StmtLLSC) isStmt()    {}
func (*StmtDirty) isStmt()   {}
func (*StmtMBE) isStmt()     {}
func (*StmtExit) isStmt()    {}

// --- smart constructors ----------------------------------------------------

// NewNoOp builds a NoOp statement.
func NewNoOp() *StmtNoOp { return &StmtNoOp{} }

// NewIMark builds an IMark statement.
func NewIMark(addr uint64, length int, delta uint8) (*StmtIMark, error) {
	if length <= 0 {
		return nil, &InvalidOperandError{Variant: "IMark", Field: "len"}
	}
	return &StmtIMark{Addr: addr, Len: length, Delta: delta}, nil
}

// NewAbiHint builds an AbiHint statement.
func NewAbiHint(base Expr, length int, nextIP Expr) (*StmtAbiHint, error) {
	if base == nil {
		return nil, &InvalidOperandError{Variant: "AbiHint", Field: "base"}
	}
	if nextIP == nil {
		return nil, &InvalidOperandError{Variant: "AbiHint", Field: "nextIP"}
	}
	return &StmtAbiHint{Base: base, Len: length, NextIP: nextIP}, nil
}

// NewPut builds a Put statement.
func NewPut(offset int, data Expr) (*StmtPut, error) {
	if data == nil {
		return nil, &InvalidOperandError{Variant: "Put", Field: "data"}
	}
	return &StmtPut{Offset: offset, Data: data}, nil
}

// NewPutI builds a PutI statement.
func NewPutI(array RegArray, ix Expr, bias int, data Expr) (*StmtPutI, error) {
	if ix == nil {
		return nil, &InvalidOperandError{Variant: "PutI", Field: "ix"}
	}
	if data == nil {
		return nil, &InvalidOperandError{Variant: "PutI", Field: "data"}
	}
	return &StmtPutI{Array: array, Ix: ix, Bias: bias, Data: data}, nil
}

// NewWrTmp builds a WrTmp statement.
func NewWrTmp(tmp Temp, data Expr) (*StmtWrTmp, error) {
	if tmp == TempInvalid {
		return nil, &InvalidOperandError{Variant: "WrTmp", Field: "tmp"}
	}
	if data == nil {
		return nil, &InvalidOperandError{Variant: "WrTmp", Field: "data"}
	}
	return &StmtWrTmp{Tmp: tmp, Data: data}, nil
}

// NewStore builds a Store statement.
func NewStore(end Endness, addr, data Expr) (*StmtStore, error) {
	if addr == nil {
		return nil, &InvalidOperandError{Variant: "Store", Field: "addr"}
	}
	if data == nil {
		return nil, &InvalidOperandError{Variant: "Store", Field: "data"}
	}
	return &StmtStore{End: end, Addr: addr, Data: data}, nil
}

// NewLoadG builds a LoadG statement.
func NewLoadG(end Endness, cvt Op, dst Temp, addr, altValue, guard Expr) (*StmtLoadG, error) {
	if dst == TempInvalid {
		return nil, &InvalidOperandError{Variant: "LoadG", Field: "dst"}
	}
	if addr == nil {
		return nil, &InvalidOperandError{Variant: "LoadG", Field: "addr"}
	}
	if altValue == nil {
		return nil, &InvalidOperandError{Variant: "LoadG", Field: "altValue"}
	}
	if guard == nil {
		return nil, &InvalidOperandError{Variant: "LoadG", Field: "guard"}
	}
	return &StmtLoadG{End: end, Cvt: cvt, Dst: dst, Addr: addr, AltValue: altValue, Guard: guard}, nil
}

// NewStoreG builds a StoreG statement.
func NewStoreG(end Endness, addr, data, guard Expr) (*StmtStoreG, error) {
	if addr == nil {
		return nil, &InvalidOperandError{Variant: "StoreG", Field: "addr"}
	}
	if data == nil {
		return nil, &InvalidOperandError{Variant: "StoreG", Field: "data"}
	}
	if guard == nil {
		return nil, &InvalidOperandError{Variant: "StoreG", Field: "guard"}
	}
	return &StmtStoreG{End: end, Addr: addr, Data: data, Guard: guard}, nil
}

// NewCAS builds a CAS statement. A DCAS (double-word CAS) requires OldHi,
// ExpdHi and DataHi be supplied together; supplying only some of them is a
// malformed atomic.
func NewCAS(oldLo, oldHi Temp, end Endness, addr, expdLo, expdHi, dataLo, dataHi Expr) (*StmtCAS, error) {
	if oldLo == TempInvalid {
		return nil, &InvalidOperandError{Variant: "CAS", Field: "oldLo"}
	}
	if addr == nil {
		return nil, &InvalidOperandError{Variant: "CAS", Field: "addr"}
	}
	if expdLo == nil {
		return nil, &InvalidOperandError{Variant: "CAS", Field: "expdLo"}
	}
	if dataLo == nil {
		return nil, &InvalidOperandError{Variant: "CAS", Field: "dataLo"}
	}
	hiPresent := oldHi != TempInvalid || expdHi != nil || dataHi != nil
	hiComplete := oldHi != TempInvalid && expdHi != nil && dataHi != nil
	if hiPresent && !hiComplete {
		return nil, &MalformedAtomicError{Reason: "CAS hi-half operands must be supplied all together or not at all"}
	}
	return &StmtCAS{
		OldLo: oldLo, OldHi: oldHi, End: end, Addr: addr,
		ExpdLo: expdLo, ExpdHi: expdHi, DataLo: dataLo, DataHi: dataHi,
	}, nil
}

// NewLLSC builds an LLSC statement. StoreData nil means load-linked;
// non-nil means store-conditional.
func NewLLSC(end Endness, result Temp, addr, storeData Expr) (*StmtLLSC, error) {
	if result == TempInvalid {
		return nil, &InvalidOperandError{Variant: "LLSC", Field: "result"}
	}
	if addr == nil {
		return nil, &InvalidOperandError{Variant: "LLSC", Field: "addr"}
	}
	return &StmtLLSC{End: end, Result: result, Addr: addr, StoreData: storeData}, nil
}

// NewDirty builds a Dirty statement.
func NewDirty(result Temp, target CallTarget, retTy Type, guard Expr, args []Expr, mfx MemFx, maddr Expr, msize int) (*StmtDirty, error) {
	if guard == nil {
		return nil, &InvalidOperandError{Variant: "Dirty", Field: "guard"}
	}
	for i, a := range args {
		if a == nil {
			return nil, &InvalidOperandError{Variant: "Dirty", Field: fmt.Sprintf("args[%d]", i)}
		}
	}
	if mfx != MemFxNone && maddr == nil {
		return nil, &InvalidOperandError{Variant: "Dirty", Field: "mAddr"}
	}
	cp := make([]Expr, len(args))
	copy(cp, args)
	return &StmtDirty{
		Result: result, Target: target, RetTy: retTy, Guard: guard,
		Args: cp, MFx: mfx, MAddr: maddr, MSize: msize,
	}, nil
}

// NewMBE builds an MBE statement.
func NewMBE(event MBusEvent) *StmtMBE { return &StmtMBE{Event: event} }

// NewExit builds an Exit statement.
func NewExit(guard Expr, dst Const, jk JumpKind, offsIP int) (*StmtExit, error) {
	if guard == nil {
		return nil, &InvalidOperandError{Variant: "Exit", Field: "guard"}
	}
	if dst == nil {
		return nil, &InvalidOperandError{Variant: "Exit", Field: "dst"}
	}
	return &StmtExit{Guard: guard, Dst: dst, Jk: jk, OffsIP: offsIP}, nil
}

// --- Equal -----------------------------------------------------------------

func (s *StmtNoOp) Equal(o Stmt) bool { _, ok := o.(*StmtNoOp); return ok }

func (s *StmtIMark) Equal(o Stmt) bool {
	v, ok := o.(*StmtIMark)
	return ok && v.Addr == s.Addr && v.Len == s.Len && v.Delta == s.Delta
}

func (s *StmtAbiHint) Equal(o Stmt) bool {
	v, ok := o.(*StmtAbiHint)
	return ok && v.Len == s.Len && exprEqual(v.Base, s.Base) && exprEqual(v.NextIP, s.NextIP)
}

func (s *StmtPut) Equal(o Stmt) bool {
	v, ok := o.(*StmtPut)
	return ok && v.Offset == s.Offset && exprEqual(v.Data, s.Data)
}

func (s *StmtPutI) Equal(o Stmt) bool {
	v, ok := o.(*StmtPutI)
	return ok && v.Array == s.Array && v.Bias == s.Bias && exprEqual(v.Ix, s.Ix) && exprEqual(v.Data, s.Data)
}

func (s *StmtWrTmp) Equal(o Stmt) bool {
	v, ok := o.(*StmtWrTmp)
	return ok && v.Tmp == s.Tmp && exprEqual(v.Data, s.Data)
}

func (s *StmtStore) Equal(o Stmt) bool {
	v, ok := o.(*StmtStore)
	return ok && v.End == s.End && exprEqual(v.Addr, s.Addr) && exprEqual(v.Data, s.Data)
}

func (s *StmtLoadG) Equal(o Stmt) bool {
	v, ok := o.(*StmtLoadG)
	return ok && v.End == s.End && v.Cvt == s.Cvt && v.Dst == s.Dst &&
		exprEqual(v.Addr, s.Addr) && exprEqual(v.AltValue, s.AltValue) && exprEqual(v.Guard, s.Guard)
}

func (s *StmtStoreG) Equal(o Stmt) bool {
	v, ok := o.(*StmtStoreG)
	return ok && v.End == s.End && exprEqual(v.Addr, s.Addr) && exprEqual(v.Data, s.Data) && exprEqual(v.Guard, s.Guard)
}

func (s *StmtCAS) Equal(o Stmt) bool {
	v, ok := o.(*StmtCAS)
	return ok && v.OldLo == s.OldLo && v.OldHi == s.OldHi && v.End == s.End &&
		exprEqual(v.Addr, s.Addr) && exprEqual(v.ExpdLo, s.ExpdLo) && exprEqual(v.ExpdHi, s.ExpdHi) &&
		exprEqual(v.DataLo, s.DataLo) && exprEqual(v.DataHi, s.DataHi)
}

func (s *StmtLLSC) Equal(o Stmt) bool {
	v, ok := o.(*StmtLLSC)
	return ok && v.End == s.End && v.Result == s.Result && exprEqual(v.Addr, s.Addr) && exprEqual(v.StoreData, s.StoreData)
}

func (s *StmtDirty) Equal(o Stmt) bool {
	v, ok := o.(*StmtDirty)
	if !ok || v.Result != s.Result || v.Target != s.Target || v.RetTy != s.RetTy ||
		v.MFx != s.MFx || v.MSize != s.MSize || len(v.Args) != len(s.Args) {
		return false
	}
	if !exprEqual(v.Guard, s.Guard) || !exprEqual(v.MAddr, s.MAddr) {
		return false
	}
	for i := range s.Args {
		if !exprEqual(v.Args[i], s.Args[i]) {
			return false
		}
	}
	return true
}

func (s *StmtMBE) Equal(o Stmt) bool {
	v, ok := o.(*StmtMBE)
	return ok && v.Event == s.Event
}

func (s *StmtExit) Equal(o Stmt) bool {
	v, ok := o.(*StmtExit)
	return ok && v.Jk == s.Jk && v.OffsIP == s.OffsIP && exprEqual(v.Guard, s.Guard) && v.Dst.Equal(s.Dst)
}

// --- DeepCopy ----------------------------------------------------------------

func (s *StmtNoOp) DeepCopy() Stmt  { return &StmtNoOp{} }
func (s *StmtIMark) DeepCopy() Stmt { cp := *s; return &cp }

func (s *StmtAbiHint) DeepCopy() Stmt {
	return &StmtAbiHint{Base: exprDeepCopy(s.Base), Len: s.Len, NextIP: exprDeepCopy(s.NextIP)}
}

func (s *StmtPut) DeepCopy() Stmt {
	return &StmtPut{Offset: s.Offset, Data: exprDeepCopy(s.Data)}
}

func (s *StmtPutI) DeepCopy() Stmt {
	return &StmtPutI{Array: s.Array, Ix: exprDeepCopy(s.Ix), Bias: s.Bias, Data: exprDeepCopy(s.Data)}
}

func (s *StmtWrTmp) DeepCopy() Stmt {
	return &StmtWrTmp{Tmp: s.Tmp, Data: exprDeepCopy(s.Data)}
}

func (s *StmtStore) DeepCopy() Stmt {
	return &StmtStore{End: s.End, Addr: exprDeepCopy(s.Addr), Data: exprDeepCopy(s.Data)}
}

func (s *StmtLoadG) DeepCopy() Stmt {
	return &StmtLoadG{
		End: s.End, Cvt: s.Cvt, Dst: s.Dst, Addr: exprDeepCopy(s.Addr),
		AltValue: exprDeepCopy(s.AltValue), Guard: exprDeepCopy(s.Guard),
	}
}

func (s *StmtStoreG) DeepCopy() Stmt {
	return &StmtStoreG{End: s.End, Addr: exprDeepCopy(s.Addr), Data: exprDeepCopy(s.Data), Guard: exprDeepCopy(s.Guard)}
}

func (s *StmtCAS) DeepCopy() Stmt {
	return &StmtCAS{
		OldLo: s.OldLo, OldHi: s.OldHi, End: s.End, Addr: exprDeepCopy(s.Addr),
		ExpdLo: exprDeepCopy(s.ExpdLo), ExpdHi: exprDeepCopy(s.ExpdHi),
		DataLo: exprDeepCopy(s.DataLo), DataHi: exprDeepCopy(s.DataHi),
	}
}

func (s *StmtLLSC) DeepCopy() Stmt {
	return &StmtLLSC{End: s.End, Result: s.Result, Addr: exprDeepCopy(s.Addr), StoreData: exprDeepCopy(s.StoreData)}
}

func (s *StmtDirty) DeepCopy() Stmt {
	args := make([]Expr, len(s.Args))
	for i, a := range s.Args {
		args[i] = exprDeepCopy(a)
	}
	nfx := make([]int, len(s.NFxState))
	copy(nfx, s.NFxState)
	return &StmtDirty{
		Result: s.Result, Target: s.Target, RetTy: s.RetTy, Guard: exprDeepCopy(s.Guard),
		Args: args, MFx: s.MFx, MAddr: exprDeepCopy(s.MAddr), MSize: s.MSize, NFxState: nfx,
	}
}

func (s *StmtMBE) DeepCopy() Stmt { return &StmtMBE{Event: s.Event} }

func (s *StmtExit) DeepCopy() Stmt {
	return &StmtExit{Guard: exprDeepCopy(s.Guard), Dst: s.Dst.DeepCopy(), Jk: s.Jk, OffsIP: s.OffsIP}
}

// --- String ------------------------------------------------------------------

func (s *StmtNoOp) String() string { return "IR-NoOp" }

func (s *StmtIMark) String() string {
	return fmt.Sprintf("------ IMark(0x%x, %d, %d) ------", s.Addr, s.Len, s.Delta)
}

func (s *StmtAbiHint) String() string {
	return fmt.Sprintf("====== AbiHint(%s, %d, %s) ======", s.Base, s.Len, s.NextIP)
}

func (s *StmtPut) String() string { return fmt.Sprintf("PUT(%d) = %s", s.Offset, s.Data) }

func (s *StmtPutI) String() string {
	return fmt.Sprintf("PUTI%s[%s,%d] = %s", s.Array, s.Ix, s.Bias, s.Data)
}

func (s *StmtWrTmp) String() string { return fmt.Sprintf("%s = %s", s.Tmp, s.Data) }

func (s *StmtStore) String() string { return fmt.Sprintf("ST%s(%s) = %s", s.End, s.Addr, s.Data) }

func (s *StmtLoadG) String() string {
	return fmt.Sprintf("%s = if (%s) %s(LD%s(%s)) else %s", s.Dst, s.Guard, s.Cvt, s.End, s.Addr, s.AltValue)
}

func (s *StmtStoreG) String() string {
	return fmt.Sprintf("if (%s) ST%s(%s) = %s", s.Guard, s.End, s.Addr, s.Data)
}

func (s *StmtCAS) String() string {
	if s.OldHi == TempInvalid {
		return fmt.Sprintf("%s = CAS%s(%s :: %s->%s)", s.OldLo, s.End, s.Addr, s.ExpdLo, s.DataLo)
	}
	return fmt.Sprintf("(%s,%s) = DCAS%s(%s :: (%s,%s)->(%s,%s))",
		s.OldLo, s.OldHi, s.End, s.Addr, s.ExpdLo, s.ExpdHi, s.DataLo, s.DataHi)
}

func (s *StmtLLSC) String() string {
	if s.StoreData == nil {
		return fmt.Sprintf("%s = LD%s-Linked(%s)", s.Result, s.End, s.Addr)
	}
	return fmt.Sprintf("%s = ( ST%s-Cond(%s) = %s )", s.Result, s.End, s.Addr, s.StoreData)
}

func (s *StmtDirty) String() string {
	parts := make([]string, len(s.Args))
	for i, a := range s.Args {
		parts[i] = a.String()
	}
	prefix := ""
	if s.Result != TempInvalid {
		prefix = s.Result.String() + " = "
	}
	return fmt.Sprintf("%sDIRTY %s if (%s) ::: %s(%s)", prefix, fxString(s.MFx, s.MAddr, s.MSize), s.Guard, s.Target, strings.Join(parts, ","))
}

func fxString(mfx MemFx, addr Expr, size int) string {
	if mfx == MemFxNone {
		return "-"
	}
	return fmt.Sprintf("%s-at(%s,%d)", mfx, addr, size)
}

func (s *StmtMBE) String() string { return fmt.Sprintf("::: %s", s.Event) }

func (s *StmtExit) String() string {
	return fmt.Sprintf("if (%s) goto {%s} %s", s.Guard, s.Jk, s.Dst)
}
