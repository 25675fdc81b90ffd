package lift

import (
	"github.com/anhed0nic/vexgo/decoder"
	"github.com/anhed0nic/vexgo/ir"
)

// emitRet lowers RET: pop the return address into a temp, assign it to
// Next, adjust the stack pointer by wordSize, and set jumpKind=Ret. This
// decoder only produces the plain (no-imm16) RET form.
func emitRet(lf *Lifter, b *ir.IRSB, in *decoder.Instruction) (bool, error) {
	wordTy := lf.wordType()
	spName := lf.stackPointerName()

	sp, _, err := lf.get(spName)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	load, err := ir.NewLoad(ir.LittleEndian, wordTy, sp)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	retTmp := b.NewTemp(wordTy)
	wr, err := ir.NewWrTmp(retTmp, load)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	b.AddStatement(wr)

	spAgain, _, err := lf.get(spName)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	wsz, err := ir.NewConst(intConst(wordTy, uint64(wordTy.Size())))
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	newSp, err := ir.NewBinop(ir.AddN(wordTy.Bits()), spAgain, wsz)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	if err := lf.putReg(b, spName, newSp); err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}

	next, err := ir.NewRdTmp(retTmp)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	b.Next = next
	b.Jk = ir.JumpRet
	return true, nil
}

// emitCall lowers CALL rel32: push current-instruction-end onto the stack,
// set Next to the branch target, jumpKind=Call.
func emitCall(lf *Lifter, b *ir.IRSB, in *decoder.Instruction) (bool, error) {
	wordTy := lf.wordType()
	spName := lf.stackPointerName()
	retAddr := in.Addr + uint64(in.Length)

	retConst, err := ir.NewConst(intConst(wordTy, retAddr))
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}

	sp, _, err := lf.get(spName)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	wsz, err := ir.NewConst(intConst(wordTy, uint64(wordTy.Size())))
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	newSp, err := ir.NewBinop(ir.SubN(wordTy.Bits()), sp, wsz)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	if err := lf.putReg(b, spName, newSp); err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}

	spAfter, _, err := lf.get(spName)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	st, err := ir.NewStore(ir.LittleEndian, spAfter, retConst)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	b.AddStatement(st)

	target := uint64(int64(retAddr) + in.Operands[0].Imm)
	targetConst, err := ir.NewConst(intConst(wordTy, target))
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	b.Next = targetConst
	b.Jk = ir.JumpCall
	return true, nil
}

// emitJmp lowers unconditional JMP rel: Next = target, jumpKind=Boring.
func emitJmp(lf *Lifter, b *ir.IRSB, in *decoder.Instruction) (bool, error) {
	wordTy := lf.wordType()
	target := uint64(int64(in.Addr) + int64(in.Length) + in.Operands[0].Imm)
	targetConst, err := ir.NewConst(intConst(wordTy, target))
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	b.Next = targetConst
	b.Jk = ir.JumpBoring
	return true, nil
}

// emitJcc lowers Jcc rel: always emits an Exit guarded by the branch
// condition materialised from the lazy-CC slots (spec.md §9 "Lazy flags").
// Whether the block then keeps lifting past the Jcc or ends immediately
// with Next=fallThrough is governed by lf.JccPolicy (spec.md §4.6 design
// note (a) — both policies are reachable, JccTerminatesBlock is the
// default).
func emitJcc(lf *Lifter, b *ir.IRSB, in *decoder.Instruction) (bool, error) {
	wordTy := lf.wordType()
	target := uint64(int64(in.Addr) + int64(in.Length) + in.Operands[0].Imm)
	fallThrough := in.Addr + uint64(in.Length)

	guard, err := lf.guardFromFlags(in.Cond)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	exit, err := ir.NewExit(guard, intConst(wordTy, target), ir.JumpBoring, 0)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	b.AddStatement(exit)

	if lf.JccPolicy == JccEmitsExit {
		return false, nil
	}

	b.Next = lf.fallThroughConst(fallThrough)
	b.Jk = ir.JumpBoring
	return true, nil
}

// guardFromFlags materialises the boolean condition for condition code cc
// from the lazy CC_OP/CC_DEP1/CC_DEP2/CC_NDEP slots via a pure helper call,
// matching the real flag-materialisation discipline spec.md §9 describes:
// the lifter never computes EFLAGS itself.
func (lf *Lifter) guardFromFlags(cc int) (ir.Expr, error) {
	ccConst, err := ir.NewConst(ir.ConstI32{Val: uint32(cc)})
	if err != nil {
		return nil, err
	}
	ccOp, _, err := lf.get("CC_OP")
	if err != nil {
		return nil, err
	}
	ccDep1, _, err := lf.get("CC_DEP1")
	if err != nil {
		return nil, err
	}
	ccDep2, _, err := lf.get("CC_DEP2")
	if err != nil {
		return nil, err
	}
	ccNdep, _, err := lf.get("CC_NDEP")
	if err != nil {
		return nil, err
	}
	target := ir.CallTarget{Name: "guest_calculate_condition"}
	return ir.NewCCall(target, ir.Ty_I1, []ir.Expr{ccConst, ccOp, ccDep1, ccDep2, ccNdep})
}
