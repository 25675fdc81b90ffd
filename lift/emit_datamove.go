package lift

import (
	"github.com/anhed0nic/vexgo/decoder"
	"github.com/anhed0nic/vexgo/ir"
)

// emitMov lowers both MOV forms this decoder produces: reg,imm
// (decodeMovRegImm) and reg/mem,reg (decodeArithRMtoR).
func emitMov(lf *Lifter, b *ir.IRSB, in *decoder.Instruction) (bool, error) {
	dst, src := in.Operands[0], in.Operands[1]
	ty := widthType(dst.Width)

	value, err := lf.operandValue(src, ty)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	if err := lf.storeOperand(b, dst, value); err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	return false, nil
}

// emitPush lowers PUSH reg, per spec.md §4.6's "Stack operations": rsp -=
// wordSize; store(rsp, value). The decoder already resolved the operand's
// width to the mode's default push size (64-bit in 64-bit mode regardless of
// any operand-size prefix, 32-bit otherwise), so wordType() and that width
// agree here.
func emitPush(lf *Lifter, b *ir.IRSB, in *decoder.Instruction) (bool, error) {
	src := in.Operands[0]
	wordTy := lf.wordType()

	val, err := lf.operandValue(src, wordTy)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}

	spName := lf.stackPointerName()
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
	st, err := ir.NewStore(ir.LittleEndian, spAfter, val)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	b.AddStatement(st)
	return false, nil
}

// emitPop lowers POP reg: value = load(rsp); rsp += wordSize.
func emitPop(lf *Lifter, b *ir.IRSB, in *decoder.Instruction) (bool, error) {
	dst := in.Operands[0]
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
	if err := lf.storeOperand(b, dst, load); err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}

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
	return false, nil
}
