package lift

import (
	"github.com/anhed0nic/vexgo/decoder"
	"github.com/anhed0nic/vexgo/guest"
	"github.com/anhed0nic/vexgo/ir"
)

// ccOpFor maps an arithmetic mnemonic to the CC_OP code it leaves in guest
// state, per spec.md §4.6's "Arithmetic emission template". CMP reuses SUB's
// code: it performs the same subtraction, only without writing the result
// back to the destination.
var ccOpFor = map[string]int{
	"ADD": guest.CCOpAdd,
	"SUB": guest.CCOpSub,
	"CMP": guest.CCOpSub,
	"AND": guest.CCOpAnd,
	"OR":  guest.CCOpOr,
	"XOR": guest.CCOpXor,
}

// emitArith lowers ADD/SUB/AND/OR/XOR/CMP: load both operands, compute the
// result into a temp, Put it back (unless CMP), then write the four lazy-CC
// slots per spec.md §4.6.
func emitArith(lf *Lifter, b *ir.IRSB, in *decoder.Instruction) (bool, error) {
	dst, src := in.Operands[0], in.Operands[1]
	ty := widthType(dst.Width)

	l, err := lf.operandValue(dst, ty)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	r, err := lf.operandValue(src, ty)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}

	var op ir.Op
	switch in.Mnemonic {
	case "ADD":
		op = ir.AddN(ty.Bits())
	case "SUB", "CMP":
		op = ir.SubN(ty.Bits())
	case "AND":
		op = ir.AndN(ty.Bits())
	case "OR":
		op = ir.OrN(ty.Bits())
	case "XOR":
		op = ir.XorN(ty.Bits())
	}

	binop, err := ir.NewBinop(op, l, r)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	resultTmp := b.NewTemp(ty)
	wr, err := ir.NewWrTmp(resultTmp, binop)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	b.AddStatement(wr)

	resultVal, err := ir.NewRdTmp(resultTmp)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}

	if in.Mnemonic != "CMP" {
		if err := lf.storeOperand(b, dst, resultVal); err != nil {
			return false, &LiftFailureError{Addr: in.Addr, Err: err}
		}
	}

	if err := lf.emitCCSlots(b, ccOpFor[in.Mnemonic], l, r, resultVal); err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	return false, nil
}

// emitCCSlots writes the four lazy condition-code slots: CC_OP names the
// operation, CC_DEP1/CC_DEP2 carry its operands, CC_NDEP carries the result
// — deferring EFLAGS materialisation to a consumer-side helper (spec.md §9
// "Lazy flags / CC_OP").
func (lf *Lifter) emitCCSlots(b *ir.IRSB, ccOp int, l, r, result ir.Expr) error {
	opConst, err := ir.NewConst(ir.ConstI32{Val: uint32(ccOp)})
	if err != nil {
		return err
	}
	if err := lf.putReg(b, "CC_OP", opConst); err != nil {
		return err
	}
	if err := lf.putReg(b, "CC_DEP1", l); err != nil {
		return err
	}
	if err := lf.putReg(b, "CC_DEP2", r); err != nil {
		return err
	}
	return lf.putReg(b, "CC_NDEP", result)
}
