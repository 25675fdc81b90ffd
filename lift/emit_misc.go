package lift

import (
	"github.com/anhed0nic/vexgo/decoder"
	"github.com/anhed0nic/vexgo/ir"
)

// emitNop lowers NOP: no observable effect, block continues.
func emitNop(lf *Lifter, b *ir.IRSB, in *decoder.Instruction) (bool, error) {
	b.AddStatement(ir.NewNoOp())
	return false, nil
}

// emitInt3 lowers INT3 per spec.md §4.6's terminator rule ("int, int3,
// into: Sys_int* / SigTRAP accordingly"): the trap resumes at the next
// instruction, so Next is the fall-through address.
func emitInt3(lf *Lifter, b *ir.IRSB, in *decoder.Instruction) (bool, error) {
	b.Next = lf.fallThroughConst(in.Addr + uint64(in.Length))
	b.Jk = ir.JumpSigTRAP
	return true, nil
}

// emitUd2 lowers UD2 per spec.md §4.6's terminator rule ("Faulting
// undefined instruction: SigILL"): execution does not resume past the
// faulting instruction, so Next points back at it.
func emitUd2(lf *Lifter, b *ir.IRSB, in *decoder.Instruction) (bool, error) {
	b.Next = lf.fallThroughConst(in.Addr)
	b.Jk = ir.JumpSigILL
	return true, nil
}
