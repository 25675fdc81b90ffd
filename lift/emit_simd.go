package lift

import (
	"github.com/anhed0nic/vexgo/decoder"
	"github.com/anhed0nic/vexgo/ir"
)

// emitVmovdqa lowers the EVEX-encoded register-register move this decoder
// recognizes (vmovdqu32/vmovdqa32, spec.md §8 scenario 6): a plain
// register-to-register ZMM copy. Per spec.md §4.6's SIMD note, an EVEX
// instruction with masking (aaa != 0) would lower to a Dirty call instead;
// the decoder rejects the masked form of the one EVEX opcode it recognizes,
// so this emitter only ever sees unmasked moves.
func emitVmovdqa(lf *Lifter, b *ir.IRSB, in *decoder.Instruction) (bool, error) {
	dst, src := in.Operands[0], in.Operands[1]

	val, _, err := lf.get(src.Reg)
	if err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	if err := lf.putReg(b, dst.Reg, val); err != nil {
		return false, &LiftFailureError{Addr: in.Addr, Err: err}
	}
	return false, nil
}
