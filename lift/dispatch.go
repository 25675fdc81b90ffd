package lift

import (
	"github.com/anhed0nic/vexgo/decoder"
	"github.com/anhed0nic/vexgo/ir"
)

// emitFunc lowers one decoded instruction into IR statements appended to b.
// The returned bool reports whether b.Next/b.Jk were set by this call,
// meaning the lift loop must stop immediately.
type emitFunc func(lf *Lifter, b *ir.IRSB, in *decoder.Instruction) (terminated bool, err error)

// dispatch is the mnemonic-keyed emitter table, per spec.md §4.6 step 2e
// ("Dispatch on mnemonic to a per-mnemonic emitter"). It only names
// mnemonics this module's decoder actually produces (spec.md Non-goals: no
// x86-64 completeness guarantee) — the wider catalogue in spec.md's prose
// (SHL/SHR/BT family/BSF/BSR/...) has no decoder support yet to dispatch to.
var dispatch = map[string]emitFunc{
	"MOV": emitMov,
	"ADD": emitArith,
	"SUB": emitArith,
	"AND": emitArith,
	"OR":  emitArith,
	"XOR": emitArith,
	"CMP": emitArith,

	"PUSH": emitPush,
	"POP":  emitPop,

	"CALL": emitCall,
	"RET":  emitRet,
	"JMP":  emitJmp,
	"JCC":  emitJcc,

	"NOP":  emitNop,
	"INT3": emitInt3,
	"UD2":  emitUd2,

	"vmovdqu32": emitVmovdqa,
	"vmovdqa32": emitVmovdqa,
}
