// Package lift turns decoded guest instructions into the closed IR: one
// basic block at a time, dispatched by mnemonic to a per-instruction emitter
// template (spec.md §4.6).
package lift

import (
	"fmt"
	"log"

	"github.com/anhed0nic/vexgo/decoder"
	"github.com/anhed0nic/vexgo/guest"
	"github.com/anhed0nic/vexgo/ir"
)

// JccPolicy selects how a conditional jump affects block termination, per
// spec.md §4.6 design note (a): both behaviors must be reachable from the
// caller, not just the default.
type JccPolicy int

const (
	// JccTerminatesBlock emits the Exit for the taken branch and then ends
	// the block at the Jcc, with Next set to the fall-through address. This
	// is the default.
	JccTerminatesBlock JccPolicy = iota
	// JccEmitsExit emits the Exit and keeps lifting past the Jcc, letting a
	// later instruction (or the block's limits) decide where it ends.
	JccEmitsExit
)

const (
	// DefaultMaxInstructions is the lifter's default per-call instruction
	// budget, per spec.md §4.6 "Limits".
	DefaultMaxInstructions = 50
	// DefaultMaxBytes is the lifter's default per-call byte budget.
	DefaultMaxBytes = 500
)

// Lifter lowers one basic block of guest machine code into an *ir.IRSB at a
// time. It is parameterised by a guest-state layout (spec.md §4.6 "The
// lifter is parameterised by a guest-state type") and owns no state beyond
// its own tunables; a caller may run one Lifter per goroutine.
type Lifter struct {
	State           guest.State
	Mode64          bool
	MaxInstructions int
	MaxBytes        int
	JccPolicy       JccPolicy

	// OnSanityWarning receives any *ir.SanityFailureError found in a
	// completed block (spec.md §7 "SanityFailure"). Per spec, the lifter
	// treats this as a non-fatal warning, not a panic: a caller whose use
	// case demands correctness-critical output should set this to a
	// function that panics or returns the error up its own call chain, or
	// simply call ir.CheckSanity itself and treat failure as fatal. The
	// default logs via the standard logger and continues.
	OnSanityWarning func(err error)
}

// NewLifter returns a Lifter over state with the spec's default limits and
// the default (block-terminating) Jcc policy. mode64 selects REX/VEX/EVEX
// decoding and the 64-bit push/pop/call/ret operand-size default.
func NewLifter(state guest.State, mode64 bool) *Lifter {
	return &Lifter{
		State:           state,
		Mode64:          mode64,
		MaxInstructions: DefaultMaxInstructions,
		MaxBytes:        DefaultMaxBytes,
		JccPolicy:       JccTerminatesBlock,
		OnSanityWarning: func(err error) { log.Printf("vexgo/lift: %v", err) },
	}
}

// LiftBasicBlock lifts at most one basic block starting at baseAddress, per
// spec.md §4.6 steps 1-3. It returns the resulting IRSB and the number of
// bytes actually consumed. It never panics on malformed input: an
// unrecognized or truncated opcode simply ends the block early, with Next
// synthesised as Const(baseAddress + bytesLifted).
func (lf *Lifter) LiftBasicBlock(code []byte, baseAddress uint64) (*ir.IRSB, int) {
	maxInstr := lf.MaxInstructions
	if maxInstr <= 0 {
		maxInstr = DefaultMaxInstructions
	}
	maxBytes := lf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	b := ir.NewIRSB()
	b.Jk = ir.JumpBoring

	dec := decoder.NewDecoder(code, baseAddress, lf.Mode64)
	instrCount := 0

	for dec.Offset() < len(code) && instrCount < maxInstr && dec.Offset() < maxBytes {
		instrAddr := baseAddress + uint64(dec.Offset())

		in, err := dec.Decode()
		if err != nil {
			break
		}
		instrCount++
		stmtsBefore := len(b.Stmts)

		mark, err := ir.NewIMark(instrAddr, in.Length, 0)
		if err != nil {
			panic(fmt.Sprintf("BUG: IMark construction failed for a decoded instruction: %v", err))
		}
		b.AddStatement(mark)

		terminated, err := lf.emit(b, in)
		if err != nil {
			// Drop the failed instruction's IMark and any partial IR so the
			// block ends at its start, as for an undecodable instruction.
			b.Stmts = b.Stmts[:stmtsBefore]
			b.Next = lf.fallThroughConst(instrAddr)
			b.Jk = ir.JumpBoring
			return lf.finish(b, int(instrAddr-baseAddress))
		}
		if terminated {
			return lf.finish(b, dec.Offset())
		}
	}

	b.Next = lf.fallThroughConst(baseAddress + uint64(dec.Offset()))
	b.Jk = ir.JumpBoring
	return lf.finish(b, dec.Offset())
}

// finish runs the sanity checker (spec.md §4.6 step 4, §4.7) over a
// completed block before handing it back to the caller. Per spec.md §7, a
// sanity failure here is reported as a non-fatal warning and the block is
// returned regardless: the lifter must never panic on arbitrary guest input,
// and malformed bytes alone (an out-of-range operand, say) should never stop
// a caller from getting a best-effort IRSB back. A caller whose use case
// requires correctness-critical output should rerun ir.CheckSanity itself
// and treat a non-nil result as fatal.
func (lf *Lifter) finish(b *ir.IRSB, bytesLifted int) (*ir.IRSB, int) {
	if err := ir.CheckSanity(b, "LiftBasicBlock", false, lf.wordType()); err != nil && lf.OnSanityWarning != nil {
		lf.OnSanityWarning(err)
	}
	return b, bytesLifted
}

// emit looks up and runs in's emitter. A mnemonic the decoder produced but
// this lifter has no template for ends the block the same way an
// unrecognized opcode does: cleanly, without setting a terminator.
func (lf *Lifter) emit(b *ir.IRSB, in *decoder.Instruction) (bool, error) {
	f, ok := dispatch[in.Mnemonic]
	if !ok {
		return false, &LiftFailureError{Addr: in.Addr, Err: errUnhandledMnemonic}
	}
	return f(lf, b, in)
}

func (lf *Lifter) wordType() ir.Type { return lf.State.WordType() }

func (lf *Lifter) stackPointerName() string {
	if lf.State.Arch() == "amd64" {
		return "RSP"
	}
	return "ESP"
}

func (lf *Lifter) fallThroughConst(addr uint64) ir.Expr {
	c, err := ir.NewConst(intConst(lf.wordType(), addr))
	if err != nil {
		panic(fmt.Sprintf("BUG: fall-through constant construction failed: %v", err))
	}
	return c
}

// get builds a Get expression reading name's current value from guest
// state, along with its declared type.
func (lf *Lifter) get(name string) (ir.Expr, ir.Type, error) {
	off, err := lf.State.RegisterOffset(name)
	if err != nil {
		return nil, ir.TyInvalid, err
	}
	ty, err := lf.State.RegisterType(name)
	if err != nil {
		return nil, ir.TyInvalid, err
	}
	g, err := ir.NewGet(off, ty)
	if err != nil {
		return nil, ir.TyInvalid, err
	}
	return g, ty, nil
}

// putReg appends a Put writing value to register name.
func (lf *Lifter) putReg(b *ir.IRSB, name string, value ir.Expr) error {
	off, err := lf.State.RegisterOffset(name)
	if err != nil {
		return err
	}
	p, err := ir.NewPut(off, value)
	if err != nil {
		return err
	}
	b.AddStatement(p)
	return nil
}

// intConst builds the Const variant matching ty out of the raw bit pattern
// v. ty must be one of the plain integer types; the emitters above never
// call it with anything else.
func intConst(ty ir.Type, v uint64) ir.Const {
	switch ty {
	case ir.Ty_I8:
		return ir.ConstI8{Val: uint8(v)}
	case ir.Ty_I16:
		return ir.ConstI16{Val: uint16(v)}
	case ir.Ty_I32:
		return ir.ConstI32{Val: uint32(v)}
	case ir.Ty_I64:
		return ir.ConstI64{Val: v}
	default:
		panic(fmt.Sprintf("BUG: intConst called with non-integer type %s", ty))
	}
}

func widthType(w decoder.Width) ir.Type {
	switch w {
	case decoder.Width8:
		return ir.Ty_I8
	case decoder.Width16:
		return ir.Ty_I16
	case decoder.Width32:
		return ir.Ty_I32
	default:
		return ir.Ty_I64
	}
}

// operandValue reads op's current value as an expression of type ty.
func (lf *Lifter) operandValue(op decoder.Operand, ty ir.Type) (ir.Expr, error) {
	switch op.Kind {
	case decoder.OperandReg:
		g, _, err := lf.get(op.Reg)
		return g, err
	case decoder.OperandMem:
		addr, err := lf.memAddr(op.Mem)
		if err != nil {
			return nil, err
		}
		return ir.NewLoad(ir.LittleEndian, ty, addr)
	case decoder.OperandImm:
		return ir.NewConst(intConst(ty, uint64(op.Imm)))
	default:
		return nil, fmt.Errorf("lift: operand kind %d carries no readable value", op.Kind)
	}
}

// storeOperand writes value to op's destination: a Put for a register
// operand, a Store for a memory operand.
func (lf *Lifter) storeOperand(b *ir.IRSB, op decoder.Operand, value ir.Expr) error {
	switch op.Kind {
	case decoder.OperandReg:
		return lf.putReg(b, op.Reg, value)
	case decoder.OperandMem:
		addr, err := lf.memAddr(op.Mem)
		if err != nil {
			return err
		}
		st, err := ir.NewStore(ir.LittleEndian, addr, value)
		if err != nil {
			return err
		}
		b.AddStatement(st)
		return nil
	default:
		return fmt.Errorf("lift: operand kind %d cannot be a store destination", op.Kind)
	}
}

// memAddr lowers a decoded Memory operand into an address expression. The
// decoder records raw base/index register encodings without resolving a
// width, since the address width depends on the mode the lifter (not the
// decoder) is running in.
func (lf *Lifter) memAddr(mem decoder.Memory) (ir.Expr, error) {
	addrTy := ir.Ty_I32
	regWidth := decoder.Width32
	if lf.Mode64 {
		addrTy = ir.Ty_I64
		regWidth = decoder.Width64
	}

	var addr ir.Expr
	add := func(e ir.Expr) error {
		if addr == nil {
			addr = e
			return nil
		}
		sum, err := ir.NewBinop(ir.AddN(addrTy.Bits()), addr, e)
		if err != nil {
			return err
		}
		addr = sum
		return nil
	}

	if mem.HasBase {
		g, _, err := lf.get(decoder.GPRName(mem.Base, regWidth, false))
		if err != nil {
			return nil, err
		}
		if err := add(g); err != nil {
			return nil, err
		}
	}
	if mem.HasIndex {
		idx, _, err := lf.get(decoder.GPRName(mem.Index, regWidth, false))
		if err != nil {
			return nil, err
		}
		scale, err := ir.NewConst(intConst(addrTy, uint64(mem.Scale)))
		if err != nil {
			return nil, err
		}
		scaled, err := ir.NewBinop(ir.MulN(addrTy.Bits()), idx, scale)
		if err != nil {
			return nil, err
		}
		if err := add(scaled); err != nil {
			return nil, err
		}
	}
	// A RIP-relative operand in 64-bit mode needs the next instruction's
	// address, which memAddr does not have, so it is rejected and the
	// instruction ends the block. In 32-bit mode the same encoding is a plain
	// disp32 with no base, handled below.
	if mem.RIPRel && lf.Mode64 {
		return nil, fmt.Errorf("lift: RIP-relative memory operand is not supported")
	}
	if mem.Disp != 0 || addr == nil {
		d, err := ir.NewConst(intConst(addrTy, uint64(mem.Disp)))
		if err != nil {
			return nil, err
		}
		if err := add(d); err != nil {
			return nil, err
		}
	}
	return addr, nil
}
