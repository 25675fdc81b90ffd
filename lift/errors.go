package lift

import (
	"errors"
	"fmt"
)

// errUnhandledMnemonic marks a mnemonic the decoder produced but this
// package has no emitter template for. The lifter treats it exactly like an
// unrecognized opcode: the block ends cleanly.
var errUnhandledMnemonic = errors.New("lift: no emitter registered for mnemonic")

// LiftFailureError wraps a lower-level failure encountered while lowering
// the instruction at Addr, per spec.md §7 ("LiftFailure — wrapping any
// lower-level failure during a block's translation, carrying the guest
// instruction address for diagnosis").
type LiftFailureError struct {
	Addr uint64
	Err  error
}

func (e *LiftFailureError) Error() string {
	return fmt.Sprintf("lift: instruction at 0x%x: %v", e.Addr, e.Err)
}

func (e *LiftFailureError) Unwrap() error { return e.Err }
