package decoder

import "errors"

// errTruncated is returned when the buffer runs out of bytes mid-instruction.
var errTruncated = errors.New("decoder: truncated instruction")

// errUnknownOpcode is returned when decode() cannot map the opcode bytes to
// a known mnemonic; per spec.md §4.5 step 3 the caller treats this as a
// block-ending condition (a null instruction), not a panic.
var errUnknownOpcode = errors.New("decoder: unknown opcode")
