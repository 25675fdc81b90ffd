package ir

import "fmt"

// Endness is the byte order of a memory access.
type Endness byte

const (
	EndnessInvalid Endness = iota
	LittleEndian
	BigEndian
)

func (e Endness) String() string {
	switch e {
	case LittleEndian:
		return "le"
	case BigEndian:
		return "be"
	default:
		return "inv"
	}
}

// JumpKind classifies the reason an IRSB ends (or an Exit statement leaves
// the block mid-way), per spec.md §3.
type JumpKind byte

const (
	JumpInvalid JumpKind = iota
	JumpBoring            // plain fall-through/branch, nothing special
	JumpCall
	JumpRet
	JumpClientReq
	JumpYield
	JumpEmWarn
	JumpEmFail
	JumpNoDecode
	JumpMapFail
	JumpInvalICache
	JumpInvalDCache
	JumpNoRedir
	JumpSigILL
	JumpSigTRAP
	JumpSigSEGV
	JumpSigBUS
	JumpSigFPE
	JumpSigFPE_IntDiv
	JumpSigFPE_IntOvf
	JumpPrivileged
	JumpSysSyscall
	JumpSysSysenter
	JumpSysInt32
	JumpSysInt128
	JumpSysInt129
	JumpSysInt130
	JumpSysInt145
	JumpSysInt210
)

var jumpKindNames = map[JumpKind]string{
	JumpInvalid:       "Ijk_INVALID",
	JumpBoring:        "Boring",
	JumpCall:          "Call",
	JumpRet:           "Ret",
	JumpClientReq:     "ClientReq",
	JumpYield:         "Yield",
	JumpEmWarn:        "EmWarn",
	JumpEmFail:        "EmFail",
	JumpNoDecode:      "NoDecode",
	JumpMapFail:       "MapFail",
	JumpInvalICache:   "InvalICache",
	JumpInvalDCache:   "InvalDCache",
	JumpNoRedir:       "NoRedir",
	JumpSigILL:        "SigILL",
	JumpSigTRAP:       "SigTRAP",
	JumpSigSEGV:       "SigSEGV",
	JumpSigBUS:        "SigBUS",
	JumpSigFPE:        "SigFPE",
	JumpSigFPE_IntDiv: "SigFPE_IntDiv",
	JumpSigFPE_IntOvf: "SigFPE_IntOvf",
	JumpPrivileged:    "Privileged",
	JumpSysSyscall:    "Sys_syscall",
	JumpSysSysenter:   "Sys_sysenter",
	JumpSysInt32:      "Sys_int32",
	JumpSysInt128:     "Sys_int128",
	JumpSysInt129:     "Sys_int129",
	JumpSysInt130:     "Sys_int130",
	JumpSysInt145:     "Sys_int145",
	JumpSysInt210:     "Sys_int210",
}

func (k JumpKind) String() string {
	if n, ok := jumpKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Ijk_UNKNOWN(%d)", k)
}

// RegArray describes a circularly-indexed array of guest registers, used by
// GetI/PutI to model architectures with a rotating register window (e.g. the
// x87 FP stack).
type RegArray struct {
	Base     int  // byte offset of element 0 in guest state
	ElemType Type // type of each element
	NumElems int  // number of elements in the array
}

func (r RegArray) String() string {
	return fmt.Sprintf("(%d:%dx%s)", r.Base, r.NumElems, r.ElemType)
}

// Index computes (ix + bias) mod NumElems, the effective element selected by
// a GetI/PutI access.
func (r RegArray) Index(ix, bias int) int {
	n := r.NumElems
	idx := (ix + bias) % n
	if idx < 0 {
		idx += n
	}
	return idx
}

// CallTarget names a helper function invoked by CCall or Dirty: either a
// pure helper (CCall) or one with side effects (Dirty).
type CallTarget struct {
	Name string
	Addr uint64
}

func (c CallTarget) String() string {
	if c.Name == "" {
		return fmt.Sprintf("0x%x", c.Addr)
	}
	return c.Name
}

// MemFx classifies the memory-effect footprint of a Dirty call.
type MemFx byte

const (
	MemFxNone MemFx = iota
	MemFxRead
	MemFxWrite
	MemFxModify
)

func (m MemFx) String() string {
	switch m {
	case MemFxRead:
		return "R"
	case MemFxWrite:
		return "W"
	case MemFxModify:
		return "M"
	default:
		return "-"
	}
}

// MBusEvent enumerates the memory-bus events modelled by the MBE statement.
type MBusEvent byte

const (
	MBusEventFence MBusEvent = iota
	MBusEventCancelReservation
)

func (e MBusEvent) String() string {
	switch e {
	case MBusEventFence:
		return "MBusEvent-Fence"
	case MBusEventCancelReservation:
		return "MBusEvent-CancelReservation"
	default:
		return "MBusEvent-UNKNOWN"
	}
}
