package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEndness_String(t *testing.T) {
	assert.Equal(t, "le", LittleEndian.String())
	assert.Equal(t, "be", BigEndian.String())
	assert.Equal(t, "inv", EndnessInvalid.String())
}

func TestJumpKind_String(t *testing.T) {
	assert.Equal(t, "Boring", JumpBoring.String())
	assert.Equal(t, "Sys_syscall", JumpSysSyscall.String())
	assert.Equal(t, "Ijk_UNKNOWN(255)", JumpKind(255).String())
}

func TestRegArray_Index(t *testing.T) {
	arr := RegArray{Base: 0x100, ElemType: Ty_F64, NumElems: 8}
	assert.Equal(t, 0, arr.Index(0, 0))
	assert.Equal(t, 1, arr.Index(9, 0))
	assert.Equal(t, 7, arr.Index(-1, 0))
	assert.Equal(t, 3, arr.Index(0, 3))
}

func TestCallTarget_String(t *testing.T) {
	assert.Equal(t, "helper_add", CallTarget{Name: "helper_add"}.String())
	assert.Equal(t, "0x1000", CallTarget{Addr: 0x1000}.String())
}

func TestMemFx_String(t *testing.T) {
	assert.Equal(t, "R", MemFxRead.String())
	assert.Equal(t, "W", MemFxWrite.String())
	assert.Equal(t, "M", MemFxModify.String())
	assert.Equal(t, "-", MemFxNone.String())
}

func TestMBusEvent_String(t *testing.T) {
	assert.Equal(t, "MBusEvent-Fence", MBusEventFence.String())
	assert.Equal(t, "MBusEvent-CancelReservation", MBusEventCancelReservation.String())
}
