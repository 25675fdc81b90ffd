package guest

import (
	"testing"

	"github.com/anhed0nic/vexgo/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAMD64_RegisterOffsetCaseInsensitive(t *testing.T) {
	s := NewAMD64()
	off, err := s.RegisterOffset("rax")
	require.NoError(t, err)
	offUpper, err := s.RegisterOffset("RAX")
	require.NoError(t, err)
	assert.Equal(t, offUpper, off)
}

func TestAMD64_RegisterOffsetUnknown(t *testing.T) {
	s := NewAMD64()
	_, err := s.RegisterOffset("FPREG99")
	require.Error(t, err)
	var target *ir.UnknownRegisterError
	assert.ErrorAs(t, err, &target)
}

func TestAMD64_RegisterTypes(t *testing.T) {
	s := NewAMD64()
	ty, err := s.RegisterType("CC_OP")
	require.NoError(t, err)
	assert.Equal(t, ir.Ty_I32, ty)

	ty, err = s.RegisterType("RAX")
	require.NoError(t, err)
	assert.Equal(t, ir.Ty_I64, ty)

	ty, err = s.RegisterType("ZMM0")
	require.NoError(t, err)
	assert.Equal(t, ir.Ty_V512, ty)
}

func TestAMD64_XMMYMMZMMShareOffset(t *testing.T) {
	s := NewAMD64()
	xoff, _ := s.RegisterOffset("XMM3")
	yoff, _ := s.RegisterOffset("YMM3")
	zoff, _ := s.RegisterOffset("ZMM3")
	assert.Equal(t, xoff, yoff)
	assert.Equal(t, yoff, zoff)
}

func TestAMD64_GPRSubRegistersAliasSameOffset(t *testing.T) {
	s := NewAMD64()
	raxOff, err := s.RegisterOffset("RAX")
	require.NoError(t, err)

	eaxOff, _ := s.RegisterOffset("EAX")
	axOff, _ := s.RegisterOffset("AX")
	alOff, _ := s.RegisterOffset("AL")
	ahOff, _ := s.RegisterOffset("AH")
	assert.Equal(t, raxOff, eaxOff)
	assert.Equal(t, raxOff, axOff)
	assert.Equal(t, raxOff, alOff)
	assert.Equal(t, raxOff+1, ahOff)

	eaxTy, _ := s.RegisterType("EAX")
	axTy, _ := s.RegisterType("AX")
	alTy, _ := s.RegisterType("AL")
	ahTy, _ := s.RegisterType("AH")
	assert.Equal(t, ir.Ty_I32, eaxTy)
	assert.Equal(t, ir.Ty_I16, axTy)
	assert.Equal(t, ir.Ty_I8, alTy)
	assert.Equal(t, ir.Ty_I8, ahTy)

	// R8-R15 only gained an 8-bit form via REX; they have no AH-style sibling.
	_, err = s.RegisterOffset("R8L")
	require.NoError(t, err)
	_, err = s.RegisterOffset("R8H")
	require.Error(t, err)

	splOff, _ := s.RegisterOffset("SPL")
	rspOff, _ := s.RegisterOffset("RSP")
	assert.Equal(t, rspOff, splOff)
}

func TestAMD64_RequiresPreciseMemoryExceptions(t *testing.T) {
	s := NewAMD64()
	rspOff, _ := s.RegisterOffset("RSP")
	assert.True(t, s.RequiresPreciseMemoryExceptions(rspOff, rspOff+8))
	assert.False(t, s.RequiresPreciseMemoryExceptions(rspOff+1000, rspOff+1008))
}

func TestAMD64_WordAndIPTypes(t *testing.T) {
	s := NewAMD64()
	assert.Equal(t, ir.Ty_I64, s.WordType())
	assert.Equal(t, ir.Ty_I64, s.IPType())
}

func TestX86_WordAndIPTypes(t *testing.T) {
	s := NewX86()
	assert.Equal(t, ir.Ty_I32, s.WordType())
	assert.Equal(t, ir.Ty_I32, s.IPType())
}

func TestX86_GPRSubRegistersAliasSameOffset(t *testing.T) {
	s := NewX86()
	eaxOff, err := s.RegisterOffset("EAX")
	require.NoError(t, err)

	axOff, _ := s.RegisterOffset("AX")
	alOff, _ := s.RegisterOffset("AL")
	ahOff, _ := s.RegisterOffset("AH")
	assert.Equal(t, eaxOff, axOff)
	assert.Equal(t, eaxOff, alOff)
	assert.Equal(t, eaxOff+1, ahOff)

	axTy, _ := s.RegisterType("AX")
	alTy, _ := s.RegisterType("AL")
	ahTy, _ := s.RegisterType("AH")
	assert.Equal(t, ir.Ty_I16, axTy)
	assert.Equal(t, ir.Ty_I8, alTy)
	assert.Equal(t, ir.Ty_I8, ahTy)

	// ESI/EDI/EBP/ESP never gained an 8-bit form in 32-bit mode.
	_, err = s.RegisterOffset("SIL")
	require.Error(t, err)
}

func TestX86_RequiresPreciseMemoryExceptions(t *testing.T) {
	s := NewX86()
	espOff, err := s.RegisterOffset("ESP")
	require.NoError(t, err)
	assert.True(t, s.RequiresPreciseMemoryExceptions(espOff, espOff+4))
}

func TestARM_SPAndLRAliasR13R14(t *testing.T) {
	s := NewARM()
	spOff, err := s.RegisterOffset("SP")
	require.NoError(t, err)
	r13Off, err := s.RegisterOffset("R13")
	require.NoError(t, err)
	assert.Equal(t, r13Off, spOff)

	lrOff, err := s.RegisterOffset("LR")
	require.NoError(t, err)
	r14Off, err := s.RegisterOffset("R14")
	require.NoError(t, err)
	assert.Equal(t, r14Off, lrOff)
}

func TestARM_VFPSingleAliasesDouble(t *testing.T) {
	s := NewARM()
	dOff, err := s.RegisterOffset("D5")
	require.NoError(t, err)
	sLowOff, err := s.RegisterOffset("S10")
	require.NoError(t, err)
	sHighOff, err := s.RegisterOffset("S11")
	require.NoError(t, err)

	assert.Equal(t, dOff, sLowOff)
	assert.Equal(t, dOff+4, sHighOff)

	dTy, _ := s.RegisterType("D5")
	sTy, _ := s.RegisterType("S10")
	assert.Equal(t, ir.Ty_F64, dTy)
	assert.Equal(t, ir.Ty_F32, sTy)
}

func TestARM_PackUnpackPC(t *testing.T) {
	thumbPC := PackPC(0x8000, true)
	assert.True(t, IsThumb(thumbPC))
	assert.Equal(t, uint32(0x8000), UnpackPC(thumbPC))

	armPC := PackPC(0x8000, false)
	assert.False(t, IsThumb(armPC))
	assert.Equal(t, uint32(0x8000), UnpackPC(armPC))
}

func TestLayout_PanicsWithoutStackPointer(t *testing.T) {
	assert.Panics(t, func() {
		newLayout([]regEntry{{"X0", 0, ir.Ty_I32}}, "SP")
	})
}
