package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConst_TypeAndString(t *testing.T) {
	for _, c := range []struct {
		con     Const
		wantTy  Type
		wantStr string
	}{
		{ConstI1{Val: true}, Ty_I1, "0x1:I1"},
		{ConstI1{Val: false}, Ty_I1, "0x0:I1"},
		{ConstI8{Val: 0xAB}, Ty_I8, "0xAB:I8"},
		{ConstI32{Val: 0x2A}, Ty_I32, "0x0000002A:I32"},
		{ConstI64{Val: 42}, Ty_I64, "0x000000000000002A:I64"},
		{ConstF32i{Bits: 0x7FC00000}, Ty_F32, "F32i(0x7FC00000)"},
		{ConstV128{Seed: 0xFFFF}, Ty_V128, "V128(0xFFFF)"},
	} {
		assert.Equal(t, c.wantTy, c.con.Type())
		assert.Equal(t, c.wantStr, c.con.String())
	}
}

func TestConst_EqualComparesBitsNotValue(t *testing.T) {
	nan1 := ConstF64{Val: math.NaN()}
	nan2 := ConstF64{Val: math.Float64frombits(math.Float64bits(math.NaN()))}
	assert.True(t, nan1.Equal(nan2))

	posZero := ConstF64{Val: 0}
	negZero := ConstF64{Val: math.Copysign(0, -1)}
	assert.False(t, posZero.Equal(negZero))
}

func TestConst_EqualRejectsOtherKind(t *testing.T) {
	assert.False(t, ConstI32{Val: 1}.Equal(ConstI64{Val: 1}))
}

func TestConst_DeepCopyIndependence(t *testing.T) {
	c := ConstI32{Val: 7}
	cp := c.DeepCopy()
	assert.True(t, c.Equal(cp))
}

func TestExpandVectorConstants(t *testing.T) {
	bytes := ExpandV128(0x0003)
	assert.Equal(t, byte(0xFF), bytes[0])
	assert.Equal(t, byte(0xFF), bytes[1])
	assert.Equal(t, byte(0x00), bytes[2])

	b256 := ExpandV256(1)
	assert.Equal(t, byte(0xFF), b256[0])
	for i := 1; i < 32; i++ {
		assert.Equal(t, byte(0x00), b256[i])
	}

	b512 := ExpandV512(1 << 63)
	assert.Equal(t, byte(0xFF), b512[63])
}
