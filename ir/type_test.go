package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestType_BitsAndSize(t *testing.T) {
	for _, c := range []struct {
		ty       Type
		wantBits int
		wantSize int
	}{
		{Ty_I1, 8, 1},
		{Ty_I8, 8, 1},
		{Ty_I16, 16, 2},
		{Ty_I32, 32, 4},
		{Ty_I64, 64, 8},
		{Ty_I128, 128, 16},
		{Ty_V128, 128, 16},
		{Ty_V256, 256, 32},
		{Ty_V512, 512, 64},
	} {
		assert.Equal(t, c.wantBits, c.ty.Bits(), c.ty.String())
		assert.Equal(t, c.wantSize, c.ty.Size(), c.ty.String())
	}
}

func TestType_String(t *testing.T) {
	assert.Equal(t, "I32", Ty_I32.String())
	assert.Equal(t, "V512", Ty_V512.String())
	assert.Equal(t, "Ity_INVALID", TyInvalid.String())
}

func TestType_Classification(t *testing.T) {
	assert.True(t, Ty_F32.IsFloat())
	assert.False(t, Ty_I32.IsFloat())
	assert.True(t, Ty_D64.IsDecimal())
	assert.True(t, Ty_I64.IsInt())
	assert.True(t, Ty_V256.IsVector())
	assert.False(t, Ty_V256.IsInt())
}

func TestType_Valid(t *testing.T) {
	assert.True(t, Ty_I8.Valid())
	assert.False(t, TyInvalid.Valid())
}
