package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOp_WidthParametricAccessors(t *testing.T) {
	assert.Equal(t, OpAdd8, AddN(8))
	assert.Equal(t, OpAdd16, AddN(16))
	assert.Equal(t, OpAdd32, AddN(32))
	assert.Equal(t, OpAdd64, AddN(64))
	assert.Equal(t, OpXor64, XorN(64))
	assert.Equal(t, OpCmpEQ32, CmpEQN(32))
	assert.Equal(t, OpNot8, NotN(8))
}

func TestOp_WidthParametricAccessorPanicsOnBadWidth(t *testing.T) {
	assert.Panics(t, func() { AddN(17) })
}

func TestOp_Arity(t *testing.T) {
	assert.Equal(t, 2, OpAdd32.Arity())
	assert.Equal(t, 1, OpNot64.Arity())
	assert.Equal(t, 3, OpAddF32.Arity())
	assert.Equal(t, 2, OpMullS64.Arity())
}

func TestOp_IsComparison(t *testing.T) {
	assert.True(t, OpCmpEQ32.IsComparison())
	assert.False(t, OpAdd32.IsComparison())
}

func TestOp_IsFloatingPoint(t *testing.T) {
	assert.True(t, OpAddF64.IsFloatingPoint())
	assert.False(t, OpAdd64.IsFloatingPoint())
}

func TestOp_ResultType(t *testing.T) {
	assert.Equal(t, Ty_I32, OpAdd32.ResultType(Ty_I32))
	assert.Equal(t, Ty_I1, OpCmpEQ32.ResultType(Ty_I32))
	assert.Equal(t, Ty_I64, Op32Sto64.ResultType(Ty_I32))
}

func TestOp_StringKnownOp(t *testing.T) {
	assert.Equal(t, "Add32", OpAdd32.String())
}

func TestOp_StringPanicsOutOfRange(t *testing.T) {
	assert.Panics(t, func() { Op(65535).String() })
}
