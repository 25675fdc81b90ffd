package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeOfExpr_Const(t *testing.T) {
	e := mustConst(t, 5)
	ty, err := TypeOfExpr(e, NewTypeEnv())
	require.NoError(t, err)
	assert.Equal(t, Ty_I32, ty)
}

func TestTypeOfExpr_RdTmpUnbound(t *testing.T) {
	rd, err := NewRdTmp(Temp(3))
	require.NoError(t, err)
	_, err = TypeOfExpr(rd, NewTypeEnv())
	require.Error(t, err)
	var target *UnboundTempError
	assert.ErrorAs(t, err, &target)
}

func TestTypeOfExpr_BinopResultType(t *testing.T) {
	env := NewTypeEnv()
	a := mustConst(t, 1)
	b := mustConst(t, 2)
	binop, err := NewBinop(OpCmpEQ32, a, b)
	require.NoError(t, err)
	ty, err := TypeOfExpr(binop, env)
	require.NoError(t, err)
	assert.Equal(t, Ty_I1, ty)
}

func TestTypeOfExpr_ITEMismatchedArms(t *testing.T) {
	env := NewTypeEnv()
	cond, _ := NewConst(ConstI1{Val: true})
	then := mustConst(t, 1)
	els, _ := NewConst(ConstI64{Val: 2})
	ite, err := NewITE(cond, then, els)
	require.NoError(t, err)
	_, err = TypeOfExpr(ite, env)
	require.Error(t, err)
	var target *SanityFailureError
	assert.ErrorAs(t, err, &target)
}

func TestTypeOfExpr_ITEMatchedArms(t *testing.T) {
	env := NewTypeEnv()
	cond, _ := NewConst(ConstI1{Val: true})
	ite, err := NewITE(cond, mustConst(t, 1), mustConst(t, 2))
	require.NoError(t, err)
	ty, err := TypeOfExpr(ite, env)
	require.NoError(t, err)
	assert.Equal(t, Ty_I32, ty)
}

func TestTypeOfStmt_WrTmp(t *testing.T) {
	env := NewTypeEnv()
	tmp := env.NewTemp(Ty_I32)
	wt, err := NewWrTmp(tmp, mustConst(t, 9))
	require.NoError(t, err)
	ty, err := TypeOfStmt(wt, env)
	require.NoError(t, err)
	assert.Equal(t, Ty_I32, ty)
}

func TestTypeOfStmt_PutHasNoType(t *testing.T) {
	env := NewTypeEnv()
	put, err := NewPut(0, mustConst(t, 1))
	require.NoError(t, err)
	ty, err := TypeOfStmt(put, env)
	require.NoError(t, err)
	assert.Equal(t, TyInvalid, ty)
}
