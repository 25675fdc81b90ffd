package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemp_String(t *testing.T) {
	assert.Equal(t, "t_INVALID", TempInvalid.String())
	assert.Equal(t, "t3", Temp(3).String())
}

func TestTypeEnv_NewTempIsDenseAndOrdered(t *testing.T) {
	env := NewTypeEnv()
	t0 := env.NewTemp(Ty_I32)
	t1 := env.NewTemp(Ty_I64)
	assert.Equal(t, Temp(0), t0)
	assert.Equal(t, Temp(1), t1)
	assert.Equal(t, 2, env.Count())

	ty, err := env.GetType(t0)
	require.NoError(t, err)
	assert.Equal(t, Ty_I32, ty)
}

func TestTypeEnv_GetTypeOutOfRange(t *testing.T) {
	env := NewTypeEnv()
	_, err := env.GetType(Temp(5))
	require.Error(t, err)
	var target *UnboundTempError
	assert.ErrorAs(t, err, &target)
}

func TestTypeEnv_DeepCopyIndependent(t *testing.T) {
	env := NewTypeEnv()
	env.NewTemp(Ty_I8)
	cp := env.DeepCopy()
	env.NewTemp(Ty_I16)
	assert.Equal(t, 2, env.Count())
	assert.Equal(t, 1, cp.Count())
}

func TestTypeEnv_Equal(t *testing.T) {
	a := NewTypeEnv()
	a.NewTemp(Ty_I8)
	b := NewTypeEnv()
	b.NewTemp(Ty_I8)
	assert.True(t, a.Equal(b))

	b.NewTemp(Ty_I16)
	assert.False(t, a.Equal(b))
}
