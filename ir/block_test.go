package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSimpleBlock(t *testing.T) *IRSB {
	t.Helper()
	b := NewIRSB()
	tmp := b.NewTemp(Ty_I32)
	wt, err := NewWrTmp(tmp, mustConst(t, 42))
	require.NoError(t, err)
	b.AddStatement(wt)
	next, err := NewRdTmp(tmp)
	require.NoError(t, err)
	b.Next = next
	b.Jk = JumpBoring
	return b
}

func TestIRSB_AddAndReplaceStatement(t *testing.T) {
	b := buildSimpleBlock(t)
	assert.Equal(t, 1, len(b.Stmts))

	noop := NewNoOp()
	b.InsertStatement(0, noop)
	assert.Equal(t, 2, len(b.Stmts))
	assert.Equal(t, noop, b.Stmts[0])

	b.ReplaceStatement(0, NewNoOp())
	assert.IsType(t, &StmtNoOp{}, b.Stmts[0])
}

func TestIRSB_RemoveStatementAtLeavesNoOp(t *testing.T) {
	b := buildSimpleBlock(t)
	b.RemoveStatementAt(0)
	assert.IsType(t, &StmtNoOp{}, b.Stmts[0])
}

func TestIRSB_InsertStatementPanicsOutOfRange(t *testing.T) {
	b := buildSimpleBlock(t)
	assert.Panics(t, func() { b.InsertStatement(99, NewNoOp()) })
}

func TestIRSB_DeepCopyIndependence(t *testing.T) {
	b := buildSimpleBlock(t)
	cp := b.DeepCopy()
	assert.True(t, b.Equal(cp))

	cp.AddStatement(NewNoOp())
	assert.False(t, b.Equal(cp))
}

func TestIRSB_ClearStatements(t *testing.T) {
	b := buildSimpleBlock(t)
	b.ClearStatements()
	assert.Equal(t, 0, len(b.Stmts))
}

func TestIRSB_String(t *testing.T) {
	b := buildSimpleBlock(t)
	b.OffsIP = 0x10
	want := "------ Type Environment ------\n" +
		"t0:I32\n" +
		"------ Statements ------\n" +
		"0:\tt0 = 0x0000002A:I32\n" +
		"------ Exit ------\n" +
		"Next:       t0\n" +
		"Jump Kind:  Boring\n" +
		"IP Offset:  16\n"
	assert.Equal(t, want, b.String())
}

func TestIRSB_StringNumbersEveryStatement(t *testing.T) {
	b := buildSimpleBlock(t)
	b.AddStatement(NewNoOp())
	b.AddStatement(NewNoOp())
	s := b.String()
	assert.Contains(t, s, "0:\tt0 = 0x0000002A:I32\n")
	assert.Contains(t, s, "1:\tIR-NoOp\n")
	assert.Contains(t, s, "2:\tIR-NoOp\n")
}
