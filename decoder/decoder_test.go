package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_MovEAXImm32(t *testing.T) {
	d := NewDecoder([]byte{0xB8, 0x2A, 0x00, 0x00, 0x00}, 0x1000, false)
	in, err := d.Decode()
	require.NoError(t, err)
	assert.Equal(t, "MOV", in.Mnemonic)
	assert.Equal(t, 5, in.Length)
	assert.Equal(t, "EAX", in.Operands[0].Reg)
	assert.Equal(t, int64(0x2A), in.Operands[1].Imm)
}

func TestDecode_MovRAXImm64(t *testing.T) {
	d := NewDecoder([]byte{0x48, 0xB8, 0x2A, 0, 0, 0, 0, 0, 0, 0}, 0x1000, true)
	in, err := d.Decode()
	require.NoError(t, err)
	assert.Equal(t, 10, in.Length)
	assert.Equal(t, "RAX", in.Operands[0].Reg)
	assert.True(t, in.REX.Present)
	assert.True(t, in.REX.W)
}

func TestDecode_Ret(t *testing.T) {
	d := NewDecoder([]byte{0xC3}, 0x1005, false)
	in, err := d.Decode()
	require.NoError(t, err)
	assert.Equal(t, "RET", in.Mnemonic)
	assert.Equal(t, 1, in.Length)
}

func TestDecode_AddEaxEbx(t *testing.T) {
	d := NewDecoder([]byte{0x01, 0xD8}, 0x2000, false)
	in, err := d.Decode()
	require.NoError(t, err)
	assert.Equal(t, "ADD", in.Mnemonic)
	assert.Equal(t, 2, in.Length)
	assert.Equal(t, "EAX", in.Operands[0].Reg)
	assert.Equal(t, "EBX", in.Operands[1].Reg)
}

func TestDecode_PushEax(t *testing.T) {
	d := NewDecoder([]byte{0x50}, 0x3000, false)
	in, err := d.Decode()
	require.NoError(t, err)
	assert.Equal(t, "PUSH", in.Mnemonic)
	assert.Equal(t, 1, in.Length)
}

func TestDecode_EvexVmovdqu32(t *testing.T) {
	d := NewDecoder([]byte{0x62, 0xF1, 0x7C, 0x48, 0x6F, 0xC1}, 0x4000, true)
	in, err := d.Decode()
	require.NoError(t, err)
	assert.Equal(t, 6, in.Length)
	assert.Equal(t, "vmovdqu32", in.Mnemonic)
	assert.Equal(t, 1, in.EVEX.MapSelect)
	assert.False(t, in.EVEX.W)
	assert.Equal(t, 2, in.EVEX.LL)
	assert.Equal(t, 512, in.EVEX.GetVectorLength())
	assert.False(t, in.EVEX.HasMasking())
	assert.Equal(t, "ZMM0", in.Operands[0].Reg)
	assert.Equal(t, "ZMM1", in.Operands[1].Reg)
}

func TestDecode_UnknownOpcode(t *testing.T) {
	d := NewDecoder([]byte{0x0F, 0xFF}, 0x5000, false)
	_, err := d.Decode()
	assert.ErrorIs(t, err, errUnknownOpcode)
}

func TestDecode_Truncated(t *testing.T) {
	d := NewDecoder([]byte{0xB8, 0x01}, 0x6000, false)
	_, err := d.Decode()
	assert.ErrorIs(t, err, errTruncated)
}

func TestDecode_SegmentPrefixCollapses(t *testing.T) {
	// 64 64 90 : two FS-segment prefixes then NOP; only one Segment byte
	// should survive, and decode should still consume both prefix bytes.
	d := NewDecoder([]byte{0x64, 0x64, 0x90}, 0x7000, false)
	in, err := d.Decode()
	require.NoError(t, err)
	assert.Equal(t, byte(0x64), in.Prefixes.Segment)
	assert.Equal(t, 3, in.Length)
}

func TestGPRName_LegacyVsREXByteRegs(t *testing.T) {
	assert.Equal(t, "AH", GPRName(4, Width8, false))
	assert.Equal(t, "SPL", GPRName(4, Width8, true))
}

func TestConditionName(t *testing.T) {
	assert.Equal(t, "E", ConditionName(4))
	assert.Equal(t, "NE", ConditionName(5))
}
