//go:build amd64

package decoder

import (
	"testing"

	goasm "github.com/twitchyliquid64/golang-asm"
	"github.com/twitchyliquid64/golang-asm/obj"
	"github.com/twitchyliquid64/golang-asm/obj/x86"
	"github.com/stretchr/testify/require"
)

// These tests assemble a real instruction via golang-asm (the same library
// package/golang_asm wraps for its JIT backend), then feed the resulting
// machine code back through this package's decoder, checking that what
// comes out is internally consistent with what went in.

func assembleOne(t *testing.T, build func(p *obj.Prog)) []byte {
	t.Helper()
	b, err := goasm.NewBuilder("amd64", 64)
	require.NoError(t, err)
	p := b.NewProg()
	build(p)
	b.AddInstruction(p)
	return b.Assemble()
}

func TestDecoderRoundTrip_MovRegImm32(t *testing.T) {
	code := assembleOne(t, func(p *obj.Prog) {
		p.As = x86.AMOVL
		p.From = obj.Addr{Type: obj.TYPE_CONST, Offset: 42}
		p.To = obj.Addr{Type: obj.TYPE_REG, Reg: x86.REG_AX}
	})
	require.NotEmpty(t, code)

	d := NewDecoder(code, 0, false)
	in, err := d.Decode()
	require.NoError(t, err)
	require.NotNil(t, in)
	require.Equal(t, len(code), in.Length)
}

func TestDecoderRoundTrip_Ret(t *testing.T) {
	code := assembleOne(t, func(p *obj.Prog) {
		p.As = x86.ARET
	})
	require.NotEmpty(t, code)

	d := NewDecoder(code, 0, true)
	in, err := d.Decode()
	require.NoError(t, err)
	require.Equal(t, "RET", in.Mnemonic)
}

func TestDecoderRoundTrip_AddRegReg(t *testing.T) {
	code := assembleOne(t, func(p *obj.Prog) {
		p.As = x86.AADDL
		p.From = obj.Addr{Type: obj.TYPE_REG, Reg: x86.REG_BX}
		p.To = obj.Addr{Type: obj.TYPE_REG, Reg: x86.REG_AX}
	})
	require.NotEmpty(t, code)

	d := NewDecoder(code, 0, false)
	in, err := d.Decode()
	require.NoError(t, err)
	require.NotNil(t, in)
}
