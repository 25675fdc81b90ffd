package decoder

// Width selects the effective operand width used to index a register-name
// table, per spec.md §4.5 step 6 ("indexed by (encoding, effective-width)").
type Width int

const (
	Width8 Width = iota
	Width16
	Width32
	Width64
)

// gpr8Low are the 8 legacy 8-bit GPR names (no REX prefix present); AH/CH/
// DH/BH alias the high byte of RAX/RCX/RDX/RBX and are only reachable this
// way, per the x86 ISA's own long-standing encoding quirk.
var gpr8Low = [8]string{"AL", "CL", "DL", "BL", "AH", "CH", "DH", "BH"}

// gpr8REX are the 16 8-bit GPR names reachable once a REX prefix is
// present, replacing the AH-BH aliases with SPL/BPL/SIL/DIL.
var gpr8REX = [16]string{
	"AL", "CL", "DL", "BL", "SPL", "BPL", "SIL", "DIL",
	"R8L", "R9L", "R10L", "R11L", "R12L", "R13L", "R14L", "R15L",
}

var gpr16 = [16]string{
	"AX", "CX", "DX", "BX", "SP", "BP", "SI", "DI",
	"R8W", "R9W", "R10W", "R11W", "R12W", "R13W", "R14W", "R15W",
}

var gpr32 = [16]string{
	"EAX", "ECX", "EDX", "EBX", "ESP", "EBP", "ESI", "EDI",
	"R8D", "R9D", "R10D", "R11D", "R12D", "R13D", "R14D", "R15D",
}

var gpr64 = [16]string{
	"RAX", "RCX", "RDX", "RBX", "RSP", "RBP", "RSI", "RDI",
	"R8", "R9", "R10", "R11", "R12", "R13", "R14", "R15",
}

// GPRName resolves a 0-15 register encoding to its name at the given
// effective width. hasREX distinguishes the AH/CH/DH/BH legacy encoding
// (no REX present, width 8, encoding<8) from SPL/BPL/SIL/DIL.
func GPRName(encoding int, width Width, hasREX bool) string {
	switch width {
	case Width8:
		if !hasREX && encoding < 8 {
			return gpr8Low[encoding]
		}
		return gpr8REX[encoding]
	case Width16:
		return gpr16[encoding]
	case Width32:
		return gpr32[encoding]
	default:
		return gpr64[encoding]
	}
}

// XMMName, YMMName, ZMMName resolve a 0-31 vector register encoding to its
// AVX/AVX-512 name.
func XMMName(encoding int) string { return "XMM" + regIndexString(encoding) }
func YMMName(encoding int) string { return "YMM" + regIndexString(encoding) }
func ZMMName(encoding int) string { return "ZMM" + regIndexString(encoding) }

// MaskName resolves a 0-7 AVX-512 opmask register encoding.
func MaskName(encoding int) string { return "K" + regIndexString(encoding) }

func regIndexString(i int) string {
	if i < 10 {
		return string(rune('0' + i))
	}
	return string(rune('0'+i/10)) + string(rune('0'+i%10))
}

// condNames maps a 4-bit Jcc/SETcc/CMOVcc condition code to its Intel-style
// mnemonic suffix (O, NO, B, AE, E, NE, ...), indexed by the code itself.
var condNames = [16]string{
	"O", "NO", "B", "AE", "E", "NE", "BE", "A",
	"S", "NS", "P", "NP", "L", "GE", "LE", "G",
}

// ConditionName resolves a 4-bit condition code to its mnemonic suffix.
func ConditionName(cc int) string { return condNames[cc&0x0F] }
