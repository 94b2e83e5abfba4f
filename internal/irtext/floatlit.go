package irtext

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"llnode/internal/symbols"
	"llnode/internal/types"
)

// parseFloatConst decodes a floating-point literal for a value of kind.
//
// Decimal literals are accepted for float, double, x86_fp80 and fp128.
// Hex forms follow the assembler: 0x<16 digits> is a double bit pattern
// (also used for float), 0xH<4> is half, 0xK<20> is x86_fp80 and
// 0xL<32> is fp128 written as the low word then the high word.
func parseFloatConst(kind types.BaseKind, text string) (symbols.FloatConst, error) {
	upper := strings.ToUpper(text)
	switch {
	case strings.HasPrefix(upper, "0XH"):
		if kind != types.BaseHalf {
			return symbols.FloatConst{}, fmt.Errorf("0xH literal for %s", kind)
		}
		v, err := strconv.ParseUint(text[3:], 16, 16)
		if err != nil {
			return symbols.FloatConst{}, err
		}
		return symbols.FloatConst{Bits: v}, nil
	case strings.HasPrefix(upper, "0XK"):
		if kind != types.BaseX86FP80 {
			return symbols.FloatConst{}, fmt.Errorf("0xK literal for %s", kind)
		}
		raw, err := hexBytes(text[3:], 10)
		if err != nil {
			return symbols.FloatConst{}, err
		}
		return symbols.FloatConst{Raw: reverse(raw)}, nil
	case strings.HasPrefix(upper, "0XL"):
		if kind != types.BaseFP128 {
			return symbols.FloatConst{}, fmt.Errorf("0xL literal for %s", kind)
		}
		raw, err := hexBytes(text[3:], 16)
		if err != nil {
			return symbols.FloatConst{}, err
		}
		// Each word is written most significant byte first.
		out := make([]byte, 16)
		copy(out[:8], reverse(raw[:8]))
		copy(out[8:], reverse(raw[8:]))
		return symbols.FloatConst{Raw: out}, nil
	case strings.HasPrefix(upper, "0X"):
		bits, err := strconv.ParseUint(text[2:], 16, 64)
		if err != nil {
			return symbols.FloatConst{}, err
		}
		return fromDouble(kind, math.Float64frombits(bits))
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return symbols.FloatConst{}, err
	}
	return fromDouble(kind, v)
}

func fromDouble(kind types.BaseKind, v float64) (symbols.FloatConst, error) {
	switch kind {
	case types.BaseFloat:
		return symbols.FloatConst{Bits: uint64(math.Float32bits(float32(v)))}, nil
	case types.BaseDouble:
		return symbols.FloatConst{Bits: math.Float64bits(v)}, nil
	case types.BaseX86FP80:
		return symbols.FloatConst{Raw: extendedBytes(v)}, nil
	case types.BaseFP128:
		return symbols.FloatConst{Raw: quadBytes(v)}, nil
	default:
		return symbols.FloatConst{}, fmt.Errorf("%s literal must use hex form", kind)
	}
}

// extendedBytes widens v to the x87 80-bit format, little-endian.
func extendedBytes(v float64) []byte {
	out := make([]byte, 10)
	var sign uint16
	if math.Signbit(v) {
		sign = 0x8000
	}
	var exp uint16
	var mant uint64
	switch {
	case math.IsNaN(v):
		exp, mant = 0x7fff, 0xc000000000000000
	case math.IsInf(v, 0):
		exp, mant = 0x7fff, 0x8000000000000000
	case v == 0:
	default:
		frac, e := math.Frexp(math.Abs(v))
		mant = uint64(math.Ldexp(frac, 64))
		exp = uint16(e - 1 + 16383) //nolint:gosec // double exponents fit
	}
	binary.LittleEndian.PutUint64(out[:8], mant)
	binary.LittleEndian.PutUint16(out[8:], sign|exp)
	return out
}

// quadBytes widens v to IEEE binary128, little-endian.
func quadBytes(v float64) []byte {
	out := make([]byte, 16)
	var hi, lo uint64
	if math.Signbit(v) {
		hi = 1 << 63
	}
	switch {
	case math.IsNaN(v):
		hi |= 0x7fff<<48 | 1<<47
	case math.IsInf(v, 0):
		hi |= 0x7fff << 48
	case v == 0:
	default:
		frac, e := math.Frexp(math.Abs(v))
		sig := uint64(math.Ldexp(frac, 53)) & (1<<52 - 1)
		hi |= uint64(e-1+16383)<<48 | sig>>4 //nolint:gosec // double exponents fit
		lo = sig << 60
	}
	binary.LittleEndian.PutUint64(out[:8], lo)
	binary.LittleEndian.PutUint64(out[8:], hi)
	return out
}

func hexBytes(s string, n int) ([]byte, error) {
	if len(s) != 2*n {
		return nil, fmt.Errorf("want %d hex digits, got %d", 2*n, len(s))
	}
	return hex.DecodeString(s)
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}
