package nodes

import (
	"fmt"
	"math/big"
	"slices"
)

// VarBit is an integer of arbitrary width stored as little-endian two's
// complement bytes.
type VarBit struct {
	Width int
	Bytes []byte
}

// VarBitFromInt64 truncates or sign-extends v to width bits.
func VarBitFromInt64(width int, v int64) VarBit {
	return VarBitFromBig(width, big.NewInt(v))
}

// VarBitFromBig stores v modulo 2^width.
func VarBitFromBig(width int, v *big.Int) VarBit {
	if width <= 0 {
		return VarBit{}
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(width)) //nolint:gosec // width > 0
	u := new(big.Int).Mod(v, mod)
	n := (width + 7) / 8
	be := u.FillBytes(make([]byte, n))
	slices.Reverse(be)
	return VarBit{Width: width, Bytes: be}
}

// Unsigned returns the value as an unsigned integer.
func (v VarBit) Unsigned() *big.Int {
	be := slices.Clone(v.Bytes)
	slices.Reverse(be)
	return new(big.Int).SetBytes(be)
}

// Signed returns the two's complement value.
func (v VarBit) Signed() *big.Int {
	u := v.Unsigned()
	if v.Width <= 0 || u.Bit(v.Width-1) == 0 {
		return u
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(v.Width)) //nolint:gosec // width > 0
	return u.Sub(u, mod)
}

func (v VarBit) String() string {
	return fmt.Sprintf("i%d %s", v.Width, v.Signed())
}
