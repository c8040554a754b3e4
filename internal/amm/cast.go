package amm

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var maxUint64 = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// CheckedCast converts a non-negative real value into a token amount,
// truncating toward zero. Negative values and values above MaxUint64 fail
// with ErrArithmeticOverflow.
func CheckedCast(v decimal.Decimal) (uint64, error) {
	if v.IsNegative() {
		return 0, fmt.Errorf("%w: negative value %s", ErrArithmeticOverflow, v)
	}
	t := v.Truncate(0)
	if t.GreaterThan(maxUint64) {
		return 0, fmt.Errorf("%w: %s does not fit in u64", ErrArithmeticOverflow, t)
	}
	return t.BigInt().Uint64(), nil
}

// ParseAmount converts a human-readable amount (e.g. "1.5") into raw token
// units for a mint with the given decimals
func ParseAmount(s string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrInvalidIntent, s)
	}
	return CheckedCast(d.Shift(int32(decimals)))
}

// FormatAmount renders raw token units in human-readable form
func FormatAmount(raw uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(raw), -int32(decimals)).String()
}

// toUint64 is the integer-path checked cast
func toUint64(z *uint256.Int) (uint64, error) {
	if !z.IsUint64() {
		return 0, fmt.Errorf("%w: %s does not fit in u64", ErrArithmeticOverflow, z.Dec())
	}
	return z.Uint64(), nil
}

// mulDiv returns floor(x*y/d). The product is kept in full width so the
// only failure mode is a result wider than 64 bits.
func mulDiv(x, y, d uint64) (uint64, error) {
	if d == 0 {
		return 0, fmt.Errorf("%w: division by zero", ErrArithmeticOverflow)
	}
	z, overflow := new(uint256.Int).MulDivOverflow(uint256.NewInt(x), uint256.NewInt(y), uint256.NewInt(d))
	if overflow {
		return 0, fmt.Errorf("%w: %d * %d / %d", ErrArithmeticOverflow, x, y, d)
	}
	return toUint64(z)
}

func checkedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, fmt.Errorf("%w: %d + %d", ErrArithmeticOverflow, a, b)
	}
	return a + b, nil
}
