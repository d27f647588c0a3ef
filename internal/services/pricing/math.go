package pricing

import (
	"errors"

	"github.com/holiman/uint256"
)

// Fixed-point and basis-point constants shared by every fee curve.
const (
	// Scale is the process-wide fixed-point scale (10^12) used by the
	// price converter and the per-share yield accumulator.
	Scale uint64 = 1_000_000_000_000

	// BpsDenom converts basis points to a fraction: 10_000 bps = 100%.
	BpsDenom uint64 = 10_000

	// MaxFeeBps caps every composed fee rate at 100%.
	MaxFeeBps uint64 = 10_000

	// maxPow10 is the largest exponent 10^n that fits a 128-bit
	// intermediate (10^39 overflows).
	maxPow10 = 38

	// u128Bits bounds every intermediate to the 128-bit domain even though
	// uint256 gives us headroom; anything wider is an overflow.
	u128Bits = 128
)

// Arithmetic failures carry the failing operation so the failure site stays
// diagnosable; they are fatal to the enclosing computation unless a component
// documents a safety fallback (StakerYield).
var (
	ErrOverflow       = errors.New("overflow")
	ErrOverflowInMul  = errors.New("overflow in mul")
	ErrOverflowInDiv  = errors.New("overflow in div")
	ErrOverflowInSub  = errors.New("overflow in sub")
	ErrOverflowInAdd  = errors.New("overflow in add")
	ErrOverflowInCast = errors.New("overflow in cast")

	ErrInvalidPrice          = errors.New("invalid price")
	ErrFeeExceeds            = errors.New("the fee exceeds 100%")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity in the vault")
)

// Pre-computed constants (avoid allocation on every call)
var (
	u256Scale    = uint256.NewInt(Scale)
	u256BpsDenom = uint256.NewInt(BpsDenom)
	u256Hundred  = uint256.NewInt(100)

	pow10Table = func() [maxPow10 + 1]*uint256.Int {
		var t [maxPow10 + 1]*uint256.Int
		ten := uint256.NewInt(10)
		t[0] = uint256.NewInt(1)
		for i := 1; i <= maxPow10; i++ {
			t[i] = new(uint256.Int).Mul(t[i-1], ten)
		}
		return t
	}()
)

// pow10 returns 10^exp, guarding against exponents that would overflow the
// 128-bit intermediate.
func pow10(exp uint32) (*uint256.Int, error) {
	if exp > maxPow10 {
		return nil, ErrOverflowInMul
	}
	return pow10Table[exp], nil
}

// u128Mul computes a*b, failing when the product leaves the 128-bit domain.
func u128Mul(a, b *uint256.Int) (*uint256.Int, error) {
	out := new(uint256.Int).Mul(a, b)
	if out.BitLen() > u128Bits {
		return nil, ErrOverflowInMul
	}
	return out, nil
}

// u128Div computes a/b with floor rounding; division by zero is an error.
func u128Div(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, ErrOverflowInDiv
	}
	return new(uint256.Int).Div(a, b), nil
}

// castU64 narrows a 128-bit value to u64 or fails.
func castU64(v *uint256.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, ErrOverflowInCast
	}
	return v.Uint64(), nil
}
