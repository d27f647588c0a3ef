package pricing

import (
	"math"

	"github.com/holiman/uint256"
)

// StakerYield computes the yield a provider has earned since its last
// checkpoint: (currentAcc - lastAcc) * balance / Scale.
//
// This sits on the value-distribution path, so it degrades instead of
// failing: an accumulator behind the checkpoint yields 0, an overflowing
// product yields 0, and the final cast saturates at the maximum u64.
// The caller folds the result into the position's pending claim and advances
// the checkpoint to the same accumulator snapshot it passed in here.
func StakerYield(currentAcc *uint256.Int, balance uint64, lastAcc *uint256.Int) uint64 {
	if currentAcc.Lt(lastAcc) {
		return 0
	}
	delta := new(uint256.Int).Sub(currentAcc, lastAcc)

	total := new(uint256.Int).Mul(delta, uint256.NewInt(balance))
	if total.BitLen() > u128Bits {
		return 0
	}

	total.Div(total, u256Scale)
	if !total.IsUint64() {
		return math.MaxUint64
	}
	return total.Uint64()
}

// AddYieldPerShare returns acc + amount*Scale/principal, the accumulator
// advance that distributes a collected fee pro-rata over principal. The
// accumulator is monotonic: this is the only way it moves, and only upward.
func AddYieldPerShare(acc *uint256.Int, amount, principal uint64) (*uint256.Int, error) {
	share, err := u128Mul(uint256.NewInt(amount), u256Scale)
	if err != nil {
		return nil, err
	}
	share.Div(share, uint256.NewInt(principal))

	out := new(uint256.Int).Add(acc, share)
	if out.BitLen() > u128Bits {
		return nil, ErrOverflowInAdd
	}
	return out, nil
}
