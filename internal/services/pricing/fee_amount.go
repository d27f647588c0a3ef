package pricing

import "math/bits"

// FeeAmount applies the LP and protocol fee legs to amount and returns
// (amountAfterFee, lpFee, protocolFee). Each leg is amount*bps/10_000 with
// floor rounding, then clamped to at least 1 unit (no fee-free
// micro-transactions) and at most the principal. The same rounding policy is
// used for swap fees and exit fees alike.
func FeeAmount(amount, lpFeeBps, protocolFeeBps uint64) (uint64, uint64, uint64, error) {
	lpFee, err := feeLeg(amount, lpFeeBps)
	if err != nil {
		return 0, 0, 0, err
	}
	protocolFee, err := feeLeg(amount, protocolFeeBps)
	if err != nil {
		return 0, 0, 0, err
	}

	afterLp, borrow := bits.Sub64(amount, lpFee, 0)
	afterFee, borrow2 := bits.Sub64(afterLp, protocolFee, borrow)
	if borrow2 != 0 {
		return 0, 0, 0, ErrOverflow
	}

	return afterFee, lpFee, protocolFee, nil
}

// feeLeg computes amount*bps/10_000, at least 1 but no more than amount.
func feeLeg(amount, bps uint64) (uint64, error) {
	if bps == 0 || amount == 0 {
		return 0, nil
	}
	hi, lo := bits.Mul64(amount, bps)
	if hi != 0 {
		return 0, ErrOverflow
	}
	f := lo / BpsDenom
	if f < 1 {
		f = 1
	}
	if f > amount {
		f = amount
	}
	return f, nil
}
