package pricing

import "github.com/holiman/uint256"

// ConfFeeBps converts oracle confidence intervals into an extra swap fee.
//
// A wide confidence interval means the oracle's uncertainty window is larger,
// giving latency arbitrageurs a bigger edge; charging conf/price (in bps) per
// leg makes such round-trips unprofitable. The two legs are summed saturating
// and capped at 100%.
//
// Example: SOL price=$100 conf=$0.15 -> 15 bps; USDC price=$1 conf=$0.0001
// -> 1 bps; total 16 bps.
func ConfFeeBps(priceIn int64, confIn uint64, priceOut int64, confOut uint64) uint64 {
	feeIn := confToBps(priceIn, confIn)
	feeOut := confToBps(priceOut, confOut)

	total := feeIn + feeOut // each leg <= 10_000, cannot wrap
	if total > MaxFeeBps {
		return MaxFeeBps
	}
	return total
}

// confToBps returns min(conf*10_000/price, 10_000) for one leg. A non-positive
// price or zero confidence contributes nothing; the non-positive price is
// rejected upstream anyway.
func confToBps(price int64, conf uint64) uint64 {
	if price <= 0 || conf == 0 {
		return 0
	}
	v := new(uint256.Int).SetUint64(conf)
	v.Mul(v, u256BpsDenom)
	v.Div(v, uint256.NewInt(uint64(price)))
	if !v.IsUint64() || v.Uint64() > MaxFeeBps {
		return MaxFeeBps
	}
	return v.Uint64()
}
