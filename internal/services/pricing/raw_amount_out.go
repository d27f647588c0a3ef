package pricing

import (
	"github.com/holiman/uint256"

	"github.com/hxuan190/vault-engine/internal/domain"
)

// RawAmountOut converts amountIn of the input asset into output-asset units
// through the two oracle mid prices.
//
// Oracle uncertainty is handled separately (ConfFeeBps routes it explicitly
// to LPs); pricing at mid avoids double-charging. The pipeline is:
// native units -> fixed point (Scale) -> common units via the input price ->
// output units via the output price -> native output decimals. Every multiply
// and divide is checked and fails with the operation-specific overflow error.
func RawAmountOut(amountIn uint64, decimalsIn, decimalsOut uint8, obsIn, obsOut domain.PriceObservation) (uint64, error) {
	if obsIn.Price <= 0 || obsOut.Price <= 0 {
		return 0, ErrInvalidPrice
	}
	priceIn := uint256.NewInt(uint64(obsIn.Price))
	priceOut := uint256.NewInt(uint64(obsOut.Price))
	return convert(amountIn, decimalsIn, decimalsOut, priceIn, obsIn.Exponent, priceOut, obsOut.Exponent)
}

// RawAmountOutBidAsk is the conservative variant: the input leg is valued at
// the oracle bid (price-conf, floored at 1) and the output leg at the ask
// (price+conf). The built-in spread equals twice the combined confidence,
// which makes oracle-latency round-trips unprofitable without a separate
// confidence surcharge. A deployment uses either this or ConfFeeBps, never
// both.
func RawAmountOutBidAsk(amountIn uint64, decimalsIn, decimalsOut uint8, obsIn, obsOut domain.PriceObservation) (uint64, error) {
	if obsIn.Price <= 0 || obsOut.Price <= 0 {
		return 0, ErrInvalidPrice
	}

	bid := uint256.NewInt(1)
	if uint64(obsIn.Price) > obsIn.Conf {
		bid.SetUint64(uint64(obsIn.Price) - obsIn.Conf)
	}

	ask := new(uint256.Int).SetUint64(uint64(obsOut.Price))
	ask.Add(ask, uint256.NewInt(obsOut.Conf))

	return convert(amountIn, decimalsIn, decimalsOut, bid, obsIn.Exponent, ask, obsOut.Exponent)
}

func convert(amountIn uint64, decimalsIn, decimalsOut uint8, priceIn *uint256.Int, exponentIn int32, priceOut *uint256.Int, exponentOut int32) (uint64, error) {
	// amountIn -> fixed point
	decIn, err := pow10(uint32(decimalsIn))
	if err != nil {
		return 0, err
	}
	amountFp, err := u128Mul(uint256.NewInt(amountIn), u256Scale)
	if err != nil {
		return 0, err
	}
	amountFp, err = u128Div(amountFp, decIn)
	if err != nil {
		return 0, err
	}

	// input asset -> common units: value * priceIn * 10^exponentIn
	commonFp, err := applyExponentMul(amountFp, priceIn, exponentIn)
	if err != nil {
		return 0, err
	}

	// common units -> output asset: value / (priceOut * 10^exponentOut)
	outFp, err := applyExponentDiv(commonFp, priceOut, exponentOut)
	if err != nil {
		return 0, err
	}

	// fixed point -> native output units
	decOut, err := pow10(uint32(decimalsOut))
	if err != nil {
		return 0, err
	}
	out, err := u128Mul(outFp, decOut)
	if err != nil {
		return 0, err
	}
	out, err = u128Div(out, u256Scale)
	if err != nil {
		return 0, err
	}

	return castU64(out)
}

// applyExponentMul computes value * price * 10^exponent, handling the
// exponent sign. Oracle exponents are typically negative (e.g. -8) but must
// not be assumed to be.
func applyExponentMul(value, price *uint256.Int, exponent int32) (*uint256.Int, error) {
	v, err := u128Mul(value, price)
	if err != nil {
		return nil, err
	}
	if exponent < 0 {
		p, err := pow10(uint32(-int64(exponent)))
		if err != nil {
			return nil, err
		}
		return u128Div(v, p)
	}
	p, err := pow10(uint32(exponent))
	if err != nil {
		return nil, err
	}
	return u128Mul(v, p)
}

// applyExponentDiv computes value / (price * 10^exponent), handling the
// exponent sign symmetrically to applyExponentMul.
func applyExponentDiv(value, price *uint256.Int, exponent int32) (*uint256.Int, error) {
	if exponent < 0 {
		p, err := pow10(uint32(-int64(exponent)))
		if err != nil {
			return nil, err
		}
		v, err := u128Mul(value, p)
		if err != nil {
			return nil, err
		}
		return u128Div(v, price)
	}
	v, err := u128Div(value, price)
	if err != nil {
		return nil, err
	}
	p, err := pow10(uint32(exponent))
	if err != nil {
		return nil, err
	}
	return u128Div(v, p)
}
