package pricing

import (
	"github.com/holiman/uint256"

	"github.com/hxuan190/vault-engine/internal/domain"
)

// Strategy selects how oracle uncertainty is charged. The two strategies are
// alternatives: conf-fee prices at mid and adds a confidence surcharge,
// bid-ask builds the spread into the conversion itself.
type Strategy string

const (
	StrategyConfFee Strategy = "conf_fee"
	StrategyBidAsk  Strategy = "bid_ask"
)

// impactThresholdBps is where the utilization curve starts (10% of the
// destination vault's balance).
const impactThresholdBps uint64 = 1_000

// SwapMathResult is the full quote for one swap.
type SwapMathResult struct {
	SwapFeeBps        uint64
	RawAmountOut      uint64
	NetAmountOut      uint64
	LpFeeAmount       uint64
	ProtocolFeeAmount uint64
}

// ComputeSwapMath composes the fee curves into one swap quote. It is pure
// with respect to the vault snapshots: the caller applies the balance deltas
// and the yield-accumulator update as a single atomic transition.
//
// Composition order is load-bearing: the imbalance fee seeds the utilization
// curve, and the confidence fee is added on top of the curve's result.
func ComputeSwapMath(
	amountIn uint64,
	obsIn, obsOut domain.PriceObservation,
	decimalsIn, decimalsOut uint8,
	vaultIn, vaultOut *domain.Vault,
	strategy Strategy,
) (*SwapMathResult, error) {
	swapFeeBps := FeesSetting(vaultIn, vaultOut)
	protocolFeeBps := vaultOut.ProtocolFeeBps

	var (
		rawOut    uint64
		oracleFee uint64
		err       error
	)
	if strategy == StrategyBidAsk {
		rawOut, err = RawAmountOutBidAsk(amountIn, decimalsIn, decimalsOut, obsIn, obsOut)
	} else {
		rawOut, err = RawAmountOut(amountIn, decimalsIn, decimalsOut, obsIn, obsOut)
		// Extra fee proportional to oracle uncertainty; under bid-ask
		// pricing the spread already covers it.
		oracleFee = ConfFeeBps(obsIn.Price, obsIn.Conf, obsOut.Price, obsOut.Conf)
	}
	if err != nil {
		return nil, err
	}

	// Liquidity-impact fee: flat up to 10% utilization of the destination
	// vault, then a quadratic curve from the imbalance fee toward 100%.
	//
	// Examples (swapFeeBps = 30):
	//   10%  -> 30 bps, 20% -> ~148 bps, 50% -> ~1_997 bps, 100% -> 10_000 bps
	var liquidityFeeBps uint64
	if vaultOut.CurrentBalance == 0 {
		liquidityFeeBps = MaxFeeBps
	} else {
		utilization := utilizationBps(rawOut, vaultOut.CurrentBalance)
		if utilization <= impactThresholdBps {
			liquidityFeeBps = swapFeeBps
		} else {
			// map 10%..100% utilization to 0..10_000
			adj := (utilization - impactThresholdBps) * BpsDenom / (MaxFeeBps - impactThresholdBps)
			curved := adj * adj / BpsDenom
			liquidityFeeBps = swapFeeBps + (MaxFeeBps-swapFeeBps)*curved/BpsDenom
		}
	}

	adjustedFeeBps := liquidityFeeBps + oracleFee // both <= 10_000, cannot wrap

	if adjustedFeeBps+protocolFeeBps > MaxFeeBps {
		return nil, ErrFeeExceeds
	}

	netOut, lpFee, protocolFee, err := FeeAmount(rawOut, adjustedFeeBps, protocolFeeBps)
	if err != nil {
		return nil, err
	}

	// Fee-aware sufficiency: the vault must cover the net payout.
	if vaultOut.CurrentBalance < netOut {
		return nil, ErrInsufficientLiquidity
	}

	return &SwapMathResult{
		SwapFeeBps:        adjustedFeeBps,
		RawAmountOut:      rawOut,
		NetAmountOut:      netOut,
		LpFeeAmount:       lpFee,
		ProtocolFeeAmount: protocolFee,
	}, nil
}

// utilizationBps returns min(rawOut*10_000/balance, 10_000).
func utilizationBps(rawOut, balance uint64) uint64 {
	u := new(uint256.Int).SetUint64(rawOut)
	u.Mul(u, u256BpsDenom)
	u.Div(u, uint256.NewInt(balance))
	if !u.IsUint64() || u.Uint64() > BpsDenom {
		return BpsDenom
	}
	return u.Uint64()
}
