package ledger

import (
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/vault-engine/internal/domain"
	"github.com/hxuan190/vault-engine/internal/metrics"
	"github.com/hxuan190/vault-engine/internal/services/pricing"
)

// Quote computes a swap quote against the current vault snapshots without
// mutating anything. Oracle freshness is enforced here, as it is on the
// executing path.
func (s *Service) Quote(
	mintIn, mintOut solana.PublicKey,
	amountIn uint64,
	obsIn, obsOut domain.PriceObservation,
) (*domain.SwapQuote, error) {
	if amountIn == 0 {
		return nil, ErrZeroAmount
	}
	if mintIn.Equals(mintOut) {
		return nil, ErrSameAsset
	}

	vaultIn, err := s.store.Vault(mintIn)
	if err != nil {
		return nil, err
	}
	vaultOut, err := s.store.Vault(mintOut)
	if err != nil {
		return nil, err
	}

	if err := s.checkFreshness(vaultIn, obsIn); err != nil {
		return nil, err
	}
	if err := s.checkFreshness(vaultOut, obsOut); err != nil {
		return nil, err
	}

	result, err := pricing.ComputeSwapMath(
		amountIn,
		obsIn, obsOut,
		vaultIn.Decimals, vaultOut.Decimals,
		vaultIn, vaultOut,
		s.strategy,
	)
	if err != nil {
		return nil, err
	}

	return &domain.SwapQuote{
		EffectiveFeeBps:   result.SwapFeeBps,
		RawAmountOut:      result.RawAmountOut,
		NetAmountOut:      result.NetAmountOut,
		LpFeeAmount:       result.LpFeeAmount,
		ProtocolFeeAmount: result.ProtocolFeeAmount,
	}, nil
}

// Swap executes a swap: quote against pre-swap snapshots, slippage guard,
// then one atomic commit of both vaults' balance and yield updates.
func (s *Service) Swap(
	mintIn, mintOut solana.PublicKey,
	amountIn, minimumOut uint64,
	obsIn, obsOut domain.PriceObservation,
) (*domain.SwapQuote, error) {
	if amountIn == 0 {
		return nil, ErrZeroAmount
	}
	if mintIn.Equals(mintOut) {
		return nil, ErrSameAsset
	}

	storedIn, err := s.store.Vault(mintIn)
	if err != nil {
		return nil, err
	}
	storedOut, err := s.store.Vault(mintOut)
	if err != nil {
		return nil, err
	}

	if err := s.checkFreshness(storedIn, obsIn); err != nil {
		return nil, err
	}
	if err := s.checkFreshness(storedOut, obsOut); err != nil {
		return nil, err
	}

	vaultIn := storedIn.Clone()
	vaultOut := storedOut.Clone()

	result, err := pricing.ComputeSwapMath(
		amountIn,
		obsIn, obsOut,
		vaultIn.Decimals, vaultOut.Decimals,
		vaultIn, vaultOut,
		s.strategy,
	)
	if err != nil {
		metrics.SwapFailures.WithLabelValues(errLabel(err)).Inc()
		return nil, err
	}

	if result.NetAmountOut < minimumOut {
		metrics.SwapFailures.WithLabelValues("slippage").Inc()
		return nil, ErrHighSlippage
	}

	if vaultIn.CurrentBalance, err = addU64(vaultIn.CurrentBalance, amountIn); err != nil {
		return nil, err
	}
	if vaultOut.CurrentBalance, err = subU64(vaultOut.CurrentBalance, result.NetAmountOut); err != nil {
		return nil, err
	}

	// LP fee accrues to the destination vault's providers pro-rata; with no
	// principal to distribute over, it is routed to the protocol instead of
	// being stranded.
	if vaultOut.InitialBalance > 0 {
		vaultOut.CumulativeYieldPerShare, err = pricing.AddYieldPerShare(
			vaultOut.CumulativeYieldPerShare, result.LpFeeAmount, vaultOut.InitialBalance)
		if err != nil {
			return nil, err
		}
		if vaultOut.ProtocolYield, err = addU64(vaultOut.ProtocolYield, result.ProtocolFeeAmount); err != nil {
			return nil, err
		}
	} else {
		fees, err := addU64(result.LpFeeAmount, result.ProtocolFeeAmount)
		if err != nil {
			return nil, err
		}
		if vaultOut.ProtocolYield, err = addU64(vaultOut.ProtocolYield, fees); err != nil {
			return nil, err
		}
	}

	if err := s.store.Save([]*domain.Vault{vaultIn, vaultOut}, nil); err != nil {
		return nil, err
	}

	metrics.SwapVolume.Add(float64(amountIn))
	metrics.LpFeesCollected.Add(float64(result.LpFeeAmount))
	metrics.ProtocolFeesCollected.Add(float64(result.ProtocolFeeAmount))
	s.log.Info().
		Str("mint_in", mintIn.String()).
		Str("mint_out", mintOut.String()).
		Uint64("amount_in", amountIn).
		Uint64("amount_out", result.NetAmountOut).
		Uint64("fee_bps", result.SwapFeeBps).
		Msg("swap applied")

	return &domain.SwapQuote{
		EffectiveFeeBps:   result.SwapFeeBps,
		RawAmountOut:      result.RawAmountOut,
		NetAmountOut:      result.NetAmountOut,
		LpFeeAmount:       result.LpFeeAmount,
		ProtocolFeeAmount: result.ProtocolFeeAmount,
	}, nil
}

// checkFreshness rejects observations from the future or older than the
// vault's configured maximum age.
func (s *Service) checkFreshness(vault *domain.Vault, obs domain.PriceObservation) error {
	now := s.now().Unix()
	if obs.PublishTime > now {
		return ErrStaleOracle
	}
	age := now - obs.PublishTime
	if age > int64(vault.MaxPriceAge) {
		s.log.Warn().
			Str("mint", vault.TokenMint.String()).
			Int64("age_seconds", age).
			Msg("price feed stale")
		return ErrStaleOracle
	}
	return nil
}

func errLabel(err error) string {
	switch err {
	case pricing.ErrFeeExceeds:
		return "fee_exceeds"
	case pricing.ErrInsufficientLiquidity:
		return "insufficient_liquidity"
	case pricing.ErrInvalidPrice:
		return "invalid_price"
	default:
		return "arithmetic"
	}
}
