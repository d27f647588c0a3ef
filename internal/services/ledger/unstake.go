package ledger

import (
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/vault-engine/internal/domain"
	"github.com/hxuan190/vault-engine/internal/metrics"
	"github.com/hxuan190/vault-engine/internal/services/pricing"
)

// Unstake withdraws amount of principal for owner, charging the health-based
// exit fee.
//
// The exiting party's principal is debited in full from InitialBalance, but
// only the net amount leaves CurrentBalance: the fee stays in the vault and is
// credited to the remaining providers through the yield accumulator. Exiting
// a drawn-down vault therefore pays the providers who stay.
func (s *Service) Unstake(mint, owner solana.PublicKey, amount uint64) (*domain.UnstakeReceipt, error) {
	if amount == 0 {
		return nil, ErrZeroAmount
	}

	stored, err := s.store.Vault(mint)
	if err != nil {
		return nil, err
	}
	storedPos, err := s.store.Position(mint, owner)
	if err != nil {
		return nil, err
	}
	if storedPos.StakedAmount < amount {
		return nil, ErrInsufficientStake
	}

	vault := stored.Clone()
	position := storedPos.Clone()

	exitFeeBps := pricing.ExitFeeBps(vault)
	payout := amount
	if exitFeeBps > 0 {
		payout, _, _, err = pricing.FeeAmount(amount, exitFeeBps, 0)
		if err != nil {
			return nil, err
		}
	}

	acc := vault.CumulativeYieldPerShare
	earned := pricing.StakerYield(acc, position.StakedAmount, position.LastCumulativeYield)
	if position.PendingClaim, err = addU64(position.PendingClaim, earned); err != nil {
		return nil, err
	}
	position.LastCumulativeYield.Set(acc)

	if position.StakedAmount, err = subU64(position.StakedAmount, amount); err != nil {
		return nil, err
	}

	// Principal shrinks by the full requested amount; liquidity only by the
	// net payout. The difference is the exit fee left behind.
	if vault.InitialBalance, err = subU64(vault.InitialBalance, amount); err != nil {
		return nil, err
	}
	if vault.CurrentBalance, err = subU64(vault.CurrentBalance, payout); err != nil {
		return nil, err
	}

	// InitialBalance is already decremented, so the exiting provider is
	// excluded from the distribution. With no providers left the fee is
	// simply absorbed by the vault.
	exitFee := amount - payout
	if exitFee > 0 && vault.InitialBalance > 0 {
		vault.CumulativeYieldPerShare, err = pricing.AddYieldPerShare(vault.CumulativeYieldPerShare, exitFee, vault.InitialBalance)
		if err != nil {
			return nil, err
		}
	}

	if err := s.store.Save([]*domain.Vault{vault}, []*domain.Position{position}); err != nil {
		return nil, err
	}

	metrics.UnstakeVolume.Add(float64(payout))
	s.log.Info().
		Str("mint", mint.String()).
		Str("owner", owner.String()).
		Uint64("requested", amount).
		Uint64("paid_out", payout).
		Uint64("exit_fee_bps", exitFeeBps).
		Msg("unstake applied")

	return &domain.UnstakeReceipt{
		Requested:  amount,
		PaidOut:    payout,
		ExitFeeBps: exitFeeBps,
		ExitFee:    exitFee,
	}, nil
}
