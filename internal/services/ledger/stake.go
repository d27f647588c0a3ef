package ledger

import (
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/vault-engine/internal/domain"
	"github.com/hxuan190/vault-engine/internal/metrics"
	"github.com/hxuan190/vault-engine/internal/services/pricing"
)

// Stake deposits amount of principal into the vault for owner.
//
// The position is checkpointed first: yield earned under the old balance is
// folded into the pending claim and the checkpoint advances to the same
// accumulator snapshot, so the new principal never earns retroactively.
func (s *Service) Stake(mint, owner solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}

	stored, err := s.store.Vault(mint)
	if err != nil {
		return err
	}
	storedPos, err := s.position(mint, owner)
	if err != nil {
		return err
	}

	vault := stored.Clone()
	position := storedPos.Clone()

	acc := vault.CumulativeYieldPerShare

	earned := pricing.StakerYield(acc, position.StakedAmount, position.LastCumulativeYield)
	if position.PendingClaim, err = addU64(position.PendingClaim, earned); err != nil {
		return err
	}
	position.LastCumulativeYield.Set(acc)

	if position.StakedAmount, err = addU64(position.StakedAmount, amount); err != nil {
		return err
	}
	if vault.InitialBalance, err = addU64(vault.InitialBalance, amount); err != nil {
		return err
	}
	if vault.CurrentBalance, err = addU64(vault.CurrentBalance, amount); err != nil {
		return err
	}

	if err := s.store.Save([]*domain.Vault{vault}, []*domain.Position{position}); err != nil {
		return err
	}

	metrics.StakeVolume.Add(float64(amount))
	s.log.Info().
		Str("mint", mint.String()).
		Str("owner", owner.String()).
		Uint64("amount", amount).
		Msg("stake applied")
	return nil
}

// Claim pays out all yield owed to owner: the checkpoint delta plus any
// pending claim. Paying zero is an error so callers can distinguish a no-op.
func (s *Service) Claim(mint, owner solana.PublicKey) (uint64, error) {
	stored, err := s.store.Vault(mint)
	if err != nil {
		return 0, err
	}
	storedPos, err := s.store.Position(mint, owner)
	if err != nil {
		return 0, err
	}

	position := storedPos.Clone()
	acc := stored.CumulativeYieldPerShare

	earned := pricing.StakerYield(acc, position.StakedAmount, position.LastCumulativeYield)
	amount, err := addU64(earned, position.PendingClaim)
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, ErrZeroAmount
	}

	position.LastCumulativeYield.Set(acc)
	position.PendingClaim = 0

	if err := s.store.Save(nil, []*domain.Position{position}); err != nil {
		return 0, err
	}

	s.log.Info().
		Str("mint", mint.String()).
		Str("owner", owner.String()).
		Uint64("amount", amount).
		Msg("yield claimed")
	return amount, nil
}
