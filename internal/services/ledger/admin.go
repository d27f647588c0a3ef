package ledger

import (
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/vault-engine/internal/domain"
	"github.com/hxuan190/vault-engine/internal/metrics"
)

// Fee-parameter ceilings enforced at vault creation and update.
const (
	maxBaseFeeBps     = 1_000 // 10%
	maxProtocolFeeBps = 500   // 5%
	maxExitFeeCapBps  = 1_000 // 10%
)

// VaultParams carries the operator-configured parameters of a vault.
type VaultParams struct {
	BaseFeeBps     uint64
	ProtocolFeeBps uint64
	MaxExitFeeBps  uint64
	MaxPriceAge    uint64
	PriceFeed      solana.PublicKey
}

func (p VaultParams) validate() error {
	if p.BaseFeeBps > maxBaseFeeBps ||
		p.ProtocolFeeBps > maxProtocolFeeBps ||
		p.MaxExitFeeBps > maxExitFeeCapBps {
		return ErrInvalidFeeConfig
	}
	if p.MaxPriceAge == 0 {
		return ErrInvalidFeeConfig
	}
	return nil
}

// InitVault creates a zero-balance vault for mint.
func (s *Service) InitVault(mint solana.PublicKey, decimals uint8, params VaultParams) (*domain.Vault, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	if _, err := s.store.Vault(mint); err == nil {
		return nil, domain.ErrVaultExists
	} else if !errors.Is(err, domain.ErrVaultNotFound) {
		return nil, err
	}

	vault := domain.NewVault(mint, decimals, params.PriceFeed,
		params.BaseFeeBps, params.ProtocolFeeBps, params.MaxExitFeeBps, params.MaxPriceAge)

	if err := s.store.Save([]*domain.Vault{vault}, nil); err != nil {
		return nil, err
	}

	metrics.VaultCount.Inc()
	s.log.Info().
		Str("mint", mint.String()).
		Uint64("base_fee_bps", params.BaseFeeBps).
		Uint64("max_price_age", params.MaxPriceAge).
		Msg("vault initialized")
	return vault, nil
}

// UpdateVault replaces a vault's operator-configured parameters; balances and
// yield state are untouched.
func (s *Service) UpdateVault(mint solana.PublicKey, params VaultParams) (*domain.Vault, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	stored, err := s.store.Vault(mint)
	if err != nil {
		return nil, err
	}

	vault := stored.Clone()
	vault.BaseFeeBps = params.BaseFeeBps
	vault.ProtocolFeeBps = params.ProtocolFeeBps
	vault.MaxExitFeeBps = params.MaxExitFeeBps
	vault.MaxPriceAge = params.MaxPriceAge
	vault.PriceFeed = params.PriceFeed

	if err := s.store.Save([]*domain.Vault{vault}, nil); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("mint", mint.String()).
		Uint64("base_fee_bps", params.BaseFeeBps).
		Msg("vault updated")
	return vault, nil
}

// CollectProtocolYield pays out the treasury-owed amount and debits it from
// the vault's liquidity.
func (s *Service) CollectProtocolYield(mint solana.PublicKey) (uint64, error) {
	stored, err := s.store.Vault(mint)
	if err != nil {
		return 0, err
	}

	vault := stored.Clone()
	amount := vault.ProtocolYield

	if vault.CurrentBalance, err = subU64(vault.CurrentBalance, amount); err != nil {
		return 0, err
	}
	vault.ProtocolYield = 0

	if err := s.store.Save([]*domain.Vault{vault}, nil); err != nil {
		return 0, err
	}

	s.log.Info().
		Str("mint", mint.String()).
		Uint64("amount", amount).
		Msg("protocol yield collected")
	return amount, nil
}

// Vault returns one vault snapshot.
func (s *Service) Vault(mint solana.PublicKey) (*domain.Vault, error) {
	return s.store.Vault(mint)
}

// Vaults returns all vault snapshots.
func (s *Service) Vaults() ([]*domain.Vault, error) {
	return s.store.Vaults()
}

// Position returns one position snapshot.
func (s *Service) Position(mint, owner solana.PublicKey) (*domain.Position, error) {
	return s.store.Position(mint, owner)
}
