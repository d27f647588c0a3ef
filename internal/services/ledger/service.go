// Package ledger applies the pricing core to persisted vault and position
// state. Every operation loads a snapshot, computes pure results, then commits
// the whole set of field updates through one store transaction; a failed
// computation commits nothing.
package ledger

import (
	"errors"
	"math/bits"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/vault-engine/internal/domain"
	"github.com/hxuan190/vault-engine/internal/services"
	"github.com/hxuan190/vault-engine/internal/services/pricing"
)

const LEDGER_SERVICE = "ledger-service"

var (
	ErrZeroAmount        = errors.New("amount must be greater than zero")
	ErrSameAsset         = errors.New("input and output assets must be different")
	ErrHighSlippage      = errors.New("slippage greater than permissible")
	ErrStaleOracle       = errors.New("oracle data too old")
	ErrInsufficientStake = errors.New("unstake amount exceeds staked balance")
	ErrInvalidFeeConfig  = errors.New("invalid fee configuration")
)

// Store is the persistence boundary. Save must apply all records atomically:
// either every vault and position in the call commits or none does.
type Store interface {
	Vault(mint solana.PublicKey) (*domain.Vault, error)
	Vaults() ([]*domain.Vault, error)
	Position(vault, owner solana.PublicKey) (*domain.Position, error)
	Save(vaults []*domain.Vault, positions []*domain.Position) error
}

type Service struct {
	store    Store
	strategy pricing.Strategy
	now      func() time.Time

	log *services.ServiceLogger
}

func (s *Service) ID() string {
	return LEDGER_SERVICE
}

func NewService(store Store, strategy pricing.Strategy) *Service {
	s := &Service{
		store:    store,
		strategy: strategy,
		now:      time.Now,
	}
	s.log = services.NewServiceLogger(s)
	return s
}

// WithClock overrides the wall clock used for oracle staleness decisions.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Strategy reports the configured pricing strategy.
func (s *Service) Strategy() pricing.Strategy {
	return s.strategy
}

// position returns the stored position or a fresh empty one on first stake.
func (s *Service) position(vault, owner solana.PublicKey) (*domain.Position, error) {
	p, err := s.store.Position(vault, owner)
	if errors.Is(err, domain.ErrPositionNotFound) {
		return domain.NewPosition(owner, vault), nil
	}
	return p, err
}

func addU64(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, pricing.ErrOverflowInAdd
	}
	return sum, nil
}

func subU64(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, pricing.ErrOverflowInSub
	}
	return diff, nil
}
