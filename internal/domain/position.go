package domain

import (
	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
)

// Position is one liquidity provider's claim against one vault.
// LastCumulativeYield is the vault accumulator value at the provider's last
// checkpoint; it never runs ahead of the vault's accumulator.
type Position struct {
	Owner solana.PublicKey `json:"owner"`
	Vault solana.PublicKey `json:"vault"`

	StakedAmount        uint64       `json:"stakedAmount"`
	LastCumulativeYield *uint256.Int `json:"-"`
	PendingClaim        uint64       `json:"pendingClaim"`
}

// NewPosition returns an empty position for owner against the given vault.
func NewPosition(owner, vault solana.PublicKey) *Position {
	return &Position{
		Owner:               owner,
		Vault:               vault,
		LastCumulativeYield: uint256.NewInt(0),
	}
}

// Clone returns a deep copy, see Vault.Clone.
func (p *Position) Clone() *Position {
	out := *p
	out.LastCumulativeYield = new(uint256.Int).Set(p.LastCumulativeYield)
	return &out
}
