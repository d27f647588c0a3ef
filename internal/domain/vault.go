package domain

import (
	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
)

// Vault is one liquidity reservoir for a single asset. Balances are in the
// asset's smallest units. CumulativeYieldPerShare is a fixed-point accumulator
// (scaled by pricing.Scale) and only ever increases.
type Vault struct {
	BaseFeeBps     uint64 `json:"baseFeeBps"`
	ProtocolFeeBps uint64 `json:"protocolFeeBps"`
	MaxExitFeeBps  uint64 `json:"maxExitFeeBps"`

	TokenMint solana.PublicKey `json:"tokenMint"`
	Decimals  uint8            `json:"decimals"`

	PriceFeed   solana.PublicKey `json:"priceFeed"`
	MaxPriceAge uint64           `json:"maxPriceAge"` // seconds

	InitialBalance uint64 `json:"initialBalance"` // LP-contributed principal
	CurrentBalance uint64 `json:"currentBalance"` // actual liquidity incl. surplus/deficit

	CumulativeYieldPerShare *uint256.Int `json:"-"`
	ProtocolYield           uint64       `json:"protocolYield"`
}

// NewVault returns a zero-balance vault with the given fee configuration.
func NewVault(mint solana.PublicKey, decimals uint8, priceFeed solana.PublicKey, baseFeeBps, protocolFeeBps, maxExitFeeBps, maxPriceAge uint64) *Vault {
	return &Vault{
		BaseFeeBps:              baseFeeBps,
		ProtocolFeeBps:          protocolFeeBps,
		MaxExitFeeBps:           maxExitFeeBps,
		TokenMint:               mint,
		Decimals:                decimals,
		PriceFeed:               priceFeed,
		MaxPriceAge:             maxPriceAge,
		CumulativeYieldPerShare: uint256.NewInt(0),
	}
}

// Clone returns a deep copy. Ledger operations compute against clones and
// commit the originals only when the whole transition succeeds.
func (v *Vault) Clone() *Vault {
	out := *v
	out.CumulativeYieldPerShare = new(uint256.Int).Set(v.CumulativeYieldPerShare)
	return &out
}
