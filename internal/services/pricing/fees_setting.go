package pricing

import (
	"math/big"

	"github.com/hxuan190/vault-engine/internal/domain"
)

var bigBpsDenom = big.NewInt(10_000)

// FeesSetting computes the base swap fee (in bps) from the liquidity
// imbalance between the input and output vaults.
//
// If the swap does not worsen the relative imbalance (deltaIn <= deltaOut),
// only the output vault's base fee applies. Otherwise the fee grows on a
// quadratic curve with the output vault's deviation from its initial
// balance, interpolating from the base fee toward 100%.
func FeesSetting(vaultIn, vaultOut *domain.Vault) uint64 {
	// An empty vault has no meaningful deviation; also avoids div by zero.
	if vaultIn.InitialBalance == 0 || vaultOut.InitialBalance == 0 {
		return vaultOut.BaseFeeBps
	}

	deltaIn := relativeDeltaBps(vaultIn.CurrentBalance, vaultIn.InitialBalance)
	deltaOut := relativeDeltaBps(vaultOut.CurrentBalance, vaultOut.InitialBalance)

	if deltaIn.Cmp(deltaOut) <= 0 {
		return vaultOut.BaseFeeBps
	}

	deviation := deltaOut.Abs(deltaOut)
	d := uint64(MaxFeeBps)
	if deviation.Cmp(bigBpsDenom) < 0 {
		d = deviation.Uint64()
	}

	// Quadratic: small deviations move the fee slowly, large ones
	// aggressively. Result stays in 0..10_000.
	curved := d * d / BpsDenom

	return vaultOut.BaseFeeBps + (MaxFeeBps-vaultOut.BaseFeeBps)*curved/BpsDenom
}

// relativeDeltaBps returns (current-initial)*10_000/initial as a signed
// wide integer; current and initial are u64 so the product needs more than
// 64 bits.
func relativeDeltaBps(current, initial uint64) *big.Int {
	delta := new(big.Int).SetUint64(current)
	delta.Sub(delta, new(big.Int).SetUint64(initial))
	delta.Mul(delta, bigBpsDenom)
	return delta.Quo(delta, new(big.Int).SetUint64(initial))
}
