package pricing

import (
	"github.com/holiman/uint256"

	"github.com/hxuan190/vault-engine/internal/domain"
)

// ExitFeeBps computes the withdrawal-side fee from vault health.
//
//	health  = current/initial, clamped 0..100 (100 when there is no principal)
//	deficit = 100 - health
//	fee     = maxExitFeeBps * deficit^2 / 100^2
//
// The quadratic keeps small drawdowns nearly free and makes deep drawdowns
// expensive to exit, a soft bank-run deterrent. Examples with
// maxExitFeeBps=500: health 100% -> 0, 80% -> 20 bps, 50% -> 125 bps,
// 0% -> 500 bps.
func ExitFeeBps(vault *domain.Vault) uint64 {
	health := uint64(100)
	if vault.InitialBalance > 0 {
		h := new(uint256.Int).SetUint64(vault.CurrentBalance)
		h.Mul(h, u256Hundred)
		h.Div(h, uint256.NewInt(vault.InitialBalance))
		if h.IsUint64() {
			health = h.Uint64()
		}
	}

	var deficit uint64
	if health < 100 {
		deficit = 100 - health
	}

	curved := deficit * deficit / 100

	fee := new(uint256.Int).SetUint64(vault.MaxExitFeeBps)
	fee.Mul(fee, uint256.NewInt(curved))
	fee.Div(fee, u256Hundred)
	return fee.Uint64()
}
