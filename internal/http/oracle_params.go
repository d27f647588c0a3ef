package http

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/vault-engine/internal/adapters/oracle"
	"github.com/hxuan190/vault-engine/internal/domain"
	"github.com/hxuan190/vault-engine/internal/services/ledger"
)

// parseObservation decodes a base64 borsh price update and checks that it
// belongs to the vault's configured feed.
func parseObservation(svc *ledger.Service, payload string, mint solana.PublicKey) (domain.PriceObservation, error) {
	msg, err := oracle.ParsePriceFeedMessageBase64(payload)
	if err != nil {
		return domain.PriceObservation{}, err
	}

	vault, err := svc.Vault(mint)
	if err != nil {
		return domain.PriceObservation{}, err
	}
	if !msg.FeedPubkey().Equals(vault.PriceFeed) {
		return domain.PriceObservation{}, fmt.Errorf("price update feed %s does not match vault feed %s",
			msg.FeedPubkey(), vault.PriceFeed)
	}
	return msg.Observation(), nil
}
