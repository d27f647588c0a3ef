// Package oracle decodes Pyth-style price update payloads into the engine's
// observation type. Authenticity of the payload is the caller's concern; this
// adapter only deserializes and shapes the data.
package oracle

import (
	"encoding/base64"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/vault-engine/internal/domain"
)

// PriceFeedMessage mirrors the borsh layout of a Pyth price feed message.
type PriceFeedMessage struct {
	FeedID          [32]byte
	Price           int64
	Conf            uint64
	Exponent        int32
	PublishTime     int64
	PrevPublishTime int64
	EmaPrice        int64
	EmaConf         uint64
}

// ParsePriceFeedMessage borsh-decodes a raw price feed message.
func ParsePriceFeedMessage(data []byte) (*PriceFeedMessage, error) {
	var msg PriceFeedMessage
	decoder := bin.NewBorshDecoder(data)
	if err := decoder.Decode(&msg); err != nil {
		return nil, fmt.Errorf("failed to decode price feed message: %w", err)
	}
	return &msg, nil
}

// ParsePriceFeedMessageBase64 decodes the base64 form used on the HTTP API.
func ParsePriceFeedMessageBase64(payload string) (*PriceFeedMessage, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 price payload: %w", err)
	}
	return ParsePriceFeedMessage(raw)
}

// FeedPubkey returns the feed id as a public key.
func (m *PriceFeedMessage) FeedPubkey() solana.PublicKey {
	return solana.PublicKeyFromBytes(m.FeedID[:])
}

// Observation projects the message onto the engine's observation type.
func (m *PriceFeedMessage) Observation() domain.PriceObservation {
	return domain.PriceObservation{
		Price:       m.Price,
		Conf:        m.Conf,
		Exponent:    m.Exponent,
		PublishTime: m.PublishTime,
	}
}
