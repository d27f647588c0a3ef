package oracle

import (
	"bytes"
	"encoding/base64"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/stretchr/testify/require"
)

func TestParsePriceFeedMessage(t *testing.T) {
	msg := PriceFeedMessage{
		Price:           18_000_000_000,
		Conf:            10_000_000,
		Exponent:        -8,
		PublishTime:     1_700_000_000,
		PrevPublishTime: 1_699_999_999,
		EmaPrice:        17_990_000_000,
		EmaConf:         9_500_000,
	}
	msg.FeedID[0] = 7

	var buf bytes.Buffer
	require.NoError(t, bin.NewBorshEncoder(&buf).Encode(msg))

	decoded, err := ParsePriceFeedMessage(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, msg, *decoded)

	obs := decoded.Observation()
	require.Equal(t, msg.Price, obs.Price)
	require.Equal(t, msg.Conf, obs.Conf)
	require.Equal(t, msg.Exponent, obs.Exponent)
	require.Equal(t, msg.PublishTime, obs.PublishTime)

	require.EqualValues(t, 7, decoded.FeedPubkey()[0])
}

func TestParsePriceFeedMessageBase64(t *testing.T) {
	msg := PriceFeedMessage{Price: 100_000_000, Conf: 10_000, Exponent: -8, PublishTime: 1_700_000_000}

	var buf bytes.Buffer
	require.NoError(t, bin.NewBorshEncoder(&buf).Encode(msg))

	decoded, err := ParsePriceFeedMessageBase64(base64.StdEncoding.EncodeToString(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, msg.Price, decoded.Price)

	_, err = ParsePriceFeedMessageBase64("not-base64!!")
	require.Error(t, err)

	_, err = ParsePriceFeedMessageBase64(base64.StdEncoding.EncodeToString([]byte{1, 2, 3}))
	require.Error(t, err)
}
