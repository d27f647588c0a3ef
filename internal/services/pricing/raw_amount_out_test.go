package pricing

import (
	"testing"

	"github.com/hxuan190/vault-engine/internal/domain"
)

func obs(price int64, conf uint64, exponent int32) domain.PriceObservation {
	return domain.PriceObservation{Price: price, Conf: conf, Exponent: exponent, PublishTime: 1_700_000_000}
}

func TestRawAmountOutIdentity(t *testing.T) {
	// Same price, exponent, and decimals on both legs must round-trip exactly.
	o := obs(100_000_000, 0, -8)
	for _, amount := range []uint64{1, 999, 1_000_000, 1_000_000_000_000} {
		out, err := RawAmountOut(amount, 6, 6, o, o)
		if err != nil {
			t.Fatalf("amount %d: %v", amount, err)
		}
		if out != amount {
			t.Errorf("amount %d: out = %d, want identity", amount, out)
		}
	}
}

func TestRawAmountOutCrossAsset(t *testing.T) {
	tests := []struct {
		name        string
		amountIn    uint64
		decimalsIn  uint8
		decimalsOut uint8
		obsIn       domain.PriceObservation
		obsOut      domain.PriceObservation
		want        uint64
	}{
		{
			name:     "1 SOL at $180 into micro-USDC",
			amountIn: 1_000_000_000, decimalsIn: 9, decimalsOut: 6,
			obsIn:  obs(18_000_000_000, 0, -8),
			obsOut: obs(100_000_000, 0, -8),
			want:   180_000_000,
		},
		{
			name:     "3600 USDC at $180 per SOL into lamports",
			amountIn: 3_600_000_000, decimalsIn: 6, decimalsOut: 9,
			obsIn:  obs(100_000_000, 0, -8),
			obsOut: obs(18_000_000_000, 0, -8),
			want:   20_000_000_000,
		},
		{
			name:     "zero exponent legs",
			amountIn: 1_000, decimalsIn: 0, decimalsOut: 0,
			obsIn:  obs(90, 0, 0),
			obsOut: obs(110, 0, 0),
			want:   818,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := RawAmountOut(tt.amountIn, tt.decimalsIn, tt.decimalsOut, tt.obsIn, tt.obsOut)
			if err != nil {
				t.Fatalf("RawAmountOut: %v", err)
			}
			if out != tt.want {
				t.Errorf("out = %d, want %d", out, tt.want)
			}
		})
	}
}

func TestRawAmountOutInvalidPrice(t *testing.T) {
	good := obs(100_000_000, 0, -8)
	for _, bad := range []domain.PriceObservation{obs(0, 0, -8), obs(-1, 0, -8)} {
		if _, err := RawAmountOut(1_000, 6, 6, bad, good); err != ErrInvalidPrice {
			t.Errorf("in leg: err = %v, want ErrInvalidPrice", err)
		}
		if _, err := RawAmountOut(1_000, 6, 6, good, bad); err != ErrInvalidPrice {
			t.Errorf("out leg: err = %v, want ErrInvalidPrice", err)
		}
	}
}

func TestRawAmountOutBidAsk(t *testing.T) {
	// Input valued at bid (price-conf), output at ask (price+conf):
	// 1_000 * 90 / 110 = 818.
	out, err := RawAmountOutBidAsk(1_000, 0, 0, obs(100, 10, 0), obs(100, 10, 0))
	if err != nil {
		t.Fatalf("RawAmountOutBidAsk: %v", err)
	}
	if out != 818 {
		t.Errorf("out = %d, want 818", out)
	}

	// Zero confidence collapses the spread to the mid-price conversion.
	out, err = RawAmountOutBidAsk(1_000, 6, 6, obs(100_000_000, 0, -8), obs(100_000_000, 0, -8))
	if err != nil {
		t.Fatalf("RawAmountOutBidAsk: %v", err)
	}
	if out != 1_000 {
		t.Errorf("out = %d, want 1_000", out)
	}
}

func TestRawAmountOutBidAskFloorsBidAtOne(t *testing.T) {
	// Confidence wider than the price floors the bid at 1 instead of
	// underflowing.
	out, err := RawAmountOutBidAsk(1_000, 0, 0, obs(100, 200, 0), obs(100, 0, 0))
	if err != nil {
		t.Fatalf("RawAmountOutBidAsk: %v", err)
	}
	if out != 10 { // 1_000 * 1 / 100
		t.Errorf("out = %d, want 10", out)
	}
}
