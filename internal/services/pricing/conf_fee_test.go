package pricing

import (
	"math"
	"testing"
)

func TestConfFeeBps(t *testing.T) {
	tests := []struct {
		name     string
		priceIn  int64
		confIn   uint64
		priceOut int64
		confOut  uint64
		want     uint64
	}{
		{
			name:    "zero confidence both legs",
			priceIn: 18_000_000_000, confIn: 0,
			priceOut: 100_000_000, confOut: 0,
			want: 0,
		},
		{
			name:    "typical SOL/USDC legs",
			priceIn: 18_000_000_000, confIn: 10_000_000, // $180, conf $0.10 -> 5 bps
			priceOut: 100_000_000, confOut: 10_000, // $1, conf $0.0001 -> 1 bps
			want: 6,
		},
		{
			name:    "wide interval on one leg",
			priceIn: 10_000_000_000, confIn: 15_000_000, // 15 bps
			priceOut: 100_000_000, confOut: 0,
			want: 15,
		},
		{
			name:    "confidence equal to price saturates the leg",
			priceIn: 100, confIn: 100,
			priceOut: 100, confOut: 0,
			want: MaxFeeBps,
		},
		{
			name:    "both legs wide saturate the total",
			priceIn: 100, confIn: 60,
			priceOut: 100, confOut: 60,
			want: MaxFeeBps,
		},
		{
			name:    "huge confidence saturates",
			priceIn: 1, confIn: math.MaxUint64,
			priceOut: 100_000_000, confOut: 0,
			want: MaxFeeBps,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfFeeBps(tt.priceIn, tt.confIn, tt.priceOut, tt.confOut)
			if got != tt.want {
				t.Errorf("ConfFeeBps = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfFeeBpsMonotonic(t *testing.T) {
	price := int64(100_000_000)
	prev := uint64(0)
	for conf := uint64(0); conf <= 200_000_000; conf += 1_000_000 {
		fee := ConfFeeBps(price, conf, price, 0)
		if fee < prev {
			t.Fatalf("fee decreased from %d to %d at conf %d", prev, fee, conf)
		}
		prev = fee
	}
	if prev != MaxFeeBps {
		t.Errorf("fee at 2x price confidence = %d, want saturation at %d", prev, MaxFeeBps)
	}
}
