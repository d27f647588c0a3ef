package config

import "fmt"

// EngineConfig selects the deployment's pricing behavior.
//
// PricingStrategy is either "conf_fee" (mid-price conversion plus a
// confidence surcharge) or "bid_ask" (spread built into the conversion).
// The two are alternatives: combining them would charge oracle uncertainty
// twice.
type EngineConfig struct {
	PricingStrategy string
}

func (ec *EngineConfig) Load() error {
	ec.PricingStrategy = getEnvOrDefault("PRICING_STRATEGY", "conf_fee")
	return ec.Validate()
}

func (ec *EngineConfig) Validate() error {
	switch ec.PricingStrategy {
	case "conf_fee", "bid_ask":
		return nil
	default:
		return fmt.Errorf("invalid pricing strategy %q", ec.PricingStrategy)
	}
}
