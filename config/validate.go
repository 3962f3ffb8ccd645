package config

import (
	"fmt"
	"strings"
)

var (
	// MinTierRatio is the required multiple between the large and small tier.
	MinTierRatio = uint64(10)
	// MaxCreatorFeePerMille caps the creator share of the protocol fee.
	MaxCreatorFeePerMille = uint64(1000)
)

func ValidateConfig(g Global) error {
	c := g.Campaign
	if c.SmallTierAmount == 0 {
		return fmt.Errorf("campaign: small_tier_amount must be > 0")
	}
	if c.LargeTierAmount/MinTierRatio < c.SmallTierAmount {
		return fmt.Errorf("campaign: large_tier_amount < %d * small_tier_amount", MinTierRatio)
	}
	if c.RefundWindowSecs <= 0 {
		return fmt.Errorf("campaign: refund_window_secs must be > 0")
	}
	if c.DefaultExpirySecs <= 0 {
		return fmt.Errorf("campaign: default_expiry_secs must be > 0")
	}
	if c.SecondsPerMonth <= 0 {
		return fmt.Errorf("campaign: seconds_per_month must be > 0")
	}
	if c.DefaultAirdropMaxCount == 0 {
		return fmt.Errorf("campaign: default_airdrop_max_count must be > 0")
	}
	if c.MaxAllocations <= 0 || c.MaxNameLength <= 0 || c.MaxSymbolLength <= 0 {
		return fmt.Errorf("campaign: allocation and name limits must be > 0")
	}
	if c.CreatorFeePerMille > MaxCreatorFeePerMille {
		return fmt.Errorf("campaign: creator_fee_per_mille > %d", MaxCreatorFeePerMille)
	}
	q := g.Quotas.Campaign
	if (q.MaxRequestsPerEpoch > 0 || q.MaxAmountPerEpoch > 0) && q.EpochSeconds == 0 {
		return fmt.Errorf("quotas: campaign epoch_seconds must be > 0 when limits are set")
	}
	for i, b := range g.Balances {
		if strings.TrimSpace(b.Denom) == "" || strings.TrimSpace(b.Address) == "" {
			return fmt.Errorf("balances[%d]: denom and address are required", i)
		}
		if b.Amount == 0 {
			return fmt.Errorf("balances[%d]: amount must be > 0", i)
		}
	}
	return nil
}
