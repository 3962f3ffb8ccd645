package campaign

import (
	"strings"

	"launchpad/config"
)

// Params holds the engine-wide constants applied to every campaign.
type Params struct {
	CurrencyDenom          string
	SmallTierAmount        uint64
	LargeTierAmount        uint64
	RefundWindowSecs       int64
	DefaultExpirySecs      int64
	SecondsPerMonth        int64
	DefaultAirdropMaxCount uint16
	MaxAllocations         int
	MaxNameLength          int
	MaxSymbolLength        int
	CreatorFeePerMille     uint64
}

// DefaultParams mirrors the defaults shipped with the node configuration.
func DefaultParams() Params {
	return ParamsFromConfig(config.DefaultGlobal().Campaign)
}

// ParamsFromConfig converts the configuration block into engine parameters.
func ParamsFromConfig(cfg config.Campaign) Params {
	return Params{
		CurrencyDenom:          strings.TrimSpace(cfg.CurrencyDenom),
		SmallTierAmount:        cfg.SmallTierAmount,
		LargeTierAmount:        cfg.LargeTierAmount,
		RefundWindowSecs:       cfg.RefundWindowSecs,
		DefaultExpirySecs:      cfg.DefaultExpirySecs,
		SecondsPerMonth:        cfg.SecondsPerMonth,
		DefaultAirdropMaxCount: cfg.DefaultAirdropMaxCount,
		MaxAllocations:         cfg.MaxAllocations,
		MaxNameLength:          cfg.MaxNameLength,
		MaxSymbolLength:        cfg.MaxSymbolLength,
		CreatorFeePerMille:     cfg.CreatorFeePerMille,
	}
}

// schemeFor maps an accepted support amount to its vesting scheme.
func (p Params) schemeFor(amount uint64) UnlockScheme {
	if amount == p.LargeTierAmount {
		return SchemeGradual
	}
	return SchemeImmediate
}

// acceptsAmount applies the tier gating rule: once the remaining goal drops
// below the large tier only the small tier is accepted.
func (p Params) acceptsAmount(goal, raised, amount uint64) bool {
	var remaining uint64
	if goal > raised {
		remaining = goal - raised
	}
	if remaining < p.LargeTierAmount {
		return amount == p.SmallTierAmount
	}
	return amount == p.SmallTierAmount || amount == p.LargeTierAmount
}
