package config

import "strings"

// ModuleCampaign is the pause/quota key of the campaign engine.
const ModuleCampaign = "campaign"

// DefaultGlobal returns the engine parameters used when a file omits them.
func DefaultGlobal() Global {
	return Global{
		Campaign: Campaign{
			CurrencyDenom:          "native",
			SmallTierAmount:        50_000_000,
			LargeTierAmount:        500_000_000,
			RefundWindowSecs:       30 * 86_400,
			DefaultExpirySecs:      14 * 86_400,
			SecondsPerMonth:        30 * 86_400,
			DefaultAirdropMaxCount: 100,
			MaxAllocations:         10,
			MaxNameLength:          32,
			MaxSymbolLength:        10,
			CreatorFeePerMille:     1,
		},
	}
}

// IsPaused reports whether the named module is paused.
func (p Pauses) IsPaused(module string) bool {
	switch strings.ToLower(strings.TrimSpace(module)) {
	case ModuleCampaign:
		return p.Campaign
	default:
		return false
	}
}

// normalize fills zero values with defaults so partially specified files
// still produce a usable configuration. CreatorFeePerMille is defaulted by
// Load because zero is a legal value.
func (g *Global) normalize() {
	def := DefaultGlobal().Campaign
	c := &g.Campaign
	if strings.TrimSpace(c.CurrencyDenom) == "" {
		c.CurrencyDenom = def.CurrencyDenom
	}
	if c.SmallTierAmount == 0 {
		c.SmallTierAmount = def.SmallTierAmount
	}
	if c.LargeTierAmount == 0 {
		c.LargeTierAmount = def.LargeTierAmount
	}
	if c.RefundWindowSecs == 0 {
		c.RefundWindowSecs = def.RefundWindowSecs
	}
	if c.DefaultExpirySecs == 0 {
		c.DefaultExpirySecs = def.DefaultExpirySecs
	}
	if c.SecondsPerMonth == 0 {
		c.SecondsPerMonth = def.SecondsPerMonth
	}
	if c.DefaultAirdropMaxCount == 0 {
		c.DefaultAirdropMaxCount = def.DefaultAirdropMaxCount
	}
	if c.MaxAllocations == 0 {
		c.MaxAllocations = def.MaxAllocations
	}
	if c.MaxNameLength == 0 {
		c.MaxNameLength = def.MaxNameLength
	}
	if c.MaxSymbolLength == 0 {
		c.MaxSymbolLength = def.MaxSymbolLength
	}
}
