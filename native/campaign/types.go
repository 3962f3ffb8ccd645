package campaign

import (
	"math/big"
)

// UnlockScheme identifies the vesting schedule bound to a contribution tier.
type UnlockScheme uint8

const (
	// SchemeImmediate unlocks the whole entitlement at unlock start.
	SchemeImmediate UnlockScheme = iota
	// SchemeGradual unlocks the entitlement along the milestone table.
	SchemeGradual
)

// Valid reports whether the scheme value is known.
func (s UnlockScheme) Valid() bool {
	switch s {
	case SchemeImmediate, SchemeGradual:
		return true
	default:
		return false
	}
}

func (s UnlockScheme) String() string {
	switch s {
	case SchemeImmediate:
		return "immediate"
	case SchemeGradual:
		return "gradual"
	default:
		return "unknown"
	}
}

// AllocationEntry is one named bucket of the campaign asset supply.
type AllocationEntry struct {
	Name         string `json:"name"`
	Amount       uint64 `json:"amount"`
	UnlockMonths uint8  `json:"unlockMonths"`
}

// Campaign is the aggregate record of one fundraising run.
type Campaign struct {
	ID          [32]byte          `json:"id"`
	Creator     [20]byte          `json:"creator"`
	Asset       string            `json:"asset"`
	Name        string            `json:"name"`
	Symbol      string            `json:"symbol"`
	TotalSupply uint64            `json:"totalSupply"`
	Allocations []AllocationEntry `json:"allocations"`

	FundingGoal uint64 `json:"fundingGoal"`
	Raised      uint64 `json:"raised"`
	ExpiryTime  int64  `json:"expiryTime"`
	CreatedAt   int64  `json:"createdAt"`
	// TokensPerCurrency is the asset/currency exchange rate scaled by RatePrecision.
	TokensPerCurrency *big.Int `json:"tokensPerCurrency"`

	Settled         bool  `json:"settled"`
	Success         bool  `json:"success"`
	FeesDistributed bool  `json:"feesDistributed"`
	UnlockStart     int64 `json:"unlockStart"`
	DevFundStart    int64 `json:"devFundStart"`

	AirdropMaxCount uint16 `json:"airdropMaxCount"`
	AirdropClaimed  uint16 `json:"airdropClaimed"`

	CreatorDirect        uint64 `json:"creatorDirect"`
	LiquidityCurrency    uint64 `json:"liquidityCurrency"`
	ProtocolFee          uint64 `json:"protocolFee"`
	DevFundCurrency      uint64 `json:"devFundCurrency"`
	LiquidityTokenAmount uint64 `json:"liquidityTokenAmount"`
	DevFundClaimed       uint64 `json:"devFundClaimed"`

	LiquidityPool      [20]byte `json:"liquidityPool"`
	CreatorFeePerMille uint64   `json:"creatorFeePerMille"`
}

// Clone returns a deep copy of the campaign.
func (c *Campaign) Clone() *Campaign {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Allocations != nil {
		clone.Allocations = append([]AllocationEntry(nil), c.Allocations...)
	}
	if c.TokensPerCurrency != nil {
		clone.TokensPerCurrency = new(big.Int).Set(c.TokensPerCurrency)
	} else {
		clone.TokensPerCurrency = big.NewInt(0)
	}
	return &clone
}

// Allocation finds the bucket with the supplied name.
func (c *Campaign) Allocation(name string) (AllocationEntry, bool) {
	if c == nil {
		return AllocationEntry{}, false
	}
	return findAllocation(c.Allocations, name)
}

// Expired reports whether the contribution window has closed at now.
func (c *Campaign) Expired(now int64) bool {
	return now >= c.ExpiryTime
}

// Contribution tracks one contributor's position in a campaign.
type Contribution struct {
	Campaign      [32]byte     `json:"campaign"`
	Contributor   [20]byte     `json:"contributor"`
	Amount        uint64       `json:"amount"`
	Refunded      bool         `json:"refunded"`
	ClaimedAmount uint64       `json:"claimedAmount"`
	Scheme        UnlockScheme `json:"scheme"`
	SupportedAt   int64        `json:"supportedAt"`
}

// Clone returns a copy of the contribution.
func (c *Contribution) Clone() *Contribution {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// AirdropClaim records whether a claimant already received their airdrop share.
type AirdropClaim struct {
	Campaign [32]byte `json:"campaign"`
	Claimant [20]byte `json:"claimant"`
	Claimed  bool     `json:"claimed"`
}

// Config is the process-wide singleton governing fee routing. Only Admin may
// update it and every update bumps Version.
type Config struct {
	Version         uint64   `json:"version"`
	Admin           [20]byte `json:"admin"`
	DeveloperWallet [20]byte `json:"developerWallet"`
}

// Clone returns a copy of the config record.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// CreateParams captures the caller-supplied campaign definition.
type CreateParams struct {
	Asset       string
	TotalSupply uint64
	Name        string
	Symbol      string
	FundingGoal uint64
	// Allocations is optional; empty selects the default plan.
	Allocations []AllocationEntry
	// AirdropMaxCount is optional; nil selects the configured default.
	AirdropMaxCount *uint16
	// ExpiryDuration in seconds is optional; nil selects the configured default.
	ExpiryDuration *int64
}

// Settlement summarises the outcome fixed by Settle.
type Settlement struct {
	Success              bool
	Raised               uint64
	CreatorDirect        uint64
	LiquidityCurrency    uint64
	ProtocolFee          uint64
	DevFundCurrency      uint64
	LiquidityTokenAmount uint64
	TokensPerCurrency    *big.Int
	SettledAt            int64
}

// FeeDistribution summarises a DistributeFees call.
type FeeDistribution struct {
	Total           uint64
	CreatorShare    uint64
	DeveloperShare  uint64
	DeveloperWallet [20]byte
}
