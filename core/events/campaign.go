package events

import (
	"math/big"
	"strings"

	"launchpad/core/types"
)

const (
	TypeCampaignCreated         = "campaign.created"
	TypeCampaignSupported       = "campaign.supported"
	TypeCampaignSettled         = "campaign.settled"
	TypeCampaignAirdropClaimed  = "campaign.airdrop_claimed"
	TypeCampaignTokensClaimed   = "campaign.tokens_claimed"
	TypeCampaignDevFundClaimed  = "campaign.dev_fund_claimed"
	TypeCampaignFeesDistributed = "campaign.fees_distributed"
	TypeCampaignRefunded        = "campaign.refunded"
	TypeCampaignConfigUpdated   = "campaign.config_updated"
	TypeCampaignPoolCreated     = "campaign.pool_created"
)

// CampaignBucket mirrors one allocation entry for event consumers.
type CampaignBucket struct {
	Name         string
	Amount       uint64
	UnlockMonths uint8
}

type CampaignCreated struct {
	ID          [32]byte
	Creator     [20]byte
	Asset       string
	Name        string
	Symbol      string
	TotalSupply uint64
	FundingGoal uint64
	ExpiryTime  int64
	Buckets     []CampaignBucket
	Timestamp   int64
}

func (CampaignCreated) EventType() string { return TypeCampaignCreated }

func (e CampaignCreated) Event() *types.Event {
	names := make([]string, 0, len(e.Buckets))
	for _, b := range e.Buckets {
		names = append(names, b.Name+":"+uintToString(b.Amount)+":"+uintToString(uint64(b.UnlockMonths)))
	}
	return &types.Event{
		Type: TypeCampaignCreated,
		Attributes: map[string]string{
			"campaign":    hexID(e.ID),
			"creator":     account(e.Creator),
			"asset":       normalizeAsset(e.Asset),
			"name":        e.Name,
			"symbol":      e.Symbol,
			"totalSupply": uintToString(e.TotalSupply),
			"fundingGoal": uintToString(e.FundingGoal),
			"expiryTime":  intToString(e.ExpiryTime),
			"allocations": strings.Join(names, ","),
			"timestamp":   intToString(e.Timestamp),
		},
	}
}

type CampaignSupported struct {
	ID          [32]byte
	Contributor [20]byte
	Amount      uint64
	Scheme      string
	Raised      uint64
	Timestamp   int64
}

func (CampaignSupported) EventType() string { return TypeCampaignSupported }

func (e CampaignSupported) Event() *types.Event {
	return &types.Event{
		Type: TypeCampaignSupported,
		Attributes: map[string]string{
			"campaign":    hexID(e.ID),
			"contributor": account(e.Contributor),
			"amount":      uintToString(e.Amount),
			"scheme":      e.Scheme,
			"raised":      uintToString(e.Raised),
			"timestamp":   intToString(e.Timestamp),
		},
	}
}

type CampaignSettled struct {
	ID                   [32]byte
	Success              bool
	Raised               uint64
	CreatorDirect        uint64
	LiquidityCurrency    uint64
	LiquidityTokenAmount uint64
	DevFundCurrency      uint64
	ProtocolFee          uint64
	TokensPerCurrency    *big.Int
	Timestamp            int64
}

func (CampaignSettled) EventType() string { return TypeCampaignSettled }

func (e CampaignSettled) Event() *types.Event {
	return &types.Event{
		Type: TypeCampaignSettled,
		Attributes: map[string]string{
			"campaign":             hexID(e.ID),
			"success":              boolToString(e.Success),
			"raised":               uintToString(e.Raised),
			"creatorDirect":        uintToString(e.CreatorDirect),
			"liquidityCurrency":    uintToString(e.LiquidityCurrency),
			"liquidityTokenAmount": uintToString(e.LiquidityTokenAmount),
			"devFundCurrency":      uintToString(e.DevFundCurrency),
			"protocolFee":          uintToString(e.ProtocolFee),
			"tokensPerCurrency":    formatAmount(e.TokensPerCurrency),
			"timestamp":            intToString(e.Timestamp),
		},
	}
}

// CampaignPayout covers the single-recipient claim and refund events.
type CampaignPayout struct {
	Kind      string
	ID        [32]byte
	Recipient [20]byte
	Amount    uint64
	Timestamp int64
}

func (e CampaignPayout) EventType() string { return e.Kind }

func (e CampaignPayout) Event() *types.Event {
	return &types.Event{
		Type: e.Kind,
		Attributes: map[string]string{
			"campaign":  hexID(e.ID),
			"recipient": account(e.Recipient),
			"amount":    uintToString(e.Amount),
			"timestamp": intToString(e.Timestamp),
		},
	}
}

type CampaignFeesDistributed struct {
	ID              [32]byte
	Trigger         [20]byte
	Total           uint64
	CreatorShare    uint64
	DeveloperShare  uint64
	DeveloperWallet [20]byte
	Timestamp       int64
}

func (CampaignFeesDistributed) EventType() string { return TypeCampaignFeesDistributed }

func (e CampaignFeesDistributed) Event() *types.Event {
	return &types.Event{
		Type: TypeCampaignFeesDistributed,
		Attributes: map[string]string{
			"campaign":        hexID(e.ID),
			"trigger":         account(e.Trigger),
			"total":           uintToString(e.Total),
			"creatorShare":    uintToString(e.CreatorShare),
			"developerShare":  uintToString(e.DeveloperShare),
			"developerWallet": account(e.DeveloperWallet),
			"timestamp":       intToString(e.Timestamp),
		},
	}
}

type CampaignConfigUpdated struct {
	Version         uint64
	Admin           [20]byte
	DeveloperWallet [20]byte
	Timestamp       int64
}

func (CampaignConfigUpdated) EventType() string { return TypeCampaignConfigUpdated }

func (e CampaignConfigUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeCampaignConfigUpdated,
		Attributes: map[string]string{
			"version":         uintToString(e.Version),
			"admin":           account(e.Admin),
			"developerWallet": account(e.DeveloperWallet),
			"timestamp":       intToString(e.Timestamp),
		},
	}
}

// CampaignPoolCreated records the liquidity share handed to a new pool.
type CampaignPoolCreated struct {
	ID             [32]byte
	Creator        [20]byte
	Pool           [20]byte
	Asset          string
	CurrencyAmount uint64
	AssetAmount    uint64
	Timestamp      int64
}

func (CampaignPoolCreated) EventType() string { return TypeCampaignPoolCreated }

func (e CampaignPoolCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeCampaignPoolCreated,
		Attributes: map[string]string{
			"campaign":       hexID(e.ID),
			"creator":        account(e.Creator),
			"pool":           account(e.Pool),
			"asset":          normalizeAsset(e.Asset),
			"currencyAmount": uintToString(e.CurrencyAmount),
			"assetAmount":    uintToString(e.AssetAmount),
			"timestamp":      intToString(e.Timestamp),
		},
	}
}
