package state

import (
	"fmt"
	"math/big"

	"launchpad/native/campaign"
	"launchpad/native/common"
)

type storedAllocation struct {
	Name         string
	Amount       uint64
	UnlockMonths uint8
}

type storedCampaign struct {
	ID                   [32]byte
	Creator              [20]byte
	Asset                string
	Name                 string
	Symbol               string
	TotalSupply          uint64
	Allocations          []storedAllocation
	FundingGoal          uint64
	Raised               uint64
	ExpiryTime           *big.Int
	CreatedAt            *big.Int
	TokensPerCurrency    *big.Int
	Settled              bool
	Success              bool
	FeesDistributed      bool
	UnlockStart          *big.Int
	DevFundStart         *big.Int
	AirdropMaxCount      uint16
	AirdropClaimed       uint16
	CreatorDirect        uint64
	LiquidityCurrency    uint64
	ProtocolFee          uint64
	DevFundCurrency      uint64
	LiquidityTokenAmount uint64
	DevFundClaimed       uint64
	LiquidityPool        [20]byte
	CreatorFeePerMille   uint64
}

func timestamp(field string, v int64) (*big.Int, error) {
	if v < 0 {
		return nil, fmt.Errorf("campaign: negative %s %d", field, v)
	}
	return big.NewInt(v), nil
}

func unixSeconds(v *big.Int) int64 {
	if v == nil || !v.IsInt64() {
		return 0
	}
	return v.Int64()
}

func newStoredCampaign(c *campaign.Campaign) (*storedCampaign, error) {
	expiry, err := timestamp("expiry", c.ExpiryTime)
	if err != nil {
		return nil, err
	}
	created, err := timestamp("created at", c.CreatedAt)
	if err != nil {
		return nil, err
	}
	unlock, err := timestamp("unlock start", c.UnlockStart)
	if err != nil {
		return nil, err
	}
	devFund, err := timestamp("dev fund start", c.DevFundStart)
	if err != nil {
		return nil, err
	}
	rate := big.NewInt(0)
	if c.TokensPerCurrency != nil {
		if c.TokensPerCurrency.Sign() < 0 {
			return nil, fmt.Errorf("campaign: negative exchange rate")
		}
		rate = new(big.Int).Set(c.TokensPerCurrency)
	}
	allocations := make([]storedAllocation, len(c.Allocations))
	for i, entry := range c.Allocations {
		allocations[i] = storedAllocation{Name: entry.Name, Amount: entry.Amount, UnlockMonths: entry.UnlockMonths}
	}
	return &storedCampaign{
		ID:                   c.ID,
		Creator:              c.Creator,
		Asset:                c.Asset,
		Name:                 c.Name,
		Symbol:               c.Symbol,
		TotalSupply:          c.TotalSupply,
		Allocations:          allocations,
		FundingGoal:          c.FundingGoal,
		Raised:               c.Raised,
		ExpiryTime:           expiry,
		CreatedAt:            created,
		TokensPerCurrency:    rate,
		Settled:              c.Settled,
		Success:              c.Success,
		FeesDistributed:      c.FeesDistributed,
		UnlockStart:          unlock,
		DevFundStart:         devFund,
		AirdropMaxCount:      c.AirdropMaxCount,
		AirdropClaimed:       c.AirdropClaimed,
		CreatorDirect:        c.CreatorDirect,
		LiquidityCurrency:    c.LiquidityCurrency,
		ProtocolFee:          c.ProtocolFee,
		DevFundCurrency:      c.DevFundCurrency,
		LiquidityTokenAmount: c.LiquidityTokenAmount,
		DevFundClaimed:       c.DevFundClaimed,
		LiquidityPool:        c.LiquidityPool,
		CreatorFeePerMille:   c.CreatorFeePerMille,
	}, nil
}

func (s *storedCampaign) toCampaign() *campaign.Campaign {
	out := &campaign.Campaign{
		ID:                   s.ID,
		Creator:              s.Creator,
		Asset:                s.Asset,
		Name:                 s.Name,
		Symbol:               s.Symbol,
		TotalSupply:          s.TotalSupply,
		FundingGoal:          s.FundingGoal,
		Raised:               s.Raised,
		ExpiryTime:           unixSeconds(s.ExpiryTime),
		CreatedAt:            unixSeconds(s.CreatedAt),
		TokensPerCurrency:    big.NewInt(0),
		Settled:              s.Settled,
		Success:              s.Success,
		FeesDistributed:      s.FeesDistributed,
		UnlockStart:          unixSeconds(s.UnlockStart),
		DevFundStart:         unixSeconds(s.DevFundStart),
		AirdropMaxCount:      s.AirdropMaxCount,
		AirdropClaimed:       s.AirdropClaimed,
		CreatorDirect:        s.CreatorDirect,
		LiquidityCurrency:    s.LiquidityCurrency,
		ProtocolFee:          s.ProtocolFee,
		DevFundCurrency:      s.DevFundCurrency,
		LiquidityTokenAmount: s.LiquidityTokenAmount,
		DevFundClaimed:       s.DevFundClaimed,
		LiquidityPool:        s.LiquidityPool,
		CreatorFeePerMille:   s.CreatorFeePerMille,
	}
	if s.TokensPerCurrency != nil {
		out.TokensPerCurrency.Set(s.TokensPerCurrency)
	}
	if len(s.Allocations) > 0 {
		out.Allocations = make([]campaign.AllocationEntry, len(s.Allocations))
		for i, entry := range s.Allocations {
			out.Allocations[i] = campaign.AllocationEntry{Name: entry.Name, Amount: entry.Amount, UnlockMonths: entry.UnlockMonths}
		}
	}
	return out
}

type storedContribution struct {
	Campaign      [32]byte
	Contributor   [20]byte
	Amount        uint64
	Refunded      bool
	ClaimedAmount uint64
	Scheme        uint8
	SupportedAt   *big.Int
}

type storedConfig struct {
	Version         uint64
	Admin           [20]byte
	DeveloperWallet [20]byte
}

// CampaignGet loads a campaign record.
func (t *Txn) CampaignGet(id [32]byte) (*campaign.Campaign, bool, error) {
	var stored storedCampaign
	ok, err := t.KVGet(campaignKey(id), &stored)
	if err != nil || !ok {
		return nil, ok, err
	}
	return stored.toCampaign(), true, nil
}

// CampaignPut stores a campaign record under its ID.
func (t *Txn) CampaignPut(c *campaign.Campaign) error {
	if c == nil {
		return fmt.Errorf("campaign: nil record")
	}
	stored, err := newStoredCampaign(c)
	if err != nil {
		return err
	}
	return t.KVPut(campaignKey(c.ID), stored)
}

// CampaignNextNonce returns the creator's next campaign nonce and advances it.
func (t *Txn) CampaignNextNonce(creator [20]byte) (uint64, error) {
	nonce, err := t.CampaignNonce(creator)
	if err != nil {
		return 0, err
	}
	if err := t.KVPut(campaignNonceKey(creator), nonce+1); err != nil {
		return 0, err
	}
	return nonce, nil
}

// CampaignNonce returns how many campaigns the creator has opened.
func (t *Txn) CampaignNonce(creator [20]byte) (uint64, error) {
	var nonce uint64
	if _, err := t.KVGet(campaignNonceKey(creator), &nonce); err != nil {
		return 0, err
	}
	return nonce, nil
}

// ContributionGet loads a contributor's record.
func (t *Txn) ContributionGet(id [32]byte, contributor [20]byte) (*campaign.Contribution, bool, error) {
	var stored storedContribution
	ok, err := t.KVGet(contributionKey(id, contributor), &stored)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &campaign.Contribution{
		Campaign:      stored.Campaign,
		Contributor:   stored.Contributor,
		Amount:        stored.Amount,
		Refunded:      stored.Refunded,
		ClaimedAmount: stored.ClaimedAmount,
		Scheme:        campaign.UnlockScheme(stored.Scheme),
		SupportedAt:   unixSeconds(stored.SupportedAt),
	}, true, nil
}

// ContributionPut stores a contributor's record.
func (t *Txn) ContributionPut(c *campaign.Contribution) error {
	if c == nil {
		return fmt.Errorf("contribution: nil record")
	}
	supportedAt, err := timestamp("supported at", c.SupportedAt)
	if err != nil {
		return err
	}
	return t.KVPut(contributionKey(c.Campaign, c.Contributor), &storedContribution{
		Campaign:      c.Campaign,
		Contributor:   c.Contributor,
		Amount:        c.Amount,
		Refunded:      c.Refunded,
		ClaimedAmount: c.ClaimedAmount,
		Scheme:        uint8(c.Scheme),
		SupportedAt:   supportedAt,
	})
}

// AirdropClaimGet loads the airdrop marker of a claimant.
func (t *Txn) AirdropClaimGet(id [32]byte, claimant [20]byte) (*campaign.AirdropClaim, bool, error) {
	var rec campaign.AirdropClaim
	ok, err := t.KVGet(airdropKey(id, claimant), &rec)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &rec, true, nil
}

// AirdropClaimPut stores the airdrop marker of a claimant.
func (t *Txn) AirdropClaimPut(rec *campaign.AirdropClaim) error {
	if rec == nil {
		return fmt.Errorf("airdrop: nil record")
	}
	return t.KVPut(airdropKey(rec.Campaign, rec.Claimant), rec)
}

// ConfigGet loads the singleton config record.
func (t *Txn) ConfigGet() (*campaign.Config, bool, error) {
	var stored storedConfig
	ok, err := t.KVGet(configKeyBytes, &stored)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &campaign.Config{
		Version:         stored.Version,
		Admin:           stored.Admin,
		DeveloperWallet: stored.DeveloperWallet,
	}, true, nil
}

// ConfigPut replaces the singleton config record.
func (t *Txn) ConfigPut(cfg *campaign.Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil record")
	}
	return t.KVPut(configKeyBytes, &storedConfig{
		Version:         cfg.Version,
		Admin:           cfg.Admin,
		DeveloperWallet: cfg.DeveloperWallet,
	})
}

// QuotaGet loads the quota counters of addr within module.
func (t *Txn) QuotaGet(module string, addr [20]byte) (common.QuotaNow, error) {
	var usage common.QuotaNow
	if _, err := t.KVGet(quotaKey(module, addr), &usage); err != nil {
		return common.QuotaNow{}, err
	}
	return usage, nil
}

// QuotaPut stores the quota counters of addr within module.
func (t *Txn) QuotaPut(module string, addr [20]byte, usage common.QuotaNow) error {
	return t.KVPut(quotaKey(module, addr), &usage)
}

// CampaignStore adapts the manager to the campaign engine's Store contract.
type CampaignStore struct {
	manager *Manager
}

// CampaignStore returns the engine-facing store backed by the manager.
func (m *Manager) CampaignStore() CampaignStore {
	return CampaignStore{manager: m}
}

// Update implements campaign.Store.
func (s CampaignStore) Update(fn func(campaign.State) error) error {
	return s.manager.Update(func(txn *Txn) error { return fn(txn) })
}

// View implements campaign.Store.
func (s CampaignStore) View(fn func(campaign.State) error) error {
	return s.manager.View(func(txn *Txn) error { return fn(txn) })
}

// CampaignIDs lists the campaigns opened by creator in creation order.
func (m *Manager) CampaignIDs(creator [20]byte) ([][32]byte, error) {
	var ids [][32]byte
	err := m.View(func(txn *Txn) error {
		nonce, err := txn.CampaignNonce(creator)
		if err != nil {
			return err
		}
		ids = make([][32]byte, 0, nonce)
		for i := uint64(0); i < nonce; i++ {
			ids = append(ids, campaign.DeriveCampaignID(creator, i))
		}
		return nil
	})
	return ids, err
}

// Fund credits amount of denom to addr in its own transaction.
func (m *Manager) Fund(denom string, addr [20]byte, amount uint64) error {
	return m.Update(func(txn *Txn) error { return txn.Credit(denom, addr, amount) })
}

// BalanceOf reads a committed balance.
func (m *Manager) BalanceOf(denom string, addr [20]byte) (uint64, error) {
	var amount uint64
	err := m.View(func(txn *Txn) error {
		var err error
		amount, err = txn.Balance(denom, addr)
		return err
	})
	return amount, err
}

var (
	_ campaign.State = (*Txn)(nil)
	_ campaign.Store = CampaignStore{}
)
