package campaign

import (
	"math"
	"math/big"
	"strings"

	"launchpad/core/events"
)

type createPlan struct {
	asset       string
	name        string
	symbol      string
	allocations []AllocationEntry
	airdropMax  uint16
	expiry      int64
}

// validateCreate checks the definition without touching state.
func (e *Engine) validateCreate(params CreateParams, now int64) (*createPlan, error) {
	p := e.params
	if params.TotalSupply == 0 {
		return nil, ErrInvalidTotalSupply
	}
	asset := strings.TrimSpace(params.Asset)
	if asset == "" {
		return nil, ErrInvalidAsset
	}
	name := strings.TrimSpace(params.Name)
	if name == "" || len(name) > p.MaxNameLength {
		return nil, ErrInvalidName
	}
	symbol := strings.TrimSpace(params.Symbol)
	if symbol == "" || len(symbol) > p.MaxSymbolLength {
		return nil, ErrInvalidSymbol
	}
	if params.FundingGoal == 0 {
		return nil, ErrInvalidFundingGoal
	}
	if len(params.Allocations) > p.MaxAllocations {
		return nil, ErrTooManyBuckets
	}

	duration := p.DefaultExpirySecs
	if params.ExpiryDuration != nil {
		duration = *params.ExpiryDuration
	}
	if duration <= 0 {
		return nil, ErrInvalidExpiry
	}
	if now > math.MaxInt64-duration {
		return nil, ErrArithmeticOverflow
	}
	expiry := now + duration

	var allocations []AllocationEntry
	if len(params.Allocations) == 0 {
		defaults, err := DefaultAllocations(params.TotalSupply)
		if err != nil {
			return nil, err
		}
		allocations = defaults
	} else {
		if err := ValidateAllocations(params.TotalSupply, params.Allocations, p.MaxAllocations, p.MaxNameLength); err != nil {
			return nil, err
		}
		allocations = cloneAllocations(params.Allocations)
	}

	airdropMax := p.DefaultAirdropMaxCount
	if params.AirdropMaxCount != nil {
		airdropMax = *params.AirdropMaxCount
	}
	if airdropMax == 0 {
		return nil, ErrInvalidAirdropMaxCount
	}
	airdrop, ok := findAllocation(allocations, BucketAirdrop)
	if !ok {
		return nil, ErrMissingRequiredBucket
	}
	if airdrop.Amount < uint64(airdropMax) {
		return nil, ErrAirdropAmountTooLow
	}

	return &createPlan{
		asset:       asset,
		name:        name,
		symbol:      symbol,
		allocations: allocations,
		airdropMax:  airdropMax,
		expiry:      expiry,
	}, nil
}

// Create validates the definition, escrows the full supply from the creator
// into the campaign asset vault and records the campaign.
func (e *Engine) Create(creator [20]byte, params CreateParams) ([32]byte, error) {
	var id [32]byte
	if err := e.guard(); err != nil {
		return id, err
	}
	if isZeroAddress(creator) {
		return id, ErrInvalidAddress
	}
	now := e.now()
	plan, err := e.validateCreate(params, now)
	if err != nil {
		e.logger.Debug("campaign create rejected", "op", "create", "error", err)
		return id, err
	}

	err = e.execute("create", func(tx State, buf *events.Buffer) error {
		if err := e.consumeQuota(tx, creator, now, 0); err != nil {
			return err
		}
		nonce, err := tx.CampaignNextNonce(creator)
		if err != nil {
			return err
		}
		id = DeriveCampaignID(creator, nonce)
		if _, exists, err := tx.CampaignGet(id); err != nil {
			return err
		} else if exists {
			return ErrCampaignExists
		}
		_, assetVault := VaultAddresses(id)
		if err := tx.Transfer(plan.asset, creator, assetVault, params.TotalSupply); err != nil {
			return err
		}
		record := &Campaign{
			ID:                 id,
			Creator:            creator,
			Asset:              plan.asset,
			Name:               plan.name,
			Symbol:             plan.symbol,
			TotalSupply:        params.TotalSupply,
			Allocations:        plan.allocations,
			FundingGoal:        params.FundingGoal,
			ExpiryTime:         plan.expiry,
			CreatedAt:          now,
			TokensPerCurrency:  big.NewInt(0),
			AirdropMaxCount:    plan.airdropMax,
			CreatorFeePerMille: e.params.CreatorFeePerMille,
		}
		if err := tx.CampaignPut(record); err != nil {
			return err
		}
		buckets := make([]events.CampaignBucket, 0, len(plan.allocations))
		for _, a := range plan.allocations {
			buckets = append(buckets, events.CampaignBucket{Name: a.Name, Amount: a.Amount, UnlockMonths: a.UnlockMonths})
		}
		buf.Emit(events.CampaignCreated{
			ID:          id,
			Creator:     creator,
			Asset:       plan.asset,
			Name:        plan.name,
			Symbol:      plan.symbol,
			TotalSupply: params.TotalSupply,
			FundingGoal: params.FundingGoal,
			ExpiryTime:  plan.expiry,
			Buckets:     buckets,
			Timestamp:   now,
		})
		return nil
	})
	if err != nil {
		return [32]byte{}, err
	}
	e.logger.Info("campaign created",
		"op", "create",
		"campaign", hexID(id),
		"creator", hexAddr(creator),
		"totalSupply", params.TotalSupply,
		"fundingGoal", params.FundingGoal,
		"expiry", plan.expiry)
	return id, nil
}
