package campaign

import (
	"math/big"

	"launchpad/core/events"
)

// Settlement split of the raised currency. The creator receives the remainder.
const (
	settleLiquidityPercent uint64 = 70
	settleDevFundPercent   uint64 = 15
	settleProtocolPercent  uint64 = 5
)

// Settle fixes the campaign outcome once the contribution window closed. On
// success the raised currency is split, the exchange rate is computed and
// the creator share leaves escrow immediately. Failure moves no funds.
func (e *Engine) Settle(caller [20]byte, id [32]byte) (*Settlement, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	now := e.now()
	var result *Settlement
	err := e.execute("settle", func(tx State, buf *events.Buffer) error {
		c, err := loadCampaign(tx, id)
		if err != nil {
			return err
		}
		if c.Creator != caller {
			return ErrInvalidCreator
		}
		if c.Settled {
			return ErrAlreadySettled
		}
		if !c.Expired(now) {
			return ErrNotEnded
		}
		if c.Raised == 0 {
			return ErrNoFundsRaised
		}
		if c.FundingGoal == 0 {
			return ErrInvalidFundingGoal
		}

		c.Settled = true
		c.Success = c.Raised >= c.FundingGoal
		if c.Success {
			if err := e.settleSuccess(tx, c, now); err != nil {
				return err
			}
		}
		if err := tx.CampaignPut(c); err != nil {
			return err
		}
		result = &Settlement{
			Success:              c.Success,
			Raised:               c.Raised,
			CreatorDirect:        c.CreatorDirect,
			LiquidityCurrency:    c.LiquidityCurrency,
			ProtocolFee:          c.ProtocolFee,
			DevFundCurrency:      c.DevFundCurrency,
			LiquidityTokenAmount: c.LiquidityTokenAmount,
			TokensPerCurrency:    new(big.Int).Set(c.TokensPerCurrency),
			SettledAt:            now,
		}
		buf.Emit(events.CampaignSettled{
			ID:                   id,
			Success:              c.Success,
			Raised:               c.Raised,
			CreatorDirect:        c.CreatorDirect,
			LiquidityCurrency:    c.LiquidityCurrency,
			LiquidityTokenAmount: c.LiquidityTokenAmount,
			DevFundCurrency:      c.DevFundCurrency,
			ProtocolFee:          c.ProtocolFee,
			TokensPerCurrency:    new(big.Int).Set(c.TokensPerCurrency),
			Timestamp:            now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.telemetry.RecordSettlement(result.Success)
	e.telemetry.RecordPayout("creator_direct", result.CreatorDirect)
	e.logger.Info("campaign settled",
		"op", "settle",
		"campaign", hexID(id),
		"caller", hexAddr(caller),
		"success", result.Success,
		"raised", result.Raised,
		"creatorDirect", result.CreatorDirect,
		"liquidity", result.LiquidityCurrency,
		"devFund", result.DevFundCurrency,
		"protocolFee", result.ProtocolFee)
	return result, nil
}

func (e *Engine) settleSuccess(tx State, c *Campaign, now int64) error {
	shares, creatorDirect, err := splitWithRemainder(c.Raised,
		settleLiquidityPercent,
		settleDevFundPercent,
		settleProtocolPercent,
	)
	if err != nil {
		return err
	}
	reward, ok := c.Allocation(BucketCrowdfunding)
	if !ok {
		return ErrMissingRewardAllocation
	}
	if reward.Amount == 0 {
		return ErrInvalidAmount
	}
	rate, err := exchangeRate(reward.Amount, c.Raised)
	if err != nil {
		return err
	}
	liquidity, ok := c.Allocation(BucketLiquidity)
	if !ok {
		return ErrMissingRequiredBucket
	}

	c.UnlockStart = now
	c.DevFundStart = now
	c.LiquidityCurrency = shares[0]
	c.DevFundCurrency = shares[1]
	c.ProtocolFee = shares[2]
	c.CreatorDirect = creatorDirect
	c.TokensPerCurrency = rate
	c.LiquidityTokenAmount = liquidity.Amount

	currencyVault, _ := VaultAddresses(c.ID)
	return payout(tx, e.params.CurrencyDenom, currencyVault, c.Creator, creatorDirect)
}
