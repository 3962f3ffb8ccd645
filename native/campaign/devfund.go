package campaign

import "launchpad/core/events"

// DevFundPreview describes the developer fund position of a campaign.
type DevFundPreview struct {
	Total     uint64
	Months    uint8
	Unlocked  uint64
	Claimed   uint64
	Claimable uint64
}

func (e *Engine) previewDevFund(c *Campaign, now int64) (DevFundPreview, error) {
	var preview DevFundPreview
	if err := requireSuccess(c); err != nil {
		return preview, err
	}
	if c.DevFundStart <= 0 || now < c.DevFundStart {
		return preview, ErrUnlockNotStarted
	}
	bucket, ok := c.Allocation(BucketDeveloper)
	if !ok {
		return preview, ErrMissingDeveloperAllocation
	}
	if c.DevFundCurrency == 0 {
		return preview, ErrNoDevFundAllocated
	}
	if bucket.UnlockMonths == 0 {
		return preview, ErrInvalidUnlockMonths
	}
	unlocked, err := monthlyUnlocked(c.DevFundCurrency, bucket.UnlockMonths, c.DevFundStart, now, e.params.SecondsPerMonth)
	if err != nil {
		return preview, err
	}
	preview.Total = c.DevFundCurrency
	preview.Months = bucket.UnlockMonths
	preview.Unlocked = unlocked
	preview.Claimed = c.DevFundClaimed
	if unlocked > c.DevFundClaimed {
		preview.Claimable = unlocked - c.DevFundClaimed
	}
	return preview, nil
}

// ClaimDevFund releases the developer fund to the creator month by month
// over the developer bucket's unlock months.
func (e *Engine) ClaimDevFund(caller [20]byte, id [32]byte) (uint64, error) {
	if err := e.guard(); err != nil {
		return 0, err
	}
	now := e.now()
	var amount uint64
	err := e.execute("claim_dev_fund", func(tx State, buf *events.Buffer) error {
		c, err := loadCampaign(tx, id)
		if err != nil {
			return err
		}
		if c.Creator != caller {
			return ErrInvalidCreator
		}
		preview, err := e.previewDevFund(c, now)
		if err != nil {
			return err
		}
		if preview.Claimable == 0 {
			return ErrNothingToClaim
		}
		claimed, err := checkedAdd(c.DevFundClaimed, preview.Claimable)
		if err != nil {
			return err
		}
		currencyVault, _ := VaultAddresses(id)
		if err := payout(tx, e.params.CurrencyDenom, currencyVault, c.Creator, preview.Claimable); err != nil {
			return err
		}
		c.DevFundClaimed = claimed
		if err := tx.CampaignPut(c); err != nil {
			return err
		}
		amount = preview.Claimable
		buf.Emit(events.CampaignPayout{
			Kind:      events.TypeCampaignDevFundClaimed,
			ID:        id,
			Recipient: c.Creator,
			Amount:    amount,
			Timestamp: now,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	e.telemetry.RecordPayout("dev_fund", amount)
	e.logger.Info("campaign dev fund claimed",
		"op", "claim_dev_fund",
		"campaign", hexID(id),
		"caller", hexAddr(caller),
		"amount", amount)
	return amount, nil
}
