package campaign

import "launchpad/core/events"

// TokenClaimPreview describes a contributor's vesting position at a point in time.
type TokenClaimPreview struct {
	Entitled        uint64
	UnlockedPercent uint64
	Unlocked        uint64
	Claimed         uint64
	Claimable       uint64
}

func previewTokens(c *Campaign, contribution *Contribution, now int64) (TokenClaimPreview, error) {
	var preview TokenClaimPreview
	entitled, err := rewardFor(contribution.Amount, c.TokensPerCurrency)
	if err != nil {
		return preview, err
	}
	pct := UnlockedPercent(contribution.Scheme, c.UnlockStart, now)
	unlocked, err := percentOf(entitled, pct)
	if err != nil {
		return preview, err
	}
	preview.Entitled = entitled
	preview.UnlockedPercent = pct
	preview.Unlocked = unlocked
	preview.Claimed = contribution.ClaimedAmount
	if unlocked > contribution.ClaimedAmount {
		preview.Claimable = unlocked - contribution.ClaimedAmount
	}
	return preview, nil
}

func checkTokenClaim(c *Campaign, contribution *Contribution, found bool) error {
	if err := requireSuccess(c); err != nil {
		return err
	}
	if !found || contribution == nil || contribution.Amount == 0 {
		return ErrNoContribution
	}
	if c.UnlockStart <= 0 {
		return ErrUnlockNotStarted
	}
	return nil
}

// ClaimTokens pays the vested, not yet claimed part of the caller's reward.
func (e *Engine) ClaimTokens(contributor [20]byte, id [32]byte) (uint64, error) {
	if err := e.guard(); err != nil {
		return 0, err
	}
	now := e.now()
	var amount uint64
	err := e.execute("claim_tokens", func(tx State, buf *events.Buffer) error {
		c, err := loadCampaign(tx, id)
		if err != nil {
			return err
		}
		contribution, found, err := tx.ContributionGet(id, contributor)
		if err != nil {
			return err
		}
		if err := checkTokenClaim(c, contribution, found); err != nil {
			return err
		}
		preview, err := previewTokens(c, contribution, now)
		if err != nil {
			return err
		}
		if preview.Claimable == 0 {
			return ErrNothingToClaim
		}
		claimed, err := checkedAdd(contribution.ClaimedAmount, preview.Claimable)
		if err != nil {
			return err
		}
		_, assetVault := VaultAddresses(id)
		if err := payout(tx, c.Asset, assetVault, contributor, preview.Claimable); err != nil {
			return err
		}
		contribution.ClaimedAmount = claimed
		if err := tx.ContributionPut(contribution); err != nil {
			return err
		}
		amount = preview.Claimable
		buf.Emit(events.CampaignPayout{
			Kind:      events.TypeCampaignTokensClaimed,
			ID:        id,
			Recipient: contributor,
			Amount:    amount,
			Timestamp: now,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	e.telemetry.RecordPayout("tokens", amount)
	e.logger.Info("campaign tokens claimed",
		"op", "claim_tokens",
		"campaign", hexID(id),
		"caller", hexAddr(contributor),
		"amount", amount)
	return amount, nil
}
