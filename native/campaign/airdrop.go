package campaign

import "launchpad/core/events"

// airdropShare returns the amount owed to the next claimant. The claimant who
// exhausts the airdrop receives whatever truncation left behind.
func airdropShare(bucket uint64, claimed, max uint16) (uint64, error) {
	if max == 0 {
		return 0, ErrInvalidAirdropMaxCount
	}
	per := bucket / uint64(max)
	if claimed+1 < max {
		return per, nil
	}
	paid, err := mulDiv(per, uint64(max-1), 1)
	if err != nil {
		return 0, err
	}
	return checkedSub(bucket, paid)
}

// ClaimAirdrop pays the caller an equal share of the airdrop bucket. Claims
// are accepted while the campaign is open and unsettled.
func (e *Engine) ClaimAirdrop(claimant [20]byte, id [32]byte) (uint64, error) {
	if err := e.guard(); err != nil {
		return 0, err
	}
	now := e.now()
	var amount uint64
	err := e.execute("claim_airdrop", func(tx State, buf *events.Buffer) error {
		c, err := loadCampaign(tx, id)
		if err != nil {
			return err
		}
		if c.Expired(now) {
			return ErrCampaignEnded
		}
		if c.Settled {
			return ErrCampaignSettled
		}
		record, ok, err := tx.AirdropClaimGet(id, claimant)
		if err != nil {
			return err
		}
		if ok && record != nil && record.Claimed {
			return ErrAlreadyClaimed
		}
		if c.AirdropClaimed >= c.AirdropMaxCount {
			return ErrAirdropExhausted
		}
		bucket, ok := c.Allocation(BucketAirdrop)
		if !ok {
			return ErrMissingRequiredBucket
		}
		share, err := airdropShare(bucket.Amount, c.AirdropClaimed, c.AirdropMaxCount)
		if err != nil {
			return err
		}
		if share == 0 {
			return ErrAirdropAmountTooLow
		}
		_, assetVault := VaultAddresses(id)
		if err := payout(tx, c.Asset, assetVault, claimant, share); err != nil {
			return err
		}
		if err := tx.AirdropClaimPut(&AirdropClaim{Campaign: id, Claimant: claimant, Claimed: true}); err != nil {
			return err
		}
		c.AirdropClaimed++
		if err := tx.CampaignPut(c); err != nil {
			return err
		}
		amount = share
		buf.Emit(events.CampaignPayout{
			Kind:      events.TypeCampaignAirdropClaimed,
			ID:        id,
			Recipient: claimant,
			Amount:    share,
			Timestamp: now,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	e.telemetry.RecordPayout("airdrop", amount)
	e.logger.Info("campaign airdrop claimed",
		"op", "claim_airdrop",
		"campaign", hexID(id),
		"caller", hexAddr(claimant),
		"amount", amount)
	return amount, nil
}
