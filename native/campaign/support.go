package campaign

import "launchpad/core/events"

// Support records a single-shot contribution of one of the two tier amounts
// and escrows it into the campaign currency vault.
func (e *Engine) Support(contributor [20]byte, id [32]byte, amount uint64) error {
	if err := e.guard(); err != nil {
		return err
	}
	now := e.now()
	var scheme UnlockScheme
	err := e.execute("support", func(tx State, buf *events.Buffer) error {
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
		prior, ok, err := tx.ContributionGet(id, contributor)
		if err != nil {
			return err
		}
		if ok && prior != nil && (prior.Amount > 0 || prior.Refunded) {
			return ErrAlreadySupported
		}
		if !e.params.acceptsAmount(c.FundingGoal, c.Raised, amount) {
			return ErrInvalidSupportAmount
		}
		raised, err := checkedAdd(c.Raised, amount)
		if err != nil {
			return err
		}
		if err := e.consumeQuota(tx, contributor, now, amount); err != nil {
			return err
		}
		currencyVault, _ := VaultAddresses(id)
		if err := tx.Transfer(e.params.CurrencyDenom, contributor, currencyVault, amount); err != nil {
			return err
		}
		scheme = e.params.schemeFor(amount)
		record := &Contribution{
			Campaign:    id,
			Contributor: contributor,
			Amount:      amount,
			Scheme:      scheme,
			SupportedAt: now,
		}
		if err := tx.ContributionPut(record); err != nil {
			return err
		}
		c.Raised = raised
		if err := tx.CampaignPut(c); err != nil {
			return err
		}
		buf.Emit(events.CampaignSupported{
			ID:          id,
			Contributor: contributor,
			Amount:      amount,
			Scheme:      scheme.String(),
			Raised:      raised,
			Timestamp:   now,
		})
		return nil
	})
	if err != nil {
		return err
	}
	e.telemetry.RecordSupport(scheme.String(), amount)
	e.logger.Info("campaign supported",
		"op", "support",
		"campaign", hexID(id),
		"caller", hexAddr(contributor),
		"amount", amount,
		"scheme", scheme.String())
	return nil
}
