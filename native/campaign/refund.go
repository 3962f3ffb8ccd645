package campaign

import (
	"math"

	"launchpad/core/events"
)

// Refund returns a contribution to its contributor after a failed
// settlement, while the refund window after expiry is still open.
func (e *Engine) Refund(contributor [20]byte, id [32]byte) (uint64, error) {
	if err := e.guard(); err != nil {
		return 0, err
	}
	now := e.now()
	var amount uint64
	err := e.execute("refund", func(tx State, buf *events.Buffer) error {
		c, err := loadCampaign(tx, id)
		if err != nil {
			return err
		}
		if !c.Settled {
			return ErrNotSettled
		}
		if c.Success {
			return ErrNotRefundable
		}
		contribution, ok, err := tx.ContributionGet(id, contributor)
		if err != nil {
			return err
		}
		if !ok || contribution == nil {
			return ErrNoContribution
		}
		if contribution.Refunded {
			return ErrAlreadyRefunded
		}
		if c.ExpiryTime > math.MaxInt64-e.params.RefundWindowSecs {
			return ErrArithmeticOverflow
		}
		if now > c.ExpiryTime+e.params.RefundWindowSecs {
			return ErrRefundWindowClosed
		}
		if contribution.Amount == 0 {
			return ErrNoContribution
		}
		raised, err := checkedSub(c.Raised, contribution.Amount)
		if err != nil {
			return err
		}
		currencyVault, _ := VaultAddresses(id)
		if err := payout(tx, e.params.CurrencyDenom, currencyVault, contributor, contribution.Amount); err != nil {
			return err
		}
		amount = contribution.Amount
		contribution.Refunded = true
		contribution.Amount = 0
		if err := tx.ContributionPut(contribution); err != nil {
			return err
		}
		c.Raised = raised
		if err := tx.CampaignPut(c); err != nil {
			return err
		}
		buf.Emit(events.CampaignPayout{
			Kind:      events.TypeCampaignRefunded,
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
	e.telemetry.RecordPayout("refund", amount)
	e.logger.Info("campaign refunded",
		"op", "refund",
		"campaign", hexID(id),
		"caller", hexAddr(contributor),
		"amount", amount)
	return amount, nil
}
