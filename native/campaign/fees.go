package campaign

import (
	"launchpad/core/events"
)

const perMilleDenominator uint64 = 1000

// DistributeFees splits the protocol fee between the creator and the
// configured developer wallet. It succeeds once per campaign.
func (e *Engine) DistributeFees(caller [20]byte, id [32]byte) (*FeeDistribution, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	now := e.now()
	var result *FeeDistribution
	err := e.execute("distribute_fees", func(tx State, buf *events.Buffer) error {
		c, err := loadCampaign(tx, id)
		if err != nil {
			return err
		}
		if c.Creator != caller {
			return ErrInvalidCreator
		}
		if err := requireSuccess(c); err != nil {
			return err
		}
		if c.FeesDistributed {
			return ErrFeesAlreadyDistributed
		}
		if c.ProtocolFee == 0 {
			return ErrNoFeesToDistribute
		}
		cfg, ok, err := tx.ConfigGet()
		if err != nil {
			return err
		}
		if !ok || cfg == nil {
			return ErrConfigNotInitialized
		}
		currencyVault, _ := VaultAddresses(id)
		balance, err := tx.Balance(e.params.CurrencyDenom, currencyVault)
		if err != nil {
			return err
		}
		if balance < c.ProtocolFee {
			return ErrInsufficientVaultBalance
		}
		if c.CreatorFeePerMille > perMilleDenominator {
			return ErrInvalidFeePercentage
		}
		creatorShare, err := mulDiv(c.ProtocolFee, c.CreatorFeePerMille, perMilleDenominator)
		if err != nil {
			return err
		}
		developerShare, err := checkedSub(c.ProtocolFee, creatorShare)
		if err != nil {
			return err
		}
		if err := payout(tx, e.params.CurrencyDenom, currencyVault, c.Creator, creatorShare); err != nil {
			return err
		}
		if err := payout(tx, e.params.CurrencyDenom, currencyVault, cfg.DeveloperWallet, developerShare); err != nil {
			return err
		}
		c.FeesDistributed = true
		if err := tx.CampaignPut(c); err != nil {
			return err
		}
		result = &FeeDistribution{
			Total:           c.ProtocolFee,
			CreatorShare:    creatorShare,
			DeveloperShare:  developerShare,
			DeveloperWallet: cfg.DeveloperWallet,
		}
		buf.Emit(events.CampaignFeesDistributed{
			ID:              id,
			Trigger:         caller,
			Total:           c.ProtocolFee,
			CreatorShare:    creatorShare,
			DeveloperShare:  developerShare,
			DeveloperWallet: cfg.DeveloperWallet,
			Timestamp:       now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.telemetry.RecordPayout("fee_creator", result.CreatorShare)
	e.telemetry.RecordPayout("fee_developer", result.DeveloperShare)
	e.logger.Info("campaign fees distributed",
		"op", "distribute_fees",
		"campaign", hexID(id),
		"caller", hexAddr(caller),
		"total", result.Total,
		"creatorShare", result.CreatorShare,
		"developerShare", result.DeveloperShare)
	return result, nil
}
