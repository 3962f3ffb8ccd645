package campaign

// Campaign returns a copy of the stored campaign.
func (e *Engine) Campaign(id [32]byte) (*Campaign, error) {
	var out *Campaign
	err := e.view(func(tx State) error {
		c, err := loadCampaign(tx, id)
		if err != nil {
			return err
		}
		out = c.Clone()
		return nil
	})
	return out, err
}

// Contribution returns the contributor's record for the campaign.
func (e *Engine) Contribution(id [32]byte, contributor [20]byte) (*Contribution, error) {
	var out *Contribution
	err := e.view(func(tx State) error {
		if _, err := loadCampaign(tx, id); err != nil {
			return err
		}
		record, ok, err := tx.ContributionGet(id, contributor)
		if err != nil {
			return err
		}
		if !ok || record == nil {
			return ErrNoContribution
		}
		out = record.Clone()
		return nil
	})
	return out, err
}

// AirdropClaimed reports whether claimant already received an airdrop share.
func (e *Engine) AirdropClaimed(id [32]byte, claimant [20]byte) (bool, error) {
	var claimed bool
	err := e.view(func(tx State) error {
		if _, err := loadCampaign(tx, id); err != nil {
			return err
		}
		record, ok, err := tx.AirdropClaimGet(id, claimant)
		if err != nil {
			return err
		}
		claimed = ok && record != nil && record.Claimed
		return nil
	})
	return claimed, err
}

// Config returns the singleton config record.
func (e *Engine) Config() (*Config, error) {
	var out *Config
	err := e.view(func(tx State) error {
		cfg, ok, err := tx.ConfigGet()
		if err != nil {
			return err
		}
		if !ok || cfg == nil {
			return ErrConfigNotInitialized
		}
		out = cfg.Clone()
		return nil
	})
	return out, err
}

// ClaimableTokens previews ClaimTokens at the current time without paying.
func (e *Engine) ClaimableTokens(id [32]byte, contributor [20]byte) (TokenClaimPreview, error) {
	var preview TokenClaimPreview
	now := e.now()
	err := e.view(func(tx State) error {
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
		preview, err = previewTokens(c, contribution, now)
		return err
	})
	return preview, err
}

// ClaimableDevFund previews ClaimDevFund at the current time without paying.
func (e *Engine) ClaimableDevFund(id [32]byte) (DevFundPreview, error) {
	var preview DevFundPreview
	now := e.now()
	err := e.view(func(tx State) error {
		c, err := loadCampaign(tx, id)
		if err != nil {
			return err
		}
		preview, err = e.previewDevFund(c, now)
		return err
	})
	return preview, err
}

// VaultBalances reports the currency and asset held in escrow for a campaign.
func (e *Engine) VaultBalances(id [32]byte) (currency uint64, asset uint64, err error) {
	err = e.view(func(tx State) error {
		c, err := loadCampaign(tx, id)
		if err != nil {
			return err
		}
		currencyVault, assetVault := VaultAddresses(id)
		if currency, err = tx.Balance(e.params.CurrencyDenom, currencyVault); err != nil {
			return err
		}
		asset, err = tx.Balance(c.Asset, assetVault)
		return err
	})
	return currency, asset, err
}
