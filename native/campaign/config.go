package campaign

import "launchpad/core/events"

// ConfigUpdate lists the fields an admin may change. Nil leaves a field as is.
type ConfigUpdate struct {
	Admin           *[20]byte
	DeveloperWallet *[20]byte
}

// InitializeConfig creates the singleton config record. The caller becomes
// its admin.
func (e *Engine) InitializeConfig(caller [20]byte, developerWallet [20]byte) (*Config, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	if isZeroAddress(caller) || isZeroAddress(developerWallet) {
		return nil, ErrInvalidAddress
	}
	now := e.now()
	var cfg *Config
	err := e.execute("initialize_config", func(tx State, buf *events.Buffer) error {
		_, exists, err := tx.ConfigGet()
		if err != nil {
			return err
		}
		if exists {
			return ErrConfigAlreadyInitialized
		}
		cfg = &Config{Version: 1, Admin: caller, DeveloperWallet: developerWallet}
		if err := tx.ConfigPut(cfg); err != nil {
			return err
		}
		buf.Emit(events.CampaignConfigUpdated{
			Version:         cfg.Version,
			Admin:           cfg.Admin,
			DeveloperWallet: cfg.DeveloperWallet,
			Timestamp:       now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("campaign config initialized", "op", "initialize_config", "caller", hexAddr(caller))
	return cfg.Clone(), nil
}

// UpdateConfig applies an admin change and bumps the record version.
func (e *Engine) UpdateConfig(caller [20]byte, update ConfigUpdate) (*Config, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	now := e.now()
	var cfg *Config
	err := e.execute("update_config", func(tx State, buf *events.Buffer) error {
		current, ok, err := tx.ConfigGet()
		if err != nil {
			return err
		}
		if !ok || current == nil {
			return ErrConfigNotInitialized
		}
		if current.Admin != caller {
			return ErrUnauthorized
		}
		next := current.Clone()
		if update.Admin != nil {
			if isZeroAddress(*update.Admin) {
				return ErrInvalidAddress
			}
			next.Admin = *update.Admin
		}
		if update.DeveloperWallet != nil {
			if isZeroAddress(*update.DeveloperWallet) {
				return ErrInvalidAddress
			}
			next.DeveloperWallet = *update.DeveloperWallet
		}
		version, err := checkedAdd(next.Version, 1)
		if err != nil {
			return err
		}
		next.Version = version
		if err := tx.ConfigPut(next); err != nil {
			return err
		}
		cfg = next
		buf.Emit(events.CampaignConfigUpdated{
			Version:         next.Version,
			Admin:           next.Admin,
			DeveloperWallet: next.DeveloperWallet,
			Timestamp:       now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("campaign config updated",
		"op", "update_config",
		"caller", hexAddr(caller),
		"version", cfg.Version)
	return cfg.Clone(), nil
}
