package campaign

import "launchpad/core/events"

// PoolCreator opens a liquidity pool seeded with the settled liquidity share.
type PoolCreator interface {
	CreatePool(campaign [32]byte, asset string, currencyAmount, assetAmount uint64) ([20]byte, error)
}

type unimplementedPools struct{}

func (unimplementedPools) CreatePool([32]byte, string, uint64, uint64) ([20]byte, error) {
	return [20]byte{}, ErrNotImplemented
}

// CreateLiquidityPool hands the liquidity share of a successful campaign to
// the configured PoolCreator. Settle never calls it.
func (e *Engine) CreateLiquidityPool(caller [20]byte, id [32]byte) ([20]byte, error) {
	var pool [20]byte
	if err := e.guard(); err != nil {
		return pool, err
	}
	now := e.now()
	var currencyAmount, assetAmount uint64
	err := e.execute("create_liquidity_pool", func(tx State, buf *events.Buffer) error {
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
		if !isZeroAddress(c.LiquidityPool) {
			return ErrPoolAlreadyCreated
		}
		created, err := e.pools.CreatePool(id, c.Asset, c.LiquidityCurrency, c.LiquidityTokenAmount)
		if err != nil {
			return err
		}
		c.LiquidityPool = created
		if err := tx.CampaignPut(c); err != nil {
			return err
		}
		pool = created
		currencyAmount, assetAmount = c.LiquidityCurrency, c.LiquidityTokenAmount
		buf.Emit(events.CampaignPoolCreated{
			ID:             id,
			Creator:        caller,
			Pool:           created,
			Asset:          c.Asset,
			CurrencyAmount: c.LiquidityCurrency,
			AssetAmount:    c.LiquidityTokenAmount,
			Timestamp:      now,
		})
		return nil
	})
	if err != nil {
		return [20]byte{}, err
	}
	e.telemetry.RecordPayout("liquidity_currency", currencyAmount)
	e.telemetry.RecordPayout("liquidity_tokens", assetAmount)
	e.logger.Info("campaign liquidity pool created",
		"op", "create_liquidity_pool",
		"campaign", hexID(id),
		"pool", hexAddr(pool))
	return pool, nil
}
