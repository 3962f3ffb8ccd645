package campaign

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"log/slog"
	"math/big"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"launchpad/core/events"
	"launchpad/crypto"
	"launchpad/native/common"
	"launchpad/observability/metrics"
)

// ModuleName keys the campaign engine in pause and quota configuration.
const ModuleName = "campaign"

// State is the transactional view a single engine operation works against.
// Every read observes earlier writes of the same transaction.
type State interface {
	CampaignGet(id [32]byte) (*Campaign, bool, error)
	CampaignPut(c *Campaign) error
	CampaignNextNonce(creator [20]byte) (uint64, error)
	ContributionGet(id [32]byte, contributor [20]byte) (*Contribution, bool, error)
	ContributionPut(c *Contribution) error
	AirdropClaimGet(id [32]byte, claimant [20]byte) (*AirdropClaim, bool, error)
	AirdropClaimPut(rec *AirdropClaim) error
	ConfigGet() (*Config, bool, error)
	ConfigPut(cfg *Config) error
	QuotaGet(module string, addr [20]byte) (common.QuotaNow, error)
	QuotaPut(module string, addr [20]byte, usage common.QuotaNow) error
	Balance(denom string, addr [20]byte) (uint64, error)
	// Transfer moves amount of denom between holders and fails with an error
	// wrapping ErrInsufficientFunds when from cannot cover it.
	Transfer(denom string, from, to [20]byte, amount uint64) error
}

// Store runs engine operations. Update applies every write of fn atomically
// or none of them when fn returns an error.
type Store interface {
	Update(fn func(State) error) error
	View(fn func(State) error) error
}

// Engine wires campaign business logic with persistence and event emission.
type Engine struct {
	store     Store
	emitter   events.Emitter
	nowFn     func() int64
	params    Params
	pauses    common.PauseView
	quota     common.Quota
	pools     PoolCreator
	logger    *slog.Logger
	telemetry *metrics.CampaignMetrics
}

// NewEngine constructs a campaign engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn: func() int64 {
			return time.Now().Unix()
		},
		params:    DefaultParams(),
		pools:     unimplementedPools{},
		logger:    slog.Default(),
		telemetry: metrics.Campaign(),
	}
}

// SetStore configures the state backend used by the engine.
func (e *Engine) SetStore(store Store) { e.store = store }

// SetEmitter configures the event emitter used by the engine.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used for deterministic testing.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetParams replaces the engine-wide parameters.
func (e *Engine) SetParams(params Params) { e.params = params }

// Params returns the active engine parameters.
func (e *Engine) Params() Params { return e.params }

// SetPauses wires the pause switch consulted by mutating operations.
func (e *Engine) SetPauses(p common.PauseView) { e.pauses = p }

// SetQuota configures the per-address quota applied to creation and support.
func (e *Engine) SetQuota(q common.Quota) { e.quota = q }

// SetPoolCreator plugs in the liquidity pool collaborator.
func (e *Engine) SetPoolCreator(p PoolCreator) {
	if p == nil {
		e.pools = unimplementedPools{}
		return
	}
	e.pools = p
}

// SetLogger configures the structured logger. Nil restores slog.Default.
func (e *Engine) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	e.logger = logger
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) guard() error {
	return common.Guard(e.pauses, ModuleName)
}

// execute runs fn inside one store transaction. Events staged on the buffer
// only reach the emitter once the transaction committed.
func (e *Engine) execute(op string, fn func(tx State, buf *events.Buffer) error) error {
	if e == nil || e.store == nil {
		return errNilState
	}
	started := time.Now()
	var buf events.Buffer
	err := e.store.Update(func(tx State) error {
		return fn(tx, &buf)
	})
	e.telemetry.ObserveOperation(op, time.Since(started), err)
	if err != nil {
		buf.Discard()
		e.logger.Debug("campaign operation rejected", "op", op, "error", err)
		return err
	}
	buf.Flush(e.emitter)
	return nil
}

func (e *Engine) view(fn func(tx State) error) error {
	if e == nil || e.store == nil {
		return errNilState
	}
	return e.store.View(fn)
}

// consumeQuota charges one request plus amount against the address quota.
func (e *Engine) consumeQuota(tx State, addr [20]byte, now int64, amount uint64) error {
	if !e.quota.Enabled() {
		return nil
	}
	usage, err := tx.QuotaGet(ModuleName, addr)
	if err != nil {
		return err
	}
	next, err := common.CheckQuota(e.quota, e.quota.EpochAt(now), usage, 1, amount)
	if err != nil {
		return err
	}
	return tx.QuotaPut(ModuleName, addr, next)
}

// DeriveCampaignID hashes the creator and its per-creator nonce.
func DeriveCampaignID(creator [20]byte, nonce uint64) [32]byte {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	var id [32]byte
	copy(id[:], ethcrypto.Keccak256([]byte("campaign"), creator[:], n[:]))
	return id
}

// VaultAddresses returns the currency and asset holding identities of a campaign.
func VaultAddresses(id [32]byte) (currency [20]byte, asset [20]byte) {
	currency = crypto.DeriveAddress("campaign-vault", id[:], []byte("currency"))
	asset = crypto.DeriveAddress("campaign-vault", id[:], []byte("asset"))
	return currency, asset
}

func loadCampaign(tx State, id [32]byte) (*Campaign, error) {
	c, ok, err := tx.CampaignGet(id)
	if err != nil {
		return nil, err
	}
	if !ok || c == nil {
		return nil, ErrCampaignNotFound
	}
	if c.TokensPerCurrency == nil {
		c.TokensPerCurrency = big.NewInt(0)
	}
	return c, nil
}

// payout debits an engine-owned vault.
func payout(tx State, denom string, vault, to [20]byte, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := tx.Transfer(denom, vault, to, amount); err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return ErrInsufficientVaultBalance
		}
		return err
	}
	return nil
}

func requireSuccess(c *Campaign) error {
	if !c.Settled {
		return ErrNotSettled
	}
	if !c.Success {
		return ErrCampaignFailed
	}
	return nil
}

func hexID(id [32]byte) string {
	return hex.EncodeToString(id[:])
}

func hexAddr(addr [20]byte) string {
	return "0x" + hex.EncodeToString(addr[:])
}

func isZeroAddress(addr [20]byte) bool {
	var zero [20]byte
	return addr == zero
}
