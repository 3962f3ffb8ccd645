package rpc

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"launchpad/crypto"
	"launchpad/native/campaign"
	"launchpad/storage/eventstore"
)

type call struct {
	server *Server
	ctx    context.Context
	caller [20]byte
	params []json.RawMessage
}

type methodEntry struct {
	mutating bool
	fn       func(*call) (interface{}, *callError)
}

var methods map[string]methodEntry

func init() {
	methods = map[string]methodEntry{
		"campaign_create":              {mutating: true, fn: handleCreate},
		"campaign_support":             {mutating: true, fn: handleSupport},
		"campaign_settle":              {mutating: true, fn: handleSettle},
		"campaign_claimAirdrop":        {mutating: true, fn: handleClaimAirdrop},
		"campaign_claimTokens":         {mutating: true, fn: handleClaimTokens},
		"campaign_claimDevFund":        {mutating: true, fn: handleClaimDevFund},
		"campaign_distributeFees":      {mutating: true, fn: handleDistributeFees},
		"campaign_refund":              {mutating: true, fn: handleRefund},
		"campaign_initializeConfig":    {mutating: true, fn: handleInitializeConfig},
		"campaign_updateConfig":        {mutating: true, fn: handleUpdateConfig},
		"campaign_createLiquidityPool": {mutating: true, fn: handleCreateLiquidityPool},
		"campaign_get":                 {fn: handleGet},
		"campaign_contribution":        {fn: handleContribution},
		"campaign_airdropClaimed":      {fn: handleAirdropClaimed},
		"campaign_config":              {fn: handleConfig},
		"campaign_claimableTokens":     {fn: handleClaimableTokens},
		"campaign_claimableDevFund":    {fn: handleClaimableDevFund},
		"campaign_vaults":              {fn: handleVaults},
		"campaign_listByCreator":       {fn: handleListByCreator},
		"campaign_balance":             {fn: handleBalance},
		"campaign_events":              {fn: handleEvents},
	}
}

func (c *call) decode(dst interface{}) *callError {
	if len(c.params) != 1 {
		return invalidParams("exactly one parameter object expected")
	}
	if err := json.Unmarshal(c.params[0], dst); err != nil {
		return invalidParams(err.Error())
	}
	return nil
}

func parseCampaignID(value string) ([32]byte, error) {
	var id [32]byte
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return id, fmt.Errorf("campaign id must be hex: %w", err)
	}
	if len(raw) != len(id) {
		return id, fmt.Errorf("campaign id must be 32 bytes")
	}
	copy(id[:], raw)
	return id, nil
}

func parseAccount(value string) ([20]byte, error) {
	addr, err := crypto.DecodeAddress(value)
	if err != nil {
		return [20]byte{}, err
	}
	if addr.Prefix() != crypto.AccountPrefix {
		return [20]byte{}, fmt.Errorf("address must use the %s prefix", crypto.AccountPrefix)
	}
	return addr.Bytes20(), nil
}

func parseAmount(value string) (uint64, error) {
	amount, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount must be a base-10 unsigned integer")
	}
	return amount, nil
}

func formatID(id [32]byte) string {
	return "0x" + hex.EncodeToString(id[:])
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}

type idParams struct {
	ID string `json:"id"`
}

func (c *call) campaignID() ([32]byte, *callError) {
	var params idParams
	if err := c.decode(&params); err != nil {
		return [32]byte{}, err
	}
	id, err := parseCampaignID(params.ID)
	if err != nil {
		return id, invalidParams(err.Error())
	}
	return id, nil
}

type holderParams struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

func (c *call) campaignAndHolder() ([32]byte, [20]byte, *callError) {
	var params holderParams
	if err := c.decode(&params); err != nil {
		return [32]byte{}, [20]byte{}, err
	}
	id, err := parseCampaignID(params.ID)
	if err != nil {
		return id, [20]byte{}, invalidParams(err.Error())
	}
	holder, err := parseAccount(params.Address)
	if err != nil {
		return id, holder, invalidParams(err.Error())
	}
	return id, holder, nil
}

type allocationJSON struct {
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	UnlockMonths uint8  `json:"unlockMonths"`
}

type createParams struct {
	Asset           string           `json:"asset"`
	TotalSupply     string           `json:"totalSupply"`
	Name            string           `json:"name"`
	Symbol          string           `json:"symbol"`
	FundingGoal     string           `json:"fundingGoal"`
	Allocations     []allocationJSON `json:"allocations,omitempty"`
	AirdropMaxCount *uint16          `json:"airdropMaxCount,omitempty"`
	ExpiryDuration  *int64           `json:"expiryDuration,omitempty"`
}

type createResult struct {
	ID string `json:"id"`
}

func handleCreate(c *call) (interface{}, *callError) {
	var params createParams
	if err := c.decode(&params); err != nil {
		return nil, err
	}
	supply, err := parseAmount(params.TotalSupply)
	if err != nil {
		return nil, invalidParams("totalSupply: " + err.Error())
	}
	goal, err := parseAmount(params.FundingGoal)
	if err != nil {
		return nil, invalidParams("fundingGoal: " + err.Error())
	}
	allocations := make([]campaign.AllocationEntry, 0, len(params.Allocations))
	for _, entry := range params.Allocations {
		amount, err := parseAmount(entry.Amount)
		if err != nil {
			return nil, invalidParams("allocation " + entry.Name + ": " + err.Error())
		}
		allocations = append(allocations, campaign.AllocationEntry{Name: entry.Name, Amount: amount, UnlockMonths: entry.UnlockMonths})
	}
	id, err := c.server.engine.Create(c.caller, campaign.CreateParams{
		Asset:           params.Asset,
		TotalSupply:     supply,
		Name:            params.Name,
		Symbol:          params.Symbol,
		FundingGoal:     goal,
		Allocations:     allocations,
		AirdropMaxCount: params.AirdropMaxCount,
		ExpiryDuration:  params.ExpiryDuration,
	})
	if err != nil {
		return nil, engineError(err)
	}
	return createResult{ID: formatID(id)}, nil
}

type supportParams struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
}

func handleSupport(c *call) (interface{}, *callError) {
	var params supportParams
	if err := c.decode(&params); err != nil {
		return nil, err
	}
	id, err := parseCampaignID(params.ID)
	if err != nil {
		return nil, invalidParams(err.Error())
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		return nil, invalidParams(err.Error())
	}
	if err := c.server.engine.Support(c.caller, id, amount); err != nil {
		return nil, engineError(err)
	}
	contribution, err := c.server.engine.Contribution(id, c.caller)
	if err != nil {
		return nil, engineError(err)
	}
	return contributionToJSON(contribution), nil
}

type settlementJSON struct {
	Success              bool   `json:"success"`
	Raised               string `json:"raised"`
	CreatorDirect        string `json:"creatorDirect"`
	LiquidityCurrency    string `json:"liquidityCurrency"`
	LiquidityTokenAmount string `json:"liquidityTokenAmount"`
	DevFundCurrency      string `json:"devFundCurrency"`
	ProtocolFee          string `json:"protocolFee"`
	TokensPerCurrency    string `json:"tokensPerCurrency"`
	SettledAt            int64  `json:"settledAt"`
}

func handleSettle(c *call) (interface{}, *callError) {
	id, cerr := c.campaignID()
	if cerr != nil {
		return nil, cerr
	}
	s, err := c.server.engine.Settle(c.caller, id)
	if err != nil {
		return nil, engineError(err)
	}
	return settlementJSON{
		Success:              s.Success,
		Raised:               formatUint(s.Raised),
		CreatorDirect:        formatUint(s.CreatorDirect),
		LiquidityCurrency:    formatUint(s.LiquidityCurrency),
		LiquidityTokenAmount: formatUint(s.LiquidityTokenAmount),
		DevFundCurrency:      formatUint(s.DevFundCurrency),
		ProtocolFee:          formatUint(s.ProtocolFee),
		TokensPerCurrency:    s.TokensPerCurrency.String(),
		SettledAt:            s.SettledAt,
	}, nil
}

type amountResult struct {
	Amount string `json:"amount"`
}

func payoutHandler(op func(e *campaign.Engine, caller [20]byte, id [32]byte) (uint64, error)) func(*call) (interface{}, *callError) {
	return func(c *call) (interface{}, *callError) {
		id, cerr := c.campaignID()
		if cerr != nil {
			return nil, cerr
		}
		amount, err := op(c.server.engine, c.caller, id)
		if err != nil {
			return nil, engineError(err)
		}
		return amountResult{Amount: formatUint(amount)}, nil
	}
}

var (
	handleClaimAirdrop = payoutHandler((*campaign.Engine).ClaimAirdrop)
	handleClaimTokens  = payoutHandler((*campaign.Engine).ClaimTokens)
	handleClaimDevFund = payoutHandler((*campaign.Engine).ClaimDevFund)
	handleRefund       = payoutHandler((*campaign.Engine).Refund)
)

type feeJSON struct {
	Total           string `json:"total"`
	CreatorShare    string `json:"creatorShare"`
	DeveloperShare  string `json:"developerShare"`
	DeveloperWallet string `json:"developerWallet"`
}

func handleDistributeFees(c *call) (interface{}, *callError) {
	id, cerr := c.campaignID()
	if cerr != nil {
		return nil, cerr
	}
	result, err := c.server.engine.DistributeFees(c.caller, id)
	if err != nil {
		return nil, engineError(err)
	}
	return feeJSON{
		Total:           formatUint(result.Total),
		CreatorShare:    formatUint(result.CreatorShare),
		DeveloperShare:  formatUint(result.DeveloperShare),
		DeveloperWallet: crypto.FormatAccount(result.DeveloperWallet),
	}, nil
}

type configJSON struct {
	Version         uint64 `json:"version"`
	Admin           string `json:"admin"`
	DeveloperWallet string `json:"developerWallet"`
}

func configToJSON(cfg *campaign.Config) configJSON {
	return configJSON{
		Version:         cfg.Version,
		Admin:           crypto.FormatAccount(cfg.Admin),
		DeveloperWallet: crypto.FormatAccount(cfg.DeveloperWallet),
	}
}

type initConfigParams struct {
	DeveloperWallet string `json:"developerWallet"`
}

func handleInitializeConfig(c *call) (interface{}, *callError) {
	var params initConfigParams
	if err := c.decode(&params); err != nil {
		return nil, err
	}
	wallet, err := parseAccount(params.DeveloperWallet)
	if err != nil {
		return nil, invalidParams("developerWallet: " + err.Error())
	}
	cfg, err := c.server.engine.InitializeConfig(c.caller, wallet)
	if err != nil {
		return nil, engineError(err)
	}
	return configToJSON(cfg), nil
}

type updateConfigParams struct {
	Admin           *string `json:"admin,omitempty"`
	DeveloperWallet *string `json:"developerWallet,omitempty"`
}

func handleUpdateConfig(c *call) (interface{}, *callError) {
	var params updateConfigParams
	if err := c.decode(&params); err != nil {
		return nil, err
	}
	var update campaign.ConfigUpdate
	if params.Admin != nil {
		admin, err := parseAccount(*params.Admin)
		if err != nil {
			return nil, invalidParams("admin: " + err.Error())
		}
		update.Admin = &admin
	}
	if params.DeveloperWallet != nil {
		wallet, err := parseAccount(*params.DeveloperWallet)
		if err != nil {
			return nil, invalidParams("developerWallet: " + err.Error())
		}
		update.DeveloperWallet = &wallet
	}
	cfg, err := c.server.engine.UpdateConfig(c.caller, update)
	if err != nil {
		return nil, engineError(err)
	}
	return configToJSON(cfg), nil
}

type poolResult struct {
	Pool string `json:"pool"`
}

func handleCreateLiquidityPool(c *call) (interface{}, *callError) {
	id, cerr := c.campaignID()
	if cerr != nil {
		return nil, cerr
	}
	pool, err := c.server.engine.CreateLiquidityPool(c.caller, id)
	if err != nil {
		return nil, engineError(err)
	}
	return poolResult{Pool: crypto.FormatVault(pool)}, nil
}

type campaignJSON struct {
	ID                   string           `json:"id"`
	Creator              string           `json:"creator"`
	Asset                string           `json:"asset"`
	Name                 string           `json:"name"`
	Symbol               string           `json:"symbol"`
	TotalSupply          string           `json:"totalSupply"`
	Allocations          []allocationJSON `json:"allocations"`
	FundingGoal          string           `json:"fundingGoal"`
	Raised               string           `json:"raised"`
	ExpiryTime           int64            `json:"expiryTime"`
	CreatedAt            int64            `json:"createdAt"`
	TokensPerCurrency    string           `json:"tokensPerCurrency"`
	Settled              bool             `json:"settled"`
	Success              bool             `json:"success"`
	FeesDistributed      bool             `json:"feesDistributed"`
	UnlockStart          int64            `json:"unlockStart"`
	DevFundStart         int64            `json:"devFundStart"`
	AirdropMaxCount      uint16           `json:"airdropMaxCount"`
	AirdropClaimed       uint16           `json:"airdropClaimed"`
	CreatorDirect        string           `json:"creatorDirect"`
	LiquidityCurrency    string           `json:"liquidityCurrency"`
	ProtocolFee          string           `json:"protocolFee"`
	DevFundCurrency      string           `json:"devFundCurrency"`
	DevFundClaimed       string           `json:"devFundClaimed"`
	LiquidityTokenAmount string           `json:"liquidityTokenAmount"`
	LiquidityPool        *string          `json:"liquidityPool,omitempty"`
	CreatorFeePerMille   uint64           `json:"creatorFeePerMille"`
}

func campaignToJSON(c *campaign.Campaign) campaignJSON {
	allocations := make([]allocationJSON, 0, len(c.Allocations))
	for _, entry := range c.Allocations {
		allocations = append(allocations, allocationJSON{Name: entry.Name, Amount: formatUint(entry.Amount), UnlockMonths: entry.UnlockMonths})
	}
	out := campaignJSON{
		ID:                   formatID(c.ID),
		Creator:              crypto.FormatAccount(c.Creator),
		Asset:                c.Asset,
		Name:                 c.Name,
		Symbol:               c.Symbol,
		TotalSupply:          formatUint(c.TotalSupply),
		Allocations:          allocations,
		FundingGoal:          formatUint(c.FundingGoal),
		Raised:               formatUint(c.Raised),
		ExpiryTime:           c.ExpiryTime,
		CreatedAt:            c.CreatedAt,
		TokensPerCurrency:    "0",
		Settled:              c.Settled,
		Success:              c.Success,
		FeesDistributed:      c.FeesDistributed,
		UnlockStart:          c.UnlockStart,
		DevFundStart:         c.DevFundStart,
		AirdropMaxCount:      c.AirdropMaxCount,
		AirdropClaimed:       c.AirdropClaimed,
		CreatorDirect:        formatUint(c.CreatorDirect),
		LiquidityCurrency:    formatUint(c.LiquidityCurrency),
		ProtocolFee:          formatUint(c.ProtocolFee),
		DevFundCurrency:      formatUint(c.DevFundCurrency),
		DevFundClaimed:       formatUint(c.DevFundClaimed),
		LiquidityTokenAmount: formatUint(c.LiquidityTokenAmount),
		CreatorFeePerMille:   c.CreatorFeePerMille,
	}
	if c.TokensPerCurrency != nil {
		out.TokensPerCurrency = c.TokensPerCurrency.String()
	}
	if c.LiquidityPool != ([20]byte{}) {
		pool := crypto.FormatVault(c.LiquidityPool)
		out.LiquidityPool = &pool
	}
	return out
}

func handleGet(c *call) (interface{}, *callError) {
	id, cerr := c.campaignID()
	if cerr != nil {
		return nil, cerr
	}
	record, err := c.server.engine.Campaign(id)
	if err != nil {
		return nil, engineError(err)
	}
	return campaignToJSON(record), nil
}

type contributionJSON struct {
	Campaign      string `json:"campaign"`
	Contributor   string `json:"contributor"`
	Amount        string `json:"amount"`
	Refunded      bool   `json:"refunded"`
	ClaimedAmount string `json:"claimedAmount"`
	Scheme        string `json:"scheme"`
	SupportedAt   int64  `json:"supportedAt"`
}

func contributionToJSON(c *campaign.Contribution) contributionJSON {
	return contributionJSON{
		Campaign:      formatID(c.Campaign),
		Contributor:   crypto.FormatAccount(c.Contributor),
		Amount:        formatUint(c.Amount),
		Refunded:      c.Refunded,
		ClaimedAmount: formatUint(c.ClaimedAmount),
		Scheme:        c.Scheme.String(),
		SupportedAt:   c.SupportedAt,
	}
}

func handleContribution(c *call) (interface{}, *callError) {
	id, holder, cerr := c.campaignAndHolder()
	if cerr != nil {
		return nil, cerr
	}
	record, err := c.server.engine.Contribution(id, holder)
	if err != nil {
		return nil, engineError(err)
	}
	return contributionToJSON(record), nil
}

type claimedResult struct {
	Claimed bool `json:"claimed"`
}

func handleAirdropClaimed(c *call) (interface{}, *callError) {
	id, holder, cerr := c.campaignAndHolder()
	if cerr != nil {
		return nil, cerr
	}
	claimed, err := c.server.engine.AirdropClaimed(id, holder)
	if err != nil {
		return nil, engineError(err)
	}
	return claimedResult{Claimed: claimed}, nil
}

func handleConfig(c *call) (interface{}, *callError) {
	cfg, err := c.server.engine.Config()
	if err != nil {
		return nil, engineError(err)
	}
	return configToJSON(cfg), nil
}

type tokenPreviewJSON struct {
	Entitled        string `json:"entitled"`
	UnlockedPercent uint64 `json:"unlockedPercent"`
	Unlocked        string `json:"unlocked"`
	Claimed         string `json:"claimed"`
	Claimable       string `json:"claimable"`
}

func handleClaimableTokens(c *call) (interface{}, *callError) {
	id, holder, cerr := c.campaignAndHolder()
	if cerr != nil {
		return nil, cerr
	}
	preview, err := c.server.engine.ClaimableTokens(id, holder)
	if err != nil {
		return nil, engineError(err)
	}
	return tokenPreviewJSON{
		Entitled:        formatUint(preview.Entitled),
		UnlockedPercent: preview.UnlockedPercent,
		Unlocked:        formatUint(preview.Unlocked),
		Claimed:         formatUint(preview.Claimed),
		Claimable:       formatUint(preview.Claimable),
	}, nil
}

type devFundPreviewJSON struct {
	Total     string `json:"total"`
	Months    uint8  `json:"months"`
	Unlocked  string `json:"unlocked"`
	Claimed   string `json:"claimed"`
	Claimable string `json:"claimable"`
}

func handleClaimableDevFund(c *call) (interface{}, *callError) {
	id, cerr := c.campaignID()
	if cerr != nil {
		return nil, cerr
	}
	preview, err := c.server.engine.ClaimableDevFund(id)
	if err != nil {
		return nil, engineError(err)
	}
	return devFundPreviewJSON{
		Total:     formatUint(preview.Total),
		Months:    preview.Months,
		Unlocked:  formatUint(preview.Unlocked),
		Claimed:   formatUint(preview.Claimed),
		Claimable: formatUint(preview.Claimable),
	}, nil
}

type vaultsJSON struct {
	CurrencyVault   string `json:"currencyVault"`
	AssetVault      string `json:"assetVault"`
	CurrencyBalance string `json:"currencyBalance"`
	AssetBalance    string `json:"assetBalance"`
}

func handleVaults(c *call) (interface{}, *callError) {
	id, cerr := c.campaignID()
	if cerr != nil {
		return nil, cerr
	}
	currency, asset, err := c.server.engine.VaultBalances(id)
	if err != nil {
		return nil, engineError(err)
	}
	currencyVault, assetVault := campaign.VaultAddresses(id)
	return vaultsJSON{
		CurrencyVault:   crypto.FormatVault(currencyVault),
		AssetVault:      crypto.FormatVault(assetVault),
		CurrencyBalance: formatUint(currency),
		AssetBalance:    formatUint(asset),
	}, nil
}

type creatorParams struct {
	Creator string `json:"creator"`
}

type listResult struct {
	Campaigns []string `json:"campaigns"`
}

func handleListByCreator(c *call) (interface{}, *callError) {
	var params creatorParams
	if err := c.decode(&params); err != nil {
		return nil, err
	}
	creator, err := parseAccount(params.Creator)
	if err != nil {
		return nil, invalidParams("creator: " + err.Error())
	}
	ids, err := c.server.ledger.CampaignIDs(creator)
	if err != nil {
		return nil, engineError(err)
	}
	out := listResult{Campaigns: make([]string, 0, len(ids))}
	for _, id := range ids {
		out.Campaigns = append(out.Campaigns, formatID(id))
	}
	return out, nil
}

type balanceParams struct {
	Address string `json:"address"`
	Denom   string `json:"denom,omitempty"`
}

type balanceResult struct {
	Address string `json:"address"`
	Denom   string `json:"denom"`
	Balance string `json:"balance"`
}

func handleBalance(c *call) (interface{}, *callError) {
	var params balanceParams
	if err := c.decode(&params); err != nil {
		return nil, err
	}
	addr, err := parseAccount(params.Address)
	if err != nil {
		return nil, invalidParams("address: " + err.Error())
	}
	denom := strings.TrimSpace(params.Denom)
	if denom == "" {
		denom = c.server.engine.Params().CurrencyDenom
	}
	balance, err := c.server.ledger.BalanceOf(denom, addr)
	if err != nil {
		return nil, engineError(err)
	}
	return balanceResult{Address: crypto.FormatAccount(addr), Denom: denom, Balance: formatUint(balance)}, nil
}

type eventsParams struct {
	ID    string `json:"id,omitempty"`
	Type  string `json:"type,omitempty"`
	After uint64 `json:"after,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

type eventJSON struct {
	Seq        uint64            `json:"seq"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

func handleEvents(c *call) (interface{}, *callError) {
	if c.server.journal == nil {
		return nil, &callError{status: 503, err: &RPCError{Code: codeServerError, Message: "event journal not configured"}}
	}
	var params eventsParams
	if len(c.params) > 0 {
		if err := c.decode(&params); err != nil {
			return nil, err
		}
	}
	filter := eventstore.Filter{Type: params.Type, AfterID: params.After, Limit: params.Limit}
	if strings.TrimSpace(params.ID) != "" {
		id, err := parseCampaignID(params.ID)
		if err != nil {
			return nil, invalidParams(err.Error())
		}
		filter.Campaign = hex.EncodeToString(id[:])
	}
	records, err := c.server.journal.Query(c.ctx, filter)
	if err != nil {
		return nil, engineError(err)
	}
	out := make([]eventJSON, 0, len(records))
	for _, record := range records {
		evt, err := record.Event()
		if err != nil {
			return nil, engineError(err)
		}
		out = append(out, eventJSON{Seq: record.ID, Type: evt.Type, Attributes: evt.Attributes})
	}
	return out, nil
}
