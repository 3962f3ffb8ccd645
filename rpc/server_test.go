package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"launchpad/core/events"
	"launchpad/core/state"
	"launchpad/crypto"
	"launchpad/native/campaign"
	"launchpad/storage"
	"launchpad/storage/eventstore"
)

const (
	testSecret = "rpc-test-secret"
	testIssuer = "launchpad-test"
	testStart  = int64(1_700_000_000)
)

func account(b byte) [20]byte {
	var out [20]byte
	out[0] = 0x11
	out[19] = b
	return out
}

var (
	creator = account(1)
	alice   = account(2)
	bob     = account(3)
)

type harness struct {
	t       *testing.T
	handler http.Handler
	engine  *campaign.Engine
	manager *state.Manager
	journal *eventstore.Store
	now     int64
}

func newHarness(t *testing.T, perMinute int) *harness {
	t.Helper()
	h := &harness{t: t, now: testStart}
	h.manager = state.NewManager(storage.NewMemDB())

	journal, err := eventstore.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = journal.Close() })
	h.journal = journal

	h.engine = campaign.NewEngine()
	h.engine.SetStore(h.manager.CampaignStore())
	h.engine.SetEmitter(journal)
	h.engine.SetNowFunc(func() int64 { return h.now })

	params := h.engine.Params()
	require.NoError(t, h.manager.Fund("MEME", creator, 1_000_000_000))
	require.NoError(t, h.manager.Fund(params.CurrencyDenom, alice, params.LargeTierAmount))
	require.NoError(t, h.manager.Fund(params.CurrencyDenom, bob, params.SmallTierAmount))

	server := NewServer(h.engine, h.manager, journal, Config{
		JWTSecret:          testSecret,
		JWTIssuer:          testIssuer,
		RateLimitPerMinute: perMinute,
	}, nil)
	h.handler = server.Router()
	return h
}

func (h *harness) token(caller [20]byte) string {
	token, err := IssueToken(testSecret, testIssuer, caller, time.Hour)
	require.NoError(h.t, err)
	return token
}

type rawResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

func (h *harness) do(token, method string, params interface{}, headers map[string]string) (int, rawResponse) {
	h.t.Helper()
	envelope := map[string]interface{}{"jsonrpc": "2.0", "id": 1, "method": method}
	if params != nil {
		envelope["params"] = []interface{}{params}
	}
	body, err := json.Marshal(envelope)
	require.NoError(h.t, err)
	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	var resp rawResponse
	require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func (h *harness) ok(token, method string, params interface{}, out interface{}) {
	h.t.Helper()
	status, resp := h.do(token, method, params, nil)
	require.Nil(h.t, resp.Error, "%s failed: %+v", method, resp.Error)
	require.Equal(h.t, http.StatusOK, status)
	if out != nil {
		require.NoError(h.t, json.Unmarshal(resp.Result, out))
	}
}

func (h *harness) create() string {
	var result createResult
	h.ok(h.token(creator), "campaign_create", map[string]interface{}{
		"asset":       "MEME",
		"totalSupply": "1000000000",
		"name":        "Meme Token",
		"symbol":      "MEME",
		"fundingGoal": "500000000",
	}, &result)
	require.True(h.t, strings.HasPrefix(result.ID, "0x"))
	return result.ID
}

func TestHealthzAndMetrics(t *testing.T) {
	h := newHarness(t, 0)

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(headerRequestID))

	h.ok("", "campaign_listByCreator", map[string]string{"creator": crypto.FormatAccount(creator)}, nil)

	rec = httptest.NewRecorder()
	h.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "launchpad_rpc_requests_total")
}

func TestRequestIDEchoed(t *testing.T) {
	h := newHarness(t, 0)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(headerRequestID, "req-42")
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	require.Equal(t, "req-42", rec.Header().Get(headerRequestID))
}

func TestMutationRequiresToken(t *testing.T) {
	h := newHarness(t, 0)
	status, resp := h.do("", "campaign_create", map[string]string{"asset": "MEME"}, nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, resp.Error)
	require.Equal(t, codeUnauthorized, resp.Error.Code)

	status, resp = h.do("not-a-jwt", "campaign_get", map[string]string{"id": "0x00"}, nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, codeUnauthorized, resp.Error.Code)

	forged, err := IssueToken("other-secret", testIssuer, creator, time.Hour)
	require.NoError(t, err)
	status, _ = h.do(forged, "campaign_config", nil, nil)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestUnknownMethodAndMalformedEnvelope(t *testing.T) {
	h := newHarness(t, 0)
	status, resp := h.do("", "campaign_nope", nil, nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, codeMethodNotFound, resp.Error.Code)

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader("{")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var parsed rawResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	require.Equal(t, codeParseError, parsed.Error.Code)
}

func TestCreateSupportAndQuery(t *testing.T) {
	h := newHarness(t, 0)
	id := h.create()
	params := h.engine.Params()

	var contribution contributionJSON
	h.ok(h.token(alice), "campaign_support", map[string]string{
		"id":     id,
		"amount": fmt.Sprint(params.LargeTierAmount),
	}, &contribution)
	require.Equal(t, "gradual", contribution.Scheme)
	require.Equal(t, crypto.FormatAccount(alice), contribution.Contributor)

	var record campaignJSON
	h.ok("", "campaign_get", map[string]string{"id": id}, &record)
	require.Equal(t, fmt.Sprint(params.LargeTierAmount), record.Raised)
	require.Equal(t, crypto.FormatAccount(creator), record.Creator)
	require.False(t, record.Settled)
	require.Nil(t, record.LiquidityPool)

	var vaults vaultsJSON
	h.ok("", "campaign_vaults", map[string]string{"id": id}, &vaults)
	require.Equal(t, fmt.Sprint(params.LargeTierAmount), vaults.CurrencyBalance)
	require.Equal(t, "1000000000", vaults.AssetBalance)
	require.True(t, strings.HasPrefix(vaults.AssetVault, string(crypto.VaultPrefix)))

	var listed listResult
	h.ok("", "campaign_listByCreator", map[string]string{"creator": crypto.FormatAccount(creator)}, &listed)
	require.Equal(t, []string{id}, listed.Campaigns)

	var balance balanceResult
	h.ok("", "campaign_balance", map[string]string{"address": crypto.FormatAccount(alice)}, &balance)
	require.Equal(t, "0", balance.Balance)
	require.Equal(t, params.CurrencyDenom, balance.Denom)

	var history []eventJSON
	h.ok("", "campaign_events", map[string]string{"id": id}, &history)
	require.Len(t, history, 2)
	require.Equal(t, events.TypeCampaignCreated, history[0].Type)
	require.Equal(t, events.TypeCampaignSupported, history[1].Type)
	require.Less(t, history[0].Seq, history[1].Seq)
}

func TestSettleAndClaimOverRPC(t *testing.T) {
	h := newHarness(t, 0)
	id := h.create()
	params := h.engine.Params()

	var claimed amountResult
	h.ok(h.token(bob), "campaign_claimAirdrop", map[string]string{"id": id}, &claimed)
	require.Equal(t, "1000000", claimed.Amount)

	var flag claimedResult
	h.ok("", "campaign_airdropClaimed", map[string]string{"id": id, "address": crypto.FormatAccount(bob)}, &flag)
	require.True(t, flag.Claimed)

	h.ok(h.token(alice), "campaign_support", map[string]string{"id": id, "amount": fmt.Sprint(params.LargeTierAmount)}, nil)

	var record campaignJSON
	h.ok("", "campaign_get", map[string]string{"id": id}, &record)
	h.now = record.ExpiryTime

	var settlement settlementJSON
	h.ok(h.token(creator), "campaign_settle", map[string]string{"id": id}, &settlement)
	require.True(t, settlement.Success)
	require.Equal(t, "350000000", settlement.LiquidityCurrency)
	require.Equal(t, "75000000", settlement.DevFundCurrency)
	require.Equal(t, "25000000", settlement.ProtocolFee)
	require.Equal(t, "50000000", settlement.CreatorDirect)

	var preview tokenPreviewJSON
	h.ok("", "campaign_claimableTokens", map[string]string{"id": id, "address": crypto.FormatAccount(alice)}, &preview)
	require.Equal(t, uint64(40), preview.UnlockedPercent)

	h.now += params.SecondsPerMonth
	var devFund devFundPreviewJSON
	h.ok("", "campaign_claimableDevFund", map[string]string{"id": id}, &devFund)
	require.Equal(t, uint8(12), devFund.Months)
	require.NotEqual(t, "0", devFund.Claimable)
}

func TestEngineErrorsMapToStatus(t *testing.T) {
	h := newHarness(t, 0)
	id := h.create()

	missing := "0x" + strings.Repeat("ab", 32)
	status, resp := h.do("", "campaign_get", map[string]string{"id": missing}, nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, codeCampaignNotFound, resp.Error.Code)

	status, resp = h.do(h.token(alice), "campaign_support", map[string]string{"id": id, "amount": "lots"}, nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, codeInvalidParams, resp.Error.Code)

	status, resp = h.do(h.token(alice), "campaign_support", map[string]string{"id": id, "amount": "12345"}, nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, codeCampaignInvalid, resp.Error.Code)

	status, resp = h.do(h.token(alice), "campaign_settle", map[string]string{"id": id}, nil)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, codeCampaignForbidden, resp.Error.Code)

	status, resp = h.do(h.token(creator), "campaign_settle", map[string]string{"id": id}, nil)
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, codeCampaignConflict, resp.Error.Code)
	require.Equal(t, campaign.ErrNotEnded.Error(), resp.Error.Message)

	status, resp = h.do("", "campaign_get", map[string]string{"id": "0x1234"}, nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, codeInvalidParams, resp.Error.Code)
}

func TestConfigAdminOverRPC(t *testing.T) {
	h := newHarness(t, 0)
	status, resp := h.do("", "campaign_config", nil, nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, codeCampaignNotFound, resp.Error.Code)

	var cfg configJSON
	h.ok(h.token(creator), "campaign_initializeConfig", map[string]string{"developerWallet": crypto.FormatAccount(bob)}, &cfg)
	require.Equal(t, crypto.FormatAccount(creator), cfg.Admin)
	require.Equal(t, crypto.FormatAccount(bob), cfg.DeveloperWallet)

	status, resp = h.do(h.token(alice), "campaign_updateConfig", map[string]string{"developerWallet": crypto.FormatAccount(alice)}, nil)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, codeCampaignForbidden, resp.Error.Code)

	h.ok(h.token(creator), "campaign_updateConfig", map[string]string{"admin": crypto.FormatAccount(alice)}, &cfg)
	require.Equal(t, crypto.FormatAccount(alice), cfg.Admin)
	require.Greater(t, cfg.Version, uint64(1))
}

func TestIdempotentReplay(t *testing.T) {
	h := newHarness(t, 0)
	payload := map[string]interface{}{
		"asset":       "MEME",
		"totalSupply": "1000000000",
		"name":        "Meme Token",
		"symbol":      "MEME",
		"fundingGoal": "500000000",
	}
	headers := map[string]string{headerIdempotency: "create-1"}
	token := h.token(creator)

	status, first := h.do(token, "campaign_create", payload, headers)
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, first.Error)

	status, second := h.do(token, "campaign_create", payload, headers)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, string(first.Result), string(second.Result))

	ids, err := h.manager.CampaignIDs(creator)
	require.NoError(t, err)
	require.Len(t, ids, 1)
}

func TestIdempotencyKeyReusedByAnotherCaller(t *testing.T) {
	h := newHarness(t, 0)
	require.NoError(t, h.manager.Fund("MEME", alice, 1_000_000_000))
	payload := map[string]interface{}{
		"asset":       "MEME",
		"totalSupply": "1000000000",
		"name":        "Meme Token",
		"symbol":      "MEME",
		"fundingGoal": "500000000",
	}
	headers := map[string]string{headerIdempotency: "shared-key"}

	status, fromAlice := h.do(h.token(alice), "campaign_create", payload, headers)
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, fromAlice.Error)

	status, first := h.do(h.token(creator), "campaign_create", payload, headers)
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, first.Error)
	require.NotEqual(t, string(fromAlice.Result), string(first.Result))

	status, retry := h.do(h.token(creator), "campaign_create", payload, headers)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, string(first.Result), string(retry.Result))

	ids, err := h.manager.CampaignIDs(creator)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	balance, err := h.manager.BalanceOf("MEME", creator)
	require.NoError(t, err)
	require.Zero(t, balance)
}

func TestRateLimitPerCaller(t *testing.T) {
	h := newHarness(t, 6)
	status, _ := h.do("", "campaign_listByCreator", map[string]string{"creator": crypto.FormatAccount(creator)}, nil)
	require.Equal(t, http.StatusOK, status)

	status, resp := h.do("", "campaign_listByCreator", map[string]string{"creator": crypto.FormatAccount(creator)}, nil)
	require.Equal(t, http.StatusTooManyRequests, status)
	require.Equal(t, codeRateLimited, resp.Error.Code)

	// An authenticated caller draws from its own bucket.
	status, _ = h.do(h.token(alice), "campaign_listByCreator", map[string]string{"creator": crypto.FormatAccount(creator)}, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	h := newHarness(t, 6)
	params := map[string]string{"creator": crypto.FormatAccount(creator)}

	status, _ := h.do("", "campaign_listByCreator", params, map[string]string{"X-Forwarded-For": "198.51.100.1"})
	require.Equal(t, http.StatusOK, status)
	status, _ = h.do("", "campaign_listByCreator", params, map[string]string{"X-Forwarded-For": "198.51.100.2"})
	require.Equal(t, http.StatusTooManyRequests, status)
}

func TestClientSourceTrustsConfiguredProxiesOnly(t *testing.T) {
	limiter := newRateLimiter(6, []string{"10.0.0.1", "not-an-ip"})

	req := httptest.NewRequest(http.MethodPost, "/rpc", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	req.Header.Set("X-Forwarded-For", " 198.51.100.9:443 , 10.0.0.1")
	require.Equal(t, "198.51.100.9", limiter.clientSource(req))

	req.Header.Set("X-Forwarded-For", "garbage")
	require.Equal(t, "10.0.0.1", limiter.clientSource(req))

	req = httptest.NewRequest(http.MethodPost, "/rpc", nil)
	req.RemoteAddr = "192.0.2.10:7000"
	req.Header.Set("X-Forwarded-For", "198.51.100.8")
	require.Equal(t, "192.0.2.10", limiter.clientSource(req))

	// Distinct clients behind the trusted proxy draw from separate buckets.
	now := time.Unix(testStart, 0)
	limiter.clockNow = func() time.Time { return now }
	require.True(t, limiter.allow("198.51.100.1"))
	require.False(t, limiter.allow("198.51.100.1"))
	require.True(t, limiter.allow("198.51.100.2"))
}
