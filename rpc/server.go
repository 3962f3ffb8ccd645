package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"launchpad/native/campaign"
	"launchpad/observability"
	"launchpad/storage/eventstore"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB

	headerRequestID   = "X-Request-ID"
	headerIdempotency = "Idempotency-Key"
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeServerError    = -32000
	codeUnauthorized   = -32001
	codeRateLimited    = -32020
)

// Ledger exposes the balance and index reads the RPC layer serves directly.
type Ledger interface {
	BalanceOf(denom string, addr [20]byte) (uint64, error)
	CampaignIDs(creator [20]byte) ([][32]byte, error)
}

// Journal is the event history and idempotency store.
type Journal interface {
	Query(ctx context.Context, filter eventstore.Filter) ([]eventstore.Record, error)
	LookupIdempotency(ctx context.Context, caller, key string) (*eventstore.IdempotencyKey, error)
	SaveIdempotency(ctx context.Context, record eventstore.IdempotencyKey) error
}

// Config tunes the HTTP surface.
type Config struct {
	JWTSecret          string
	JWTIssuer          string
	RateLimitPerMinute int

	// TrustedProxies lists peers whose X-Forwarded-For header is believed
	// when keying anonymous rate limits.
	TrustedProxies []string
}

// Server exposes the campaign engine over JSON-RPC 2.0.
type Server struct {
	engine  *campaign.Engine
	ledger  Ledger
	journal Journal
	auth    *authenticator
	limiter *rateLimiter
	logger  *slog.Logger
}

// NewServer wires the engine with its read-side dependencies. journal may be
// nil, in which case event queries and idempotent replays are unavailable.
func NewServer(engine *campaign.Engine, ledger Ledger, journal Journal, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine:  engine,
		ledger:  ledger,
		journal: journal,
		auth:    newAuthenticator(cfg.JWTSecret, cfg.JWTIssuer),
		limiter: newRateLimiter(cfg.RateLimitPerMinute, cfg.TrustedProxies),
		logger:  logger,
	}
}

// Router returns the HTTP handler serving JSON-RPC, health and metrics.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Group(func(rr chi.Router) {
		rr.Use(s.auth.middleware)
		rr.Use(s.limiter.middleware)
		rr.Post("/", s.handle)
		rr.Post("/rpc", s.handle)
	})
	return r
}

type requestIDKey struct{}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(headerRequestID))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      interface{}       `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *RPCError) Error() string { return e.Message }

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	_ = json.NewEncoder(w).Encode(RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj})
}

func writeRaw(w http.ResponseWriter, id interface{}, result json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result})
}

// handle decodes the envelope, dispatches the method and records metrics.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, nil, codeInvalidRequest, "failed to read request body", nil)
		return
	}
	var req RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", nil)
		return
	}

	code := 0
	defer func() {
		observability.RPC().Observe(req.Method, code, time.Since(start))
	}()

	method, ok := methods[req.Method]
	if !ok {
		code = codeMethodNotFound
		writeError(w, http.StatusNotFound, req.ID, code, "method not found", req.Method)
		return
	}
	caller, authenticated := callerFrom(r.Context())
	if method.mutating && !authenticated {
		code = codeUnauthorized
		writeError(w, http.StatusUnauthorized, req.ID, code, "bearer token required", nil)
		return
	}

	idemKey := strings.TrimSpace(r.Header.Get(headerIdempotency))
	if method.mutating && idemKey != "" && s.journal != nil {
		stored, err := s.journal.LookupIdempotency(r.Context(), callerKey(caller), idemKey)
		if err == nil && stored.Method == req.Method {
			writeRaw(w, req.ID, json.RawMessage(stored.Response))
			return
		}
	}

	result, rpcErr := method.fn(&call{server: s, ctx: r.Context(), caller: caller, params: req.Params})
	if rpcErr != nil {
		code = rpcErr.err.Code
		s.logger.Debug("rpc call rejected",
			"method", req.Method,
			"request_id", requestIDFrom(r.Context()),
			"error", rpcErr.err.Message)
		writeError(w, rpcErr.status, req.ID, rpcErr.err.Code, rpcErr.err.Message, rpcErr.err.Data)
		return
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		code = codeServerError
		writeError(w, http.StatusInternalServerError, req.ID, code, "failed to encode result", nil)
		return
	}
	if method.mutating && idemKey != "" && s.journal != nil {
		saveErr := s.journal.SaveIdempotency(r.Context(), eventstore.IdempotencyKey{
			Key:       idemKey,
			Caller:    callerKey(caller),
			RequestID: requestIDFrom(r.Context()),
			Method:    req.Method,
			Response:  string(encoded),
		})
		if saveErr != nil {
			s.logger.Warn("idempotency save failed", "method", req.Method, "error", saveErr)
		}
	}
	writeRaw(w, req.ID, encoded)
}
