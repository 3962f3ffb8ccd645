package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"launchpad/cmd/internal/secret"
	"launchpad/config"
	"launchpad/core/state"
	"launchpad/crypto"
	"launchpad/native/campaign"
	"launchpad/native/common"
	"launchpad/observability/logging"
	"launchpad/rpc"
	"launchpad/storage"
	"launchpad/storage/eventstore"
)

const (
	jwtSecretEnv = "LAUNCHPAD_JWT_SECRET"
	envVar       = "LAUNCHPAD_ENV"

	logMaxSizeMB   = 100
	logMaxBackups  = 5
	shutdownGrace  = 10 * time.Second
	startupTimeout = 5 * time.Second
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file (.toml, .yaml or .yml)")
	issueFor := flag.String("issue-token", "", "Print a bearer token for the given lp account and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "Lifetime of tokens minted with -issue-token")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	env := cfg.Environment
	if override := os.Getenv(envVar); override != "" {
		env = override
	}
	logger, logCloser := logging.Setup("launchpadd", env,
		logging.WithLevel(logging.ParseLevel(cfg.LogLevel)),
		logging.WithFile(cfg.LogFile, logMaxSizeMB, logMaxBackups),
	)
	defer logCloser.Close()

	jwtSecret, err := secret.NewSource(cfg.JWTSecret, jwtSecretEnv, "JWT signing secret").Get()
	if err != nil {
		logger.Error("Failed to resolve JWT secret", slog.Any("error", err))
		os.Exit(1)
	}

	if *issueFor != "" {
		if err := printToken(jwtSecret, cfg.JWTIssuer, *issueFor, *tokenTTL); err != nil {
			logger.Error("Failed to issue token", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	db, err := openDatabase(cfg)
	if err != nil {
		logger.Error("Failed to open database", slog.String("backend", cfg.DBBackend), slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	journal, err := eventstore.Open(eventStoreDSN(cfg))
	if err != nil {
		logger.Error("Failed to open event journal", slog.Any("error", err))
		os.Exit(1)
	}
	defer journal.Close()
	journal.SetLogger(logger)

	manager := state.NewManager(db)
	if err := seedGenesis(manager, cfg.Global.Balances, logger); err != nil {
		logger.Error("Failed to apply genesis balances", slog.Any("error", err))
		os.Exit(1)
	}
	engine := newEngine(cfg, manager, journal, logger)

	server := rpc.NewServer(engine, manager, journal, rpc.Config{
		JWTSecret:          jwtSecret,
		JWTIssuer:          cfg.JWTIssuer,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     append([]string{}, cfg.TrustedProxies...),
	}, logger)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		err := httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
		close(errCh)
	}()

	if err := waitForStartup(cfg.ListenAddress, errCh, startupTimeout); err != nil {
		logger.Error("RPC server failed to start", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("launchpad engine running",
		slog.String("listen", cfg.ListenAddress),
		slog.String("backend", cfg.DBBackend),
		slog.Bool("paused", cfg.Global.Pauses.Campaign))

	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok && err != nil {
			logger.Error("RPC server terminated", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown incomplete", slog.Any("error", err))
	}
	logger.Info("launchpad engine stopped")
}

func newEngine(cfg *config.Config, manager *state.Manager, journal *eventstore.Store, logger *slog.Logger) *campaign.Engine {
	engine := campaign.NewEngine()
	engine.SetParams(campaign.ParamsFromConfig(cfg.Global.Campaign))
	engine.SetPauses(cfg.Global.Pauses)
	engine.SetQuota(quotaFromConfig(cfg.Global.Quotas.Campaign))
	engine.SetStore(manager.CampaignStore())
	engine.SetEmitter(journal)
	engine.SetLogger(logger)
	return engine
}

// genesisFromConfig decodes the configured seed balances. Only lp accounts
// may be seeded; vault addresses are owned by campaigns.
func genesisFromConfig(balances []config.Balance) ([]state.GenesisBalance, error) {
	out := make([]state.GenesisBalance, 0, len(balances))
	for i, b := range balances {
		addr, err := crypto.DecodeAddress(b.Address)
		if err != nil {
			return nil, fmt.Errorf("balances[%d]: %w", i, err)
		}
		if addr.Prefix() != crypto.AccountPrefix {
			return nil, fmt.Errorf("balances[%d]: %s is not an %s account", i, b.Address, crypto.AccountPrefix)
		}
		out = append(out, state.GenesisBalance{Denom: b.Denom, Addr: addr.Bytes20(), Amount: b.Amount})
	}
	return out, nil
}

func seedGenesis(manager *state.Manager, balances []config.Balance, logger *slog.Logger) error {
	genesis, err := genesisFromConfig(balances)
	if err != nil {
		return err
	}
	applied, err := manager.ApplyGenesis(genesis)
	if err != nil {
		return err
	}
	if applied {
		logger.Info("genesis balances applied", slog.Int("accounts", len(genesis)))
	}
	return nil
}

func quotaFromConfig(q config.Quota) common.Quota {
	return common.Quota{
		MaxRequestsPerEpoch: q.MaxRequestsPerEpoch,
		MaxAmountPerEpoch:   q.MaxAmountPerEpoch,
		EpochSeconds:        q.EpochSeconds,
	}
}

func openDatabase(cfg *config.Config) (storage.Database, error) {
	switch cfg.DBBackend {
	case config.DBBackendMemory:
		return storage.NewMemDB(), nil
	case config.DBBackendLevelDB:
		return storage.NewLevelDB(filepath.Join(cfg.DataDir, "state"))
	case config.DBBackendBolt:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, err
		}
		return storage.NewBoltDB(filepath.Join(cfg.DataDir, "state.bolt"), nil)
	default:
		return nil, fmt.Errorf("unknown database backend %q", cfg.DBBackend)
	}
}

func eventStoreDSN(cfg *config.Config) string {
	if cfg.EventStorePath != "" {
		return cfg.EventStorePath
	}
	if cfg.DBBackend == config.DBBackendMemory {
		return "file:launchpad-events?mode=memory&cache=shared"
	}
	_ = os.MkdirAll(cfg.DataDir, 0o755)
	return filepath.Join(cfg.DataDir, "events.db")
}

func printToken(jwtSecret, issuer, account string, ttl time.Duration) error {
	addr, err := crypto.DecodeAddress(account)
	if err != nil {
		return err
	}
	if addr.Prefix() != crypto.AccountPrefix {
		return fmt.Errorf("token subject must be an %s account", crypto.AccountPrefix)
	}
	token, err := rpc.IssueToken(jwtSecret, issuer, addr.Bytes20(), ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func waitForStartup(addr string, errCh <-chan error, timeout time.Duration) error {
	dialAddr := dialAddressFor(addr)
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err, ok := <-errCh:
			if !ok || err == nil {
				return fmt.Errorf("RPC server exited before startup confirmation")
			}
			return err
		default:
		}

		conn, err := net.DialTimeout("tcp", dialAddr, 200*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return nil
		}

		select {
		case err, ok := <-errCh:
			if !ok || err == nil {
				return fmt.Errorf("RPC server exited before startup confirmation")
			}
			return err
		case <-ticker.C:
		case <-deadline.C:
			return fmt.Errorf("timed out waiting for RPC server to start on %s", addr)
		}
	}
}

func dialAddressFor(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
