package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBBackend != DBBackendLevelDB {
		t.Fatalf("unexpected backend %q", cfg.DBBackend)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default file not written: %v", err)
	}
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Global.Campaign != cfg.Global.Campaign {
		t.Fatalf("campaign params changed across reload: %+v vs %+v", reloaded.Global.Campaign, cfg.Global.Campaign)
	}
}

func TestLoadParsesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `ListenAddress = "127.0.0.1:9100"
DBBackend = "BOLT"
Environment = "staging"
JWTSecret = "s3cret"
RateLimitPerMinute = 30
TrustedProxies = ["10.0.0.1"]

[global.Campaign]
SmallTierAmount = 1000
LargeTierAmount = 20000
CreatorFeePerMille = 250

[global.Pauses]
Campaign = true

[global.Quotas.Campaign]
MaxRequestsPerEpoch = 5
EpochSeconds = 3600
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddress != "127.0.0.1:9100" || cfg.DBBackend != DBBackendBolt {
		t.Fatalf("unexpected node settings: %+v", cfg)
	}
	if len(cfg.TrustedProxies) != 1 || cfg.TrustedProxies[0] != "10.0.0.1" {
		t.Fatalf("unexpected trusted proxies: %v", cfg.TrustedProxies)
	}
	if cfg.Global.Campaign.SmallTierAmount != 1000 || cfg.Global.Campaign.LargeTierAmount != 20000 {
		t.Fatalf("unexpected tiers: %+v", cfg.Global.Campaign)
	}
	if cfg.Global.Campaign.CreatorFeePerMille != 250 {
		t.Fatalf("unexpected fee share %d", cfg.Global.Campaign.CreatorFeePerMille)
	}
	if cfg.Global.Campaign.RefundWindowSecs != 30*86_400 {
		t.Fatalf("refund window not defaulted: %d", cfg.Global.Campaign.RefundWindowSecs)
	}
	if !cfg.Global.Pauses.IsPaused("campaign") {
		t.Fatalf("expected campaign pause")
	}
	if cfg.Global.Quotas.Campaign.MaxRequestsPerEpoch != 5 {
		t.Fatalf("unexpected quota %+v", cfg.Global.Quotas.Campaign)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := `listenAddress: ":9200"
dbBackend: memory
global:
  campaign:
    defaultAirdropMaxCount: 7
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBBackend != DBBackendMemory || cfg.ListenAddress != ":9200" {
		t.Fatalf("unexpected node settings: %+v", cfg)
	}
	if cfg.Global.Campaign.DefaultAirdropMaxCount != 7 {
		t.Fatalf("unexpected airdrop default %d", cfg.Global.Campaign.DefaultAirdropMaxCount)
	}
	if cfg.Global.Campaign.LargeTierAmount != 500_000_000 {
		t.Fatalf("large tier not defaulted: %d", cfg.Global.Campaign.LargeTierAmount)
	}
}

func TestLoadDefaultsCreatorFeeOnlyWhenOmitted(t *testing.T) {
	dir := t.TempDir()
	files := map[string]struct {
		contents string
		want     uint64
	}{
		"omitted.toml":  {contents: "[global.Campaign]\nSmallTierAmount = 1000\nLargeTierAmount = 20000\n", want: 1},
		"explicit.toml": {contents: "[global.Campaign]\nCreatorFeePerMille = 0\n", want: 0},
		"omitted.yaml":  {contents: "global:\n  campaign:\n    smallTierAmount: 1000\n    largeTierAmount: 20000\n", want: 1},
		"explicit.yaml": {contents: "global:\n  campaign:\n    creatorFeePerMille: 0\n", want: 0},
	}
	for name, tc := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(tc.contents), 0o644); err != nil {
			t.Fatalf("%s: write: %v", name, err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if got := cfg.Global.Campaign.CreatorFeePerMille; got != tc.want {
			t.Fatalf("%s: fee share %d, expected %d", name, got, tc.want)
		}
	}
}

func TestLoadParsesGenesisBalances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `[[global.Balances]]
Denom = "MEME"
Address = "lp1example"
Amount = 1000

[[global.Balances]]
Denom = "native"
Address = "lp1example"
Amount = 500
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Global.Balances) != 2 || cfg.Global.Balances[1].Denom != "native" || cfg.Global.Balances[1].Amount != 500 {
		t.Fatalf("unexpected balances %+v", cfg.Global.Balances)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("Bogus = 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "Bogus") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	base := DefaultGlobal()
	if err := ValidateConfig(base); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cases := map[string]func(*Global){
		"tier ratio":    func(g *Global) { g.Campaign.LargeTierAmount = g.Campaign.SmallTierAmount * 9 },
		"refund window": func(g *Global) { g.Campaign.RefundWindowSecs = 0 },
		"fee share":     func(g *Global) { g.Campaign.CreatorFeePerMille = 1001 },
		"month":         func(g *Global) { g.Campaign.SecondsPerMonth = -1 },
		"quota epoch":   func(g *Global) { g.Quotas.Campaign.MaxRequestsPerEpoch = 3 },
		"zero balance":  func(g *Global) { g.Balances = []Balance{{Denom: "native", Address: "lp1x"}} },
		"no denom":      func(g *Global) { g.Balances = []Balance{{Address: "lp1x", Amount: 1}} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			g := DefaultGlobal()
			mutate(&g)
			if err := ValidateConfig(g); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
