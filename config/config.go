package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Database back ends understood by the daemon.
const (
	DBBackendMemory  = "memory"
	DBBackendLevelDB = "leveldb"
	DBBackendBolt    = "bolt"
)

type Config struct {
	ListenAddress      string   `toml:"ListenAddress" yaml:"listenAddress"`
	DataDir            string   `toml:"DataDir" yaml:"dataDir"`
	DBBackend          string   `toml:"DBBackend" yaml:"dbBackend"`
	EventStorePath     string   `toml:"EventStorePath" yaml:"eventStorePath"`
	LogFile            string   `toml:"LogFile" yaml:"logFile"`
	LogLevel           string   `toml:"LogLevel" yaml:"logLevel"`
	Environment        string   `toml:"Environment" yaml:"environment"`
	JWTSecret          string   `toml:"JWTSecret" yaml:"jwtSecret"`
	JWTIssuer          string   `toml:"JWTIssuer" yaml:"jwtIssuer"`
	RateLimitPerMinute int      `toml:"RateLimitPerMinute" yaml:"rateLimitPerMinute"`
	TrustedProxies     []string `toml:"TrustedProxies,omitempty" yaml:"trustedProxies,omitempty"`
	Global             Global   `toml:"global" yaml:"global"`
}

// Load loads the configuration from the given path. Paths ending in .yaml or
// .yml are decoded as YAML, everything else as TOML. A default file is
// written when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// Zero is a valid fee share, so the default is set before decoding rather
	// than in normalize.
	cfg.Global.Campaign.CreatorFeePerMille = DefaultGlobal().Campaign.CreatorFeePerMille
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if isYAML(path) {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	} else {
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config file %s has unknown field %s", path, undecoded[0].String())
		}
	}

	cfg.normalize()
	if err := ValidateConfig(cfg.Global); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration written for a fresh node.
func Default() *Config {
	return &Config{
		ListenAddress:      ":8080",
		DataDir:            "./launchpad-data",
		DBBackend:          DBBackendLevelDB,
		EventStorePath:     "",
		Environment:        "local",
		LogLevel:           "info",
		JWTIssuer:          "launchpad",
		RateLimitPerMinute: 120,
		Global:             DefaultGlobal(),
	}
}

func (c *Config) normalize() {
	def := Default()
	if strings.TrimSpace(c.ListenAddress) == "" {
		c.ListenAddress = def.ListenAddress
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = def.DataDir
	}
	c.DBBackend = strings.ToLower(strings.TrimSpace(c.DBBackend))
	if c.DBBackend == "" {
		c.DBBackend = def.DBBackend
	}
	if strings.TrimSpace(c.Environment) == "" {
		c.Environment = def.Environment
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if strings.TrimSpace(c.JWTIssuer) == "" {
		c.JWTIssuer = def.JWTIssuer
	}
	if c.RateLimitPerMinute <= 0 {
		c.RateLimitPerMinute = def.RateLimitPerMinute
	}
	c.Global.normalize()
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := Default()
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if isYAML(path) {
		enc := yaml.NewEncoder(f)
		defer enc.Close()
		return enc.Encode(cfg)
	}
	return toml.NewEncoder(f).Encode(cfg)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
