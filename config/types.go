package config

// Campaign captures the engine parameters shared by every campaign. Amounts
// are expressed in base units of the settlement currency, durations in
// seconds.
type Campaign struct {
	CurrencyDenom          string `toml:"CurrencyDenom" yaml:"currencyDenom"`
	SmallTierAmount        uint64 `toml:"SmallTierAmount" yaml:"smallTierAmount"`
	LargeTierAmount        uint64 `toml:"LargeTierAmount" yaml:"largeTierAmount"`
	RefundWindowSecs       int64  `toml:"RefundWindowSecs" yaml:"refundWindowSecs"`
	DefaultExpirySecs      int64  `toml:"DefaultExpirySecs" yaml:"defaultExpirySecs"`
	SecondsPerMonth        int64  `toml:"SecondsPerMonth" yaml:"secondsPerMonth"`
	DefaultAirdropMaxCount uint16 `toml:"DefaultAirdropMaxCount" yaml:"defaultAirdropMaxCount"`
	MaxAllocations         int    `toml:"MaxAllocations" yaml:"maxAllocations"`
	MaxNameLength          int    `toml:"MaxNameLength" yaml:"maxNameLength"`
	MaxSymbolLength        int    `toml:"MaxSymbolLength" yaml:"maxSymbolLength"`
	CreatorFeePerMille     uint64 `toml:"CreatorFeePerMille" yaml:"creatorFeePerMille"`
}

// Pauses switches off mutating operations per module.
type Pauses struct {
	Campaign bool `toml:"Campaign" yaml:"campaign"`
}

// Quota defines rate limits for module interactions on a per-address basis.
type Quota struct {
	MaxRequestsPerEpoch uint32 `toml:"MaxRequestsPerEpoch" yaml:"maxRequestsPerEpoch"`
	MaxAmountPerEpoch   uint64 `toml:"MaxAmountPerEpoch" yaml:"maxAmountPerEpoch"`
	EpochSeconds        uint32 `toml:"EpochSeconds" yaml:"epochSeconds"`
}

// Quotas groups quotas for each module.
type Quotas struct {
	Campaign Quota `toml:"Campaign" yaml:"campaign"`
}

// Balance seeds one account the first time a node starts on an empty
// database. Address is an lp bech32 account.
type Balance struct {
	Denom   string `toml:"Denom" yaml:"denom"`
	Address string `toml:"Address" yaml:"address"`
	Amount  uint64 `toml:"Amount" yaml:"amount"`
}

// Global bundles the runtime configuration values enforced by ValidateConfig.
type Global struct {
	Campaign Campaign  `toml:"Campaign" yaml:"campaign"`
	Pauses   Pauses    `toml:"Pauses" yaml:"pauses"`
	Quotas   Quotas    `toml:"Quotas" yaml:"quotas"`
	Balances []Balance `toml:"Balances,omitempty" yaml:"balances,omitempty"`
}
