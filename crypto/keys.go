package crypto

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/ethereum/go-ethereum/crypto"
)

// AddressPrefix defines the different types of human-readable address prefixes.
type AddressPrefix string

const (
	// AccountPrefix tags end-user identities (creators, contributors, claimants).
	AccountPrefix AddressPrefix = "lp"
	// VaultPrefix tags engine-owned holding balances.
	VaultPrefix AddressPrefix = "lpvault"
)

// Address represents a 20-byte identity with a specific prefix.
type Address struct {
	prefix AddressPrefix
	bytes  []byte
}

// NewAddress validates the byte length and wraps it with the prefix.
func NewAddress(prefix AddressPrefix, b []byte) (Address, error) {
	if len(b) != 20 {
		return Address{}, fmt.Errorf("address must be 20 bytes long, got %d", len(b))
	}
	return Address{prefix: prefix, bytes: append([]byte(nil), b...)}, nil
}

// MustNewAddress is NewAddress for callers holding a fixed [20]byte slice.
func MustNewAddress(prefix AddressPrefix, b []byte) Address {
	addr, err := NewAddress(prefix, b)
	if err != nil {
		panic(err)
	}
	return addr
}

func (a Address) String() string {
	conv, err := bech32.ConvertBits(a.bytes, 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(string(a.prefix), conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

func (a Address) Bytes() []byte {
	return a.bytes
}

// Bytes20 returns the raw identity as the fixed-size array used by engines.
func (a Address) Bytes20() [20]byte {
	var out [20]byte
	copy(out[:], a.bytes)
	return out
}

// Prefix returns the human-readable prefix associated with the address.
func (a Address) Prefix() AddressPrefix {
	return a.prefix
}

func DecodeAddress(addrStr string) (Address, error) {
	prefix, decoded, err := bech32.Decode(strings.TrimSpace(addrStr))
	if err != nil {
		return Address{}, fmt.Errorf("invalid bech32 string: %w", err)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("error converting bits: %w", err)
	}
	return NewAddress(AddressPrefix(prefix), conv)
}

// FormatAccount renders an engine identity in its account form.
func FormatAccount(addr [20]byte) string {
	return MustNewAddress(AccountPrefix, addr[:]).String()
}

// FormatVault renders an engine-owned holding address.
func FormatVault(addr [20]byte) string {
	return MustNewAddress(VaultPrefix, addr[:]).String()
}

// DeriveAddress hashes the labelled parts with keccak256 and keeps the last 20
// bytes, mirroring how account addresses are derived from public keys.
func DeriveAddress(label string, parts ...[]byte) [20]byte {
	chunks := make([][]byte, 0, len(parts)+1)
	chunks = append(chunks, []byte(label))
	chunks = append(chunks, parts...)
	digest := crypto.Keccak256(chunks...)
	var out [20]byte
	copy(out[:], digest[12:])
	return out
}
