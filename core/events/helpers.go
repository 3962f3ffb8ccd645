package events

import (
	"encoding/hex"
	"math/big"
	"strconv"
	"strings"

	"launchpad/crypto"
)

func normalizeAsset(asset string) string {
	trimmed := strings.TrimSpace(asset)
	if trimmed == "" {
		return ""
	}
	return strings.ToUpper(trimmed)
}

func account(addr [20]byte) string {
	return crypto.FormatAccount(addr)
}

func hexID(id [32]byte) string {
	return hex.EncodeToString(id[:])
}

func uintToString(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func intToString(v int64) string {
	return strconv.FormatInt(v, 10)
}

func boolToString(v bool) string {
	return strconv.FormatBool(v)
}

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
