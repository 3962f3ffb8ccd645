package state

var (
	balancePrefix      = []byte("balance:")
	campaignPrefix     = []byte("campaign/record/")
	campaignNoncePfx   = []byte("campaign/nonce/")
	contributionPrefix = []byte("campaign/contribution/")
	airdropPrefix      = []byte("campaign/airdrop/")
	quotaPrefix        = []byte("quota/")
	configKeyBytes     = []byte("campaign/config")
	genesisKeyBytes    = []byte("genesis/applied")
)

func prefixedKey(prefix []byte, parts ...[]byte) []byte {
	size := len(prefix)
	for _, part := range parts {
		size += len(part)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, prefix...)
	for _, part := range parts {
		buf = append(buf, part...)
	}
	return buf
}

func balanceKey(addr [20]byte, denom string) []byte {
	return prefixedKey(balancePrefix, []byte(denom), []byte{':'}, addr[:])
}

func campaignKey(id [32]byte) []byte {
	return prefixedKey(campaignPrefix, id[:])
}

func campaignNonceKey(creator [20]byte) []byte {
	return prefixedKey(campaignNoncePfx, creator[:])
}

func contributionKey(id [32]byte, contributor [20]byte) []byte {
	return prefixedKey(contributionPrefix, id[:], contributor[:])
}

func airdropKey(id [32]byte, claimant [20]byte) []byte {
	return prefixedKey(airdropPrefix, id[:], claimant[:])
}

func quotaKey(module string, addr [20]byte) []byte {
	return prefixedKey(quotaPrefix, []byte(module), []byte{'/'}, addr[:])
}
