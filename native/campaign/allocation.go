package campaign

// Well-known bucket names.
const (
	BucketAirdrop      = "airdrop"
	BucketCrowdfunding = "crowdfunding"
	BucketLiquidity    = "liquidity"
	BucketDeveloper    = "developer"
)

// requiredBuckets must appear in every plan. Settlement pays the reward rate
// from crowdfunding and the dev fund from developer, so a plan without either
// would leave escrowed currency or tokens with no exit.
var requiredBuckets = []string{BucketAirdrop, BucketCrowdfunding, BucketLiquidity, BucketDeveloper}

// Default plan percentages. The developer bucket absorbs the remainder.
const (
	defaultAirdropPercent      uint64 = 10
	defaultCrowdfundingPercent uint64 = 40
	defaultLiquidityPercent    uint64 = 30
)

const (
	defaultAirdropUnlockMonths      uint8 = 12
	defaultCrowdfundingUnlockMonths uint8 = 12
	defaultLiquidityUnlockMonths    uint8 = 0
	defaultDeveloperUnlockMonths    uint8 = 12
)

// DefaultAllocations splits total across the four standard buckets using
// remainder absorption so the amounts always sum to total.
func DefaultAllocations(total uint64) ([]AllocationEntry, error) {
	shares, developer, err := splitWithRemainder(total,
		defaultAirdropPercent,
		defaultCrowdfundingPercent,
		defaultLiquidityPercent,
	)
	if err != nil {
		return nil, err
	}
	return []AllocationEntry{
		{Name: BucketAirdrop, Amount: shares[0], UnlockMonths: defaultAirdropUnlockMonths},
		{Name: BucketCrowdfunding, Amount: shares[1], UnlockMonths: defaultCrowdfundingUnlockMonths},
		{Name: BucketLiquidity, Amount: shares[2], UnlockMonths: defaultLiquidityUnlockMonths},
		{Name: BucketDeveloper, Amount: developer, UnlockMonths: defaultDeveloperUnlockMonths},
	}, nil
}

// ValidateAllocations checks a caller-supplied plan against the total supply.
func ValidateAllocations(total uint64, entries []AllocationEntry, maxCount int, maxNameLen int) error {
	if len(entries) > maxCount {
		return ErrTooManyBuckets
	}
	var sum uint64
	for i, entry := range entries {
		if entry.Amount == 0 {
			return ErrInvalidAmount
		}
		if entry.Name == "" || len(entry.Name) > maxNameLen {
			return ErrInvalidBucketName
		}
		if _, dup := findAllocation(entries[:i], entry.Name); dup {
			return ErrDuplicateName
		}
		var err error
		if sum, err = checkedAdd(sum, entry.Amount); err != nil {
			return ErrAllocationMismatch
		}
	}
	if sum != total {
		return ErrAllocationMismatch
	}
	for _, required := range requiredBuckets {
		if _, ok := findAllocation(entries, required); !ok {
			return ErrMissingRequiredBucket
		}
	}
	return nil
}

// findAllocation is a linear scan; plans hold at most a handful of buckets and
// their order is preserved for events.
func findAllocation(entries []AllocationEntry, name string) (AllocationEntry, bool) {
	for _, entry := range entries {
		if entry.Name == name {
			return entry, true
		}
	}
	return AllocationEntry{}, false
}

func cloneAllocations(entries []AllocationEntry) []AllocationEntry {
	if len(entries) == 0 {
		return nil
	}
	return append([]AllocationEntry(nil), entries...)
}
