package campaign

import (
	"errors"
	"math/rand"
	"testing"
)

func sumAllocations(entries []AllocationEntry) uint64 {
	var total uint64
	for _, e := range entries {
		total += e.Amount
	}
	return total
}

func TestDefaultAllocationsAbsorbRemainder(t *testing.T) {
	totals := []uint64{1, 2, 3, 9, 10, 11, 99, 101, 12_345, 1_000_000_000_000_000}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		totals = append(totals, uint64(rng.Int63n(1_000_000_000_000_000))+1)
	}
	for _, total := range totals {
		entries, err := DefaultAllocations(total)
		if err != nil {
			t.Fatalf("default allocations %d: %v", total, err)
		}
		if len(entries) != 4 {
			t.Fatalf("expected four buckets, got %d", len(entries))
		}
		if got := sumAllocations(entries); got != total {
			t.Fatalf("total %d: buckets sum to %d", total, got)
		}
	}
}

func TestDefaultAllocationsLayout(t *testing.T) {
	entries, err := DefaultAllocations(1_000)
	if err != nil {
		t.Fatalf("default allocations: %v", err)
	}
	want := []AllocationEntry{
		{Name: BucketAirdrop, Amount: 100, UnlockMonths: 12},
		{Name: BucketCrowdfunding, Amount: 400, UnlockMonths: 12},
		{Name: BucketLiquidity, Amount: 300, UnlockMonths: 0},
		{Name: BucketDeveloper, Amount: 200, UnlockMonths: 12},
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("bucket %d: expected %+v, got %+v", i, want[i], entries[i])
		}
	}
}

func TestValidateAllocations(t *testing.T) {
	valid := []AllocationEntry{
		{Name: BucketAirdrop, Amount: 100},
		{Name: BucketCrowdfunding, Amount: 500},
		{Name: BucketLiquidity, Amount: 300},
		{Name: BucketDeveloper, Amount: 100},
	}
	tooMany := make([]AllocationEntry, 11)
	for i := range tooMany {
		tooMany[i] = AllocationEntry{Name: string(rune('a' + i)), Amount: 1}
	}
	tests := []struct {
		name    string
		total   uint64
		entries []AllocationEntry
		want    error
	}{
		{name: "valid", total: 1000, entries: valid},
		{name: "too many", total: 11, entries: tooMany, want: ErrTooManyBuckets},
		{name: "zero amount", total: 1000, entries: []AllocationEntry{{Name: BucketAirdrop, Amount: 0}, {Name: BucketLiquidity, Amount: 1000}}, want: ErrInvalidAmount},
		{name: "empty name", total: 1000, entries: []AllocationEntry{{Name: "", Amount: 1000}}, want: ErrInvalidBucketName},
		{name: "long name", total: 1000, entries: []AllocationEntry{{Name: "abcdefghijklmnopqrstuvwxyz0123456", Amount: 1000}}, want: ErrInvalidBucketName},
		{name: "duplicate", total: 1000, entries: []AllocationEntry{{Name: BucketAirdrop, Amount: 500}, {Name: BucketAirdrop, Amount: 500}}, want: ErrDuplicateName},
		{name: "mismatch", total: 999, entries: valid, want: ErrAllocationMismatch},
		{name: "missing liquidity", total: 1000, entries: []AllocationEntry{{Name: BucketAirdrop, Amount: 500}, {Name: BucketCrowdfunding, Amount: 500}}, want: ErrMissingRequiredBucket},
		{name: "missing airdrop", total: 1000, entries: []AllocationEntry{{Name: BucketLiquidity, Amount: 500}, {Name: BucketCrowdfunding, Amount: 500}}, want: ErrMissingRequiredBucket},
		{name: "missing crowdfunding", total: 1000, entries: []AllocationEntry{{Name: BucketAirdrop, Amount: 500}, {Name: BucketLiquidity, Amount: 400}, {Name: BucketDeveloper, Amount: 100}}, want: ErrMissingRequiredBucket},
		{name: "missing developer", total: 1000, entries: []AllocationEntry{{Name: BucketAirdrop, Amount: 100}, {Name: BucketCrowdfunding, Amount: 500}, {Name: BucketLiquidity, Amount: 400}}, want: ErrMissingRequiredBucket},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAllocations(tc.total, tc.entries, 10, 32)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
