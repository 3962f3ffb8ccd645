package campaign

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func TestSplitWithRemainderSumsExactly(t *testing.T) {
	totals := []uint64{1, 2, 3, 7, 99, 100, 101, 999_999, 1_000_000_007, 1_000_000_000_000_000, math.MaxUint64 / 100}
	for _, total := range totals {
		shares, rest, err := splitWithRemainder(total, 70, 15, 5)
		if err != nil {
			t.Fatalf("split %d: %v", total, err)
		}
		sum := rest
		for _, s := range shares {
			sum += s
		}
		if sum != total {
			t.Fatalf("split %d: parts sum to %d", total, sum)
		}
	}
}

func TestMulDivWideIntermediate(t *testing.T) {
	got, err := mulDiv(math.MaxUint64, 3, 4)
	if err != nil {
		t.Fatalf("mulDiv: %v", err)
	}
	want := new(big.Int).Mul(new(big.Int).SetUint64(math.MaxUint64), big.NewInt(3))
	want.Div(want, big.NewInt(4))
	if got != want.Uint64() {
		t.Fatalf("expected %s, got %d", want, got)
	}
	if _, err := mulDiv(math.MaxUint64, 2, 1); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	if _, err := mulDiv(1, 1, 0); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected division guard, got %v", err)
	}
}

func TestCheckedArithmetic(t *testing.T) {
	if _, err := checkedAdd(math.MaxUint64, 1); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected add overflow, got %v", err)
	}
	if _, err := checkedSub(1, 2); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected sub underflow, got %v", err)
	}
	sum, err := checkedAdd(40, 2)
	if err != nil || sum != 42 {
		t.Fatalf("unexpected add result %d %v", sum, err)
	}
}

func TestExchangeRateAndReward(t *testing.T) {
	rate, err := exchangeRate(1000, 500_000_000)
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if rate.Cmp(big.NewInt(2000)) != 0 {
		t.Fatalf("expected rate 2000, got %s", rate)
	}
	reward, err := rewardFor(500_000_000, rate)
	if err != nil {
		t.Fatalf("reward: %v", err)
	}
	if reward != 1000 {
		t.Fatalf("expected reward 1000, got %d", reward)
	}

	// Large supply against a tiny raise needs more than 64 bits of rate.
	rate, err = exchangeRate(math.MaxUint64, 1)
	if err != nil {
		t.Fatalf("wide rate: %v", err)
	}
	if rate.BitLen() <= 64 {
		t.Fatalf("expected wide rate, got %s", rate)
	}
	reward, err = rewardFor(1, rate)
	if err != nil || reward != math.MaxUint64 {
		t.Fatalf("expected full bucket, got %d %v", reward, err)
	}
}
