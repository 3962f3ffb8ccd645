package campaign

import (
	"math/big"

	"github.com/holiman/uint256"
)

// RatePrecision scales TokensPerCurrency so fractional exchange rates survive
// integer storage.
const RatePrecision uint64 = 1_000_000_000

// maxRateBits bounds the stored exchange rate to a 128-bit value.
const maxRateBits = 128

func u256(v uint64) *uint256.Int { return uint256.NewInt(v) }

func toUint64(v *uint256.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, ErrArithmeticOverflow
	}
	return v.Uint64(), nil
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum, overflow := new(uint256.Int).AddOverflow(u256(a), u256(b))
	if overflow {
		return 0, ErrArithmeticOverflow
	}
	return toUint64(sum)
}

func checkedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrArithmeticOverflow
	}
	return a - b, nil
}

// mulDiv returns floor(a*b/d) with a 256-bit intermediate.
func mulDiv(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrArithmeticOverflow
	}
	product, overflow := new(uint256.Int).MulOverflow(u256(a), u256(b))
	if overflow {
		return 0, ErrArithmeticOverflow
	}
	return toUint64(product.Div(product, u256(d)))
}

// percentOf returns floor(total*pct/100).
func percentOf(total, pct uint64) (uint64, error) {
	return mulDiv(total, pct, 100)
}

// splitWithRemainder carves total into truncated percentage shares and hands
// whatever is left to the final share, so the parts always sum to total.
func splitWithRemainder(total uint64, percents ...uint64) ([]uint64, uint64, error) {
	shares := make([]uint64, len(percents))
	remaining := total
	for i, pct := range percents {
		share, err := percentOf(total, pct)
		if err != nil {
			return nil, 0, err
		}
		remaining, err = checkedSub(remaining, share)
		if err != nil {
			return nil, 0, err
		}
		shares[i] = share
	}
	return shares, remaining, nil
}

// exchangeRate computes reward*RatePrecision/raised with a wide intermediate.
func exchangeRate(rewardBucket, raised uint64) (*big.Int, error) {
	if raised == 0 {
		return nil, ErrArithmeticOverflow
	}
	rate, overflow := new(uint256.Int).MulOverflow(u256(rewardBucket), u256(RatePrecision))
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	rate.Div(rate, u256(raised))
	if rate.BitLen() > maxRateBits {
		return nil, ErrArithmeticOverflow
	}
	return rate.ToBig(), nil
}

// rewardFor converts a contribution into asset units: amount*rate/RatePrecision.
func rewardFor(amount uint64, rate *big.Int) (uint64, error) {
	if rate == nil || rate.Sign() <= 0 {
		return 0, nil
	}
	wideRate, overflow := uint256.FromBig(rate)
	if overflow {
		return 0, ErrArithmeticOverflow
	}
	product, overflow := new(uint256.Int).MulOverflow(u256(amount), wideRate)
	if overflow {
		return 0, ErrArithmeticOverflow
	}
	return toUint64(product.Div(product, u256(RatePrecision)))
}
