package state

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"

	"launchpad/native/campaign"
)

// ErrInsufficientBalance is returned when a transfer would overdraw the
// sender. It matches campaign.ErrInsufficientFunds under errors.Is.
var ErrInsufficientBalance = fmt.Errorf("state: %w", campaign.ErrInsufficientFunds)

// ErrBalanceOverflow is returned when a credit would wrap the recipient balance.
var ErrBalanceOverflow = fmt.Errorf("state: balance %w", campaign.ErrArithmeticOverflow)

func normalizeDenom(denom string) (string, error) {
	trimmed := strings.TrimSpace(denom)
	if trimmed == "" {
		return "", fmt.Errorf("state: denomination must not be empty")
	}
	return trimmed, nil
}

// Balance returns the balance of addr in denom. Missing balances are zero.
func (t *Txn) Balance(denom string, addr [20]byte) (uint64, error) {
	normalized, err := normalizeDenom(denom)
	if err != nil {
		return 0, err
	}
	var amount uint64
	if _, err := t.KVGet(balanceKey(addr, normalized), &amount); err != nil {
		return 0, err
	}
	return amount, nil
}

func (t *Txn) setBalance(denom string, addr [20]byte, amount uint64) error {
	if amount == 0 {
		return t.KVDelete(balanceKey(addr, denom))
	}
	return t.KVPut(balanceKey(addr, denom), amount)
}

// Credit mints amount of denom to addr.
func (t *Txn) Credit(denom string, addr [20]byte, amount uint64) error {
	normalized, err := normalizeDenom(denom)
	if err != nil {
		return err
	}
	current, err := t.Balance(normalized, addr)
	if err != nil {
		return err
	}
	next, overflow := new(uint256.Int).AddOverflow(uint256.NewInt(current), uint256.NewInt(amount))
	if overflow || !next.IsUint64() {
		return ErrBalanceOverflow
	}
	return t.setBalance(normalized, addr, next.Uint64())
}

// Transfer moves amount of denom from one account to another. Either both
// sides change or neither does.
func (t *Txn) Transfer(denom string, from, to [20]byte, amount uint64) error {
	normalized, err := normalizeDenom(denom)
	if err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}
	fromBalance, err := t.Balance(normalized, from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientBalance, normalized, fromBalance, amount)
	}
	if from == to {
		return nil
	}
	toBalance, err := t.Balance(normalized, to)
	if err != nil {
		return err
	}
	next, overflow := new(uint256.Int).AddOverflow(uint256.NewInt(toBalance), uint256.NewInt(amount))
	if overflow || !next.IsUint64() {
		return ErrBalanceOverflow
	}
	if err := t.setBalance(normalized, from, fromBalance-amount); err != nil {
		return err
	}
	return t.setBalance(normalized, to, next.Uint64())
}
