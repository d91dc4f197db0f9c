package vault

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrInsufficientFunds is returned when a debit exceeds the account's balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrBalanceOverflow is returned when a credit would push a balance past 64 bits.
	ErrBalanceOverflow = errors.New("balance overflow")
	// ErrLockedOrUnauthorized is returned when a custodial withdrawal is attempted
	// by anyone but the authority, or while liquidity is locked.
	ErrLockedOrUnauthorized = errors.New("vault locked or requester unauthorized")
)

// Ledger tracks 64-bit balances for a single asset, keyed by account address.
// It is not safe for concurrent use; callers own synchronization.
type Ledger struct {
	balances map[solana.PublicKey]uint64
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[solana.PublicKey]uint64)}
}

// Balance returns the balance of the account, zero for unknown accounts.
func (l *Ledger) Balance(account solana.PublicKey) uint64 {
	return l.balances[account]
}

// Credit adds amount to the account's balance.
func (l *Ledger) Credit(account solana.PublicKey, amount uint64) error {
	current := l.balances[account]
	next := current + amount
	if next < current {
		return fmt.Errorf("%w: account %s", ErrBalanceOverflow, account)
	}
	l.balances[account] = next
	return nil
}

// Debit removes amount from the account's balance.
func (l *Ledger) Debit(account solana.PublicKey, amount uint64) error {
	current := l.balances[account]
	if amount > current {
		return fmt.Errorf("%w: account %s holds %d, needs %d", ErrInsufficientFunds, account, current, amount)
	}
	l.balances[account] = current - amount
	return nil
}

// Transfer atomically moves amount between two accounts. On any failure
// neither balance changes.
func (l *Ledger) Transfer(from, to solana.PublicKey, amount uint64) error {
	if from == to {
		return nil
	}
	if l.balances[from] < amount {
		return fmt.Errorf("%w: account %s holds %d, needs %d", ErrInsufficientFunds, from, l.balances[from], amount)
	}
	if err := l.Credit(to, amount); err != nil {
		return err
	}
	l.balances[from] -= amount
	return nil
}

// CanDebit reports whether a debit of amount would succeed.
func (l *Ledger) CanDebit(account solana.PublicKey, amount uint64) bool {
	return l.balances[account] >= amount
}

// CanCredit reports whether a credit of amount would succeed.
func (l *Ledger) CanCredit(account solana.PublicKey, amount uint64) bool {
	return l.balances[account]+amount >= l.balances[account]
}
