package model

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Account-level errors.
var (
	ErrAccountFrozen     = errors.New("account frozen")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Account holds the balances of a single client. The zero value is an open
// account with no funds.
//
// Amounts handed to the mutators are expected to be validated by the caller;
// no sign or underflow checks happen here except in Withdraw.
type Account struct {
	available decimal.Decimal
	held      decimal.Decimal
	frozen    bool
}

// IncreaseAvailable adds amount to the available funds.
func (a *Account) IncreaseAvailable(amount decimal.Decimal) *Account {
	a.available = a.available.Add(amount)
	return a
}

// DecreaseAvailable subtracts amount from the available funds. The result may
// be negative.
func (a *Account) DecreaseAvailable(amount decimal.Decimal) *Account {
	a.available = a.available.Sub(amount)
	return a
}

// IncreaseHeld adds amount to the held funds.
func (a *Account) IncreaseHeld(amount decimal.Decimal) *Account {
	a.held = a.held.Add(amount)
	return a
}

// DecreaseHeld subtracts amount from the held funds.
func (a *Account) DecreaseHeld(amount decimal.Decimal) *Account {
	a.held = a.held.Sub(amount)
	return a
}

// Withdraw removes amount from the available funds, or returns
// ErrInsufficientFunds and leaves the account untouched.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if a.available.LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.available = a.available.Sub(amount)
	return nil
}

// Freeze locks the account. Calling it again has no effect.
func (a *Account) Freeze() *Account {
	a.frozen = true
	return a
}

// CheckFrozen returns ErrAccountFrozen if the account is locked.
func (a *Account) CheckFrozen() error {
	if a.frozen {
		return ErrAccountFrozen
	}
	return nil
}

// Available returns the funds free for withdrawal or dispute.
func (a *Account) Available() decimal.Decimal {
	return a.available
}

// Held returns the funds locked by open disputes.
func (a *Account) Held() decimal.Decimal {
	return a.held
}

// Total returns available plus held.
func (a *Account) Total() decimal.Decimal {
	return a.available.Add(a.held)
}

// Frozen reports whether a chargeback has locked the account.
func (a *Account) Frozen() bool {
	return a.frozen
}

// AccountSnapshot is a read-only copy of an account used for reporting.
type AccountSnapshot struct {
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Client    ClientID
	Locked    bool
}

// Snapshot copies the account state for client.
func (a *Account) Snapshot(client ClientID) AccountSnapshot {
	return AccountSnapshot{
		Client:    client,
		Available: a.available,
		Held:      a.held,
		Total:     a.Total(),
		Locked:    a.frozen,
	}
}
