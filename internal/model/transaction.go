// Package model defines the core domain types shared across the application.
package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ClientID identifies a client account.
type ClientID uint16

// TransactionID identifies a transaction. IDs are global, not per client.
type TransactionID uint32

// TransactionType is the kind of a transaction record.
type TransactionType string

// Transaction types.
const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeDispute    TransactionType = "dispute"
	TypeResolve    TransactionType = "resolve"
	TypeChargeback TransactionType = "chargeback"
)

// ParseTransactionType parses s case-insensitively, ignoring surrounding
// whitespace.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeDispute, TypeResolve, TypeChargeback:
		return true
	default:
		return false
	}
}

// Transaction is a single parsed input record.
type Transaction struct {
	// Amount is nil when the record carries no amount (dispute, resolve,
	// chargeback).
	Amount *decimal.Decimal
	Type   TransactionType
	TX     TransactionID
	Client ClientID
}

// AmountOrZero returns the amount, or zero when it is absent.
func (t *Transaction) AmountOrZero() decimal.Decimal {
	if t.Amount == nil {
		return decimal.Zero
	}
	return *t.Amount
}
