package engine

import (
	"errors"
	"fmt"

	"github.com/Veraticus/payments-engine/internal/model"
)

// Rejection errors. Each one describes why a transaction was not applied;
// none of them is fatal to the engine.
var (
	ErrAccountFrozen       = model.ErrAccountFrozen
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientFunds   = model.ErrInsufficientFunds
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidChargeback   = errors.New("invalid chargeback")
	ErrInvalidDispute      = errors.New("invalid dispute")
	ErrInvalidResolve      = errors.New("invalid resolve")
	ErrTransactionNotFound = errors.New("transaction not found")
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrAccountFrozen, "account_frozen"},
	{ErrAccountNotFound, "account_not_found"},
	{ErrInsufficientFunds, "insufficient_funds"},
	{ErrInvalidAmount, "invalid_amount"},
	{ErrInvalidChargeback, "invalid_chargeback"},
	{ErrInvalidDispute, "invalid_dispute"},
	{ErrInvalidResolve, "invalid_resolve"},
	{ErrTransactionNotFound, "transaction_not_found"},
}

// RejectedError records which transaction was rejected and why.
type RejectedError struct {
	Err    error
	Type   model.TransactionType
	TX     model.TransactionID
	Client model.ClientID
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s tx %d for client %d rejected: %v", e.Type, e.TX, e.Client, e.Err)
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

// KindOf returns a stable label for a rejection error, or "unknown".
func KindOf(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "unknown"
}
