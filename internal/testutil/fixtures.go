// Package testutil provides transaction fixtures shared by the engine, runner
// and command tests.
package testutil

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/payments-engine/internal/model"
)

// Amount parses s into a decimal pointer. It panics on malformed input, so
// use it only with literals.
func Amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// Deposit builds a deposit record.
func Deposit(client model.ClientID, tx model.TransactionID, amount string) model.Transaction {
	return model.Transaction{Type: model.TypeDeposit, Client: client, TX: tx, Amount: Amount(amount)}
}

// Withdrawal builds a withdrawal record.
func Withdrawal(client model.ClientID, tx model.TransactionID, amount string) model.Transaction {
	return model.Transaction{Type: model.TypeWithdrawal, Client: client, TX: tx, Amount: Amount(amount)}
}

// Dispute builds a dispute record referencing tx.
func Dispute(client model.ClientID, tx model.TransactionID) model.Transaction {
	return model.Transaction{Type: model.TypeDispute, Client: client, TX: tx}
}

// Resolve builds a resolve record referencing tx.
func Resolve(client model.ClientID, tx model.TransactionID) model.Transaction {
	return model.Transaction{Type: model.TypeResolve, Client: client, TX: tx}
}

// Chargeback builds a chargeback record referencing tx.
func Chargeback(client model.ClientID, tx model.TransactionID) model.Transaction {
	return model.Transaction{Type: model.TypeChargeback, Client: client, TX: tx}
}

// Source replays a fixed list of records and then returns Err, or io.EOF
// when Err is nil.
type Source struct {
	Err error
	Txs []model.Transaction
}

// Next returns the next record.
func (s *Source) Next() (model.Transaction, error) {
	if len(s.Txs) == 0 {
		if s.Err != nil {
			return model.Transaction{}, s.Err
		}
		return model.Transaction{}, io.EOF
	}
	tx := s.Txs[0]
	s.Txs = s.Txs[1:]
	return tx, nil
}

// WriteCSV writes lines to a transactions file in a per-test temp directory
// and returns its path.
func WriteCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}
