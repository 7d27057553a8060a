// Package engine applies transaction records to client accounts and enforces
// the dispute lifecycle.
package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Veraticus/payments-engine/internal/model"
)

// entry is a deposit or withdrawal kept in history while it can still be
// disputed.
type entry struct {
	tx       model.Transaction
	disputed bool
}

// Engine owns every client account and the dispute-eligible transaction
// history. One mutex covers both maps; a dispute must see the history entry
// and its account together.
type Engine struct {
	accounts map[model.ClientID]*model.Account
	history  map[model.TransactionID]*entry
	mu       sync.Mutex
}

// New creates an empty engine.
func New() *Engine {
	return &Engine{
		accounts: make(map[model.ClientID]*model.Account),
		history:  make(map[model.TransactionID]*entry),
	}
}

// Process applies a single transaction. Rejections are returned as
// *RejectedError; any error means no state was changed.
func (e *Engine) Process(tx model.Transaction) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var err error
	switch tx.Type {
	case model.TypeDeposit:
		err = e.deposit(tx)
	case model.TypeWithdrawal:
		err = e.withdrawal(tx)
	case model.TypeDispute:
		err = e.dispute(tx)
	case model.TypeResolve:
		err = e.resolve(tx)
	case model.TypeChargeback:
		err = e.chargeback(tx)
	default:
		return fmt.Errorf("unsupported transaction type %q", tx.Type)
	}
	if err != nil {
		return &RejectedError{Type: tx.Type, Client: tx.Client, TX: tx.TX, Err: err}
	}
	return nil
}

// account returns the account for client, creating it on first reference.
func (e *Engine) account(client model.ClientID) *model.Account {
	a, ok := e.accounts[client]
	if !ok {
		a = &model.Account{}
		e.accounts[client] = a
	}
	return a
}

// lookup finds a history entry and the account of the client it belongs to.
func (e *Engine) lookup(id model.TransactionID) (*entry, *model.Account, error) {
	en, ok := e.history[id]
	if !ok {
		return nil, nil, ErrTransactionNotFound
	}
	a, ok := e.accounts[en.tx.Client]
	if !ok {
		return nil, nil, ErrAccountNotFound
	}
	return en, a, nil
}

// record stores tx in history, replacing any entry with the same id.
func (e *Engine) record(tx model.Transaction) {
	e.history[tx.TX] = &entry{tx: tx}
}

func (e *Engine) deposit(tx model.Transaction) error {
	amount := tx.AmountOrZero()
	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	a := e.account(tx.Client)
	if err := a.CheckFrozen(); err != nil {
		return err
	}
	a.IncreaseAvailable(amount)

	e.record(tx)
	return nil
}

func (e *Engine) withdrawal(tx model.Transaction) error {
	amount := tx.AmountOrZero()
	if amount.IsNegative() {
		return ErrInvalidAmount
	}

	a := e.account(tx.Client)
	if err := a.CheckFrozen(); err != nil {
		return err
	}
	if err := a.Withdraw(amount); err != nil {
		return err
	}

	e.record(tx)
	return nil
}

func (e *Engine) dispute(tx model.Transaction) error {
	en, a, err := e.lookup(tx.TX)
	if err != nil {
		return err
	}

	// Withdrawals cannot be disputed.
	if en.disputed || en.tx.Type != model.TypeDeposit {
		return ErrInvalidDispute
	}
	if err := a.CheckFrozen(); err != nil {
		return err
	}

	amount := en.tx.AmountOrZero()
	a.DecreaseAvailable(amount).IncreaseHeld(amount)
	en.disputed = true
	return nil
}

// resolve and chargeback are allowed on frozen accounts so disputes opened
// before a freeze can still be settled.
func (e *Engine) resolve(tx model.Transaction) error {
	en, a, err := e.lookup(tx.TX)
	if err != nil {
		return err
	}
	if !en.disputed {
		return ErrInvalidResolve
	}

	amount := en.tx.AmountOrZero()
	a.DecreaseHeld(amount).IncreaseAvailable(amount)

	// A settled transaction can never be disputed again.
	delete(e.history, tx.TX)
	return nil
}

func (e *Engine) chargeback(tx model.Transaction) error {
	en, a, err := e.lookup(tx.TX)
	if err != nil {
		return err
	}
	if !en.disputed {
		return ErrInvalidChargeback
	}

	a.DecreaseHeld(en.tx.AmountOrZero()).Freeze()

	delete(e.history, tx.TX)
	return nil
}

// Accounts returns a snapshot of every known account in no particular order.
func (e *Engine) Accounts() []model.AccountSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]model.AccountSnapshot, 0, len(e.accounts))
	for client, a := range e.accounts {
		out = append(out, a.Snapshot(client))
	}
	return out
}

// SortedAccounts returns the same snapshot as Accounts ordered by client id.
func (e *Engine) SortedAccounts() []model.AccountSnapshot {
	out := e.Accounts()
	sort.Slice(out, func(i, j int) bool {
		return out[i].Client < out[j].Client
	})
	return out
}

// Account returns a snapshot of a single account.
func (e *Engine) Account(client model.ClientID) (model.AccountSnapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.accounts[client]
	if !ok {
		return model.AccountSnapshot{}, false
	}
	return a.Snapshot(client), true
}

// OpenTransactions returns the number of transactions still held in history.
func (e *Engine) OpenTransactions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.history)
}
