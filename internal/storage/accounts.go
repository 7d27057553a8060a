package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/payments-engine/internal/common"
	"github.com/Veraticus/payments-engine/internal/model"
	"github.com/Veraticus/payments-engine/internal/report"
)

// SaveAccounts replaces every stored account with the given snapshot. Errors
// caused by another connection holding the database are marked retryable.
func (s *SQLiteStorage) SaveAccounts(ctx context.Context, accounts []model.AccountSnapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccounts(accounts); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return markBusy(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveAccountsTx(ctx, tx, accounts); err != nil {
		return markBusy(err)
	}

	if err := tx.Commit(); err != nil {
		return markBusy(fmt.Errorf("failed to commit accounts: %w", err))
	}

	slog.Debug("Exported accounts", "count", len(accounts), "path", s.dbPath)
	return nil
}

// markBusy wraps SQLITE_BUSY and SQLITE_LOCKED failures in a retryable error.
func markBusy(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		return &common.RetryableError{Err: err, Retryable: true}
	}
	return err
}

func (s *SQLiteStorage) saveAccountsTx(ctx context.Context, tx *sql.Tx, accounts []model.AccountSnapshot) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("failed to clear accounts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO accounts (client, available, held, total, locked, exported_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range accounts {
		_, err = stmt.ExecContext(ctx,
			int64(a.Client),
			report.FormatAmount(a.Available),
			report.FormatAmount(a.Held),
			report.FormatAmount(a.Total),
			a.Locked,
		)
		if err != nil {
			return fmt.Errorf("failed to insert account %d: %w", a.Client, err)
		}
	}

	return nil
}

// GetAccounts returns every stored account ordered by client id.
func (s *SQLiteStorage) GetAccounts(ctx context.Context) ([]model.AccountSnapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT client, available, held, total, locked
		FROM accounts
		ORDER BY client
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.AccountSnapshot
	for rows.Next() {
		var (
			client                 int64
			available, held, total string
			locked                 bool
		)
		if err := rows.Scan(&client, &available, &held, &total, &locked); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}

		a := model.AccountSnapshot{Client: model.ClientID(client), Locked: locked}
		if a.Available, err = decimal.NewFromString(available); err != nil {
			return nil, fmt.Errorf("account %d: invalid available %q: %w", client, available, err)
		}
		if a.Held, err = decimal.NewFromString(held); err != nil {
			return nil, fmt.Errorf("account %d: invalid held %q: %w", client, held, err)
		}
		if a.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("account %d: invalid total %q: %w", client, total, err)
		}
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}
