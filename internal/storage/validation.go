package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/payments-engine/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrDuplicateClient = errors.New("duplicate client")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateAccounts rejects snapshots that list the same client twice.
func validateAccounts(accounts []model.AccountSnapshot) error {
	seen := make(map[model.ClientID]struct{}, len(accounts))
	for i, a := range accounts {
		if _, dup := seen[a.Client]; dup {
			return fmt.Errorf("account at index %d: %w: %d", i, ErrDuplicateClient, a.Client)
		}
		seen[a.Client] = struct{}{}
	}
	return nil
}
