// Package service implements the ledger operations: deposit, withdrawal,
// internal and external transfer, account creation, and registration. It is
// the single entry point for callers; every mutating operation is a
// read-validate-write sequence executed under the store's per-user lock.
//
// Money movement targets the user's primary balance only. Named accounts are
// independent tracking records and are never reconciled against it; whether
// they should be sub-ledgers of the primary balance is an open product
// question.
package service

import (
	"context"
	"log/slog"

	"bankledger/internal/models"
	"bankledger/internal/money"
	"bankledger/internal/store"
)

// Ledger orchestrates multi-record operations over the store.
type Ledger struct {
	store       *store.Store
	externalFee money.Cents
	logger      *slog.Logger
}

// NewLedger creates a Ledger. externalFee is the flat fee charged on
// external transfers.
func NewLedger(st *store.Store, externalFee money.Cents, logger *slog.Logger) *Ledger {
	return &Ledger{
		store:       st,
		externalFee: externalFee,
		logger:      logger,
	}
}

// ExternalFee returns the configured flat fee for external transfers.
func (l *Ledger) ExternalFee() money.Cents {
	return l.externalFee
}

// GetUser retrieves a user by username.
func (l *Ledger) GetUser(ctx context.Context, username string) (*models.User, error) {
	u, err := l.store.GetUser(username)
	if err != nil {
		return nil, fromStoreError(err)
	}
	return u, nil
}

// ListAccounts returns the user's named accounts.
func (l *Ledger) ListAccounts(ctx context.Context, username string) ([]models.Account, error) {
	accounts, err := l.store.ListAccounts(username)
	if err != nil {
		return nil, fromStoreError(err)
	}
	return accounts, nil
}

// TotalBalance returns the sum of the user's account balances. Reporting
// only; transfers are authorized against the primary balance.
func (l *Ledger) TotalBalance(ctx context.Context, username string) (money.Cents, error) {
	total, err := l.store.TotalBalance(username)
	if err != nil {
		return 0, fromStoreError(err)
	}
	return total, nil
}

// History returns the user's transactions in chronological order.
func (l *Ledger) History(ctx context.Context, username string) ([]models.Transaction, error) {
	history, err := l.store.History(username)
	if err != nil {
		return nil, fromStoreError(err)
	}
	return history, nil
}

// UpdateProfile applies a partial update to the user's identity fields.
// Username and password hash cannot be changed through this path.
func (l *Ledger) UpdateProfile(ctx context.Context, username string, upd models.UserUpdate) error {
	release, err := l.store.AcquireUser(ctx, username)
	if err != nil {
		return fromStoreError(err)
	}
	defer release()

	if err := l.store.UpdateUser(username, upd); err != nil {
		return fromStoreError(err)
	}
	return nil
}
