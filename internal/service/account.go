package service

import (
	"context"

	"bankledger/internal/money"
)

// CreateAccount adds a named account for the user. The uniqueness check and
// the append run under the user's lock as one critical section.
func (l *Ledger) CreateAccount(ctx context.Context, username, name string, initial money.Cents) error {
	release, err := l.store.AcquireUser(ctx, username)
	if err != nil {
		return fromStoreError(err)
	}
	defer release()

	if err := l.store.CreateAccount(username, name, initial); err != nil {
		return fromStoreError(err)
	}

	l.logger.Info("account created",
		"username", username,
		"account", name,
		"initial_balance", initial.String(),
	)
	return nil
}
