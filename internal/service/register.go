package service

import (
	"context"

	"bankledger/internal/models"
)

// Register stores a new user with a zero balance and a default account. The
// password hash is received already computed; this layer never sees the
// plaintext credential.
func (l *Ledger) Register(ctx context.Context, user *models.User) error {
	release, err := l.store.AcquireUser(ctx, user.Username)
	if err != nil {
		return fromStoreError(err)
	}
	defer release()

	if err := l.store.SaveUser(user); err != nil {
		return fromStoreError(err)
	}

	l.logger.Info("user registered", "username", user.Username)
	return nil
}
