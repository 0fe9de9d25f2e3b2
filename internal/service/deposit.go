package service

import (
	"context"
	"time"

	"bankledger/internal/models"
	"bankledger/internal/money"
)

// Deposit adds amount to the user's primary balance and appends a history
// entry carrying the resulting balance.
func (l *Ledger) Deposit(ctx context.Context, username string, amount money.Cents) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidAmount,
			Message: "deposit amount must be greater than 0",
			Err:     models.ErrInvalidAmount,
		}
	}

	release, err := l.store.AcquireUser(ctx, username)
	if err != nil {
		return nil, fromStoreError(err)
	}
	defer release()

	user, err := l.store.GetUser(username)
	if err != nil {
		return nil, fromStoreError(err)
	}

	newBalance := user.Balance + amount
	if err := l.store.UpdateBalance(username, newBalance); err != nil {
		return nil, fromStoreError(err)
	}

	tx := models.Transaction{
		Timestamp:    time.Now(),
		Type:         models.TransactionTypeDeposit,
		Amount:       amount,
		BalanceAfter: newBalance,
	}
	if err := l.store.LogTransaction(username, tx); err != nil {
		return nil, fromStoreError(err)
	}

	l.logger.Info("deposit",
		"username", username,
		"amount", amount.String(),
		"balance", newBalance.String(),
	)
	return &tx, nil
}
