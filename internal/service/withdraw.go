package service

import (
	"context"
	"time"

	"bankledger/internal/models"
	"bankledger/internal/money"
)

// Withdraw removes amount from the user's primary balance. The balance never
// goes negative: a withdrawal exceeding it fails with insufficient_funds and
// leaves the stored state untouched.
func (l *Ledger) Withdraw(ctx context.Context, username string, amount money.Cents) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidAmount,
			Message: "withdrawal amount must be greater than 0",
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

	if amount > user.Balance {
		return nil, &ServiceError{
			Code:    ErrCodeInsufficientFunds,
			Message: "insufficient funds",
			Err:     models.ErrInsufficientFunds,
		}
	}

	newBalance := user.Balance - amount
	if err := l.store.UpdateBalance(username, newBalance); err != nil {
		return nil, fromStoreError(err)
	}

	tx := models.Transaction{
		Timestamp:    time.Now(),
		Type:         models.TransactionTypeWithdrawal,
		Amount:       amount,
		BalanceAfter: newBalance,
	}
	if err := l.store.LogTransaction(username, tx); err != nil {
		return nil, fromStoreError(err)
	}

	l.logger.Info("withdrawal",
		"username", username,
		"amount", amount.String(),
		"balance", newBalance.String(),
	)
	return &tx, nil
}
