package service

import (
	"context"
	"fmt"
	"time"

	"bankledger/internal/models"
	"bankledger/internal/money"
)

// ExternalTransfer sends amount to an account outside the system, charging
// the configured flat fee on top. Amount plus fee leave the sender's primary
// balance; the fee is not credited to any stored account.
func (l *Ledger) ExternalTransfer(ctx context.Context, username, externalRef string, amount money.Cents) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidAmount,
			Message: "transfer amount must be greater than 0",
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

	if amount+l.externalFee > user.Balance {
		return nil, &ServiceError{
			Code:    ErrCodeInsufficientFunds,
			Message: "insufficient funds for this transfer",
			Err:     models.ErrInsufficientFunds,
		}
	}

	newBalance := user.Balance - (amount + l.externalFee)
	if err := l.store.UpdateBalance(username, newBalance); err != nil {
		return nil, fromStoreError(err)
	}

	tx := models.Transaction{
		Timestamp:    time.Now(),
		Type:         models.TransactionTypeExternalTransfer,
		Amount:       amount,
		Detail:       fmt.Sprintf("to %s (fee %s)", externalRef, l.externalFee),
		BalanceAfter: newBalance,
	}
	if err := l.store.LogTransaction(username, tx); err != nil {
		return nil, fromStoreError(err)
	}

	l.logger.Info("external transfer",
		"username", username,
		"external_ref", externalRef,
		"amount", amount.String(),
		"fee", l.externalFee.String(),
		"balance", newBalance.String(),
	)
	return &tx, nil
}
