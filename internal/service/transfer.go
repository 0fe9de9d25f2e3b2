package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"bankledger/internal/models"
	"bankledger/internal/money"
)

// Transfer moves amount from sender's primary balance to recipient's. Both
// usernames are locked in lexicographic order for the whole
// read-validate-write sequence, and the two balance writes are bracketed by
// a journaled intent so a crash between them is recoverable: the sum of the
// two balances is conserved in every outcome.
func (l *Ledger) Transfer(ctx context.Context, sender, recipient string, amount money.Cents) error {
	if amount <= 0 {
		return &ServiceError{
			Code:    ErrCodeInvalidAmount,
			Message: "transfer amount must be greater than 0",
			Err:     models.ErrInvalidAmount,
		}
	}
	if sender == recipient {
		return &ServiceError{
			Code:    ErrCodeSameAccount,
			Message: "sender and recipient are the same user",
		}
	}

	release, err := l.store.AcquireUserPair(ctx, sender, recipient)
	if err != nil {
		return fromStoreError(err)
	}
	defer release()

	from, err := l.store.GetUser(sender)
	if err != nil {
		return fromStoreError(err)
	}

	to, err := l.store.GetUser(recipient)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &ServiceError{
				Code:    ErrCodeRecipientNotFound,
				Message: "recipient username does not exist",
				Err:     models.ErrRecipientNotFound,
			}
		}
		return fromStoreError(err)
	}

	if amount > from.Balance {
		return &ServiceError{
			Code:    ErrCodeInsufficientFunds,
			Message: "insufficient funds",
			Err:     models.ErrInsufficientFunds,
		}
	}

	intent := models.TransferIntent{
		ID:             uuid.New(),
		Sender:         sender,
		Recipient:      recipient,
		Amount:         amount,
		SenderAfter:    from.Balance - amount,
		RecipientAfter: to.Balance + amount,
		Created:        time.Now(),
	}
	if err := l.store.BeginTransfer(intent); err != nil {
		return fromStoreError(err)
	}
	if err := l.store.ApplyTransfer(intent); err != nil {
		// The intent stays journaled; Recover finishes the transfer on the
		// next startup.
		return fromStoreError(err)
	}
	if err := l.store.CompleteTransfer(intent.ID); err != nil {
		return fromStoreError(err)
	}

	l.logger.Info("transfer",
		"id", intent.ID,
		"sender", sender,
		"recipient", recipient,
		"amount", amount.String(),
	)
	return nil
}
