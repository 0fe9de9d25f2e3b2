package store

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"bankledger/internal/models"
	"bankledger/internal/money"
	"bankledger/internal/table"
)

const journalFile = "transfer_journal.txt"

// journalSchema: id,sender,recipient,amount,sender_after,recipient_after,created
func journalSchema() table.Schema[models.TransferIntent] {
	return table.Schema[models.TransferIntent]{
		Width: 7,
		Key:   func(e models.TransferIntent) string { return e.ID.String() },
		Encode: func(e models.TransferIntent) []string {
			return []string{
				e.ID.String(),
				e.Sender,
				e.Recipient,
				e.Amount.String(),
				e.SenderAfter.String(),
				e.RecipientAfter.String(),
				e.Created.Format(models.TimestampLayout),
			}
		},
		Decode: func(fields []string) (models.TransferIntent, error) {
			id, err := uuid.Parse(fields[0])
			if err != nil {
				return models.TransferIntent{}, err
			}
			amount, err := money.Parse(fields[3])
			if err != nil {
				return models.TransferIntent{}, err
			}
			senderAfter, err := money.Parse(fields[4])
			if err != nil {
				return models.TransferIntent{}, err
			}
			recipientAfter, err := money.Parse(fields[5])
			if err != nil {
				return models.TransferIntent{}, err
			}
			created, err := time.ParseInLocation(models.TimestampLayout, fields[6], time.Local)
			if err != nil {
				return models.TransferIntent{}, err
			}
			return models.TransferIntent{
				ID:             id,
				Sender:         fields[1],
				Recipient:      fields[2],
				Amount:         amount,
				SenderAfter:    senderAfter,
				RecipientAfter: recipientAfter,
				Created:        created,
			}, nil
		},
	}
}

func (s *Store) journalTable() *table.Table[models.TransferIntent] {
	return table.New(filepath.Join(s.dir, journalFile), journalSchema(), s.logger)
}

// BeginTransfer records a transfer intent durably before any balance write.
func (s *Store) BeginTransfer(intent models.TransferIntent) error {
	tbl := s.journalTable()
	return s.withFileLock(tbl.Path(), func() error {
		return tbl.Append(intent)
	})
}

// CompleteTransfer removes a finished intent from the journal.
func (s *Store) CompleteTransfer(id uuid.UUID) error {
	tbl := s.journalTable()
	return s.withFileLock(tbl.Path(), func() error {
		err := tbl.DeleteWhere(id.String())
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	})
}

// PendingTransfers lists intents that were begun but never completed.
func (s *Store) PendingTransfers() ([]models.TransferIntent, error) {
	return s.journalTable().Scan()
}

// Recover finishes any transfer that was interrupted by a crash between its
// balance writes. Each intent carries absolute post-transfer balances, so
// re-applying it cannot create or destroy money no matter how far the
// original attempt got. Called once at process start, before the store is
// handed to request traffic.
func (s *Store) Recover() error {
	pending, err := s.PendingTransfers()
	if err != nil {
		return err
	}
	for _, intent := range pending {
		s.logger.Info("recovering interrupted transfer",
			"id", intent.ID,
			"sender", intent.Sender,
			"recipient", intent.Recipient,
			"amount", intent.Amount.String(),
		)
		if err := s.ApplyTransfer(intent); err != nil {
			return err
		}
		if err := s.CompleteTransfer(intent.ID); err != nil {
			return err
		}
	}
	return nil
}

// ApplyTransfer performs the two balance writes and two history appends of a
// journaled transfer. The whole operation is idempotent: the balance writes
// are absolute, taken from the intent, and each history entry carries the
// intent ID and is skipped if a prior attempt already wrote it.
func (s *Store) ApplyTransfer(intent models.TransferIntent) error {
	if err := s.UpdateBalance(intent.Sender, intent.SenderAfter); err != nil {
		return err
	}
	if err := s.UpdateBalance(intent.Recipient, intent.RecipientAfter); err != nil {
		return err
	}

	id := intent.ID.String()
	now := time.Now()

	logged, err := s.hasTransferEntry(intent.Sender, id)
	if err != nil {
		return err
	}
	if !logged {
		out := models.Transaction{
			Timestamp:    now,
			Type:         models.TransactionTypeTransferOut,
			Amount:       intent.Amount,
			Detail:       "to " + intent.Recipient,
			BalanceAfter: intent.SenderAfter,
			TransferID:   id,
		}
		if err := s.LogTransaction(intent.Sender, out); err != nil {
			return err
		}
	}

	logged, err = s.hasTransferEntry(intent.Recipient, id)
	if err != nil {
		return err
	}
	if !logged {
		in := models.Transaction{
			Timestamp:    now,
			Type:         models.TransactionTypeTransferIn,
			Amount:       intent.Amount,
			Detail:       "from " + intent.Sender,
			BalanceAfter: intent.RecipientAfter,
			TransferID:   id,
		}
		if err := s.LogTransaction(intent.Recipient, in); err != nil {
			return err
		}
	}
	return nil
}
