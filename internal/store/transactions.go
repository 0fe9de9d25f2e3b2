package store

import (
	"path/filepath"
	"time"

	"bankledger/internal/models"
	"bankledger/internal/money"
	"bankledger/internal/record"
	"bankledger/internal/table"
)

// transactionSchema: timestamp,type,amount,detail,balance_after,transfer_id
func transactionSchema() table.Schema[models.Transaction] {
	return table.Schema[models.Transaction]{
		Width: 6,
		// The log is append-only; nothing looks records up by key.
		Key: func(models.Transaction) string { return "" },
		Encode: func(tx models.Transaction) []string {
			return []string{
				tx.Timestamp.Format(models.TimestampLayout),
				string(tx.Type),
				tx.Amount.String(),
				tx.Detail,
				tx.BalanceAfter.String(),
				tx.TransferID,
			}
		},
		Decode: func(fields []string) (models.Transaction, error) {
			ts, err := time.ParseInLocation(models.TimestampLayout, fields[0], time.Local)
			if err != nil {
				return models.Transaction{}, err
			}
			amount, err := money.Parse(fields[2])
			if err != nil {
				return models.Transaction{}, err
			}
			after, err := money.Parse(fields[4])
			if err != nil {
				return models.Transaction{}, err
			}
			return models.Transaction{
				Timestamp:    ts,
				Type:         models.TransactionType(fields[1]),
				Amount:       amount,
				Detail:       fields[3],
				BalanceAfter: after,
				TransferID:   fields[5],
			}, nil
		},
	}
}

func (s *Store) transactionsTable(username string) *table.Table[models.Transaction] {
	return table.New(filepath.Join(s.dir, username+"_transactions.txt"), transactionSchema(), s.logger)
}

// LogTransaction appends one history entry for the user. It never rejects on
// business-logic grounds; validation belongs to the ledger service. The
// detail field is sanitized so free text cannot break the line format.
func (s *Store) LogTransaction(username string, tx models.Transaction) error {
	tx.Detail = record.Sanitize(tx.Detail)
	tbl := s.transactionsTable(username)
	return s.withFileLock(tbl.Path(), func() error {
		return tbl.Append(tx)
	})
}

// History returns the user's transactions in append (chronological) order,
// skipping malformed lines.
func (s *Store) History(username string) ([]models.Transaction, error) {
	return s.transactionsTable(username).Scan()
}

// hasTransferEntry reports whether the user's history already holds an entry
// for the given transfer.
func (s *Store) hasTransferEntry(username, transferID string) (bool, error) {
	history, err := s.History(username)
	if err != nil {
		return false, err
	}
	for _, tx := range history {
		if tx.TransferID == transferID {
			return true, nil
		}
	}
	return false, nil
}
