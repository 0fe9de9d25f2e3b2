package models

import (
	"time"

	"bankledger/internal/money"
)

// TransactionType represents the type of a ledger entry
type TransactionType string

const (
	TransactionTypeDeposit          TransactionType = "deposit"
	TransactionTypeWithdrawal       TransactionType = "withdrawal"
	TransactionTypeTransferOut      TransactionType = "transfer_out"
	TransactionTypeTransferIn       TransactionType = "transfer_in"
	TransactionTypeExternalTransfer TransactionType = "external_transfer"
)

// TimestampLayout is the on-disk format of transaction timestamps.
const TimestampLayout = time.DateTime

// Transaction is an immutable historical fact about one user's primary balance.
// BalanceAfter is the primary balance snapshot immediately following the event.
// TransferID carries the journal intent ID for the two entries of an internal
// transfer, so re-applying an interrupted transfer can tell whether its entries
// were already written. It is empty for every other transaction type.
type Transaction struct {
	Timestamp    time.Time
	Type         TransactionType
	Amount       money.Cents
	Detail       string
	BalanceAfter money.Cents
	TransferID   string
}
