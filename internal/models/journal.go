package models

import (
	"time"

	"github.com/google/uuid"

	"bankledger/internal/money"
)

// TransferIntent is a durable record of an in-flight two-user transfer. It is
// written before the first balance write and removed once both balances and
// both history entries are on disk. The balances it carries are absolute
// post-transfer values, so applying an intent twice is harmless.
type TransferIntent struct {
	ID             uuid.UUID
	Sender         string
	Recipient      string
	Amount         money.Cents
	SenderAfter    money.Cents
	RecipientAfter money.Cents
	Created        time.Time
}
