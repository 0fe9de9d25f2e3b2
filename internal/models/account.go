package models

import "bankledger/internal/money"

// DefaultAccountName is the account every user receives at registration.
const DefaultAccountName = "Savings"

// Account represents a named sub-ledger belonging to one user. Accounts are
// independent tracking records: the primary balance on the User record is not
// reconciled against them.
type Account struct {
	Name    string
	Balance money.Cents
}
