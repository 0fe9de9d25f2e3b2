package store

import (
	"errors"
	"fmt"
	"path/filepath"

	"bankledger/internal/models"
	"bankledger/internal/money"
	"bankledger/internal/table"
)

// accountSchema: account_name,balance
func accountSchema() table.Schema[models.Account] {
	return table.Schema[models.Account]{
		Width: 2,
		Key:   func(a models.Account) string { return a.Name },
		Encode: func(a models.Account) []string {
			return []string{a.Name, a.Balance.String()}
		},
		Decode: func(fields []string) (models.Account, error) {
			balance, err := money.Parse(fields[1])
			if err != nil {
				return models.Account{}, err
			}
			return models.Account{Name: fields[0], Balance: balance}, nil
		},
	}
}

func (s *Store) accountsTable(username string) *table.Table[models.Account] {
	return table.New(filepath.Join(s.dir, username+"_accounts.txt"), accountSchema(), s.logger)
}

// ListAccounts returns all accounts for the user, in file order. A user with
// no accounts file yet has an empty list, not an error.
func (s *Store) ListAccounts(username string) ([]models.Account, error) {
	return s.accountsTable(username).Scan()
}

// CreateAccount adds a named account for the user. Fails with
// ErrInvalidAmount for a negative initial balance and ErrDuplicateAccount if
// the name is already in use (case-sensitive). Callers must hold the user's
// lock so the uniqueness check and the append form one critical section.
func (s *Store) CreateAccount(username, name string, initial money.Cents) error {
	if initial < 0 {
		return fmt.Errorf("%w: initial balance %s", models.ErrInvalidAmount, initial)
	}
	return s.createAccount(username, name, initial)
}

func (s *Store) createAccount(username, name string, initial money.Cents) error {
	tbl := s.accountsTable(username)
	if _, err := tbl.Find(name); err == nil {
		return fmt.Errorf("%w: %q for user %s", models.ErrDuplicateAccount, name, username)
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}
	return s.withFileLock(tbl.Path(), func() error {
		return tbl.Append(models.Account{Name: name, Balance: initial})
	})
}

// TotalBalance sums the user's account balances. This is a reporting figure;
// money movement is authorized against the primary balance only.
func (s *Store) TotalBalance(username string) (money.Cents, error) {
	accounts, err := s.ListAccounts(username)
	if err != nil {
		return 0, err
	}
	var total money.Cents
	for _, a := range accounts {
		total += a.Balance
	}
	return total, nil
}
