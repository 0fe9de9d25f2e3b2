package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"bankledger/internal/models"
	"bankledger/internal/money"
	"bankledger/internal/table"
)

const usersFile = "users.txt"

// usernamePattern is the allowed username charset. Per-user table files are
// named after the username, so anything that could act as a path component
// (separators, leading dots) must never reach filepath.Join.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// userSchema: name,surname,phone,id_number,email,username,password_hash,balance
func userSchema() table.Schema[models.User] {
	return table.Schema[models.User]{
		Width: 8,
		Key:   func(u models.User) string { return u.Username },
		Encode: func(u models.User) []string {
			return []string{
				u.Name, u.Surname, u.Phone, u.IDNumber,
				u.Email, u.Username, u.PasswordHash, u.Balance.String(),
			}
		},
		Decode: func(fields []string) (models.User, error) {
			balance, err := money.Parse(fields[7])
			if err != nil {
				return models.User{}, err
			}
			return models.User{
				Name:         fields[0],
				Surname:      fields[1],
				Phone:        fields[2],
				IDNumber:     fields[3],
				Email:        fields[4],
				Username:     fields[5],
				PasswordHash: fields[6],
				Balance:      balance,
			}, nil
		},
	}
}

func (s *Store) usersTable() *table.Table[models.User] {
	return table.New(filepath.Join(s.dir, usersFile), userSchema(), s.logger)
}

// GetUser retrieves a user by username. Returns ErrNotFound if absent.
func (s *Store) GetUser(username string) (*models.User, error) {
	u, err := s.usersTable().Find(username)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SaveUser appends a new user record with the balance fixed at zero and
// creates the default account. The caller supplies an already-hashed
// credential; this layer treats it as opaque. Fails with ErrInvalidUsername
// for a username outside the allowed charset and ErrDuplicateUser if the
// username is taken. Callers must hold the user's lock so the duplicate
// check and the append form one critical section.
func (s *Store) SaveUser(u *models.User) error {
	if !usernamePattern.MatchString(u.Username) {
		return fmt.Errorf("%w: %q", models.ErrInvalidUsername, u.Username)
	}

	tbl := s.usersTable()
	if _, err := tbl.Find(u.Username); err == nil {
		return fmt.Errorf("%w: %s", models.ErrDuplicateUser, u.Username)
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	rec := *u
	rec.Balance = 0
	if err := s.withFileLock(tbl.Path(), func() error {
		return tbl.Append(rec)
	}); err != nil {
		return err
	}

	return s.createAccount(u.Username, models.DefaultAccountName, 0)
}

// UpdateBalance rewrites the user's record with a new primary balance,
// leaving every other field untouched.
func (s *Store) UpdateBalance(username string, balance money.Cents) error {
	tbl := s.usersTable()
	return s.withFileLock(tbl.Path(), func() error {
		return tbl.ReplaceWhere(username, func(u models.User) models.User {
			u.Balance = balance
			return u
		})
	})
}

// UpdateUser applies a partial update to a user's record. Username and
// password hash are never overwritten through this path regardless of the
// update's contents.
func (s *Store) UpdateUser(username string, upd models.UserUpdate) error {
	tbl := s.usersTable()
	return s.withFileLock(tbl.Path(), func() error {
		return tbl.ReplaceWhere(username, func(u models.User) models.User {
			if upd.Name != nil {
				u.Name = *upd.Name
			}
			if upd.Surname != nil {
				u.Surname = *upd.Surname
			}
			if upd.Phone != nil {
				u.Phone = *upd.Phone
			}
			if upd.IDNumber != nil {
				u.IDNumber = *upd.IDNumber
			}
			if upd.Email != nil {
				u.Email = *upd.Email
			}
			if upd.Balance != nil {
				u.Balance = *upd.Balance
			}
			return u
		})
	})
}
