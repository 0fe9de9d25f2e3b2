package models

import "bankledger/internal/money"

// User represents a registered identity and its primary balance
type User struct {
	Name         string
	Surname      string
	Phone        string
	IDNumber     string
	Email        string
	Username     string
	PasswordHash string
	Balance      money.Cents
}

// UserUpdate carries a partial update for a user record. Nil fields are left
// untouched. Username and password hash are never updatable through this path.
type UserUpdate struct {
	Name     *string
	Surname  *string
	Phone    *string
	IDNumber *string
	Email    *string
	Balance  *money.Cents
}
