package models

import "errors"

// Domain errors that can be returned by the store and service layers
var (
	// ErrNotFound indicates the requested user or account was not found
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUser indicates a user with the same username already exists
	ErrDuplicateUser = errors.New("duplicate user")

	// ErrInvalidUsername indicates a username outside the allowed charset.
	// Usernames name per-user table files, so the charset must not be able
	// to influence file paths.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrDuplicateAccount indicates the user already has an account with that name
	ErrDuplicateAccount = errors.New("duplicate account")

	// ErrInvalidAmount indicates a non-positive or otherwise out-of-range amount
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds indicates the operation would drive a balance negative
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrRecipientNotFound indicates the transfer target does not exist
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrMalformedRecord indicates a stored line does not parse to the expected schema
	ErrMalformedRecord = errors.New("malformed record")

	// ErrWriteFailure indicates a durable write could not complete; the prior
	// on-disk state is left intact
	ErrWriteFailure = errors.New("write failure")

	// ErrBusy indicates a per-key lock could not be acquired within the allowed wait
	ErrBusy = errors.New("busy")
)
