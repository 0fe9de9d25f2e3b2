package service

import (
	"errors"
	"fmt"

	"bankledger/internal/models"
)

// ServiceError represents a business logic error with a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeInvalidAmount     = "invalid_amount"
	ErrCodeInsufficientFunds = "insufficient_funds"
	ErrCodeUserNotFound      = "user_not_found"
	ErrCodeRecipientNotFound = "recipient_not_found"
	ErrCodeDuplicateUser     = "duplicate_user"
	ErrCodeInvalidUsername   = "invalid_username"
	ErrCodeDuplicateAccount  = "duplicate_account"
	ErrCodeSameAccount       = "same_account"
	ErrCodeBusy              = "busy"
	ErrCodeWriteFailure      = "write_failure"
	ErrCodeInternalError     = "internal_error"
)

// fromStoreError wraps a store error in a ServiceError with the matching code.
func fromStoreError(err error) *ServiceError {
	code := ErrCodeInternalError
	switch {
	case errors.Is(err, models.ErrNotFound):
		code = ErrCodeUserNotFound
	case errors.Is(err, models.ErrDuplicateUser):
		code = ErrCodeDuplicateUser
	case errors.Is(err, models.ErrInvalidUsername):
		code = ErrCodeInvalidUsername
	case errors.Is(err, models.ErrDuplicateAccount):
		code = ErrCodeDuplicateAccount
	case errors.Is(err, models.ErrInvalidAmount):
		code = ErrCodeInvalidAmount
	case errors.Is(err, models.ErrBusy):
		code = ErrCodeBusy
	case errors.Is(err, models.ErrWriteFailure):
		code = ErrCodeWriteFailure
	}
	return &ServiceError{Code: code, Message: err.Error(), Err: err}
}
