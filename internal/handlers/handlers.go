// Package handlers implements the thin HTTP facade over the ledger service.
// Handlers parse input, call the service, and translate its error codes to
// HTTP statuses; they hold no business rules of their own.
package handlers

import (
	"log/slog"

	"bankledger/internal/auth"
	"bankledger/internal/service"
)

// Handler carries the dependencies shared by all endpoints.
type Handler struct {
	ledger *service.Ledger
	auth   *auth.Authenticator
	logger *slog.Logger
}

// NewHandler creates a Handler with injected dependencies.
func NewHandler(ledger *service.Ledger, authenticator *auth.Authenticator, logger *slog.Logger) *Handler {
	return &Handler{
		ledger: ledger,
		auth:   authenticator,
		logger: logger,
	}
}
