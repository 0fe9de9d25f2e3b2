package handlers

import (
	"net/http"

	"bankledger/internal/models"
	"bankledger/internal/money"
)

type amountRequest struct {
	Amount string `json:"amount"`
}

type transferRequest struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

type sendMoneyRequest struct {
	ExternalAccount string `json:"external_account"`
	Amount          string `json:"amount"`
}

type transactionResponse struct {
	Timestamp    string `json:"timestamp"`
	Type         string `json:"type"`
	Amount       string `json:"amount"`
	Detail       string `json:"detail"`
	BalanceAfter string `json:"balance_after"`
}

func toTransactionResponse(tx *models.Transaction) transactionResponse {
	return transactionResponse{
		Timestamp:    tx.Timestamp.Format(models.TimestampLayout),
		Type:         string(tx.Type),
		Amount:       tx.Amount.String(),
		Detail:       tx.Detail,
		BalanceAfter: tx.BalanceAfter.String(),
	}
}

func (h *Handler) parseAmount(w http.ResponseWriter, raw string) (money.Cents, bool) {
	amount, err := money.Parse(raw)
	if err != nil {
		h.badRequest(w, "invalid_amount", "amount must be a decimal number with at most two fraction digits")
		return 0, false
	}
	return amount, true
}

// Dashboard returns the caller's primary balance.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	username := usernameFrom(r.Context())
	user, err := h.ledger.GetUser(r.Context(), username)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{
		"username": user.Username,
		"balance":  user.Balance.String(),
	})
}

// Deposit adds money to the caller's primary balance.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, "invalid_body", "invalid request body")
		return
	}
	amount, ok := h.parseAmount(w, req.Amount)
	if !ok {
		return
	}

	tx, err := h.ledger.Deposit(r.Context(), usernameFrom(r.Context()), amount)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toTransactionResponse(tx))
}

// Withdraw removes money from the caller's primary balance.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, "invalid_body", "invalid request body")
		return
	}
	amount, ok := h.parseAmount(w, req.Amount)
	if !ok {
		return
	}

	tx, err := h.ledger.Withdraw(r.Context(), usernameFrom(r.Context()), amount)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toTransactionResponse(tx))
}

// Transfer moves money to another user.
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, "invalid_body", "invalid request body")
		return
	}
	if req.Recipient == "" {
		h.badRequest(w, "invalid_body", "recipient is required")
		return
	}
	amount, ok := h.parseAmount(w, req.Amount)
	if !ok {
		return
	}

	sender := usernameFrom(r.Context())
	if err := h.ledger.Transfer(r.Context(), sender, req.Recipient, amount); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{
		"recipient": req.Recipient,
		"amount":    amount.String(),
	})
}

// SendMoney performs an external transfer with the flat fee.
func (h *Handler) SendMoney(w http.ResponseWriter, r *http.Request) {
	var req sendMoneyRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, "invalid_body", "invalid request body")
		return
	}
	if req.ExternalAccount == "" {
		h.badRequest(w, "invalid_body", "external_account is required")
		return
	}
	amount, ok := h.parseAmount(w, req.Amount)
	if !ok {
		return
	}

	tx, err := h.ledger.ExternalTransfer(r.Context(), usernameFrom(r.Context()), req.ExternalAccount, amount)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toTransactionResponse(tx))
}

// Transactions returns the caller's history in chronological order.
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	history, err := h.ledger.History(r.Context(), usernameFrom(r.Context()))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	out := make([]transactionResponse, 0, len(history))
	for i := range history {
		out = append(out, toTransactionResponse(&history[i]))
	}
	h.respondJSON(w, http.StatusOK, out)
}
