package handlers

import (
	"net/http"
)

type createAccountRequest struct {
	Name           string `json:"name"`
	InitialBalance string `json:"initial_balance"`
}

type accountResponse struct {
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

type accountsResponse struct {
	Accounts []accountResponse `json:"accounts"`
	Total    string            `json:"total"`
}

// Accounts lists the caller's named accounts and their total.
func (h *Handler) Accounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := usernameFrom(ctx)

	accounts, err := h.ledger.ListAccounts(ctx, username)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	total, err := h.ledger.TotalBalance(ctx, username)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	out := accountsResponse{Accounts: make([]accountResponse, 0, len(accounts)), Total: total.String()}
	for _, a := range accounts {
		out.Accounts = append(out.Accounts, accountResponse{Name: a.Name, Balance: a.Balance.String()})
	}
	h.respondJSON(w, http.StatusOK, out)
}

// CreateAccount adds a named account for the caller.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, "invalid_body", "invalid request body")
		return
	}
	if req.Name == "" {
		h.badRequest(w, "invalid_body", "account name is required")
		return
	}
	initial, ok := h.parseAmount(w, req.InitialBalance)
	if !ok {
		return
	}

	username := usernameFrom(r.Context())
	if err := h.ledger.CreateAccount(r.Context(), username, req.Name, initial); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, accountResponse{Name: req.Name, Balance: initial.String()})
}
