package handlers

import (
	"net/http"

	"bankledger/internal/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Phone    string `json:"phone"`
	IDNumber string `json:"id_number"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Register hashes the credential and stores the new user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, "invalid_body", "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		h.badRequest(w, "invalid_body", "username and password are required")
		return
	}

	hash, err := h.auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "error", err)
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorBody{Code: "internal_error", Message: "failed to process registration"},
		})
		return
	}

	user := &models.User{
		Name:         req.Name,
		Surname:      req.Surname,
		Phone:        req.Phone,
		IDNumber:     req.IDNumber,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := h.ledger.Register(r.Context(), user); err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]string{"username": req.Username})
}

// Login checks the credential and issues a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, "invalid_body", "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		h.badRequest(w, "invalid_body", "username and password are required")
		return
	}

	user, err := h.ledger.GetUser(r.Context(), req.Username)
	if err != nil || !h.auth.CheckPassword(user.PasswordHash, req.Password) {
		h.respondJSON(w, http.StatusUnauthorized, errorResponse{
			Error: errorBody{Code: "unauthorized", Message: "invalid username or password"},
		})
		return
	}

	token, err := h.auth.IssueToken(req.Username)
	if err != nil {
		h.logger.Error("failed to sign token", "error", err)
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorBody{Code: "internal_error", Message: "failed to create token"},
		})
		return
	}

	h.respondJSON(w, http.StatusOK, loginResponse{Token: token})
}
