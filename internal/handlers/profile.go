package handlers

import (
	"net/http"

	"bankledger/internal/models"
)

type updateProfileRequest struct {
	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	Phone    *string `json:"phone"`
	IDNumber *string `json:"id_number"`
	Email    *string `json:"email"`
}

type profileResponse struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Phone    string `json:"phone"`
	IDNumber string `json:"id_number"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Profile returns the caller's identity fields.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.ledger.GetUser(r.Context(), usernameFrom(r.Context()))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, profileResponse{
		Name:     user.Name,
		Surname:  user.Surname,
		Phone:    user.Phone,
		IDNumber: user.IDNumber,
		Email:    user.Email,
		Username: user.Username,
	})
}

// UpdateProfile applies a partial update to the caller's identity fields.
// Username, password, and balance are not updatable here.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		h.badRequest(w, "invalid_body", "invalid request body")
		return
	}

	upd := models.UserUpdate{
		Name:     req.Name,
		Surname:  req.Surname,
		Phone:    req.Phone,
		IDNumber: req.IDNumber,
		Email:    req.Email,
	}
	username := usernameFrom(r.Context())
	if err := h.ledger.UpdateProfile(r.Context(), username, upd); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"username": username})
}
