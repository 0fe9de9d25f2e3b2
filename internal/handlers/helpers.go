package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bankledger/internal/service"
)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// respondServiceError maps a service error code onto an HTTP status.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var svcErr *service.ServiceError
	if !errors.As(err, &svcErr) {
		h.logger.Error("unexpected error", "error", err)
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorBody{Code: service.ErrCodeInternalError, Message: "internal error"},
		})
		return
	}

	status := http.StatusInternalServerError
	switch svcErr.Code {
	case service.ErrCodeInvalidAmount, service.ErrCodeSameAccount, service.ErrCodeInvalidUsername:
		status = http.StatusBadRequest
	case service.ErrCodeInsufficientFunds:
		status = http.StatusPaymentRequired
	case service.ErrCodeUserNotFound, service.ErrCodeRecipientNotFound:
		status = http.StatusNotFound
	case service.ErrCodeDuplicateUser, service.ErrCodeDuplicateAccount:
		status = http.StatusConflict
	case service.ErrCodeBusy:
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("operation failed", "code", svcErr.Code, "error", svcErr)
	}
	h.respondJSON(w, status, errorResponse{
		Error: errorBody{Code: svcErr.Code, Message: svcErr.Message},
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, code, message string) {
	h.respondJSON(w, http.StatusBadRequest, errorResponse{
		Error: errorBody{Code: code, Message: message},
	})
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
