package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires all routes and middleware.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		h.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/dashboard", h.Dashboard)
		r.Get("/profile", h.Profile)
		r.Put("/profile", h.UpdateProfile)
		r.Post("/deposit", h.Deposit)
		r.Post("/withdraw", h.Withdraw)
		r.Post("/transfer", h.Transfer)
		r.Post("/send-money", h.SendMoney)
		r.Get("/accounts", h.Accounts)
		r.Post("/accounts", h.CreateAccount)
		r.Get("/transactions", h.Transactions)
	})

	return r
}
