package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hanhanxue/260110-personal-budget/internal/api/middleware"
)

// AuthHandler serves the password gate the UI unlocks itself with. There
// are no sessions or tokens: the same shared password travels with every
// write request afterwards.
type AuthHandler struct {
	password   string
	production bool
}

// NewAuthHandler creates the password-check handler.
func NewAuthHandler(password string, production bool) *AuthHandler {
	return &AuthHandler{password: password, production: production}
}

// Verify handles POST /api/auth with body {"password": "..."}.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if h.password == "" {
		if h.production {
			middleware.WriteError(w, http.StatusInternalServerError,
				"Password protection is not configured. Please set APP_PASSWORD environment variable.")
			return
		}
		// Development convenience: no password configured means the gate
		// is open.
		middleware.WriteData(w, http.StatusOK, map[string]bool{"authenticated": true})
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if body.Password != h.password {
		middleware.WriteError(w, http.StatusUnauthorized, "Incorrect password")
		return
	}

	middleware.WriteData(w, http.StatusOK, map[string]bool{"authenticated": true})
}
