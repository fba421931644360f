package api

import (
	"net/http"

	"github.com/example/storefront/internal/domain/session"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	User    *session.User `json:"user"`
	Message string        `json:"message,omitempty"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	user, err := ws.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, AuthResponse{User: &user, Message: "Login successful"})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	user, err := ws.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, AuthResponse{User: &user, Message: "Registration successful"})
}

// Logout always succeeds.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}
	ws.Logout(r.Context())
	respondJSON(w, http.StatusOK, AuthResponse{Message: "Logged out"})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}
	user, ok := ws.CurrentUser()
	if !ok {
		h.respondError(w, session.ErrNotLoggedIn)
		return
	}
	respondJSON(w, http.StatusOK, AuthResponse{User: &user})
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req session.ProfileUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	user, err := ws.UpdateProfile(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, AuthResponse{User: &user, Message: "Profile updated"})
}
