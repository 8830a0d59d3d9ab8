package http

import (
	"net/http"

	"github.com/blunfr84/Webly/api-gateway/internal/auth"
)

type AuthHandler struct {
	issuer *auth.Issuer
}

func NewAuthHandler(issuer *auth.Issuer) *AuthHandler {
	return &AuthHandler{issuer: issuer}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Token   string    `json:"token,omitempty"`
	User    auth.User `json:"user"`
}

type VerifyRequest struct {
	Token string `json:"token"`
}

type VerifyResponse struct {
	Valid   bool       `json:"valid"`
	Message string     `json:"message,omitempty"`
	User    *auth.User `json:"user,omitempty"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, user, err := h.issuer.Login(req.Username, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "Identifiant ou mot de passe incorrect")
		return
	}

	respondJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Message: "Authentification réussie",
		Token:   token,
		User:    user,
	})
}

// POST /api/auth/verify
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" {
		respondJSON(w, http.StatusBadRequest, VerifyResponse{Message: "Token manquant"})
		return
	}

	user, err := h.issuer.Verify(req.Token)
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, VerifyResponse{Message: "Token invalide ou expiré"})
		return
	}
	respondJSON(w, http.StatusOK, VerifyResponse{Valid: true, User: &user})
}
