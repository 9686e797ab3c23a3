package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"
)

// TokenResponse is returned by the sign-in exchange.
type TokenResponse struct {
	Success bool      `json:"success"`
	Token   string    `json:"token,omitempty"`
	Expiry  time.Time `json:"expiry,omitempty"`
	User    User      `json:"user,omitempty"`
	Error   string    `json:"error,omitempty"`
}

type googleExchangeRequest struct {
	AccessToken string `json:"access_token"`
}

// RegisterRoutes mounts the sign-in exchange and the identity endpoint.
// POST /auth/google trades a Google access token for a clilstudio token.
func RegisterRoutes(r chi.Router, issuer *Issuer, userinfoURL string) {
	r.Post("/auth/google", googleExchangeHandler(issuer, userinfoURL))
	r.With(Middleware(issuer)).Get("/auth/me", meHandler())
}

func googleExchangeHandler(issuer *Issuer, userinfoURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req googleExchangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccessToken == "" {
			writeJSON(w, http.StatusBadRequest, TokenResponse{Error: "access_token is required"})
			return
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: req.AccessToken, TokenType: "Bearer"})
		u, err := GoogleUser(r.Context(), userinfoURL, ts)
		if err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, ErrInvalidToken) {
				status = http.StatusUnauthorized
			}
			writeJSON(w, status, TokenResponse{Error: err.Error()})
			return
		}
		token, exp, err := issuer.Issue(u)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, TokenResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, TokenResponse{Success: true, Token: token, Expiry: exp, User: u})
	}
}

func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _ := UserFromContext(r.Context())
		writeJSON(w, http.StatusOK, TokenResponse{Success: true, User: u})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
