package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"jot/internal/auth"
)

// AuthService is what the auth endpoints need from the auth layer.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*auth.User, error)
	Authenticate(ctx context.Context, username, password string) (*auth.User, error)
}

type AuthHandler struct {
	Auth AuthService
	JWT  *auth.JWT
}

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResp struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	// the trimmed username is also what gets stored and looked up, so
	// " alice" and "alice" are the same account
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || strings.TrimSpace(req.Password) == "" {
		http.Error(w, "username and password are required", http.StatusUnprocessableEntity)
		return
	}

	u, err := h.Auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			http.Error(w, "username already taken", http.StatusBadRequest)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	token, err := h.JWT.Sign(u.Username)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(authResp{
		Token:   token,
		Message: "user registered successfully",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || strings.TrimSpace(req.Password) == "" {
		http.Error(w, "username and password are required", http.StatusUnprocessableEntity)
		return
	}

	u, err := h.Auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// unknown user and wrong password read the same on purpose
			http.Error(w, "invalid username or password", http.StatusUnauthorized)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	token, err := h.JWT.Sign(u.Username)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(authResp{
		Token:   token,
		Message: "login successful",
	})
}
