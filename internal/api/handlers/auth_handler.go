package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"quartermaster/internal/api/response"
	"quartermaster/internal/auth"
	"quartermaster/internal/config"
)

type AuthHandler struct {
	jwtMgr       *auth.JWTManager
	adminEmail   string
	passwordHash []byte
	log          *slog.Logger
}

// NewAuthHandler hashes the configured admin password once so login never
// handles it in the clear.
func NewAuthHandler(jwtMgr *auth.JWTManager, cfg config.AuthConfig, log *slog.Logger) (*AuthHandler, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{
		jwtMgr:       jwtMgr,
		adminEmail:   cfg.AdminEmail,
		passwordHash: hash,
		log:          log,
	}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email != h.adminEmail ||
		bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password)) != nil {
		h.log.Warn("failed login attempt", "email", req.Email)
		response.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, expiresAt, err := h.jwtMgr.Generate(req.Email)
	if err != nil {
		h.log.Error("failed to generate token", "error", err)
		response.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	response.JSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expiresAt})
}

// Refresh exchanges a still-valid token for a fresh one.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if header == "" || token == header {
		response.Error(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	claims, err := h.jwtMgr.Validate(token)
	if err != nil {
		response.Error(w, http.StatusUnauthorized, "invalid token")
		return
	}

	fresh, expiresAt, err := h.jwtMgr.Generate(claims.Subject)
	if err != nil {
		h.log.Error("failed to generate token", "error", err)
		response.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	response.JSON(w, http.StatusOK, tokenResponse{Token: fresh, ExpiresAt: expiresAt})
}
