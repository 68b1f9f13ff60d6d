package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/shoplist-api/internal/api/shared"
	"github.com/phrazzld/shoplist-api/internal/platform/logger"
	"github.com/phrazzld/shoplist-api/internal/redact"
	"github.com/phrazzld/shoplist-api/internal/service"
)

// AuthHandler handles the public account endpoints.
type AuthHandler struct {
	accounts service.AccountService
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(accounts service.AccountService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		accounts: accounts,
		logger:   logger.With(slog.String("handler", "auth")),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("email", redact.Email(user.Email)))

	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		Message: "Registered successfully, please log in.",
		Status:  "Registered",
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			logger.FromContextOrDefault(r.Context(), h.logger).Error("login failed",
				slog.String("error", redact.Error(err)))
		}
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Message:   "You logged in successfully.",
		Status:    "Logged in!",
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	})
}

// ResetPassword handles POST /auth/reset_password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	password, err := h.accounts.ResetPassword(r.Context(), req.Email)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ResetPasswordResponse{
		Message:  "Password reset successfully. Use the new password to log in.",
		Password: password,
	})
}
