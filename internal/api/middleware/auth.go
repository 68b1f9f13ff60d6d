package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/shoplist-api/internal/api/shared"
	"github.com/phrazzld/shoplist-api/internal/platform/logger"
	"github.com/phrazzld/shoplist-api/internal/redact"
	"github.com/phrazzld/shoplist-api/internal/service/auth"
)

// Messages returned by the gate for rejected requests.
const (
	MsgMissingToken = "No token found! Ensure that the request header has an authorization key value"
	MsgInvalidToken = "Invalid token. Please register or login"
	MsgExpiredToken = "Expired token. Please login to get a new token"
	MsgAuthError    = "Authentication error"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate validates the token in the Authorization header and adds the
// user ID to the request context. Rejected requests never reach next.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.Authorize(r)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgMissingToken, err)
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgExpiredToken, err)
			case errors.Is(err, auth.ErrInvalidToken):
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgInvalidToken, err,
					shared.WithElevatedLogLevel())
			default:
				logger.FromContextOrDefault(r.Context(), m.logger).
					Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, MsgAuthError)
			}
			return
		}

		ctx := shared.WithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize verifies the request's token and returns the subject's user ID.
// It returns auth.ErrMissingToken when the header is absent or blank and
// otherwise whatever the token verifier reports.
func (m *AuthMiddleware) Authorize(r *http.Request) (int64, error) {
	token := tokenFromHeader(r.Header.Get("Authorization"))
	if token == "" {
		return 0, auth.ErrMissingToken
	}

	claims, err := m.jwtService.ValidateToken(r.Context(), token)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// UserIDFromContext extracts the user ID placed by Authenticate.
// Returns the user ID and a boolean indicating if it was found.
func UserIDFromContext(r *http.Request) (int64, bool) {
	return shared.UserIDFromContext(r.Context())
}

// tokenFromHeader accepts both "Bearer <token>" and a bare token.
func tokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if scheme, rest, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}
	if strings.EqualFold(header, "Bearer") {
		return ""
	}
	return header
}
