package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/shoplist-api/internal/config"
	"github.com/phrazzld/shoplist-api/internal/platform/logger"
)

// MinSigningKeyLength is the shortest accepted HMAC secret.
const MinSigningKeyLength = 32

// hmacJWTService is an implementation of JWTService using HMAC-SHA256 signing.
type hmacJWTService struct {
	signingKey    []byte
	tokenLifetime time.Duration
	timeFunc      func() time.Time // Injectable for testing
	clockSkew     time.Duration    // Leeway when checking exp
}

// jwtCustomClaims is the wire form of a token: an integer subject plus the
// issued-at, expiry and token id registered claims.
type jwtCustomClaims struct {
	UserID    int64            `json:"sub"`
	IssuedAt  *jwt.NumericDate `json:"iat,omitempty"`
	ExpiresAt *jwt.NumericDate `json:"exp,omitempty"`
	ID        string           `json:"jti,omitempty"`
}

var (
	_ JWTService = (*hmacJWTService)(nil)
	_ jwt.Claims = jwtCustomClaims{}
)

func (c jwtCustomClaims) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }
func (c jwtCustomClaims) GetIssuedAt() (*jwt.NumericDate, error)       { return c.IssuedAt, nil }
func (c jwtCustomClaims) GetNotBefore() (*jwt.NumericDate, error)      { return nil, nil }
func (c jwtCustomClaims) GetIssuer() (string, error)                   { return "", nil }
func (c jwtCustomClaims) GetAudience() (jwt.ClaimStrings, error)       { return nil, nil }

func (c jwtCustomClaims) GetSubject() (string, error) {
	return strconv.FormatInt(c.UserID, 10), nil
}

// Option customizes the JWT service.
type Option func(*hmacJWTService)

// WithTimeFunc replaces the clock used for issuing and validating tokens.
func WithTimeFunc(fn func() time.Time) Option {
	return func(s *hmacJWTService) {
		if fn != nil {
			s.timeFunc = fn
		}
	}
}

// NewJWTService creates a new JWT service using HMAC-SHA256 signing.
// The secret is copied once; later changes to cfg have no effect.
func NewJWTService(cfg config.AuthConfig, opts ...Option) (JWTService, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrMissingSigningKey
	}
	if len(cfg.JWTSecret) < MinSigningKeyLength {
		return nil, fmt.Errorf("%w: must be at least %d characters", ErrWeakSigningKey, MinSigningKeyLength)
	}

	lifetime := cfg.TokenLifetime()
	if lifetime <= 0 {
		lifetime = time.Duration(config.DefaultTokenLifetimeMinutes) * time.Minute
	}

	s := &hmacJWTService{
		signingKey:    []byte(cfg.JWTSecret),
		tokenLifetime: lifetime,
		timeFunc:      time.Now,
		clockSkew:     cfg.ClockSkew(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GenerateToken creates a signed JWT for userID.
func (s *hmacJWTService) GenerateToken(ctx context.Context, userID int64) (*IssuedToken, error) {
	log := logger.FromContext(ctx)

	if len(s.signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	now := s.timeFunc()
	expiresAt := now.Add(s.tokenLifetime)

	claims := jwtCustomClaims{
		UserID:    userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign JWT",
			"error", err,
			"user_id", userID,
			"signing_method", jwt.SigningMethodHS256.Name)
		return nil, fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}

	return &IssuedToken{Token: signedToken, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// ValidateToken validates a JWT and returns its claims if valid.
// The signature is checked before the expiry, so a forged token is reported
// as invalid even when its exp is in the past.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)

	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	now := s.timeFunc()
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}

	claims := &jwtCustomClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired", "error", err)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			log.Debug("token validation failed: malformed token", "error", err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			log.Debug("token validation failed: invalid signature", "error", err)
		default:
			log.Debug("token validation failed: other validation error",
				"error", err,
				"error_type", fmt.Sprintf("%T", err))
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.UserID <= 0 || claims.ExpiresAt == nil {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	result := &Claims{
		UserID:    claims.UserID,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}

	log.Debug("token validated successfully",
		"user_id", claims.UserID,
		"token_id", claims.ID,
		"expiry", claims.ExpiresAt.Time)

	return result, nil
}
