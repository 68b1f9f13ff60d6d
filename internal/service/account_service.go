package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/phrazzld/shoplist-api/internal/domain"
	"github.com/phrazzld/shoplist-api/internal/platform/logger"
	"github.com/phrazzld/shoplist-api/internal/redact"
	"github.com/phrazzld/shoplist-api/internal/service/auth"
	"github.com/phrazzld/shoplist-api/internal/store"
)

// timingPassword is hashed once and verified against when a login names an
// unknown email, so both failure paths cost one hash verification.
const timingPassword = "not-a-real-password-for-timing"

// AccountService provides registration, login and password reset.
type AccountService interface {
	// Register validates the input, checks that neither the email nor the
	// case-insensitive username is taken, and stores a new user.
	// Returns a domain validation error or ErrAccountConflict.
	Register(ctx context.Context, username, email, password string) (*domain.User, error)

	// Login verifies the credentials and issues a token for the user.
	// Every credential failure is reported as ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*auth.IssuedToken, error)

	// ResetPassword replaces the password of the user with email by a freshly
	// generated one and returns the new plaintext. It is never stored or logged.
	// Returns store.ErrUserNotFound for an unknown email.
	ResetPassword(ctx context.Context, email string) (string, error)
}

type accountServiceImpl struct {
	users  store.UserStore
	tx     store.Transactor
	hasher auth.PasswordHasher
	tokens auth.JWTService
	logger *slog.Logger

	timingOnce   sync.Once
	timingDigest string
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	users store.UserStore,
	tx store.Transactor,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	logger *slog.Logger,
) (AccountService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &accountServiceImpl{
		users:  users,
		tx:     tx,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With(slog.String("component", "account_service")),
	}, nil
}

// Register implements AccountService.Register
func (s *accountServiceImpl) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	name, addr, err := validateRegistration(username, email, password)
	if err != nil {
		log.Debug("registration rejected", slog.String("error", redact.Error(err)))
		return nil, err
	}

	// The password is hashed only once the account is known to be free.
	var user *domain.User
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		if err := ensureAccountAvailable(ctx, users, addr, name, 0); err != nil {
			return err
		}
		var err error
		if user, err = domain.NewUser(name, addr, password, s.hasher); err != nil {
			return err
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		// The unique constraints catch registrations that raced past the pre-check.
		if errors.Is(err, ErrAccountConflict) || store.IsDuplicateError(err) {
			log.Debug("registration conflict", slog.String("email", redact.Email(addr)))
			return nil, ErrAccountConflict
		}
		log.Error("failed to register user", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("account", "register", "failed to save user", err)
	}

	log.Info("user registered", slog.Int64("user_id", user.ID))
	return user, nil
}

// validateRegistration checks the registration fields without hashing and
// returns the trimmed username and email.
func validateRegistration(username, email, password string) (string, string, error) {
	name, err := domain.ValidateName(username, domain.NameContextUser)
	if err != nil {
		return "", "", err
	}
	addr, err := domain.ValidateEmail(email)
	if err != nil {
		return "", "", err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return "", "", err
	}
	return name, addr, nil
}

// Login implements AccountService.Login
func (s *accountServiceImpl) Login(ctx context.Context, email, password string) (*auth.IssuedToken, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if store.IsNotFoundError(err) {
			s.hasher.Verify(password, s.timingHash())
			log.Debug("login for unknown email", slog.String("email", redact.Email(email)))
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user for login", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("account", "login", "failed to look up user", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		log.Debug("login with wrong password", slog.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue token",
			slog.Int64("user_id", user.ID),
			slog.String("error", redact.Error(err)))
		return nil, NewServiceError("account", "login", "failed to issue token", err)
	}

	log.Info("user logged in", slog.Int64("user_id", user.ID))
	return token, nil
}

// ResetPassword implements AccountService.ResetPassword
func (s *accountServiceImpl) ResetPassword(ctx context.Context, email string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if store.IsNotFoundError(err) {
			return "", store.ErrUserNotFound
		}
		log.Error("failed to look up user for reset", slog.String("error", redact.Error(err)))
		return "", NewServiceError("account", "reset_password", "failed to look up user", err)
	}

	password, err := auth.GeneratePassword()
	if err != nil {
		return "", NewServiceError("account", "reset_password", "failed to generate password", err)
	}
	if err := user.SetPassword(s.hasher, password); err != nil {
		return "", NewServiceError("account", "reset_password", "failed to hash password", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, user.ID, user.PasswordHash); err != nil {
		if store.IsNotFoundError(err) {
			return "", store.ErrUserNotFound
		}
		log.Error("failed to store reset password",
			slog.Int64("user_id", user.ID),
			slog.String("error", redact.Error(err)))
		return "", NewServiceError("account", "reset_password", "failed to save password", err)
	}

	log.Info("password reset", slog.Int64("user_id", user.ID))
	return password, nil
}

func (s *accountServiceImpl) timingHash() string {
	s.timingOnce.Do(func() {
		digest, err := s.hasher.Hash(timingPassword)
		if err != nil {
			s.logger.Warn("failed to prepare timing digest", slog.String("error", err.Error()))
			return
		}
		s.timingDigest = digest
	})
	return s.timingDigest
}

// ensureAccountAvailable reports ErrAccountConflict when email or username
// belongs to a user other than selfID. Zero means no user is excluded.
func ensureAccountAvailable(ctx context.Context, users store.UserStore, email, username string, selfID int64) error {
	if email != "" {
		existing, err := users.GetByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != selfID:
			return ErrAccountConflict
		case err != nil && !store.IsNotFoundError(err):
			return err
		}
	}

	if username != "" {
		existing, err := users.GetByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != selfID:
			return ErrAccountConflict
		case err != nil && !store.IsNotFoundError(err):
			return err
		}
	}

	return nil
}
