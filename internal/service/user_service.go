package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/shoplist-api/internal/config"
	"github.com/phrazzld/shoplist-api/internal/domain"
	"github.com/phrazzld/shoplist-api/internal/platform/logger"
	"github.com/phrazzld/shoplist-api/internal/redact"
	"github.com/phrazzld/shoplist-api/internal/store"
)

// UpdateUserParams carries a profile edit. Empty fields are left unchanged.
type UpdateUserParams struct {
	Username string
	Email    string
	Password string
}

// UserService provides user-related operations for the authenticated user.
type UserService interface {
	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID int64) (*domain.User, error)

	// UpdateUser applies params to the user. The same validation and conflict
	// rules as registration apply, ignoring the user's own row.
	UpdateUser(ctx context.Context, userID int64, params UpdateUserParams) (*domain.User, error)

	// DeleteUser deletes a user together with their lists and items.
	DeleteUser(ctx context.Context, userID int64) error

	// ListUsers searches users by username.
	ListUsers(ctx context.Context, params store.ListParams) ([]*domain.User, int, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	tx        store.Transactor
	hasher     domain.PasswordHasher
	pagination config.PaginationConfig
	logger     *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	tx store.Transactor,
	hasher domain.PasswordHasher,
	pagination config.PaginationConfig,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		tx:        tx,
		hasher:     hasher,
		pagination: pagination,
		logger:     logger.With("component", "user_service"),
	}
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to retrieve user",
			"error", redact.Error(err),
			"user_id", userID)
		return nil, NewServiceError("user", "get", "failed to retrieve user", err)
	}

	return user, nil
}

// UpdateUser validates and applies a profile edit inside a transaction.
// Following the pattern of getting the complete user first, then updating the changed fields.
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	userID int64,
	params UpdateUserParams,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.User
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if params.Username != "" {
			name, err := domain.ValidateName(params.Username, domain.NameContextUser)
			if err != nil {
				return err
			}
			user.Username = name
		}
		if params.Email != "" {
			addr, err := domain.ValidateEmail(params.Email)
			if err != nil {
				return err
			}
			user.Email = addr
		}
		if params.Password != "" {
			if err := domain.ValidatePassword(params.Password); err != nil {
				return err
			}
		}

		if err := ensureAccountAvailable(ctx, txStore, user.Email, user.Username, user.ID); err != nil {
			return err
		}

		if params.Password != "" {
			if err := user.SetPassword(s.hasher, params.Password); err != nil {
				return err
			}
		}

		if err := txStore.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return nil, err
		case store.IsNotFoundError(err):
			return nil, store.ErrUserNotFound
		case errors.Is(err, ErrAccountConflict) || store.IsDuplicateError(err):
			log.Debug("profile update conflict", "user_id", userID)
			return nil, ErrAccountConflict
		}
		log.Error("failed to update user",
			"error", redact.Error(err),
			"user_id", userID)
		return nil, NewServiceError("user", "update", "failed to update user", err)
	}

	log.Info("user updated successfully", "user_id", userID)
	return updated, nil
}

// DeleteUser deletes a user by their ID
func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.userStore.Delete(ctx, userID); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrUserNotFound
		}
		log.Error("failed to delete user",
			"error", redact.Error(err),
			"user_id", userID)
		return NewServiceError("user", "delete", "failed to delete user", err)
	}

	log.Info("user deleted successfully", "user_id", userID)
	return nil
}

// ListUsers searches users by username.
func (s *UserServiceImpl) ListUsers(
	ctx context.Context,
	params store.ListParams,
) ([]*domain.User, int, error) {
	users, total, err := s.userStore.List(ctx, params.Normalize(s.pagination.DefaultLimit, s.pagination.MaxLimit))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users",
			"error", redact.Error(err))
		return nil, 0, NewServiceError("user", "list", "failed to list users", err)
	}
	return users, total, nil
}
