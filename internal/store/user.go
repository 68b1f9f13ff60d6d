package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/shoplist-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user and sets its ID and timestamps.
	// Returns ErrEmailExists or ErrUsernameExists when a unique constraint fires.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by email, ignoring case.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByUsername retrieves a user by username, ignoring case.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update writes username, email and password hash for an existing user.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) error

	// UpdatePasswordHash replaces only the stored credential.
	// Returns ErrUserNotFound if the user does not exist.
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error

	// Delete removes a user and, through cascading foreign keys, their lists and items.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id int64) error

	// List returns a page of users whose username contains params.Query,
	// along with the total number of matches.
	List(ctx context.Context, params ListParams) ([]*domain.User, int, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
