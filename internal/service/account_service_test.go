package service_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/shoplist-api/internal/config"
	"github.com/phrazzld/shoplist-api/internal/domain"
	"github.com/phrazzld/shoplist-api/internal/mocks"
	"github.com/phrazzld/shoplist-api/internal/service"
	"github.com/phrazzld/shoplist-api/internal/service/auth"
	"github.com/phrazzld/shoplist-api/internal/store"
)

var (
	testLogger     = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	testPagination = config.PaginationConfig{DefaultLimit: 10, MaxLimit: 100}
)

type accountFixture struct {
	users  *mocks.MockUserStore
	tx     *mocks.MockTransactor
	hasher *mocks.MockPasswordHasher
	tokens *mocks.MockJWTService
	svc    service.AccountService
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	f := &accountFixture{
		users:  mocks.NewMockUserStore(),
		tx:     &mocks.MockTransactor{},
		hasher: &mocks.MockPasswordHasher{},
		tokens: &mocks.MockJWTService{Token: "signed-token"},
	}
	svc, err := service.NewAccountService(f.users, f.tx, f.hasher, f.tokens, testLogger)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestNewAccountService_RequiresDependencies(t *testing.T) {
	users := mocks.NewMockUserStore()
	tx := &mocks.MockTransactor{}
	hasher := &mocks.MockPasswordHasher{}
	tokens := &mocks.MockJWTService{}

	_, err := service.NewAccountService(nil, tx, hasher, tokens, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewAccountService(users, nil, hasher, tokens, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewAccountService(users, tx, nil, tokens, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewAccountService(users, tx, hasher, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAccountService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("stores hashed password", func(t *testing.T) {
		f := newAccountFixture(t)

		user, err := f.svc.Register(ctx, "  test ", "test@test.com", "test_password")
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.Equal(t, "test", user.Username)
		assert.NotEqual(t, "test_password", user.PasswordHash)
		assert.True(t, f.hasher.Verify("test_password", f.users.Users[user.ID].PasswordHash))
		assert.Equal(t, 1, f.tx.Calls())
	})

	t.Run("same email twice conflicts", func(t *testing.T) {
		f := newAccountFixture(t)

		_, err := f.svc.Register(ctx, "test", "test@test.com", "test_password")
		require.NoError(t, err)

		_, err = f.svc.Register(ctx, "test", "test@test.com", "test_password")
		assert.ErrorIs(t, err, service.ErrAccountConflict)
		assert.Len(t, f.users.Users, 1)
	})

	t.Run("conflict is detected before hashing", func(t *testing.T) {
		f := newAccountFixture(t)
		_, err := f.svc.Register(ctx, "test", "test@test.com", "test_password")
		require.NoError(t, err)

		hashed := 0
		f.hasher.HashFn = func(password string) (string, error) {
			hashed++
			return "mock-digest:" + password, nil
		}

		_, err = f.svc.Register(ctx, "other", "test@test.com", "test_password")
		assert.ErrorIs(t, err, service.ErrAccountConflict)
		assert.Zero(t, hashed)

		_, err = f.svc.Register(ctx, "other", "other@test.com", "test_password")
		require.NoError(t, err)
		assert.Equal(t, 1, hashed)
	})

	t.Run("hasher failure is not a conflict", func(t *testing.T) {
		f := newAccountFixture(t)
		f.hasher.HashFn = func(string) (string, error) {
			return "", errors.New("entropy exhausted")
		}

		_, err := f.svc.Register(ctx, "bob", "bob@example.com", "password123")
		assert.NotErrorIs(t, err, service.ErrAccountConflict)
		var svcErr *service.ServiceError
		assert.ErrorAs(t, err, &svcErr)
		assert.Empty(t, f.users.Users)
	})

	t.Run("username conflict ignores case", func(t *testing.T) {
		f := newAccountFixture(t)

		_, err := f.svc.Register(ctx, "Alice", "alice@example.com", "password123")
		require.NoError(t, err)

		_, err = f.svc.Register(ctx, "ALICE", "other@example.com", "password123")
		assert.ErrorIs(t, err, service.ErrAccountConflict)
	})

	t.Run("unique violation at insert is a conflict", func(t *testing.T) {
		f := newAccountFixture(t)
		f.users.CreateFn = func(ctx context.Context, user *domain.User) error {
			return store.ErrEmailExists
		}

		_, err := f.svc.Register(ctx, "bob", "bob@example.com", "password123")
		assert.ErrorIs(t, err, service.ErrAccountConflict)
	})

	t.Run("validation errors", func(t *testing.T) {
		tests := []struct {
			name     string
			username string
			email    string
			password string
			target   error
		}{
			{"special characters in name", "b@d!", "bad@example.com", "password123", domain.ErrInvalidName},
			{"blank name", "   ", "bad@example.com", "password123", domain.ErrInvalidName},
			{"bad email", "bob", "not-an-email", "password123", domain.ErrInvalidEmail},
			{"short password", "bob", "bob@example.com", "short", domain.ErrInvalidPassword},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newAccountFixture(t)
				_, err := f.svc.Register(ctx, tt.username, tt.email, tt.password)
				assert.ErrorIs(t, err, tt.target)
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.Empty(t, f.users.Users)
			})
		}
	})

	t.Run("unexpected store error is wrapped", func(t *testing.T) {
		f := newAccountFixture(t)
		f.users.GetByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
			return nil, errors.New("connection reset")
		}

		_, err := f.svc.Register(ctx, "bob", "bob@example.com", "password123")
		var svcErr *service.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "register", svcErr.Operation)
	})
}

func TestAccountService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("issues token", func(t *testing.T) {
		f := newAccountFixture(t)
		user, err := f.svc.Register(ctx, "test", "test@test.com", "test_password")
		require.NoError(t, err)

		var issuedFor int64
		f.tokens.GenerateTokenFn = func(ctx context.Context, userID int64) (*auth.IssuedToken, error) {
			issuedFor = userID
			return &auth.IssuedToken{Token: "signed-token"}, nil
		}

		token, err := f.svc.Login(ctx, "TEST@test.com", "test_password")
		require.NoError(t, err)
		assert.Equal(t, "signed-token", token.Token)
		assert.Equal(t, user.ID, issuedFor)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		f := newAccountFixture(t)
		_, err := f.svc.Register(ctx, "test", "test@test.com", "test_password")
		require.NoError(t, err)

		_, wrongPassword := f.svc.Login(ctx, "test@test.com", "wrong_password")
		_, unknownEmail := f.svc.Login(ctx, "nobody@test.com", "test_password")

		assert.ErrorIs(t, wrongPassword, service.ErrInvalidCredentials)
		assert.ErrorIs(t, unknownEmail, service.ErrInvalidCredentials)
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
		assert.Equal(t, 2, f.hasher.VerifyCallCount(), "unknown email still verifies a digest")
	})

	t.Run("token failure is not a credential error", func(t *testing.T) {
		f := newAccountFixture(t)
		_, err := f.svc.Register(ctx, "test", "test@test.com", "test_password")
		require.NoError(t, err)
		f.tokens.Err = auth.ErrMissingSigningKey

		_, err = f.svc.Login(ctx, "test@test.com", "test_password")
		assert.ErrorIs(t, err, auth.ErrMissingSigningKey)
		assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAccountService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the password once", func(t *testing.T) {
		f := newAccountFixture(t)
		user, err := f.svc.Register(ctx, "test", "test@test.com", "test_password")
		require.NoError(t, err)

		password, err := f.svc.ResetPassword(ctx, "test@test.com")
		require.NoError(t, err)
		assert.Len(t, password, auth.GeneratedPasswordLength)

		stored := f.users.Users[user.ID].PasswordHash
		assert.NotContains(t, []string{"", password}, stored)

		_, err = f.svc.Login(ctx, "test@test.com", "test_password")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		_, err = f.svc.Login(ctx, "test@test.com", password)
		assert.NoError(t, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newAccountFixture(t)
		_, err := f.svc.ResetPassword(ctx, "nobody@test.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
