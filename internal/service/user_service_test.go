package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/shoplist-api/internal/config"
	"github.com/phrazzld/shoplist-api/internal/domain"
	"github.com/phrazzld/shoplist-api/internal/mocks"
	"github.com/phrazzld/shoplist-api/internal/service"
	"github.com/phrazzld/shoplist-api/internal/store"
)

func existingUser(id int64) *domain.User {
	created := time.Now().Add(-24 * time.Hour)
	return &domain.User{
		ID:           id,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "mock-digest:password123",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestUserService_UpdateUser(t *testing.T) {
	ctx := context.Background()
	const userID int64 = 7

	t.Run("successful update", func(t *testing.T) {
		mockUserStore := new(mocks.TestifyMockUserStore)
		user := existingUser(userID)

		mockUserStore.On("GetByID", mock.Anything, userID).Return(user, nil)
		mockUserStore.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, store.ErrUserNotFound)
		mockUserStore.On("GetByUsername", mock.Anything, "alice").Return(user, nil)
		mockUserStore.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.ID == userID &&
				u.Email == "new@example.com" &&
				u.PasswordHash == "mock-digest:password123"
		})).Return(nil)

		svc := service.NewUserService(mockUserStore, &mocks.MockTransactor{}, &mocks.MockPasswordHasher{}, testPagination, testLogger)

		updated, err := svc.UpdateUser(ctx, userID, service.UpdateUserParams{Email: "new@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", updated.Email)
		mockUserStore.AssertExpectations(t)
	})

	t.Run("email taken by another user", func(t *testing.T) {
		mockUserStore := new(mocks.TestifyMockUserStore)
		other := existingUser(8)
		other.Email = "bob@example.com"

		mockUserStore.On("GetByID", mock.Anything, userID).Return(existingUser(userID), nil)
		mockUserStore.On("GetByEmail", mock.Anything, "bob@example.com").Return(other, nil)

		svc := service.NewUserService(mockUserStore, &mocks.MockTransactor{}, &mocks.MockPasswordHasher{}, testPagination, testLogger)

		_, err := svc.UpdateUser(ctx, userID, service.UpdateUserParams{Email: "bob@example.com"})
		assert.ErrorIs(t, err, service.ErrAccountConflict)
		mockUserStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("conflict skips password hashing", func(t *testing.T) {
		mockUserStore := new(mocks.TestifyMockUserStore)
		other := existingUser(8)
		other.Email = "bob@example.com"

		mockUserStore.On("GetByID", mock.Anything, userID).Return(existingUser(userID), nil)
		mockUserStore.On("GetByEmail", mock.Anything, "bob@example.com").Return(other, nil)

		hashed := 0
		hasher := &mocks.MockPasswordHasher{HashFn: func(password string) (string, error) {
			hashed++
			return "mock-digest:" + password, nil
		}}
		svc := service.NewUserService(mockUserStore, &mocks.MockTransactor{}, hasher, testPagination, testLogger)

		_, err := svc.UpdateUser(ctx, userID, service.UpdateUserParams{Email: "bob@example.com", Password: "new-password"})
		assert.ErrorIs(t, err, service.ErrAccountConflict)
		assert.Zero(t, hashed)
	})

	t.Run("password change is hashed", func(t *testing.T) {
		mockUserStore := new(mocks.TestifyMockUserStore)
		user := existingUser(userID)

		mockUserStore.On("GetByID", mock.Anything, userID).Return(user, nil)
		mockUserStore.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
		mockUserStore.On("GetByUsername", mock.Anything, user.Username).Return(user, nil)
		mockUserStore.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.PasswordHash == "mock-digest:new-password"
		})).Return(nil)

		svc := service.NewUserService(mockUserStore, &mocks.MockTransactor{}, &mocks.MockPasswordHasher{}, testPagination, testLogger)

		_, err := svc.UpdateUser(ctx, userID, service.UpdateUserParams{Password: "new-password"})
		require.NoError(t, err)
		mockUserStore.AssertExpectations(t)
	})

	t.Run("invalid username", func(t *testing.T) {
		mockUserStore := new(mocks.TestifyMockUserStore)
		mockUserStore.On("GetByID", mock.Anything, userID).Return(existingUser(userID), nil)

		svc := service.NewUserService(mockUserStore, &mocks.MockTransactor{}, &mocks.MockPasswordHasher{}, testPagination, testLogger)

		_, err := svc.UpdateUser(ctx, userID, service.UpdateUserParams{Username: "no$pecial"})
		assert.ErrorIs(t, err, domain.ErrInvalidName)
	})

	t.Run("user not found", func(t *testing.T) {
		mockUserStore := new(mocks.TestifyMockUserStore)
		mockUserStore.On("GetByID", mock.Anything, userID).Return(nil, store.ErrUserNotFound)

		svc := service.NewUserService(mockUserStore, &mocks.MockTransactor{}, &mocks.MockPasswordHasher{}, testPagination, testLogger)

		_, err := svc.UpdateUser(ctx, userID, service.UpdateUserParams{Email: "new@example.com"})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserService_GetAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("get", func(t *testing.T) {
		mockUserStore := new(mocks.TestifyMockUserStore)
		mockUserStore.On("GetByID", mock.Anything, int64(1)).Return(existingUser(1), nil)
		mockUserStore.On("GetByID", mock.Anything, int64(2)).Return(nil, store.ErrUserNotFound)
		mockUserStore.On("GetByID", mock.Anything, int64(3)).Return(nil, errors.New("database down"))

		svc := service.NewUserService(mockUserStore, &mocks.MockTransactor{}, &mocks.MockPasswordHasher{}, testPagination, testLogger)

		user, err := svc.GetUser(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)

		_, err = svc.GetUser(ctx, 2)
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		_, err = svc.GetUser(ctx, 3)
		var svcErr *service.ServiceError
		assert.ErrorAs(t, err, &svcErr)
	})

	t.Run("delete", func(t *testing.T) {
		mockUserStore := new(mocks.TestifyMockUserStore)
		mockUserStore.On("Delete", mock.Anything, int64(1)).Return(nil)
		mockUserStore.On("Delete", mock.Anything, int64(2)).Return(store.ErrUserNotFound)

		svc := service.NewUserService(mockUserStore, &mocks.MockTransactor{}, &mocks.MockPasswordHasher{}, testPagination, testLogger)

		assert.NoError(t, svc.DeleteUser(ctx, 1))
		assert.ErrorIs(t, svc.DeleteUser(ctx, 2), store.ErrUserNotFound)
		mockUserStore.AssertExpectations(t)
	})
}

func TestUserService_ListUsers(t *testing.T) {
	mockUserStore := new(mocks.TestifyMockUserStore)
	mockUserStore.On("List", mock.Anything, store.ListParams{Query: "al", Page: 1, Limit: testPagination.MaxLimit}).
		Return([]*domain.User{existingUser(1)}, 1, nil)

	svc := service.NewUserService(mockUserStore, &mocks.MockTransactor{}, &mocks.MockPasswordHasher{}, testPagination, testLogger)

	users, total, err := svc.ListUsers(context.Background(), store.ListParams{Query: "al", Page: 0, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, users, 1)
	mockUserStore.AssertExpectations(t)
}

func TestUserService_ListUsersUsesConfiguredPagination(t *testing.T) {
	mockUserStore := new(mocks.TestifyMockUserStore)
	mockUserStore.On("List", mock.Anything, store.ListParams{Page: 1, Limit: 3}).
		Return([]*domain.User{}, 0, nil).Once()
	mockUserStore.On("List", mock.Anything, store.ListParams{Page: 2, Limit: 2}).
		Return([]*domain.User{}, 0, nil).Once()

	pagination := config.PaginationConfig{DefaultLimit: 2, MaxLimit: 3}
	svc := service.NewUserService(mockUserStore, &mocks.MockTransactor{}, &mocks.MockPasswordHasher{}, pagination, testLogger)

	_, _, err := svc.ListUsers(context.Background(), store.ListParams{Limit: 50})
	require.NoError(t, err)
	_, _, err = svc.ListUsers(context.Background(), store.ListParams{Page: 2})
	require.NoError(t, err)
	mockUserStore.AssertExpectations(t)
}
