package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/phrazzld/shoplist-api/internal/domain"
	"github.com/phrazzld/shoplist-api/internal/store"
)

// MockUserStore implements store.UserStore for testing.
// Without function overrides it behaves like an in-memory table with the
// same uniqueness rules as the database: email and username ignoring case.
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn             func(ctx context.Context, user *domain.User) error
	GetByIDFn            func(ctx context.Context, id int64) (*domain.User, error)
	GetByEmailFn         func(ctx context.Context, email string) (*domain.User, error)
	GetByUsernameFn      func(ctx context.Context, username string) (*domain.User, error)
	UpdateFn             func(ctx context.Context, user *domain.User) error
	UpdatePasswordHashFn func(ctx context.Context, id int64, hash string) error
	DeleteFn             func(ctx context.Context, id int64) error
	ListFn               func(ctx context.Context, params store.ListParams) ([]*domain.User, int, error)

	// Data for default implementation
	mu     sync.Mutex
	Users  map[int64]*domain.User
	nextID int64

	// Lists, when set, loses the lists of a deleted user as the foreign key cascade would.
	Lists *MockShoppingListStore
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[int64]*domain.User),
	}
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkUnique(user); err != nil {
		return err
	}

	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.Users[user.ID] = &stored
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if user, ok := m.Users[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return m.find(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
}

// GetByUsername implements the UserStore interface
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return m.find(func(u *domain.User) bool { return strings.EqualFold(u.Username, username) })
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	if err := m.checkUnique(user); err != nil {
		return err
	}

	stored := *user
	m.Users[user.ID] = &stored
	return nil
}

// UpdatePasswordHash implements the UserStore interface
func (m *MockUserStore) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	if m.UpdatePasswordHashFn != nil {
		return m.UpdatePasswordHashFn(ctx, id, hash)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.Users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	user.PasswordHash = hash
	return nil
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	if _, ok := m.Users[id]; !ok {
		m.mu.Unlock()
		return store.ErrUserNotFound
	}
	delete(m.Users, id)
	m.mu.Unlock()

	if m.Lists != nil {
		m.Lists.DeleteOwner(id)
	}
	return nil
}

// List implements the UserStore interface
func (m *MockUserStore) List(ctx context.Context, params store.ListParams) ([]*domain.User, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, params)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	query := strings.ToLower(params.Query)
	matches := make([]*domain.User, 0, len(m.Users))
	for _, u := range m.Users {
		if strings.Contains(strings.ToLower(u.Username), query) {
			cp := *u
			matches = append(matches, &cp)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	return paginate(matches, params), len(matches), nil
}

// WithTx implements the UserStore interface for transaction support
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	// For mock purposes, just return the same mock
	return m
}

func (m *MockUserStore) find(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// checkUnique must be called with mu held.
func (m *MockUserStore) checkUnique(user *domain.User) error {
	for id, u := range m.Users {
		if id == user.ID {
			continue
		}
		if strings.EqualFold(u.Email, user.Email) {
			return store.ErrEmailExists
		}
		if strings.EqualFold(u.Username, user.Username) {
			return store.ErrUsernameExists
		}
	}
	return nil
}

// paginate returns the window of items selected by params.
func paginate[T any](items []T, params store.ListParams) []T {
	params = params.Normalize(store.DefaultLimit, store.MaxLimit)
	start := params.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + params.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
