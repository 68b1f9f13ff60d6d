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

// MockShoppingListStore implements store.ShoppingListStore with an in-memory table.
type MockShoppingListStore struct {
	CreateFn  func(ctx context.Context, list *domain.ShoppingList) error
	GetByIDFn func(ctx context.Context, ownerID, id int64) (*domain.ShoppingList, error)
	UpdateFn  func(ctx context.Context, list *domain.ShoppingList) error
	DeleteFn  func(ctx context.Context, ownerID, id int64) error

	mu     sync.Mutex
	Lists  map[int64]*domain.ShoppingList
	nextID int64

	// Items, when set, loses the items of a deleted list as the foreign key cascade would.
	Items *MockShoppingItemStore
}

// NewMockShoppingListStore creates an empty list store.
func NewMockShoppingListStore() *MockShoppingListStore {
	return &MockShoppingListStore{Lists: make(map[int64]*domain.ShoppingList)}
}

var _ store.ShoppingListStore = (*MockShoppingListStore)(nil)

func (m *MockShoppingListStore) Create(ctx context.Context, list *domain.ShoppingList) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, list)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nameTaken(list) {
		return store.ErrShoppingListExists
	}
	m.nextID++
	list.ID = m.nextID
	stored := *list
	m.Lists[list.ID] = &stored
	return nil
}

func (m *MockShoppingListStore) GetByID(ctx context.Context, ownerID, id int64) (*domain.ShoppingList, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, ownerID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.Lists[id]; ok && l.OwnerID == ownerID {
		cp := *l
		return &cp, nil
	}
	return nil, store.ErrShoppingListNotFound
}

func (m *MockShoppingListStore) GetByName(ctx context.Context, ownerID int64, name string) (*domain.ShoppingList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range m.Lists {
		if l.OwnerID == ownerID && strings.EqualFold(l.Name, name) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, store.ErrShoppingListNotFound
}

func (m *MockShoppingListStore) Update(ctx context.Context, list *domain.ShoppingList) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, list)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.Lists[list.ID]; !ok || l.OwnerID != list.OwnerID {
		return store.ErrShoppingListNotFound
	}
	if m.nameTaken(list) {
		return store.ErrShoppingListExists
	}
	stored := *list
	m.Lists[list.ID] = &stored
	return nil
}

func (m *MockShoppingListStore) Delete(ctx context.Context, ownerID, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, ownerID, id)
	}

	m.mu.Lock()
	l, ok := m.Lists[id]
	if !ok || l.OwnerID != ownerID {
		m.mu.Unlock()
		return store.ErrShoppingListNotFound
	}
	delete(m.Lists, id)
	m.mu.Unlock()

	if m.Items != nil {
		m.Items.deleteList(id)
	}
	return nil
}

func (m *MockShoppingListStore) List(
	ctx context.Context,
	ownerID int64,
	params store.ListParams,
) ([]*domain.ShoppingList, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query := strings.ToLower(params.Query)
	matches := make([]*domain.ShoppingList, 0)
	for _, l := range m.Lists {
		if l.OwnerID == ownerID && strings.Contains(strings.ToLower(l.Name), query) {
			cp := *l
			matches = append(matches, &cp)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })

	return paginate(matches, params), len(matches), nil
}

func (m *MockShoppingListStore) WithTx(tx *sql.Tx) store.ShoppingListStore {
	return m
}

// DeleteOwner drops every list of ownerID, as the users foreign key cascade would.
func (m *MockShoppingListStore) DeleteOwner(ownerID int64) {
	m.mu.Lock()
	var ids []int64
	for id, l := range m.Lists {
		if l.OwnerID == ownerID {
			ids = append(ids, id)
			delete(m.Lists, id)
		}
	}
	m.mu.Unlock()

	if m.Items != nil {
		for _, id := range ids {
			m.Items.deleteList(id)
		}
	}
}

func (m *MockShoppingListStore) nameTaken(list *domain.ShoppingList) bool {
	for id, l := range m.Lists {
		if id != list.ID && l.OwnerID == list.OwnerID && strings.EqualFold(l.Name, list.Name) {
			return true
		}
	}
	return false
}

// MockShoppingItemStore implements store.ShoppingItemStore with an in-memory table.
type MockShoppingItemStore struct {
	CreateFn func(ctx context.Context, item *domain.ShoppingItem) error
	UpdateFn func(ctx context.Context, item *domain.ShoppingItem) error

	mu     sync.Mutex
	Items  map[int64]*domain.ShoppingItem
	nextID int64
}

// NewMockShoppingItemStore creates an empty item store.
func NewMockShoppingItemStore() *MockShoppingItemStore {
	return &MockShoppingItemStore{Items: make(map[int64]*domain.ShoppingItem)}
}

var _ store.ShoppingItemStore = (*MockShoppingItemStore)(nil)

func (m *MockShoppingItemStore) Create(ctx context.Context, item *domain.ShoppingItem) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, item)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nameTaken(item) {
		return store.ErrShoppingItemExists
	}
	m.nextID++
	item.ID = m.nextID
	stored := *item
	m.Items[item.ID] = &stored
	return nil
}

func (m *MockShoppingItemStore) GetByID(ctx context.Context, listID, id int64) (*domain.ShoppingItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i, ok := m.Items[id]; ok && i.ListID == listID {
		cp := *i
		return &cp, nil
	}
	return nil, store.ErrShoppingItemNotFound
}

func (m *MockShoppingItemStore) GetByName(ctx context.Context, listID int64, name string) (*domain.ShoppingItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, i := range m.Items {
		if i.ListID == listID && strings.EqualFold(i.Name, name) {
			cp := *i
			return &cp, nil
		}
	}
	return nil, store.ErrShoppingItemNotFound
}

func (m *MockShoppingItemStore) Update(ctx context.Context, item *domain.ShoppingItem) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, item)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if i, ok := m.Items[item.ID]; !ok || i.ListID != item.ListID {
		return store.ErrShoppingItemNotFound
	}
	if m.nameTaken(item) {
		return store.ErrShoppingItemExists
	}
	stored := *item
	m.Items[item.ID] = &stored
	return nil
}

func (m *MockShoppingItemStore) Delete(ctx context.Context, listID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i, ok := m.Items[id]; !ok || i.ListID != listID {
		return store.ErrShoppingItemNotFound
	}
	delete(m.Items, id)
	return nil
}

func (m *MockShoppingItemStore) List(
	ctx context.Context,
	listID int64,
	params store.ListParams,
) ([]*domain.ShoppingItem, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query := strings.ToLower(params.Query)
	matches := make([]*domain.ShoppingItem, 0)
	for _, i := range m.Items {
		if i.ListID == listID && strings.Contains(strings.ToLower(i.Name), query) {
			cp := *i
			matches = append(matches, &cp)
		}
	}
	sort.Slice(matches, func(a, b int) bool { return matches[a].ID < matches[b].ID })

	return paginate(matches, params), len(matches), nil
}

func (m *MockShoppingItemStore) WithTx(tx *sql.Tx) store.ShoppingItemStore {
	return m
}

func (m *MockShoppingItemStore) deleteList(listID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, i := range m.Items {
		if i.ListID == listID {
			delete(m.Items, id)
		}
	}
}

func (m *MockShoppingItemStore) nameTaken(item *domain.ShoppingItem) bool {
	for id, i := range m.Items {
		if id != item.ID && i.ListID == item.ListID && strings.EqualFold(i.Name, item.Name) {
			return true
		}
	}
	return false
}
