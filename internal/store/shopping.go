package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/shoplist-api/internal/domain"
)

// ShoppingListStore persists shopping lists. Every read and write is scoped
// to the owner; a list belonging to someone else is reported as not found.
type ShoppingListStore interface {
	// Create saves a new list and sets its ID.
	// Returns ErrShoppingListExists if the owner already has a list with that name.
	Create(ctx context.Context, list *domain.ShoppingList) error

	// GetByID returns the owner's list.
	// Returns ErrShoppingListNotFound if it does not exist or belongs to another user.
	GetByID(ctx context.Context, ownerID, id int64) (*domain.ShoppingList, error)

	// GetByName returns the owner's list with name, ignoring case.
	GetByName(ctx context.Context, ownerID int64, name string) (*domain.ShoppingList, error)

	// Update renames the owner's list.
	Update(ctx context.Context, list *domain.ShoppingList) error

	// Delete removes the owner's list together with its items.
	Delete(ctx context.Context, ownerID, id int64) error

	// List returns a page of the owner's lists whose name contains params.Query,
	// along with the total number of matches.
	List(ctx context.Context, ownerID int64, params ListParams) ([]*domain.ShoppingList, int, error)

	// WithTx returns a new ShoppingListStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ShoppingListStore
}

// ShoppingItemStore persists items belonging to a shopping list.
// Ownership is checked by the caller through ShoppingListStore.
type ShoppingItemStore interface {
	// Create saves a new item and sets its ID.
	// Returns ErrShoppingItemExists if the list already holds an item with that name.
	Create(ctx context.Context, item *domain.ShoppingItem) error

	// GetByID returns the item from the given list.
	// Returns ErrShoppingItemNotFound if it does not exist.
	GetByID(ctx context.Context, listID, id int64) (*domain.ShoppingItem, error)

	// GetByName returns the list's item with name, ignoring case.
	GetByName(ctx context.Context, listID int64, name string) (*domain.ShoppingItem, error)

	// Update writes name, quantity and bought flag.
	Update(ctx context.Context, item *domain.ShoppingItem) error

	// Delete removes the item from the list.
	Delete(ctx context.Context, listID, id int64) error

	// List returns a page of the list's items whose name contains params.Query,
	// along with the total number of matches.
	List(ctx context.Context, listID int64, params ListParams) ([]*domain.ShoppingItem, int, error)

	// WithTx returns a new ShoppingItemStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ShoppingItemStore
}
