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

// ShoppingItemService manages items on shopping lists. Every operation first
// resolves the parent list for the owner, so items on someone else's list
// report store.ErrShoppingListNotFound.
type ShoppingItemService interface {
	// AddItem stores a new item. A zero quantity defaults to one.
	// Returns store.ErrShoppingItemExists if the list already has an item with that name.
	AddItem(ctx context.Context, ownerID, listID int64, name string, quantity int) (*domain.ShoppingItem, error)

	// GetItem returns the item or store.ErrShoppingItemNotFound.
	GetItem(ctx context.Context, ownerID, listID, itemID int64) (*domain.ShoppingItem, error)

	// ListItems returns a page of the list's items matching params.Query.
	ListItems(ctx context.Context, ownerID, listID int64, params store.ListParams) ([]*domain.ShoppingItem, int, error)

	// UpdateItem replaces name and quantity. A zero quantity keeps the current one.
	UpdateItem(ctx context.Context, ownerID, listID, itemID int64, name string, quantity int) (*domain.ShoppingItem, error)

	// MarkBought flags the item as bought.
	MarkBought(ctx context.Context, ownerID, listID, itemID int64) (*domain.ShoppingItem, error)

	// DeleteItem removes the item and returns what was deleted.
	DeleteItem(ctx context.Context, ownerID, listID, itemID int64) (*domain.ShoppingItem, error)
}

type shoppingItemServiceImpl struct {
	lists      store.ShoppingListStore
	items      store.ShoppingItemStore
	tx         store.Transactor
	pagination config.PaginationConfig
	logger     *slog.Logger
}

// NewShoppingItemService creates a new ShoppingItemService.
func NewShoppingItemService(
	lists store.ShoppingListStore,
	items store.ShoppingItemStore,
	tx store.Transactor,
	pagination config.PaginationConfig,
	logger *slog.Logger,
) ShoppingItemService {
	if logger == nil {
		logger = slog.Default()
	}
	return &shoppingItemServiceImpl{
		lists:      lists,
		items:      items,
		tx:         tx,
		pagination: pagination,
		logger:     logger.With(slog.String("component", "shopping_item_service")),
	}
}

// inList runs fn in a transaction after confirming the owner has the list.
func (s *shoppingItemServiceImpl) inList(
	ctx context.Context,
	ownerID, listID int64,
	fn func(ctx context.Context, items store.ShoppingItemStore) error,
) error {
	return s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.lists.WithTx(tx).GetByID(ctx, ownerID, listID); err != nil {
			if store.IsNotFoundError(err) {
				return store.ErrShoppingListNotFound
			}
			return err
		}
		return fn(ctx, s.items.WithTx(tx))
	})
}

func (s *shoppingItemServiceImpl) AddItem(
	ctx context.Context,
	ownerID, listID int64,
	name string,
	quantity int,
) (*domain.ShoppingItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := domain.NewShoppingItem(listID, name, quantity)
	if err != nil {
		return nil, err
	}

	err = s.inList(ctx, ownerID, listID, func(ctx context.Context, items store.ShoppingItemStore) error {
		if err := ensureItemNameAvailable(ctx, items, listID, item.Name, 0); err != nil {
			return err
		}
		return items.Create(ctx, item)
	})
	if err != nil {
		return nil, s.wrap(log, "add", err)
	}

	log.Info("item added", slog.Int64("list_id", listID), slog.Int64("item_id", item.ID))
	return item, nil
}

func (s *shoppingItemServiceImpl) GetItem(
	ctx context.Context,
	ownerID, listID, itemID int64,
) (*domain.ShoppingItem, error) {
	var found *domain.ShoppingItem
	err := s.inList(ctx, ownerID, listID, func(ctx context.Context, items store.ShoppingItemStore) error {
		item, err := items.GetByID(ctx, listID, itemID)
		found = item
		return err
	})
	if err != nil {
		return nil, s.wrap(logger.FromContextOrDefault(ctx, s.logger), "get", err)
	}
	return found, nil
}

func (s *shoppingItemServiceImpl) ListItems(
	ctx context.Context,
	ownerID, listID int64,
	params store.ListParams,
) ([]*domain.ShoppingItem, int, error) {
	var (
		page  []*domain.ShoppingItem
		total int
	)
	err := s.inList(ctx, ownerID, listID, func(ctx context.Context, items store.ShoppingItemStore) error {
		var err error
		page, total, err = items.List(ctx, listID, params.Normalize(s.pagination.DefaultLimit, s.pagination.MaxLimit))
		return err
	})
	if err != nil {
		return nil, 0, s.wrap(logger.FromContextOrDefault(ctx, s.logger), "list", err)
	}
	return page, total, nil
}

func (s *shoppingItemServiceImpl) UpdateItem(
	ctx context.Context,
	ownerID, listID, itemID int64,
	name string,
	quantity int,
) (*domain.ShoppingItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.ShoppingItem
	err := s.inList(ctx, ownerID, listID, func(ctx context.Context, items store.ShoppingItemStore) error {
		item, err := items.GetByID(ctx, listID, itemID)
		if err != nil {
			return err
		}
		if err := item.Update(name, quantity); err != nil {
			return err
		}
		if err := ensureItemNameAvailable(ctx, items, listID, item.Name, item.ID); err != nil {
			return err
		}
		if err := items.Update(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, s.wrap(log, "update", err)
	}

	log.Info("item updated", slog.Int64("item_id", itemID))
	return updated, nil
}

func (s *shoppingItemServiceImpl) MarkBought(
	ctx context.Context,
	ownerID, listID, itemID int64,
) (*domain.ShoppingItem, error) {
	var bought *domain.ShoppingItem
	err := s.inList(ctx, ownerID, listID, func(ctx context.Context, items store.ShoppingItemStore) error {
		item, err := items.GetByID(ctx, listID, itemID)
		if err != nil {
			return err
		}
		item.MarkBought()
		if err := items.Update(ctx, item); err != nil {
			return err
		}
		bought = item
		return nil
	})
	if err != nil {
		return nil, s.wrap(logger.FromContextOrDefault(ctx, s.logger), "mark_bought", err)
	}
	return bought, nil
}

func (s *shoppingItemServiceImpl) DeleteItem(
	ctx context.Context,
	ownerID, listID, itemID int64,
) (*domain.ShoppingItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var deleted *domain.ShoppingItem
	err := s.inList(ctx, ownerID, listID, func(ctx context.Context, items store.ShoppingItemStore) error {
		item, err := items.GetByID(ctx, listID, itemID)
		if err != nil {
			return err
		}
		if err := items.Delete(ctx, listID, itemID); err != nil {
			return err
		}
		deleted = item
		return nil
	})
	if err != nil {
		return nil, s.wrap(log, "delete", err)
	}

	log.Info("item deleted", slog.Int64("item_id", itemID))
	return deleted, nil
}

// wrap passes expected errors through unchanged and wraps the rest.
func (s *shoppingItemServiceImpl) wrap(log *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return err
	case errors.Is(err, store.ErrShoppingListNotFound):
		return store.ErrShoppingListNotFound
	case store.IsNotFoundError(err):
		return store.ErrShoppingItemNotFound
	case store.IsDuplicateError(err):
		return store.ErrShoppingItemExists
	}
	log.Error("shopping item operation failed",
		slog.String("operation", op),
		slog.String("error", redact.Error(err)))
	return NewServiceError("shopping_item", op, "operation failed", err)
}

func ensureItemNameAvailable(
	ctx context.Context,
	items store.ShoppingItemStore,
	listID int64,
	name string,
	selfID int64,
) error {
	existing, err := items.GetByName(ctx, listID, name)
	switch {
	case err == nil && existing.ID != selfID:
		return store.ErrShoppingItemExists
	case err != nil && !store.IsNotFoundError(err):
		return err
	}
	return nil
}
