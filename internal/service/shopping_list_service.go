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

// ShoppingListService manages the shopping lists of a single owner.
// A list owned by someone else behaves exactly like a missing one.
type ShoppingListService interface {
	// CreateList validates name and stores a new list.
	// Returns store.ErrShoppingListExists if the owner already has a list with that name.
	CreateList(ctx context.Context, ownerID int64, name string) (*domain.ShoppingList, error)

	// GetList returns the owner's list or store.ErrShoppingListNotFound.
	GetList(ctx context.Context, ownerID, listID int64) (*domain.ShoppingList, error)

	// ListLists returns a page of the owner's lists matching params.Query.
	ListLists(ctx context.Context, ownerID int64, params store.ListParams) ([]*domain.ShoppingList, int, error)

	// RenameList changes the name of the owner's list.
	RenameList(ctx context.Context, ownerID, listID int64, name string) (*domain.ShoppingList, error)

	// DeleteList removes the list with its items and returns what was deleted.
	DeleteList(ctx context.Context, ownerID, listID int64) (*domain.ShoppingList, error)
}

type shoppingListServiceImpl struct {
	lists      store.ShoppingListStore
	tx         store.Transactor
	pagination config.PaginationConfig
	logger     *slog.Logger
}

// NewShoppingListService creates a new ShoppingListService.
func NewShoppingListService(
	lists store.ShoppingListStore,
	tx store.Transactor,
	pagination config.PaginationConfig,
	logger *slog.Logger,
) ShoppingListService {
	if logger == nil {
		logger = slog.Default()
	}
	return &shoppingListServiceImpl{
		lists:      lists,
		tx:         tx,
		pagination: pagination,
		logger:     logger.With(slog.String("component", "shopping_list_service")),
	}
}

func (s *shoppingListServiceImpl) CreateList(
	ctx context.Context,
	ownerID int64,
	name string,
) (*domain.ShoppingList, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	list, err := domain.NewShoppingList(ownerID, name)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		lists := s.lists.WithTx(tx)
		if err := ensureListNameAvailable(ctx, lists, ownerID, list.Name, 0); err != nil {
			return err
		}
		return lists.Create(ctx, list)
	})
	if err != nil {
		return nil, s.wrap(log, "create", err)
	}

	log.Info("shopping list created", slog.Int64("list_id", list.ID))
	return list, nil
}

func (s *shoppingListServiceImpl) GetList(ctx context.Context, ownerID, listID int64) (*domain.ShoppingList, error) {
	list, err := s.lists.GetByID(ctx, ownerID, listID)
	if err != nil {
		return nil, s.wrap(logger.FromContextOrDefault(ctx, s.logger), "get", err)
	}
	return list, nil
}

func (s *shoppingListServiceImpl) ListLists(
	ctx context.Context,
	ownerID int64,
	params store.ListParams,
) ([]*domain.ShoppingList, int, error) {
	lists, total, err := s.lists.List(ctx, ownerID, params.Normalize(s.pagination.DefaultLimit, s.pagination.MaxLimit))
	if err != nil {
		return nil, 0, s.wrap(logger.FromContextOrDefault(ctx, s.logger), "list", err)
	}
	return lists, total, nil
}

func (s *shoppingListServiceImpl) RenameList(
	ctx context.Context,
	ownerID, listID int64,
	name string,
) (*domain.ShoppingList, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var renamed *domain.ShoppingList
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		lists := s.lists.WithTx(tx)

		list, err := lists.GetByID(ctx, ownerID, listID)
		if err != nil {
			return err
		}
		if err := list.Rename(name); err != nil {
			return err
		}
		if err := ensureListNameAvailable(ctx, lists, ownerID, list.Name, list.ID); err != nil {
			return err
		}
		if err := lists.Update(ctx, list); err != nil {
			return err
		}
		renamed = list
		return nil
	})
	if err != nil {
		return nil, s.wrap(log, "rename", err)
	}

	log.Info("shopping list renamed", slog.Int64("list_id", listID))
	return renamed, nil
}

func (s *shoppingListServiceImpl) DeleteList(
	ctx context.Context,
	ownerID, listID int64,
) (*domain.ShoppingList, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var deleted *domain.ShoppingList
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		lists := s.lists.WithTx(tx)

		list, err := lists.GetByID(ctx, ownerID, listID)
		if err != nil {
			return err
		}
		if err := lists.Delete(ctx, ownerID, listID); err != nil {
			return err
		}
		deleted = list
		return nil
	})
	if err != nil {
		return nil, s.wrap(log, "delete", err)
	}

	log.Info("shopping list deleted", slog.Int64("list_id", listID))
	return deleted, nil
}

// wrap passes expected errors through unchanged and wraps the rest.
func (s *shoppingListServiceImpl) wrap(log *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return err
	case store.IsNotFoundError(err):
		return store.ErrShoppingListNotFound
	case store.IsDuplicateError(err):
		return store.ErrShoppingListExists
	}
	log.Error("shopping list operation failed",
		slog.String("operation", op),
		slog.String("error", redact.Error(err)))
	return NewServiceError("shopping_list", op, "operation failed", err)
}

func ensureListNameAvailable(
	ctx context.Context,
	lists store.ShoppingListStore,
	ownerID int64,
	name string,
	selfID int64,
) error {
	existing, err := lists.GetByName(ctx, ownerID, name)
	switch {
	case err == nil && existing.ID != selfID:
		return store.ErrShoppingListExists
	case err != nil && !store.IsNotFoundError(err):
		return err
	}
	return nil
}
