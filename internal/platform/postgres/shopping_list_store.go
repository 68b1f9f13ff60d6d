package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/shoplist-api/internal/domain"
	"github.com/phrazzld/shoplist-api/internal/platform/logger"
	"github.com/phrazzld/shoplist-api/internal/redact"
	"github.com/phrazzld/shoplist-api/internal/store"
)

const shoppingListColumns = `id, owner_id, name, created_at, updated_at`

// PostgresShoppingListStore implements the store.ShoppingListStore interface
// using a PostgreSQL database as the storage backend.
type PostgresShoppingListStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresShoppingListStore creates a new PostgreSQL implementation of the ShoppingListStore interface.
func NewPostgresShoppingListStore(db store.DBTX, logger *slog.Logger) *PostgresShoppingListStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresShoppingListStore{
		db:     db,
		logger: logger.With(slog.String("component", "shopping_list_store")),
	}
}

var _ store.ShoppingListStore = (*PostgresShoppingListStore)(nil)

// WithTx implements store.ShoppingListStore.WithTx
func (s *PostgresShoppingListStore) WithTx(tx *sql.Tx) store.ShoppingListStore {
	return &PostgresShoppingListStore{db: tx, logger: s.logger}
}

// Create implements store.ShoppingListStore.Create
func (s *PostgresShoppingListStore) Create(ctx context.Context, list *domain.ShoppingList) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO shopping_lists (owner_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, list.OwnerID, list.Name, list.CreatedAt, list.UpdatedAt).Scan(&list.ID)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			return mapped
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: owner %d does not exist", store.ErrInvalidEntity, list.OwnerID)
		}
		log.Error("failed to create shopping list",
			slog.Int64("owner_id", list.OwnerID),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError("shopping_list", "create", "insert failed", mapped)
	}

	log.Info("shopping list created",
		slog.Int64("list_id", list.ID),
		slog.Int64("owner_id", list.OwnerID))
	return nil
}

// GetByID implements store.ShoppingListStore.GetByID
func (s *PostgresShoppingListStore) GetByID(ctx context.Context, ownerID, id int64) (*domain.ShoppingList, error) {
	return s.getOne(ctx, "get_by_id",
		`SELECT `+shoppingListColumns+` FROM shopping_lists WHERE owner_id = $1 AND id = $2`,
		ownerID, id)
}

// GetByName implements store.ShoppingListStore.GetByName
func (s *PostgresShoppingListStore) GetByName(ctx context.Context, ownerID int64, name string) (*domain.ShoppingList, error) {
	return s.getOne(ctx, "get_by_name",
		`SELECT `+shoppingListColumns+` FROM shopping_lists WHERE owner_id = $1 AND LOWER(name) = LOWER($2)`,
		ownerID, name)
}

func (s *PostgresShoppingListStore) getOne(ctx context.Context, op, query string, args ...any) (*domain.ShoppingList, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var l domain.ShoppingList
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&l.ID, &l.OwnerID, &l.Name, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrShoppingListNotFound
		}
		log.Error("failed to query shopping list",
			slog.String("operation", op),
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("shopping_list", op, "query failed", MapError(err))
	}
	return &l, nil
}

// Update implements store.ShoppingListStore.Update
func (s *PostgresShoppingListStore) Update(ctx context.Context, list *domain.ShoppingList) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	list.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE shopping_lists SET name = $1, updated_at = $2
		WHERE owner_id = $3 AND id = $4
	`, list.Name, list.UpdatedAt, list.OwnerID, list.ID)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			return mapped
		}
		log.Error("failed to update shopping list",
			slog.Int64("list_id", list.ID),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError("shopping_list", "update", "update failed", mapped)
	}

	return CheckRowsAffected(result, store.ErrShoppingListNotFound)
}

// Delete implements store.ShoppingListStore.Delete
func (s *PostgresShoppingListStore) Delete(ctx context.Context, ownerID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM shopping_lists WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		log.Error("failed to delete shopping list",
			slog.Int64("list_id", id),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError("shopping_list", "delete", "delete failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrShoppingListNotFound); err != nil {
		return err
	}

	log.Info("shopping list deleted", slog.Int64("list_id", id), slog.Int64("owner_id", ownerID))
	return nil
}

// List implements store.ShoppingListStore.List
func (s *PostgresShoppingListStore) List(
	ctx context.Context,
	ownerID int64,
	params store.ListParams,
) ([]*domain.ShoppingList, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+shoppingListColumns+`, COUNT(*) OVER() AS total
		FROM shopping_lists
		WHERE owner_id = $1 AND name ILIKE '%' || $2 || '%'
		ORDER BY id
		LIMIT $3 OFFSET $4
	`, ownerID, escapeLike(params.Query), params.Limit, params.Offset())
	if err != nil {
		log.Error("failed to list shopping lists", slog.String("error", redact.Error(err)))
		return nil, 0, store.NewStoreError("shopping_list", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	lists := make([]*domain.ShoppingList, 0, params.Limit)
	total := 0
	for rows.Next() {
		var l domain.ShoppingList
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Name, &l.CreatedAt, &l.UpdatedAt, &total); err != nil {
			return nil, 0, store.NewStoreError("shopping_list", "list", "scan failed", err)
		}
		lists = append(lists, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, store.NewStoreError("shopping_list", "list", "iteration failed", err)
	}

	return lists, total, nil
}
