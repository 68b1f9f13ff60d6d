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

const shoppingItemColumns = `id, list_id, name, quantity, bought, created_at, updated_at`

// PostgresShoppingItemStore implements the store.ShoppingItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresShoppingItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresShoppingItemStore creates a new PostgreSQL implementation of the ShoppingItemStore interface.
func NewPostgresShoppingItemStore(db store.DBTX, logger *slog.Logger) *PostgresShoppingItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresShoppingItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "shopping_item_store")),
	}
}

var _ store.ShoppingItemStore = (*PostgresShoppingItemStore)(nil)

// WithTx implements store.ShoppingItemStore.WithTx
func (s *PostgresShoppingItemStore) WithTx(tx *sql.Tx) store.ShoppingItemStore {
	return &PostgresShoppingItemStore{db: tx, logger: s.logger}
}

// Create implements store.ShoppingItemStore.Create
func (s *PostgresShoppingItemStore) Create(ctx context.Context, item *domain.ShoppingItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO shopping_items (list_id, name, quantity, bought, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, item.ListID, item.Name, item.Quantity, item.Bought, item.CreatedAt, item.UpdatedAt).Scan(&item.ID)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			return mapped
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: list %d does not exist", store.ErrInvalidEntity, item.ListID)
		}
		log.Error("failed to create shopping item",
			slog.Int64("list_id", item.ListID),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError("shopping_item", "create", "insert failed", mapped)
	}

	log.Info("shopping item created",
		slog.Int64("item_id", item.ID),
		slog.Int64("list_id", item.ListID))
	return nil
}

// GetByID implements store.ShoppingItemStore.GetByID
func (s *PostgresShoppingItemStore) GetByID(ctx context.Context, listID, id int64) (*domain.ShoppingItem, error) {
	return s.getOne(ctx, "get_by_id",
		`SELECT `+shoppingItemColumns+` FROM shopping_items WHERE list_id = $1 AND id = $2`,
		listID, id)
}

// GetByName implements store.ShoppingItemStore.GetByName
func (s *PostgresShoppingItemStore) GetByName(ctx context.Context, listID int64, name string) (*domain.ShoppingItem, error) {
	return s.getOne(ctx, "get_by_name",
		`SELECT `+shoppingItemColumns+` FROM shopping_items WHERE list_id = $1 AND LOWER(name) = LOWER($2)`,
		listID, name)
}

func (s *PostgresShoppingItemStore) getOne(ctx context.Context, op, query string, args ...any) (*domain.ShoppingItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var i domain.ShoppingItem
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&i.ID, &i.ListID, &i.Name, &i.Quantity, &i.Bought, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrShoppingItemNotFound
		}
		log.Error("failed to query shopping item",
			slog.String("operation", op),
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("shopping_item", op, "query failed", MapError(err))
	}
	return &i, nil
}

// Update implements store.ShoppingItemStore.Update
func (s *PostgresShoppingItemStore) Update(ctx context.Context, item *domain.ShoppingItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE shopping_items SET name = $1, quantity = $2, bought = $3, updated_at = $4
		WHERE list_id = $5 AND id = $6
	`, item.Name, item.Quantity, item.Bought, item.UpdatedAt, item.ListID, item.ID)
	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			return mapped
		}
		log.Error("failed to update shopping item",
			slog.Int64("item_id", item.ID),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError("shopping_item", "update", "update failed", mapped)
	}

	return CheckRowsAffected(result, store.ErrShoppingItemNotFound)
}

// Delete implements store.ShoppingItemStore.Delete
func (s *PostgresShoppingItemStore) Delete(ctx context.Context, listID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM shopping_items WHERE list_id = $1 AND id = $2`, listID, id)
	if err != nil {
		log.Error("failed to delete shopping item",
			slog.Int64("item_id", id),
			slog.String("error", redact.Error(err)))
		return store.NewStoreError("shopping_item", "delete", "delete failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrShoppingItemNotFound)
}

// List implements store.ShoppingItemStore.List
func (s *PostgresShoppingItemStore) List(
	ctx context.Context,
	listID int64,
	params store.ListParams,
) ([]*domain.ShoppingItem, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+shoppingItemColumns+`, COUNT(*) OVER() AS total
		FROM shopping_items
		WHERE list_id = $1 AND name ILIKE '%' || $2 || '%'
		ORDER BY id
		LIMIT $3 OFFSET $4
	`, listID, escapeLike(params.Query), params.Limit, params.Offset())
	if err != nil {
		log.Error("failed to list shopping items", slog.String("error", redact.Error(err)))
		return nil, 0, store.NewStoreError("shopping_item", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	items := make([]*domain.ShoppingItem, 0, params.Limit)
	total := 0
	for rows.Next() {
		var i domain.ShoppingItem
		if err := rows.Scan(&i.ID, &i.ListID, &i.Name, &i.Quantity, &i.Bought, &i.CreatedAt, &i.UpdatedAt, &total); err != nil {
			return nil, 0, store.NewStoreError("shopping_item", "list", "scan failed", err)
		}
		items = append(items, &i)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, store.NewStoreError("shopping_item", "list", "iteration failed", err)
	}

	return items, total, nil
}
