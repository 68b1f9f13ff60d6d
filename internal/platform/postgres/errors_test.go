package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/shoplist-api/internal/platform/postgres"
	"github.com/phrazzld/shoplist-api/internal/store"
)

func newPgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "test_table",
		ColumnName:     "test_column",
		ConstraintName: constraint,
	}
}

// MockResult implements sql.Result for testing
type MockResult struct {
	rowsAffected int64
	err          error
}

func (m MockResult) LastInsertId() (int64, error) { return 0, m.err }
func (m MockResult) RowsAffected() (int64, error) { return m.rowsAffected, m.err }

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"plain error", errors.New("boom"), false},
		{"unique violation", newPgError("23505", "users_email_key"), true},
		{"wrapped unique violation", fmt.Errorf("ctx: %w", newPgError("23505", "")), true},
		{"foreign key violation", newPgError("23503", ""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, postgres.IsUniqueViolation(tt.err))
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsForeignKeyViolation(newPgError("23503", "shopping_lists_owner_id_fkey")))
	assert.False(t, postgres.IsForeignKeyViolation(newPgError("23505", "")))
	assert.False(t, postgres.IsForeignKeyViolation(nil))
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"email constraint", newPgError("23505", "users_email_key"), store.ErrEmailExists},
		{"username constraint", newPgError("23505", "users_username_lower_key"), store.ErrUsernameExists},
		{"list name constraint", newPgError("23505", "shopping_lists_owner_name_key"), store.ErrShoppingListExists},
		{"item name constraint", newPgError("23505", "shopping_items_list_name_key"), store.ErrShoppingItemExists},
		{"unknown unique constraint", newPgError("23505", "other_key"), store.ErrDuplicate},
		{"foreign key", newPgError("23503", "fk"), store.ErrInvalidEntity},
		{"check constraint", newPgError("23514", "quantity_positive"), store.ErrInvalidEntity},
		{"not null", newPgError("23502", ""), store.ErrInvalidEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, postgres.MapError(tt.err), tt.expected)
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, postgres.MapError(nil))
	})

	t.Run("unmapped error passes through", func(t *testing.T) {
		orig := errors.New("connection reset")
		assert.Same(t, orig, postgres.MapError(orig))
	})

	t.Run("specific duplicate stays generic duplicate", func(t *testing.T) {
		err := postgres.MapError(newPgError("23505", "users_email_key"))
		assert.True(t, store.IsDuplicateError(err))
		assert.False(t, errors.Is(err, store.ErrUsernameExists))
	})
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected", func(t *testing.T) {
		assert.NoError(t, postgres.CheckRowsAffected(MockResult{rowsAffected: 1}, store.ErrUserNotFound))
	})

	t.Run("no rows uses specific error", func(t *testing.T) {
		err := postgres.CheckRowsAffected(MockResult{}, store.ErrShoppingListNotFound)
		assert.ErrorIs(t, err, store.ErrShoppingListNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})

	t.Run("no rows falls back to generic error", func(t *testing.T) {
		assert.ErrorIs(t, postgres.CheckRowsAffected(MockResult{}, nil), store.ErrNotFound)
	})

	t.Run("rows affected error", func(t *testing.T) {
		err := postgres.CheckRowsAffected(MockResult{err: errors.New("driver")}, nil)
		assert.ErrorContains(t, err, "failed to get rows affected")
	})

	t.Run("nil result", func(t *testing.T) {
		assert.Error(t, postgres.CheckRowsAffected(nil, nil))
	})
}
