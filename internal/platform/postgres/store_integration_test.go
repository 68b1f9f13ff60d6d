//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/shoplist-api/internal/domain"
	"github.com/phrazzld/shoplist-api/internal/platform/postgres"
	"github.com/phrazzld/shoplist-api/internal/store"
	"github.com/phrazzld/shoplist-api/internal/testdb"
)

type plainHasher struct{}

func (plainHasher) Hash(pw string) (string, error) { return "hashed:" + pw, nil }

// expectFailure runs fn under a savepoint so a constraint error does not
// abort the surrounding test transaction.
func expectFailure(t *testing.T, tx *sql.Tx, target error, fn func() error) {
	t.Helper()
	ctx := context.Background()
	_, err := tx.ExecContext(ctx, "SAVEPOINT expect_failure")
	require.NoError(t, err)
	assert.ErrorIs(t, fn(), target)
	_, err = tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT expect_failure")
	require.NoError(t, err)
}

func TestStoresAgainstPostgres(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	testdb.SetupTestDatabaseSchema(t, db)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		users := postgres.NewPostgresUserStore(tx, nil)
		lists := postgres.NewPostgresShoppingListStore(tx, nil)
		items := postgres.NewPostgresShoppingItemStore(tx, nil)

		alice, err := domain.NewUser("alice", "alice@example.com", "password123", plainHasher{})
		require.NoError(t, err)
		require.NoError(t, users.Create(ctx, alice))
		require.NotZero(t, alice.ID)

		dup, err := domain.NewUser("ALICE", "other@example.com", "password123", plainHasher{})
		require.NoError(t, err)
		expectFailure(t, tx, store.ErrUsernameExists, func() error { return users.Create(ctx, dup) })

		found, err := users.GetByEmail(ctx, "Alice@Example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, found.ID)

		list, err := domain.NewShoppingList(alice.ID, "Groceries")
		require.NoError(t, err)
		require.NoError(t, lists.Create(ctx, list))

		again, err := domain.NewShoppingList(alice.ID, "groceries")
		require.NoError(t, err)
		expectFailure(t, tx, store.ErrShoppingListExists, func() error { return lists.Create(ctx, again) })

		_, err = lists.GetByID(ctx, alice.ID+1000, list.ID)
		assert.ErrorIs(t, err, store.ErrShoppingListNotFound)

		item, err := domain.NewShoppingItem(list.ID, "Milk", 0)
		require.NoError(t, err)
		require.NoError(t, items.Create(ctx, item))
		assert.Equal(t, domain.DefaultItemQuantity, item.Quantity)

		item.MarkBought()
		require.NoError(t, items.Update(ctx, item))

		got, err := items.GetByID(ctx, list.ID, item.ID)
		require.NoError(t, err)
		assert.True(t, got.Bought)

		page, total, err := items.List(ctx, list.ID, store.ListParams{Query: "mil", Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, page, 1)

		require.NoError(t, users.Delete(ctx, alice.ID))
		_, err = items.GetByID(ctx, list.ID, item.ID)
		assert.ErrorIs(t, err, store.ErrShoppingItemNotFound, "items cascade with their owner")
	})
}
