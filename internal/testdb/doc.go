// Package testdb provides utilities for database integration tests.
//
// Tests run inside a transaction that is rolled back when the test
// completes, so they can share one database and run in parallel:
//
//	func TestUserStore(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.SetupTestDatabaseSchema(t, db)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, nil)
//	        // ...
//	    })
//	}
//
// The database is located through DATABASE_URL, falling back to
// SHOPLIST_TEST_DB_URL. Tests are skipped when neither is set.
package testdb
