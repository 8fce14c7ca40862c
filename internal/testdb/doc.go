//go:build integration

// Package testdb provides helpers for database tests run with the
// integration build tag.
//
// Each test runs in its own transaction that is rolled back when the test
// completes, so tests do not see each other's rows and need no cleanup:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.Open(t)
//	    require.NoError(t, postgres.Migrate(ctx, db, "up", nil))
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        books := postgres.NewPostgresBookStore(tx, nil)
//	        ...
//	    })
//	}
//
// The connection string is read from BOOKLIB_TEST_DATABASE_URL, falling back
// to DATABASE_URL. Tests are skipped when neither is set, except in CI where
// a missing database is a failure.
package testdb
