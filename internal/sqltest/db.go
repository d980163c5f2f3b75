//go:build integration_test

// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sqltest

import (
	"database/sql"
	"testing"

	// Register the pgx driver under name "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DBFactory creates a fresh, isolated database for one test and closes it
// when the test ends.
type DBFactory func(t testing.TB) *sql.DB

// DBTestFunc is a test run once per database backend.  The backend name
// is passed so the test can pick the matching dialect.
type DBTestFunc func(t *testing.T, backend string, dbFactory DBFactory)

// Backend names passed to DBTestFunc.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// RunDatabaseTest runs the same test function against both PostgreSQL and
// SQLite databases.
func RunDatabaseTest(t *testing.T, testFunc DBTestFunc) {
	t.Helper()

	testCases := []struct {
		backend   string
		dbFactory DBFactory
	}{
		{
			backend:   BackendPostgres,
			dbFactory: NewPostgresDB,
		},
		{
			backend:   BackendSQLite,
			dbFactory: NewSQLiteDB,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.backend, func(t *testing.T) {
			t.Parallel()
			testFunc(t, tc.backend, tc.dbFactory)
		})
	}
}
