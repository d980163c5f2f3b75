// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package sqltest provides isolated SQL databases for tests.  SQLite
// databases are always available; Postgres databases need the
// integration_test build tag and a container runtime.
package sqltest

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Register SQLite driver under name "sqlite".
	_ "modernc.org/sqlite"
)

// NewSQLiteDB creates a fresh SQLite database in a temporary directory for
// each test.  The file is named after the test.
func NewSQLiteDB(t testing.TB) *sql.DB {
	t.Helper()

	dbPath := filepath.Join(
		t.TempDir(), "dunwallet_"+deterministicTestID(t)+".sqlite",
	)
	dsn := "file:" + dbPath + "?mode=rwc&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err, "failed to open SQLite database")

	// A single connection avoids SQLITE_BUSY between parallel writers of
	// the same file.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		require.NoError(t, err, "failed to ping SQLite database")
	}

	t.Cleanup(func() {
		err := db.Close()
		assert.NoError(t, err, "failed to close SQLite database")

		err = os.Remove(dbPath)
		assert.NoError(t, err, "failed to remove SQLite database")
	})

	return db
}

// deterministicTestID hashes the test name so database names stay short and
// stable across runs.
func deterministicTestID(t testing.TB) string {
	t.Helper()

	h := fnv.New32a()
	_, err := h.Write([]byte(t.Name()))
	require.NoError(t, err)

	return fmt.Sprintf("%08x", h.Sum32())
}
