//go:build integration_test

// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sqltest

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	postgresImage = "postgres:16-alpine"

	// startTimeout bounds the container start, which includes pulling
	// the image on a fresh machine.
	startTimeout = 2 * time.Minute

	adminTimeout = 30 * time.Second
	maxTestConns = 5
)

// cluster is the Postgres container shared by every test of the binary.
var cluster struct {
	once     sync.Once
	adminDSN string
	err      error
}

// adminDSN starts the shared container on first use and returns the DSN of
// its maintenance database.
func adminDSN(t testing.TB) string {
	t.Helper()

	cluster.once.Do(func() {
		ctx, cancel := context.WithTimeout(
			context.Background(), startTimeout,
		)
		defer cancel()

		c, err := postgres.Run(ctx, postgresImage,
			postgres.WithDatabase("dunwallet"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			postgres.BasicWaitStrategies(),
		)
		if err != nil {
			cluster.err = fmt.Errorf("start container: %w", err)
			return
		}

		cluster.adminDSN, cluster.err = c.ConnectionString(
			ctx, "sslmode=disable",
		)
	})
	require.NoError(t, cluster.err, "postgres unavailable")

	return cluster.adminDSN
}

// admin runs stmt on the maintenance database.
func admin(dsn, stmt string) error {
	ctx, cancel := context.WithTimeout(context.Background(), adminTimeout)
	defer cancel()

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, stmt)
	return err
}

// NewPostgresDSN creates an empty database in the shared container and
// returns its DSN.  The database is dropped when the test ends.
func NewPostgresDSN(t testing.TB) string {
	t.Helper()

	dsn := adminDSN(t)
	name := pgx.Identifier{"dunwallet_" + deterministicTestID(t)}.Sanitize()

	err := admin(dsn, "CREATE DATABASE "+name)
	require.NoError(t, err, "create database %s", name)

	t.Cleanup(func() {
		_ = admin(dsn, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)")
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	u.Path = "/dunwallet_" + deterministicTestID(t)

	return u.String()
}

// NewPostgresDB is a DBFactory handing out a connection pool on a fresh
// database.
func NewPostgresDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", NewPostgresDSN(t))
	require.NoError(t, err)

	db.SetMaxOpenConns(maxTestConns)
	db.SetMaxIdleConns(maxTestConns)

	// Registered after the drop above, so it runs first.
	t.Cleanup(func() { _ = db.Close() })

	return db
}
