// Copyright (c) 2026 The dunitersuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package journal keeps a local record of every document a send submitted,
// grouped by send, so that interrupted sends can be reconciled against the
// network later.  Records live in SQLite or Postgres.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lightningnetwork/lnd/fn/v2"

	// Register the pgx driver under name "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"

	// Register SQLite driver under name "sqlite".
	_ "modernc.org/sqlite"
)

var (
	// ErrNilDB is returned when a store is created without a database.
	ErrNilDB = errors.New("nil database")

	// ErrUnknownDialect is returned for unsupported SQL dialects.
	ErrUnknownDialect = errors.New("unknown SQL dialect")

	// ErrInvalidRecord is returned for records missing required fields.
	ErrInvalidRecord = errors.New("invalid journal record")
)

// Dialect selects the SQL flavour of the backing database.
type Dialect uint8

const (
	// DialectSQLite is an embedded SQLite database.
	DialectSQLite Dialect = iota

	// DialectPostgres is a PostgreSQL server.
	DialectPostgres
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case DialectSQLite:
		return "sqlite"
	case DialectPostgres:
		return "postgres"
	default:
		return fmt.Sprintf("dialect(%d)", uint8(d))
	}
}

// Status is the outcome of a submission.
type Status string

const (
	// StatusCommitted marks a document accepted by the node.
	StatusCommitted Status = "committed"

	// StatusFailed marks a document the node did not accept.
	StatusFailed Status = "failed"
)

// Kind tells which round of a send produced a document.
type Kind string

const (
	// KindConsolidation is an intermediate document paying the issuer.
	KindConsolidation Kind = "consolidation"

	// KindPayment is the final document of a send.
	KindPayment Kind = "payment"
)

// Record is one submitted document.
type Record struct {
	// ID is assigned by the store.
	ID int64

	// SendID groups the rounds of one send.
	SendID string

	// Round is the zero based position of the document in its send.
	Round int

	Kind     Kind
	Hash     string
	Issuer   string
	Amount   int64
	Document string
	Status   Status

	// Error holds the submission error of failed records.
	Error string

	CreatedAt time.Time
}

func (r *Record) validate() error {
	switch {
	case r.SendID == "":
		return fmt.Errorf("%w: missing send id", ErrInvalidRecord)
	case r.Hash == "":
		return fmt.Errorf("%w: missing hash", ErrInvalidRecord)
	case r.Kind != KindConsolidation && r.Kind != KindPayment:
		return fmt.Errorf("%w: kind %q", ErrInvalidRecord, r.Kind)
	case r.Status != StatusCommitted && r.Status != StatusFailed:
		return fmt.Errorf("%w: status %q", ErrInvalidRecord, r.Status)
	}
	return nil
}

// Store records submissions.
type Store interface {
	// Record stores r and sets its ID.
	Record(ctx context.Context, r *Record) error

	// Lookup returns the latest record of a document hash.
	Lookup(ctx context.Context, hash string) (fn.Option[Record], error)

	// Send returns the records of one send in round order.
	Send(ctx context.Context, sendID string) ([]Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases the store.
	Close() error
}

// DB is a Store backed by a SQL database.
type DB struct {
	db      *sql.DB
	dialect Dialect
}

// A compile-time assertion to ensure that DB implements the Store interface.
var _ Store = (*DB)(nil)

// New wraps an open database and migrates its schema.
func New(db *sql.DB, dialect Dialect) (*DB, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	if err := migrateDB(db, dialect); err != nil {
		return nil, err
	}

	log.Debugf("Opened %v journal", dialect)

	return &DB{db: db, dialect: dialect}, nil
}

// OpenSQLite opens, creating if needed, a SQLite journal at path.
func OpenSQLite(path string) (*DB, error) {
	dsn := "file:" + path + "?mode=rwc&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	store, err := New(db, DialectSQLite)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// OpenPostgres connects to a Postgres journal.
func OpenPostgres(ctx context.Context, dsn string) (*DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres journal: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect postgres journal: %w", err)
	}

	store, err := New(db, DialectPostgres)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

const recordColumns = `id, send_id, round, kind, hash, issuer, amount,
	document, status, error, created_at`

const insertRecord = `
INSERT INTO submissions (send_id, round, kind, hash, issuer, amount,
	document, status, error, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id`

// Record implements Store.
func (d *DB) Record(ctx context.Context, r *Record) error {
	if err := r.validate(); err != nil {
		return err
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	err := d.db.QueryRowContext(ctx, insertRecord, r.SendID, r.Round,
		string(r.Kind), r.Hash, r.Issuer, r.Amount, r.Document,
		string(r.Status), r.Error, r.CreatedAt.UnixMicro(),
	).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("insert journal record: %w", err)
	}

	log.Debugf("Journaled %s round %d of send %s: %s %s", r.Kind, r.Round,
		r.SendID, r.Hash, r.Status)

	return nil
}

// Lookup implements Store.
func (d *DB) Lookup(ctx context.Context,
	hash string) (fn.Option[Record], error) {

	records, err := d.query(ctx, `SELECT `+recordColumns+`
		FROM submissions WHERE hash = $1 ORDER BY id DESC LIMIT 1`, hash)
	if err != nil {
		return fn.None[Record](), err
	}
	if len(records) == 0 {
		return fn.None[Record](), nil
	}
	return fn.Some(records[0]), nil
}

// Send implements Store.
func (d *DB) Send(ctx context.Context, sendID string) ([]Record, error) {
	return d.query(ctx, `SELECT `+recordColumns+`
		FROM submissions WHERE send_id = $1 ORDER BY round, id`, sendID)
}

// List implements Store.
func (d *DB) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	return d.query(ctx, `SELECT `+recordColumns+`
		FROM submissions ORDER BY id DESC LIMIT $1`, limit)
}

// Close implements Store.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) query(ctx context.Context, query string,
	args ...interface{}) ([]Record, error) {

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r         Record
			kind      string
			status    string
			createdAt int64
		)
		err := rows.Scan(&r.ID, &r.SendID, &r.Round, &kind, &r.Hash,
			&r.Issuer, &r.Amount, &r.Document, &status, &r.Error,
			&createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan journal record: %w", err)
		}
		r.Kind = Kind(kind)
		r.Status = Status(status)
		r.CreatedAt = time.UnixMicro(createdAt)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}

	return records, nil
}
