// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package credstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Dialect selects the SQL flavour of a SQLBackend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// goose keeps its dialect and filesystem in package globals.
var gooseMu sync.Mutex

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLBackend keeps entries in a cookies table. Multi-entry writes run in a
// single transaction.
type SQLBackend struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQL opens the database, applies pending migrations and returns the backend.
// For DialectSQLite dsn is a file path or ":memory:"; for DialectPostgres it is
// a libpq URL or keyword/value string.
func OpenSQL(ctx context.Context, dialect Dialect, dsn string) (*SQLBackend, error) {
	var driver string
	switch dialect {
	case DialectSQLite:
		driver = "sqlite"
	case DialectPostgres:
		driver = "pgx"
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// Every connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect %s store: %w", dialect, err)
	}
	if err := migrate(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLBackend{db: db, dialect: dialect}, nil
}

func migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	sub, err := fs.Sub(migrationsFS, "migrations/"+string(dialect))
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(sub)
	goose.SetLogger(goose.NopLogger())
	gooseDialect := "sqlite3"
	if dialect == DialectPostgres {
		gooseDialect = "postgres"
	}
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate credential store: %w", err)
	}
	return nil
}

func (b *SQLBackend) Load(ctx context.Context, name string) (Entry, bool, error) {
	var (
		value   string
		expires int64
	)
	err := b.db.QueryRowContext(ctx,
		b.rebind(`SELECT value, expires_at FROM cookies WHERE name = ?`), name,
	).Scan(&value, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("load %q: %w", name, err)
	}
	e := Entry{Name: name, Value: value}
	if expires > 0 {
		e.ExpiresAt = time.Unix(expires, 0)
	}
	return e, true, nil
}

func (b *SQLBackend) Store(ctx context.Context, entries []Entry) error {
	q := b.rebind(`INSERT INTO cookies (name, value, expires_at) VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`)
	return b.withTx(ctx, func(ctx context.Context, tx dbtx) error {
		for _, e := range entries {
			var expires int64
			if !e.ExpiresAt.IsZero() {
				expires = e.ExpiresAt.Unix()
			}
			if _, err := tx.ExecContext(ctx, q, e.Name, e.Value, expires); err != nil {
				return fmt.Errorf("store %q: %w", e.Name, err)
			}
		}
		return nil
	})
}

func (b *SQLBackend) Remove(ctx context.Context, names []string) error {
	q := b.rebind(`DELETE FROM cookies WHERE name = ?`)
	return b.withTx(ctx, func(ctx context.Context, tx dbtx) error {
		for _, name := range names {
			if _, err := tx.ExecContext(ctx, q, name); err != nil {
				return fmt.Errorf("remove %q: %w", name, err)
			}
		}
		return nil
	})
}

func (b *SQLBackend) Close() error { return b.db.Close() }

// withTx runs fn in a transaction, committing on success and rolling back on
// error or panic.
func (b *SQLBackend) withTx(ctx context.Context, fn func(ctx context.Context, tx dbtx) error) (err error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(ctx, tx)
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (b *SQLBackend) rebind(q string) string {
	if b.dialect != DialectPostgres {
		return q
	}
	var sb strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
