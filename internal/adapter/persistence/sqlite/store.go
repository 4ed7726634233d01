// Package sqlite implements the repositories and unit of work on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"invoice_management/internal/usecase/interfaces"

	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - initial invoicing schema
const currentSchemaVersion = 1

// timeLayout is fixed width so stored timestamps sort chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store owns the database handle and hands out transactional repositories.
//
// The pool is limited to a single connection: SQLite allows one writer at a time, and
// serializing units of work makes sequence reservation and reconciliation race free.
type Store struct {
	db *sql.DB
}

var _ interfaces.IUnitOfWork = (*Store)(nil)

// Open creates or opens the database at path and applies the schema. It is safe to call
// on an existing database.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Do runs fn inside one transaction. The transaction commits only when fn returns nil.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos interfaces.Repositories) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, repositories(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func repositories(q querier) interfaces.Repositories {
	return interfaces.Repositories{
		Customers: &customerRepo{q: q},
		Quotes:    &quoteRepo{q: q},
		Invoices:  &invoiceRepo{q: q},
		Payments:  &paymentRepo{q: q},
		Sequences: &sequenceRepo{q: q},
	}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return nil
}

// storeError translates constraint violations into the repository sentinels.
func storeError(op string, err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique:
			msg := se.Error()
			switch {
			case strings.Contains(msg, "invoices.quote_id"):
				return fmt.Errorf("%s: %w", op, interfaces.ErrQuoteAlreadyInvoiced)
			case strings.Contains(msg, "quote_number"), strings.Contains(msg, "invoice_number"):
				return fmt.Errorf("%s: %w", op, interfaces.ErrDuplicateNumber)
			}
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%s: %w", op, interfaces.ErrReferenced)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// timeColumns parses stored timestamps and keeps the first failure.
type timeColumns struct {
	err error
}

func (c *timeColumns) parse(column, s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil && c.err == nil {
		c.err = fmt.Errorf("parse %s %q: %w", column, s, err)
	}
	return t
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(search)) + "%"
}
