// Package ledger persists which cards are committed to tracked decks in a
// small embedded SQLite database and renders the cards-in-use summary.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // database driver
)

type DB struct {
	conn *sql.DB
	path string
}

// Open opens (and if needed creates) the ledger database and brings the
// schema up to date. The connection pool is capped at a single connection,
// the ledger is owned by one process at a time.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create ledger dir %s %w", dir, err)
		}
	}

	if err := migrateUp(path); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database %s %w", path, err)
	}
	conn.SetMaxOpenConns(1)

	if err = conn.Ping(); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("failed to ping ledger database %s %w", path, err)
	}

	return &DB{
		conn: conn,
		path: path,
	}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// withTransaction runs fn inside a transaction and commits it only when fn
// returns without error. Every ledger mutation goes through here, a failed
// operation never leaves partial rows behind.
func (db *DB) withTransaction(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
			}

			return
		}
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("failed to commit transaction: %w", err)
		}
	}()

	err = fn(tx)

	return err
}
