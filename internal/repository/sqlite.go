// Persistencia en SQLite para inventario, ventas y usuarios.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // driver 100% Go
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	// busy_timeout + WAL para que los checkouts concurrentes no vean
	// "database is locked"
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout=5000&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetConnMaxIdleTime(2 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS books(
  id           TEXT PRIMARY KEY,
  title        TEXT NOT NULL,
  author       TEXT NOT NULL,
  price_cents  INTEGER NOT NULL CHECK(price_cents >= 0),
  stock        INTEGER NOT NULL DEFAULT 0 CHECK(stock >= 0),
  updated_unix INTEGER NOT NULL DEFAULT (strftime('%s','now'))
);
CREATE TABLE IF NOT EXISTS sales(
  id             TEXT PRIMARY KEY,
  created_unix   INTEGER NOT NULL,
  subtotal_cents INTEGER NOT NULL,
  tax_cents      INTEGER NOT NULL,
  total_cents    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS sale_items(
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  sale_id    TEXT NOT NULL,
  book_id    TEXT NOT NULL,
  title      TEXT NOT NULL,
  unit_cents INTEGER NOT NULL,
  qty        INTEGER NOT NULL,
  line_cents INTEGER NOT NULL,
  FOREIGN KEY(sale_id) REFERENCES sales(id)
);
CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items(sale_id);
CREATE TABLE IF NOT EXISTS users(
  id            INTEGER PRIMARY KEY AUTOINCREMENT,
  email         TEXT NOT NULL UNIQUE,
  name          TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role          TEXT NOT NULL DEFAULT 'clerk'
);
`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}
