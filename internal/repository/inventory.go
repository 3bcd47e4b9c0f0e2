package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sfrestrepo/bookshop-pos/internal/pos"
)

func (s *Store) GetBook(ctx context.Context, id string) (*pos.Book, error) {
	var b pos.Book
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, author, price_cents, stock FROM books WHERE id=?`, id).
		Scan(&b.ID, &b.Title, &b.Author, &b.PriceCents, &b.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pos.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) ListBooks(ctx context.Context) ([]pos.Book, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, author, price_cents, stock FROM books ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pos.Book
	for rows.Next() {
		var b pos.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.PriceCents, &b.Stock); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) CreateBook(ctx context.Context, b *pos.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books(id, title, author, price_cents, stock)
		VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.Author, b.PriceCents, b.Stock)
	return err
}

func (s *Store) UpdateBook(ctx context.Context, b *pos.Book) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE books SET title=?, author=?, price_cents=?, stock=?,
		       updated_unix=strftime('%s','now')
		WHERE id=?`,
		b.Title, b.Author, b.PriceCents, b.Stock, b.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return pos.ErrBookNotFound
	}
	return nil
}

func (s *Store) DeleteBook(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return pos.ErrBookNotFound
	}
	return nil
}

// DecrementStock es el descuento condicional del checkout: la cláusula
// stock >= ? decide la carrera entre dos ventas del mismo libro, a lo sumo
// una pasa y el stock nunca queda negativo.
func (s *Store) DecrementStock(ctx context.Context, id string, qty int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE books SET stock = stock - ?, updated_unix=strftime('%s','now')
		WHERE id=? AND stock >= ?`, qty, id, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// distinguir libro inexistente de stock insuficiente
		var one int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM books WHERE id=?`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return pos.ErrBookNotFound
		}
		if err != nil {
			return err
		}
		return pos.ErrInsufficientStock
	}
	return nil
}

// IncrementStock devuelve unidades al inventario (compensación de un
// commit abortado).
func (s *Store) IncrementStock(ctx context.Context, id string, qty int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE books SET stock = stock + ?, updated_unix=strftime('%s','now')
		WHERE id=?`, qty, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return pos.ErrBookNotFound
	}
	return nil
}

// Seed inicial opcional (para desarrollo y demos).
func (s *Store) Seed(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt := `
INSERT INTO books(id, title, author, price_cents, stock)
VALUES(?,?,?,?,?)
ON CONFLICT(id) DO NOTHING;
`
	inserts := [][]any{
		{"9780441013593", "Dune", "Frank Herbert", 1000, 10},
		{"9780553293357", "Foundation", "Isaac Asimov", 1550, 5},
		{"9780061120084", "To Kill a Mockingbird", "Harper Lee", 1299, 8},
		{"9780547928227", "The Hobbit", "J.R.R. Tolkien", 1899, 0},
		{"9780451524935", "1984", "George Orwell", 999, 1},
	}
	for _, v := range inserts {
		if _, err := tx.ExecContext(ctx, stmt, v...); err != nil {
			return err
		}
	}
	return tx.Commit()
}
