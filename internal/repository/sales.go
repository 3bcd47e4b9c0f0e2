package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sfrestrepo/bookshop-pos/internal/pos"
)

// Append registra la venta y sus líneas en una sola transacción. Las ventas
// son de sólo escritura: no hay UPDATE ni DELETE sobre estas tablas.
func (s *Store) Append(ctx context.Context, sale *pos.Sale) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append sale: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
  INSERT INTO sales(id, created_unix, subtotal_cents, tax_cents, total_cents)
  VALUES(?,?,?,?,?)`,
		sale.ID, sale.CreatedUnix, sale.SubtotalCents, sale.TaxCents, sale.TotalCents)
	if err != nil {
		return fmt.Errorf("append sale: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
  INSERT INTO sale_items(sale_id, book_id, title, unit_cents, qty, line_cents)
  VALUES(?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("append sale: %w", err)
	}
	defer stmt.Close()

	for _, l := range sale.Lines {
		if _, err := stmt.ExecContext(ctx,
			sale.ID, l.BookID, l.Title, l.UnitCents, l.Qty, l.LineCents); err != nil {
			return fmt.Errorf("append sale: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append sale: %w", err)
	}
	return nil
}

func (s *Store) GetSale(ctx context.Context, id string) (*pos.Sale, error) {
	var sale pos.Sale
	err := s.db.QueryRowContext(ctx, `
    SELECT id, created_unix, subtotal_cents, tax_cents, total_cents
    FROM sales WHERE id=?`, id).
		Scan(&sale.ID, &sale.CreatedUnix, &sale.SubtotalCents, &sale.TaxCents, &sale.TotalCents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
    SELECT book_id, title, unit_cents, qty, line_cents
    FROM sale_items WHERE sale_id=? ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l pos.SaleLine
		if err := rows.Scan(&l.BookID, &l.Title, &l.UnitCents, &l.Qty, &l.LineCents); err != nil {
			return nil, err
		}
		sale.Lines = append(sale.Lines, l)
	}
	return &sale, rows.Err()
}

func (s *Store) ListSales(ctx context.Context, limit int) ([]pos.Sale, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
    SELECT id, created_unix, subtotal_cents, tax_cents, total_cents
    FROM sales ORDER BY created_unix DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pos.Sale
	for rows.Next() {
		var sale pos.Sale
		if err := rows.Scan(&sale.ID, &sale.CreatedUnix, &sale.SubtotalCents, &sale.TaxCents, &sale.TotalCents); err != nil {
			return nil, err
		}
		out = append(out, sale)
	}
	return out, rows.Err()
}
