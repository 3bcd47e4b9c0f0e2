package pos

import "context"

// InventoryStore es el dueño de los libros. DecrementStock debe ser un
// descuento condicional atómico: falla con ErrInsufficientStock si el stock
// actual no alcanza, sin aplicar nada. Esa condición es la que evita que dos
// checkouts concurrentes dejen el stock en negativo.
type InventoryStore interface {
	GetBook(ctx context.Context, id string) (*Book, error)
	DecrementStock(ctx context.Context, id string, qty int64) error
	IncrementStock(ctx context.Context, id string, qty int64) error
}

// SaleStore es append-only: las ventas nunca se actualizan ni se borran.
type SaleStore interface {
	Append(ctx context.Context, s *Sale) error
}
