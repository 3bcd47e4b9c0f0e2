package pos

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfStock      = errors.New("out of stock")
	ErrStockExceeded   = errors.New("stock exceeded")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrLineNotFound    = errors.New("line not found")
	ErrEmptyCart       = errors.New("empty cart")
	ErrNoPendingSale   = errors.New("no pending sale")

	// Errores de los colaboradores (inventario / ventas).
	ErrBookNotFound      = errors.New("book not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockShortage identifica una línea que no alcanzó stock al momento del commit.
type StockShortage struct {
	BookID string `json:"book_id"`
	Need   int64  `json:"need"`
	Avail  int64  `json:"avail"`
}

// StockConflictError aborta el commit completo: nada quedó aplicado.
type StockConflictError struct {
	Shortages []StockShortage
}

func (e *StockConflictError) Error() string {
	if len(e.Shortages) == 1 {
		s := e.Shortages[0]
		return fmt.Sprintf("stock conflict: book %s need %d avail %d", s.BookID, s.Need, s.Avail)
	}
	return fmt.Sprintf("stock conflict: %d lines short", len(e.Shortages))
}

// PartialApplyError es fatal: hubo descuentos de stock que no se pudieron
// revertir y no hay venta registrada que los respalde. Requiere conciliación
// manual, no reintento.
type PartialApplyError struct {
	Books []string // ids cuyo descuento quedó huérfano
	Cause error
}

func (e *PartialApplyError) Error() string {
	return fmt.Sprintf("partial apply: %d stock decrements left unreconciled: %v", len(e.Books), e.Cause)
}

func (e *PartialApplyError) Unwrap() error { return e.Cause }
