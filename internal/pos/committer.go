package pos

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Estados de una corrida de commit. Un fallo recuperable vuelve a Idle;
// sólo un PartialApplyError deja el committer en Failed.
type CommitState int32

const (
	StateIdle CommitState = iota
	StateCommitting
	StateCommitted
	StateFailed
)

func (s CommitState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCommitting:
		return "committing"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Committer finaliza un carrito: valida contra el stock vivo, descuenta
// condicionalmente línea por línea y registra la venta. Todo o nada: un
// conflicto a mitad de camino revierte los descuentos ya aplicados.
type Committer struct {
	inv   InventoryStore
	sales SaleStore
	log   zerolog.Logger

	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	state CommitState
}

func NewCommitter(inv InventoryStore, sales SaleStore, log zerolog.Logger) *Committer {
	return &Committer{
		inv:   inv,
		sales: sales,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (k *Committer) State() CommitState {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.state
}

func (k *Committer) setState(s CommitState) {
	k.mu.Lock()
	k.state = s
	k.mu.Unlock()
}

// Commit toma el candado del carrito durante toda la corrida: dos checkouts
// de la misma sesión se serializan y el segundo encuentra el carrito vacío.
// Los checkouts de sesiones distintas sólo compiten en el inventario, donde
// el descuento condicional decide.
func (k *Committer) Commit(ctx context.Context, cart *Cart) (*Sale, error) {
	cart.mu.Lock()
	defer cart.mu.Unlock()

	k.setState(StateCommitting)
	if len(cart.lines) == 0 {
		k.setState(StateIdle)
		return nil, ErrEmptyCart
	}

	// Validación contra el stock actual: otro actor pudo vender desde la
	// última vez que este carrito se validó.
	var shortages []StockShortage
	for _, l := range cart.lines {
		b, err := k.inv.GetBook(ctx, l.BookID)
		if errors.Is(err, ErrBookNotFound) {
			shortages = append(shortages, StockShortage{BookID: l.BookID, Need: l.Qty})
			continue
		}
		if err != nil {
			k.setState(StateIdle)
			return nil, err
		}
		if b.Stock < l.Qty {
			shortages = append(shortages, StockShortage{BookID: l.BookID, Need: l.Qty, Avail: b.Stock})
		}
	}
	if len(shortages) > 0 {
		k.setState(StateIdle)
		return nil, &StockConflictError{Shortages: shortages}
	}

	// Descuentos condicionales. Entre la validación de arriba y este punto
	// el stock pudo volver a cambiar; el UPDATE condicional es la única
	// verdad y un fallo aquí también es conflicto.
	var applied []string
	for _, l := range cart.lines {
		if err := k.inv.DecrementStock(ctx, l.BookID, l.Qty); err != nil {
			if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrBookNotFound) {
				short := StockShortage{BookID: l.BookID, Need: l.Qty}
				if b, gerr := k.inv.GetBook(ctx, l.BookID); gerr == nil {
					short.Avail = b.Stock
				}
				return nil, k.rollback(ctx, cart.lines, applied, &StockConflictError{Shortages: []StockShortage{short}})
			}
			return nil, k.rollback(ctx, cart.lines, applied, err)
		}
		applied = append(applied, l.BookID)
	}

	totals := PriceLines(cart.lines)
	sale := &Sale{
		ID:            k.newID(),
		CreatedUnix:   k.now().Unix(),
		Lines:         make([]SaleLine, 0, len(cart.lines)),
		SubtotalCents: totals.Subtotal.Cents,
		TaxCents:      totals.Tax.Cents,
		TotalCents:    totals.Total.Cents,
	}
	for _, l := range cart.lines {
		sale.Lines = append(sale.Lines, SaleLine{
			BookID:    l.BookID,
			Title:     l.Title,
			UnitCents: l.PriceCents,
			Qty:       l.Qty,
			LineCents: l.PriceCents * l.Qty,
		})
	}

	if err := k.sales.Append(ctx, sale); err != nil {
		// La venta no quedó registrada: devolver el stock descontado.
		return nil, k.rollback(ctx, cart.lines, applied, err)
	}

	// Éxito: carrito vacío y venta lista para el recibo.
	cart.lines = nil
	cart.index = make(map[string]int)
	cart.pending = sale
	k.setState(StateCommitted)
	k.log.Info().
		Str("sale", sale.ID).
		Int("items", len(sale.Lines)).
		Int64("total_cents", sale.TotalCents).
		Msg("sale committed")
	return sale, nil
}

// rollback devuelve el stock de los descuentos ya aplicados. Si alguna
// compensación falla, el inventario y el libro de ventas quedaron
// divergentes: eso es PartialApplyError y se registra aparte de los
// fallos ordinarios.
func (k *Committer) rollback(ctx context.Context, lines []CartLine, applied []string, cause error) error {
	qtyByID := make(map[string]int64, len(lines))
	for _, l := range lines {
		qtyByID[l.BookID] = l.Qty
	}

	var stuck []string
	for _, id := range applied {
		if err := k.inv.IncrementStock(ctx, id, qtyByID[id]); err != nil {
			k.log.Error().Err(err).Str("book", id).Msg("stock compensation failed")
			stuck = append(stuck, id)
		}
	}
	if len(stuck) > 0 {
		k.setState(StateFailed)
		k.log.Error().
			Strs("books", stuck).
			AnErr("cause", cause).
			Msg("PARTIAL APPLY: stock decremented without a recorded sale, reconcile manually")
		return &PartialApplyError{Books: stuck, Cause: cause}
	}
	k.setState(StateIdle)
	return cause
}
