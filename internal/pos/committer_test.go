package pos

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommitter(inv InventoryStore, sales SaleStore) *Committer {
	return NewCommitter(inv, sales, zerolog.Nop())
}

func cartWith(t *testing.T, inv *memInventory, items map[string]int64) *Cart {
	t.Helper()
	c := NewCart()
	for id, qty := range items {
		b, err := inv.GetBook(context.Background(), id)
		require.NoError(t, err)
		require.NoError(t, c.Add(*b, qty))
	}
	return c
}

func TestCommit_EmptyCart(t *testing.T) {
	inv := newMemInventory(dune)
	sales := &memSales{}
	k := newTestCommitter(inv, sales)

	sale, err := k.Commit(context.Background(), NewCart())
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, sale)
	// ningún efecto: ni venta ni stock
	assert.Equal(t, 0, sales.count())
	assert.Equal(t, int64(10), inv.stock(dune.ID))
	assert.Equal(t, StateIdle, k.State())
}

func TestCommit_Success(t *testing.T) {
	inv := newMemInventory(dune)
	sales := &memSales{}
	k := newTestCommitter(inv, sales)
	cart := cartWith(t, inv, map[string]int64{dune.ID: 2})

	sale, err := k.Commit(context.Background(), cart)
	require.NoError(t, err)
	require.NotNil(t, sale)

	// stock descontado exactamente por la cantidad confirmada
	assert.Equal(t, int64(8), inv.stock(dune.ID))
	assert.Equal(t, 1, sales.count())
	assert.Equal(t, StateCommitted, k.State())

	// venta congelada con los totales del carrito
	require.Len(t, sale.Lines, 1)
	assert.Equal(t, "Dune", sale.Lines[0].Title)
	assert.Equal(t, int64(1000), sale.Lines[0].UnitCents)
	assert.Equal(t, int64(2), sale.Lines[0].Qty)
	assert.Equal(t, int64(2000), sale.Lines[0].LineCents)
	assert.Equal(t, int64(2000), sale.SubtotalCents)
	assert.Equal(t, int64(100), sale.TaxCents)
	assert.Equal(t, int64(2100), sale.TotalCents)
	assert.NotEmpty(t, sale.ID)

	// carrito vacío y recibo pendiente apuntando a la venta
	assert.Equal(t, 0, cart.Len())
	require.NotNil(t, cart.Pending())
	assert.Equal(t, sale.ID, cart.Pending().ID)
}

func TestCommit_StockConflictOnValidation(t *testing.T) {
	inv := newMemInventory(Book{ID: "s1", Title: "Scarce", PriceCents: 500, Stock: 5})
	sales := &memSales{}
	k := newTestCommitter(inv, sales)

	cart := cartWith(t, inv, map[string]int64{"s1": 4})
	// otro actor vendió mientras el carrito estaba armado
	require.NoError(t, inv.DecrementStock(context.Background(), "s1", 3))

	sale, err := k.Commit(context.Background(), cart)
	assert.Nil(t, sale)

	var conflict *StockConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Shortages, 1)
	assert.Equal(t, "s1", conflict.Shortages[0].BookID)
	assert.Equal(t, int64(4), conflict.Shortages[0].Need)
	assert.Equal(t, int64(2), conflict.Shortages[0].Avail)

	// todo intacto: sin descuentos, sin venta, carrito como estaba
	assert.Equal(t, int64(2), inv.stock("s1"))
	assert.Equal(t, 0, sales.count())
	assert.Equal(t, 1, cart.Len())
	assert.Nil(t, cart.Pending())
	assert.Equal(t, StateIdle, k.State())
}

func TestCommit_BookDeletedIsConflict(t *testing.T) {
	inv := newMemInventory(dune)
	sales := &memSales{}
	k := newTestCommitter(inv, sales)
	cart := cartWith(t, inv, map[string]int64{dune.ID: 1})

	inv.mu.Lock()
	delete(inv.books, dune.ID)
	inv.mu.Unlock()

	_, err := k.Commit(context.Background(), cart)
	var conflict *StockConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 0, sales.count())
}

func TestCommit_MidCommitConflictCompensates(t *testing.T) {
	a := Book{ID: "a", Title: "A", PriceCents: 1000, Stock: 5}
	b := Book{ID: "b", Title: "B", PriceCents: 2000, Stock: 5}
	inv := newMemInventory(a, b)
	sales := &memSales{}
	k := newTestCommitter(inv, sales)
	cart := cartWith(t, inv, map[string]int64{"a": 2, "b": 1})

	// la validación pasa pero el descuento de b pierde la carrera
	inv.decErr["b"] = ErrInsufficientStock

	sale, err := k.Commit(context.Background(), cart)
	assert.Nil(t, sale)
	var conflict *StockConflictError
	require.ErrorAs(t, err, &conflict)

	// el descuento ya aplicado de a fue devuelto: todo o nada
	assert.Equal(t, int64(5), inv.stock("a"))
	assert.Equal(t, int64(5), inv.stock("b"))
	assert.Equal(t, 0, sales.count())
	assert.Equal(t, 2, cart.Len())
	assert.Equal(t, StateIdle, k.State())
}

func TestCommit_SaleWriteErrorRestoresStock(t *testing.T) {
	inv := newMemInventory(dune)
	writeErr := errors.New("disk full")
	sales := &memSales{appendErr: writeErr}
	k := newTestCommitter(inv, sales)
	cart := cartWith(t, inv, map[string]int64{dune.ID: 3})

	sale, err := k.Commit(context.Background(), cart)
	assert.Nil(t, sale)
	require.ErrorIs(t, err, writeErr)

	// nunca Committed con la venta sin registrar; stock devuelto
	assert.Equal(t, int64(10), inv.stock(dune.ID))
	assert.Equal(t, 0, sales.count())
	assert.Nil(t, cart.Pending())
	assert.Equal(t, 1, cart.Len())
}

func TestCommit_PartialApplyIsFatal(t *testing.T) {
	a := Book{ID: "a", Title: "A", PriceCents: 1000, Stock: 5}
	b := Book{ID: "b", Title: "B", PriceCents: 2000, Stock: 5}
	inv := newMemInventory(a, b)
	sales := &memSales{}
	k := newTestCommitter(inv, sales)
	cart := cartWith(t, inv, map[string]int64{"a": 2, "b": 1})

	// b pierde la carrera y además la compensación de a falla
	inv.decErr["b"] = ErrInsufficientStock
	inv.incErr["a"] = errors.New("io error")

	_, err := k.Commit(context.Background(), cart)
	var partial *PartialApplyError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, []string{"a"}, partial.Books)
	assert.Equal(t, StateFailed, k.State())
	assert.Equal(t, 0, sales.count())
}

// Dos commits concurrentes sobre un libro con stock 1: exactamente uno
// confirma, el otro observa el conflicto.
func TestCommit_ConcurrentSingleWinner(t *testing.T) {
	scarce := Book{ID: "s1", Title: "Scarce", PriceCents: 999, Stock: 1}
	inv := newMemInventory(scarce)
	sales := &memSales{}
	k := newTestCommitter(inv, sales)

	carts := []*Cart{
		cartWith(t, inv, map[string]int64{"s1": 1}),
		cartWith(t, inv, map[string]int64{"s1": 1}),
	}

	var wg sync.WaitGroup
	results := make([]error, len(carts))
	for i, c := range carts {
		wg.Add(1)
		go func(i int, c *Cart) {
			defer wg.Done()
			_, results[i] = k.Commit(context.Background(), c)
		}(i, c)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		default:
			var conflict *StockConflictError
			require.ErrorAs(t, err, &conflict)
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, int64(0), inv.stock("s1"))
	assert.Equal(t, 1, sales.count())
}

// La suma de cantidades confirmadas de un libro nunca supera su stock inicial.
func TestCommit_TotalCommittedNeverExceedsInitialStock(t *testing.T) {
	const initial = 7
	b := Book{ID: "x", Title: "X", PriceCents: 100, Stock: initial}
	inv := newMemInventory(b)
	sales := &memSales{}
	k := newTestCommitter(inv, sales)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := NewCart()
			book, err := inv.GetBook(context.Background(), "x")
			if err != nil {
				return
			}
			if book.Stock <= 0 {
				return
			}
			if c.Add(*book, 2) != nil {
				return
			}
			_, _ = k.Commit(context.Background(), c)
		}()
	}
	wg.Wait()

	var committed int64
	sales.mu.Lock()
	for _, s := range sales.appended {
		for _, l := range s.Lines {
			committed += l.Qty
		}
	}
	sales.mu.Unlock()
	assert.LessOrEqual(t, committed, int64(initial))
	assert.Equal(t, int64(initial)-committed, inv.stock("x"))
}
