package pos

import "sync"

// CartLine lleva el snapshot de título y precio para que una edición
// posterior del libro no altere lo que el cliente vio al agregarlo.
type CartLine struct {
	BookID     string `json:"book_id"`
	Title      string `json:"title"`
	PriceCents int64  `json:"price_cents"`
	Qty        int64  `json:"qty"`
}

// Cart mantiene a lo sumo una línea por libro, en orden de inserción.
// Pertenece a una sola sesión; el mutex cubre el acceso desde los handlers
// HTTP y el commit del checkout.
type Cart struct {
	mu      sync.Mutex
	lines   []CartLine
	index   map[string]int
	pending *Sale // última venta confirmada, para el recibo
}

func NewCart() *Cart {
	return &Cart{index: make(map[string]int)}
}

// Add incorpora qty unidades del libro (1 si qty <= 0). Si la línea ya
// existe incrementa hasta el stock disponible; pasarse del stock reporta
// ErrStockExceeded y deja el carrito intacto.
func (c *Cart) Add(book Book, qty int64) error {
	if qty <= 0 {
		qty = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if book.Stock <= 0 {
		return ErrOutOfStock
	}
	if i, ok := c.index[book.ID]; ok {
		if c.lines[i].Qty+qty > book.Stock {
			return ErrStockExceeded
		}
		c.lines[i].Qty += qty
		return nil
	}
	if qty > book.Stock {
		return ErrStockExceeded
	}
	c.lines = append(c.lines, CartLine{
		BookID:     book.ID,
		Title:      book.Title,
		PriceCents: book.PriceCents,
		Qty:        qty,
	})
	c.index[book.ID] = len(c.lines) - 1
	return nil
}

// SetQuantity reemplaza la cantidad de la línea del libro. Fuera del rango
// [1, stock] se rechaza con ErrInvalidQuantity, nunca se recorta en silencio.
func (c *Cart) SetQuantity(book Book, qty int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[book.ID]
	if !ok {
		return ErrLineNotFound
	}
	if qty < 1 || qty > book.Stock {
		return ErrInvalidQuantity
	}
	c.lines[i].Qty = qty
	return nil
}

// Remove quita la línea si existe; si no existe no es un error.
func (c *Cart) Remove(bookID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[bookID]
	if !ok {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, bookID)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].BookID] = j
	}
}

// Clear vacía el carrito y descarta la venta pendiente de recibo.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.index = make(map[string]int)
	c.pending = nil
}

// Lines devuelve una copia; el carrito no entrega referencias internas.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Totals recalcula los derivados desde las líneas actuales; no hay estado
// de precios guardado aparte.
func (c *Cart) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return PriceLines(c.lines)
}

// Pending es la última venta confirmada de esta sesión, nil si no hay.
func (c *Cart) Pending() *Sale {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}
