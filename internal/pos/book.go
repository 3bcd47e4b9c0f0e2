package pos

// Book es la vista que maneja el carrito; el inventario es el dueño.
// El ID es el ISBN, estable aunque el título o el precio cambien.
type Book struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	PriceCents int64  `json:"price_cents"`
	Stock      int64  `json:"stock"`
}
