package pos

// SaleLine es la copia congelada de una línea al momento del commit.
type SaleLine struct {
	BookID    string `json:"book_id"`
	Title     string `json:"title"`
	UnitCents int64  `json:"unit_cents"`
	Qty       int64  `json:"qty"`
	LineCents int64  `json:"line_cents"`
}

// Sale es inmutable una vez confirmada. El recibo se genera siempre desde
// estos valores, nunca desde los precios actuales del catálogo.
type Sale struct {
	ID            string     `json:"id"`
	CreatedUnix   int64      `json:"created_unix"`
	Lines         []SaleLine `json:"lines"`
	SubtotalCents int64      `json:"subtotal_cents"`
	TaxCents      int64      `json:"tax_cents"`
	TotalCents    int64      `json:"total_cents"`
}
