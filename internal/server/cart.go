package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sfrestrepo/bookshop-pos/internal/pos"
	"github.com/sfrestrepo/bookshop-pos/internal/receipt"
)

type cartLineView struct {
	BookID    string `json:"book_id"`
	Title     string `json:"title"`
	Qty       int64  `json:"qty"`
	UnitCents int64  `json:"unit_cents"`
	LineCents int64  `json:"line_cents"`
}

type cartView struct {
	Items         []cartLineView `json:"items"`
	SubtotalCents int64          `json:"subtotal_cents"`
	TaxCents      int64          `json:"tax_cents"`
	TotalCents    int64          `json:"total_cents"`
}

func toCartView(c *pos.Cart) cartView {
	view := cartView{Items: []cartLineView{}}
	for _, l := range c.Lines() {
		view.Items = append(view.Items, cartLineView{
			BookID:    l.BookID,
			Title:     l.Title,
			Qty:       l.Qty,
			UnitCents: l.PriceCents,
			LineCents: l.PriceCents * l.Qty,
		})
	}
	t := c.Totals()
	view.SubtotalCents = t.Subtotal.Cents
	view.TaxCents = t.Tax.Cents
	view.TotalCents = t.Total.Cents
	return view
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	cart := s.sessionCart(w, r)
	writeJSON(w, http.StatusOK, toCartView(cart))
}

type addItemReq struct {
	BookID string `json:"book_id"`
	Qty    int64  `json:"qty"`
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BookID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "bad_request", Message: "book_id is required"})
		return
	}

	// Lectura viva del libro, sin cache: el tope de la línea es el stock
	// al momento de la llamada.
	book, err := s.store.GetBook(r.Context(), req.BookID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	cart := s.sessionCart(w, r)
	if err := cart.Add(*book, req.Qty); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(cart))
}

type setQuantityReq struct {
	Qty int64 `json:"qty"`
}

func (s *Server) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "bad_request", Message: "invalid body"})
		return
	}
	book, err := s.store.GetBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	cart := s.sessionCart(w, r)
	if err := cart.SetQuantity(*book, req.Qty); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(cart))
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	cart := s.sessionCart(w, r)
	cart.Remove(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, toCartView(cart))
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	cart := s.sessionCart(w, r)
	cart.Clear()
	writeJSON(w, http.StatusOK, toCartView(cart))
}

type checkoutResp struct {
	SaleID        string `json:"sale_id"`
	CreatedUnix   int64  `json:"created_unix"`
	SubtotalCents int64  `json:"subtotal_cents"`
	TaxCents      int64  `json:"tax_cents"`
	TotalCents    int64  `json:"total_cents"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	cart := s.sessionCart(w, r)
	sale, err := s.committer.Commit(r.Context(), cart)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// El stock cambió: las respuestas cacheadas del catálogo ya no sirven.
	s.cache.Purge()
	s.pub.SaleCommitted(r.Context(), sale)

	writeJSON(w, http.StatusCreated, checkoutResp{
		SaleID:        sale.ID,
		CreatedUnix:   sale.CreatedUnix,
		SubtotalCents: sale.SubtotalCents,
		TaxCents:      sale.TaxCents,
		TotalCents:    sale.TotalCents,
	})
}

// handleReceipt imprime la última venta confirmada de la sesión, siempre
// desde los valores congelados del sale.
func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	cart := s.sessionCart(w, r)
	text, err := receipt.Generate(cart.Pending(), time.Now())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}
