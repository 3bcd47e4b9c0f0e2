package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sfrestrepo/bookshop-pos/internal/pos"
)

const cacheKeyList = "books:list"

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	if body, ok := s.cache.Get(cacheKeyList); ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
		return
	}
	books, err := s.store.ListBooks(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if books == nil {
		books = []pos.Book{}
	}
	body, err := json.Marshal(books)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.cache.Add(cacheKeyList, body)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if body, ok := s.cache.Get("books:" + id); ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
		return
	}
	book, err := s.store.GetBook(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	body, err := json.Marshal(book)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.cache.Add("books:"+id, body)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var book pos.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "bad_request", Message: "invalid body"})
		return
	}
	if book.ID == "" || book.Title == "" || book.PriceCents < 0 || book.Stock < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "bad_request", Message: "id and title are required, price and stock must be non-negative"})
		return
	}
	if err := s.store.CreateBook(r.Context(), &book); err != nil {
		s.writeError(w, err)
		return
	}
	s.cache.Purge()
	writeJSON(w, http.StatusCreated, book)
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	var book pos.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "bad_request", Message: "invalid body"})
		return
	}
	book.ID = chi.URLParam(r, "id")
	if book.PriceCents < 0 || book.Stock < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "bad_request", Message: "price and stock must be non-negative"})
		return
	}
	if err := s.store.UpdateBook(r.Context(), &book); err != nil {
		s.writeError(w, err)
		return
	}
	s.cache.Purge()
	writeJSON(w, http.StatusOK, book)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteBook(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.cache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSale(w http.ResponseWriter, r *http.Request) {
	sale, err := s.store.GetSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sale)
}
