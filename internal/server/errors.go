package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sfrestrepo/bookshop-pos/internal/auth"
	"github.com/sfrestrepo/bookshop-pos/internal/pos"
	"github.com/sfrestrepo/bookshop-pos/internal/repository"
)

type errorBody struct {
	Code      string              `json:"code"`
	Message   string              `json:"message"`
	Shortages []pos.StockShortage `json:"shortages,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError traduce la taxonomía de errores del dominio a respuestas HTTP
// con un código estable; la presentación queda del lado del cliente.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var partial *pos.PartialApplyError
	var conflict *pos.StockConflictError

	switch {
	case errors.As(err, &partial):
		// Fatal: stock y ventas divergentes, conciliación manual.
		writeJSON(w, http.StatusInternalServerError,
			errorBody{Code: "partial_apply", Message: partial.Error()})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict,
			errorBody{Code: "stock_conflict", Message: conflict.Error(), Shortages: conflict.Shortages})
	case errors.Is(err, pos.ErrOutOfStock):
		writeJSON(w, http.StatusConflict, errorBody{Code: "out_of_stock", Message: err.Error()})
	case errors.Is(err, pos.ErrStockExceeded):
		writeJSON(w, http.StatusConflict, errorBody{Code: "stock_exceeded", Message: err.Error()})
	case errors.Is(err, pos.ErrInvalidQuantity):
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "invalid_quantity", Message: err.Error()})
	case errors.Is(err, pos.ErrEmptyCart):
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "empty_cart", Message: err.Error()})
	case errors.Is(err, pos.ErrLineNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Code: "line_not_found", Message: err.Error()})
	case errors.Is(err, pos.ErrNoPendingSale):
		writeJSON(w, http.StatusNotFound, errorBody{Code: "no_pending_sale", Message: err.Error()})
	case errors.Is(err, pos.ErrBookNotFound), errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Code: "not_found", Message: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Code: "invalid_credentials", Message: err.Error()})
	default:
		s.log.Error().Err(err).Msg("internal error")
		writeJSON(w, http.StatusInternalServerError, errorBody{Code: "internal", Message: "internal error"})
	}
}
