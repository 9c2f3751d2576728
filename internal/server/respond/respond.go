package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/warungpos/pos-service/internal/apperr"
)

type errorBody struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps domain error kinds onto HTTP statuses. The message is the
// human-readable cause surfaced to the caller.
func Error(w http.ResponseWriter, err error) {
	var (
		writeErr *apperr.StoreWriteError
		readErr  *apperr.StoreReadError
	)

	switch {
	case errors.Is(err, apperr.ErrValidation):
		JSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		JSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, apperr.ErrInsufficientStock):
		JSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.As(err, &writeErr), errors.As(err, &readErr):
		JSON(w, http.StatusBadGateway, errorBody{Error: err.Error()})
	default:
		JSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}
