package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bayanihan-edu/tosforge/internal/melc"
	"github.com/bayanihan-edu/tosforge/internal/tos"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorStatus maps domain errors onto HTTP statuses the form can show inline.
func errorStatus(err error) int {
	var ir *tos.InvalidRequestError
	switch {
	case errors.As(err, &ir), melc.IsFieldError(err):
		return http.StatusBadRequest
	case errors.Is(err, melc.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), errorStatus(err))
}
