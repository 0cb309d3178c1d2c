package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pr-poehali-dev/bank-brill-design/src/internal/domain"
)

// maxBodyBytes caps request bodies. Every payload here is a handful of short
// fields.
const maxBodyBytes = 16 << 10

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// errorKind names the domain error class for logs.
func errorKind(err error) string {
	for _, kind := range []error{
		domain.ErrStoreUnavailable,
		domain.ErrMissingField,
		domain.ErrInvalidField,
		domain.ErrInvalidAmount,
		domain.ErrInvalidDestination,
		domain.ErrInsufficientFunds,
		domain.ErrAccountNotFound,
		domain.ErrEmailTaken,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "unclassified"
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrInvalidField),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDestination),
		errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
