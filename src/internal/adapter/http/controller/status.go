package controller

import (
	"errors"
	"net/http"

	"github.com/api-sage/banking-ledger/src/internal/domain"
)

// statusFor maps a service error to an HTTP status. Every domain error is a
// caller mistake except a missing account, which is a 404.
func statusFor(message string, err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAccountAlreadyExists),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrLimitExceeded),
		errors.Is(err, domain.ErrAccountFrozen),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrSameAccount):
		return http.StatusBadRequest
	case message == "validation failed":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
