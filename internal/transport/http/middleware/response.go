package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-account-api/internal/domain"
)

// writeEnvelope writes the {responseCode, responseMessage} failure envelope
// with the given HTTP status.
func writeEnvelope(w http.ResponseWriter, httpStatus, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"responseCode":    code,
		"responseMessage": msg,
	})
}

// writeDomainError maps domain sentinels onto the failure envelope. The
// status/code pairs match the handler layer's writeError table.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		writeEnvelope(w, 440, 440, "Session Expired, Please login again.")
	case errors.Is(err, domain.ErrAccountBlocked):
		writeEnvelope(w, http.StatusForbidden, 450, "You have been blocked by admin.")
	case errors.Is(err, domain.ErrAccountDeleted):
		writeEnvelope(w, http.StatusPaymentRequired, 440, "Your account has been deleted by admin.")
	case errors.Is(err, domain.ErrNotFound):
		writeEnvelope(w, http.StatusNotFound, http.StatusNotFound, "account not found")
	case errors.Is(err, domain.ErrUnauthorized):
		writeEnvelope(w, http.StatusUnauthorized, http.StatusUnauthorized, "invalid token")
	default:
		writeEnvelope(w, http.StatusInternalServerError, http.StatusInternalServerError, "internal server error")
	}
}
