package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-account-api/internal/domain"
	"github.com/go-account-api/internal/pkg/validate"
)

// Envelope is the wire format for every response:
// {responseCode, responseMessage, data}.
type Envelope struct {
	ResponseCode    int         `json:"responseCode"`
	ResponseMessage string      `json:"responseMessage"`
	Data            interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Envelope{
		ResponseCode:    http.StatusOK,
		ResponseMessage: message,
		Data:            data,
	})
}

func writeErrorCode(w http.ResponseWriter, httpStatus, code int, message string, data interface{}) {
	writeJSON(w, httpStatus, Envelope{
		ResponseCode:    code,
		ResponseMessage: message,
		Data:            data,
	})
}

// writeError maps a service error onto the envelope. Error kinds carry
// distinct HTTP statuses and response codes so clients can tell a blocked
// account (450) or a stale session (440) from a generic 401.
func writeError(w http.ResponseWriter, err error) {
	var fe *validate.FieldErrors
	switch {
	case errors.As(err, &fe):
		writeErrorCode(w, http.StatusBadRequest, http.StatusBadRequest, "validation failed", fe.Fields)
	case errors.Is(err, domain.ErrOTPExpired), errors.Is(err, domain.ErrBadRequest):
		writeErrorCode(w, http.StatusBadRequest, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, domain.ErrUnauthorized):
		writeErrorCode(w, http.StatusUnauthorized, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, domain.ErrOTPMismatch):
		writeErrorCode(w, http.StatusPaymentRequired, http.StatusPaymentRequired, err.Error(), nil)
	case errors.Is(err, domain.ErrAccountBlocked):
		writeErrorCode(w, http.StatusForbidden, 450, err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		writeErrorCode(w, http.StatusNotFound, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrConflict):
		writeErrorCode(w, http.StatusConflict, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, domain.ErrSessionExpired):
		writeErrorCode(w, 440, 440, "Session Expired, Please login again.", nil)
	case errors.Is(err, domain.ErrAccountDeleted):
		writeErrorCode(w, http.StatusPaymentRequired, 440, "Your account has been deleted by admin.", nil)
	default:
		writeErrorCode(w, http.StatusInternalServerError, http.StatusInternalServerError, err.Error(), nil)
	}
}
