// Package httputil centralizes JSON response writing and error translation for
// HTTP handlers.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	dErrors "txguard/pkg/domain-errors"
	"txguard/pkg/platform/sentinel"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into a status code and error envelope. Internal
// error descriptions are never echoed to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := classify(err)
	resp := ErrorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		if de, ok := dErrors.From(err); ok {
			resp.ErrorDescription = de.Message
		}
	}
	WriteJSON(w, StatusFor(code), resp)
}

func classify(err error) dErrors.Code {
	if de, ok := dErrors.From(err); ok {
		return de.Code
	}
	switch {
	case errors.Is(err, sentinel.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return dErrors.CodeTimeout
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.CodeUnavailable
	case errors.Is(err, sentinel.ErrBadResponse):
		return dErrors.CodeBadGateway
	default:
		return dErrors.CodeInternal
	}
}

// StatusFor maps a domain error code to an HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodePayloadTooBig:
		return http.StatusRequestEntityTooLarge
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	case dErrors.CodeBadGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
