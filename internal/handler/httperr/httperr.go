// Package httperr maps engine errors onto HTTP status codes and client-safe messages.
package httperr

import (
	"context"
	"errors"
	"net/http"

	chatservice "github.com/utopia-ai/advisor/backend/internal/service/chat"
)

// StatusClientClosedRequest is the de facto status for requests the client abandoned.
const StatusClientClosedRequest = 499

// Resolve returns the status code and message to report for err.
func Resolve(err error) (int, string) {
	var e *chatservice.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case chatservice.KindValidation, chatservice.KindBadRequest:
			return http.StatusBadRequest, e.Reason
		case chatservice.KindNotFound:
			return http.StatusNotFound, e.Reason
		case chatservice.KindCollaborator:
			return http.StatusBadGateway, e.Reason
		}
	}
	if errors.Is(err, context.Canceled) {
		return StatusClientClosedRequest, "request canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "request timed out"
	}
	return http.StatusInternalServerError, "internal server error"
}
