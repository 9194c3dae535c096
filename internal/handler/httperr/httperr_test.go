package httperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	chatservice "github.com/utopia-ai/advisor/backend/internal/service/chat"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", &chatservice.Error{Kind: chatservice.KindValidation, Reason: "answer cannot be empty"}, http.StatusBadRequest, "answer cannot be empty"},
		{"bad request", &chatservice.Error{Kind: chatservice.KindBadRequest, Reason: "bad"}, http.StatusBadRequest, "bad"},
		{"not found wrapped", fmt.Errorf("turn: %w", &chatservice.Error{Kind: chatservice.KindNotFound, Reason: "question not found"}), http.StatusNotFound, "question not found"},
		{"collaborator", &chatservice.Error{Kind: chatservice.KindCollaborator, Reason: "try again", Err: errors.New("boom")}, http.StatusBadGateway, "try again"},
		{"canceled", context.Canceled, StatusClientClosedRequest, "request canceled"},
		{"other", errors.New("disk full"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, msg := Resolve(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.msg, msg)
		})
	}
}
