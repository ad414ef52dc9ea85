package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/inkspire/inkspire-client/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestAPIError_Unwrap(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, errors.ErrUnauthorized},
		{http.StatusNotFound, errors.ErrNotFound},
		{http.StatusConflict, errors.ErrConflict},
		{http.StatusBadRequest, errors.ErrInvalidInput},
		{http.StatusUnprocessableEntity, errors.ErrInvalidInput},
		{http.StatusInternalServerError, errors.ErrInternal},
		{http.StatusBadGateway, errors.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &errors.APIError{Operation: "listPlans", Status: tt.status})
			assert.True(t, errors.Is(err, tt.want))
		})
	}

	assert.Nil(t, (&errors.APIError{Status: http.StatusTeapot}).Unwrap())
}

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "Plan not found", (&errors.APIError{Operation: "getPlan", Status: 404, Message: "Plan not found"}).Error())
	assert.Equal(t, "getPlan failed: not found", (&errors.APIError{Operation: "getPlan", Status: 404}).Error())
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "server message", err: &errors.APIError{Status: 400, Message: "Email taken"}, want: "Email taken"},
		{name: "server without message", err: &errors.APIError{Status: 500}, want: "fallback"},
		{name: "network", err: errors.NetworkError("listPlans", stderrors.New("dial tcp: refused")), want: "fallback"},
		{name: "local error", err: errors.InvalidInputError("title", "required"), want: "title: required: invalid input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.UserMessage(tt.err, "fallback"))
		})
	}
}

func TestConstructors(t *testing.T) {
	assert.True(t, errors.Is(errors.NotFoundError("plan 3"), errors.ErrNotFound))
	assert.True(t, errors.Is(errors.InvalidInputError("email", "invalid"), errors.ErrInvalidInput))
	assert.True(t, errors.Is(errors.NetworkError("login", stderrors.New("timeout")), errors.ErrNetwork))

	var apiErr *errors.APIError
	assert.True(t, errors.As(fmt.Errorf("x: %w", &errors.APIError{Status: 409}), &apiErr))
	assert.Equal(t, 409, apiErr.Status)
}
