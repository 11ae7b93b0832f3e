package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fieldErr map[string]string

func (f fieldErr) Error() string { return "fields" }

func (f fieldErr) Values() map[string]string { return f }

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{name: "invalid format default", err: NewInvalidFormat(), status: http.StatusBadRequest, msg: "Invalid request body"},
		{name: "invalid format custom", err: NewInvalidFormat("Invalid JSON"), status: http.StatusBadRequest, msg: "Invalid JSON"},
		{name: "invalid input", err: NewInvalidInput(nil, "Missing required fields."), status: http.StatusBadRequest, msg: "Missing required fields."},
		{name: "method", err: NewMethodNotAllowed(), status: http.StatusMethodNotAllowed, msg: "Method Not Allowed"},
		{name: "server default", err: NewServer(errors.New("boom")), status: http.StatusInternalServerError, msg: "Internal server error"},
		{name: "server custom", err: NewServer(errors.New("boom"), "Failed to send message."), status: http.StatusInternalServerError, msg: "Failed to send message."},
		{name: "unavailable", err: NewBusiness("service is under maintenance", CodeUnavailable), status: http.StatusServiceUnavailable, msg: "service is under maintenance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			require.ErrorAs(t, tt.err, &gerr)
			assert.Equal(t, tt.status, gerr.StatusCode())
			assert.Equal(t, tt.msg, gerr.Msg())
		})
	}
}

func TestNewServerUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := NewServer(cause, "Failed to send message.")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "dial tcp: refused", err.Error())
}

func TestNewInvalidInputFields(t *testing.T) {
	err := NewInvalidInput(fieldErr{"dreamTea": "dreamTea is a required field"}, "Missing required fields.")

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, map[string]string{"dreamTea": "dreamTea is a required field"}, gerr.Fields())
	assert.Equal(t, TypeValidation, gerr.Type())
	assert.Equal(t, CodeInvalidInput, gerr.Code())
}
