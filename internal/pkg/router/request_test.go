package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/naghmatea/site/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string `json:"name"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    payload
		invalid bool
	}{
		{name: "object", input: `{"name":"Amine","extra":1}`, want: payload{Name: "Amine"}},
		{name: "blank", input: "  \n"},
		{name: "null", input: "null"},
		{name: "array", input: `["a"]`},
		{name: "number", input: "42"},
		{name: "syntax error", input: `{"name":`, invalid: true},
		{name: "wrong type", input: `{"name":42}`, invalid: true},
		{name: "trailing data", input: `{"name":"a"}{"name":"b"}`, invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := DecodeJSON([]byte(tt.input), &got)

			if tt.invalid {
				var gerr *goerror.Error
				require.ErrorAs(t, err, &gerr)
				assert.Equal(t, "Invalid JSON", gerr.Msg())
				assert.Equal(t, http.StatusBadRequest, gerr.StatusCode())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequest_DecodeBody(t *testing.T) {
	req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Leila"}`))}

	var got payload
	require.NoError(t, req.DecodeBody(&got))
	assert.Equal(t, "Leila", got.Name)

	var empty payload
	require.NoError(t, (&Request{Request: &http.Request{}}).DecodeBody(&empty))
	assert.Empty(t, empty.Name)
}

func TestRequest_DecodeBodyForm(t *testing.T) {
	req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader("name=Leila+B&name=ignored&extra=1"))}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")

	var got payload
	err := req.DecodeBody(&got)

	require.NoError(t, err)
	assert.Equal(t, "Leila B", got.Name)
}

func TestRequest_DecodeBodyTooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))}

	var got payload
	err := req.DecodeBody(&got)

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "Invalid JSON", gerr.Msg())
	assert.Empty(t, got.Name)
}

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		input       string
		want        payload
		invalid     bool
	}{
		{name: "json", contentType: "application/json", input: `{"name":"Amine"}`, want: payload{Name: "Amine"}},
		{name: "no content type is json", input: `{"name":"Amine"}`, want: payload{Name: "Amine"}},
		{name: "form", contentType: "application/x-www-form-urlencoded", input: "name=Amine", want: payload{Name: "Amine"}},
		{name: "empty form", contentType: "application/x-www-form-urlencoded"},
		{name: "bad form escape", contentType: "application/x-www-form-urlencoded", input: "name=%zz", invalid: true},
		{name: "form body sent as json", contentType: "application/json", input: "name=Amine", invalid: true},
		{name: "too large", input: strings.Repeat(" ", MaxBodyBytes+1), invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := DecodePayload(tt.contentType, []byte(tt.input), &got)

			if tt.invalid {
				var gerr *goerror.Error
				require.ErrorAs(t, err, &gerr)
				assert.Equal(t, "Invalid JSON", gerr.Msg())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
