package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/julienschmidt/httprouter"
	"github.com/naghmatea/site/internal/pkg/goerror"
)

// MaxBodyBytes caps inbound bodies. Larger bodies are rejected as Invalid JSON.
const MaxBodyBytes = 64 << 10

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	// Request is the underlying http.Request.
	*http.Request
}

// GetParam reads a path parameter from the request context (as stored by httprouter).
func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

// DecodeBody decodes the body into dst by its Content-Type, see DecodePayload.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil {
		return nil
	}

	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	if err != nil {
		return errInvalidJSON()
	}

	return DecodePayload(r.Header.Get("Content-Type"), data, dst)
}

// DecodePayload decodes a form-encoded body with DecodeForm and anything
// else with DecodeJSON.
func DecodePayload(contentType string, data []byte, dst any) error {
	if len(data) > MaxBodyBytes {
		return errInvalidJSON()
	}
	if isForm(contentType) {
		return DecodeForm(data, dst)
	}
	return DecodeJSON(data, dst)
}

// DecodeForm decodes an application/x-www-form-urlencoded body into dst
// through its JSON field names. Repeated keys keep their first value.
func DecodeForm(data []byte, dst any) error {
	values, err := url.ParseQuery(string(data))
	if err != nil {
		return errInvalidJSON()
	}

	fields := make(map[string]string, len(values))
	for k, v := range values {
		fields[k] = v[0]
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return errInvalidJSON()
	}
	return DecodeJSON(raw, dst)
}

// DecodeJSON decodes a single JSON document into dst.
//
// Blank input and valid documents that are not objects leave dst untouched.
// Syntax errors, trailing data and type mismatches are reported as an
// invalid format error.
func DecodeJSON(data []byte, dst any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	if !json.Valid(data) {
		return errInvalidJSON()
	}
	if data[0] != '{' {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(dst); err != nil {
		return errInvalidJSON()
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errInvalidJSON()
	}

	return nil
}

func errInvalidJSON() error {
	return goerror.NewInvalidFormat("Invalid JSON")
}
