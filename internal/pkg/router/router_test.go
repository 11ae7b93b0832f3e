package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/naghmatea/site/internal/pkg/config"
	"github.com/naghmatea/site/internal/pkg/goerror"
	"github.com/naghmatea/site/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticID string

func (s staticID) Generate() string { return string(s) }

type created struct {
	OK bool `json:"ok"`
}

func (created) StatusCode() int { return http.StatusCreated }

func newTestRouter(t *testing.T, yaml string) *Router {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)

	return NewRouter(Config{
		Config:          cfg,
		UUID:            staticID("cid-generated"),
		Instrument:      instrument.NewNoop(),
		FallbackMessage: "Failed to send message.",
	})
}

func serve(ro http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRouter_Codecs(t *testing.T) {
	ro := newTestRouter(t, "app: {}")
	ro.POST("/ok", func(*Request) (any, error) { return map[string]any{"ok": true}, nil })
	ro.POST("/created", func(*Request) (any, error) { return created{OK: true}, nil })
	ro.POST("/empty", func(*Request) (any, error) { return nil, nil })
	ro.POST("/invalid", func(*Request) (any, error) { return nil, goerror.NewInvalidFormat("Invalid JSON") })
	ro.POST("/plain", func(*Request) (any, error) { return nil, errors.New("boom") })
	ro.POST("/nomsg", func(*Request) (any, error) { return nil, goerror.NewBusiness("", goerror.CodeInternal) })

	tests := []struct {
		path   string
		status int
		body   map[string]any
	}{
		{path: "/ok", status: http.StatusOK, body: map[string]any{"ok": true}},
		{path: "/created", status: http.StatusCreated, body: map[string]any{"ok": true}},
		{path: "/invalid", status: http.StatusBadRequest, body: map[string]any{"error": "Invalid JSON"}},
		{path: "/plain", status: http.StatusInternalServerError, body: map[string]any{"error": "Failed to send message."}},
		{path: "/nomsg", status: http.StatusInternalServerError, body: map[string]any{"error": "Failed to send message."}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(ro, http.MethodPost, tt.path, "")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.body, decode(t, rec))
		})
	}

	rec := serve(ro, http.MethodPost, "/empty", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	ro := newTestRouter(t, "app: {}")
	ro.POST("/api/send-custom-tea", func(*Request) (any, error) { return map[string]any{"ok": true}, nil })

	rec := serve(ro, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]any{"error": "Not Found"}, decode(t, rec))

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodOptions} {
		t.Run(method, func(t *testing.T) {
			rec := serve(ro, method, "/api/send-custom-tea", "")

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, "POST", rec.Header().Get("Allow"))
			assert.Equal(t, map[string]any{"error": "Method Not Allowed"}, decode(t, rec))
		})
	}
}

func TestRouter_Welcome(t *testing.T) {
	ro := newTestRouter(t, "app: {}")

	rec := serve(ro, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"message": "Welcome to Naghma Tea API"}, decode(t, rec))
}

func TestRouter_Recoverer(t *testing.T) {
	ro := newTestRouter(t, "app: {}")
	ro.POST("/panic", func(*Request) (any, error) { panic("transport exploded") })

	rec := serve(ro, http.MethodPost, "/panic", "{}")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"error": "Failed to send message."}, decode(t, rec))
}

func TestRouter_Maintenance(t *testing.T) {
	ro := newTestRouter(t, "app:\n  maintenance:\n    endpoints: /api/send-custom-tea\n")
	ro.POST("/api/send-custom-tea", func(*Request) (any, error) { return map[string]any{"ok": true}, nil })

	rec := serve(ro, http.MethodPost, "/api/send-custom-tea", "{}")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, map[string]any{"error": "Service is under maintenance"}, decode(t, rec))
}

func TestRouter_CorrelationID(t *testing.T) {
	ro := newTestRouter(t, "app: {}")
	var seen string
	ro.GET("/health", func(r *Request) (any, error) {
		seen = instrument.GetCorrelationID(r.Context())
		return map[string]any{"ok": true}, nil
	})

	rec := serve(ro, http.MethodGet, "/health", "")
	assert.Equal(t, "cid-generated", rec.Header().Get(HeaderCorrelationID))
	assert.Equal(t, "cid-generated", seen)

	rec = serve(ro, http.MethodGet, "/health", "", HeaderRequestID, " upstream-1 ")
	assert.Equal(t, "upstream-1", rec.Header().Get(HeaderCorrelationID))
	assert.Equal(t, "upstream-1", seen)
}

func TestRouter_RealIP(t *testing.T) {
	ro := newTestRouter(t, "app: {}")
	var remote string
	ro.GET("/ip", func(r *Request) (any, error) {
		remote = r.RemoteAddr
		return map[string]any{"ok": true}, nil
	})

	serve(ro, http.MethodGet, "/ip", "", "X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", remote)

	serve(ro, http.MethodGet, "/ip", "", "X-Forwarded-For", "not-an-ip")
	assert.Equal(t, "192.0.2.1", remote)
}

func TestErrorBody(t *testing.T) {
	status, body := ErrorBody(goerror.NewMethodNotAllowed(), "fallback")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, "Method Not Allowed", body.Error)

	status, body = ErrorBody(errors.New("raw"), "fallback")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "fallback", body.Error)
}

func TestAllowedMethods(t *testing.T) {
	assert.Equal(t, "POST", allowedMethods("OPTIONS, POST"))
	assert.Equal(t, "GET, POST", allowedMethods("GET, OPTIONS, POST"))
	assert.Empty(t, allowedMethods(""))
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		fallback string
		want     string
	}{
		{name: "netlify", headers: []string{"X-Nf-Client-Connection-Ip", "198.51.100.4", "X-Forwarded-For", "10.0.0.1"}, want: "198.51.100.4"},
		{name: "vercel", headers: []string{"X-Vercel-Forwarded-For", "198.51.100.5, 10.0.0.2"}, want: "198.51.100.5"},
		{name: "forwarded list", headers: []string{"X-Forwarded-For", " 2001:db8::1 , 10.0.0.1"}, want: "2001:db8::1"},
		{name: "invalid header falls back", headers: []string{"X-Real-IP", "unknown"}, fallback: "192.0.2.9:5123", want: "192.0.2.9"},
		{name: "bare fallback", fallback: "192.0.2.10", want: "192.0.2.10"},
		{name: "true-client-ip ignored", headers: []string{"True-Client-IP", "198.51.100.6"}, fallback: "192.0.2.11", want: "192.0.2.11"},
		{name: "nothing usable", fallback: "pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for i := 0; i+1 < len(tt.headers); i += 2 {
				h.Set(tt.headers[i], tt.headers[i+1])
			}

			assert.Equal(t, tt.want, ClientIP(h, tt.fallback))
		})
	}
}

func TestNormalizeCID(t *testing.T) {
	assert.Equal(t, "abc", NormalizeCID("  abc\t"))
	assert.Empty(t, NormalizeCID("abc\r\nSet-Cookie: x"))
	assert.Empty(t, NormalizeCID("   "))
	assert.Len(t, NormalizeCID(strings.Repeat("c", 300)), 128)
}

func TestCorrelationID(t *testing.T) {
	h := http.Header{}
	h.Set(HeaderRequestID, "req-1")
	assert.Equal(t, "req-1", CorrelationID(h))

	h.Set(HeaderCorrelationID, "cid-1")
	assert.Equal(t, "cid-1", CorrelationID(h))

	h.Set(HeaderCorrelationID, "bad\nvalue")
	assert.Equal(t, "req-1", CorrelationID(h))

	assert.Empty(t, CorrelationID(http.Header{}))
}
