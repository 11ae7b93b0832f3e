package app

import (
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mailEnv = []string{
	"MAIL_DRIVER", "SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "SMTP_SECURE", "SMTP_FROM", "TO_EMAIL",
}

func newTestApp(t *testing.T, env map[string]string) (*App, string) {
	t.Helper()

	t.Setenv("LOCAL", "false")
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://naghmateas.com")
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	for _, key := range mailEnv {
		t.Setenv(key, "")
	}
	for key, value := range env {
		t.Setenv(key, value)
	}

	application := New()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	errChan := application.Serve(l)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		application.Stop(ctx)
		<-errChan
	})

	return application, "http://" + l.Addr().String()
}

func do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func post(t *testing.T, baseURL, body string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/send-custom-tea", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return do(t, req)
}

const submission = `{"customerName":"Alice","customerEmail":"alice@example.com","dreamTea":"Mint"}`

func TestApp_HTTP(t *testing.T) {
	_, baseURL := newTestApp(t, nil)

	t.Run("honeypot", func(t *testing.T) {
		resp, body := post(t, baseURL, `{"honeypot":"bot"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"ok":true}`, body)
		assert.NotEmpty(t, resp.Header.Get("X-Correlation-ID"))
	})

	t.Run("invalid json", func(t *testing.T) {
		resp, body := post(t, baseURL, `not json`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Invalid JSON"}`, body)
	})

	t.Run("not configured", func(t *testing.T) {
		resp, body := post(t, baseURL, submission)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Email service not configured."}`, body)
	})

	t.Run("health", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, baseURL+"/health", nil)
		require.NoError(t, err)
		resp, body := do(t, req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"ok":true}`, body)
	})

	t.Run("not found", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, baseURL+"/api/unknown", nil)
		require.NoError(t, err)
		resp, body := do(t, req)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Not Found"}`, body)
	})

	t.Run("cors preflight", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, baseURL+"/api/send-custom-tea", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "https://naghmateas.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		resp, _ := do(t, req)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "https://naghmateas.com", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("plain options is not allowed", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, baseURL+"/api/send-custom-tea", nil)
		require.NoError(t, err)
		resp, body := do(t, req)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "POST", resp.Header.Get("Allow"))
		assert.JSONEq(t, `{"error":"Method Not Allowed"}`, body)
	})
}

func TestApp_BrokenTransportFailsDelivery(t *testing.T) {
	_, baseURL := newTestApp(t, map[string]string{
		"SMTP_HOST": "smtp.example.com",
		"SMTP_PORT": "not-a-port",
		"SMTP_USER": "orders@naghmateas.com",
		"SMTP_PASS": "secret",
		"TO_EMAIL":  "info@naghmateas.com",
	})

	resp, body := post(t, baseURL, submission)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Failed to send message."}`, body)
}

func TestApp_LambdaHandler(t *testing.T) {
	application, _ := newTestApp(t, nil)
	handle := application.LambdaHandler()

	resp, err := handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: submission})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Email service not configured."}`, resp.Body)

	resp, err = handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet})
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "POST", resp.Headers["Allow"])
}
