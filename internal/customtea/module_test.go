package customtea

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/naghmatea/site/internal/customtea/usecase"
	"github.com/naghmatea/site/internal/pkg/config"
	"github.com/naghmatea/site/internal/pkg/instrument"
	"github.com/naghmatea/site/internal/pkg/router"
	"github.com/naghmatea/site/internal/pkg/uid"
	"github.com/naghmatea/site/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("requires validator", func(t *testing.T) {
		mod, err := New(Dependency{})
		assert.Error(t, err)
		assert.Nil(t, mod)
	})

	t.Run("nil mail client fails delivery on both targets", func(t *testing.T) {
		// Arrange
		v, err := validator.NewV10Validator()
		require.NoError(t, err)
		cfg, err := config.NewViperFromBytes("yaml", []byte("app: {}"))
		require.NoError(t, err)
		ro := router.NewRouter(router.Config{Config: cfg, UUID: uid.NewUUID(), Instrument: instrument.NewNoop()})

		mod, err := New(Dependency{
			Instrument: instrument.NewNoop(),
			UUID:       uid.NewUUID(),
			Validator:  v,
			Router:     ro,
			Delivery: usecase.DeliveryConfig{
				SMTPHost:     "smtp.example.com",
				SMTPPort:     "587",
				SMTPUsername: "orders@naghmateas.com",
				SMTPPassword: "secret",
				To:           "info@naghmateas.com",
			},
		})
		require.NoError(t, err)
		body := `{"customerName":"Alice","customerEmail":"alice@example.com","dreamTea":"Mint"}`

		// Act
		rec := httptest.NewRecorder()
		ro.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/send-custom-tea", strings.NewReader(body)))
		resp, err := mod.Lambda().Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: body})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Failed to send message."}`, rec.Body.String())
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Failed to send message."}`, resp.Body)
	})
}
