package inbound

import (
	"context"

	"github.com/naghmatea/site/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// SendCustomTea relays a custom tea request to the shop's inbox.
// @Summary Send custom tea request
// @Description Validates the form, localizes the email by lang and sends it with Reply-To set to the customer.
// @Tags CustomTea
// @Accept json
// @Produce json
// @Param request body SendCustomTeaRequest true "Custom tea request payload"
// @Success 200 {object} SendCustomTeaResponse "Delivered; a honeypot hit answers AcceptedResponse"
// @Failure 400 {object} router.ErrorResponse "Invalid JSON or missing required fields"
// @Failure 405 {object} router.ErrorResponse "Method Not Allowed"
// @Failure 500 {object} router.ErrorResponse "Email service not configured or failed to send"
// @Router /api/send-custom-tea [post]
func (h *HTTPEndpoint) SendCustomTea(r *router.Request) (any, error) {
	var req SendCustomTeaRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return send(r.Context(), h.uc, req)
}

// Health reports liveness.
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HTTPEndpoint) Health(*router.Request) (any, error) {
	return HealthResponse{OK: true}, nil
}

func send(ctx context.Context, uc uc, req SendCustomTeaRequest) (any, error) {
	out, err := uc.Submit(ctx, req.input())
	if err != nil {
		return nil, err
	}

	if out.Suppressed {
		return AcceptedResponse{OK: true}, nil
	}
	return SendCustomTeaResponse{OK: true, ID: out.ID}, nil
}
