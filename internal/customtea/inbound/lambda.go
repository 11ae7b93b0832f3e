package inbound

import (
	"cmp"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/aws/aws-lambda-go/events"
	"github.com/naghmatea/site/internal/pkg/goerror"
	"github.com/naghmatea/site/internal/pkg/instrument"
	"github.com/naghmatea/site/internal/pkg/router"
	"github.com/naghmatea/site/internal/pkg/stacktrace"
	"github.com/naghmatea/site/internal/pkg/uid"
)

// LambdaHandler serves the custom tea endpoint as an API Gateway proxy
// function (Netlify Functions use the same event shape). It never returns a
// Go error: every outcome is a status code.
type LambdaHandler struct {
	uc       uc
	uuid     uid.StringID
	obs      *router.Observer
	fallback string
}

func NewLambdaHandler(uc uc, uuid uid.StringID, obs *router.Observer, fallback string) *LambdaHandler {
	if obs == nil {
		obs = router.NewObserver(nil, nil, "lambda")
	}
	return &LambdaHandler{uc: uc, uuid: uuid, obs: obs, fallback: fallback}
}

func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, _ error) {
	headers := make(http.Header, len(req.Headers))
	for k, v := range req.Headers {
		headers.Set(k, v)
	}

	ctx = instrument.SetCorrelationID(ctx, h.correlationID(headers, req))

	body, decodeErr := eventBody(req)
	ctx, ex := h.obs.Start(ctx, router.Inbound{
		Method:   req.HTTPMethod,
		Route:    pathSendCustomTea,
		URI:      req.Path,
		ClientIP: router.ClientIP(headers, req.RequestContext.Identity.SourceIP),
		Headers:  headers,
		Body:     body,
	})

	var err error
	defer func() {
		if rvr := recover(); rvr != nil {
			slog.ErrorContext(ctx, "panic on the lambda handler", "because", rvr, "stack", stacktrace.InternalPaths(debug.Stack()))
			resp = h.respond(ctx, http.StatusInternalServerError, router.ErrorResponse{Error: h.fallback})
		}
		ex.End(ctx, router.Outbound{Status: resp.StatusCode, Body: []byte(resp.Body), Err: err})
	}()

	if req.HTTPMethod != http.MethodPost {
		status, errBody := router.ErrorBody(goerror.NewMethodNotAllowed(), h.fallback)
		resp = h.respond(ctx, status, errBody)
		resp.Headers["Allow"] = http.MethodPost
		return resp, nil
	}

	var out any
	if out, err = h.submit(ctx, headers.Get("Content-Type"), body, decodeErr); err != nil {
		status, errBody := router.ErrorBody(err, h.fallback)
		return h.respond(ctx, status, errBody), nil
	}

	status, okBody := router.SuccessBody(out)
	return h.respond(ctx, status, okBody), nil
}

func (h *LambdaHandler) submit(ctx context.Context, contentType string, body []byte, decodeErr error) (any, error) {
	if decodeErr != nil {
		return nil, decodeErr
	}

	var in SendCustomTeaRequest
	if err := router.DecodePayload(contentType, body, &in); err != nil {
		return nil, err
	}

	return send(ctx, h.uc, in)
}

// eventBody returns the raw request body, decoding base64 events.
func eventBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}

	decoded, err := base64.StdEncoding.DecodeString(req.Body)
	if err != nil {
		return nil, goerror.NewInvalidFormat("Invalid JSON")
	}
	return decoded, nil
}

func (h *LambdaHandler) respond(ctx context.Context, status int, body any) events.APIGatewayProxyResponse {
	resp := events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
	if cid := instrument.GetCorrelationID(ctx); cid != "" {
		resp.Headers[router.HeaderCorrelationID] = cid
	}

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			slog.ErrorContext(ctx, "lambda: failed to encode data to json", "error", err)
			resp.StatusCode = http.StatusInternalServerError
			data, _ = json.Marshal(router.ErrorResponse{Error: h.fallback})
		}
		resp.Body = string(data)
	}

	return resp
}

// correlationID prefers the caller headers, then the gateway request id,
// then a generated one.
func (h *LambdaHandler) correlationID(headers http.Header, req events.APIGatewayProxyRequest) string {
	if cid := cmp.Or(router.CorrelationID(headers), router.NormalizeCID(req.RequestContext.RequestID)); cid != "" {
		return cid
	}
	if h.uuid != nil {
		return h.uuid.Generate()
	}
	return ""
}
