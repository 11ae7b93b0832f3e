package router

import (
	"cmp"
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/naghmatea/site/internal/pkg/config"
	"github.com/naghmatea/site/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const maxLoggedBodyBytes = 32 << 10

// Observer traces, counts and logs inbound requests. The HTTP middleware and
// the serverless adapter share it so both deployment targets report the same
// span, metrics and access log lines, told apart by the target attribute.
type Observer struct {
	target   string
	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
	maskKeys map[string]struct{}
}

// NewObserver builds an Observer for target ("http", "lambda"). Masked field
// names are read from instrument.log_mask_fields. cfg and ins may be nil.
func NewObserver(cfg config.Config, ins instrument.Instrumentation, target string) *Observer {
	if ins == nil {
		ins = instrument.NewNoop()
	}

	o := &Observer{
		target: target,
		tracer: ins.Tracer("router." + target),
	}
	if cfg != nil {
		o.maskKeys = instrument.MaskKeys(cfg.GetArray("instrument.log_mask_fields"))
	}

	meter := ins.Meter("router")
	var err error
	if o.requests, err = meter.Int64Counter("server.requests", metric.WithDescription("Inbound requests by target, route and status")); err != nil {
		slog.Error("failed to create request counter", "target", target, "error", err)
	}
	if o.duration, err = meter.Float64Histogram("server.duration", metric.WithDescription("Inbound request duration in milliseconds")); err != nil {
		slog.Error("failed to create duration histogram", "target", target, "error", err)
	}

	return o
}

// Inbound describes a request as it arrives. Route is the matched pattern,
// URI the raw path.
type Inbound struct {
	Method   string
	Route    string
	URI      string
	ClientIP string
	Headers  http.Header
	Body     []byte
}

// Outbound describes the response. Bytes defaults to len(Body), which may be
// a truncated copy.
type Outbound struct {
	Status int
	Body   []byte
	Bytes  int
	Err    error
}

// Exchange is an observed request awaiting its response.
type Exchange struct {
	o     *Observer
	in    Inbound
	span  trace.Span
	start time.Time
}

// Start opens the server span and logs the request.
func (o *Observer) Start(ctx context.Context, in Inbound) (context.Context, *Exchange) {
	ctx, span := o.tracer.Start(ctx, in.Method+" "+in.Route,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			semconv.HTTPRequestMethodKey.String(in.Method),
			semconv.HTTPRouteKey.String(in.Route),
			semconv.ClientAddress(in.ClientIP),
			attribute.String("target", o.target),
		),
	)

	slog.InfoContext(ctx, "request received",
		"target", o.target,
		"method", in.Method,
		"path", in.Route,
		"uri", in.URI,
		"client_ip", in.ClientIP,
		"headers", o.headers(in.Headers),
		"body", o.body(in.Headers.Get("Content-Type"), in.Body),
	)

	return ctx, &Exchange{o: o, in: in, span: span, start: time.Now()}
}

// End records the response on the span and the metrics, logs it and closes
// the span. Statuses of 500 and above mark the span as failed.
func (e *Exchange) End(ctx context.Context, out Outbound) {
	latency := time.Since(e.start)
	size := cmp.Or(out.Bytes, len(out.Body))

	attrs := []attribute.KeyValue{
		semconv.HTTPRequestMethodKey.String(e.in.Method),
		semconv.HTTPRouteKey.String(e.in.Route),
		semconv.HTTPResponseStatusCodeKey.Int(out.Status),
		attribute.String("target", e.o.target),
	}

	if out.Err != nil {
		e.span.RecordError(out.Err)
	}
	switch {
	case out.Status >= http.StatusInternalServerError && out.Err != nil:
		e.span.SetStatus(codes.Error, out.Err.Error())
	case out.Status >= http.StatusInternalServerError:
		e.span.SetStatus(codes.Error, http.StatusText(out.Status))
	default:
		e.span.SetStatus(codes.Ok, "")
	}
	e.span.SetAttributes(append(attrs, semconv.HTTPResponseBodySize(size))...)
	e.span.End()

	if e.o.requests != nil {
		e.o.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	if e.o.duration != nil {
		e.o.duration.Record(ctx, float64(latency.Milliseconds()), metric.WithAttributes(attrs...))
	}

	slog.InfoContext(ctx, "response sent",
		"target", e.o.target,
		"method", e.in.Method,
		"path", e.in.Route,
		"status", out.Status,
		"bytes", size,
		"latency_ms", latency.Milliseconds(),
		"body", e.o.body("application/json", out.Body),
	)
}

func (o *Observer) headers(h http.Header) http.Header {
	if len(o.maskKeys) == 0 {
		return h
	}

	out := h.Clone()
	for key := range out {
		if _, hit := o.maskKeys[strings.ToLower(key)]; hit {
			out.Set(key, "***")
		}
	}
	return out
}

// body renders a payload for the access log: decoded and masked when it is
// JSON or form-encoded, as text otherwise.
func (o *Observer) body(contentType string, data []byte) any {
	if len(data) == 0 {
		return nil
	}

	if isForm(contentType) {
		if values, err := url.ParseQuery(string(data)); err == nil {
			form := make(map[string]any, len(values))
			for k, v := range values {
				form[k] = v[0]
			}
			return instrument.Mask(form, o.maskKeys)
		}
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err == nil {
		return instrument.Mask(decoded, o.maskKeys)
	}

	if !utf8.Valid(data) {
		return "<binary body omitted>"
	}
	if len(data) > maxLoggedBodyBytes {
		return string(data[:maxLoggedBodyBytes]) + "...(truncated)"
	}
	return string(data)
}

func isForm(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/x-www-form-urlencoded"
}
