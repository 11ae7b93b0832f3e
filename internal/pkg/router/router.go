package router

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/naghmatea/site/internal/pkg/config"
	"github.com/naghmatea/site/internal/pkg/goerror"
	"github.com/naghmatea/site/internal/pkg/instrument"
	"github.com/naghmatea/site/internal/pkg/uid"
	"github.com/samber/lo"
)

const defaultFallbackMessage = "Internal server error"

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required fields."`
}

// Handler is the application-style handler used by this router.
//
// It returns a response payload (that will be JSON encoded) or an error.
type Handler func(r *Request) (any, error)

// Config holds dependencies required to build a Router.
type Config struct {
	// Config provides runtime configuration values.
	Config config.Config
	// UUID generates request correlation IDs.
	UUID uid.StringID
	// Instrument provides tracing and metrics helpers.
	Instrument instrument.Instrumentation
	// FallbackMessage is returned for errors that carry no user message and
	// for recovered panics.
	FallbackMessage string
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr       *httprouter.Router
	fallback string
	mws      []Middleware
}

// NewRouter builds the default application router with standard middleware.
func NewRouter(cfg Config) *Router {
	fallback := cfg.FallbackMessage
	if fallback == "" {
		fallback = defaultFallbackMessage
	}

	ins := cfg.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	ro := &Router{
		fallback: fallback,
		mws: []Middleware{
			middlewareRecoverer(fallback),
			middlewareIP,
			middlewareCorrelationID(cfg.UUID),
			middlewareObservability(NewObserver(cfg.Config, ins, "http")),
			middlewareMaintenance(cfg.Config),
		},
	}

	ro.hr = &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          false,
		SaveMatchedRoutePath:   true,
		NotFound: Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, ErrorResponse{Error: "Not Found"}, http.StatusNotFound)
		}), ro.mws...),
		MethodNotAllowed: Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Allow", allowedMethods(w.Header().Get("Allow")))
			writeJSON(w, ErrorResponse{Error: "Method Not Allowed"}, http.StatusMethodNotAllowed)
		}), ro.mws...),
	}

	ro.hr.GET("/", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		writeJSON(w, map[string]string{"message": "Welcome to Naghma Tea API"}, http.StatusOK)
	})

	return ro
}

// GET registers a GET endpoint using the application Handler signature.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

// POST registers a POST endpoint using the application Handler signature.
func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, re *http.Request) {
		resp, err := h(&Request{Request: re})
		if err != nil {
			if setter, ok := w.(interface{ SetError(error) }); ok {
				setter.SetError(err)
			}
			status, body := ErrorBody(err, r.fallback)
			writeJSON(w, body, status)
			return
		}

		status, body := SuccessBody(resp)
		if body == nil {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, body, status)
	}), append(slices.Clone(r.mws), mws...)...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

// ErrorBody maps err onto a status code and response body. Errors that are
// not *goerror.Error, or that carry no message, use fallback.
func ErrorBody(err error, fallback string) (int, ErrorResponse) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		return http.StatusInternalServerError, ErrorResponse{Error: fallback}
	}

	msg := gerr.Msg()
	if msg == "" {
		msg = fallback
	}

	return gerr.StatusCode(), ErrorResponse{Error: msg}
}

// SuccessBody resolves the status code of a handler payload. A nil payload
// or a 204 status means no body.
func SuccessBody(resp any) (int, any) {
	code := http.StatusOK
	if sc, ok := resp.(interface{ StatusCode() int }); ok {
		code = sc.StatusCode()
	}

	if resp == nil || code == http.StatusNoContent {
		return http.StatusNoContent, nil
	}

	return code, resp
}

// allowedMethods drops OPTIONS from the list httprouter computes; preflight
// is answered by the CORS layer, not by routes.
func allowedMethods(allow string) string {
	methods := lo.Map(strings.Split(allow, ","), func(m string, _ int) string {
		return strings.TrimSpace(m)
	})
	return strings.Join(lo.Without(lo.Compact(methods), http.MethodOptions), ", ")
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
