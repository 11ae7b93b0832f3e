package router

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/naghmatea/site/internal/pkg/stacktrace"
)

//nolint:contextcheck // the panic is logged with the request context
func middlewareRecoverer(fallback string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				//nolint:err113,errorlint // this must compare directly
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				stack := debug.Stack()
				if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
					slog.ErrorContext(r.Context(), "panic on the server", "because", rvr, "stack", paths)
				} else {
					slog.ErrorContext(r.Context(), "panic on the server trace debug", "because", rvr, "stack", string(stack))
				}

				if r.Header.Get("Connection") == "Upgrade" {
					return
				}
				writeJSON(w, ErrorResponse{Error: fallback}, http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
