package router

import (
	"cmp"
	"net/http"
	"strings"

	"github.com/naghmatea/site/internal/pkg/instrument"
	"github.com/naghmatea/site/internal/pkg/uid"
)

const (
	// HeaderCorrelationID is set on every response, HTTP and serverless.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is accepted as the inbound id when HeaderCorrelationID is absent.
	HeaderRequestID = "X-Request-ID"

	maxCIDLen = 128
)

// NormalizeCID trims v and cuts it to 128 bytes. Values carrying line breaks
// are rejected as "".
func NormalizeCID(v string) string {
	v = strings.TrimSpace(v)
	if strings.ContainsAny(v, "\r\n") {
		return ""
	}
	return v[:min(len(v), maxCIDLen)]
}

// CorrelationID returns the caller supplied id, X-Correlation-ID first.
func CorrelationID(h http.Header) string {
	return cmp.Or(NormalizeCID(h.Get(HeaderCorrelationID)), NormalizeCID(h.Get(HeaderRequestID)))
}

func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := CorrelationID(r.Header)
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
