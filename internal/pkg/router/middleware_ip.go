package router

import (
	"net"
	"net/http"
	"strings"
)

// clientIPHeaders are the headers the hosting platforms put the caller
// address in, most specific first.
var clientIPHeaders = []string{
	"X-Nf-Client-Connection-Ip", // Netlify
	"X-Vercel-Forwarded-For",
	"X-Real-IP",
	"X-Forwarded-For",
}

// ClientIP returns the caller address from the platform headers. The first
// entry of a list is used. When no header holds a valid IP, fallback is used
// if it is an IP or host:port; otherwise the result is "".
func ClientIP(h http.Header, fallback string) string {
	for _, key := range clientIPHeaders {
		first, _, _ := strings.Cut(h.Get(key), ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}

	if host, _, err := net.SplitHostPort(fallback); err == nil {
		fallback = host
	}
	if ip := net.ParseIP(fallback); ip != nil {
		return ip.String()
	}
	return ""
}

func middlewareIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ip := ClientIP(r.Header, r.RemoteAddr); ip != "" {
			r.RemoteAddr = ip
		}
		next.ServeHTTP(w, r)
	})
}
