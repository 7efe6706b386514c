package middleware

import (
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// SameOrigin is a middleware that rejects state-changing requests sent by a
// browser from another site.
//
// Safe methods always pass. For other methods the Sec-Fetch-Site header is
// trusted when present. Otherwise the host of the Origin header, or failing
// that of the Referer header, must match the request host. Requests carrying
// none of these headers come from non-browser clients and pass.
func SameOrigin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) || sameOrigin(r) {
				next.ServeHTTP(w, r)
				return
			}
			logger.Warn("rejected cross-origin request",
				zap.String("method", r.Method),
				zap.String("uri", r.RequestURI),
				zap.String("origin", r.Header.Get("Origin")),
			)
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func sameOrigin(r *http.Request) bool {
	if site := r.Header.Get("Sec-Fetch-Site"); site != "" {
		return site == "same-origin" || site == "none"
	}
	if origin := r.Header.Get("Origin"); origin != "" {
		return hostMatches(origin, r.Host)
	}
	if referer := r.Header.Get("Referer"); referer != "" {
		return hostMatches(referer, r.Host)
	}
	return true
}

// hostMatches reports whether raw is an absolute URL whose host is host.
// The opaque "null" origin never matches.
func hostMatches(raw, host string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Host == host
}
