package middleware

import (
	"net/http"
	"time"
)

// HTTPObserver receives one observation per request.
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, seconds float64)
}

// Metrics reports method, matched route, status and latency to obs.
func Metrics(obs HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrap(w)

			next.ServeHTTP(rw, r)

			obs.ObserveHTTP(r.Method, routePattern(r), rw.statusCode, time.Since(start).Seconds())
		})
	}
}
