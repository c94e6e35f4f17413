package middleware

import (
	"net/http"
	"strconv"
	"time"

	"grafik/pkg/metrics"
)

// HTTPMetrics records request counts and latency. Labels stay low-cardinality
// on purpose: method and status only, no raw paths.
func HTTPMetrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     200,
				written:        false,
			}

			next.ServeHTTP(wrapped, r)

			metrics.ObserveHTTPRequest(
				r.Method,
				strconv.Itoa(wrapped.statusCode),
				time.Since(start).Seconds(),
			)
		})
	}
}
