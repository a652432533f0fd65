// Package requesttime captures a single "now" per HTTP request so issued
// bills and log lines of one request share the same timestamp.
package requesttime

import (
	"net/http"
	"time"

	"qrbill/pkg/requestcontext"
)

// Middleware stores the request start time in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
