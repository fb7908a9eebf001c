// Package requesttime captures one "now" per request so that log lines, audit
// events, and metrics for a verification agree on when it happened.
package requesttime

import (
	"net/http"
	"time"

	"txguard/pkg/requestcontext"
)

// Middleware stores the request start time in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
