// Package bodylimit caps request body size before handlers decode it.
package bodylimit

import "net/http"

// Middleware wraps the request body in http.MaxBytesReader. Handlers see a
// *http.MaxBytesError from Read once the limit is crossed.
func Middleware(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
