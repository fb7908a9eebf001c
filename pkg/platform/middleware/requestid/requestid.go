// Package requestid assigns a correlation ID to every request.
package requestid

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"txguard/pkg/requestcontext"
)

// Header carries the correlation ID in both directions.
const Header = "X-Request-ID"

const maxInboundLength = 128

// Middleware reuses a sane inbound X-Request-ID or generates a UUID, stores it
// in the context, and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(Header))
		if id == "" || len(id) > maxInboundLength {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
