package metadata

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"txguard/pkg/requestcontext"
)

// ClientMetadata extracts the client IP address and User-Agent from the
// request and stores them, plus a parsed "browser/os" summary, in the context.
// Apply it early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("User-Agent")
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), raw, SummarizeUserAgent(raw))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SummarizeUserAgent reduces a User-Agent header to "browser/os", or
// "bot/<name>" for crawlers. Empty input yields "".
func SummarizeUserAgent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, _ := ua.Browser()
	if ua.Bot() {
		return "bot/" + name
	}
	os := ua.OS()
	if os == "" {
		os = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return name + "/" + os
}

// ClientIPFromRequest extracts the real client IP, honouring proxy headers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For can contain client, proxy1, proxy2...; the first is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is "ip:port" ("[::1]:port" for IPv6).
	if addr := r.RemoteAddr; addr != "" {
		if idx := strings.LastIndex(addr, ":"); idx != -1 {
			return addr[:idx]
		}
		return addr
	}

	return "unknown"
}
