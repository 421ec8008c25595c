package middleware

import (
	"context"
	"net/http"
	"strings"
)

// UnknownClientIP is used when the trusted proxy header is absent.
const UnknownClientIP = "unknown"

// ClientIP resolves the caller address from header, which the fronting proxy
// sets, and stores it in the request context. RemoteAddr is never consulted:
// behind the proxy it is the proxy's own address.
func ClientIP(header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIPFromHeader(r, header)
			ctx := context.WithValue(r.Context(), ClientIPKey, ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientIP retrieves the client IP stored by ClientIP.
func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ClientIPKey).(string); ok && ip != "" {
		return ip
	}
	return UnknownClientIP
}

func clientIPFromHeader(r *http.Request, header string) string {
	if header == "" {
		return UnknownClientIP
	}
	value := r.Header.Get(header)
	// X-Forwarded-For style headers carry a list; the first entry is the client.
	if i := strings.IndexByte(value, ','); i >= 0 {
		value = value[:i]
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return UnknownClientIP
	}
	return value
}
