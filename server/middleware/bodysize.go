package middleware

import (
	"net/http"

	"github.com/dustin/go-humanize"
)

// DefaultMaxBodySize bounds control API request bodies.
const DefaultMaxBodySize = 64 * 1024

// ParseSize parses sizes such as "64KiB" or "1MB". Empty or unparsable input
// yields def.
func ParseSize(s string, def int64) int64 {
	if s == "" {
		return def
	}
	n, err := humanize.ParseBytes(s)
	if err != nil || n == 0 {
		return def
	}
	return int64(n)
}

// BodySizeLimit restricts request bodies to limit bytes.
func BodySizeLimit(limit int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
