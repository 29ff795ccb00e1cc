package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID on requests and responses.
const RequestIDHeader = "X-Request-Id"

// RequestID keeps an incoming X-Request-Id or generates one, and mirrors it
// on the response.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
				r.Header.Set(RequestIDHeader, id)
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r)
		})
	}
}
