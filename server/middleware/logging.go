package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/ntfywatch/logger"
)

// quietPaths are polled often and never logged.
var quietPaths = map[string]bool{
	"/health": true,
	"/info":   true,
}

// RequestLogger logs every request with method, path, status code and
// duration. The level follows the status class.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			fields := logger.Fields(
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				logger.FieldDuration, time.Since(start).Milliseconds(),
			)
			if id := r.Header.Get(RequestIDHeader); id != "" {
				fields[logger.FieldRequestID] = id
			}
			logByStatus(log, fields, sw.status)
		})
	}
}

func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
