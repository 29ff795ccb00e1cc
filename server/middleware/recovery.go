package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/kbukum/ntfywatch/errors"
	"github.com/kbukum/ntfywatch/logger"
)

// Recovery recovers from handler panics, logs the stack and answers with a
// structured 500 body.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("Panic recovered", map[string]interface{}{
					"error":  fmt.Sprintf("%v", rec),
					"stack":  string(debug.Stack()),
					"path":   r.URL.Path,
					"method": r.Method,
				})
				body := errors.Internal(fmt.Errorf("panic: %v", rec)).ToResponse()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(body)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
