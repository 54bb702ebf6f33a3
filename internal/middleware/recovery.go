package middleware

import (
	"log"
	"net/http"
	"runtime/debug"
)

// PanicRecovery converts handler panics into 500 responses instead of
// killing the connection.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[Recovery] Panic in %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
