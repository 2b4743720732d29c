package httpx

import (
	"log"
	"net/http"
	"runtime/debug"
)

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := wrap(w)
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				log.Printf("panic recovered: request_id=%s error=%v stack=%s", RequestIDFrom(r), err, debug.Stack())
				if !rw.headerWritten {
					JSONError(rw, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", nil)
				}
			}
		}()
		next.ServeHTTP(rw, r)
	})
}
