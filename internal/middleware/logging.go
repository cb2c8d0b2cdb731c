package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			begin := time.Now()
			resp := &responseWriter{w, http.StatusOK}

			next.ServeHTTP(resp, r)

			entry := log.WithFields(log.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   resp.statusCode,
				"duration": time.Since(begin).String(),
			})
			if resp.statusCode >= http.StatusInternalServerError {
				entry.Warn(" <==== request failed")
				return
			}
			entry.WithField("ua", r.Header.Get("User-Agent")).Trace(" <==== request")
		})
	}
}
