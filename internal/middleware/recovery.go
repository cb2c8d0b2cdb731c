package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/2beens/gymvariations/internal/telemetry/metrics"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns a handler panic into a 500, reports it to sentry and counts it.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				log.Errorf("http: panic serving [%s %s]: %v\n%s", req.Method, req.URL.Path, r, debug.Stack())
				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetRequest(req)
				hub.Recover(r)

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				http.Error(w, "internal error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, req)
		})
	}
}
