package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

const publicTemplatesPath = "/variations/templates"

var allowedUserAgentPrefixes = []string{
	"GymVariations/1",
	"curl/",
	"test-agent",
}

func Cors(allowedOrigins []string) func(next http.Handler) http.Handler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[strings.TrimSuffix(o, "/")] = true
	}

	userAgentAllowed := func(userAgent string) bool {
		for _, prefix := range allowedUserAgentPrefixes {
			if strings.HasPrefix(userAgent, prefix) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			publicPath := strings.HasPrefix(r.URL.Path, publicTemplatesPath)

			if !origins[origin] && !userAgentAllowed(r.Header.Get("User-Agent")) && !publicPath {
				log.Warnf("CORS: origin not allowed for path [%s] and origin [%s]", r.URL.Path, origin)
				w.WriteHeader(http.StatusForbidden)
				return
			}

			allowOrigin := origin
			if allowOrigin == "" && publicPath {
				allowOrigin = "*"
			}
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Headers",
				"Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, "+AuthTokenHeader,
			)
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT")

			next.ServeHTTP(w, r)
		})
	}
}
