package remote

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// RequireToken wraps next so that only requests carrying token as a Bearer
// credential reach it. Other requests get 401 Unauthorized. An empty token
// disables the check.
func RequireToken(token string, logger *slog.Logger, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	if logger == nil {
		logger = slog.Default()
	}
	want := []byte(token)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			logger.Warn("remote check rejected",
				"path", r.URL.Path,
				"request_id", r.Header.Get(RequestIDHeader),
				"remote_addr", r.RemoteAddr,
			)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
