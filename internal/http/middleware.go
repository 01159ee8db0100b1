package http

import (
	"net/http"
	"strings"
)

// SecurityHeaders adds security-related headers to all responses.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", contentSecurityPolicy(r.URL.Path))

		next.ServeHTTP(w, r)
	})
}

func contentSecurityPolicy(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/"), path == "/health":
		return "default-src 'none'"
	case strings.HasPrefix(path, "/swagger/"):
		// Swagger UI needs scripts, styles, and images to render
		return "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:"
	default:
		// Web UI bundle
		return "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'"
	}
}
