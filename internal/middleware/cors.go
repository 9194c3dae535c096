// Package middleware provides HTTP middleware for the advisor API.
package middleware

import "net/http"

// CORS returns middleware that handles CORS headers for the allowed origins.
// "*" allows any origin but never enables credentials.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed, explicit := false, false
			for _, o := range allowedOrigins {
				if o == origin && origin != "" {
					allowed, explicit = true, true
					break
				}
				if o == "*" {
					allowed = true
				}
			}

			if allowed && origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
				w.Header().Add("Vary", "Origin")
				if explicit {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
