package main

import (
	"net/http"
	"slices"
	"strings"
)

// enableCORS applies the configured CORS policy to all responses and answers
// preflight requests directly.
func (app *Application) enableCORS(next http.Handler) http.Handler {
	if !app.config.CORS.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cors := app.config.CORS

		if len(cors.Origins) > 0 {
			origin := r.Header.Get("Origin")
			if slices.Contains(cors.Origins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
		}

		if len(cors.AllowedMethods) > 0 {
			w.Header().Set("Access-Control-Allow-Methods", strings.Join(cors.AllowedMethods, ", "))
		}

		if len(cors.AllowedHeaders) > 0 {
			w.Header().Set("Access-Control-Allow-Headers", strings.Join(cors.AllowedHeaders, ", "))
		}

		if cors.AllowCredentials {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
