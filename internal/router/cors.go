package router

import (
	"net/http"
	"slices"
	"strings"

	"ListableAPI/internal/config"
)

// withCORS adds CORS headers and answers preflight requests itself.
func withCORS(c config.CORSConfig, h http.HandlerFunc) http.HandlerFunc {
	origins := parseOrigins(c.AllowOrigin)
	return func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		origin, vary := allowedOrigin(origins, c.AllowCredentials, r.Header.Get("Origin"))
		if origin != "" {
			hdr.Set("Access-Control-Allow-Origin", origin)
		}
		if vary {
			hdr.Set("Vary", "Origin")
		}
		if c.AllowCredentials {
			hdr.Set("Access-Control-Allow-Credentials", "true")
		}
		hdr.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		hdr.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
		hdr.Set("Access-Control-Expose-Headers", RequestIDHeader)
		hdr.Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h(w, r)
	}
}

// allowedOrigin picks the Access-Control-Allow-Origin value. An empty list
// or "*" allows everyone; with credentials the request origin is echoed,
// because browsers reject "*" there.
func allowedOrigin(origins []string, credentials bool, requestOrigin string) (value string, vary bool) {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		if credentials && requestOrigin != "" {
			return requestOrigin, true
		}
		return "*", false
	}
	if requestOrigin != "" && slices.Contains(origins, requestOrigin) {
		return requestOrigin, true
	}
	return "", true
}

func parseOrigins(csv string) []string {
	var out []string
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
