package router

import (
	"net/http"

	"ListableAPI/internal/auth"
	"ListableAPI/internal/config"
	"ListableAPI/internal/handler"
	"ListableAPI/internal/logger"

	"github.com/google/uuid"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-ID"

// InitRoutes registers the API routes.
// validator may be nil when auth is disabled.
func InitRoutes(cfg *config.Config, h *handler.Handler, validator *auth.JWTValidator) *http.ServeMux {
	protect := func(next http.HandlerFunc) http.HandlerFunc {
		if validator == nil {
			return next
		}
		return validator.Middleware(next)
	}
	wrap := func(next http.HandlerFunc) http.HandlerFunc {
		return withCORS(cfg.CORS, withLogging(protect(next)))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/list", wrap(h.ListHandler))
	mux.HandleFunc("/api/count", wrap(h.CountHandler))
	mux.HandleFunc("/api/resources", wrap(h.ResourcesHandler))
	return mux
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		fields := map[string]any{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     sw.status,
		}
		switch {
		case sw.status >= 500:
			logger.Error("response", fields)
		case sw.status >= 400:
			logger.Warn("response", fields)
		default:
			logger.Info("response", fields)
		}
	}
}
