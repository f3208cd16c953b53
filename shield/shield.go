// Package shield provides the HTTP middleware wrapped around every route of
// the converter API: security headers, HEAD handling, upload body limits,
// request tracing, and CORS.
//
// Usage:
//
//	r := chi.NewRouter()
//	for _, mw := range shield.DefaultAPIStack(shield.StackConfig{MaxBody: 50 << 20}) {
//	    r.Use(mw)
//	}
package shield

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// StackConfig parameterises DefaultAPIStack.
type StackConfig struct {
	// MaxBody caps request bodies. Zero disables the cap.
	MaxBody int64

	// AllowedOrigins lists the CORS origins. "*" allows any origin.
	// Empty disables CORS headers entirely.
	AllowedOrigins []string

	// Logger is the base for per-request loggers. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultAPIStack returns the standard middleware stack for a JSON/binary API.
// Order: GetHead, SecurityHeaders, Tracer, CORS, MaxBody. GetHead routes HEAD
// to the GET handler without touching r.Method, so net/http still drops the
// body. It needs the chi route context and must be installed with r.Use.
func DefaultAPIStack(cfg StackConfig) []func(http.Handler) http.Handler {
	stack := []func(http.Handler) http.Handler{
		middleware.GetHead,
		SecurityHeaders(APIHeaders()),
		Tracer(cfg.Logger),
	}
	if len(cfg.AllowedOrigins) > 0 {
		stack = append(stack, CORS(CORSConfig{AllowedOrigins: cfg.AllowedOrigins}))
	}
	if cfg.MaxBody > 0 {
		stack = append(stack, MaxBody(cfg.MaxBody))
	}
	return stack
}
