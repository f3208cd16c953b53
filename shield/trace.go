package shield

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/hazyhaar/pdfsheet/kit"
)

// Tracer returns middleware that assigns each request a trace ID (UUIDv7),
// echoes it in X-Trace-ID, and stores it with a per-request logger in the
// context (kit.TraceIDKey, kit.LoggerKey). The request ID set by chi's
// RequestID middleware, when present, is carried along. One line is logged
// when the request completes.
func Tracer(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := newTraceID()
			w.Header().Set("X-Trace-ID", traceID)

			l := base
			if l == nil {
				l = slog.Default()
			}
			l = l.With("trace_id", traceID, "method", r.Method, "path", r.URL.Path)

			ctx := kit.WithTraceID(r.Context(), traceID)
			if reqID := middleware.GetReqID(ctx); reqID != "" {
				ctx = kit.WithRequestID(ctx, reqID)
				l = l.With("request_id", reqID)
			}
			ctx = kit.WithLogger(ctx, l)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			l.Info("request", "status", status, "bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds())
		})
	}
}

func newTraceID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
