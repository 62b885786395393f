package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/slate-api/internal/api/shared"
	"github.com/phrazzld/slate-api/internal/platform/logger"
)

// TraceMiddleware adds a trace ID to the request context, echoes it in the
// X-Trace-ID response header and stores a request-scoped logger carrying it.
// It should be applied early in the middleware chain so that all subsequent
// handlers see the trace ID.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)
		w.Header().Set(shared.TraceIDHeader, traceID)

		log := slog.Default().With(slog.String("trace_id", traceID))
		if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
			log = log.With(slog.String("request_id", reqID))
		}
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	})
}
