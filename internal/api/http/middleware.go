package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aksamedia/aksamedia-admin/pkg/logger"
	"github.com/aksamedia/aksamedia-admin/pkg/metrics"
)

// AccessLog logs one line per request and records the request metrics under the
// matched route pattern, so path parameters do not explode label cardinality.
func AccessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			endpoint := routePattern(r)
			metrics.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(status), elapsed.Seconds())

			fields := []logger.Field{
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", status),
				logger.Int("bytes", ww.BytesWritten()),
				logger.Int64("duration_ms", elapsed.Milliseconds()),
				logger.String("request_id", middleware.GetReqID(r.Context())),
			}
			if status >= http.StatusInternalServerError {
				log.Warn(r.Context(), "request", fields...)
				return
			}
			log.Info(r.Context(), "request", fields...)
		})
	}
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
