package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger reemplaza a middleware.Logger de chi con logs estructurados de zap.
// 4xx se loguean como warn y 5xx como error.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					// El handler no escribió nada: net/http responde 200.
					status = http.StatusOK
				}

				level := zapcore.InfoLevel
				switch {
				case status >= http.StatusInternalServerError:
					level = zapcore.ErrorLevel
				case status >= http.StatusBadRequest:
					level = zapcore.WarnLevel
				}

				log.Check(level, "http request").Write(
					zap.String("request_id", RequestIDFrom(r)),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", status),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("remote_addr", r.RemoteAddr),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
