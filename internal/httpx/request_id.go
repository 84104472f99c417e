package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader es el header por el que entra y sale el request id.
const RequestIDHeader = "X-Request-Id"

// RequestID reutiliza el id que manda el cliente o genera un UUID nuevo.
// Se guarda bajo la misma key que usa chi para que middleware.GetReqID siga funcionando.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFrom lee el request id desde el contexto y, si no está, desde el header.
func RequestIDFrom(request *http.Request) string {
	if request == nil {
		return ""
	}
	if requestID := middleware.GetReqID(request.Context()); requestID != "" {
		return requestID
	}
	return request.Header.Get(RequestIDHeader)
}
