package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel zapcore.Level
	}{
		{name: "implicit ok", status: 0, wantLevel: zapcore.InfoLevel},
		{name: "created", status: http.StatusCreated, wantLevel: zapcore.InfoLevel},
		{name: "bad request", status: http.StatusBadRequest, wantLevel: zapcore.WarnLevel},
		{name: "internal error", status: http.StatusInternalServerError, wantLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			handler := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
			}))

			req := httptest.NewRequest(http.MethodGet, "/items/1", nil)
			req.Header.Set("X-Request-Id", "req-1")
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			entries := logs.All()
			require.Len(t, entries, 1)
			require.Equal(t, tt.wantLevel, entries[0].Level)

			fields := entries[0].ContextMap()
			require.Equal(t, "req-1", fields["request_id"])
			require.Equal(t, "/items/1", fields["path"])
			wantStatus := tt.status
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}
			require.EqualValues(t, wantStatus, fields["status"])
		})
	}
}
