package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"
)

// Response es el sobre estándar que devuelve la API para errores y endpoints operativos.
// Los recursos de dominio (items) se devuelven sin sobre, ver Raw.
type Response struct {
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
	Meta  *Meta      `json:"meta,omitempty"`
}

// Meta contiene información adicional útil para debugging y trazabilidad.
type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	TimeUTC   string `json:"time_utc,omitempty"`
}

// ErrorBody describe un error de forma estructurada.
// No exponer detalles internos (SQL, stacktrace, etc.) en producción.
type ErrorBody struct {
	Code    string `json:"code,omitempty"`    // ej: "invalid_id", "not_found"
	Message string `json:"message,omitempty"` // mensaje para humanos
}

// JSON escribe una respuesta con sobre y headers correctos.
func JSON(w http.ResponseWriter, status int, resp Response) {
	write(w, status, resp)
}

// Raw escribe value tal cual, sin sobre.
func Raw(w http.ResponseWriter, status int, value any) {
	write(w, status, value)
}

// write serializa value antes de tocar los headers: si el encodeo falla todavía se puede responder 500.
func write(w http.ResponseWriter, status int, value any) {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(value); err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"internal_error","message":"internal server error"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body.Bytes())
}

// OK devuelve una respuesta exitosa con data.
func OK(w http.ResponseWriter, r *http.Request, status int, data any) {
	JSON(w, status, Response{
		Data: data,
		Meta: newMeta(r),
	})
}

// Fail devuelve un error estructurado.
func Fail(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	JSON(w, status, Response{
		Error: &ErrorBody{
			Code:    code,
			Message: message,
		},
		Meta: newMeta(r),
	})
}

func newMeta(r *http.Request) *Meta {
	return &Meta{
		RequestID: RequestIDFrom(r),
		TimeUTC:   time.Now().UTC().Format(time.RFC3339),
	}
}
