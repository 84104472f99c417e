package items

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Lelo88/ledger-api-golang/internal/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ServiceAPI define lo que el handler necesita.
// Permite testear handlers con stubs sin tocar DB.
type ServiceAPI interface {
	Create(ctx context.Context, input CreateItemInput) error
	Update(ctx context.Context, input UpdateItemInput) error
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (Item, bool, error)
	ListByCategory(ctx context.Context, category int64) ([]Item, error)
	ListByMonth(ctx context.Context, year, month int) ([]Item, error)
}

// Handler HTTP para items.
// Valida y parsea la entrada no confiable y traduce resultados a status codes.
type Handler struct {
	service  ServiceAPI
	validate *validator.Validate
	location *time.Location
	log      *zap.Logger
}

// Option configura el Handler.
type Option func(*Handler)

// WithLocation fija la zona en la que se interpretan fechas sin offset.
func WithLocation(location *time.Location) Option {
	return func(handler *Handler) {
		if location != nil {
			handler.location = location
		}
	}
}

// WithLogger fija el logger para errores internos.
func WithLogger(log *zap.Logger) Option {
	return func(handler *Handler) {
		if log != nil {
			handler.log = log
		}
	}
}

// NewHandler crea un handler de items.
func NewHandler(service ServiceAPI, options ...Option) *Handler {
	handler := &Handler{
		service:  service,
		validate: newValidator(),
		location: time.Local,
		log:      zap.NewNop(),
	}
	for _, option := range options {
		option(handler)
	}
	return handler
}

// Create maneja POST /items.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	input, err := parseCreate(handler.validate, request.Body, handler.location)
	if err != nil {
		handler.failBody(writer, request, err)
		return
	}

	if err := handler.service.Create(request.Context(), input); err != nil {
		handler.failService(writer, request, "create", err)
		return
	}

	writer.WriteHeader(http.StatusCreated)
}

// Update maneja PATCH /items/{id}. Solo se aplican los campos presentes en el body.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	id, ok := handler.pathInt(writer, request, "id", "invalid_id", "invalid ID format")
	if !ok {
		return
	}

	input, err := parseUpdate(handler.validate, id, request.Body, handler.location)
	if err != nil {
		handler.failBody(writer, request, err)
		return
	}

	if err := handler.service.Update(request.Context(), input); err != nil {
		handler.failService(writer, request, "update", err)
		return
	}

	writer.WriteHeader(http.StatusOK)
}

// Delete maneja DELETE /items/{id}. Responde 204 exista o no la fila.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	id, ok := handler.pathInt(writer, request, "id", "invalid_id", "invalid ID format")
	if !ok {
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		handler.failService(writer, request, "delete", err)
		return
	}

	// 204 No Content: respuesta vacía.
	writer.WriteHeader(http.StatusNoContent)
}

// GetByID maneja GET /items/{id}.
func (handler *Handler) GetByID(writer http.ResponseWriter, request *http.Request) {
	id, ok := handler.pathInt(writer, request, "id", "invalid_id", "invalid ID format")
	if !ok {
		return
	}

	item, found, err := handler.service.Get(request.Context(), id)
	if err != nil {
		handler.failService(writer, request, "get", err)
		return
	}
	if !found {
		httpx.Fail(writer, request, http.StatusNotFound, "not_found", "item not found")
		return
	}

	httpx.Raw(writer, http.StatusOK, item)
}

// ListByCategory maneja GET /items/category/{category}.
func (handler *Handler) ListByCategory(writer http.ResponseWriter, request *http.Request) {
	category, ok := handler.pathInt(writer, request, "category", "invalid_category", "invalid category format")
	if !ok {
		return
	}

	items, err := handler.service.ListByCategory(request.Context(), category)
	if err != nil {
		handler.failService(writer, request, "list_by_category", err)
		return
	}

	httpx.Raw(writer, http.StatusOK, nonNil(items))
}

// Rango de años aceptado: fuera de él time.Date desborda y el rango del mes no significa nada.
const (
	minYear = 1
	maxYear = 9999
)

// ListByMonth maneja GET /items/month/{year}/{month}. year en [1,9999] y month en [1,12].
func (handler *Handler) ListByMonth(writer http.ResponseWriter, request *http.Request) {
	year, errYear := parseInt(chi.URLParam(request, "year"))
	month, errMonth := parseInt(chi.URLParam(request, "month"))
	if errYear != nil || errMonth != nil ||
		year < minYear || year > maxYear || month < 1 || month > 12 {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_date", "invalid year or month format")
		return
	}

	items, err := handler.service.ListByMonth(request.Context(), int(year), int(month))
	if err != nil {
		handler.failService(writer, request, "list_by_month", err)
		return
	}

	httpx.Raw(writer, http.StatusOK, nonNil(items))
}

// pathInt parsea un parámetro entero del path; si falla responde 400 y devuelve ok=false.
func (handler *Handler) pathInt(writer http.ResponseWriter, request *http.Request, name, code, message string) (int64, bool) {
	value, err := parseInt(chi.URLParam(request, name))
	if err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, code, message)
		return 0, false
	}
	return value, true
}

// failBody traduce errores de decodificación/validación del body.
func (handler *Handler) failBody(writer http.ResponseWriter, request *http.Request, err error) {
	switch {
	case errors.Is(err, errorInvalidJSON):
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_json", "invalid JSON body")
	case errors.Is(err, ErrorInvalidInput):
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_body", err.Error())
	default:
		httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}

// failService traduce errores del service. Los internos se loguean y no se filtran al cliente.
func (handler *Handler) failService(writer http.ResponseWriter, request *http.Request, operation string, err error) {
	if errors.Is(err, ErrorInvalidInput) {
		httpx.Fail(writer, request, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	handler.log.Error("item operation failed",
		zap.String("operation", operation),
		zap.String("request_id", httpx.RequestIDFrom(request)),
		zap.Error(err),
	)
	httpx.Fail(writer, request, http.StatusInternalServerError, "internal_error", "unexpected error")
}

func nonNil(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	return items
}
