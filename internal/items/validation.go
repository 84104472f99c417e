package items

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes limita el tamaño de los payloads de items.
const maxBodyBytes = 1 << 20

// errorInvalidJSON marca bodies que no son un objeto JSON bien formado.
var errorInvalidJSON = errors.New("invalid JSON body")

// createItemRequest es el esquema del body de POST /items. Todo obligatorio.
// Los punteros permiten distinguir "ausente" de valor cero.
type createItemRequest struct {
	ShortDescription *string `json:"shortDescription" validate:"required,max=128"`
	Category         *int64  `json:"category" validate:"required"`
	Value            *int64  `json:"value" validate:"required"`
	Incoming         *bool   `json:"incoming" validate:"required"`
	DateEvent        *string `json:"dateEvent" validate:"required,isodate"`
}

// updateItemRequest es el esquema del body de PATCH /items/{id}. Todo opcional,
// pero si viene se valida igual que en el alta.
type updateItemRequest struct {
	ShortDescription *string `json:"shortDescription" validate:"omitempty,max=128"`
	Category         *int64  `json:"category" validate:"omitempty"`
	Value            *int64  `json:"value" validate:"omitempty"`
	Incoming         *bool   `json:"incoming" validate:"omitempty"`
	DateEvent        *string `json:"dateEvent" validate:"omitempty,isodate"`
}

// Formatos ISO aceptados para dateEvent.
// Los que no traen zona se interpretan en la zona configurada, salvo la fecha sola (UTC).
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04Z07:00",
	}
	localLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
	}
	dateOnlyLayout = time.DateOnly
)

// parseDateEvent convierte el string validado en un instante, truncado al milisegundo:
// es la resolución de MonthRange, y con más precisión un instante podría caer entre dos meses.
func parseDateEvent(value string, location *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range zonedLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Truncate(time.Millisecond), nil
		}
	}
	for _, layout := range localLayouts {
		if parsed, err := time.ParseInLocation(layout, value, location); err == nil {
			return parsed.Truncate(time.Millisecond), nil
		}
	}
	if parsed, err := time.ParseInLocation(dateOnlyLayout, value, time.UTC); err == nil {
		return parsed, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected ISO string", value)
}

// newValidator registra la regla isodate y usa los nombres JSON en los mensajes.
func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// El error de RegisterValidation solo aparece con tags inválidos; "isodate" es fijo.
	_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := parseDateEvent(fl.Field().String(), time.UTC)
		return err == nil
	})

	return validate
}

// decodeBody lee un objeto JSON en target.
// Primero se decodifica a un mapa crudo: solo pasan las claves que target declara, con el
// nombre exacto (encoding/json por sí solo ignora mayúsculas), y esas no pueden ser null.
// El resto de las claves se descarta.
func decodeBody(body io.Reader, target any) error {
	raw, err := io.ReadAll(io.LimitReader(body, maxBodyBytes+1))
	if err != nil {
		return errorInvalidJSON
	}
	if len(raw) > maxBodyBytes {
		return fmt.Errorf("%w: body too large", ErrorInvalidInput)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return errorInvalidJSON
	}

	known := make(map[string]json.RawMessage, len(fields))
	for _, name := range jsonFieldNames(target) {
		value, ok := fields[name]
		if !ok {
			continue
		}
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return fmt.Errorf("%w: %s must not be null", ErrorInvalidInput, name)
		}
		known[name] = value
	}

	filtered, err := json.Marshal(known)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrorInvalidInput, err)
	}
	if err := json.Unmarshal(filtered, target); err != nil {
		var typeError *json.UnmarshalTypeError
		if errors.As(err, &typeError) {
			return fmt.Errorf("%w: %s has the wrong type", ErrorInvalidInput, typeError.Field)
		}
		return fmt.Errorf("%w: %v", ErrorInvalidInput, err)
	}

	return nil
}

// jsonFieldNames devuelve los nombres JSON de los campos del struct al que apunta target.
func jsonFieldNames(target any) []string {
	structType := reflect.TypeOf(target)
	for structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}

	names := make([]string, 0, structType.NumField())
	for i := 0; i < structType.NumField(); i++ {
		name := strings.SplitN(structType.Field(i).Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// validationError resume los errores de validator en un mensaje corto.
func validationError(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", ErrorInvalidInput, err)
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		messages = append(messages, describe(fieldError))
	}
	return fmt.Errorf("%w: %s", ErrorInvalidInput, strings.Join(messages, "; "))
}

func describe(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return fieldError.Field() + " is required"
	case "max":
		return fieldError.Field() + " must be at most " + fieldError.Param() + " characters"
	case "isodate":
		return fieldError.Field() + " must be an ISO date string"
	default:
		return fieldError.Field() + " is invalid"
	}
}

// parseCreate valida el body de alta y lo transforma en CreateItemInput.
func parseCreate(validate *validator.Validate, body io.Reader, location *time.Location) (CreateItemInput, error) {
	var request createItemRequest
	if err := decodeBody(body, &request); err != nil {
		return CreateItemInput{}, err
	}
	if err := validate.Struct(request); err != nil {
		return CreateItemInput{}, validationError(err)
	}

	// Recién después de validar se transforma la fecha.
	dateEvent, err := parseDateEvent(*request.DateEvent, location)
	if err != nil {
		return CreateItemInput{}, fmt.Errorf("%w: %v", ErrorInvalidInput, err)
	}

	return CreateItemInput{
		ShortDescription: *request.ShortDescription,
		Category:         *request.Category,
		Value:            *request.Value,
		Incoming:         *request.Incoming,
		DateEvent:        dateEvent,
	}, nil
}

// parseUpdate valida el body parcial; solo los campos presentes llegan al UpdateItemInput.
func parseUpdate(validate *validator.Validate, id int64, body io.Reader, location *time.Location) (UpdateItemInput, error) {
	var request updateItemRequest
	if err := decodeBody(body, &request); err != nil {
		return UpdateItemInput{}, err
	}
	if err := validate.Struct(request); err != nil {
		return UpdateItemInput{}, validationError(err)
	}

	input := UpdateItemInput{
		ID:               id,
		ShortDescription: request.ShortDescription,
		Category:         request.Category,
		Value:            request.Value,
		Incoming:         request.Incoming,
	}
	if request.DateEvent != nil {
		dateEvent, err := parseDateEvent(*request.DateEvent, location)
		if err != nil {
			return UpdateItemInput{}, fmt.Errorf("%w: %v", ErrorInvalidInput, err)
		}
		input.DateEvent = &dateEvent
	}

	return input, nil
}

// parseInt parsea un segmento de path de forma estricta (sin basura al final).
func parseInt(value string) (int64, error) {
	return strconv.ParseInt(value, 10, 64)
}
