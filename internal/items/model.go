package items

import (
	"encoding/json"
	"time"
)

// MaxShortDescriptionLength es el largo de la columna short_description (varchar(128)).
const MaxShortDescriptionLength = 128

// isoMillis es el formato de fecha que devuelve la API: UTC con milisegundos.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Item representa un movimiento persistido en la tabla item.
// Incoming es puntero porque la columna admite NULL y no lo igualamos a false.
type Item struct {
	ID               int64     `json:"id"`
	ShortDescription string    `json:"shortDescription"`
	Category         int64     `json:"category"`
	Value            int64     `json:"value"`
	Incoming         *bool     `json:"incoming"`
	DateEvent        time.Time `json:"dateEvent"`
}

// MarshalJSON serializa dateEvent siempre en UTC con milisegundos ("2024-03-05T08:00:00.000Z").
func (item Item) MarshalJSON() ([]byte, error) {
	type alias Item
	return json.Marshal(struct {
		alias
		DateEvent string `json:"dateEvent"`
	}{
		alias:     alias(item),
		DateEvent: item.DateEvent.UTC().Format(isoMillis),
	})
}

// CreateItemInput representa un alta: todos los campos salvo id, todos obligatorios.
type CreateItemInput struct {
	ShortDescription string
	Category         int64
	Value            int64
	Incoming         bool
	DateEvent        time.Time
}

// UpdateItemInput es un merge-patch: nil significa "no tocar".
type UpdateItemInput struct {
	ID               int64
	ShortDescription *string
	Category         *int64
	Value            *int64
	Incoming         *bool
	DateEvent        *time.Time
}

// column es un par columna/valor a aplicar en un UPDATE.
type column struct {
	name  string
	value any
}

// columns devuelve solo las columnas presentes, en orden estable.
func (input UpdateItemInput) columns() []column {
	var out []column
	if input.ShortDescription != nil {
		out = append(out, column{"short_description", *input.ShortDescription})
	}
	if input.Category != nil {
		out = append(out, column{"category", *input.Category})
	}
	if input.Value != nil {
		out = append(out, column{"value", *input.Value})
	}
	if input.Incoming != nil {
		out = append(out, column{"incoming", *input.Incoming})
	}
	if input.DateEvent != nil {
		out = append(out, column{"date_event", *input.DateEvent})
	}
	return out
}

// IsEmpty indica que solo vino el id.
func (input UpdateItemInput) IsEmpty() bool {
	return len(input.columns()) == 0
}

// MonthRange devuelve el primer y el último instante (inclusive, al milisegundo) del mes en loc.
// El fin es "día 0 del mes siguiente" a las 23:59:59.999, igual que el cálculo histórico del servicio.
func MonthRange(year, month int, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := time.Date(year, time.Month(month)+1, 0, 23, 59, 59, int(999*time.Millisecond), loc)
	return start, end
}
