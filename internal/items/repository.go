package items

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository es la capacidad de persistencia de items.
// Cada operación es una única sentencia atómica contra el store; no hay transacciones.
type Repository interface {
	Create(ctx context.Context, input CreateItemInput) error
	// Update aplica solo los campos presentes. Sin campos es un no-op sin error.
	Update(ctx context.Context, input UpdateItemInput) error
	// Delete no informa si la fila existía.
	Delete(ctx context.Context, id int64) error
	// FindByID devuelve ok=false (sin error) si no existe.
	FindByID(ctx context.Context, id int64) (Item, bool, error)
	FindByCategory(ctx context.Context, category int64) ([]Item, error)
	FindByMonth(ctx context.Context, year, month int) ([]Item, error)
}

// Querier es lo mínimo que el repositorio necesita de pgx.
// *pgxpool.Pool lo cumple; en tests se reemplaza por un fake.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const itemColumns = "id, short_description, category, value, incoming, date_event"

// PostgresRepository accede a la tabla item en PostgreSQL.
// Contiene SQL y mapeo DB → modelo.
type PostgresRepository struct {
	database Querier
	location *time.Location
}

// NewPostgresRepository crea el repositorio. location define los bordes de cada mes.
func NewPostgresRepository(database Querier, location *time.Location) *PostgresRepository {
	return &PostgresRepository{database: database, location: location}
}

// Create inserta un item; el id lo asigna la DB (identity).
func (repository *PostgresRepository) Create(ctx context.Context, input CreateItemInput) error {
	const query = `
		INSERT INTO item (short_description, category, value, incoming, date_event)
		VALUES ($1, $2, $3, $4, $5);
	`

	_, err := repository.database.Exec(ctx, query,
		input.ShortDescription, input.Category, input.Value, input.Incoming, input.DateEvent)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Update arma el SET solo con las columnas presentes (merge-patch).
func (repository *PostgresRepository) Update(ctx context.Context, input UpdateItemInput) error {
	columns := input.columns()
	if len(columns) == 0 {
		// Nada que escribir: update vacío, no-op.
		return nil
	}

	assignments := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns)+1)
	for i, column := range columns {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column.name, i+1))
		args = append(args, column.value)
	}
	args = append(args, input.ID)

	query := fmt.Sprintf(`UPDATE item SET %s WHERE id = $%d;`, strings.Join(assignments, ", "), len(args))

	if _, err := repository.database.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update item %d: %w", input.ID, err)
	}
	return nil
}

// Delete borra la fila si existe.
func (repository *PostgresRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM item WHERE id = $1;`

	if _, err := repository.database.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	return nil
}

// FindByID busca por id. Un miss no es error.
func (repository *PostgresRepository) FindByID(ctx context.Context, id int64) (Item, bool, error) {
	query := `SELECT ` + itemColumns + ` FROM item WHERE id = $1;`

	var item Item
	err := repository.database.QueryRow(ctx, query, id).
		Scan(&item.ID, &item.ShortDescription, &item.Category, &item.Value, &item.Incoming, &item.DateEvent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, false, nil
		}
		return Item{}, false, fmt.Errorf("find item %d: %w", id, err)
	}
	return item, true, nil
}

// FindByCategory devuelve los items de la categoría ordenados por fecha ascendente.
func (repository *PostgresRepository) FindByCategory(ctx context.Context, category int64) ([]Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM item
		WHERE category = $1
		ORDER BY date_event ASC, id ASC;
	`
	return repository.list(ctx, query, category)
}

// FindByMonth devuelve los items con date_event dentro de [inicio, fin] del mes, ascendente.
func (repository *PostgresRepository) FindByMonth(ctx context.Context, year, month int) ([]Item, error) {
	start, end := MonthRange(year, month, repository.location)

	query := `
		SELECT ` + itemColumns + `
		FROM item
		WHERE date_event >= $1 AND date_event <= $2
		ORDER BY date_event ASC, id ASC;
	`
	return repository.list(ctx, query, start, end)
}

// list ejecuta una consulta de items y garantiza slice no nil (se serializa como []).
func (repository *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]Item, error) {
	rows, err := repository.database.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.ShortDescription, &item.Category, &item.Value, &item.Incoming, &item.DateEvent); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}
