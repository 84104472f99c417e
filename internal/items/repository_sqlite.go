package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLiteRepository implementa Repository sobre SQLite (modernc.org/sqlite).
// date_event se guarda en milisegundos Unix para que comparar y ordenar sea numérico.
type SQLiteRepository struct {
	database *sql.DB
	location *time.Location
}

// NewSQLiteRepository crea el repositorio. database ya debe tener el esquema migrado.
func NewSQLiteRepository(database *sql.DB, location *time.Location) *SQLiteRepository {
	if location == nil {
		location = time.Local
	}
	return &SQLiteRepository{database: database, location: location}
}

func (repository *SQLiteRepository) Create(ctx context.Context, input CreateItemInput) error {
	const query = `
		INSERT INTO item (short_description, category, value, incoming, date_event)
		VALUES (?, ?, ?, ?, ?);
	`

	_, err := repository.database.ExecContext(ctx, query,
		input.ShortDescription, input.Category, input.Value, input.Incoming, input.DateEvent.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (repository *SQLiteRepository) Update(ctx context.Context, input UpdateItemInput) error {
	columns := input.columns()
	if len(columns) == 0 {
		return nil
	}

	assignments := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns)+1)
	for _, column := range columns {
		assignments = append(assignments, column.name+" = ?")
		if date, ok := column.value.(time.Time); ok {
			args = append(args, date.UnixMilli())
			continue
		}
		args = append(args, column.value)
	}
	args = append(args, input.ID)

	query := fmt.Sprintf(`UPDATE item SET %s WHERE id = ?;`, strings.Join(assignments, ", "))

	if _, err := repository.database.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update item %d: %w", input.ID, err)
	}
	return nil
}

func (repository *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	if _, err := repository.database.ExecContext(ctx, `DELETE FROM item WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	return nil
}

func (repository *SQLiteRepository) FindByID(ctx context.Context, id int64) (Item, bool, error) {
	row := repository.database.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM item WHERE id = ?;`, id)

	item, err := repository.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Item{}, false, nil
		}
		return Item{}, false, fmt.Errorf("find item %d: %w", id, err)
	}
	return item, true, nil
}

func (repository *SQLiteRepository) FindByCategory(ctx context.Context, category int64) ([]Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM item
		WHERE category = ?
		ORDER BY date_event ASC, id ASC;
	`
	return repository.list(ctx, query, category)
}

func (repository *SQLiteRepository) FindByMonth(ctx context.Context, year, month int) ([]Item, error) {
	start, end := MonthRange(year, month, repository.location)

	query := `
		SELECT ` + itemColumns + `
		FROM item
		WHERE date_event >= ? AND date_event <= ?
		ORDER BY date_event ASC, id ASC;
	`
	return repository.list(ctx, query, start.UnixMilli(), end.UnixMilli())
}

func (repository *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]Item, error) {
	rows, err := repository.database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		item, err := repository.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}

// scanner cubre *sql.Row y *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (repository *SQLiteRepository) scan(row scanner) (Item, error) {
	var (
		item      Item
		incoming  sql.NullBool
		dateEvent int64
	)
	if err := row.Scan(&item.ID, &item.ShortDescription, &item.Category, &item.Value, &incoming, &dateEvent); err != nil {
		return Item{}, err
	}

	if incoming.Valid {
		value := incoming.Bool
		item.Incoming = &value
	}
	item.DateEvent = time.UnixMilli(dateEvent).In(repository.location)

	return item, nil
}
