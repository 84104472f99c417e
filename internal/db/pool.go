package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationName = "ledger-api"

type poolPinger interface {
	Ping(ctx context.Context) error
	Close()
}

var (
	newPool = func(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
		poolConfig, err := pgxpool.ParseConfig(databaseURL)
		if err != nil {
			return nil, err
		}
		poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName
		return pgxpool.NewWithConfig(ctx, poolConfig)
	}
	pingPool = func(ctx context.Context, pool poolPinger) error {
		return pool.Ping(ctx)
	}
	closePool = func(pool poolPinger) {
		pool.Close()
	}
)

// NewPool crea el pool de conexiones a PostgreSQL que vive todo el proceso.
// Se usa un timeout corto para evitar que el arranque quede colgado si la DB no responde.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := newPool(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	// Validación temprana: asegura que la app no arranca "a medias".
	if err := pingPool(ctx, pool); err != nil {
		closePool(pool)
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}
