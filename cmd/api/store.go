package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Lelo88/ledger-api-golang/internal/config"
	"github.com/Lelo88/ledger-api-golang/internal/db"
	"github.com/Lelo88/ledger-api-golang/internal/items"
)

// appStore es el store que vive todo el proceso: repositorio de items + ping para /ready.
type appStore interface {
	items.Repository
	Ping(ctx context.Context) error
	Close()
}

type postgresStore struct {
	*items.PostgresRepository
	pool *pgxpool.Pool
}

func (store *postgresStore) Ping(ctx context.Context) error {
	return store.pool.Ping(ctx)
}

func (store *postgresStore) Close() {
	store.pool.Close()
}

type sqliteStore struct {
	*items.SQLiteRepository
	database *sql.DB
}

func (store *sqliteStore) Ping(ctx context.Context) error {
	return store.database.PingContext(ctx)
}

func (store *sqliteStore) Close() {
	_ = store.database.Close()
}

// openStore elige el backend por el esquema de DATABASE_URL, migra si corresponde y
// devuelve el store listo para inyectar.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (appStore, error) {
	driver, err := db.DriverFor(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	switch driver {
	case db.DriverPostgres:
		if cfg.MigrateOnStart {
			if err := db.MigratePostgres(cfg.DatabaseURL); err != nil {
				return nil, err
			}
			log.Info("migrations applied", zap.String("driver", driver))
		}

		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &postgresStore{
			PostgresRepository: items.NewPostgresRepository(pool, cfg.Location),
			pool:               pool,
		}, nil

	case db.DriverSQLite:
		database, err := db.OpenSQLite(ctx, db.SQLiteDSN(cfg.DatabaseURL))
		if err != nil {
			return nil, err
		}
		if cfg.MigrateOnStart {
			if err := db.MigrateSQLite(database); err != nil {
				_ = database.Close()
				return nil, err
			}
			log.Info("migrations applied", zap.String("driver", driver))
		}
		return &sqliteStore{
			SQLiteRepository: items.NewSQLiteRepository(database, cfg.Location),
			database:         database,
		}, nil
	}

	return nil, fmt.Errorf("unsupported driver %q", driver)
}
