package cli

import (
	"context"
	"database/sql"
	"fmt"

	"pet-care-manager/internal/adapters/storage/postgres"
	"pet-care-manager/internal/adapters/storage/sqlite"
	"pet-care-manager/internal/adapters/storage/sqlstore"
	"pet-care-manager/internal/config"
	"pet-care-manager/internal/router"
)

// openStore abre la base configurada y aplica el schema. Con driver memory
// devuelve (nil, nil, nil) y el router usa su store en memoria.
func openStore(ctx context.Context, cfg config.Storage) (router.Store, *sql.DB, error) {
	var (
		db  *sql.DB
		d   sqlstore.Dialect
		err error
	)
	switch cfg.Driver {
	case config.StorageMemory, "":
		return nil, nil, nil
	case config.StoragePostgres:
		db, err = postgres.Open(ctx, cfg.DSN)
		d = sqlstore.Postgres
	case config.StorageSQLite:
		db, err = sqlite.Open(ctx, cfg.DSN)
		d = sqlstore.SQLite
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, nil, err
	}

	if err := sqlstore.Migrate(ctx, db, d); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return sqlstore.New(db, d), db, nil
}
