package auth

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

// DBOption configures OpenDB
type DBOption func(*dbConfig)

type dbConfig struct {
	debug   bool
	verbose bool
}

// WithQueryDebug installs the bundebug query hook. verbose logs every query,
// otherwise only failed ones are printed.
func WithQueryDebug(verbose bool) DBOption {
	return func(c *dbConfig) {
		c.debug = true
		c.verbose = verbose
	}
}

// OpenDB opens a sqlite database behind bun
func OpenDB(dsn string, opts ...DBOption) (*bun.DB, error) {
	cfg := &dbConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open database")
	}

	// sqlite serializes writers, a single connection also keeps
	// shared in-memory databases alive for the life of the pool
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if cfg.debug {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(cfg.verbose),
			bundebug.WithEnabled(true),
		))
	}

	return db, nil
}

// Models returns the bun models owned by this package
func Models() []any {
	return []any{
		(*User)(nil),
	}
}

// Migrate creates the tables for models when missing
func Migrate(ctx context.Context, db bun.IDB, models ...any) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to migrate schema")
		}
	}
	return nil
}
