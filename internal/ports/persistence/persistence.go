package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Persistence минимальный набор операций над SQL-хранилищем
type Persistence interface {
	Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	Exec(ctx context.Context, query string, args ...interface{}) error
	ExecWithResult(ctx context.Context, query string, args ...interface{}) (int64, error)
	NamedExec(ctx context.Context, query string, arg interface{}) error
	QueryRow(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Ping(ctx context.Context) error
}
