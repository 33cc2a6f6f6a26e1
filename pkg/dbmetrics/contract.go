package dbmetrics

import (
	"context"
	"database/sql"
	"time"
)

// DBExecutor общий интерфейс для выполнения запросов (*sql.DB, *sql.Tx, *DB, *Tx)
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor активная транзакция
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

// TxBeginner умеет открывать транзакции
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error)
}

// Recorder получатель метрик БД (реализуется pkg/metrics)
type Recorder interface {
	ObserveDBQuery(operation string, duration time.Duration, err error)
	SetDBConnections(open, inUse, idle int)
}
