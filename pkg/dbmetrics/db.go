package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// DefaultPoolStatsInterval период сбора статистики пула соединений
const DefaultPoolStatsInterval = 15 * time.Second

// DB обертка над *sql.DB, замеряющая длительность запросов.
// С nil Recorder работает как обычный *sql.DB, но реализует TxBeginner.
type DB struct {
	db       *sql.DB
	recorder Recorder
}

// Wrap оборачивает соединение. recorder может быть nil.
func Wrap(db *sql.DB, recorder Recorder) *DB {
	return &DB{db: db, recorder: recorder}
}

// WrapWithDefault оборачивает соединение и запускает сбор статистики пула
// до закрытия stopCh
func WrapWithDefault(db *sql.DB, recorder Recorder, stopCh <-chan struct{}) *DB {
	return wrapWithInterval(db, recorder, DefaultPoolStatsInterval, stopCh)
}

func wrapWithInterval(db *sql.DB, recorder Recorder, interval time.Duration, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, recorder)
	if recorder != nil {
		go wrapped.collectPoolStats(interval, stopCh)
	}
	return wrapped
}

// Unwrap возвращает исходный *sql.DB
func (d *DB) Unwrap() *sql.DB {
	return d.db
}

// ExecContext выполняет запрос без результата
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.observe(query, start, err)
	return res, err
}

// QueryContext выполняет запрос, возвращающий строки
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.observe(query, start, err)
	return rows, err
}

// QueryRowContext выполняет запрос, возвращающий одну строку
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.observe(query, start, rowErr(row))
	return row
}

// BeginTx открывает транзакцию
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, recorder: d.recorder}, nil
}

// PingContext проверяет соединение
func (d *DB) PingContext(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close закрывает соединение
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) observe(query string, start time.Time, err error) {
	if d.recorder == nil {
		return
	}
	d.recorder.ObserveDBQuery(queryOperation(query), time.Since(start), err)
}

func (d *DB) collectPoolStats(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		d.recordPoolStats()
		select {
		case <-stopCh:
			return
		case <-ticker.C:
		}
	}
}

func (d *DB) recordPoolStats() {
	stats := d.db.Stats()
	d.recorder.SetDBConnections(stats.OpenConnections, stats.InUse, stats.Idle)
}

// Tx транзакция с замером запросов
type Tx struct {
	tx       *sql.Tx
	recorder Recorder
}

// ExecContext выполняет запрос внутри транзакции
func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.observe(query, start, err)
	return res, err
}

// QueryContext выполняет запрос внутри транзакции
func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.observe(query, start, err)
	return rows, err
}

// QueryRowContext выполняет запрос внутри транзакции
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.observe(query, start, rowErr(row))
	return row
}

// Commit фиксирует транзакцию
func (t *Tx) Commit() error {
	start := time.Now()
	err := t.tx.Commit()
	t.observe("COMMIT", start, err)
	return err
}

// Rollback откатывает транзакцию
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

func (t *Tx) observe(query string, start time.Time, err error) {
	if t.recorder == nil {
		return
	}
	t.recorder.ObserveDBQuery(queryOperation(query), time.Since(start), err)
}

// rowErr ошибка выполнения запроса; отсутствие строк ошибкой не считаем
func rowErr(row *sql.Row) error {
	if err := row.Err(); err != nil && err != sql.ErrNoRows {
		return err
	}
	return nil
}

// queryOperation первое ключевое слово запроса в нижнем регистре (select, insert, ...)
func queryOperation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
