package storagetest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
)

// Recorder запоминает SQL и параметры транзакций, пришедшие в RecordingDB.
// Запросы возвращают пустой результат, exec - ноль затронутых строк.
type Recorder struct {
	mu      sync.Mutex
	queries []string
	txOpts  []driver.TxOptions
}

// Queries возвращает все выполненные запросы по порядку
func (r *Recorder) Queries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

// QueriesOn возвращает запросы, в которых встречается таблица
func (r *Recorder) QueriesOn(table string) []string {
	var out []string
	for _, q := range r.Queries() {
		if strings.Contains(q, table) {
			out = append(out, q)
		}
	}
	return out
}

// TxOptions возвращает параметры открытых транзакций
func (r *Recorder) TxOptions() []driver.TxOptions {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]driver.TxOptions(nil), r.txOpts...)
}

func (r *Recorder) record(query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, query)
}

func (r *Recorder) recordTx(opts driver.TxOptions) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txOpts = append(r.txOpts, opts)
}

// NewRecordingDB создает базу без сервера, которая только записывает запросы.
// Нужна, чтобы проверять SQL диалекта postgres без postgres.
func NewRecordingDB(t *testing.T) (*dbmetrics.DB, *Recorder) {
	t.Helper()

	rec := &Recorder{}
	db := sql.OpenDB(recordingConnector{rec: rec})
	t.Cleanup(func() { _ = db.Close() })

	return dbmetrics.Wrap(db, nil), rec
}

type recordingConnector struct {
	rec *Recorder
}

func (c recordingConnector) Connect(context.Context) (driver.Conn, error) {
	return &recordingConn{rec: c.rec}, nil
}

func (c recordingConnector) Driver() driver.Driver {
	return recordingDriver{rec: c.rec}
}

type recordingDriver struct {
	rec *Recorder
}

func (d recordingDriver) Open(string) (driver.Conn, error) {
	return &recordingConn{rec: d.rec}, nil
}

type recordingConn struct {
	rec *Recorder
}

func (c *recordingConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("storagetest: prepared statements are not supported")
}

func (c *recordingConn) Close() error { return nil }

func (c *recordingConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *recordingConn) BeginTx(_ context.Context, opts driver.TxOptions) (driver.Tx, error) {
	c.rec.recordTx(opts)
	return recordingTx{}, nil
}

func (c *recordingConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	c.rec.record(query)
	return emptyRows{}, nil
}

func (c *recordingConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.rec.record(query)
	return driver.RowsAffected(0), nil
}

type recordingTx struct{}

func (recordingTx) Commit() error   { return nil }
func (recordingTx) Rollback() error { return nil }

type emptyRows struct{}

func (emptyRows) Columns() []string              { return nil }
func (emptyRows) Close() error                   { return nil }
func (emptyRows) Next(dest []driver.Value) error { return io.EOF }
