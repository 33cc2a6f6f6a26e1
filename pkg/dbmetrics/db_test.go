package dbmetrics

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type recordedQuery struct {
	operation string
	failed    bool
}

type fakeRecorder struct {
	mu      sync.Mutex
	queries []recordedQuery
	open    int
}

func (f *fakeRecorder) ObserveDBQuery(operation string, _ time.Duration, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, recordedQuery{operation: operation, failed: err != nil})
}

func (f *fakeRecorder) SetDBConnections(open, _, _ int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = open
}

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDB_RecordsQueries(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{}
	db := Wrap(openMemoryDB(t), rec)

	_, err := db.ExecContext(ctx, "CREATE TABLE items (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&n))

	_, err = db.ExecContext(ctx, "INSERT INTO missing_table VALUES (1)")
	require.Error(t, err)

	require.Len(t, rec.queries, 3)
	assert.Equal(t, recordedQuery{operation: "create"}, rec.queries[0])
	assert.Equal(t, recordedQuery{operation: "select"}, rec.queries[1])
	assert.Equal(t, recordedQuery{operation: "insert", failed: true}, rec.queries[2])
}

func TestGetExecutor_UsesTransactionFromContext(t *testing.T) {
	ctx := context.Background()
	db := Wrap(openMemoryDB(t), nil)

	_, err := db.ExecContext(ctx, "CREATE TABLE items (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)

	assert.Same(t, db, GetExecutor(ctx, db))
	assert.False(t, IsInTransaction(ctx))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	txCtx := WithTx(ctx, tx)

	assert.True(t, IsInTransaction(txCtx))
	assert.Equal(t, tx, GetExecutor(txCtx, db))

	_, err = GetExecutor(txCtx, db).ExecContext(txCtx, "INSERT INTO items (id) VALUES (1)")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&n))
	assert.Equal(t, 0, n)
}

func TestRowLockRequested_OnlyInsideTransaction(t *testing.T) {
	ctx := context.Background()
	db := Wrap(openMemoryDB(t), nil)

	assert.False(t, RowLockRequested(ctx))
	assert.False(t, RowLockRequested(WithRowLock(ctx)))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()
	txCtx := WithTx(ctx, tx)

	assert.False(t, RowLockRequested(txCtx))
	assert.True(t, RowLockRequested(WithRowLock(txCtx)))
}

func TestWrap_CollectsPoolStats(t *testing.T) {
	rec := &fakeRecorder{}
	stopCh := make(chan struct{})
	db := wrapWithInterval(openMemoryDB(t), rec, 10*time.Millisecond, stopCh)
	require.NoError(t, db.PingContext(context.Background()))

	assert.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return rec.open >= 1
	}, time.Second, 10*time.Millisecond)
	close(stopCh)
}

func TestQueryOperation(t *testing.T) {
	assert.Equal(t, "select", queryOperation("  SELECT id FROM appointments"))
	assert.Equal(t, "update", queryOperation("UPDATE appointments SET status = $1"))
	assert.Equal(t, "unknown", queryOperation(""))
}
