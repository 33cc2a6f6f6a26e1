package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/sqlbuilder"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (f *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (f *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback() error {
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	txs  []*fakeTx
	opts []*sql.TxOptions
}

func (f *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx := &fakeTx{}
	f.txs = append(f.txs, tx)
	f.opts = append(f.opts, opts)
	return tx, nil
}

func TestDo_CommitsOnSuccess(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, sqlbuilder.Postgres)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].committed)
	assert.False(t, db.txs[0].rolledBack)
}

func TestDo_RollsBackOnError(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, sqlbuilder.Postgres)
	boom := errors.New("boom")

	err := m.Do(context.Background(), func(ctx context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.True(t, db.txs[0].rolledBack)
	assert.False(t, db.txs[0].committed)
}

func TestDo_NestedCallReusesTransaction(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, sqlbuilder.Postgres)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, func(context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Len(t, db.txs, 1)
}

func TestDoSerializable_RetriesSerializationFailures(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, sqlbuilder.Postgres)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &pq.Error{Code: "40001"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	require.Len(t, db.txs, 3)
	assert.True(t, db.txs[2].committed)
	assert.Equal(t, sql.LevelSerializable, db.opts[0].Isolation)
}

func TestDoSerializable_GivesUpAfterMaxRetries(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, sqlbuilder.Postgres)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return &pq.Error{Code: "40001"}
	})

	require.Error(t, err)
	assert.Equal(t, DefaultMaxRetries, calls)
}

func TestDoSerializable_DoesNotRetryOtherErrors(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, sqlbuilder.Postgres)
	boom := errors.New("boom")

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestOptions_SQLiteUsesDriverDefaults(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, sqlbuilder.SQLite)

	require.NoError(t, m.DoReadOnly(context.Background(), func(context.Context) error { return nil }))
	assert.Nil(t, db.opts[0])
}
