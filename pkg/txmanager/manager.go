package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-DetailingService/pkg/sqlerr"
)

const (
	// DefaultMaxRetries количество попыток сериализуемой транзакции
	DefaultMaxRetries = 3
	retryBackoff      = 20 * time.Millisecond
)

var (
	// ErrBeginTx ошибка открытия транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")
	// ErrCommitTx ошибка фиксации транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")
)

// TransactionManager выполняет функции в транзакции, передавая ее через контекст
type TransactionManager struct {
	db         dbmetrics.TxBeginner
	dialect    sqlbuilder.Dialect
	maxRetries int
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db dbmetrics.TxBeginner, dialect sqlbuilder.Dialect) *TransactionManager {
	return &TransactionManager{
		db:         db,
		dialect:    dialect,
		maxRetries: DefaultMaxRetries,
	}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, m.options(sql.LevelDefault, false), fn)
}

// DoSerializable выполняет fn в сериализуемой транзакции.
// При конфликте сериализации транзакция повторяется до maxRetries раз.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := m.options(sql.LevelSerializable, false)

	var err error
	for attempt := 1; attempt <= m.maxRetries; attempt++ {
		err = m.run(ctx, opts, fn)
		if err == nil || !sqlerr.IsSerializationFailure(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}
	return err
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, m.options(sql.LevelRepeatableRead, true), fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitTx, err)
	}
	return nil
}

// options SQLite не поддерживает уровни изоляции: транзакции там и так сериализуемы
func (m *TransactionManager) options(level sql.IsolationLevel, readOnly bool) *sql.TxOptions {
	if m.dialect == sqlbuilder.SQLite {
		return nil
	}
	return &sql.TxOptions{Isolation: level, ReadOnly: readOnly}
}
