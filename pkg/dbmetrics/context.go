package dbmetrics

import "context"

type txKey struct{}

type rowLockKey struct{}

// WithTx кладет транзакцию в контекст
func WithTx(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext возвращает транзакцию из контекста, если она есть
func TxFromContext(ctx context.Context) (TxExecutor, bool) {
	tx, ok := ctx.Value(txKey{}).(TxExecutor)
	return tx, ok && tx != nil
}

// IsInTransaction true, если запрос выполняется внутри транзакции
func IsInTransaction(ctx context.Context) bool {
	_, ok := TxFromContext(ctx)
	return ok
}

// GetExecutor возвращает транзакцию из контекста или db, если транзакции нет.
// Репозитории вызывают его в начале каждого метода.
func GetExecutor(ctx context.Context, db DBExecutor) DBExecutor {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return db
}

// WithRowLock помечает, что чтения внутри транзакции должны блокировать строки (FOR UPDATE).
// Без пометки чтения не блокируют: read-only транзакции postgres запрещают FOR UPDATE.
func WithRowLock(ctx context.Context) context.Context {
	return context.WithValue(ctx, rowLockKey{}, true)
}

// RowLockRequested true, если запрос внутри транзакции и вызывающий код попросил блокировку строк
func RowLockRequested(ctx context.Context) bool {
	locked, _ := ctx.Value(rowLockKey{}).(bool)
	return locked && IsInTransaction(ctx)
}
