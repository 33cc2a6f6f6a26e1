package blackout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

const tableName = "blackout_dates"

// Repository репозиторий заблокированных администратором дат
type Repository struct {
	db DBExecutor
	sb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor, dialect sqlbuilder.Dialect) *Repository {
	return &Repository{
		db: db,
		sb: sqlbuilder.New(dialect),
	}
}

// Upsert блокирует дату. Если дата уже заблокирована, обновляется только причина.
func (r *Repository) Upsert(ctx context.Context, entry *domain.BlackoutEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Insert(tableName).
		Columns("blackout_date", "reason", "created_at").
		Values(entry.Date, entry.Reason, types.NewTimestamp(entry.CreatedAt)).
		Suffix("ON CONFLICT (blackout_date) DO UPDATE SET reason = EXCLUDED.reason").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// Get возвращает блокировку даты
func (r *Repository) Get(ctx context.Context, date types.Date) (*domain.BlackoutEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select("blackout_date", "reason", "created_at").
		From(tableName).
		Where(squirrel.Eq{"blackout_date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := scanEntry(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlackoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan blackout: %w", ErrScanRow, err)
	}

	return entry, nil
}

// Delete снимает блокировку даты
func (r *Repository) Delete(ctx context.Context, date types.Date) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Delete(tableName).
		Where(squirrel.Eq{"blackout_date": date}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBlackoutNotFound
	}

	return nil
}

// ListInRange возвращает блокировки в диапазоне дат включительно
func (r *Repository) ListInRange(ctx context.Context, start, end types.Date) ([]*domain.BlackoutEntry, error) {
	return r.list(ctx, "ListInRange", squirrel.And{
		squirrel.GtOrEq{"blackout_date": start},
		squirrel.LtOrEq{"blackout_date": end},
	})
}

// ListAll возвращает все блокировки по возрастанию даты
func (r *Repository) ListAll(ctx context.Context) ([]*domain.BlackoutEntry, error) {
	return r.list(ctx, "ListAll", nil)
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.BlackoutEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.sb.Select("blackout_date", "reason", "created_at").
		From(tableName).
		OrderBy("blackout_date ASC")
	if where != nil {
		selectBuilder = selectBuilder.Where(where)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	entries := make([]*domain.BlackoutEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return entries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*domain.BlackoutEntry, error) {
	var (
		entry     domain.BlackoutEntry
		createdAt types.Timestamp
	)
	if err := row.Scan(&entry.Date, &entry.Reason, &createdAt); err != nil {
		return nil, err
	}
	entry.CreatedAt = createdAt.Time
	return &entry, nil
}
