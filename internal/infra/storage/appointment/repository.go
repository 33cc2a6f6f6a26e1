package appointment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-DetailingService/pkg/sqlerr"
	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

const tableName = "appointments"

var columns = []string{
	"id",
	"client_name",
	"email",
	"vehicle",
	"vehicle_condition",
	"package_id",
	"addon_ids",
	"appointment_date",
	"slot",
	"total_price",
	"status",
	"decline_reason",
	"account_id",
	"created_at",
	"updated_at",
}

// slotOrder утро раньше вечера независимо от алфавита
const slotOrder = "CASE slot WHEN 'morning' THEN 0 ELSE 1 END"

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
	sb sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor, dialect sqlbuilder.Dialect) *Repository {
	return &Repository{
		db: db,
		sb: sqlbuilder.New(dialect),
	}
}

// Create сохраняет новую запись. ID и временные метки задает вызывающий код.
// Если (дата, слот) уже занят незакрытой записью, уникальный индекс
// appointments_occupied_slot_uidx отклоняет вставку и возвращается ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	addonIDs, err := encodeAddonIDs(a.AddonIDs)
	if err != nil {
		return fmt.Errorf("%w: Create - encode addon ids: %v", ErrBuildQuery, err)
	}

	query, args, err := r.sb.Insert(tableName).
		Columns(columns...).
		Values(
			a.ID,
			a.ClientName,
			a.Email,
			a.Vehicle,
			a.Condition,
			a.PackageID,
			addonIDs,
			a.Date,
			a.Slot,
			a.TotalPrice,
			a.Status,
			a.DeclineReason,
			a.AccountID,
			types.NewTimestamp(a.CreatedAt),
			types.NewTimestamp(a.UpdatedAt),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if sqlerr.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s %s", ErrSlotTaken, a.Date, a.Slot)
		}
		return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return a, nil
}

// List возвращает записи по фильтру, по дате и слоту по возрастанию
func (r *Repository) List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.sb.Select(columns...).From(tableName)

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": *filter.EndDate})
	}
	if filter.Slot != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot": *filter.Slot})
	}
	if filter.AccountID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"account_id": *filter.AccountID})
	}

	query, args, err := selectBuilder.
		OrderBy("appointment_date ASC", slotOrder, "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListOccupyingInRange возвращает записи, занимающие слоты (статус не declined), в диапазоне дат.
// Строки блокируются (FOR UPDATE) только на postgres и только если транзакция
// запросила блокировку через dbmetrics.WithRowLock.
func (r *Repository) ListOccupyingInRange(ctx context.Context, start, end types.Date) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.sb.Select(columns...).
		From(tableName).
		Where(squirrel.GtOrEq{"appointment_date": start}).
		Where(squirrel.LtOrEq{"appointment_date": end}).
		Where(squirrel.NotEq{"status": domain.StatusDeclined}).
		OrderBy("appointment_date ASC", slotOrder)

	if dbmetrics.RowLockRequested(ctx) && r.sb.Dialect().SupportsRowLocks() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOccupyingInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOccupyingInRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus меняет статус записи с from на to (compare-and-set).
// Возвращает ErrStatusConflict, если текущий статус уже не from,
// и ErrAppointmentNotFound, если записи нет.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus, declineReason *string, updatedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Update(tableName).
		Set("status", to).
		Set("decline_reason", declineReason).
		Set("updated_at", types.NewTimestamp(updatedAt)).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected > 0 {
		return nil
	}

	// Ничего не обновили: записи нет или статус уже другой
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrStatusConflict
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a             domain.Appointment
		addonIDs      []byte
		declineReason sql.NullString
		accountID     sql.NullString
		createdAt     types.Timestamp
		updatedAt     types.Timestamp
	)

	err := row.Scan(
		&a.ID,
		&a.ClientName,
		&a.Email,
		&a.Vehicle,
		&a.Condition,
		&a.PackageID,
		&addonIDs,
		&a.Date,
		&a.Slot,
		&a.TotalPrice,
		&a.Status,
		&declineReason,
		&accountID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if a.AddonIDs, err = decodeAddonIDs(addonIDs); err != nil {
		return nil, err
	}
	if declineReason.Valid {
		a.DeclineReason = &declineReason.String
	}
	if accountID.Valid {
		a.AccountID = &accountID.String
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %w", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %w", ErrScanRow, err)
	}

	return appointments, nil
}

func encodeAddonIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeAddonIDs(raw []byte) ([]string, error) {
	ids := make([]string, 0)
	if len(raw) == 0 {
		return ids, nil
	}
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode addon_ids: %w", err)
	}
	return ids, nil
}
