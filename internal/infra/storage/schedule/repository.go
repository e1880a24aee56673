package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberService/pkg/psqlbuilder"
)

// Repository репозиторий недельного расписания и исключений на дату
// Интервалы хранятся в JSONB колонке и сериализуются через encoding/json
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWeeklyByBarberAndWeekday получает недельное расписание барбера на день недели
// Возвращает ErrWeeklyNotFound, если записи нет - для вызывающего это
// равнозначно отсутствию доступности в этот день
func (r *Repository) GetWeeklyByBarberAndWeekday(ctx context.Context, barberID int64, weekday int) (*domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"barber_id",
		"weekday",
		"is_active",
		"intervals",
		"created_at",
		"updated_at",
	).
		From("weekly_availability").
		Where(squirrel.Eq{"barber_id": barberID, "weekday": weekday}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyByBarberAndWeekday - build select query: %v", ErrBuildQuery, err)
	}

	var weekly domain.WeeklyAvailability
	var rawIntervals []byte
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&weekly.ID,
		&weekly.BarberID,
		&weekly.Weekday,
		&weekly.IsActive,
		&rawIntervals,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrWeeklyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyByBarberAndWeekday - scan row: %v", ErrScanRow, err)
	}

	if err := json.Unmarshal(rawIntervals, &weekly.Intervals); err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyByBarberAndWeekday - decode intervals: %v", ErrScanRow, err)
	}

	weekly.CreatedAt = createdAt.Time
	weekly.UpdatedAt = updatedAt.Time

	return &weekly, nil
}

// GetWeeklyByBarber получает всё недельное расписание барбера (до 7 записей)
func (r *Repository) GetWeeklyByBarber(ctx context.Context, barberID int64) ([]*domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"barber_id",
		"weekday",
		"is_active",
		"intervals",
		"created_at",
		"updated_at",
	).
		From("weekly_availability").
		Where(squirrel.Eq{"barber_id": barberID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyByBarber - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyByBarber - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.WeeklyAvailability, 0)

	for rows.Next() {
		var weekly domain.WeeklyAvailability
		var rawIntervals []byte
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&weekly.ID,
			&weekly.BarberID,
			&weekly.Weekday,
			&weekly.IsActive,
			&rawIntervals,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetWeeklyByBarber - scan row: %v", ErrScanRow, err)
		}

		if err := json.Unmarshal(rawIntervals, &weekly.Intervals); err != nil {
			return nil, fmt.Errorf("%w: GetWeeklyByBarber - decode intervals: %v", ErrScanRow, err)
		}

		weekly.CreatedAt = createdAt.Time
		weekly.UpdatedAt = updatedAt.Time

		result = append(result, &weekly)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyByBarber - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// UpsertWeekly создает или заменяет недельное расписание барбера на день недели
// Инвариант "не больше одной записи на (барбер, день недели)" обеспечивается
// уникальным индексом и ON CONFLICT
func (r *Repository) UpsertWeekly(ctx context.Context, weekly *domain.WeeklyAvailability) (*domain.WeeklyAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rawIntervals, err := json.Marshal(weekly.Intervals)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertWeekly: %v", ErrEncodeIntervals, err)
	}

	query, args, err := psqlbuilder.Insert("weekly_availability").
		Columns("barber_id", "weekday", "is_active", "intervals").
		Values(weekly.BarberID, weekly.Weekday, weekly.IsActive, rawIntervals).
		Suffix(`ON CONFLICT (barber_id, weekday) DO UPDATE
			SET is_active = EXCLUDED.is_active,
			    intervals = EXCLUDED.intervals,
			    updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertWeekly - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&weekly.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertWeekly - execute insert: %v", ErrExecQuery, err)
	}

	weekly.CreatedAt = createdAt.Time
	weekly.UpdatedAt = updatedAt.Time

	return weekly, nil
}

// GetExceptionByBarberAndDate получает исключение барбера на конкретную дату
// Возвращает ErrExceptionNotFound, если исключения нет - тогда действует
// недельное расписание
func (r *Repository) GetExceptionByBarberAndDate(ctx context.Context, barberID int64, date time.Time) (*domain.DailyException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"barber_id",
		"date",
		"type",
		"intervals",
		"created_at",
		"updated_at",
	).
		From("daily_exceptions").
		Where(squirrel.Eq{"barber_id": barberID, "date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionByBarberAndDate - build select query: %v", ErrBuildQuery, err)
	}

	var exception domain.DailyException
	var rawIntervals []byte
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&exception.ID,
		&exception.BarberID,
		&exception.Date,
		&exception.Type,
		&rawIntervals,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrExceptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionByBarberAndDate - scan row: %v", ErrScanRow, err)
	}

	if err := json.Unmarshal(rawIntervals, &exception.Intervals); err != nil {
		return nil, fmt.Errorf("%w: GetExceptionByBarberAndDate - decode intervals: %v", ErrScanRow, err)
	}

	exception.CreatedAt = createdAt.Time
	exception.UpdatedAt = updatedAt.Time

	return &exception, nil
}

// GetExceptionsByBarberAndPeriod получает исключения барбера за период
// Используется для отображения календаря барбера
func (r *Repository) GetExceptionsByBarberAndPeriod(ctx context.Context, barberID int64, from, to time.Time) ([]*domain.DailyException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"barber_id",
		"date",
		"type",
		"intervals",
		"created_at",
		"updated_at",
	).
		From("daily_exceptions").
		Where(squirrel.Eq{"barber_id": barberID}).
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.LtOrEq{"date": to}).
		OrderBy("date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByBarberAndPeriod - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByBarberAndPeriod - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.DailyException, 0)

	for rows.Next() {
		var exception domain.DailyException
		var rawIntervals []byte
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&exception.ID,
			&exception.BarberID,
			&exception.Date,
			&exception.Type,
			&rawIntervals,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetExceptionsByBarberAndPeriod - scan row: %v", ErrScanRow, err)
		}

		if err := json.Unmarshal(rawIntervals, &exception.Intervals); err != nil {
			return nil, fmt.Errorf("%w: GetExceptionsByBarberAndPeriod - decode intervals: %v", ErrScanRow, err)
		}

		exception.CreatedAt = createdAt.Time
		exception.UpdatedAt = updatedAt.Time

		result = append(result, &exception)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByBarberAndPeriod - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// UpsertException создает или заменяет исключение барбера на дату
func (r *Repository) UpsertException(ctx context.Context, exception *domain.DailyException) (*domain.DailyException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rawIntervals, err := json.Marshal(exception.Intervals)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertException: %v", ErrEncodeIntervals, err)
	}

	query, args, err := psqlbuilder.Insert("daily_exceptions").
		Columns("barber_id", "date", "type", "intervals").
		Values(exception.BarberID, exception.Date, exception.Type, rawIntervals).
		Suffix(`ON CONFLICT (barber_id, date) DO UPDATE
			SET type = EXCLUDED.type,
			    intervals = EXCLUDED.intervals,
			    updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertException - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&exception.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertException - execute insert: %v", ErrExecQuery, err)
	}

	exception.CreatedAt = createdAt.Time
	exception.UpdatedAt = updatedAt.Time

	return exception, nil
}

// DeleteException удаляет исключение барбера на дату
// После удаления снова действует недельное расписание
func (r *Repository) DeleteException(ctx context.Context, barberID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("daily_exceptions").
		Where(squirrel.Eq{"barber_id": barberID, "date": date}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteException - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteException - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteException - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrExceptionNotFound
	}

	return nil
}
